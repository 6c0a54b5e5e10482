// Package service implements the listing search engine: search, count,
// related items and facet aggregation. Every operation is total. Store
// failures are logged and degrade to empty results.
package service

import (
	"context"
	"time"

	"marketplace_backend/internal/listings/repository"
	"marketplace_backend/internal/listings/transport"
	"marketplace_backend/platform/config"
	"marketplace_backend/platform/logger"
)

// FacetCache stores the computed facet universe.
type FacetCache interface {
	Get(ctx context.Context) (transport.AvailableFilters, bool)
	Set(ctx context.Context, filters transport.AvailableFilters)
}

type Service struct {
	store  repository.Store
	cache  FacetCache
	cfg    config.SearchConfig
	log    *logger.Logger
	mapper mapper
	now    func() time.Time
}

// New creates the search engine. cache may be nil.
func New(store repository.Store, cache FacetCache, cfg config.SearchConfig, log *logger.Logger) *Service {
	return &Service{
		store:  store,
		cache:  cache,
		cfg:    cfg,
		log:    log,
		mapper: newMapper(cfg.GetImageBaseURL()),
		now:    time.Now,
	}
}

// Ready reports whether the backing store answers.
func (s *Service) Ready(ctx context.Context) error {
	return s.store.Ping(ctx)
}
