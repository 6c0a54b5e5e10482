// Package cache keeps the computed facet universe in Redis.
package cache

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"marketplace_backend/internal/listings/transport"
	"marketplace_backend/platform/config"
	"marketplace_backend/platform/logger"

	"github.com/redis/go-redis/v9"
)

// FacetsKey holds the JSON-encoded facet universe. Bump the version when
// the AvailableFilters shape changes.
const FacetsKey = "listings:facets:v1"

const defaultTTL = 5 * time.Minute

// NewRedisClient opens a client from the configured Redis URL.
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	if cfg.GetRedisTLSInsecure() {
		if opt.TLSConfig != nil {
			opt.TLSConfig = opt.TLSConfig.Clone()
			opt.TLSConfig.InsecureSkipVerify = true
		} else {
			opt.TLSConfig = &tls.Config{InsecureSkipVerify: true}
		}
	}

	return redis.NewClient(opt), nil
}

// Facets caches transport.AvailableFilters. Redis failures are logged and
// treated as a cache miss.
type Facets struct {
	rdb *redis.Client
	ttl time.Duration
	log *logger.Logger
}

func NewFacets(rdb *redis.Client, ttl time.Duration, log *logger.Logger) *Facets {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Facets{rdb: rdb, ttl: ttl, log: log}
}

func (f *Facets) Get(ctx context.Context) (transport.AvailableFilters, bool) {
	data, err := f.rdb.Get(ctx, FacetsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return transport.AvailableFilters{}, false
	}
	if err != nil {
		f.log.WithContext(ctx).Warn("facet cache read failed", slog.String("error", err.Error()))
		return transport.AvailableFilters{}, false
	}

	var filters transport.AvailableFilters
	if err := json.Unmarshal(data, &filters); err != nil {
		f.log.WithContext(ctx).Warn("facet cache entry unreadable", slog.String("error", err.Error()))
		return transport.AvailableFilters{}, false
	}
	return filters, true
}

func (f *Facets) Set(ctx context.Context, filters transport.AvailableFilters) {
	data, err := json.Marshal(filters)
	if err != nil {
		f.log.WithContext(ctx).Warn("facet cache encode failed", slog.String("error", err.Error()))
		return
	}
	if err := f.rdb.Set(ctx, FacetsKey, data, f.ttl).Err(); err != nil {
		f.log.WithContext(ctx).Warn("facet cache write failed", slog.String("error", err.Error()))
	}
}

// Invalidate drops the cached universe.
func (f *Facets) Invalidate(ctx context.Context) error {
	return f.rdb.Del(ctx, FacetsKey).Err()
}
