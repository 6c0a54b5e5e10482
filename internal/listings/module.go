// Package listings wires the listing search engine into the HTTP server.
package listings

import (
	apphttp "marketplace_backend/internal/http"
	"marketplace_backend/internal/listings/handler"
	"marketplace_backend/internal/listings/repository"
	"marketplace_backend/internal/listings/service"
	"marketplace_backend/platform/config"
	"marketplace_backend/platform/logger"
	"marketplace_backend/platform/validator"
)

type Module struct {
	handler *handler.Handler
}

// NewModule builds the listings module. cache may be nil when Redis is not
// configured.
func NewModule(store repository.Store, cache service.FacetCache, cfg config.SearchConfig, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(store, cache, cfg, log)
	h := handler.New(svc, val, cfg)

	return &Module{handler: h}
}

func (m *Module) Name() string {
	return "listings"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/listings")
	m.handler.RegisterRoutes(group)
}

var _ apphttp.Module = (*Module)(nil)
