package handler

import (
	"net/http"
	"strconv"

	"marketplace_backend/internal/listings/service"
	"marketplace_backend/internal/listings/transport"
	"marketplace_backend/platform/apperr"
	"marketplace_backend/platform/config"
	"marketplace_backend/platform/httpkit"
	"marketplace_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest = "invalid request"
	msgInvalidID      = "invalid listing id"
	msgLimitTooLarge  = "limit exceeds maximum"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
	cfg config.SearchConfig
}

func New(svc *service.Service, val *validator.Validator, cfg config.SearchConfig) *Handler {
	return &Handler{svc: svc, val: val, cfg: cfg}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/search", h.Search)
	rg.GET("/count", h.Count)
	rg.GET("/filters", h.AvailableFilters)
	rg.GET("/:id/related", h.RelatedItems)
}

func (h *Handler) Search(c *gin.Context) {
	req, ok := h.bindSearch(c)
	if !ok {
		return
	}

	resp := h.svc.Search(c.Request.Context(), req.Criteria(), service.SearchOptions{IncludeFacets: req.IncludeFilters})
	httpkit.OK(c, resp)
}

func (h *Handler) Count(c *gin.Context) {
	req, ok := h.bindSearch(c)
	if !ok {
		return
	}

	httpkit.OK(c, h.svc.Count(c.Request.Context(), req.Criteria()))
}

func (h *Handler) AvailableFilters(c *gin.Context) {
	httpkit.OK(c, h.svc.AvailableFilters(c.Request.Context()))
}

func (h *Handler) RelatedItems(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		httpkit.HandleError(c, apperr.BadRequest(msgInvalidID))
		return
	}

	var req transport.RelatedRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if httpkit.HandleError(c, h.val.Struct(req)) {
		return
	}
	if maxLimit := h.cfg.GetRelatedMaxLimit(); req.LimitOrZero() > maxLimit {
		httpkit.HandleError(c, apperr.Validation(msgLimitTooLarge).WithDetails(gin.H{"max": maxLimit}))
		return
	}

	httpkit.OK(c, h.svc.RelatedItems(c.Request.Context(), id, req.RelationType, req.LimitOrZero()))
}

func (h *Handler) bindSearch(c *gin.Context) (transport.SearchRequest, bool) {
	var req transport.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return req, false
	}
	if httpkit.HandleError(c, h.val.Struct(req)) {
		return req, false
	}
	if maxLimit := h.cfg.GetSearchMaxLimit(); req.Limit != nil && *req.Limit > maxLimit {
		httpkit.HandleError(c, apperr.Validation(msgLimitTooLarge).WithDetails(gin.H{"max": maxLimit}))
		return req, false
	}
	return req, true
}
