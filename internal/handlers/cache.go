package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	apperrors "marketplace-properties/internal/errors"
	"marketplace-properties/internal/services"

	"github.com/gin-gonic/gin"
)

// CacheAdmin is what the admin endpoints need from the invalidator.
type CacheAdmin interface {
	ClearProperty(ctx context.Context, id string) (int64, error)
	ClearAll(ctx context.Context) (int64, error)
	Health(ctx context.Context) services.CacheHealth
}

type CacheHandler struct {
	admin CacheAdmin
}

func NewCacheHandler(admin CacheAdmin) *CacheHandler {
	return &CacheHandler{admin: admin}
}

type clearCacheRequest struct {
	Type       string `json:"type"`
	PropertyID string `json:"propertyId"`
}

// ClearCache drops one property's detail entry when type is "property", otherwise
// every cached search page and aggregate.
func (h *CacheHandler) ClearCache(c *gin.Context) {
	var req clearCacheRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			_ = c.Error(fmt.Errorf("invalid request body: %v: %w", err, apperrors.ErrInvalidParameters))
			return
		}
	}

	var (
		cleared int64
		err     error
		scope   = "all"
	)
	if strings.EqualFold(req.Type, "property") {
		if req.PropertyID == "" {
			_ = c.Error(fmt.Errorf("propertyId is required: %w", apperrors.ErrInvalidParameters))
			return
		}
		scope = "property"
		cleared, err = h.admin.ClearProperty(c.Request.Context(), req.PropertyID)
	} else {
		cleared, err = h.admin.ClearAll(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "cache unavailable", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cleared": cleared, "scope": scope})
}

func (h *CacheHandler) CacheHealth(c *gin.Context) {
	health := h.admin.Health(c.Request.Context())
	status := http.StatusOK
	if health.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, health)
}
