package services

import (
	"context"
	"time"

	"marketplace-properties/internal/repositories"
	"marketplace-properties/pkg/cache"
	"marketplace-properties/pkg/logger"
	"marketplace-properties/pkg/metrics"
)

const invalidationTimeout = 5 * time.Second

// Invalidator is notified after every successful property mutation.
type Invalidator interface {
	OnPropertyCreated(ctx context.Context, id string)
	OnPropertyUpdated(ctx context.Context, id string)
	OnPropertyDeleted(ctx context.Context, id string)
}

// CacheInvalidator purges cached reads after a mutation. Every mutation drops all
// search pages, all aggregates and the detail entry of the mutated property. There
// is no per-filter tracking, so the next read of any search is a miss.
type CacheInvalidator struct {
	cache repositories.PropertyCache
}

func NewCacheInvalidator(cache repositories.PropertyCache) *CacheInvalidator {
	return &CacheInvalidator{cache: cache}
}

func (c *CacheInvalidator) OnPropertyCreated(ctx context.Context, id string) {
	c.invalidate(ctx, "created", id)
}

func (c *CacheInvalidator) OnPropertyUpdated(ctx context.Context, id string) {
	c.invalidate(ctx, "updated", id)
}

func (c *CacheInvalidator) OnPropertyDeleted(ctx context.Context, id string) {
	c.invalidate(ctx, "deleted", id)
}

// invalidate runs on a context detached from the request so a client disconnect
// after a committed write cannot leave stale entries behind. Errors are logged only.
func (c *CacheInvalidator) invalidate(ctx context.Context, event, id string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), invalidationTimeout)
	defer cancel()

	metrics.CacheInvalidationsTotal.WithLabelValues(event).Inc()
	for _, prefix := range []string{cache.SearchPrefix, cache.AggregatePrefix} {
		n, err := c.cache.DeletePrefix(ctx, prefix)
		if err != nil {
			logger.GlobalLogger.Errorf("cache invalidation (%s %s) failed for prefix %s: %v", event, id, prefix, err)
			continue
		}
		logger.GlobalLogger.Debugf("cache invalidation (%s %s) removed %d keys under %s", event, id, n, prefix)
	}
	if id == "" {
		return
	}
	if _, err := c.cache.Delete(ctx, cache.PropertyKey(id)); err != nil {
		logger.GlobalLogger.Errorf("cache invalidation (%s) failed for property %s: %v", event, id, err)
	}
}

// ClearProperty drops the detail entry of one property and reports whether one
// was cached.
func (c *CacheInvalidator) ClearProperty(ctx context.Context, id string) (int64, error) {
	return c.cache.Delete(ctx, cache.PropertyKey(id))
}

// ClearAll drops every search page and aggregate.
func (c *CacheInvalidator) ClearAll(ctx context.Context) (int64, error) {
	var total int64
	for _, prefix := range []string{cache.SearchPrefix, cache.AggregatePrefix} {
		n, err := c.cache.DeletePrefix(ctx, prefix)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// CacheHealth is the result of the admin cache health check.
type CacheHealth struct {
	Status    string `json:"status"`
	LatencyMs int64  `json:"latencyMs"`
	Store     string `json:"store"`
	Breaker   string `json:"breaker,omitempty"`
	Error     string `json:"error,omitempty"`
}

func (c *CacheInvalidator) Health(ctx context.Context) CacheHealth {
	start := time.Now()
	err := c.cache.Ping(ctx)
	h := CacheHealth{
		Status:    "healthy",
		LatencyMs: time.Since(start).Milliseconds(),
		Store:     c.cache.StoreName(),
		Breaker:   c.cache.BreakerState(),
	}
	if err != nil {
		h.Status = "unhealthy"
		h.Error = err.Error()
	}
	return h
}
