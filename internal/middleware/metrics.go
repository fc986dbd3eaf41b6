package middleware

import (
	"strconv"
	"time"

	"marketplace-properties/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// ContextCacheHit is set by handlers that served a cacheable read.
const ContextCacheHit = "cache_hit"

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start).Seconds()

		// Route templates keep label cardinality bounded; unmatched paths share one label.
		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, endpoint, status).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, endpoint, status).Observe(duration)
	}
}
