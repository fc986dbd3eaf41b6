package middleware

import (
	"time"

	"marketplace-properties/pkg/logger"

	"github.com/gin-gonic/gin"
)

func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		cache := "-"
		if hit, ok := c.Get(ContextCacheHit); ok {
			cache = "miss"
			if hit.(bool) {
				cache = "hit"
			}
		}
		logger.GlobalLogger.Printf("%s %s %d %v request_id=%s cache=%s",
			method, path, c.Writer.Status(), time.Since(start), c.GetString(ContextRequestID), cache)
	}
}
