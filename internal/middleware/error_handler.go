package middleware

import (
	"marketplace-properties/internal/errors"
	"marketplace-properties/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ErrorHandler catches errors and returns standardized responses.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		appErr := errors.MapError(err)

		// Log technical details
		log := logger.GlobalLogger.Warnf
		if appErr.HTTPStatus >= 500 {
			log = logger.GlobalLogger.Errorf
		}
		log("Request failed: request_id=%s, path=%s, method=%s, client_ip=%s, error=%s",
			c.GetString(ContextRequestID),
			c.Request.URL.Path,
			c.Request.Method,
			c.ClientIP(),
			appErr.TechnicalMessage)

		c.JSON(appErr.HTTPStatus, gin.H{
			"error":   appErr.UserMessage,
			"code":    appErr.Code,
			"details": appErr.TechnicalMessage,
		})
	}
}
