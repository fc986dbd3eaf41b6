package middleware

import (
	"fmt"
	"strings"

	"marketplace-properties/internal/auth"
	apperrors "marketplace-properties/internal/errors"

	"github.com/gin-gonic/gin"
)

// Context keys set by AuthMiddleware.
const (
	ContextUserID = "user_id"
	ContextEmail  = "email"
	ContextRole   = "role"
)

// AuthMiddleware requires a valid bearer token signed with secret.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWith(c, fmt.Errorf("authorization header required: %w", apperrors.ErrUnauthorized))
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortWith(c, fmt.Errorf("invalid authorization header format: %w", apperrors.ErrUnauthorized))
			return
		}

		claims, err := auth.ValidateJWT(parts[1], secret)
		if err != nil {
			abortWith(c, fmt.Errorf("%v: %w", err, apperrors.ErrUnauthorized))
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

// RequireRole admits only callers whose token role is one of roles. It must run
// after AuthMiddleware.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		role := c.GetString(ContextRole)
		if _, ok := allowed[role]; !ok {
			abortWith(c, fmt.Errorf("role %q may not access %s: %w", role, c.FullPath(), apperrors.ErrForbidden))
			return
		}
		c.Next()
	}
}

func abortWith(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
