package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"marketplace-properties/internal/auth"
	apperrors "marketplace-properties/internal/errors"
	"marketplace-properties/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "middleware-test-secret"

func newRouter(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), ErrorHandler())
	r.Use(mw...)
	r.GET("/ok", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": c.GetString(ContextUserID), "role": c.GetString(ContextRole)})
	})
	r.GET("/fail", func(c *gin.Context) {
		_ = c.Error(fmt.Errorf("db timeout: %w", apperrors.ErrDatastore))
	})
	return r
}

func get(r http.Handler, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func bearer(t *testing.T, role string) map[string]string {
	t.Helper()
	token, err := auth.GenerateJWT("u-1", "u@example.com", role, secret)
	require.NoError(t, err)
	return map[string]string{"Authorization": "Bearer " + token.Token}
}

func TestAuthMiddleware(t *testing.T) {
	r := newRouter(AuthMiddleware(secret), RequireRole(auth.RoleBroker, auth.RoleAdmin))

	tests := []struct {
		name    string
		headers map[string]string
		status  int
	}{
		{"missing header", nil, http.StatusUnauthorized},
		{"wrong scheme", map[string]string{"Authorization": "Basic abc"}, http.StatusUnauthorized},
		{"garbage token", map[string]string{"Authorization": "Bearer not-a-jwt"}, http.StatusUnauthorized},
		{"buyer forbidden", bearer(t, auth.RoleBuyer), http.StatusForbidden},
		{"broker allowed", bearer(t, auth.RoleBroker), http.StatusOK},
		{"admin allowed", bearer(t, auth.RoleAdmin), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(r, "/ok", tt.headers)
			assert.Equal(t, tt.status, w.Code)
		})
	}

	w := get(r, "/ok", bearer(t, auth.RoleBroker))
	assert.JSONEq(t, `{"user":"u-1","role":"broker"}`, w.Body.String())
}

func TestAuthMiddlewareRejectsOtherSecret(t *testing.T) {
	r := newRouter(AuthMiddleware("another-secret"))
	w := get(r, "/ok", bearer(t, auth.RoleAdmin))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestErrorHandlerRendersMappedError(t *testing.T) {
	r := newRouter()
	w := get(r, "/fail", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"error":"Failed to fetch properties"`)
	assert.Contains(t, w.Body.String(), `"code":"SERVICE_UNAVAILABLE"`)
	assert.Contains(t, w.Body.String(), `db timeout`)
}

func TestRequestID(t *testing.T) {
	r := newRouter()

	w := get(r, "/ok", nil)
	_, err := uuid.Parse(w.Header().Get(HeaderRequestID))
	assert.NoError(t, err)

	id := uuid.NewString()
	w = get(r, "/ok", map[string]string{HeaderRequestID: id})
	assert.Equal(t, id, w.Header().Get(HeaderRequestID))

	w = get(r, "/ok", map[string]string{HeaderRequestID: "<script>"})
	assert.NotEqual(t, "<script>", w.Header().Get(HeaderRequestID))
}

func TestRateLimitMiddleware(t *testing.T) {
	rl := NewRateLimiter(60, 2)
	r := newRouter(RateLimitMiddleware(rl))

	assert.Equal(t, http.StatusOK, get(r, "/ok", nil).Code)
	assert.Equal(t, http.StatusOK, get(r, "/ok", nil).Code)

	w := get(r, "/ok", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "RATE_LIMITED")
}

func TestSecureHeaders(t *testing.T) {
	r := newRouter(SecureHeaders())
	w := get(r, "/ok", nil)
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, w.Header().Get("Content-Security-Policy"))
}

func TestMetricsAndLoggingMiddleware(t *testing.T) {
	metrics.Init()
	r := newRouter(MetricsMiddleware(), LoggingMiddleware())
	assert.Equal(t, http.StatusOK, get(r, "/ok", nil).Code)
	assert.Equal(t, http.StatusNotFound, get(r, "/nope", nil).Code)
}
