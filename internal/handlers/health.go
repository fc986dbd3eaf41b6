package handlers

import (
	"context"
	"net/http"
	"time"

	"marketplace-properties/pkg/database"

	"github.com/gin-gonic/gin"
)

const healthTimeout = 2 * time.Second

type componentHealth struct {
	Status    string `json:"status"`
	LatencyMs int64  `json:"latencyMs"`
	Error     string `json:"error,omitempty"`
}

// HealthHandler pings the datastore and the cache.
type HealthHandler struct {
	checks []database.Pinger
}

func NewHealthHandler(checks ...database.Pinger) *HealthHandler {
	return &HealthHandler{checks: checks}
}

func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	overall := "healthy"
	components := make(map[string]componentHealth, len(h.checks))
	for _, check := range h.checks {
		start := time.Now()
		err := check.Ping(ctx)
		ch := componentHealth{Status: "healthy", LatencyMs: time.Since(start).Milliseconds()}
		if err != nil {
			ch.Status = "unhealthy"
			ch.Error = err.Error()
			overall = "unhealthy"
		}
		components[check.Name()] = ch
	}

	status := http.StatusOK
	if overall != "healthy" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"status": overall, "components": components})
}
