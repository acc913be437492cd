package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthChecker reports whether a backing service is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// HealthHandler handles health check requests
type HealthHandler struct {
	db HealthChecker
}

// NewHealthHandler creates a new health handler. A nil checker reports the
// service as healthy on process liveness alone.
func NewHealthHandler(db HealthChecker) *HealthHandler {
	return &HealthHandler{db: db}
}

// Handle responds with the service health
// GET /api/v1/health
func (h *HealthHandler) Handle(c *gin.Context) {
	status := "healthy"
	code := http.StatusOK

	if h.db != nil {
		if err := h.db.HealthCheck(c.Request.Context()); err != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
	}

	c.PureJSON(code, gin.H{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
