// Package handler provides the HTTP handlers that expose the state stores.
package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ad-tracker/youtube-clone-state/internal/kv"
)

// HealthChecker reports whether an optional dependency is usable.
type HealthChecker interface {
	IsHealthy() bool
}

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	backend   kv.Backend
	publisher HealthChecker
}

// NewHealthHandler creates a new HealthHandler. publisher may be nil when
// toasts are not forwarded to RabbitMQ.
func NewHealthHandler(backend kv.Backend, publisher HealthChecker) *HealthHandler {
	return &HealthHandler{
		backend:   backend,
		publisher: publisher,
	}
}

// LivenessProbe checks if the application is running.
func (h *HealthHandler) LivenessProbe(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "UP",
		"time":   time.Now(),
	})
}

// ReadinessProbe checks that the storage backend answers and, when
// configured, that the RabbitMQ publisher is connected.
func (h *HealthHandler) ReadinessProbe(c *gin.Context) {
	if err := h.backend.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "DOWN",
			"storage": "unhealthy",
			"error":   err.Error(),
			"time":    time.Now(),
		})
		return
	}

	rabbitmq := "disabled"
	if h.publisher != nil {
		if !h.publisher.IsHealthy() {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "DOWN",
				"storage":  "healthy",
				"rabbitmq": "unhealthy",
				"time":     time.Now(),
			})
			return
		}
		rabbitmq = "healthy"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "UP",
		"storage":  "healthy",
		"rabbitmq": rabbitmq,
		"time":     time.Now(),
	})
}
