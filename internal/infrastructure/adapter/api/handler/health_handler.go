package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	coreport "github.com/ownaimerch/merch-credits/internal/domain/port/core"
)

// Pinger is a dependency that can report its reachability
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports liveness and dependency health
type HealthHandler struct {
	checks       map[string]Pinger
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewHealthHandler creates a health handler over named dependencies
func NewHealthHandler(checks map[string]Pinger, timeProvider coreport.TimeProvider, logger coreport.Logger) *HealthHandler {
	return &HealthHandler{
		checks:       checks,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Health handles GET /healthz
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := h.timeProvider.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	results := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check.Ping(ctx); err != nil {
			h.logger.Warn("Health check failed", map[string]any{
				"dependency": name,
				"error":      err.Error(),
			})
			results[name] = "down"
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "up"
	}

	c.JSON(status, gin.H{
		"ok":     status == http.StatusOK,
		"checks": results,
	})
}
