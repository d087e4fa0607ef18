package database

import (
	"context"
	"time"

	coreport "github.com/ownaimerch/merch-credits/internal/domain/port/core"
)

// QueryMetrics holds metrics about a database round trip
type QueryMetrics struct {
	Operation    string
	Duration     time.Duration
	Failed       bool
	ErrorMessage string
}

// MetricsCollector times database round trips and warns on slow ones
type MetricsCollector struct {
	logger        coreport.Logger
	timeProvider  coreport.TimeProvider
	slowThreshold time.Duration
}

// NewMetricsCollector creates a new metrics collector
func NewMetricsCollector(logger coreport.Logger, timeProvider coreport.TimeProvider, slowThreshold time.Duration) *MetricsCollector {
	if slowThreshold <= 0 {
		slowThreshold = defaultSlowThreshold
	}
	return &MetricsCollector{
		logger:        logger,
		timeProvider:  timeProvider,
		slowThreshold: slowThreshold,
	}
}

// Measure runs fn and reports its duration
func (c *MetricsCollector) Measure(ctx context.Context, operation string, fn func(ctx context.Context) error) (*QueryMetrics, error) {
	start := c.timeProvider.Now()
	err := fn(ctx)

	metrics := &QueryMetrics{
		Operation: operation,
		Duration:  c.timeProvider.Since(start),
		Failed:    err != nil,
	}
	if err != nil {
		metrics.ErrorMessage = err.Error()
	}

	if metrics.Duration > c.slowThreshold {
		c.logger.Warn("Slow database round trip detected", map[string]any{
			"operation":     operation,
			"duration_ms":   metrics.Duration.Milliseconds(),
			"failed":        metrics.Failed,
			"error_message": metrics.ErrorMessage,
		})
	}
	return metrics, err
}
