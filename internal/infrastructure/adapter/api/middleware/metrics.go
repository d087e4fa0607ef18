package middleware

import (
	"github.com/gin-gonic/gin"
	coreport "github.com/ownaimerch/merch-credits/internal/domain/port/core"
)

// HTTPObserver records request outcomes
type HTTPObserver interface {
	ObserveHTTP(method, route string, status int, seconds float64)
}

// Metrics observes every routed request by its route template
func Metrics(observer HTTPObserver, timeProvider coreport.TimeProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := timeProvider.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		observer.ObserveHTTP(c.Request.Method, route, c.Writer.Status(), timeProvider.Since(start).Seconds())
	}
}
