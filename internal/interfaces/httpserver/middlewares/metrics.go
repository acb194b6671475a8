package middlewares

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"tasknest/internal/infrastructure/metrics"
)

// Metrics records request counts and latency per route.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())
		method := c.Request.Method
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}

		metrics.RequestsTotal.WithLabelValues(method, route, status).Inc()
		metrics.RequestDuration.WithLabelValues(method, route).Observe(duration)
	}
}
