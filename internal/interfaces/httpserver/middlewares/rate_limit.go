package middlewares

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"tasknest/internal/infrastructure/metrics"
	"tasknest/internal/infrastructure/ratelimit"
	"tasknest/internal/interfaces/httpserver/responses"
)

// RateLimit enforces the limiter suite on authentication traffic. Other
// routes already require a valid token, so only /auth/ endpoints are
// throttled. An auth request must pass the global limiter, the per-IP
// limiter, and when one exists, the route limiter.
func RateLimit(suite *ratelimit.Suite) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !strings.HasPrefix(c.Request.URL.Path, "/auth/") {
			c.Next()
			return
		}
		ip := c.ClientIP()

		if !suite.Global.Allow("global") {
			reject(c, suite.Global, "global", "global")
			return
		}
		if !suite.PerIP.Allow(ip) {
			reject(c, suite.PerIP, ip, "ip")
			return
		}
		if route := suite.ForPath(c.Request.URL.Path); route != nil {
			if !route.Allow(ip) {
				reject(c, route, ip, c.Request.URL.Path)
				return
			}
		}

		c.Next()
	}
}

func reject(c *gin.Context, l *ratelimit.Limiter, id, limiter string) {
	metrics.RateLimitedTotal.WithLabelValues(limiter).Inc()

	retryAfter := int(math.Ceil(l.RetryAfter(id).Seconds()))
	if retryAfter < 1 {
		retryAfter = 1
	}
	c.Writer.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	responses.Error(c, http.StatusTooManyRequests,
		"RATE_LIMIT_EXCEEDED", "too many requests, slow down")
}
