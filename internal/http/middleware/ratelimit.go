package middleware

import (
	"math"
	"net/http"
	"strconv"

	"bizadmin/internal/logger"
	"bizadmin/internal/metrics"
	"bizadmin/internal/ratelimit"

	"github.com/gin-gonic/gin"
)

// RateLimit throttles by client IP. A limiter backend failure lets the request through.
func RateLimit(l ratelimit.Limiter, m *metrics.Metrics) gin.HandlerFunc {
	if l == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		key := c.ClientIP() + "|" + c.FullPath()
		res, err := l.Allow(c.Request.Context(), key)
		if err != nil {
			logger.From(c.Request.Context()).Warn("rate limiter unavailable", logger.Err(err))
			c.Next()
			return
		}
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(res.Remaining, 10))
		if !res.Allowed {
			secs := int(math.Ceil(res.RetryAfter.Seconds()))
			if secs < 1 {
				secs = 1
			}
			c.Header("Retry-After", strconv.Itoa(secs))
			m.RateLimited(c.FullPath())
			Abort(c, http.StatusTooManyRequests, "rate_limited", "too many requests, retry later", nil)
			return
		}
		c.Next()
	}
}
