package middleware

import (
	"time"

	"bizadmin/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Logger writes one line per request with request_id, status and latency.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			logger.Layer("http"),
			logger.Method(c.Request.Method),
			logger.Path(c.Request.URL.Path),
			logger.Status(status),
			logger.LatencyMs(time.Since(start)),
			logger.ClientIP(c.ClientIP()),
		}
		if u := c.GetString(usernameKey); u != "" {
			fields = append(fields, logger.Username(u))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		l := logger.From(c.Request.Context())
		switch {
		case status >= 500:
			l.Error("request", fields...)
		case status >= 400:
			l.Warn("request", fields...)
		default:
			l.Info("request", fields...)
		}
	}
}
