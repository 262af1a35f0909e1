package middleware

import (
	"bizadmin/internal/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics records count and latency per matched route template.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		done := m.Begin()
		c.Next()
		done(c.Request.Method, c.FullPath(), c.Writer.Status())
	}
}
