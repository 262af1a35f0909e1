package middleware

import (
	"net/http"

	"bizadmin/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Recover turns a panic into a 500 envelope instead of a dropped connection.
func Recover() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, rec any) {
		logger.From(c.Request.Context()).Error("panic recovered",
			logger.Op("recover"),
			logger.Path(c.Request.URL.Path),
			zap.Any("panic", rec),
			zap.Stack("stack"),
		)
		Abort(c, http.StatusInternalServerError, "internal_error", "internal server error", nil)
	})
}
