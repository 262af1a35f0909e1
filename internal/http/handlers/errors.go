package handlers

import (
	"net/http"

	"bizadmin/internal/domain"
	"bizadmin/internal/http/middleware"
	"bizadmin/internal/logger"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, status int, code, message string, details any) {
	if code == "" {
		code = http.StatusText(status)
	}
	middleware.Abort(c, status, code, message, details)
}

// RespondDomainError maps domain errors to HTTP responses.
func RespondDomainError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		var details any
		if ve, ok := asValidation(err); ok {
			if fields := ve.Details(); len(fields) > 0 {
				details = fields
			}
		}
		respondError(c, http.StatusBadRequest, "validation_error", err.Error(), details)
	case domain.IsUnauthorized(err):
		respondError(c, http.StatusUnauthorized, "unauthorized", err.Error(), nil)
	case domain.IsForbidden(err):
		respondError(c, http.StatusForbidden, "forbidden", err.Error(), nil)
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, "not_found", err.Error(), nil)
	case domain.IsConflict(err):
		respondError(c, http.StatusConflict, "conflict", err.Error(), nil)
	default:
		_ = c.Error(err)
		logger.From(c.Request.Context()).Error("request failed",
			logger.Layer("http"), logger.Path(c.FullPath()), logger.Err(err))
		respondError(c, http.StatusInternalServerError, "internal_error", "internal server error", nil)
	}
}

// respond writes a success envelope.
func respond(c *gin.Context, status int, data any) {
	c.JSON(status, middleware.Envelope{
		Success:   true,
		Data:      data,
		RequestID: middleware.GetRequestID(c),
	})
}
