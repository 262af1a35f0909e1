package handlers

import (
	"context"
	"net/http"
	"strings"

	"bizadmin/internal/domain"

	"github.com/gin-gonic/gin"
)

// ByCode serves GET /<res>/code/:code for features with a natural code.
func ByCode[D any](get func(ctx context.Context, code string) (D, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		code := strings.TrimSpace(c.Param("code"))
		if code == "" {
			RespondDomainError(c, domain.Invalid("code", "is required"))
			return
		}
		item, err := get(c.Request.Context(), code)
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		respond(c, http.StatusOK, item)
	}
}

// ByQueryValue serves lookups whose key may contain slashes, e.g.
// GET /time-zones/name?value=America/Sao_Paulo.
func ByQueryValue[D any](get func(ctx context.Context, value string) (D, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		v := strings.TrimSpace(c.Query("value"))
		if v == "" {
			RespondDomainError(c, domain.Invalid("value", "is required"))
			return
		}
		item, err := get(c.Request.Context(), v)
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		respond(c, http.StatusOK, item)
	}
}
