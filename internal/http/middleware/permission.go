package middleware

import (
	"net/http"

	"bizadmin/internal/auth"
	"bizadmin/internal/domain"

	"github.com/gin-gonic/gin"
)

// RequirePermission allows the request only when the caller's token carries code,
// e.g. r.DELETE("/roles/:id", RequirePermission("roles.delete"), h).
// An anonymous caller gets 401, an authenticated one without the code 403.
func RequirePermission(code string) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := auth.FromContext(c.Request.Context())
		if !u.IsAuthenticated() {
			Abort(c, http.StatusUnauthorized, "unauthorized", "authentication required", nil)
			return
		}
		if !u.HasPermission(code) {
			Abort(c, http.StatusForbidden, "forbidden", domain.ForbiddenError{Permission: code}.Error(), nil)
			return
		}
		c.Next()
	}
}
