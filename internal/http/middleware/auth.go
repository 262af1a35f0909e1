package middleware

import (
	"net/http"
	"strings"

	"bizadmin/internal/auth"
	"bizadmin/internal/logger"

	"github.com/gin-gonic/gin"
)

const usernameKey = "username"

// Authenticate verifies a Bearer access token when one is sent and stores the
// principal in the request context. Requests without a token pass through as
// anonymous; a bad token is rejected.
func Authenticate(issuer *auth.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" {
			c.Next()
			return
		}
		scheme, raw, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(raw) == "" {
			Abort(c, http.StatusUnauthorized, "unauthorized", "malformed authorization header", nil)
			return
		}
		claims, err := issuer.Parse(strings.TrimSpace(raw))
		if err != nil {
			Abort(c, http.StatusUnauthorized, "unauthorized", err.Error(), nil)
			return
		}

		ctx := auth.WithClaims(c.Request.Context(), claims)
		id, _ := claims.UserID()
		l := logger.From(ctx).With(logger.UserID(id), logger.Username(claims.Username))
		c.Request = c.Request.WithContext(logger.ToContext(ctx, l))
		c.Set(usernameKey, claims.Username)
		c.Next()
	}
}

// RequireAuth rejects anonymous requests.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !auth.FromContext(c.Request.Context()).IsAuthenticated() {
			Abort(c, http.StatusUnauthorized, "unauthorized", "authentication required", nil)
			return
		}
		c.Next()
	}
}
