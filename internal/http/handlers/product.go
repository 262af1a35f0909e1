package handlers

import (
	"net/http"

	"bizadmin/internal/services"

	"github.com/gin-gonic/gin"
)

// SetCurrentVersion serves POST /api/product-versions/:id/current.
func SetCurrentVersion(svc services.ProductVersionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		v, err := svc.SetCurrent(c.Request.Context(), id)
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		respond(c, http.StatusOK, v)
	}
}
