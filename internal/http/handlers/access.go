package handlers

import (
	"net/http"

	"bizadmin/internal/dto"
	"bizadmin/internal/services"

	"github.com/gin-gonic/gin"
)

type AccessHandler struct {
	roles services.RoleService
	users services.UserService
}

func NewAccessHandler(roles services.RoleService, users services.UserService) *AccessHandler {
	return &AccessHandler{roles: roles, users: users}
}

// GET /api/roles/:id/permissions
func (h *AccessHandler) RolePermissions(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	perms, err := h.roles.GetPermissions(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respond(c, http.StatusOK, perms)
}

// PUT /api/roles/:id/permissions {"ids": [...]}
func (h *AccessHandler) AssignPermissions(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.IDsRequest
	if !bindJSON(c, &req) {
		return
	}
	role, err := h.roles.AssignPermissions(c.Request.Context(), id, req.IDs)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respond(c, http.StatusOK, role)
}

// PUT /api/users/:id/roles {"ids": [...]}
func (h *AccessHandler) AssignRoles(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.IDsRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.users.AssignRoles(c.Request.Context(), id, req.IDs)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respond(c, http.StatusOK, user)
}
