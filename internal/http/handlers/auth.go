package handlers

import (
	"net/http"

	"bizadmin/internal/dto"
	"bizadmin/internal/services"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	svc services.AuthService
}

func NewAuthHandler(svc services.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.svc.Register(c.Request.Context(), req, c.ClientIP())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respond(c, http.StatusCreated, res)
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.svc.Login(c.Request.Context(), req, c.ClientIP())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respond(c, http.StatusOK, res)
}

// POST /api/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken, c.ClientIP())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respond(c, http.StatusOK, res)
}

// POST /api/auth/revoke
func (h *AuthHandler) Revoke(c *gin.Context) {
	var req dto.RefreshRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.svc.Revoke(c.Request.Context(), req.RefreshToken, c.ClientIP()); err != nil {
		RespondDomainError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"revoked": 1})
}

// POST /api/auth/logout-all
func (h *AuthHandler) LogoutAll(c *gin.Context) {
	n, err := h.svc.LogoutAll(c.Request.Context(), c.ClientIP())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"revoked": n})
}

// POST /api/auth/change-password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req dto.ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.svc.ChangePassword(c.Request.Context(), req, c.ClientIP()); err != nil {
		RespondDomainError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"changed": true})
}

// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	p, err := h.svc.Me(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respond(c, http.StatusOK, p)
}
