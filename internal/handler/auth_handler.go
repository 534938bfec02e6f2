package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/tablemaker/internal/middleware"
	"github.com/tablemaker/internal/service"
	"github.com/tablemaker/pkg/response"
)

// AuthHandler handles session API requests
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Login handles session creation
// POST /api/v1/sessions
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid credentials payload")
		return
	}

	user, token, err := h.authService.Login(&req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.BadRequest(c, "invalid email or password")
			return
		}
		response.InternalError(c, "failed to login")
		return
	}

	response.Created(c, gin.H{
		"user":  user,
		"token": token,
	})
}

// Logout handles session revocation
// DELETE /api/v1/sessions
func (h *AuthHandler) Logout(c *gin.Context) {
	token := middleware.GetToken(c)

	if err := h.authService.Logout(c.Request.Context(), token); err != nil {
		response.InternalError(c, "failed to logout")
		return
	}

	response.OK(c, gin.H{})
}

// RegisterRoutes registers session routes
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	rg.POST("/sessions", h.Login)
	rg.DELETE("/sessions", authMiddleware, h.Logout)
}
