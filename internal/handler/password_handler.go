package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/tablemaker/internal/repository"
	"github.com/tablemaker/internal/service"
	"github.com/tablemaker/pkg/response"
)

// PasswordHandler handles password recovery API requests
type PasswordHandler struct {
	passwordService *service.PasswordService
}

// NewPasswordHandler creates a new PasswordHandler
func NewPasswordHandler(passwordService *service.PasswordService) *PasswordHandler {
	return &PasswordHandler{
		passwordService: passwordService,
	}
}

// ForgotPasswordRequest represents the forgot-password request
type ForgotPasswordRequest struct {
	Email            string `json:"email" binding:"required,email"`
	ResetPasswordURL string `json:"resetPasswordUrl" binding:"required,url"`
}

// ResetPasswordRequest represents the reset-password request
type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=4,max=100"`
}

// Forgot issues a reset token and mails a recovery link
// POST /api/v1/forgot-password
func (h *PasswordHandler) Forgot(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.UnprocessableEntity(c, err.Error())
		return
	}

	err := h.passwordService.Issue(c.Request.Context(), req.Email, req.ResetPasswordURL)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUserNotFound):
			response.NotFound(c, "no user registered with this email")
		case errors.Is(err, service.ErrTooManyResetRequests):
			response.TooManyRequests(c, err.Error())
		default:
			response.InternalError(c, "failed to issue password reset")
		}
		return
	}

	response.NoContent(c)
}

// Reset consumes a token and sets a new password
// POST /api/v1/reset-password
func (h *PasswordHandler) Reset(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.UnprocessableEntity(c, err.Error())
		return
	}

	if err := h.passwordService.Reset(req.Token, req.Password); err != nil {
		switch {
		case errors.Is(err, repository.ErrTokenNotFound):
			response.NotFound(c, "token not found")
		case errors.Is(err, service.ErrTokenExpired):
			response.Gone(c, err.Error())
		default:
			response.InternalError(c, "failed to reset password")
		}
		return
	}

	response.NoContent(c)
}

// RegisterRoutes registers password recovery routes
func (h *PasswordHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/forgot-password", h.Forgot)
	rg.POST("/reset-password", h.Reset)
}
