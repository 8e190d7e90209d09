package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Relapt23/Refferal-system/internal/dto"
	"github.com/Relapt23/Refferal-system/internal/service"
	"github.com/Relapt23/Refferal-system/pkg/response"
)

// AuthHandler 认证模块 HTTP 处理器
type AuthHandler struct {
	authSvc service.AuthService
}

// NewAuthHandler 创建 AuthHandler
func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// SignUp 用户注册
// POST /sign_up
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req dto.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid_request_body")
		return
	}

	result, err := h.authSvc.SignUp(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrExistingUser):
			response.BadRequest(c, "existing_user")
		case errors.Is(err, service.ErrInvalidReferralCode):
			response.BadRequest(c, "invalid_referral_code")
		case errors.Is(err, service.ErrExpiredReferralCode):
			response.BadRequest(c, "expired_referral_code")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}

// Login 用户登录
// POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid_request_body")
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, "user_not_found")
		case errors.Is(err, service.ErrInvalidCredentials):
			response.BadRequest(c, "incorrect_name_or_password")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}
