package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Relapt23/Refferal-system/internal/dto"
	"github.com/Relapt23/Refferal-system/internal/service"
	"github.com/Relapt23/Refferal-system/pkg/response"
)

// ReferralHandler 推荐码模块 HTTP 处理器
type ReferralHandler struct {
	referralSvc service.ReferralService
}

// NewReferralHandler 创建 ReferralHandler
func NewReferralHandler(referralSvc service.ReferralService) *ReferralHandler {
	return &ReferralHandler{referralSvc: referralSvc}
}

// CreateCode 签发推荐码
// POST /referral_code
func (h *ReferralHandler) CreateCode(c *gin.Context) {
	email, ok := MustGetEmail(c)
	if !ok {
		return
	}

	var req dto.CreateCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "incorrect_end_date")
		return
	}

	result, err := h.referralSvc.CreateCode(c.Request.Context(), email, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrIncorrectEndDate):
			response.BadRequest(c, "incorrect_end_date")
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, "user_not_found")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}

// DeleteCode 撤销推荐码
// DELETE /referral_code
func (h *ReferralHandler) DeleteCode(c *gin.Context) {
	email, ok := MustGetEmail(c)
	if !ok {
		return
	}

	result, err := h.referralSvc.DeleteCode(c.Request.Context(), email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrReferralCodeNotFound):
			response.NotFound(c, "referral_code_not_found")
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, "user_not_found")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}

// GetCode 按邮箱查询推荐码
// GET /referral_code/:email
func (h *ReferralHandler) GetCode(c *gin.Context) {
	email := c.Param("email")

	result, err := h.referralSvc.CodeByEmail(c.Request.Context(), email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, "user_not_found")
		case errors.Is(err, service.ErrActiveCodeNotFound):
			response.NotFound(c, "active_referral_code_not_found")
		case errors.Is(err, service.ErrReferralCodeDeleted):
			response.BadRequest(c, "referral_code_is_deleted")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}

// GetUserInfo 用户信息与邀请列表
// GET /user_info/:id
func (h *ReferralHandler) GetUserInfo(c *gin.Context) {
	id := c.Param("id")

	result, err := h.referralSvc.UserInfo(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, "user_not_found")
		case errors.Is(err, service.ErrReferralCodeNotFound):
			response.NotFound(c, "referral_code_not_found")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}

// ExportInvitedUsers 邀请列表导出为 Excel
// GET /user_info/:id/export
func (h *ReferralHandler) ExportInvitedUsers(c *gin.Context) {
	id := c.Param("id")

	buf, filename, err := h.referralSvc.ExportInvitedUsers(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, "user_not_found")
		default:
			response.InternalError(c)
		}
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		buf.Bytes(),
	)
}
