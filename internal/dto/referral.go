package dto

import (
	"time"

	"github.com/Relapt23/Refferal-system/internal/model"
)

// ── 推荐码模块 DTO ──

// CreateCodeRequest 签发推荐码请求
type CreateCodeRequest struct {
	EndDate time.Time `json:"end_date" binding:"required"`
}

// CreateCodeResponse 签发推荐码响应
type CreateCodeResponse struct {
	Message      string    `json:"message"`
	ReferralCode string    `json:"referral_code"`
	EndDate      time.Time `json:"end_date"`
}

// CodeResponse 查询推荐码响应
type CodeResponse struct {
	Message      string `json:"message"`
	ReferralCode string `json:"referral_code"`
}

// InvitedUserResponse 被邀请用户信息
type InvitedUserResponse struct {
	Email        string        `json:"email"`
	ReferralCode string        `json:"referral_code"`
	HunterData   model.JSONMap `json:"hunter_data,omitempty"`
}

// UserInfoResponse 用户信息响应（含邀请列表）
type UserInfoResponse struct {
	Email        string                `json:"email"`
	ReferralCode string                `json:"referral_code"`
	InvitedUsers []InvitedUserResponse `json:"invited_users"`
}
