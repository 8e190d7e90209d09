package handler

import "github.com/Relapt23/Refferal-system/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth     *AuthHandler
	Referral *ReferralHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:     NewAuthHandler(svc.Auth),
		Referral: NewReferralHandler(svc.Referral),
	}
}
