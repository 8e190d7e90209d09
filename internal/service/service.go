package service

import (
	"go.uber.org/zap"

	"github.com/Relapt23/Refferal-system/config"
	"github.com/Relapt23/Refferal-system/internal/repository"
	"github.com/Relapt23/Refferal-system/pkg/jwt"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth     AuthService
	Referral ReferralService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	cache CodeCache,
	verifier EmailVerifier,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:     NewAuthService(cfg, repo, jwtMgr, verifier, logger),
		Referral: NewReferralService(repo, cache, logger),
	}
}
