package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Relapt23/Refferal-system/config"
	"github.com/Relapt23/Refferal-system/internal/dto"
	"github.com/Relapt23/Refferal-system/internal/model"
	"github.com/Relapt23/Refferal-system/internal/repository"
	"github.com/Relapt23/Refferal-system/pkg/jwt"
)

var (
	ErrExistingUser        = errors.New("该邮箱已被注册")
	ErrUserNotFound        = errors.New("用户不存在")
	ErrInvalidCredentials  = errors.New("邮箱或密码错误")
	ErrInvalidReferralCode = errors.New("推荐码无效")
	ErrExpiredReferralCode = errors.New("推荐码已过期")
)

// EmailVerifier 第三方邮箱校验接口（pkg/hunter.Client 实现）
// 实现方保证失败时降级为空数据，不返回错误
type EmailVerifier interface {
	VerifyEmail(ctx context.Context, email string) model.JSONMap
}

// AuthService 认证业务接口
type AuthService interface {
	SignUp(ctx context.Context, req *dto.SignUpRequest) (*dto.MessageResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	CurrentUser(ctx context.Context, email string) (*model.User, error)
}

type authService struct {
	cfg      *config.Config
	repo     *repository.Repository
	jwtMgr   *jwt.Manager
	verifier EmailVerifier
	logger   *zap.Logger
}

// NewAuthService 创建 AuthService 实例
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	verifier EmailVerifier,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:      cfg,
		repo:     repo,
		jwtMgr:   jwtMgr,
		verifier: verifier,
		logger:   logger,
	}
}

// SignUp 用户注册。
// 携带推荐码时在同一事务内写入用户与邀请记录，任一失败则整体回滚。
func (s *authService) SignUp(ctx context.Context, req *dto.SignUpRequest) (*dto.MessageResponse, error) {
	// 1. 邮箱唯一性检查（users.email 的唯一约束兜底并发窗口）
	_, err := s.repo.User.GetByEmail(ctx, req.Email)
	if err == nil {
		return nil, ErrExistingUser
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	// 2. 校验推荐码（可选）：按码串取最新未删除记录，再检查有效期
	var referral *model.ReferralCode
	if req.ReferralCode != "" {
		referral, err = s.repo.ReferralCode.GetLatestByCode(ctx, req.ReferralCode)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrInvalidReferralCode
			}
			s.logger.Error("查询推荐码失败", zap.Error(err))
			return nil, err
		}
		if referral.Expired(time.Now()) {
			return nil, ErrExpiredReferralCode
		}
	}

	// 3. 密码哈希 (bcrypt)
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cfg.Auth.BcryptCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, err
	}

	// 4. 第三方邮箱校验（失败时降级为空数据，不阻塞注册）
	hunterInfo := s.verifier.VerifyEmail(ctx, req.Email)

	// 5. 事务内写入用户与邀请记录
	err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		user := &model.User{
			Email:        req.Email,
			PasswordHash: string(hash),
			HunterInfo:   hunterInfo,
		}
		if err := tx.User.Create(ctx, user); err != nil {
			return err
		}

		if referral != nil {
			invited := &model.InvitedUser{
				ReferralCode: referral.Code,
				Email:        req.Email,
				ReferrerID:   referral.ReferrerID,
			}
			if err := tx.InvitedUser.Create(ctx, invited); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrExistingUser
		}
		s.logger.Error("注册写入失败", zap.Error(err))
		return nil, err
	}

	return &dto.MessageResponse{Message: "Successfully!"}, nil
}

// Login 用户登录：查询用户 → 校验密码 → 签发 Token。
// 未知邮箱与密码错误保持可区分的错误种类。
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := s.repo.User.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwtMgr.GenerateToken(user.Email)
	if err != nil {
		s.logger.Error("签发 Token 失败", zap.Error(err))
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	}, nil
}

// CurrentUser 按 Token 主体邮箱加载当前用户
func (s *authService) CurrentUser(ctx context.Context, email string) (*model.User, error) {
	user, err := s.repo.User.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}
	return user, nil
}
