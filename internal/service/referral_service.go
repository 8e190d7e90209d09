package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Relapt23/Refferal-system/internal/dto"
	"github.com/Relapt23/Refferal-system/internal/model"
	"github.com/Relapt23/Refferal-system/internal/repository"
	"github.com/Relapt23/Refferal-system/pkg/redis"
)

var (
	ErrIncorrectEndDate     = errors.New("推荐码结束时间必须晚于当前时间")
	ErrReferralCodeNotFound = errors.New("推荐码不存在")
	ErrActiveCodeNotFound   = errors.New("没有生效中的推荐码")
	ErrReferralCodeDeleted  = errors.New("推荐码已被删除")
	ErrExportGenerateFail   = errors.New("生成 Excel 文件失败")
)

// CodeCache 推荐码旁路缓存接口（pkg/redis.Client 实现）
// 传 nil 表示缓存不可用，读写全部走数据库
type CodeCache interface {
	GetReferralCode(ctx context.Context, email string) (*redis.CachedCode, error)
	SetReferralCode(ctx context.Context, email string, cached *redis.CachedCode) error
	DeleteReferralCode(ctx context.Context, email string) error
}

// ReferralService 推荐码业务接口
type ReferralService interface {
	CreateCode(ctx context.Context, email string, req *dto.CreateCodeRequest) (*dto.CreateCodeResponse, error)
	DeleteCode(ctx context.Context, email string) (*dto.MessageResponse, error)
	CodeByEmail(ctx context.Context, email string) (*dto.CodeResponse, error)
	UserInfo(ctx context.Context, userID string) (*dto.UserInfoResponse, error)
	ExportInvitedUsers(ctx context.Context, userID string) (*bytes.Buffer, string, error)
}

type referralService struct {
	repo   *repository.Repository
	cache  CodeCache
	logger *zap.Logger
}

// NewReferralService 创建 ReferralService 实例
func NewReferralService(repo *repository.Repository, cache CodeCache, logger *zap.Logger) ReferralService {
	return &referralService{repo: repo, cache: cache, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// CreateCode — 签发推荐码
// ═══════════════════════════════════════════════════════════
//
// 同一用户同一时刻至多一条生效推荐码：签发新码时旧码在同一事务内软删除，
// 数据库的部分唯一索引兜底并发签发。

func (s *referralService) CreateCode(ctx context.Context, email string, req *dto.CreateCodeRequest) (*dto.CreateCodeResponse, error) {
	// 1. 定位签发人
	user, err := s.repo.User.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	// 2. 结束时间必须严格晚于当前时间
	if !req.EndDate.After(time.Now()) {
		return nil, ErrIncorrectEndDate
	}

	// 3. 生成唯一推荐码（碰撞时有限次重试）
	code, err := generateUniqueCode(ctx, s.repo.ReferralCode)
	if err != nil {
		s.logger.Error("生成推荐码失败", zap.Error(err))
		return nil, err
	}

	// 4. 事务内换发：软删旧码 → 写入新码
	var superseded *model.ReferralCode
	err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		prev, err := tx.ReferralCode.GetActiveByReferrer(ctx, user.UserID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if prev != nil {
			if err := tx.ReferralCode.SoftDelete(ctx, prev.ReferralCodeID); err != nil {
				return err
			}
			superseded = prev
		}

		return tx.ReferralCode.Create(ctx, &model.ReferralCode{
			Code:       code,
			EndDate:    req.EndDate,
			ReferrerID: user.UserID,
		})
	})
	if err != nil {
		s.logger.Error("签发推荐码失败", zap.Error(err))
		return nil, err
	}

	// 5. 旧码若仍在缓存中则失效（其余条目交由 TTL 自然淘汰）
	if superseded != nil {
		s.invalidateIfMatches(ctx, email, superseded.Code)
	}

	return &dto.CreateCodeResponse{
		Message:      fmt.Sprintf("Referral code for %s", email),
		ReferralCode: code,
		EndDate:      req.EndDate,
	}, nil
}

// DeleteCode 撤销当前生效的推荐码。
// 不校验是否已过期：过期未删除的码同样允许撤销。
func (s *referralService) DeleteCode(ctx context.Context, email string) (*dto.MessageResponse, error) {
	user, err := s.repo.User.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	active, err := s.repo.ReferralCode.GetActiveByReferrer(ctx, user.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReferralCodeNotFound
		}
		s.logger.Error("查询推荐码失败", zap.Error(err))
		return nil, err
	}

	if err := s.repo.ReferralCode.SoftDelete(ctx, active.ReferralCodeID); err != nil {
		s.logger.Error("删除推荐码失败", zap.Error(err))
		return nil, err
	}

	// 仅当缓存中存放的正是被撤销的码时才失效
	s.invalidateIfMatches(ctx, email, active.Code)

	return &dto.MessageResponse{Message: "Successfully deleted"}, nil
}

// ═══════════════════════════════════════════════════════════
// CodeByEmail — 按邮箱查询推荐码（cache-aside）
// ═══════════════════════════════════════════════════════════
//
// 读路径先查缓存；未命中回源数据库，仅当码仍在有效期内才回填缓存。
// 缓存 TTL 固定且与码的有效期解耦，命中后仍按 end_date 判断过期。

func (s *referralService) CodeByEmail(ctx context.Context, email string) (*dto.CodeResponse, error) {
	now := time.Now()

	// 1. 查缓存
	if s.cache != nil {
		cached, err := s.cache.GetReferralCode(ctx, email)
		if err != nil {
			// 缓存故障降级回源，不影响请求
			s.logger.Warn("读取推荐码缓存失败", zap.Error(err))
		} else if cached != nil && cached.EndDate.After(now) {
			return &dto.CodeResponse{
				Message:      "Referral code from cache",
				ReferralCode: cached.Code,
			}, nil
		}
	}

	// 2. 回源：先确认用户存在
	user, err := s.repo.User.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	// 3. 取最近一条记录（含软删除），区分"已删除"与"从未签发"
	latest, err := s.repo.ReferralCode.GetLatestByReferrerUnscoped(ctx, user.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrActiveCodeNotFound
		}
		s.logger.Error("查询推荐码失败", zap.Error(err))
		return nil, err
	}
	if latest.DeletedAt.Valid {
		return nil, ErrReferralCodeDeleted
	}
	if latest.Expired(now) {
		return nil, ErrActiveCodeNotFound
	}

	// 4. 回填缓存（仅限仍然有效的码）
	if s.cache != nil {
		err := s.cache.SetReferralCode(ctx, email, &redis.CachedCode{
			Code:    latest.Code,
			EndDate: latest.EndDate,
		})
		if err != nil {
			s.logger.Warn("写入推荐码缓存失败", zap.Error(err))
		}
	}

	return &dto.CodeResponse{
		Message:      "Referral code for this user",
		ReferralCode: latest.Code,
	}, nil
}

// UserInfo 用户信息：邮箱、当前推荐码、邀请列表
func (s *referralService) UserInfo(ctx context.Context, userID string) (*dto.UserInfoResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	active, err := s.repo.ReferralCode.GetActiveByReferrer(ctx, user.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReferralCodeNotFound
		}
		s.logger.Error("查询推荐码失败", zap.Error(err))
		return nil, err
	}

	rows, err := s.repo.InvitedUser.ListByReferrer(ctx, user.UserID)
	if err != nil {
		s.logger.Error("查询邀请记录失败", zap.Error(err))
		return nil, err
	}

	invited := make([]dto.InvitedUserResponse, 0, len(rows))
	for _, row := range rows {
		invited = append(invited, dto.InvitedUserResponse{
			Email:        row.Email,
			ReferralCode: row.ReferralCode,
			HunterData:   row.HunterInfo,
		})
	}

	return &dto.UserInfoResponse{
		Email:        user.Email,
		ReferralCode: active.Code,
		InvitedUsers: invited,
	}, nil
}

// ═══════════════════════════════════════════════════════════
// ExportInvitedUsers — 邀请列表导出为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：单 Sheet，列为 邮箱 / 使用的推荐码 / 邮箱校验状态。
// 返回值：buf（Excel 内容）, filename（建议文件名）, error

func (s *referralService) ExportInvitedUsers(ctx context.Context, userID string) (*bytes.Buffer, string, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, "", err
	}

	rows, err := s.repo.InvitedUser.ListByReferrer(ctx, user.UserID)
	if err != nil {
		s.logger.Error("查询邀请记录失败", zap.Error(err))
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Invited Users"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Email", "Referral Code", "Verification Status"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, "", ErrExportGenerateFail
		}
	}

	for i, row := range rows {
		status := ""
		if v, ok := row.HunterInfo["status"].(string); ok {
			status = v
		}
		values := []interface{}{row.Email, row.ReferralCode, status}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, "", ErrExportGenerateFail
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("写出 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("invited_users_%s.xlsx", time.Now().Format("20060102"))
	return buf, filename, nil
}

// invalidateIfMatches 当缓存条目与给定码串一致时删除缓存。
// 缓存里是已被换下的历史码时不动，交由 TTL 淘汰。
func (s *referralService) invalidateIfMatches(ctx context.Context, email, code string) {
	if s.cache == nil {
		return
	}
	cached, err := s.cache.GetReferralCode(ctx, email)
	if err != nil {
		s.logger.Warn("读取推荐码缓存失败", zap.Error(err))
		return
	}
	if cached == nil || cached.Code != code {
		return
	}
	if err := s.cache.DeleteReferralCode(ctx, email); err != nil {
		s.logger.Warn("删除推荐码缓存失败", zap.Error(err))
	}
}
