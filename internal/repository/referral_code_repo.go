package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Relapt23/Refferal-system/internal/model"
)

// ReferralCodeRepository 推荐码数据访问接口
type ReferralCodeRepository interface {
	Create(ctx context.Context, code *model.ReferralCode) error
	// GetActiveByReferrer 返回用户当前未软删除的推荐码（按签发时间取最新）
	GetActiveByReferrer(ctx context.Context, referrerID string) (*model.ReferralCode, error)
	// GetLatestByReferrerUnscoped 返回用户最近一条推荐码，包含已软删除的记录。
	// 用于查询接口区分"从未签发/已删除"两种情况。
	GetLatestByReferrerUnscoped(ctx context.Context, referrerID string) (*model.ReferralCode, error)
	// GetLatestByCode 按码串查询未软删除的记录，重复码串取最新一条
	GetLatestByCode(ctx context.Context, code string) (*model.ReferralCode, error)
	// CodeExists 碰撞探测：检查码串是否已被任何记录（含软删除）占用
	CodeExists(ctx context.Context, code string) (bool, error)
	// SoftDelete 按主键软删除推荐码
	SoftDelete(ctx context.Context, referralCodeID string) error
}

// referralCodeRepo ReferralCodeRepository 的 GORM 实现
type referralCodeRepo struct {
	db *gorm.DB
}

// NewReferralCodeRepo 创建 ReferralCodeRepository 实例
func NewReferralCodeRepo(db *gorm.DB) ReferralCodeRepository {
	return &referralCodeRepo{db: db}
}

func (r *referralCodeRepo) Create(ctx context.Context, code *model.ReferralCode) error {
	return r.db.WithContext(ctx).Create(code).Error
}

func (r *referralCodeRepo) GetActiveByReferrer(ctx context.Context, referrerID string) (*model.ReferralCode, error) {
	var code model.ReferralCode
	err := r.db.WithContext(ctx).
		Where("referrer_id = ?", referrerID).
		Order("created_at DESC").
		First(&code).Error
	if err != nil {
		return nil, err
	}
	return &code, nil
}

func (r *referralCodeRepo) GetLatestByReferrerUnscoped(ctx context.Context, referrerID string) (*model.ReferralCode, error) {
	var code model.ReferralCode
	err := r.db.WithContext(ctx).
		Unscoped().
		Where("referrer_id = ?", referrerID).
		Order("created_at DESC").
		First(&code).Error
	if err != nil {
		return nil, err
	}
	return &code, nil
}

func (r *referralCodeRepo) GetLatestByCode(ctx context.Context, code string) (*model.ReferralCode, error) {
	var rc model.ReferralCode
	err := r.db.WithContext(ctx).
		Where("code = ?", code).
		Order("created_at DESC").
		First(&rc).Error
	if err != nil {
		return nil, err
	}
	return &rc, nil
}

func (r *referralCodeRepo) CodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.ReferralCode{}).
		Unscoped().
		Where("code = ?", code).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *referralCodeRepo) SoftDelete(ctx context.Context, referralCodeID string) error {
	return r.db.WithContext(ctx).
		Where("referral_code_id = ?", referralCodeID).
		Delete(&model.ReferralCode{}).Error
}
