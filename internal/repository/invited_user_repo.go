package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Relapt23/Refferal-system/internal/model"
)

// InvitedUserRow 邀请记录与被邀请用户的联表查询结果
type InvitedUserRow struct {
	Email        string        `gorm:"column:email"`
	ReferralCode string        `gorm:"column:referral_code"`
	HunterInfo   model.JSONMap `gorm:"column:hunter_info"`
}

// InvitedUserRepository 邀请记录数据访问接口
type InvitedUserRepository interface {
	Create(ctx context.Context, invited *model.InvitedUser) error
	// ListByReferrer 返回某个邀请人名下的全部邀请记录，
	// 联表 users 带出被邀请人的 hunter.io 校验数据
	ListByReferrer(ctx context.Context, referrerID string) ([]InvitedUserRow, error)
}

// invitedUserRepo InvitedUserRepository 的 GORM 实现
type invitedUserRepo struct {
	db *gorm.DB
}

// NewInvitedUserRepo 创建 InvitedUserRepository 实例
func NewInvitedUserRepo(db *gorm.DB) InvitedUserRepository {
	return &invitedUserRepo{db: db}
}

func (r *invitedUserRepo) Create(ctx context.Context, invited *model.InvitedUser) error {
	return r.db.WithContext(ctx).Create(invited).Error
}

func (r *invitedUserRepo) ListByReferrer(ctx context.Context, referrerID string) ([]InvitedUserRow, error) {
	var rows []InvitedUserRow
	err := r.db.WithContext(ctx).
		Table("invited_users").
		Select("invited_users.email, invited_users.referral_code, users.hunter_info").
		Joins("JOIN users ON users.email = invited_users.email").
		Where("invited_users.referrer_id = ?", referrerID).
		Order("invited_users.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
