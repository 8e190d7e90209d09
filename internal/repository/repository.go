package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	User         UserRepository
	ReferralCode ReferralCodeRepository
	InvitedUser  InvitedUserRepository

	db *gorm.DB
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:         NewUserRepo(db),
		ReferralCode: NewReferralCodeRepo(db),
		InvitedUser:  NewInvitedUserRepo(db),
		db:           db,
	}
}

// WithTx 在单个数据库事务内执行 fn。
// fn 收到的 Repository 绑定事务连接，fn 返回错误时整个事务回滚。
// 用于注册（用户 + 邀请记录）与换发推荐码（软删旧码 + 写入新码）等多写场景。
func (r *Repository) WithTx(ctx context.Context, fn func(txRepo *Repository) error) error {
	if r.db == nil {
		// 测试中以 mock 填充的 Repository 没有底层连接，直接执行
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}
