package model

import "time"

// ReferralCode 推荐码表 — 对应 referral_codes
//
// 每个用户同一时刻至多存在一条未软删除的记录（部分唯一索引
// uq_referral_codes_active_referrer 保证）；签发新码时旧码在同一事务内被软删除。
type ReferralCode struct {
	ReferralCodeID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"referral_code_id"`
	Code           string    `gorm:"type:varchar(10);not null;index"                json:"code"`
	EndDate        time.Time `gorm:"not null"                                       json:"end_date"`
	ReferrerID     string    `gorm:"type:uuid;not null;index"                       json:"referrer_id"`
	SoftDeleteModel

	// 关联
	Referrer *User `gorm:"foreignKey:ReferrerID;references:UserID" json:"referrer,omitempty"`
}

// TableName 指定表名
func (ReferralCode) TableName() string { return "referral_codes" }

// Expired 判断推荐码是否已过期（end_date 不晚于当前时间视为过期）
func (c *ReferralCode) Expired(now time.Time) bool {
	return !c.EndDate.After(now)
}
