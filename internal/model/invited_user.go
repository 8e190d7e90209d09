package model

// InvitedUser 邀请记录表 — 对应 invited_users
//
// 注册时使用有效推荐码才会写入；写入后不再修改或删除。
type InvitedUser struct {
	InvitedUserID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"invited_user_id"`
	ReferralCode  string `gorm:"type:varchar(10);not null"                      json:"referral_code"`
	Email         string `gorm:"type:varchar(255);not null"                     json:"email"`
	ReferrerID    string `gorm:"type:uuid;not null;index"                       json:"referrer_id"`
	BaseModel
}

// TableName 指定表名
func (InvitedUser) TableName() string { return "invited_users" }
