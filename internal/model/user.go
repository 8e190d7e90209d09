package model

// User 用户表 — 对应 users
type User struct {
	UserID       string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Email        string  `gorm:"type:varchar(255);not null;uniqueIndex"         json:"email"`
	PasswordHash string  `gorm:"type:varchar(255);not null"                     json:"-"`
	HunterInfo   JSONMap `gorm:"type:jsonb"                                     json:"hunter_info,omitempty"`
	BaseModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }
