package dto

// ── 认证模块 DTO ──

// SignUpRequest 注册请求
type SignUpRequest struct {
	Email        string `json:"email"         binding:"required,email"`
	Password     string `json:"password"      binding:"required,min=8,max=64"`
	ReferralCode string `json:"referral_code" binding:"omitempty,len=10"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse 登录成功响应
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"` // 固定为 "bearer"
}

// MessageResponse 仅含提示信息的响应
type MessageResponse struct {
	Message string `json:"message"`
}
