package dto

// ── 认证模块 DTO ──

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// IdentityRequest 身份查询参数
type IdentityRequest struct {
	Email string `form:"email" binding:"required,email"`
}
