package dto

// LoginRequest 登录请求（管理员用用户名，学生用学号）
type LoginRequest struct {
	Account  string `json:"account"  binding:"required,max=50"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	Token   string          `json:"token"`
	Role    string          `json:"role"`
	Name    string          `json:"name"`
	Profile *StudentProfile `json:"profile,omitempty"`
}

// ChangePasswordRequest 学生修改密码请求
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6,max=72"`
}

// [自证通过] internal/dto/auth.go
