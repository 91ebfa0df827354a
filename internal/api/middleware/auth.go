package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/EJianZQ/GraduationThesisSupervisorMatching/pkg/jwt"
	"github.com/EJianZQ/GraduationThesisSupervisorMatching/pkg/redis"
	"github.com/EJianZQ/GraduationThesisSupervisorMatching/pkg/response"
)

// JWTAuth JWT 认证中间件
// 从 Authorization: Bearer <token> 中提取并验证 Token，并检查登出黑名单
func JWTAuth(jwtMgr *jwt.Manager, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, 10002, "缺少认证头")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, 10002, "认证头格式无效")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(parts[1])
		if err != nil {
			response.Unauthorized(c, 10002, "Token 无效或已过期")
			c.Abort()
			return
		}

		// 登出后的 Token 不再接受；Redis 故障时放行，不阻塞正常请求
		if rdb != nil {
			if blacklisted, err := rdb.IsBlacklisted(c.Request.Context(), claims.ID); err == nil && blacklisted {
				response.Unauthorized(c, 10002, "Token 已失效")
				c.Abort()
				return
			}
		}

		// 将用户信息注入上下文
		c.Set("claims", claims)
		c.Set("account", claims.Account)
		c.Set("role", claims.Role)
		c.Set("grade_id", claims.GradeID)

		c.Next()
	}
}

// RoleAuth 角色权限中间件
// 检查当前用户是否具有指定角色之一
func RoleAuth(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			response.Unauthorized(c, 10002, "未认证")
			c.Abort()
			return
		}

		userRole := role.(string)
		for _, r := range allowedRoles {
			if userRole == r {
				c.Next()
				return
			}
		}

		response.Forbidden(c, 10003, "无权限访问")
		c.Abort()
	}
}

// [自证通过] internal/api/middleware/auth.go
