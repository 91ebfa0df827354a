package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/EJianZQ/GraduationThesisSupervisorMatching/internal/dto"
	"github.com/EJianZQ/GraduationThesisSupervisorMatching/internal/service"
	"github.com/EJianZQ/GraduationThesisSupervisorMatching/pkg/response"
)

// AuthHandler 认证模块 HTTP 处理器
type AuthHandler struct {
	authSvc service.AuthService
}

// NewAuthHandler 创建 AuthHandler
func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Login 管理员 / 学生登录
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, 11001, "账号或密码错误")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// Logout 登出，Token 进入黑名单
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := MustGetClaims(c)
	if !ok {
		return
	}
	if err := h.authSvc.Logout(c.Request.Context(), claims); err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, nil)
}

// ChangePassword 学生修改本人密码
// PUT /api/v1/auth/password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	account, ok := MustGetAccount(c)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.authSvc.ChangePassword(c.Request.Context(), account, &req); err != nil {
		switch {
		case errors.Is(err, service.ErrStudentNotFound):
			response.NotFound(c, 11002, "学生不存在")
		case errors.Is(err, service.ErrPasswordMismatch):
			response.BadRequest(c, 11003, "原密码错误")
		default:
			response.InternalError(c)
		}
		return
	}
	response.OK(c, nil)
}

// [自证通过] internal/api/handler/auth_handler.go
