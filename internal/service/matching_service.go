package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/EJianZQ/GraduationThesisSupervisorMatching/internal/dto"
	"github.com/EJianZQ/GraduationThesisSupervisorMatching/internal/model"
	"github.com/EJianZQ/GraduationThesisSupervisorMatching/internal/repository"
	pkgerrors "github.com/EJianZQ/GraduationThesisSupervisorMatching/pkg/errors"
)

// 分配引擎业务错误
var (
	ErrGradeNotFound          = errors.New("年级不存在")
	ErrStudentNotFound        = errors.New("学生不存在")
	ErrTeacherNotFound        = errors.New("教师不存在")
	ErrNotTopStudent          = errors.New("仅顶尖层级学生可直接选择导师")
	ErrTeacherNotInGrade      = errors.New("教师不属于该学生所在年级")
	ErrTeacherNotAcceptingTop = errors.New("该教师不接收顶尖学生")
	ErrTopSlotTaken           = errors.New("该教师的顶尖名额已被占用")
	ErrStudentAlreadyAssigned = errors.New("该学生已有分配导师")
)

// MatchingService 分层与分配引擎。
//
// ComputeTiers 为只读报表；ChooseTopTeacher 处理顶尖学生的独占选择（带并发
// 保护）；RunAssignment 对非顶尖学生执行志愿匹配与回退分配，整批一个事务；
// ClearAssignments 清空年级全部分配状态。
type MatchingService interface {
	ComputeTiers(ctx context.Context, gradeID string) ([]dto.StudentTierInfo, error)
	ChooseTopTeacher(ctx context.Context, studentID, teacherID string) error
	RunAssignment(ctx context.Context, gradeID string) (*dto.AssignmentReport, error)
	ClearAssignments(ctx context.Context, gradeID string) error
}

// matchingService MatchingService 实现
type matchingService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewMatchingService 创建分配引擎服务
func NewMatchingService(repo *repository.Repository, logger *zap.Logger) MatchingService {
	return &matchingService{repo: repo, logger: logger}
}

// ── 只读分层报表 ──

func (s *matchingService) ComputeTiers(ctx context.Context, gradeID string) ([]dto.StudentTierInfo, error) {
	ranked, _, err := loadAndStratify(ctx, s.repo, s.logger, gradeID)
	if err != nil {
		return nil, err
	}

	infos := make([]dto.StudentTierInfo, 0, len(ranked))
	for _, r := range ranked {
		info := dto.StudentTierInfo{
			StudentID:  r.Student.StudentID,
			StudentNo:  r.Student.StudentNo,
			Name:       r.Student.Name,
			GPA:        r.Student.GPA,
			GlobalRank: r.GlobalRank,
			Tier:       string(r.Tier),
			TierRank:   r.TierRank,
		}
		if r.Student.AssignedTeacher != nil {
			name := r.Student.AssignedTeacher.Name
			info.AssignedTeacherName = &name
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// loadAndStratify 读取年级快照并完成分层。
// 报表、正式分配、学生视图与导出共用此入口，保证各处分层结果一致。
func loadAndStratify(ctx context.Context, repo *repository.Repository, logger *zap.Logger, gradeID string) ([]rankedStudent, []model.Teacher, error) {
	if _, err := repo.Grade.GetByID(ctx, gradeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrGradeNotFound
		}
		logger.Error("查询年级失败", zap.String("grade_id", gradeID), zap.Error(err))
		return nil, nil, err
	}

	students, err := repo.Student.ListByGrade(ctx, gradeID)
	if err != nil {
		logger.Error("查询年级学生失败", zap.String("grade_id", gradeID), zap.Error(err))
		return nil, nil, err
	}
	teachers, err := repo.Teacher.ListByGrade(ctx, gradeID)
	if err != nil {
		logger.Error("查询年级教师失败", zap.String("grade_id", gradeID), zap.Error(err))
		return nil, nil, err
	}

	ranked := stratifyStudents(students, capacitiesFromTeachers(teachers))
	return ranked, teachers, nil
}

// ── 顶尖名额独占选择 ──

func (s *matchingService) ChooseTopTeacher(ctx context.Context, studentID, teacherID string) error {
	student, err := s.repo.Student.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStudentNotFound
		}
		s.logger.Error("查询学生失败", zap.String("student_id", studentID), zap.Error(err))
		return err
	}
	teacher, err := s.repo.Teacher.GetByID(ctx, teacherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTeacherNotFound
		}
		s.logger.Error("查询教师失败", zap.String("teacher_id", teacherID), zap.Error(err))
		return err
	}

	if teacher.GradeID != student.GradeID {
		return ErrTeacherNotInGrade
	}
	if !teacher.AcceptsTopStudent {
		return ErrTeacherNotAcceptingTop
	}
	if student.AssignedTeacherID != nil {
		return ErrStudentAlreadyAssigned
	}

	// 基于当前年级状态重新分层，确认请求者确实处于顶尖层级
	ranked, _, err := loadAndStratify(ctx, s.repo, s.logger, student.GradeID)
	if err != nil {
		return err
	}
	inTop := false
	for _, r := range ranked {
		if r.Student.StudentID == studentID {
			inTop = r.Tier == model.TierTop
			break
		}
	}
	if !inTop {
		return ErrNotTopStudent
	}

	// 条件更新实现先读后写校验：名额已被占用时整个操作回滚
	err = s.repo.Assignment.ClaimBestStudent(ctx, teacherID, studentID)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			return ErrTopSlotTaken
		}
		s.logger.Error("顶尖名额写入失败",
			zap.String("teacher_id", teacherID),
			zap.String("student_id", studentID),
			zap.Error(err))
		return err
	}

	s.logger.Info("顶尖学生选择导师成功",
		zap.String("student_id", studentID),
		zap.String("teacher_id", teacherID))
	return nil
}

// ── 批量分配运行 ──

// capacityBook 每位教师每个层级的剩余名额，运行开始时基于快照构建一次，
// 运行期间只在内存中增减，不回查存储。
type capacityBook map[string]map[model.Tier]int

func newCapacityBook(teachers []model.Teacher) capacityBook {
	book := make(capacityBook, len(teachers))
	for i := range teachers {
		t := &teachers[i]
		book[t.TeacherID] = map[model.Tier]int{
			model.TierUpper:  t.UpperLevelCapacity,
			model.TierMiddle: t.MiddleLevelCapacity,
			model.TierLower:  t.LowerLevelCapacity,
		}
	}
	return book
}

func (s *matchingService) RunAssignment(ctx context.Context, gradeID string) (*dto.AssignmentReport, error) {
	ranked, teachers, err := loadAndStratify(ctx, s.repo, s.logger, gradeID)
	if err != nil {
		return nil, err
	}

	// 顶尖分配的学生集合：本次运行不触碰
	topAssigned := make(map[string]struct{})
	for _, t := range teachers {
		if t.BestStudentID != nil {
			topAssigned[*t.BestStudentID] = struct{}{}
		}
	}

	book := newCapacityBook(teachers)

	// result[studentID] = 最终分配的教师（nil 表示清除），
	// 非顶尖学生全部重算，先前的非顶尖分配一律覆盖
	result := make(map[string]*string)
	teacherName := make(map[string]string, len(teachers))
	for _, t := range teachers {
		teacherName[t.TeacherID] = t.Name
	}

	report := &dto.AssignmentReport{
		NoPreference:        []dto.UnassignedStudentInfo{},
		PreferenceExhausted: []dto.UnassignedStudentInfo{},
		Unplaced:            []dto.UnassignedStudentInfo{},
	}

	// 志愿匹配落空、交给回退分配处理的学生
	type leftover struct {
		ranked rankedStudent
		noPref bool
	}
	var leftovers []leftover

	// 第一阶段：按 Upper → Middle → Lower 逐层做志愿匹配，
	// 层内顺序即分层结果的绩点降序
	for _, tier := range model.MatchableTiers {
		for _, r := range ranked {
			if r.Tier != tier {
				continue
			}
			if _, ok := topAssigned[r.Student.StudentID]; ok {
				continue
			}
			result[r.Student.StudentID] = nil

			if len(r.Student.Preferences) == 0 {
				leftovers = append(leftovers, leftover{ranked: r, noPref: true})
				continue
			}

			matched := false
			for _, p := range r.Student.Preferences {
				remaining, inGrade := book[p.TeacherID]
				if !inGrade {
					continue
				}
				if remaining[tier] > 0 {
					remaining[tier]--
					tid := p.TeacherID
					result[r.Student.StudentID] = &tid
					matched = true
					break
				}
			}
			if !matched {
				leftovers = append(leftovers, leftover{ranked: r})
			}
		}
	}

	// 第二阶段：回退分配，按教师 ID 升序找本层级第一个有空位的教师
	for _, lo := range leftovers {
		r := lo.ranked
		info := dto.UnassignedStudentInfo{
			StudentID: r.Student.StudentID,
			StudentNo: r.Student.StudentNo,
			Name:      r.Student.Name,
			Tier:      string(r.Tier),
		}
		for _, t := range teachers {
			if book[t.TeacherID][r.Tier] > 0 {
				book[t.TeacherID][r.Tier]--
				tid := t.TeacherID
				result[r.Student.StudentID] = &tid
				name := teacherName[tid]
				info.AssignedTeacherName = &name
				break
			}
		}
		if lo.noPref {
			report.NoPreference = append(report.NoPreference, info)
		} else {
			report.PreferenceExhausted = append(report.PreferenceExhausted, info)
		}
		if info.AssignedTeacherName == nil {
			report.Unplaced = append(report.Unplaced, info)
		}
	}

	// 整组放不进任何层级的学生不参与匹配，仅清除旧分配并在报告中列出
	for _, r := range ranked {
		if r.Tier != model.TierUnassigned {
			continue
		}
		if _, ok := topAssigned[r.Student.StudentID]; ok {
			continue
		}
		result[r.Student.StudentID] = nil
		report.Unplaced = append(report.Unplaced, dto.UnassignedStudentInfo{
			StudentID: r.Student.StudentID,
			StudentNo: r.Student.StudentNo,
			Name:      r.Student.Name,
			Tier:      string(r.Tier),
		})
	}

	// 顶尖层级但尚未行使选择权的学生保持原状，不生成变更

	changes := make([]repository.AssignmentChange, 0, len(result))
	for _, r := range ranked {
		tid, ok := result[r.Student.StudentID]
		if !ok {
			continue
		}
		changes = append(changes, repository.AssignmentChange{
			StudentID: r.Student.StudentID,
			TeacherID: tid,
		})
		if tid != nil {
			report.AssignedCount++
		}
	}

	if err := s.repo.Assignment.ApplyAssignments(ctx, changes); err != nil {
		s.logger.Error("分配结果写入失败", zap.String("grade_id", gradeID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("分配运行完成",
		zap.String("grade_id", gradeID),
		zap.Int("assigned", report.AssignedCount),
		zap.Int("no_preference", len(report.NoPreference)),
		zap.Int("preference_exhausted", len(report.PreferenceExhausted)),
		zap.Int("unplaced", len(report.Unplaced)))
	return report, nil
}

// ── 清空分配 ──

func (s *matchingService) ClearAssignments(ctx context.Context, gradeID string) error {
	if _, err := s.repo.Grade.GetByID(ctx, gradeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGradeNotFound
		}
		return err
	}
	if err := s.repo.Assignment.ClearGrade(ctx, gradeID); err != nil {
		s.logger.Error("清空分配失败", zap.String("grade_id", gradeID), zap.Error(err))
		return err
	}
	s.logger.Info("年级分配已清空", zap.String("grade_id", gradeID))
	return nil
}

// [自证通过] internal/service/matching_service.go
