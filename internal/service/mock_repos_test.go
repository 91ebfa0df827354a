package service

import (
	"context"
	"sort"
	"sync"

	"gorm.io/gorm"

	"github.com/EJianZQ/GraduationThesisSupervisorMatching/internal/model"
	"github.com/EJianZQ/GraduationThesisSupervisorMatching/internal/repository"
	pkgerrors "github.com/EJianZQ/GraduationThesisSupervisorMatching/pkg/errors"
)

// mockDB 各 Mock Repository 共享的内存存储。
// 互斥锁保证并发安全，顶尖名额抢占的并发测试依赖其序列化语义。
type mockDB struct {
	mu       sync.Mutex
	grades   map[string]*model.Grade
	students map[string]*model.Student
	teachers map[string]*model.Teacher
	prefs    map[string][]model.Preference // studentID → 按志愿顺序排列
	admins   map[string]*model.Admin
}

func newMockDB() *mockDB {
	return &mockDB{
		grades:   make(map[string]*model.Grade),
		students: make(map[string]*model.Student),
		teachers: make(map[string]*model.Teacher),
		prefs:    make(map[string][]model.Preference),
		admins:   make(map[string]*model.Admin),
	}
}

// newMockRepository 构造基于内存存储的 Repository 聚合
func newMockRepository() (*repository.Repository, *mockDB) {
	db := newMockDB()
	return &repository.Repository{
		Grade:      &mockGradeRepo{db: db},
		Student:    &mockStudentRepo{db: db},
		Teacher:    &mockTeacherRepo{db: db},
		Preference: &mockPreferenceRepo{db: db},
		Admin:      &mockAdminRepo{db: db},
		Assignment: &mockAssignmentRepo{db: db},
	}, db
}

// ── 快照辅助：模拟真实仓储的关联预加载，返回副本 ──

func (db *mockDB) studentSnapshot(s *model.Student) model.Student {
	out := *s
	out.Preferences = nil
	for _, p := range db.prefs[s.StudentID] {
		pc := p
		if t, ok := db.teachers[p.TeacherID]; ok {
			tc := *t
			pc.Teacher = &tc
		}
		out.Preferences = append(out.Preferences, pc)
	}
	if s.AssignedTeacherID != nil {
		if t, ok := db.teachers[*s.AssignedTeacherID]; ok {
			tc := *t
			out.AssignedTeacher = &tc
		}
	}
	if g, ok := db.grades[s.GradeID]; ok {
		gc := *g
		out.Grade = &gc
	}
	return out
}

func (db *mockDB) teacherSnapshot(t *model.Teacher) model.Teacher {
	out := *t
	if t.BestStudentID != nil {
		if s, ok := db.students[*t.BestStudentID]; ok {
			sc := *s
			out.BestStudent = &sc
		}
	}
	out.RegularStudents = nil
	for _, s := range db.students {
		if s.AssignedTeacherID != nil && *s.AssignedTeacherID == t.TeacherID {
			out.RegularStudents = append(out.RegularStudents, *s)
		}
	}
	sort.Slice(out.RegularStudents, func(i, j int) bool {
		return out.RegularStudents[i].StudentNo < out.RegularStudents[j].StudentNo
	})
	return out
}

// ── Mock GradeRepository ──

type mockGradeRepo struct {
	db *mockDB
}

func (m *mockGradeRepo) Create(_ context.Context, grade *model.Grade) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if grade.GradeID == "" {
		grade.GradeID = "grade-" + grade.Name
	}
	g := *grade
	m.db.grades[g.GradeID] = &g
	return nil
}

func (m *mockGradeRepo) GetByID(_ context.Context, id string) (*model.Grade, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if g, ok := m.db.grades[id]; ok {
		gc := *g
		return &gc, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockGradeRepo) GetByName(_ context.Context, name string) (*model.Grade, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	for _, g := range m.db.grades {
		if g.Name == name {
			gc := *g
			return &gc, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockGradeRepo) List(_ context.Context) ([]model.Grade, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	var result []model.Grade
	for _, g := range m.db.grades {
		result = append(result, *g)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// ── Mock StudentRepository ──

type mockStudentRepo struct {
	db *mockDB
}

func (m *mockStudentRepo) Create(_ context.Context, student *model.Student) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if student.StudentID == "" {
		student.StudentID = "stu-" + student.StudentNo
	}
	s := *student
	m.db.students[s.StudentID] = &s
	return nil
}

func (m *mockStudentRepo) BatchCreate(_ context.Context, students []model.Student) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	for i := range students {
		s := students[i]
		if s.StudentID == "" {
			s.StudentID = "stu-" + s.StudentNo
		}
		m.db.students[s.StudentID] = &s
	}
	return nil
}

func (m *mockStudentRepo) GetByID(_ context.Context, id string) (*model.Student, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if s, ok := m.db.students[id]; ok {
		snap := m.db.studentSnapshot(s)
		return &snap, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) GetByStudentNo(_ context.Context, studentNo string) (*model.Student, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	for _, s := range m.db.students {
		if s.StudentNo == studentNo {
			snap := m.db.studentSnapshot(s)
			return &snap, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) ListByGrade(_ context.Context, gradeID string) ([]model.Student, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	var result []model.Student
	for _, s := range m.db.students {
		if s.GradeID == gradeID {
			result = append(result, m.db.studentSnapshot(s))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		mi, mj := result[i].GPAMillis(), result[j].GPAMillis()
		if mi != mj {
			return mi > mj
		}
		return result[i].StudentNo < result[j].StudentNo
	})
	return result, nil
}

func (m *mockStudentRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if s, ok := m.db.students[id]; ok {
		s.PasswordHash = passwordHash
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) CountAssignedToTeacher(_ context.Context, teacherID string) (int64, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	var count int64
	for _, s := range m.db.students {
		if s.AssignedTeacherID != nil && *s.AssignedTeacherID == teacherID {
			count++
		}
	}
	return count, nil
}

// ── Mock TeacherRepository ──

type mockTeacherRepo struct {
	db *mockDB
}

func (m *mockTeacherRepo) Create(_ context.Context, teacher *model.Teacher) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if teacher.TeacherID == "" {
		teacher.TeacherID = "t-" + teacher.Name
	}
	t := *teacher
	m.db.teachers[t.TeacherID] = &t
	return nil
}

func (m *mockTeacherRepo) GetByID(_ context.Context, id string) (*model.Teacher, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if t, ok := m.db.teachers[id]; ok {
		snap := m.db.teacherSnapshot(t)
		return &snap, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTeacherRepo) ListByGrade(_ context.Context, gradeID string) ([]model.Teacher, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	var result []model.Teacher
	for _, t := range m.db.teachers {
		if t.GradeID == gradeID {
			result = append(result, m.db.teacherSnapshot(t))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].TeacherID < result[j].TeacherID })
	return result, nil
}

func (m *mockTeacherRepo) Delete(_ context.Context, id string) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	delete(m.db.teachers, id)
	return nil
}

// ── Mock PreferenceRepository ──

type mockPreferenceRepo struct {
	db *mockDB
}

func (m *mockPreferenceRepo) ReplaceForStudent(_ context.Context, studentID string, teacherIDs []string) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	prefs := make([]model.Preference, 0, len(teacherIDs))
	for i, tid := range teacherIDs {
		prefs = append(prefs, model.Preference{
			StudentID:       studentID,
			TeacherID:       tid,
			PreferenceOrder: i + 1,
		})
	}
	m.db.prefs[studentID] = prefs
	return nil
}

func (m *mockPreferenceRepo) ListByStudent(_ context.Context, studentID string) ([]model.Preference, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	result := make([]model.Preference, len(m.db.prefs[studentID]))
	copy(result, m.db.prefs[studentID])
	return result, nil
}

func (m *mockPreferenceRepo) CountByTeacherForGrade(_ context.Context, gradeID string) (map[string]int64, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	counts := make(map[string]int64)
	for studentID, prefs := range m.db.prefs {
		s, ok := m.db.students[studentID]
		if !ok || s.GradeID != gradeID {
			continue
		}
		for _, p := range prefs {
			counts[p.TeacherID]++
		}
	}
	return counts, nil
}

// ── Mock AdminRepository ──

type mockAdminRepo struct {
	db *mockDB
}

func (m *mockAdminRepo) Create(_ context.Context, admin *model.Admin) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if admin.AdminID == "" {
		admin.AdminID = "admin-" + admin.Username
	}
	a := *admin
	m.db.admins[a.Username] = &a
	return nil
}

func (m *mockAdminRepo) GetByUsername(_ context.Context, username string) (*model.Admin, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if a, ok := m.db.admins[username]; ok {
		ac := *a
		return &ac, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock AssignmentRepository ──

type mockAssignmentRepo struct {
	db *mockDB
}

func (m *mockAssignmentRepo) ClaimBestStudent(_ context.Context, teacherID, studentID string) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	t, ok := m.db.teachers[teacherID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	// 条件更新：best_student_id 非空时影响行数为 0
	if t.BestStudentID != nil {
		return pkgerrors.ErrOptimisticLock
	}
	s, ok := m.db.students[studentID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	sid := studentID
	tid := teacherID
	t.BestStudentID = &sid
	s.AssignedTeacherID = &tid
	return nil
}

func (m *mockAssignmentRepo) ApplyAssignments(_ context.Context, changes []repository.AssignmentChange) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	for _, ch := range changes {
		s, ok := m.db.students[ch.StudentID]
		if !ok {
			return gorm.ErrRecordNotFound
		}
		if ch.TeacherID == nil {
			s.AssignedTeacherID = nil
		} else {
			tid := *ch.TeacherID
			s.AssignedTeacherID = &tid
		}
	}
	return nil
}

func (m *mockAssignmentRepo) ClearGrade(_ context.Context, gradeID string) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	for _, s := range m.db.students {
		if s.GradeID == gradeID {
			s.AssignedTeacherID = nil
		}
	}
	for _, t := range m.db.teachers {
		if t.GradeID == gradeID {
			t.BestStudentID = nil
		}
	}
	return nil
}

// [自证通过] internal/service/mock_repos_test.go
