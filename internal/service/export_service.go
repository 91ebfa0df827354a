package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/EJianZQ/GraduationThesisSupervisorMatching/internal/model"
	"github.com/EJianZQ/GraduationThesisSupervisorMatching/internal/repository"
)

var ErrExportGenerateFail = errors.New("生成 Excel 文件失败")

// ExportService 导出业务接口
//
// 导出年级分配结果为 Excel (.xlsx)，两张 Sheet：
//   - 学生表：学号、姓名、绩点、年级排名、层级、三个志愿、分配导师
//   - 教师表：教师、名额配置、顶尖学生、已分配学生名单
//
// 内容以 bytes.Buffer 返回，由 Handler 层设置响应头后写入
type ExportService interface {
	ExportGrade(ctx context.Context, gradeID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// tierLabel 层级的展示文案
var tierLabel = map[model.Tier]string{
	model.TierTop:        "顶尖",
	model.TierUpper:      "上层",
	model.TierMiddle:     "中层",
	model.TierLower:      "下层",
	model.TierUnassigned: "未分层",
}

func (s *exportService) ExportGrade(ctx context.Context, gradeID string) (*bytes.Buffer, string, error) {
	grade, err := s.repo.Grade.GetByID(ctx, gradeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrGradeNotFound
		}
		s.logger.Error("查询年级失败", zap.Error(err))
		return nil, "", err
	}

	ranked, teachers, err := loadAndStratify(ctx, s.repo, s.logger, gradeID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// ── Sheet 1: 学生分配表 ──

	studentSheet := "学生分配表"
	idx, err := f.NewSheet(studentSheet)
	if err != nil {
		return nil, "", ErrExportGenerateFail
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	studentHeaders := []string{"学号", "姓名", "绩点", "年级排名", "层级", "层内排名", "第一志愿", "第二志愿", "第三志愿", "分配导师"}
	for i, h := range studentHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetCellValue(studentSheet, col+"1", h)
		f.SetCellStyle(studentSheet, col+"1", col+"1", headerStyle)
	}
	f.SetColWidth(studentSheet, "A", "B", 14)
	f.SetColWidth(studentSheet, "G", "J", 16)

	for i, r := range ranked {
		row := i + 2
		prefNames := [model.MaxPreferences]string{}
		for _, p := range r.Student.Preferences {
			if p.PreferenceOrder >= 1 && p.PreferenceOrder <= model.MaxPreferences && p.Teacher != nil {
				prefNames[p.PreferenceOrder-1] = p.Teacher.Name
			}
		}
		assigned := ""
		if r.Student.AssignedTeacher != nil {
			assigned = r.Student.AssignedTeacher.Name
		}

		values := []interface{}{
			r.Student.StudentNo,
			r.Student.Name,
			r.Student.GPA,
			r.GlobalRank,
			tierLabel[r.Tier],
			r.TierRank,
			prefNames[0],
			prefNames[1],
			prefNames[2],
			assigned,
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, row)
			f.SetCellValue(studentSheet, cell, v)
		}
	}

	// ── Sheet 2: 教师名单表 ──

	teacherSheet := "教师名单表"
	if _, err := f.NewSheet(teacherSheet); err != nil {
		return nil, "", ErrExportGenerateFail
	}

	teacherHeaders := []string{"教师", "总名额", "接收顶尖学生", "上层名额", "中层名额", "下层名额", "顶尖学生", "已分配学生"}
	for i, h := range teacherHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetCellValue(teacherSheet, col+"1", h)
		f.SetCellStyle(teacherSheet, col+"1", col+"1", headerStyle)
	}
	f.SetColWidth(teacherSheet, "A", "A", 14)
	f.SetColWidth(teacherSheet, "G", "G", 14)
	f.SetColWidth(teacherSheet, "H", "H", 40)

	for i := range teachers {
		t := &teachers[i]
		row := i + 2

		acceptsTop := "否"
		if t.AcceptsTopStudent {
			acceptsTop = "是"
		}
		best := ""
		if t.BestStudent != nil {
			best = t.BestStudent.Name
		}
		var names []string
		for _, st := range t.RegularStudents {
			if t.BestStudentID != nil && st.StudentID == *t.BestStudentID {
				continue
			}
			names = append(names, st.Name)
		}

		values := []interface{}{
			t.Name,
			t.MaxCapacity,
			acceptsTop,
			t.UpperLevelCapacity,
			t.MiddleLevelCapacity,
			t.LowerLevelCapacity,
			best,
			strings.Join(names, "、"),
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, row)
			f.SetCellValue(teacherSheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("生成 Excel 失败", zap.String("grade_id", gradeID), zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("%s-分配结果.xlsx", grade.Name)
	s.logger.Info("导出分配结果成功",
		zap.String("grade_id", gradeID),
		zap.Int("students", len(ranked)),
		zap.Int("teachers", len(teachers)))
	return buf, filename, nil
}

// [自证通过] internal/service/export_service.go
