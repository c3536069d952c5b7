package dto

// ── 建议模块 DTO ──

// SuggestRequest 按需建议请求："现在谁该做 X？"
type SuggestRequest struct {
	TaskName string `form:"task"  binding:"required,min=1,max=50"`
	Date     string `form:"date"  binding:"omitempty,datetime=2006-01-02"` // 默认今天
}

// CandidateScore 单个候选成员的加权评分明细
type CandidateScore struct {
	Member       MemberBrief `json:"member"`
	Score        float64     `json:"score"`
	WeeklyCount  int         `json:"weekly_count"`   // 本周已完成总次数
	MonthlyCount int         `json:"monthly_count"`  // 本月该任务完成次数
	DaysSince    int         `json:"days_since"`     // 距上次做该任务的天数（封顶 7）
	Eligible     bool        `json:"eligible"`
	Excluded     string      `json:"excluded,omitempty"` // 不合格原因
}

// SuggestResponse 按需建议响应
type SuggestResponse struct {
	Task       TaskBrief        `json:"task"`
	Date       string           `json:"date"`
	Suggested  MemberBrief      `json:"suggested"`
	TiedCount  int              `json:"tied_count"` // 并列最低分的人数（>1 表示随机挑选）
	Candidates []CandidateScore `json:"candidates"`
}

// [自证通过] internal/dto/suggest.go
