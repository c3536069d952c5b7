package model

// ── 规则类型常量 ──

const (
	RuleUnavailable = "unavailable" // 成员在某任务的某一天不可用
	RuleNever       = "never"       // 成员永远不做某任务
	RuleSkipDay     = "skip_day"    // 某任务在某一天对所有人停排
)

// Rule 排班规则表 — 对应 rules
//
// 标签化变体：rule_type 决定哪些字段有意义。
//   - unavailable: member_id + task_id + day_of_week
//   - never:       member_id + task_id（任意一天）
//   - skip_day:    task_id + day_of_week（对所有成员生效）
//
// 规则是叠加在基础资格过滤之上的附加约束。
type Rule struct {
	RuleID    string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"rule_id"`
	RuleType  string  `gorm:"type:varchar(20);not null"                      json:"rule_type"`
	TaskID    string  `gorm:"type:uuid;not null;index"                       json:"task_id"`
	MemberID  *string `gorm:"type:uuid"                                      json:"member_id,omitempty"`   // skip_day 时为空
	DayOfWeek *int    `gorm:"type:smallint"                                  json:"day_of_week,omitempty"` // 0=周一 … 6=周日；never 时为空
	Reason    string  `gorm:"type:varchar(200)"                              json:"reason,omitempty"`
	IsEnabled bool    `gorm:"not null;default:true"                          json:"is_enabled"`
	VersionedModel

	// 关联
	Task   *Task   `gorm:"foreignKey:TaskID;references:TaskID"     json:"task,omitempty"`
	Member *Member `gorm:"foreignKey:MemberID;references:MemberID" json:"member,omitempty"`
}

// TableName 指定表名
func (Rule) TableName() string { return "rules" }

// [自证通过] internal/model/rule.go
