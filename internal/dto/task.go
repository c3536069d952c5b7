package dto

// ── 任务模块 DTO ──

// CreateTaskRequest 创建任务请求
type CreateTaskRequest struct {
	Name            string `json:"name"              binding:"required,min=1,max=50"`
	DisplayName     string `json:"display_name"      binding:"required,min=1,max=100"`
	Description     string `json:"description"       binding:"omitempty,max=500"`
	TimeOfDay       string `json:"time_of_day"       binding:"required,oneof=morning midday evening"`
	WeeklyTarget    int    `json:"weekly_target"     binding:"required,min=1,max=21"`
	PerMemberTarget int    `json:"per_member_target" binding:"omitempty,min=0,max=7"`
	RotationWeeks   int    `json:"rotation_weeks"    binding:"omitempty,min=1,max=52"`
	MinSpacingDays  int    `json:"min_spacing_days"  binding:"omitempty,min=0,max=6"`
	WeekdayOnly     bool   `json:"weekday_only"`
	ExtraSlots      []int  `json:"extra_slots"       binding:"omitempty,dive,min=0,max=2"`
}

// UpdateTaskRequest 更新任务请求
type UpdateTaskRequest struct {
	DisplayName     *string `json:"display_name"      binding:"omitempty,min=1,max=100"`
	Description     *string `json:"description"       binding:"omitempty,max=500"`
	TimeOfDay       *string `json:"time_of_day"       binding:"omitempty,oneof=morning midday evening"`
	WeeklyTarget    *int    `json:"weekly_target"     binding:"omitempty,min=1,max=21"`
	PerMemberTarget *int    `json:"per_member_target" binding:"omitempty,min=0,max=7"`
	RotationWeeks   *int    `json:"rotation_weeks"    binding:"omitempty,min=1,max=52"`
	MinSpacingDays  *int    `json:"min_spacing_days"  binding:"omitempty,min=0,max=6"`
	WeekdayOnly     *bool   `json:"weekday_only"`
	ExtraSlots      []int   `json:"extra_slots"       binding:"omitempty,dive,min=0,max=2"`
}

// TaskResponse 任务信息响应
type TaskResponse struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	DisplayName     string `json:"display_name"`
	Description     string `json:"description,omitempty"`
	TimeOfDay       string `json:"time_of_day"`
	WeeklyTarget    int    `json:"weekly_target"`
	PerMemberTarget int    `json:"per_member_target"`
	RotationWeeks   int    `json:"rotation_weeks"`
	MinSpacingDays  int    `json:"min_spacing_days"`
	WeekdayOnly     bool   `json:"weekday_only"`
	ExtraSlots      []int  `json:"extra_slots,omitempty"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
}

// [自证通过] internal/dto/task.go
