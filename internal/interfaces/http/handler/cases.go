// Package handler 提供 HTTP 请求处理器
package handler

import (
	stderrors "errors"

	"ticket-contest-api/internal/application/retrieval"
	"ticket-contest-api/internal/interfaces/http/dto"
	"ticket-contest-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// CaseHandler 判例索引处理器
type CaseHandler struct {
	indexer *retrieval.Indexer
}

// NewCaseHandler 创建判例索引处理器
func NewCaseHandler(indexer *retrieval.Indexer) *CaseHandler {
	return &CaseHandler{
		indexer: indexer,
	}
}

// Index 索引判例文书
// @Summary 索引判例文书
// @Description 写入判例主表并构建向量分块索引
// @Tags Cases
// @Accept json
// @Produce json
// @Param body body dto.IndexCaseRequest true "判例文书"
// @Success 200 {object} dto.Response[dto.IndexCaseResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /v1/cases [post]
func (h *CaseHandler) Index(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.IndexCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	resp := dto.IndexCaseResponse{Citation: req.Citation}

	err := h.indexer.IndexDecision(ctx, req.ToDecisionDocument())
	switch {
	case err == nil:
		resp.Indexed = true
		resp.Vector = true
	case stderrors.Is(err, retrieval.ErrSemanticDisabled):
		// 主表已写入，向量路径不可用，全文检索仍可命中
		resp.Indexed = true
		logger.Warn(ctx, "vector indexing skipped, semantic path disabled",
			"citation", req.Citation,
		)
	default:
		logger.Error(ctx, "failed to index decision", err,
			"citation", req.Citation,
		)
		dto.InternalError(c, "failed to index decision")
		return
	}

	dto.Success(c, resp)
}
