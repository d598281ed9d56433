// Package handler 提供 HTTP 请求处理器
package handler

import (
	"ticket-contest-api/internal/application/contest"
	"ticket-contest-api/internal/interfaces/http/dto"
	"ticket-contest-api/pkg/errors"
	"ticket-contest-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ContestHandler 申诉评估处理器
type ContestHandler struct {
	service *contest.Service
}

// NewContestHandler 创建申诉评估处理器
func NewContestHandler(service *contest.Service) *ContestHandler {
	return &ContestHandler{
		service: service,
	}
}

// Score 评估申诉胜算
// @Summary 评估申诉胜算
// @Description 检索相似判例并计算罚单申诉评分
// @Tags Contest
// @Accept json
// @Produce json
// @Param body body dto.ScoreRequest true "工单信息"
// @Success 200 {object} dto.Response[dto.ScoreResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /v1/contest/score [post]
func (h *ContestHandler) Score(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.ScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	result, err := h.service.Score(ctx, req.ToTicket())
	if err != nil {
		appErr := errors.AsAppError(err)
		if appErr.HTTPStatus >= 500 {
			logger.Error(ctx, "failed to score contest", err)
		}
		dto.AppError(c, appErr)
		return
	}

	dto.Success(c, dto.FromContestResult(result))
}
