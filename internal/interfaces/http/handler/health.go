// Package handler 提供 HTTP 请求处理器
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"ticket-contest-api/internal/infrastructure/persistence/milvus"
	"ticket-contest-api/internal/infrastructure/persistence/postgres"
	"ticket-contest-api/internal/infrastructure/persistence/redis"
)

// HealthHandler 健康检查处理器
type HealthHandler struct {
	pg     *postgres.Client
	redis  *redis.Client
	milvus *milvus.Client
}

// NewHealthHandler 创建健康检查处理器
func NewHealthHandler(pg *postgres.Client, redisClient *redis.Client, milvusClient *milvus.Client) *HealthHandler {
	return &HealthHandler{
		pg:     pg,
		redis:  redisClient,
		milvus: milvusClient,
	}
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

type readinessCheck struct {
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	LatencyMs int64  `json:"latency_ms,omitempty"`
}

type readinessResponse struct {
	Status string                     `json:"status"`
	Checks map[string]*readinessCheck `json:"checks,omitempty"`
}

type healthChecker interface {
	HealthCheck(ctx context.Context) error
}

// runCheck 执行单个依赖探测并记录耗时。
// failStatus 区分必需依赖（error）与可降级依赖（degraded）。
func runCheck(ctx context.Context, dep healthChecker, failStatus string) *readinessCheck {
	check := &readinessCheck{}
	start := time.Now()
	err := dep.HealthCheck(ctx)
	check.LatencyMs = time.Since(start).Milliseconds()
	if err != nil {
		check.Status = failStatus
		check.Error = err.Error()
	} else {
		check.Status = "ok"
	}
	return check
}

// Health 健康检查接口
// @Summary 健康检查
// @Description 检查服务健康状态
// @Tags System
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// Ready 就绪检查接口。Postgres 与 Redis 为必需依赖，
// Milvus 故障只意味着语义检索降级，不影响就绪态。
// @Summary 就绪检查
// @Description 检查服务是否可以接收流量
// @Tags System
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	if h == nil {
		c.JSON(http.StatusServiceUnavailable, readinessResponse{Status: "not_ready"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := make(map[string]*readinessCheck)
	ready := true

	required := []struct {
		name    string
		dep     healthChecker
		missing bool
	}{
		{"postgres", h.pg, h.pg == nil},
		{"redis", h.redis, h.redis == nil},
	}
	for _, r := range required {
		if r.missing {
			checks[r.name] = &readinessCheck{Status: "missing", Error: r.name + " client not configured"}
			ready = false
			continue
		}
		check := runCheck(ctx, r.dep, "error")
		checks[r.name] = check
		if check.Status != "ok" {
			ready = false
		}
	}

	if h.milvus != nil {
		checks["milvus"] = runCheck(ctx, h.milvus, "degraded")
	} else {
		checks["milvus"] = &readinessCheck{Status: "disabled"}
	}

	resp := readinessResponse{Status: "ok", Checks: checks}
	if !ready {
		resp.Status = "not_ready"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Live 存活检查接口
// @Summary 存活检查
// @Description 检查服务是否存活
// @Tags System
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /live [get]
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}
