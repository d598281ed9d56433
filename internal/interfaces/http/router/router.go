// Package router 提供 HTTP 路由配置
package router

import (
	"ticket-contest-api/internal/config"
	"ticket-contest-api/internal/interfaces/http/handler"
	"ticket-contest-api/internal/interfaces/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers 路由所需的处理器集合
type Handlers struct {
	Health  *handler.HealthHandler
	Contest *handler.ContestHandler
	Cases   *handler.CaseHandler
}

// Router HTTP 路由器
type Router struct {
	engine *gin.Engine
}

// New 组装中间件链与路由表
func New(cfg *config.Config, handlers Handlers) *Router {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.CORS(middleware.CORSConfig{
			AllowedOrigins: cfg.Security.CORS.AllowedOrigins,
			AllowedMethods: cfg.Security.CORS.AllowedMethods,
			AllowedHeaders: cfg.Security.CORS.AllowedHeaders,
		}),
	)
	if cfg.Observability.Tracing.Enabled {
		engine.Use(middleware.Trace(cfg.App.Name), middleware.TraceContext())
	}
	if cfg.Observability.Metrics.Enabled {
		engine.Use(middleware.Metrics())
	}

	registerRoutes(engine, cfg, handlers)
	return &Router{engine: engine}
}

// Engine 返回 Gin Engine
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func registerRoutes(engine *gin.Engine, cfg *config.Config, h Handlers) {
	// 探针端点不进 v1 组，保持与编排层探测路径一致
	engine.GET("/health", h.Health.Health)
	engine.GET("/ready", h.Health.Ready)
	engine.GET("/live", h.Health.Live)

	if cfg.Observability.Metrics.Enabled {
		engine.GET(cfg.Observability.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	v1 := engine.Group("/v1")
	{
		v1.POST("/contest/score", h.Contest.Score)
		v1.POST("/cases", h.Cases.Index)
	}
}
