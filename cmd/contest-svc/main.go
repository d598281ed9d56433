// Package main 罚单申诉评估服务入口
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ticket-contest-api/internal/application/contest"
	"ticket-contest-api/internal/application/queryplan"
	"ticket-contest-api/internal/application/quota"
	"ticket-contest-api/internal/application/retrieval"
	"ticket-contest-api/internal/application/scoring"
	"ticket-contest-api/internal/config"
	"ticket-contest-api/internal/infrastructure/advisory"
	"ticket-contest-api/internal/infrastructure/catalog"
	"ticket-contest-api/internal/infrastructure/embedding"
	"ticket-contest-api/internal/infrastructure/llm"
	"ticket-contest-api/internal/infrastructure/persistence/milvus"
	"ticket-contest-api/internal/infrastructure/persistence/postgres"
	"ticket-contest-api/internal/infrastructure/persistence/redis"
	"ticket-contest-api/internal/interfaces/http/handler"
	"ticket-contest-api/internal/interfaces/http/router"
	"ticket-contest-api/pkg/logger"
	"ticket-contest-api/pkg/tracer"

	einoembedding "github.com/cloudwego/eino/components/embedding"
	"github.com/joho/godotenv"
)

// Version 版本信息，构建时注入
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// 加载 .env 文件（如果存在）
	_ = godotenv.Load()

	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化日志
	logger.Init(
		cfg.Observability.Logging.Level,
		cfg.Observability.Logging.Format,
	)

	ctx := context.Background()
	log := logger.FromContext(ctx)
	log.Info("starting contest-svc",
		"version", Version,
		"build_time", BuildTime,
		"env", cfg.App.Env,
	)

	// 初始化追踪
	shutdown, err := tracer.Init(ctx, tracer.Config{
		ServiceName: cfg.App.Name,
		Endpoint:    cfg.Observability.Tracing.Endpoint,
		SampleRate:  cfg.Observability.Tracing.SampleRate,
		Enabled:     cfg.Observability.Tracing.Enabled,
	})
	if err != nil {
		log.Error("failed to init tracer", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := shutdown(ctx); err != nil {
			log.Error("failed to shutdown tracer", "error", err)
		}
	}()

	// Postgres（必需）
	pgClient, err := postgres.NewClient(&cfg.Database.Postgres)
	if err != nil {
		logger.Fatal(ctx, "failed to connect postgres", err)
	}
	defer func() { _ = pgClient.Close() }()

	// Redis（必需）
	redisClient, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		logger.Fatal(ctx, "failed to connect redis", err)
	}
	defer func() { _ = redisClient.Close() }()

	// Milvus（可选，连接失败时语义检索降级）
	milvusClient, err := milvus.NewClient(ctx, &cfg.Vector.Milvus)
	if err != nil {
		logger.Warn(ctx, "milvus unavailable, semantic retrieval disabled",
			"error", err.Error(),
		)
		milvusClient = nil
	} else {
		defer func() { _ = milvusClient.Close() }()
	}

	// Embedder（可选，未配置时语义检索降级）。
	// provider=http 走自建批量接口，其余走 OpenAI 兼容端点
	var embedder einoembedding.Embedder
	if cfg.Embedding.Endpoint != "" {
		switch cfg.Embedding.Provider {
		case "http":
			embedder, err = embedding.NewHTTPEmbedder(&cfg.Embedding)
		default:
			embedder, err = embedding.NewEinoEmbedder(ctx, &cfg.Embedding)
		}
		if err != nil {
			logger.Warn(ctx, "embedder init failed, semantic retrieval disabled",
				"error", err.Error(),
			)
			embedder = nil
		}
	}

	// 仓储层
	caseRepo := postgres.NewCaseRepository(pgClient)
	citationRepo := postgres.NewCitationRepository(pgClient)

	var vectorRepo *milvus.Repository
	if milvusClient != nil {
		vectorRepo = milvus.NewRepository(milvusClient)
	}

	// 外部判例目录
	quotaChecker := quota.NewCatalogQuotaChecker(redisClient, cfg.Catalog.DailyQuota)
	limiter := redis.NewRateLimiter(redisClient)
	catalogClient := catalog.NewClient(&cfg.Catalog, limiter, quotaChecker)

	// 检索管线
	fulltext := retrieval.NewFullTextRetriever(caseRepo, cfg.Retrieval.PerQueryLimit)

	var vectorSearcher retrieval.VectorSearcher
	var vectorWriter retrieval.VectorWriter
	if vectorRepo != nil {
		vectorSearcher = vectorRepo
		vectorWriter = vectorRepo
	}
	semantic := retrieval.NewSemanticRetriever(embedder, vectorSearcher, cfg.Retrieval.TopN)
	catalogRetriever := retrieval.NewCatalogRetriever(catalogClient, cfg.Catalog.MaxCandidate)
	enricher := retrieval.NewEnricher(citationRepo)
	engine := retrieval.NewEngine(fulltext, semantic, catalogRetriever, enricher, &cfg.Retrieval)

	// 索引写入路径
	caseWriter := postgres.NewDecisionCaseWriter(caseRepo)
	indexer := retrieval.NewIndexer(embedder, vectorWriter, caseWriter, cfg.Embedding.BatchSize)

	// 评估意见提供方（可选，未配置时权重重分配）
	var advisor contest.AdvisoryProvider
	if cfg.LLM.DefaultProvider != "" {
		advisor = advisory.NewAdvisor(llm.NewEinoFactory(cfg))
	}

	// 评分与编排
	planner := queryplan.NewPlanner()
	prescorer := scoring.NewPreScorer(nil, nil)
	combiner := scoring.NewCombiner(nil, &cfg.Scoring)
	svc := contest.NewService(planner, engine, advisor, prescorer, combiner)

	// HTTP 层
	r := router.New(cfg, router.Handlers{
		Health:  handler.NewHealthHandler(pgClient, redisClient, milvusClient),
		Contest: handler.NewContestHandler(svc),
		Cases:   handler.NewCaseHandler(indexer),
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.HTTP.Host, cfg.Server.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.HTTP.ReadTimeout,
		WriteTimeout: cfg.Server.HTTP.WriteTimeout,
		IdleTimeout:  cfg.Server.HTTP.IdleTimeout,
	}

	// 启动服务器
	go func() {
		log.Info("http server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server error", "error", err)
			os.Exit(1)
		}
	}()

	// 等待中断信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// 优雅关闭
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}

	log.Info("server exited")
}
