package retrieval

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"ticket-contest-api/internal/application/queryplan"
	"ticket-contest-api/internal/config"
	"ticket-contest-api/internal/domain/entity"
	"ticket-contest-api/pkg/logger"
	"ticket-contest-api/pkg/metrics"
)

// Engine 检索编排：三路检索并发执行 → 融合 → 多样化 → 引用补全。
// 任何一路失败只降级为空列表，绝不让整个请求失败。
type Engine struct {
	fulltext *FullTextRetriever
	semantic *SemanticRetriever
	catalog  *CatalogRetriever
	enricher *Enricher

	timeout time.Duration
	topN    int
}

// NewEngine 创建检索编排器
func NewEngine(
	fulltext *FullTextRetriever,
	semantic *SemanticRetriever,
	catalogRetriever *CatalogRetriever,
	enricher *Enricher,
	cfg *config.RetrievalConfig,
) *Engine {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	topN := cfg.TopN
	if topN <= 0 {
		topN = 10
	}
	return &Engine{
		fulltext: fulltext,
		semantic: semantic,
		catalog:  catalogRetriever,
		enricher: enricher,
		timeout:  timeout,
		topN:     topN,
	}
}

// sourceResult 单路检索结果；reason 非空表示本路已降级
type sourceResult struct {
	cases  []*entity.CandidateCase
	reason string
}

// Retrieve 执行一次完整检索。返回值永不为 nil。
func (e *Engine) Retrieve(ctx context.Context, ticket *entity.Ticket, plan *queryplan.Plan) *Output {
	out := &Output{
		Cases:        []*entity.CandidateCase{},
		SourceCounts: make(map[entity.CaseSource]int),
		Degraded:     make(map[entity.CaseSource]string),
	}
	if ticket == nil || plan == nil {
		return out
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	var ft, sem, cat sourceResult

	// 每路只写自己的局部结果，goroutine 永不向 errgroup 返回 error
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ft = e.runSource(gctx, entity.SourceFullText, func(c context.Context) ([]*entity.CandidateCase, error) {
			return e.fulltext.Retrieve(c, plan, ticket.Jurisdiction)
		})
		return nil
	})
	g.Go(func() error {
		sem = e.runSource(gctx, entity.SourceSemantic, func(c context.Context) ([]*entity.CandidateCase, error) {
			return e.semantic.Retrieve(c, ticket, plan)
		})
		return nil
	})
	g.Go(func() error {
		cat = e.runSource(gctx, entity.SourceCatalog, func(c context.Context) ([]*entity.CandidateCase, error) {
			return e.catalog.Retrieve(c, ticket, plan)
		})
		return nil
	})
	_ = g.Wait()

	for source, res := range map[entity.CaseSource]sourceResult{
		entity.SourceFullText: ft,
		entity.SourceSemantic: sem,
		entity.SourceCatalog:  cat,
	} {
		if res.reason != "" {
			out.Degraded[source] = res.reason
			continue
		}
		out.SourceCounts[source] = len(res.cases)
	}

	fused := Fuse(ft.cases, sem.cases, cat.cases)
	metrics.RetrievalCandidates.WithLabelValues("fused").Observe(float64(len(fused)))

	diversified := Diversify(fused, e.topN)
	metrics.RetrievalCandidates.WithLabelValues("diversified").Observe(float64(len(diversified)))

	out.Cases = e.enricher.Enrich(ctx, diversified)
	out.Stats = entity.ComputeOutcomeStats(out.Cases)
	return out
}

type sourceFn func(ctx context.Context) ([]*entity.CandidateCase, error)

// runSource 包装单路检索：计时、计数，任何错误降级为空列表
func (e *Engine) runSource(ctx context.Context, source entity.CaseSource, fn sourceFn) sourceResult {
	start := time.Now()
	cases, err := fn(ctx)
	metrics.RetrievalSourceDuration.WithLabelValues(string(source)).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.RetrievalSourceTotal.WithLabelValues(string(source), "degraded").Inc()
		logger.Warn(ctx, "retrieval source degraded to empty",
			"source", string(source),
			"error", err.Error(),
		)
		return sourceResult{cases: []*entity.CandidateCase{}, reason: err.Error()}
	}

	metrics.RetrievalSourceTotal.WithLabelValues(string(source), "success").Inc()
	return sourceResult{cases: cases}
}
