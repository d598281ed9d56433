// Package contest 提供申诉评估的请求级编排：
// 校验工单 → 查询规划 → 检索 ∥ 评估意见 → 预评分 → 组合输出。
package contest

import (
	"context"

	"golang.org/x/sync/errgroup"

	"ticket-contest-api/internal/application/queryplan"
	"ticket-contest-api/internal/application/retrieval"
	"ticket-contest-api/internal/application/scoring"
	"ticket-contest-api/internal/domain/entity"
	"ticket-contest-api/internal/infrastructure/advisory"
	"ticket-contest-api/pkg/logger"
)

// AdvisoryProvider 评估意见提供方 port。error 表示本次不可用。
type AdvisoryProvider interface {
	Assess(ctx context.Context, ticket *entity.Ticket, stats entity.OutcomeStats, cases []*entity.CandidateCase) (*advisory.Result, error)
}

// Result 一次申诉评估的完整输出
type Result struct {
	Breakdown *entity.ScoreBreakdown       `json:"breakdown"`
	Cases     []*entity.CandidateCase      `json:"cases"`
	Tags      []string                     `json:"tags,omitempty"`
	Category  entity.ViolationCategory     `json:"category"`
	Degraded  map[entity.CaseSource]string `json:"degraded,omitempty"`
}

// Service 申诉评估服务
type Service struct {
	planner   *queryplan.Planner
	engine    *retrieval.Engine
	advisor   AdvisoryProvider
	prescorer *scoring.PreScorer
	combiner  *scoring.Combiner
}

// NewService 创建申诉评估服务。advisor 可为 nil（意见始终不可用）。
func NewService(
	planner *queryplan.Planner,
	engine *retrieval.Engine,
	advisor AdvisoryProvider,
	prescorer *scoring.PreScorer,
	combiner *scoring.Combiner,
) *Service {
	return &Service{
		planner:   planner,
		engine:    engine,
		advisor:   advisor,
		prescorer: prescorer,
		combiner:  combiner,
	}
}

// Score 评估一张工单。工单校验失败是唯一的致命错误；
// 其余故障全部降级，始终产出可用的评分明细。
func (s *Service) Score(ctx context.Context, ticket *entity.Ticket) (*Result, error) {
	if err := ticket.Validate(); err != nil {
		return nil, err
	}

	plan := s.planner.Build(ticket)

	var (
		retrieved *retrieval.Output
		advResult *advisory.Result
	)

	// 检索与评估意见并发执行；评估意见只依赖工单本身
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		retrieved = s.engine.Retrieve(gctx, ticket, plan)
		return nil
	})
	g.Go(func() error {
		if s.advisor == nil {
			return nil
		}
		res, err := s.advisor.Assess(gctx, ticket, entity.OutcomeStats{}, nil)
		if err != nil {
			logger.Warn(gctx, "advisory unavailable, redistributing weight",
				"error", err.Error(),
			)
			return nil
		}
		advResult = res
		return nil
	})
	_ = g.Wait()

	pre := s.prescorer.Score(ticket, &retrieved.Stats)

	adv := scoring.AdvisoryUnavailable()
	if advResult != nil {
		adv = scoring.AdvisoryAvailable(advResult.Score, advResult.Rationale)
	}

	breakdown := s.combiner.Combine(pre, retrieved.Stats, adv)

	logger.Info(ctx, "contest score computed",
		"category", string(breakdown.Category),
		"final_score", breakdown.FinalScore,
		"confidence", string(breakdown.Confidence),
		"recommendation", string(breakdown.Recommendation),
		"precedents", retrieved.Stats.Total,
		"advisory_available", breakdown.AdvisoryAvailable,
	)

	return &Result{
		Breakdown: breakdown,
		Cases:     retrieved.Cases,
		Tags:      plan.Tags,
		Category:  breakdown.Category,
		Degraded:  retrieved.Degraded,
	}, nil
}
