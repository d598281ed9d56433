package retrieval

import (
	"context"
	"time"

	"ticket-contest-api/internal/application/queryplan"
	"ticket-contest-api/internal/domain/entity"
)

const (
	// catalogBaseScore 目录结果无原生相关度，按上游排序赋基准分
	catalogBaseScore = 55.0
	// catalogScoreDecay 逐位递减，保留上游排序信息
	catalogScoreDecay = 1.0
)

// CatalogRetriever 外部目录检索器。
// 上游按调用计费且有最小间隔约束，每次请求只用最具体的一条查询。
type CatalogRetriever struct {
	client CatalogSearcher
	limit  int
}

// NewCatalogRetriever 创建目录检索器
func NewCatalogRetriever(client CatalogSearcher, limit int) *CatalogRetriever {
	if limit <= 0 {
		limit = 10
	}
	return &CatalogRetriever{
		client: client,
		limit:  limit,
	}
}

// Enabled 目录检索是否可用
func (r *CatalogRetriever) Enabled() bool {
	return r != nil && r.client != nil && r.client.Enabled()
}

// Retrieve 查询外部目录。限流/配额/上游故障返回错误，由上层降级为空。
func (r *CatalogRetriever) Retrieve(ctx context.Context, ticket *entity.Ticket, plan *queryplan.Plan) ([]*entity.CandidateCase, error) {
	if !r.Enabled() {
		return nil, ErrCatalogDisabled
	}
	if plan == nil || len(plan.Queries) == 0 {
		return []*entity.CandidateCase{}, nil
	}

	cases, err := r.client.Search(ctx, plan.Queries[0], ticket.Jurisdiction, r.limit)
	if err != nil {
		return nil, err
	}

	out := make([]*entity.CandidateCase, 0, len(cases))
	for i, c := range cases {
		if c == nil || c.Citation == "" {
			continue
		}
		decidedAt, _ := time.Parse("2006-01-02", c.DecidedAt)
		score := catalogBaseScore - float64(i)*catalogScoreDecay
		if score < 0 {
			score = 0
		}
		out = append(out, &entity.CandidateCase{
			Citation:  c.Citation,
			Court:     c.Court,
			DecidedAt: decidedAt,
			Outcome:   entity.ParseOutcome(c.Outcome),
			Summary:   c.Summary,
			Score:     score,
			Sources:   []entity.CaseSource{entity.SourceCatalog},
		})
	}
	return out, nil
}
