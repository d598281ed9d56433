package retrieval

import (
	"context"

	"ticket-contest-api/internal/domain/entity"
	"ticket-contest-api/internal/domain/repository"
	"ticket-contest-api/pkg/logger"
)

// Enricher 引用关系补全器。纯附加元数据：
// 关系库缺失或查询失败都不改变候选列表本身。
type Enricher struct {
	graph repository.CitationGraphRepository
}

// NewEnricher 创建引用关系补全器
func NewEnricher(graph repository.CitationGraphRepository) *Enricher {
	return &Enricher{graph: graph}
}

// Enrich 为候选列表补充已知的关联判例链接（原地修改并返回同一列表）
func (e *Enricher) Enrich(ctx context.Context, cases []*entity.CandidateCase) []*entity.CandidateCase {
	if e == nil || e.graph == nil || len(cases) == 0 {
		return cases
	}

	citations := make([]string, 0, len(cases))
	for _, c := range cases {
		citations = append(citations, c.Citation)
	}

	links, err := e.graph.LinksFor(ctx, citations)
	if err != nil {
		logger.Debug(ctx, "citation graph lookup failed, skipping enrichment",
			"error", err.Error(),
		)
		return cases
	}

	for _, c := range cases {
		if related, ok := links[entity.NormalizeCitation(c.Citation)]; ok {
			c.Related = related
		}
	}
	return cases
}
