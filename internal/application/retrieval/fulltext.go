package retrieval

import (
	"context"
	"time"

	"ticket-contest-api/internal/application/queryplan"
	"ticket-contest-api/internal/domain/entity"
	"ticket-contest-api/internal/domain/repository"
	"ticket-contest-api/pkg/logger"
)

const (
	// tsRankScale ts_rank_cd 原生分到 0-100 的半饱和常数
	tsRankScale = 0.05

	// unscopedWeight 去掉辖区过滤的兜底查询的置信度权重
	unscopedWeight = 0.8
)

// FullTextRetriever 全文检索器。
// 每条计划查询执行一次，辖区内无结果时放开辖区重试一次（降权）。
type FullTextRetriever struct {
	repo          repository.CaseSearchRepository
	perQueryLimit int
}

// NewFullTextRetriever 创建全文检索器
func NewFullTextRetriever(repo repository.CaseSearchRepository, perQueryLimit int) *FullTextRetriever {
	if perQueryLimit <= 0 {
		perQueryLimit = 10
	}
	return &FullTextRetriever{
		repo:          repo,
		perQueryLimit: perQueryLimit,
	}
}

// Retrieve 执行查询计划。单条查询失败只记日志并跳过，不中断其余查询。
func (r *FullTextRetriever) Retrieve(ctx context.Context, plan *queryplan.Plan, jurisdiction string) ([]*entity.CandidateCase, error) {
	if r == nil || r.repo == nil || plan == nil {
		return []*entity.CandidateCase{}, nil
	}

	var out []*entity.CandidateCase
	for _, query := range plan.Queries {
		rows, err := r.repo.Search(ctx, query, jurisdiction, r.perQueryLimit)
		if err != nil {
			logger.Warn(ctx, "fulltext query failed",
				"query", query,
				"error", err.Error(),
			)
			continue
		}

		weight := 1.0
		if len(rows) == 0 && jurisdiction != "" {
			rows, err = r.repo.Search(ctx, query, "", r.perQueryLimit)
			if err != nil {
				logger.Warn(ctx, "fulltext unscoped fallback failed",
					"query", query,
					"error", err.Error(),
				)
				continue
			}
			weight = unscopedWeight
		}

		for _, row := range rows {
			out = append(out, rowToCandidate(row, weight))
		}
	}
	return out, nil
}

func rowToCandidate(row *repository.CaseSearchRow, weight float64) *entity.CandidateCase {
	decidedAt, _ := time.Parse("2006-01-02", row.Decided)
	return &entity.CandidateCase{
		Citation:  row.Citation,
		Court:     row.Court,
		DecidedAt: decidedAt,
		Outcome:   entity.ParseOutcome(row.Outcome),
		Summary:   row.Summary,
		Score:     rescaleRank(row.Rank) * weight,
		Sources:   []entity.CaseSource{entity.SourceFullText},
	}
}

// rescaleRank 将 ts_rank_cd 原生分单调映射到 0-100：
// score = 100*rank/(rank+k)，rank 越大越接近 100
func rescaleRank(rank float64) float64 {
	if rank <= 0 {
		return 0
	}
	score := 100 * rank / (rank + tsRankScale)
	if score > 100 {
		score = 100
	}
	return score
}
