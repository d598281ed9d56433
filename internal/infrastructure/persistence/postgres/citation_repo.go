// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"fmt"

	"github.com/lib/pq"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"ticket-contest-api/internal/domain/entity"
	"ticket-contest-api/internal/domain/repository"
)

// CitationRepository 引用关系图仓储实现
type CitationRepository struct {
	client *Client
}

// NewCitationRepository 创建引用关系仓储
func NewCitationRepository(client *Client) *CitationRepository {
	return &CitationRepository{client: client}
}

// citationRow 引用关系扫描行
type citationRow struct {
	FromNorm string `gorm:"column:from_norm"`
	Citation string `gorm:"column:citation"`
	Relation string `gorm:"column:relation"`
}

// LinksFor 批量查询给定判例的引用关系，key 为规范化后的引用号。
// 查询失败或无记录时返回空 map，上层将缺失视作"无关联判例"。
func (r *CitationRepository) LinksFor(ctx context.Context, citations []string) (map[string][]entity.CitationLink, error) {
	ctx, span := tracer.Start(ctx, "postgres.CitationRepository.LinksFor",
		trace.WithAttributes(attribute.Int("citation_count", len(citations))))
	defer span.End()

	out := make(map[string][]entity.CitationLink)
	if len(citations) == 0 {
		return out, nil
	}

	norms := make([]string, 0, len(citations))
	for _, c := range citations {
		if n := entity.NormalizeCitation(c); n != "" {
			norms = append(norms, n)
		}
	}
	if len(norms) == 0 {
		return out, nil
	}

	sql := `
		SELECT l.from_norm, c.citation, l.relation
		FROM citation_links l
		JOIN cases c ON c.citation_norm = l.to_norm
		WHERE l.from_norm = ANY(@norms)
		ORDER BY l.from_norm, c.citation
	`

	var rows []citationRow
	err := r.client.db.WithContext(ctx).Raw(sql,
		map[string]any{"norms": pq.StringArray(norms)},
	).Scan(&rows).Error
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to query citation links: %w", err)
	}

	for _, row := range rows {
		out[row.FromNorm] = append(out[row.FromNorm], entity.CitationLink{
			Citation:     row.Citation,
			RelationType: row.Relation,
		})
	}

	span.SetAttributes(attribute.Int("link_count", len(rows)))
	return out, nil
}

var _ repository.CitationGraphRepository = (*CitationRepository)(nil)
var _ repository.CaseSearchRepository = (*CaseRepository)(nil)
