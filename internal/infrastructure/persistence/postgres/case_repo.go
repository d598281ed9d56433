// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/lib/pq"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"ticket-contest-api/internal/domain/entity"
	"ticket-contest-api/internal/domain/repository"
)

// CaseRepository 判例仓储实现（全文检索 + 写入）
type CaseRepository struct {
	client *Client
}

// NewCaseRepository 创建判例仓储
func NewCaseRepository(client *Client) *CaseRepository {
	return &CaseRepository{client: client}
}

// CaseRecord 判例表记录
type CaseRecord struct {
	ID           string         `gorm:"column:id"`
	Citation     string         `gorm:"column:citation"`
	CitationNorm string         `gorm:"column:citation_norm"`
	Jurisdiction string         `gorm:"column:jurisdiction"`
	Court        string         `gorm:"column:court"`
	DecidedAt    time.Time      `gorm:"column:decided_at"`
	Outcome      string         `gorm:"column:outcome"`
	Summary      string         `gorm:"column:summary"`
	Keywords     pq.StringArray `gorm:"column:keywords;type:text[]"`
}

// searchRow 全文检索扫描行
type searchRow struct {
	ID       string  `gorm:"column:id"`
	Citation string  `gorm:"column:citation"`
	Court    string  `gorm:"column:court"`
	Decided  string  `gorm:"column:decided"`
	Summary  string  `gorm:"column:summary"`
	Outcome  string  `gorm:"column:outcome"`
	Rank     float64 `gorm:"column:rank"`
}

// Search 按辖区执行排序后的全文检索；jurisdiction 为空表示不限定辖区
func (r *CaseRepository) Search(ctx context.Context, query, jurisdiction string, limit int) ([]*repository.CaseSearchRow, error) {
	ctx, span := tracer.Start(ctx, "postgres.CaseRepository.Search",
		trace.WithAttributes(
			attribute.String("jurisdiction", jurisdiction),
			attribute.Int("limit", limit),
		))
	defer span.End()

	if limit <= 0 {
		limit = 10
	}

	sql := `
		SELECT id, citation, court,
			to_char(decided_at, 'YYYY-MM-DD') AS decided,
			summary, outcome,
			ts_rank_cd(search_vector, websearch_to_tsquery('english', @query)) AS rank
		FROM cases
		WHERE search_vector @@ websearch_to_tsquery('english', @query)
			AND (@jurisdiction = '' OR jurisdiction = @jurisdiction)
		ORDER BY rank DESC, citation ASC
		LIMIT @limit
	`

	var rows []searchRow
	err := r.client.db.WithContext(ctx).Raw(sql,
		map[string]any{
			"query":        query,
			"jurisdiction": jurisdiction,
			"limit":        limit,
		},
	).Scan(&rows).Error
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to search cases: %w", err)
	}

	out := make([]*repository.CaseSearchRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, &repository.CaseSearchRow{
			ID:       row.ID,
			Citation: row.Citation,
			Court:    row.Court,
			Decided:  row.Decided,
			Summary:  row.Summary,
			Outcome:  row.Outcome,
			Rank:     row.Rank,
		})
	}

	span.SetAttributes(attribute.Int("result_count", len(out)))
	return out, nil
}

// Upsert 写入或更新判例（索引构建路径使用）。
// search_vector 由 citation/summary/keywords 生成。
func (r *CaseRepository) Upsert(ctx context.Context, rec *CaseRecord) error {
	ctx, span := tracer.Start(ctx, "postgres.CaseRepository.Upsert",
		trace.WithAttributes(attribute.String("citation", rec.Citation)))
	defer span.End()

	sql := `
		INSERT INTO cases (id, citation, citation_norm, jurisdiction, court, decided_at,
			outcome, summary, keywords, search_vector, created_at, updated_at)
		VALUES (gen_random_uuid(), @citation, @citation_norm, @jurisdiction, @court, @decided_at,
			@outcome, @summary, @keywords,
			to_tsvector('english', @citation || ' ' || @summary || ' ' || array_to_string(@keywords, ' ')),
			NOW(), NOW())
		ON CONFLICT (citation_norm) DO UPDATE SET
			court = EXCLUDED.court,
			decided_at = EXCLUDED.decided_at,
			outcome = EXCLUDED.outcome,
			summary = EXCLUDED.summary,
			keywords = EXCLUDED.keywords,
			search_vector = EXCLUDED.search_vector,
			updated_at = NOW()
	`

	err := r.client.db.WithContext(ctx).Exec(sql, map[string]any{
		"citation":      rec.Citation,
		"citation_norm": entity.NormalizeCitation(rec.Citation),
		"jurisdiction":  rec.Jurisdiction,
		"court":         rec.Court,
		"decided_at":    rec.DecidedAt,
		"outcome":       rec.Outcome,
		"summary":       rec.Summary,
		"keywords":      rec.Keywords,
	}).Error
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to upsert case: %w", err)
	}
	return nil
}
