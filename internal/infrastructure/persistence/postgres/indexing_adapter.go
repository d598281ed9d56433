package postgres

import (
	"context"

	"ticket-contest-api/internal/application/retrieval"
)

// DecisionCaseWriter 将判例仓储适配为索引构建路径的写入 port
type DecisionCaseWriter struct {
	repo *CaseRepository
}

func NewDecisionCaseWriter(repo *CaseRepository) *DecisionCaseWriter {
	return &DecisionCaseWriter{repo: repo}
}

var _ retrieval.CaseWriter = (*DecisionCaseWriter)(nil)

func (w *DecisionCaseWriter) UpsertCase(ctx context.Context, doc *retrieval.DecisionDocument) error {
	if w == nil || w.repo == nil || doc == nil {
		return nil
	}
	return w.repo.Upsert(ctx, &CaseRecord{
		Citation:     doc.Citation,
		Jurisdiction: doc.Jurisdiction,
		Court:        doc.Court,
		DecidedAt:    doc.DecidedAt,
		Outcome:      doc.Outcome,
		Summary:      doc.Summary,
		Keywords:     doc.Keywords,
	})
}
