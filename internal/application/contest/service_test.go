package contest

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticket-contest-api/internal/application/queryplan"
	"ticket-contest-api/internal/application/retrieval"
	"ticket-contest-api/internal/application/scoring"
	"ticket-contest-api/internal/config"
	"ticket-contest-api/internal/domain/entity"
	"ticket-contest-api/internal/domain/repository"
	"ticket-contest-api/internal/infrastructure/advisory"
	"ticket-contest-api/pkg/errors"
)

type stubSearchRepo struct {
	rows []*repository.CaseSearchRow
}

func (s *stubSearchRepo) Search(_ context.Context, _, _ string, _ int) ([]*repository.CaseSearchRow, error) {
	return s.rows, nil
}

type stubAdvisor struct {
	result *advisory.Result
	err    error
}

func (s *stubAdvisor) Assess(_ context.Context, _ *entity.Ticket, _ entity.OutcomeStats, _ []*entity.CandidateCase) (*advisory.Result, error) {
	return s.result, s.err
}

func newTestService(repo repository.CaseSearchRepository, advisor AdvisoryProvider) *Service {
	fulltext := retrieval.NewFullTextRetriever(repo, 10)
	semantic := retrieval.NewSemanticRetriever(nil, nil, 10)
	catalogRetriever := retrieval.NewCatalogRetriever(nil, 10)
	enricher := retrieval.NewEnricher(nil)
	engine := retrieval.NewEngine(fulltext, semantic, catalogRetriever, enricher, &config.RetrievalConfig{TopN: 10})

	return NewService(
		queryplan.NewPlanner(),
		engine,
		advisor,
		scoring.NewPreScorer(nil, nil),
		scoring.NewCombiner(nil, nil),
	)
}

func TestScoreRejectsInvalidTicket(t *testing.T) {
	svc := newTestService(&stubSearchRepo{}, nil)

	tests := []struct {
		name   string
		ticket *entity.Ticket
	}{
		{"nil ticket", nil},
		{"missing violation", &entity.Ticket{Jurisdiction: "CA"}},
		{"missing jurisdiction", &entity.Ticket{Violation: "speeding"}},
		{"negative speed", &entity.Ticket{Violation: "speeding", Jurisdiction: "CA", MeasuredSpeed: -5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Score(context.Background(), tt.ticket)
			require.Error(t, err)
			appErr := errors.AsAppError(err)
			require.NotNil(t, appErr)
			assert.Equal(t, errors.CodeInvalidTicket, appErr.Code)
		})
	}
}

func TestScoreHappyPath(t *testing.T) {
	repo := &stubSearchRepo{
		rows: []*repository.CaseSearchRow{
			{Citation: "Case A", Rank: 0.1, Outcome: "favorable"},
			{Citation: "Case B", Rank: 0.08, Outcome: "favorable"},
			{Citation: "Case C", Rank: 0.05, Outcome: "unfavorable"},
		},
	}
	advisor := &stubAdvisor{
		result: &advisory.Result{Score: 70, Rationale: "calibration records are contestable"},
	}
	svc := newTestService(repo, advisor)

	result, err := svc.Score(context.Background(), &entity.Ticket{
		Violation:    "speeding measured by radar",
		Jurisdiction: "CA",
	})
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, entity.CategorySpeeding, result.Category)
	assert.NotEmpty(t, result.Cases)
	require.NotNil(t, result.Breakdown)
	assert.True(t, result.Breakdown.AdvisoryAvailable)
	assert.GreaterOrEqual(t, result.Breakdown.FinalScore, 0)
	assert.LessOrEqual(t, result.Breakdown.FinalScore, 100)
	assert.NotEmpty(t, result.Breakdown.Recommendation)
}

func TestScoreAdvisoryFailureDegrades(t *testing.T) {
	repo := &stubSearchRepo{
		rows: []*repository.CaseSearchRow{
			{Citation: "Case A", Rank: 0.1, Outcome: "favorable"},
		},
	}
	advisor := &stubAdvisor{err: fmt.Errorf("provider timeout")}
	svc := newTestService(repo, advisor)

	result, err := svc.Score(context.Background(), &entity.Ticket{
		Violation:    "speeding measured by radar",
		Jurisdiction: "CA",
	})
	require.NoError(t, err)
	assert.False(t, result.Breakdown.AdvisoryAvailable)
	assert.Equal(t, entity.ConfidenceMedium, result.Breakdown.Confidence)
}

func TestScoreNilAdvisor(t *testing.T) {
	svc := newTestService(&stubSearchRepo{}, nil)

	result, err := svc.Score(context.Background(), &entity.Ticket{
		Violation:    "unsafe lane change",
		Jurisdiction: "CA",
	})
	require.NoError(t, err)
	assert.False(t, result.Breakdown.AdvisoryAvailable)
	// 零判例强制最低置信度
	assert.Equal(t, entity.ConfidenceLow, result.Breakdown.Confidence)
	// 降级来源记录在案
	assert.Contains(t, result.Degraded, entity.SourceSemantic)
}
