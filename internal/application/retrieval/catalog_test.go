package retrieval

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticket-contest-api/internal/application/queryplan"
	"ticket-contest-api/internal/domain/entity"
	"ticket-contest-api/internal/infrastructure/catalog"
)

func TestCatalogRetrieveAssignsPositionalScores(t *testing.T) {
	cat := &fakeCatalog{
		enabled: true,
		cases: []*catalog.Case{
			{Citation: "Case A", Outcome: "favorable", DecidedAt: "2020-03-15"},
			{Citation: "Case B", Outcome: "unfavorable"},
			{Citation: "", Outcome: "other"}, // 无 citation 的条目被丢弃
			{Citation: "Case C"},
		},
	}
	r := NewCatalogRetriever(cat, 10)

	ticket := &entity.Ticket{Violation: "speeding", Jurisdiction: "CA"}
	plan := &queryplan.Plan{Queries: []string{"speeding ticket dismissed"}}

	out, err := r.Retrieve(context.Background(), ticket, plan)
	require.NoError(t, err)
	require.Len(t, out, 3)

	// 基准分按上游排序逐位递减
	assert.Equal(t, catalogBaseScore, out[0].Score)
	assert.Equal(t, catalogBaseScore-catalogScoreDecay, out[1].Score)
	assert.Equal(t, entity.OutcomeFavorable, out[0].Outcome)
	assert.Equal(t, 2020, out[0].DecidedAt.Year())
	assert.Equal(t, []entity.CaseSource{entity.SourceCatalog}, out[0].Sources)
}

func TestCatalogRetrieveDisabled(t *testing.T) {
	r := NewCatalogRetriever(&fakeCatalog{enabled: false}, 10)

	_, err := r.Retrieve(context.Background(), &entity.Ticket{}, &queryplan.Plan{Queries: []string{"q"}})
	assert.ErrorIs(t, err, ErrCatalogDisabled)

	var nilRetriever *CatalogRetriever
	_, err = nilRetriever.Retrieve(context.Background(), &entity.Ticket{}, &queryplan.Plan{})
	assert.ErrorIs(t, err, ErrCatalogDisabled)
}

func TestCatalogRetrieveEmptyPlan(t *testing.T) {
	r := NewCatalogRetriever(&fakeCatalog{enabled: true}, 10)

	out, err := r.Retrieve(context.Background(), &entity.Ticket{}, &queryplan.Plan{})
	require.NoError(t, err)
	assert.Empty(t, out)
}
