package retrieval

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticket-contest-api/internal/domain/entity"
)

func candidate(citation string, score float64, src entity.CaseSource) *entity.CandidateCase {
	return &entity.CandidateCase{
		Citation: citation,
		Outcome:  entity.OutcomeOther,
		Score:    score,
		Sources:  []entity.CaseSource{src},
	}
}

func TestFuseMergesAcrossSources(t *testing.T) {
	fulltext := []*entity.CandidateCase{
		candidate("People v. Smith, 123 A.2d 456", 70, entity.SourceFullText),
	}
	semantic := []*entity.CandidateCase{
		// 标点与大小写不同，归一化后是同一判例
		candidate("PEOPLE V SMITH 123 A2D 456", 60, entity.SourceSemantic),
	}

	out := Fuse(fulltext, semantic)
	require.Len(t, out, 1)

	// 首次出现作为基底，新来源加固定分
	assert.Equal(t, 70+MultiSourceBoost, out[0].Score)
	assert.ElementsMatch(t, []entity.CaseSource{entity.SourceFullText, entity.SourceSemantic}, out[0].Sources)
}

func TestFuseScoreCap(t *testing.T) {
	a := candidate("Case A", 95, entity.SourceFullText)
	b := candidate("Case A", 50, entity.SourceSemantic)
	c := candidate("Case A", 50, entity.SourceCatalog)

	out := Fuse([]*entity.CandidateCase{a}, []*entity.CandidateCase{b}, []*entity.CandidateCase{c})
	require.Len(t, out, 1)
	assert.Equal(t, 100.0, out[0].Score)
}

func TestFuseSameSourceIdempotent(t *testing.T) {
	list := []*entity.CandidateCase{
		candidate("Case A", 70, entity.SourceFullText),
		candidate("Case A", 65, entity.SourceFullText),
	}

	out := Fuse(list)
	require.Len(t, out, 1)
	// 同一来源的重复命中不加分
	assert.Equal(t, 70.0, out[0].Score)
	assert.Equal(t, []entity.CaseSource{entity.SourceFullText}, out[0].Sources)

	// 自融合幂等
	again := Fuse(out)
	require.Len(t, again, 1)
	assert.Equal(t, 70.0, again[0].Score)
}

func TestFuseFieldBackfill(t *testing.T) {
	decided := time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC)

	sparse := candidate("Case A", 70, entity.SourceFullText)
	sparse.Summary = "short"

	rich := candidate("Case A", 60, entity.SourceSemantic)
	rich.Summary = "a much longer summary of the decision"
	rich.Court = "Municipal Court"
	rich.DecidedAt = decided
	rich.Outcome = entity.OutcomeFavorable

	out := Fuse([]*entity.CandidateCase{sparse}, []*entity.CandidateCase{rich})
	require.Len(t, out, 1)
	assert.Equal(t, rich.Summary, out[0].Summary)
	assert.Equal(t, "Municipal Court", out[0].Court)
	assert.Equal(t, decided, out[0].DecidedAt)
	assert.Equal(t, entity.OutcomeFavorable, out[0].Outcome)
}

func TestFuseDoesNotMutateInput(t *testing.T) {
	original := candidate("Case A", 70, entity.SourceFullText)
	other := candidate("Case A", 60, entity.SourceSemantic)

	_ = Fuse([]*entity.CandidateCase{original}, []*entity.CandidateCase{other})

	assert.Equal(t, 70.0, original.Score)
	assert.Equal(t, []entity.CaseSource{entity.SourceFullText}, original.Sources)
}

func TestFuseDeterministicOrder(t *testing.T) {
	lists := [][]*entity.CandidateCase{
		{
			candidate("Case B", 80, entity.SourceFullText),
			candidate("Case C", 80, entity.SourceFullText),
		},
		{
			candidate("Case A", 90, entity.SourceSemantic),
		},
	}

	out := Fuse(lists...)
	require.Len(t, out, 3)
	assert.Equal(t, "Case A", out[0].Citation)
	// 同分按 citation 升序
	assert.Equal(t, "Case B", out[1].Citation)
	assert.Equal(t, "Case C", out[2].Citation)
}

func TestFuseSkipsEmptyCitations(t *testing.T) {
	out := Fuse([]*entity.CandidateCase{
		candidate("", 90, entity.SourceFullText),
		candidate("   ", 80, entity.SourceFullText),
		nil,
		candidate("Case A", 70, entity.SourceFullText),
	})
	require.Len(t, out, 1)
	assert.Equal(t, "Case A", out[0].Citation)
}
