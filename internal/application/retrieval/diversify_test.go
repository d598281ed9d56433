package retrieval

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticket-contest-api/internal/domain/entity"
)

func outcomeCase(citation string, outcome entity.OutcomeClass, score float64) *entity.CandidateCase {
	return &entity.CandidateCase{
		Citation: citation,
		Outcome:  outcome,
		Score:    score,
		Sources:  []entity.CaseSource{entity.SourceFullText},
	}
}

func countOutcomes(cases []*entity.CandidateCase) map[entity.OutcomeClass]int {
	counts := make(map[entity.OutcomeClass]int)
	for _, c := range cases {
		counts[c.Outcome]++
	}
	return counts
}

func TestDiversifyShortListPassthrough(t *testing.T) {
	cases := []*entity.CandidateCase{
		outcomeCase("A", entity.OutcomeFavorable, 90),
		outcomeCase("B", entity.OutcomeUnfavorable, 80),
	}
	out := Diversify(cases, 10)
	assert.Len(t, out, 2)
}

func TestDiversifyRespectsRatio(t *testing.T) {
	var cases []*entity.CandidateCase
	for i := 0; i < 10; i++ {
		cases = append(cases, outcomeCase(fmt.Sprintf("F%02d", i), entity.OutcomeFavorable, float64(90-i)))
	}
	for i := 0; i < 10; i++ {
		cases = append(cases, outcomeCase(fmt.Sprintf("U%02d", i), entity.OutcomeUnfavorable, float64(70-i)))
	}
	for i := 0; i < 10; i++ {
		cases = append(cases, outcomeCase(fmt.Sprintf("O%02d", i), entity.OutcomeOther, float64(50-i)))
	}

	out := Diversify(cases, 10)
	require.Len(t, out, 10)

	counts := countOutcomes(out)
	assert.Equal(t, 4, counts[entity.OutcomeFavorable])
	assert.Equal(t, 4, counts[entity.OutcomeUnfavorable])
	assert.Equal(t, 2, counts[entity.OutcomeOther])
}

func TestDiversifyMinOnePerNonEmptyBucket(t *testing.T) {
	// other 桶只有一条低分候选，仍应保底入选
	var cases []*entity.CandidateCase
	for i := 0; i < 20; i++ {
		cases = append(cases, outcomeCase(fmt.Sprintf("F%02d", i), entity.OutcomeFavorable, float64(90-i)))
	}
	cases = append(cases, outcomeCase("O00", entity.OutcomeOther, 1))

	out := Diversify(cases, 5)
	require.Len(t, out, 5)
	assert.Equal(t, 1, countOutcomes(out)[entity.OutcomeOther])
}

func TestDiversifyShortfallFilledFromRemainder(t *testing.T) {
	// unfavorable 桶不足，缺口由 favorable 高分候选补齐
	cases := []*entity.CandidateCase{
		outcomeCase("U00", entity.OutcomeUnfavorable, 60),
	}
	for i := 0; i < 20; i++ {
		cases = append(cases, outcomeCase(fmt.Sprintf("F%02d", i), entity.OutcomeFavorable, float64(90-i)))
	}

	out := Diversify(cases, 10)
	require.Len(t, out, 10)

	counts := countOutcomes(out)
	assert.Equal(t, 1, counts[entity.OutcomeUnfavorable])
	assert.Equal(t, 9, counts[entity.OutcomeFavorable])
}

func TestDiversifyShortfallPrefersHigherScoresOverOtherBucket(t *testing.T) {
	// favorable 桶只有 1 条，缺口应由剩余高分 unfavorable 补齐，
	// 而不是抬高 other 桶的目标名额
	cases := []*entity.CandidateCase{
		outcomeCase("F00", entity.OutcomeFavorable, 95),
	}
	for i := 0; i < 15; i++ {
		cases = append(cases, outcomeCase(fmt.Sprintf("U%02d", i), entity.OutcomeUnfavorable, float64(90-i)))
	}
	for i := 0; i < 15; i++ {
		cases = append(cases, outcomeCase(fmt.Sprintf("O%02d", i), entity.OutcomeOther, float64(40-i)))
	}

	out := Diversify(cases, 10)
	require.Len(t, out, 10)

	counts := countOutcomes(out)
	assert.Equal(t, 1, counts[entity.OutcomeFavorable])
	assert.Equal(t, 7, counts[entity.OutcomeUnfavorable])
	assert.Equal(t, 2, counts[entity.OutcomeOther])
}

func TestDiversifyDeterministic(t *testing.T) {
	var cases []*entity.CandidateCase
	for i := 0; i < 15; i++ {
		outcome := entity.OutcomeFavorable
		if i%3 == 1 {
			outcome = entity.OutcomeUnfavorable
		} else if i%3 == 2 {
			outcome = entity.OutcomeOther
		}
		cases = append(cases, outcomeCase(fmt.Sprintf("C%02d", i), outcome, float64(90-i)))
	}

	first := Diversify(cases, 8)
	second := Diversify(cases, 8)
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Citation, second[i].Citation)
	}
}

func TestDiversifyZeroAndEmpty(t *testing.T) {
	assert.Empty(t, Diversify(nil, 10))
	assert.Empty(t, Diversify([]*entity.CandidateCase{outcomeCase("A", entity.OutcomeFavorable, 50)}, 0))
}
