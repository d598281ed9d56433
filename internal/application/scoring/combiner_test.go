package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticket-contest-api/internal/config"
	"ticket-contest-api/internal/domain/entity"
)

func TestCombineWithAllComponents(t *testing.T) {
	c := NewCombiner(nil, nil)

	pre := PreScoreResult{PreScore: 50, Category: entity.CategorySpeeding}
	stats := entity.OutcomeStats{Total: 10, Favorable: 6, FavorableRate: 0.6}
	adv := AdvisoryAvailable(80, "strong calibration angle")

	breakdown := c.Combine(pre, stats, adv)

	// 0.3×60 + 0.5×50 + 0.2×80 = 59
	assert.Equal(t, 59, breakdown.FinalScore)
	assert.InDelta(t, 60.0, breakdown.BaseRateComponent, 1e-9)
	assert.InDelta(t, 80.0, breakdown.AdvisoryComponent, 1e-9)
	assert.True(t, breakdown.AdvisoryAvailable)
	assert.Equal(t, entity.ConfidenceHigh, breakdown.Confidence)
	assert.Equal(t, entity.RecommendConsider, breakdown.Recommendation)
}

func TestCombineAdvisoryUnavailableRedistributesWeight(t *testing.T) {
	c := NewCombiner(nil, nil)

	pre := PreScoreResult{PreScore: 50, Category: entity.CategorySpeeding}
	stats := entity.OutcomeStats{Total: 10, Favorable: 6, FavorableRate: 0.6}

	breakdown := c.Combine(pre, stats, AdvisoryUnavailable())

	// 意见权重并入预评分项：0.3×60 + 0.7×50 = 53
	assert.Equal(t, 53, breakdown.FinalScore)
	assert.False(t, breakdown.AdvisoryAvailable)
	assert.Zero(t, breakdown.AdvisoryComponent)
	assert.Equal(t, entity.ConfidenceMedium, breakdown.Confidence)
}

func TestCombineZeroPrecedentsForcesLowConfidence(t *testing.T) {
	c := NewCombiner(nil, nil)

	pre := PreScoreResult{PreScore: 90, Category: entity.CategorySpeeding}

	// 高分也不能掩盖零判例的低置信度
	breakdown := c.Combine(pre, entity.OutcomeStats{}, AdvisoryAvailable(90, "confident"))
	assert.Equal(t, entity.ConfidenceLow, breakdown.Confidence)

	// 零判例时基率回退经验表（speeding 0.42）
	assert.InDelta(t, 42.0, breakdown.BaseRateComponent, 1e-9)
}

func TestCombineUnknownCategoryFallsBackToGeneric(t *testing.T) {
	c := NewCombiner(nil, nil)

	pre := PreScoreResult{PreScore: 50, Category: entity.ViolationCategory("jaywalking")}
	breakdown := c.Combine(pre, entity.OutcomeStats{}, AdvisoryUnavailable())
	assert.InDelta(t, 40.0, breakdown.BaseRateComponent, 1e-9)
}

func TestRecommendationBands(t *testing.T) {
	tests := []struct {
		score int
		want  entity.Recommendation
	}{
		{100, entity.RecommendContestStrong},
		{75, entity.RecommendContestStrong},
		{74, entity.RecommendContest},
		{60, entity.RecommendContest},
		{59, entity.RecommendConsider},
		{45, entity.RecommendConsider},
		{44, entity.RecommendWeighOptions},
		{30, entity.RecommendWeighOptions},
		{29, entity.RecommendWeighOptions},
		{15, entity.RecommendWeighOptions},
		{14, entity.RecommendPay},
		{0, entity.RecommendPay},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, recommendationFor(tt.score), "score %d", tt.score)
	}
}

func TestNewCombinerRejectsInvalidWeights(t *testing.T) {
	c := NewCombiner(nil, &config.ScoringConfig{
		BaseRateWeight: 0.5,
		PreScoreWeight: 0.5,
		AdvisoryWeight: 0.5, // 和不为 1，回退默认权重
	})

	pre := PreScoreResult{PreScore: 50, Category: entity.CategorySpeeding}
	stats := entity.OutcomeStats{Total: 10, FavorableRate: 0.6}
	breakdown := c.Combine(pre, stats, AdvisoryAvailable(80, ""))
	assert.Equal(t, 59, breakdown.FinalScore)
}

func TestNewCombinerAcceptsCustomWeights(t *testing.T) {
	c := NewCombiner(nil, &config.ScoringConfig{
		BaseRateWeight: 0.2,
		PreScoreWeight: 0.6,
		AdvisoryWeight: 0.2,
	})

	pre := PreScoreResult{PreScore: 50, Category: entity.CategorySpeeding}
	stats := entity.OutcomeStats{Total: 10, FavorableRate: 0.6}
	breakdown := c.Combine(pre, stats, AdvisoryAvailable(80, ""))

	// 0.2×60 + 0.6×50 + 0.2×80 = 58
	assert.Equal(t, 58, breakdown.FinalScore)
}

func TestAdvisoryClampsScore(t *testing.T) {
	score, ok := AdvisoryAvailable(150, "over").Score()
	require.True(t, ok)
	assert.Equal(t, 100.0, score)

	score, ok = AdvisoryAvailable(-10, "under").Score()
	require.True(t, ok)
	assert.Zero(t, score)

	_, ok = AdvisoryUnavailable().Score()
	assert.False(t, ok)
}
