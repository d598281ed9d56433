package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticket-contest-api/internal/domain/entity"
)

func appliedNames(applied []entity.AppliedVector) []string {
	names := make([]string, 0, len(applied))
	for _, a := range applied {
		names = append(names, a.Name)
	}
	return names
}

// 默认表下 speeding 类别的基准分：0.7×42 + 0.3×50
const speedingBase = 44.4

func TestPreScoreDeterministic(t *testing.T) {
	s := NewPreScorer(nil, nil)
	ticket := &entity.Ticket{
		Violation:     "speeding captured by speed camera",
		Jurisdiction:  "CA",
		MeasuredSpeed: 55,
		PostedSpeed:   40,
	}

	first := s.Score(ticket, nil)
	second := s.Score(ticket, nil)
	assert.Equal(t, first, second)
}

func TestPreScorePhotoEnforcedModerateSpeeding(t *testing.T) {
	s := NewPreScorer(nil, nil)
	ticket := &entity.Ticket{
		Violation:     "speeding captured by speed camera",
		Jurisdiction:  "CA",
		MeasuredSpeed: 55,
		PostedSpeed:   40, // 超速 15，不命中任何档位
	}

	result := s.Score(ticket, nil)
	assert.Equal(t, entity.CategorySpeeding, result.Category)
	assert.False(t, result.SeverityFlag)
	assert.Equal(t, []string{"photo_enforcement_challenge"}, appliedNames(result.Applied))
	assert.InDelta(t, speedingBase+8, result.PreScore, 1e-9)
}

func TestPreScoreSeverityHighestTierOnly(t *testing.T) {
	s := NewPreScorer(nil, nil)
	ticket := &entity.Ticket{
		Violation:     "speeding on the interstate",
		Jurisdiction:  "CA",
		MeasuredSpeed: 175,
		PostedSpeed:   70, // 超速 105，同时满足四个档位
	}

	result := s.Score(ticket, nil)
	assert.True(t, result.SeverityFlag)
	// 只取最高档，不叠加
	assert.Equal(t, []string{"severity_over_100"}, appliedNames(result.Applied))
	assert.InDelta(t, speedingBase-30, result.PreScore, 1e-9)
}

func TestPreScoreAggravatedTextOnlyWithoutTier(t *testing.T) {
	s := NewPreScorer(nil, nil)

	// 无测速数据，文本含加重情节关键词
	noTier := s.Score(&entity.Ticket{
		Violation:    "reckless driving at high speed",
		Jurisdiction: "CA",
	}, nil)
	assert.True(t, noTier.SeverityFlag)
	assert.Equal(t, []string{"severity_aggravated_text"}, appliedNames(noTier.Applied))
	assert.InDelta(t, speedingBase-15, noTier.PreScore, 1e-9)

	// 档位罚分已触发时，文本加重不再叠加
	withTier := s.Score(&entity.Ticket{
		Violation:     "racing at excessive speed",
		Jurisdiction:  "CA",
		MeasuredSpeed: 95,
		PostedSpeed:   70, // 超速 25，命中 ≥20 档
	}, nil)
	assert.Equal(t, []string{"severity_over_20"}, appliedNames(withTier.Applied))
	assert.InDelta(t, speedingBase-6, withTier.PreScore, 1e-9)
}

func TestPreScoreCorrectionVectors(t *testing.T) {
	s := NewPreScorer(nil, nil)

	// 学区 + 自动执法：拍照挑战加分被学区修正部分抵消
	schoolZone := s.Score(&entity.Ticket{
		Violation:    "speeding recorded by camera near the school",
		Jurisdiction: "CA",
	}, nil)
	assert.ElementsMatch(t,
		[]string{"photo_enforcement_challenge", "school_zone_photo_correction"},
		appliedNames(schoolZone.Applied),
	)
	assert.InDelta(t, speedingBase+8-6, schoolZone.PreScore, 1e-9)

	// 当场承认：校准质疑被双重修正削弱
	admitted := s.Score(&entity.Ticket{
		Violation:    "driver admitted speeding when asked about radar calibration",
		Jurisdiction: "CA",
	}, nil)
	assert.ElementsMatch(t,
		[]string{"calibration_challenge", "admission_correction", "calibration_admission_correction"},
		appliedNames(admitted.Applied),
	)
	assert.InDelta(t, speedingBase+8-8-5, admitted.PreScore, 1e-9)
}

func TestPreScoreExcludeVetoesVector(t *testing.T) {
	s := NewPreScorer(nil, nil)

	result := s.Score(&entity.Ticket{
		Violation:    "failed to yield to an emergency vehicle",
		Jurisdiction: "CA",
	}, nil)
	assert.NotContains(t, appliedNames(result.Applied), "emergency_justification")
}

func TestPreScorePrecedentBonus(t *testing.T) {
	s := NewPreScorer(nil, nil)
	ticket := &entity.Ticket{Violation: "unsafe lane change", Jurisdiction: "CA"}

	// generic 基准分：0.7×40 + 0.3×50 = 43
	tests := []struct {
		name      string
		stats     *entity.OutcomeStats
		wantBonus float64
		applied   bool
	}{
		{"nil stats", nil, 0, false},
		{"sample too small", &entity.OutcomeStats{Total: 4, FavorableRate: 0.75}, 0, false},
		{"rate below threshold", &entity.OutcomeStats{Total: 10, FavorableRate: 0.4}, 0, false},
		{"proportional bonus", &entity.OutcomeStats{Total: 10, FavorableRate: 0.7}, 8, true},
		{"bonus capped", &entity.OutcomeStats{Total: 20, FavorableRate: 1.0}, 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := s.Score(ticket, tt.stats)
			assert.InDelta(t, 43+tt.wantBonus, result.PreScore, 1e-9)
			if tt.applied {
				assert.Contains(t, appliedNames(result.Applied), "precedent_support")
			} else {
				assert.NotContains(t, appliedNames(result.Applied), "precedent_support")
			}
		})
	}
}

func TestPreScoreNilTicketBaseline(t *testing.T) {
	s := NewPreScorer(nil, nil)
	result := s.Score(nil, nil)
	assert.Equal(t, baselineScore, result.PreScore)
	assert.Equal(t, entity.CategoryGeneric, result.Category)
}

func TestPreScoreClampedToRange(t *testing.T) {
	s := NewPreScorer(nil, nil)

	// impairment 基率低 + 最高档罚分 → 原始分为负，被钳位到 0
	result := s.Score(&entity.Ticket{
		Violation:     "dui while speeding",
		Jurisdiction:  "CA",
		MeasuredSpeed: 200,
		PostedSpeed:   60,
	}, nil)
	require.GreaterOrEqual(t, result.PreScore, 0.0)
	require.LessOrEqual(t, result.PreScore, 100.0)
	assert.Equal(t, entity.CategoryImpairment, result.Category)
}
