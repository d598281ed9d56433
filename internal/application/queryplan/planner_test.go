package queryplan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticket-contest-api/internal/domain/entity"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		text string
		want entity.ViolationCategory
	}{
		{"speeding by keyword", "exceeding posted speed limit by 15 mph", entity.CategorySpeeding},
		{"signal", "ran the red light at main street", entity.CategorySignal},
		{"device use", "driver was texting while driving", entity.CategoryDeviceUse},
		{"impairment wins over speeding", "dui stop after radar showed excessive speed", entity.CategoryImpairment},
		{"stop sign", "rolling stop at the intersection", entity.CategoryStopSign},
		{"parking", "parked in front of a hydrant", entity.CategoryParking},
		{"no match", "unsafe lane change on highway", entity.CategoryGeneric},
		{"empty", "", entity.CategoryGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.text))
		})
	}
}

func TestDetectTags(t *testing.T) {
	tags := DetectTags("speed camera near the school crosswalk")
	assert.Equal(t, []string{TagPhotoEnforcement, TagSchoolZone}, tags)

	assert.Empty(t, DetectTags("plain violation description"))
}

func TestPlannerBuild(t *testing.T) {
	p := NewPlanner()

	ticket := &entity.Ticket{
		Violation:    "speeding captured by automated camera",
		Jurisdiction: "CA",
	}
	plan := p.Build(ticket)

	require.NotNil(t, plan)
	assert.Equal(t, entity.CategorySpeeding, plan.Category)
	assert.Contains(t, plan.Tags, TagPhotoEnforcement)

	// 标签查询排在类别查询之前
	require.NotEmpty(t, plan.Queries)
	assert.Equal(t, "automated enforcement camera accuracy challenge", plan.Queries[0])

	// 具体类别附带宽泛兜底查询
	assert.Contains(t, plan.Queries, "traffic violation contested")

	// 无重复
	seen := make(map[string]bool)
	for _, q := range plan.Queries {
		assert.False(t, seen[q], "duplicate query %q", q)
		seen[q] = true
	}
}

func TestPlannerBuildGenericNoDuplicateFallback(t *testing.T) {
	p := NewPlanner()

	plan := p.Build(&entity.Ticket{
		Violation:    "unsafe lane change",
		Jurisdiction: "NY",
	})

	assert.Equal(t, entity.CategoryGeneric, plan.Category)
	assert.Equal(t, []string{"traffic violation contested"}, plan.Queries)
}

func TestPlannerBuildNilTicket(t *testing.T) {
	p := NewPlanner()
	plan := p.Build(nil)
	require.NotNil(t, plan)
	assert.Equal(t, entity.CategoryGeneric, plan.Category)
	assert.Empty(t, plan.Queries)
}

func TestPlannerCustomProfile(t *testing.T) {
	custom := &Profile{
		Jurisdiction: "TX",
		CategoryQueries: map[entity.ViolationCategory][]string{
			entity.CategorySpeeding: {"texas speeding precedent"},
			entity.CategoryGeneric:  {"texas traffic contested"},
		},
		TagQueries: map[string]string{},
	}
	p := NewPlanner(custom)

	plan := p.Build(&entity.Ticket{
		Violation:    "speeding on i-35",
		Jurisdiction: "tx",
	})
	assert.Equal(t, []string{"texas speeding precedent", "texas traffic contested"}, plan.Queries)

	// 未注册辖区回落到默认画像
	fallback := p.Build(&entity.Ticket{
		Violation:    "speeding on i-95",
		Jurisdiction: "FL",
	})
	assert.Contains(t, fallback.Queries, "speeding ticket dismissed")
}

func TestComposedText(t *testing.T) {
	p := NewPlanner()
	ticket := &entity.Ticket{
		Violation:    "speeding near camera",
		Jurisdiction: "CA",
		LocationText: "5th and Main",
		DeviceText:   "radar unit 12",
	}
	plan := p.Build(ticket)

	text := plan.ComposedText(ticket)
	assert.Contains(t, text, "speeding near camera")
	assert.Contains(t, text, "5th and Main")
	assert.Contains(t, text, "radar unit 12")
	assert.Contains(t, text, TagPhotoEnforcement)
}
