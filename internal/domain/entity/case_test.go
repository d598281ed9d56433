package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCitation(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"strips punctuation and uppercases", "People v. Smith, 123 A.2d 456", "PEOPLE V SMITH 123 A2D 456"},
		{"collapses whitespace", "  People   v.\tSmith  ", "PEOPLE V SMITH"},
		{"already normalized", "PEOPLE V SMITH", "PEOPLE V SMITH"},
		{"empty", "", ""},
		{"punctuation only", "...,;", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeCitation(tt.in))
		})
	}
}

func TestParseOutcome(t *testing.T) {
	assert.Equal(t, OutcomeFavorable, ParseOutcome("favorable"))
	assert.Equal(t, OutcomeFavorable, ParseOutcome("  Favorable "))
	assert.Equal(t, OutcomeUnfavorable, ParseOutcome("UNFAVORABLE"))
	assert.Equal(t, OutcomeOther, ParseOutcome("dismissed with prejudice"))
	assert.Equal(t, OutcomeOther, ParseOutcome(""))
}

func TestComputeOutcomeStats(t *testing.T) {
	cases := []*CandidateCase{
		{Outcome: OutcomeFavorable},
		{Outcome: OutcomeFavorable},
		{Outcome: OutcomeUnfavorable},
		{Outcome: OutcomeOther},
	}

	stats := ComputeOutcomeStats(cases)
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 2, stats.Favorable)
	assert.Equal(t, 1, stats.Unfavorable)
	assert.InDelta(t, 0.5, stats.FavorableRate, 1e-9)

	empty := ComputeOutcomeStats(nil)
	assert.Zero(t, empty.Total)
	assert.Zero(t, empty.FavorableRate)
}
