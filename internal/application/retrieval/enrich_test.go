package retrieval

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticket-contest-api/internal/domain/entity"
)

type fakeGraph struct {
	links map[string][]entity.CitationLink
	err   error
}

func (f *fakeGraph) LinksFor(_ context.Context, _ []string) (map[string][]entity.CitationLink, error) {
	return f.links, f.err
}

func TestEnrichAttachesLinks(t *testing.T) {
	graph := &fakeGraph{
		links: map[string][]entity.CitationLink{
			"CASE A": {{Citation: "Case X", RelationType: "cites"}},
		},
	}
	e := NewEnricher(graph)

	cases := []*entity.CandidateCase{
		{Citation: "Case A"},
		{Citation: "Case B"},
	}
	out := e.Enrich(context.Background(), cases)
	require.Len(t, out, 2)
	require.Len(t, out[0].Related, 1)
	assert.Equal(t, "Case X", out[0].Related[0].Citation)
	assert.Empty(t, out[1].Related)
}

func TestEnrichGraphFailurePassthrough(t *testing.T) {
	e := NewEnricher(&fakeGraph{err: fmt.Errorf("table missing")})

	cases := []*entity.CandidateCase{{Citation: "Case A"}}
	out := e.Enrich(context.Background(), cases)
	require.Len(t, out, 1)
	assert.Empty(t, out[0].Related)
}

func TestEnrichNilGraphPassthrough(t *testing.T) {
	e := NewEnricher(nil)
	cases := []*entity.CandidateCase{{Citation: "Case A"}}
	assert.Equal(t, cases, e.Enrich(context.Background(), cases))
}
