package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleGraph() *Graph {
	return &Graph{
		Policy: "forward",
		Nodes: []Node{
			{ID: "node-0", Index: 0, State: "Created", Occurrences: []string{"2024-01-01T00:00:00Z"}, Live: true},
			{ID: "node-1", Index: 1, State: "Build", Occurrences: []string{}, Track: StrPtr("repoA"), EffectiveTrack: StrPtr("repoA"), Live: true},
		},
		Edges: []Edge{
			{ID: "edge-1", Source: "node-0", Target: "node-1", Kind: EdgeSuccession},
		},
	}
}

func TestGraphIDDeterminism(t *testing.T) {
	id1, err := GraphID(sampleGraph())
	require.NoError(t, err)

	id2, err := GraphID(sampleGraph())
	require.NoError(t, err)

	assert.Equal(t, id1, id2, "GraphID must be deterministic")
	assert.Len(t, id1, 64, "SHA-256 hex is 64 characters")
}

func TestGraphIDChangesWithInput(t *testing.T) {
	base := MustGraphID(sampleGraph())

	g := sampleGraph()
	g.Policy = "fold"
	assert.NotEqual(t, base, MustGraphID(g), "policy is part of identity")

	g = sampleGraph()
	g.Edges = nil
	assert.NotEqual(t, base, MustGraphID(g), "edges are part of identity")

	g = sampleGraph()
	g.Nodes[1].EffectiveTrack = StrPtr("repoB")
	assert.NotEqual(t, base, MustGraphID(g), "effective track is part of identity")
}

func TestGraphIDIgnoresHiddenNodesAndStats(t *testing.T) {
	base := MustGraphID(sampleGraph())

	g := sampleGraph()
	g.Stats = Stats{Events: 99}
	g.Nodes = append(g.Nodes, Node{ID: "node-2", Index: 2, State: "Build", Occurrences: []string{}, Live: false})
	g.Edges = append(g.Edges, Edge{ID: "edge-2", Source: "node-1", Target: "node-2", Kind: EdgeRecurrence})

	assert.Equal(t, base, MustGraphID(g))
}

func TestTimelineHashDistinguishesAbsentAndEmptyTrack(t *testing.T) {
	absent := []Event{{Index: 0, State: "A", Occurrences: []string{}}}
	empty := []Event{{Index: 0, State: "A", Occurrences: []string{}, Track: StrPtr("")}}

	h1, err := TimelineHash(absent)
	require.NoError(t, err)
	h2, err := TimelineHash(empty)
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
}

func TestDomainSeparation(t *testing.T) {
	data := []byte(`{}`)
	assert.NotEqual(t, hashWithDomain(DomainGraph, data), hashWithDomain(DomainTimeline, data))
}
