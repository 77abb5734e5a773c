package harness

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/journey/internal/ir"
	"github.com/roach88/journey/internal/timeline"
)

func intPtr(i int) *int    { return &i }
func boolPtr(b bool) *bool { return &b }

func TestScenarios_Conformance(t *testing.T) {
	scenarios, err := LoadScenarios("testdata/scenarios")
	require.NoError(t, err)
	require.NotEmpty(t, scenarios)

	for _, s := range scenarios {
		t.Run(s.Name, func(t *testing.T) {
			result, err := Run(s)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestRunWithGolden(t *testing.T) {
	for _, name := range []string{"fallback", "recurrence_fold"} {
		t.Run(name, func(t *testing.T) {
			s, err := LoadScenario("testdata/scenarios/" + name + ".yaml")
			require.NoError(t, err)
			require.NoError(t, RunWithGolden(t, s))
		})
	}
}

func TestRun_ReportsFailedAssertions(t *testing.T) {
	s := &Scenario{
		Name: "failing",
		Events: []timeline.Record{
			{"state": "A", "branch": "main"},
			{"state": "B", "branch": "main"},
		},
		Assertions: []Assertion{
			{Type: AssertEdge, From: "node-0", To: "node-1"},
			{Type: AssertNoEdge, From: "node-0", To: "node-1"},
			{Type: AssertEdgeCount, Count: intPtr(5)},
			{Type: AssertEffectiveTrack, Node: "node-1", Untracked: true},
			{Type: AssertLive, Node: "node-9", Live: boolPtr(true)},
		},
	}

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 4)
	assert.Contains(t, result.Errors[0], "assertion 1 (no_edge)")
	assert.Contains(t, result.Errors[1], "Expected: 5 edges")
	assert.Contains(t, result.Errors[2], `Actual: track "main"`)
	assert.Contains(t, result.Errors[3], "node node-9 not found")
}

func TestRun_MalformedWithoutExpectation(t *testing.T) {
	s := &Scenario{
		Name:       "broken",
		Events:     []timeline.Record{{"branch": "main"}},
		Assertions: []Assertion{{Type: AssertEdgeCount, Count: intPtr(0)}},
	}

	_, err := Run(s)
	require.Error(t, err)
	assert.True(t, timeline.IsMalformed(err))
}

func TestRun_ExpectMalformedButClean(t *testing.T) {
	s := &Scenario{
		Name:            "clean",
		ExpectMalformed: true,
		Events:          []timeline.Record{{"state": "A"}},
	}

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.NotNil(t, result.Graph)
}

func TestRun_CustomSuffixes(t *testing.T) {
	s := &Scenario{
		Name:             "suffixes",
		DeploymentSuffix: "Release",
		BuildSuffix:      "Package",
		Events: []timeline.Record{
			{"state": "Package", "branch": "main", "artifact": "svc-1.0.0-2024-05-05-aa"},
			{"state": "Release", "additional_info": "1.0.0-2024-05-05-aa"},
		},
		Assertions: []Assertion{
			{Type: AssertEffectiveTrack, Node: "node-1", Track: ir.StrPtr("main")},
			{Type: AssertEdge, From: "node-0", To: "node-1"},
		},
	}

	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRunWithLogger_LogsDecisions(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	s, err := LoadScenario("testdata/scenarios/deployment_attribution.yaml")
	require.NoError(t, err)

	result, err := RunWithLogger(s, logger)
	require.NoError(t, err)
	assert.True(t, result.Pass)
	assert.Contains(t, buf.String(), "deployment attributed")
}

func TestAssertionError_Format(t *testing.T) {
	err := &AssertionError{
		Type:     AssertEdge,
		Expected: "edge node-0 -> node-2",
		Actual:   "not found",
		Edges:    []ir.Edge{{ID: "edge-1", Source: "node-0", Target: "node-1", Kind: ir.EdgeSuccession}},
	}

	msg := err.Error()
	assert.Contains(t, msg, "Assertion failed: edge")
	assert.Contains(t, msg, "Expected: edge node-0 -> node-2")
	assert.Contains(t, msg, "node-0 -> node-1 (succession)")
}
