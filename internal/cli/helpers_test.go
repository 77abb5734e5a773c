package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/roach88/journey/internal/engine"
	"github.com/roach88/journey/internal/ir"
	"github.com/roach88/journey/internal/timeline"
)

// execute runs cmd with args and returns stdout, stderr and the error.
func execute(cmd *cobra.Command, stdin string, args ...string) (string, string, error) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

// graphIDFor builds path under policy and returns the graph id, so golden
// output can be normalized.
func graphIDFor(t *testing.T, path string, policy engine.RecurrencePolicy) string {
	t.Helper()
	loaded, err := LoadTimeline(path, nil)
	require.NoError(t, err)
	events, err := timeline.Normalize(loaded.Records)
	require.NoError(t, err)
	return ir.MustGraphID(engine.New(engine.WithPolicy(policy)).Build(events))
}

func assertGolden(t *testing.T, name, output string) {
	t.Helper()
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, []byte(output))
}
