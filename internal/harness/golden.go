package harness

import (
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/journey/internal/ir"
)

// RunWithGolden runs a scenario and compares the canonical JSON of its
// visible graph against testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns an error if the scenario cannot run. Assertion failures and
// golden mismatches fail t.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	for _, msg := range result.Errors {
		t.Error(msg)
	}
	if result.Graph == nil {
		return fmt.Errorf("scenario %s produced no graph", scenario.Name)
	}

	return AssertGolden(t, scenario.Name, result.Graph)
}

// AssertGolden compares g's visible graph against a golden file without
// re-running a scenario.
func AssertGolden(t *testing.T, name string, g *ir.Graph) error {
	t.Helper()

	data, err := ir.MarshalGraph(g)
	if err != nil {
		return err
	}

	gold := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	gold.Assert(t, name, data)

	return nil
}
