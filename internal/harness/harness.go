package harness

import (
	"fmt"
	"log/slog"

	"github.com/roach88/journey/internal/engine"
	"github.com/roach88/journey/internal/timeline"
)

// Run builds the scenario's events and evaluates its assertions.
//
// Returns an error only when the scenario cannot be executed: an invalid
// policy, or malformed events in a scenario that does not expect them.
// Assertion failures are reported in the Result.
func Run(scenario *Scenario) (*Result, error) {
	return RunWithLogger(scenario, slog.New(slog.DiscardHandler))
}

// RunWithLogger is Run with the builder's decisions logged to logger.
func RunWithLogger(scenario *Scenario, logger *slog.Logger) (*Result, error) {
	policy, err := engine.ParsePolicy(scenario.Policy)
	if err != nil {
		return nil, err
	}

	builder := engine.New(
		engine.WithPolicy(policy),
		engine.WithSuffixes(scenario.DeploymentSuffix, scenario.BuildSuffix),
		engine.WithLogger(logger),
	)

	result := NewResult()
	g, err := builder.BuildRecords(scenario.Events)

	if scenario.ExpectMalformed {
		if err == nil {
			result.Graph = g
			result.AddError("expected malformed events, but the timeline built cleanly")
		} else if !timeline.IsMalformed(err) {
			return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
		}
		return result, nil
	}

	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	result.Graph = g
	for _, msg := range EvaluateAssertions(g, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}
