package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/roach88/journey/internal/engine"
	"github.com/roach88/journey/internal/timeline"
)

// Scenario defines a conformance test scenario: a timeline, the policy to
// build it under, and assertions over the resulting graph.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Policy is the recurrence policy. Empty means the default.
	Policy string `yaml:"policy,omitempty"`

	// DeploymentSuffix and BuildSuffix override the attribution suffixes.
	DeploymentSuffix string `yaml:"deployment_suffix,omitempty"`
	BuildSuffix      string `yaml:"build_suffix,omitempty"`

	// Events are raw timeline records, normalized like input files.
	Events []timeline.Record `yaml:"events"`

	// ExpectMalformed marks a scenario whose events must fail normalization.
	ExpectMalformed bool `yaml:"expect_malformed,omitempty"`

	// Assertions validate the built graph.
	Assertions []Assertion `yaml:"assertions"`
}

// Assertion validates one property of the built graph.
type Assertion struct {
	// Type selects the check; see the Assert constants.
	Type string `yaml:"type"`

	// From and To are node ids (edge, no_edge).
	From string `yaml:"from,omitempty"`
	To   string `yaml:"to,omitempty"`

	// Node is the node id (no_incoming, effective_track, live).
	Node string `yaml:"node,omitempty"`

	// Track is the expected effective track (effective_track).
	Track *string `yaml:"track,omitempty"`

	// Untracked expects no effective track (effective_track).
	Untracked bool `yaml:"untracked,omitempty"`

	// Live is the expected live flag (live).
	Live *bool `yaml:"live,omitempty"`

	// Count is the expected number of edges (edge_count).
	Count *int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertEdge           = "edge"
	AssertNoEdge         = "no_edge"
	AssertNoIncoming     = "no_incoming"
	AssertEffectiveTrack = "effective_track"
	AssertLive           = "live"
	AssertEdgeCount      = "edge_count"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict decoding catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// LoadScenarios loads every *.yaml and *.yml file in dir, sorted by file name.
func LoadScenarios(dir string) ([]*Scenario, error) {
	var paths []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("failed to list scenarios: %w", err)
		}
		paths = append(paths, matches...)
	}
	slices.Sort(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	for _, path := range paths {
		s, err := LoadScenario(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if _, err := engine.ParsePolicy(s.Policy); err != nil {
		return err
	}

	if !s.ExpectMalformed && len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertEdge, AssertNoEdge:
		if a.From == "" || a.To == "" {
			return fmt.Errorf("assertions[%d]: from and to are required for %s", index, a.Type)
		}
	case AssertNoIncoming:
		if a.Node == "" {
			return fmt.Errorf("assertions[%d]: node is required for no_incoming", index)
		}
	case AssertEffectiveTrack:
		if a.Node == "" {
			return fmt.Errorf("assertions[%d]: node is required for effective_track", index)
		}
		if (a.Track == nil) == !a.Untracked {
			return fmt.Errorf("assertions[%d]: exactly one of track or untracked is required for effective_track", index)
		}
	case AssertLive:
		if a.Node == "" || a.Live == nil {
			return fmt.Errorf("assertions[%d]: node and live are required for live", index)
		}
	case AssertEdgeCount:
		if a.Count == nil || *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for edge_count", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
