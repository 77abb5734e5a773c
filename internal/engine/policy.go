package engine

import "fmt"

// RecurrencePolicy decides what happens when a (track, state) pair is seen again.
// One policy applies to a whole graph.
type RecurrencePolicy string

const (
	// PolicyForward draws a plain succession edge and keeps every node live.
	PolicyForward RecurrencePolicy = "forward"

	// PolicyFold draws a recurrence edge into the revisiting node, unions its
	// occurrences into the first-seen node, and hides it.
	PolicyFold RecurrencePolicy = "fold"
)

// DefaultPolicy is used when no policy is configured.
const DefaultPolicy = PolicyForward

// ValidPolicies lists the accepted policy names.
var ValidPolicies = []RecurrencePolicy{PolicyForward, PolicyFold}

// ParsePolicy converts a name to a RecurrencePolicy. The empty string
// yields DefaultPolicy.
func ParsePolicy(s string) (RecurrencePolicy, error) {
	if s == "" {
		return DefaultPolicy, nil
	}
	for _, p := range ValidPolicies {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("invalid recurrence policy %q: must be one of %v", s, ValidPolicies)
}
