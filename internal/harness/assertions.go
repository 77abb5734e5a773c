package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/journey/internal/ir"
)

// AssertionError is returned when an assertion fails.
// It carries the graph's edges to help debug the failure.
type AssertionError struct {
	Type     string    // Assertion type for categorization
	Expected string    // Human-readable expected outcome
	Actual   string    // Human-readable actual outcome
	Edges    []ir.Edge // Full edge list for context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nEdges:\n")
	for _, edge := range e.Edges {
		fmt.Fprintf(&buf, "  %s -> %s (%s)\n", edge.Source, edge.Target, edge.Kind)
	}

	return buf.String()
}

// EvaluateAssertions checks all assertions against g and returns the
// failure messages in assertion order.
func EvaluateAssertions(g *ir.Graph, assertions []Assertion) []string {
	var errors []string
	for i, a := range assertions {
		if err := evaluate(g, a); err != nil {
			errors = append(errors, fmt.Sprintf("assertion %d (%s): %s", i, a.Type, err.Error()))
		}
	}
	return errors
}

func evaluate(g *ir.Graph, a Assertion) error {
	switch a.Type {
	case AssertEdge:
		return assertEdge(g, a)
	case AssertNoEdge:
		return assertNoEdge(g, a)
	case AssertNoIncoming:
		return assertNoIncoming(g, a)
	case AssertEffectiveTrack:
		return assertEffectiveTrack(g, a)
	case AssertLive:
		return assertLive(g, a)
	case AssertEdgeCount:
		return assertEdgeCount(g, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

func assertEdge(g *ir.Graph, a Assertion) error {
	if g.HasEdge(a.From, a.To) {
		return nil
	}
	return &AssertionError{
		Type:     AssertEdge,
		Expected: fmt.Sprintf("edge %s -> %s", a.From, a.To),
		Actual:   "not found",
		Edges:    g.Edges,
	}
}

func assertNoEdge(g *ir.Graph, a Assertion) error {
	if !g.HasEdge(a.From, a.To) {
		return nil
	}
	return &AssertionError{
		Type:     AssertNoEdge,
		Expected: fmt.Sprintf("no edge %s -> %s", a.From, a.To),
		Actual:   "edge present",
		Edges:    g.Edges,
	}
}

func assertNoIncoming(g *ir.Graph, a Assertion) error {
	if _, err := lookupNode(g, a.Node); err != nil {
		return err
	}
	in := g.Incoming(a.Node)
	if len(in) == 0 {
		return nil
	}
	return &AssertionError{
		Type:     AssertNoIncoming,
		Expected: fmt.Sprintf("no incoming edge to %s", a.Node),
		Actual:   fmt.Sprintf("incoming from %s", in[0].Source),
		Edges:    g.Edges,
	}
}

func assertEffectiveTrack(g *ir.Graph, a Assertion) error {
	n, err := lookupNode(g, a.Node)
	if err != nil {
		return err
	}

	if a.Untracked {
		if n.EffectiveTrack == nil {
			return nil
		}
		return &AssertionError{
			Type:     AssertEffectiveTrack,
			Expected: fmt.Sprintf("%s untracked", a.Node),
			Actual:   fmt.Sprintf("track %q", *n.EffectiveTrack),
			Edges:    g.Edges,
		}
	}

	if n.EffectiveTrack != nil && *n.EffectiveTrack == *a.Track {
		return nil
	}
	actual := "untracked"
	if n.EffectiveTrack != nil {
		actual = fmt.Sprintf("track %q", *n.EffectiveTrack)
	}
	return &AssertionError{
		Type:     AssertEffectiveTrack,
		Expected: fmt.Sprintf("%s on track %q", a.Node, *a.Track),
		Actual:   actual,
		Edges:    g.Edges,
	}
}

func assertLive(g *ir.Graph, a Assertion) error {
	n, err := lookupNode(g, a.Node)
	if err != nil {
		return err
	}
	if n.Live == *a.Live {
		return nil
	}
	return &AssertionError{
		Type:     AssertLive,
		Expected: fmt.Sprintf("%s live=%t", a.Node, *a.Live),
		Actual:   fmt.Sprintf("live=%t", n.Live),
		Edges:    g.Edges,
	}
}

func assertEdgeCount(g *ir.Graph, a Assertion) error {
	if len(g.Edges) == *a.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertEdgeCount,
		Expected: fmt.Sprintf("%d edges", *a.Count),
		Actual:   fmt.Sprintf("%d edges", len(g.Edges)),
		Edges:    g.Edges,
	}
}

func lookupNode(g *ir.Graph, id string) (ir.Node, error) {
	n, ok := g.Node(id)
	if !ok {
		return ir.Node{}, fmt.Errorf("node %s not found", id)
	}
	return n, nil
}
