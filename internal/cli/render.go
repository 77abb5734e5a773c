package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/roach88/journey/internal/ir"
)

// occurrenceLayout renders timestamps the way node cards show them.
const occurrenceLayout = "Jan 2, 2006, 03:04 PM"

// GraphResult is the output of build and show.
type GraphResult struct {
	RunID    string    `json:"run_id,omitempty"`
	Inserted bool      `json:"inserted,omitempty"`
	GraphID  string    `json:"graph_id"`
	Policy   string    `json:"policy"`
	Nodes    []ir.Node `json:"nodes"`
	Edges    []ir.Edge `json:"edges"`
	Stats    ir.Stats  `json:"stats"`
}

// newGraphResult builds output for g. Unless all is set, only the visible
// graph is included; Stats always describe the full build.
func newGraphResult(g *ir.Graph, graphID string, all bool) GraphResult {
	view := g
	if !all {
		view = g.Visible()
	}
	return GraphResult{
		GraphID: graphID,
		Policy:  g.Policy,
		Nodes:   view.Nodes,
		Edges:   view.Edges,
		Stats:   g.Stats,
	}
}

// writeGraph outputs a graph result in the formatter's format.
func writeGraph(f *OutputFormatter, result GraphResult) error {
	switch f.Format {
	case "json":
		return f.Success(result)
	case "dot":
		return writeGraphDOT(f.Writer, result)
	default:
		return writeGraphText(f.Writer, result)
	}
}

func writeGraphText(w io.Writer, result GraphResult) error {
	fmt.Fprintf(w, "Graph: %s\n", truncateID(result.GraphID))
	fmt.Fprintf(w, "Policy: %s\n", result.Policy)
	if result.RunID != "" {
		status := "existing"
		if result.Inserted {
			status = "stored"
		}
		fmt.Fprintf(w, "Run: %s (%s)\n", result.RunID, status)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "=== Nodes ===")
	if len(result.Nodes) == 0 {
		fmt.Fprintln(w, "  (no nodes)")
	}
	for _, n := range result.Nodes {
		fmt.Fprintf(w, "  %s [%s] %s%s\n", n.ID, trackLabel(n.EffectiveTrack), n.State, nodeNote(n))
		for _, occ := range n.Occurrences {
			fmt.Fprintf(w, "      %s\n", formatOccurrence(occ))
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "=== Edges ===")
	if len(result.Edges) == 0 {
		fmt.Fprintln(w, "  (no edges)")
	}
	for _, e := range result.Edges {
		if e.Kind == ir.EdgeRecurrence {
			fmt.Fprintf(w, "  %s -> %s [recurrence]\n", e.Source, e.Target)
			continue
		}
		fmt.Fprintf(w, "  %s -> %s\n", e.Source, e.Target)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "=== Stats ===")
	fmt.Fprintf(w, "  Events:     %d\n", result.Stats.Events)
	fmt.Fprintf(w, "  Live Nodes: %d\n", result.Stats.LiveNodes)
	fmt.Fprintf(w, "  Edges:      %d\n", result.Stats.Edges)
	fmt.Fprintf(w, "  Attributed: %d\n", result.Stats.Attributed)
	fmt.Fprintf(w, "  Folded:     %d\n", result.Stats.Folded)
	fmt.Fprintf(w, "  Untracked:  %d\n", result.Stats.Untracked)
	fmt.Fprintf(w, "  Tracks:     %d\n", result.Stats.TrackCount)

	return nil
}

// writeGraphDOT emits Graphviz DOT for an external layout engine. Layout is
// top to bottom; no coordinates are assigned here.
func writeGraphDOT(w io.Writer, result GraphResult) error {
	fmt.Fprintln(w, "digraph journey {")
	fmt.Fprintln(w, "  rankdir=TB;")
	fmt.Fprintln(w, "  node [shape=box];")

	for _, n := range result.Nodes {
		lines := []string{trackLabel(n.EffectiveTrack), n.State}
		for _, occ := range n.Occurrences {
			lines = append(lines, formatOccurrence(occ))
		}
		attrs := fmt.Sprintf("label=%s", dotQuote(strings.Join(lines, "\n")))
		if !n.Live {
			attrs += ", style=dashed"
		}
		fmt.Fprintf(w, "  %s [%s];\n", dotQuote(n.ID), attrs)
	}

	for _, e := range result.Edges {
		if e.Kind == ir.EdgeRecurrence {
			fmt.Fprintf(w, "  %s -> %s [style=dashed];\n", dotQuote(e.Source), dotQuote(e.Target))
			continue
		}
		fmt.Fprintf(w, "  %s -> %s;\n", dotQuote(e.Source), dotQuote(e.Target))
	}

	_, err := fmt.Fprintln(w, "}")
	return err
}

// trackLabel names a track for display. The empty string is a real track.
func trackLabel(track *string) string {
	switch {
	case track == nil:
		return "untracked"
	case *track == "":
		return `""`
	default:
		return *track
	}
}

func nodeNote(n ir.Node) string {
	switch {
	case n.FoldedInto != "":
		return fmt.Sprintf(" (folded into %s)", n.FoldedInto)
	case n.AttributedTo != "":
		return fmt.Sprintf(" (attributed to %s)", n.AttributedTo)
	default:
		return ""
	}
}

// formatOccurrence renders RFC 3339 timestamps in card layout and leaves
// anything else as-is.
func formatOccurrence(s string) string {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return s
	}
	return t.Format(occurrenceLayout)
}

var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

func dotQuote(s string) string {
	return `"` + dotEscaper.Replace(s) + `"`
}

// truncateID shortens a content hash for display.
func truncateID(id string) string {
	if len(id) <= 12 {
		return id
	}
	return id[:12]
}
