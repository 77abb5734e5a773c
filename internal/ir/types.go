package ir

import "fmt"

// Event is one normalized timeline entry. Events are immutable once
// normalized; the builder derives a Node from each.
type Event struct {
	Index       int      `json:"index"`                  // Position in the input, defines total order
	State       string   `json:"state"`                  // Lifecycle stage label, never empty
	Occurrences []string `json:"occurrences"`            // Timestamps, never nil
	Track       *string  `json:"track,omitempty"`        // Branch or repository; nil means untracked
	Metadata    *string  `json:"metadata,omitempty"`     // Free text, may embed a version fragment
	ArtifactTag *string  `json:"artifact_tag,omitempty"` // What this event built or produced
}

// HasTrack reports whether the event carries a track, including the empty string.
func (e Event) HasTrack() bool {
	return e.Track != nil
}

// EdgeKind distinguishes normal forward links from recurrence folds.
type EdgeKind string

const (
	// EdgeSuccession is a normal forward link from a predecessor.
	EdgeSuccession EdgeKind = "succession"

	// EdgeRecurrence marks the link that triggered a fold into an earlier node.
	EdgeRecurrence EdgeKind = "recurrence"
)

// Node is the graph vertex derived from one Event.
//
// EffectiveTrack starts equal to Event.Track and is only rewritten by
// deployment attribution. Occurrences may grow when a later recurrence is
// folded into this node.
type Node struct {
	ID             string   `json:"id"`
	Index          int      `json:"index"`
	State          string   `json:"state"`
	Occurrences    []string `json:"occurrences"`
	Track          *string  `json:"track,omitempty"`
	EffectiveTrack *string  `json:"effective_track,omitempty"`
	Metadata       *string  `json:"metadata,omitempty"`
	ArtifactTag    *string  `json:"artifact_tag,omitempty"`
	Live           bool     `json:"live"`
	AttributedTo   string   `json:"attributed_to,omitempty"` // Build node id a deployment was attributed to
	FirstSeen      string   `json:"first_seen,omitempty"`    // First node id for this (track, state) pair
	FoldedInto     string   `json:"folded_into,omitempty"`   // Surviving node id when Live is false
}

// Edge links a predecessor node to its successor. Source always has a
// strictly smaller index than Target.
type Edge struct {
	ID     string   `json:"id"`
	Source string   `json:"source"`
	Target string   `json:"target"`
	Kind   EdgeKind `json:"kind"`
}

// Stats summarizes a build.
type Stats struct {
	Events     int `json:"events"`
	LiveNodes  int `json:"live_nodes"`
	Edges      int `json:"edges"`
	Attributed int `json:"attributed"`
	Folded     int `json:"folded"`
	Untracked  int `json:"untracked"`
	TrackCount int `json:"track_count"`
}

// Graph is the complete build output. Nodes and Edges include non-live
// nodes and the edges that touch them; use Visible for what is handed to
// a layout engine.
type Graph struct {
	Policy string `json:"policy"`
	Nodes  []Node `json:"nodes"`
	Edges  []Edge `json:"edges"`
	Stats  Stats  `json:"stats"`

	// State suffixes that classified deployments and builds.
	DeploymentSuffix string `json:"deployment_suffix,omitempty"`
	BuildSuffix      string `json:"build_suffix,omitempty"`
}

// NodeID returns the stable node identifier for an event index.
func NodeID(index int) string {
	return fmt.Sprintf("node-%d", index)
}

// EdgeID returns the edge identifier for the edge targeting index.
// Every node has at most one incoming edge, so this is unique.
func EdgeID(targetIndex int) string {
	return fmt.Sprintf("edge-%d", targetIndex)
}

// Visible returns a copy of the graph holding only live nodes and the
// edges whose endpoints are both live.
func (g *Graph) Visible() *Graph {
	live := make(map[string]bool, len(g.Nodes))
	nodes := make([]Node, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		if n.Live {
			live[n.ID] = true
			nodes = append(nodes, n)
		}
	}

	edges := make([]Edge, 0, len(g.Edges))
	for _, e := range g.Edges {
		if live[e.Source] && live[e.Target] {
			edges = append(edges, e)
		}
	}

	return &Graph{
		Policy:           g.Policy,
		Nodes:            nodes,
		Edges:            edges,
		Stats:            g.Stats,
		DeploymentSuffix: g.DeploymentSuffix,
		BuildSuffix:      g.BuildSuffix,
	}
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// HasEdge reports whether an edge from source to target exists.
func (g *Graph) HasEdge(source, target string) bool {
	for _, e := range g.Edges {
		if e.Source == source && e.Target == target {
			return true
		}
	}
	return false
}

// Incoming returns the edges targeting id, in build order.
func (g *Graph) Incoming(id string) []Edge {
	var in []Edge
	for _, e := range g.Edges {
		if e.Target == id {
			in = append(in, e)
		}
	}
	return in
}

// StrPtr returns a pointer to s. Convenience for building events with a track.
func StrPtr(s string) *string {
	return &s
}

// StrOrEmpty dereferences p, returning "" for nil.
func StrOrEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
