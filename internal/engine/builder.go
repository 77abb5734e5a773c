package engine

import (
	"log/slog"
	"slices"

	"github.com/roach88/journey/internal/ir"
	"github.com/roach88/journey/internal/timeline"
)

// Default state suffixes for deployment attribution. Matching is case-sensitive.
const (
	DefaultDeploymentSuffix = "Deployment"
	DefaultBuildSuffix      = "Build"
)

// Builder turns normalized events into a graph. A Builder holds only
// configuration; each Build call owns its own state.
type Builder struct {
	policy           RecurrencePolicy
	deploymentSuffix string
	buildSuffix      string
	logger           *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithPolicy sets the recurrence policy for every graph the builder produces.
func WithPolicy(p RecurrencePolicy) Option {
	return func(b *Builder) {
		b.policy = p
	}
}

// WithSuffixes overrides the state suffixes that mark deployments and builds.
// Empty values keep the defaults.
func WithSuffixes(deployment, build string) Option {
	return func(b *Builder) {
		if deployment != "" {
			b.deploymentSuffix = deployment
		}
		if build != "" {
			b.buildSuffix = build
		}
	}
}

// WithLogger sets the logger used for per-node debug decisions.
func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// New creates a Builder. Without options it uses PolicyForward and the
// default suffixes, and discards logs.
func New(opts ...Option) *Builder {
	b := &Builder{
		policy:           DefaultPolicy,
		deploymentSuffix: DefaultDeploymentSuffix,
		buildSuffix:      DefaultBuildSuffix,
		logger:           slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Policy returns the builder's recurrence policy.
func (b *Builder) Policy() RecurrencePolicy {
	return b.policy
}

// BuildRecords normalizes raw records and builds the full graph.
// Fails only with a *timeline.MalformedEventError; no graph is returned then.
func (b *Builder) BuildRecords(records []timeline.Record) (*ir.Graph, error) {
	events, err := timeline.Normalize(records)
	if err != nil {
		return nil, err
	}
	return b.Build(events), nil
}

// Build runs the reconstruction over events. Slice position is the event
// index. The returned graph holds every node, including folded ones, and
// every edge; call Visible on it for the layout-facing view.
func (b *Builder) Build(events []ir.Event) *ir.Graph {
	p := &pass{
		Builder:  b,
		nodes:    make([]ir.Node, len(events)),
		edges:    make([]ir.Edge, 0, len(events)),
		resolver: newResolver(),
		attributor: &attributor{
			deploymentSuffix: b.deploymentSuffix,
			buildSuffix:      b.buildSuffix,
		},
	}

	for i, ev := range events {
		p.nodes[i] = newNode(i, ev)
		p.step(i)
	}

	return p.graph()
}

// BuildGraph normalizes records and returns the visible graph: live nodes
// and the edges between them, ready for an external layout engine.
func BuildGraph(records []timeline.Record, opts ...Option) (*ir.Graph, error) {
	g, err := New(opts...).BuildRecords(records)
	if err != nil {
		return nil, err
	}
	return g.Visible(), nil
}

func newNode(index int, ev ir.Event) ir.Node {
	occ := slices.Clone(ev.Occurrences)
	if occ == nil {
		occ = []string{}
	}
	return ir.Node{
		ID:             ir.NodeID(index),
		Index:          index,
		State:          ev.State,
		Occurrences:    occ,
		Track:          ev.Track,
		EffectiveTrack: ev.Track,
		Metadata:       ev.Metadata,
		ArtifactTag:    ev.ArtifactTag,
		Live:           true,
	}
}

// pass is the explicit fold state of a single Build call.
type pass struct {
	*Builder
	nodes      []ir.Node
	edges      []ir.Edge
	resolver   *resolver
	attributor *attributor
	attributed int
	folded     int
}

// step processes node i. Every earlier node has already been processed.
func (p *pass) step(i int) {
	node := &p.nodes[i]

	if p.attributor.isDeployment(node) {
		p.attribute(i)
	}

	switch {
	case i == 0:
		p.registerFirst(i)
	case node.EffectiveTrack == nil:
		p.linkUntracked(i)
	default:
		p.linkTracked(i)
	}

	p.attributor.record(p.nodes, i)
}

// attribute rewrites a deployment's effective track to the raw track of the
// build it shipped. A build's own attribution is not inherited. The
// deployment's raw track is left as-is for provenance.
func (p *pass) attribute(i int) {
	node := &p.nodes[i]
	buildIdx, ok := p.attributor.find(p.nodes[:i], node)
	if !ok {
		p.logger.Debug("deployment not attributed", "node", node.ID, "state", node.State)
		return
	}

	build := &p.nodes[buildIdx]
	node.EffectiveTrack = build.Track
	node.AttributedTo = build.ID
	p.attributed++

	p.logger.Debug("deployment attributed",
		"node", node.ID,
		"build", build.ID,
		"track", ir.StrOrEmpty(build.Track))
}

// registerFirst handles the first event: it has no predecessor and no edge.
func (p *pass) registerFirst(i int) {
	node := &p.nodes[i]
	if node.EffectiveTrack == nil {
		p.resolver.advanceUntracked(i)
		return
	}
	p.resolver.advance(*node.EffectiveTrack, node.State, i)
	node.FirstSeen = node.ID
}

func (p *pass) linkUntracked(i int) {
	if pred, ok := p.resolver.untrackedPredecessor(); ok {
		p.addEdge(pred, i, ir.EdgeSuccession)
	}
	p.resolver.advanceUntracked(i)
}

func (p *pass) linkTracked(i int) {
	node := &p.nodes[i]
	track := *node.EffectiveTrack
	pred, hasPred := p.resolver.predecessor(track)
	first, seen := p.resolver.first(track, node.State)

	if seen && p.policy == PolicyFold {
		p.fold(i, first, pred, hasPred)
		return
	}

	if hasPred {
		p.addEdge(pred, i, ir.EdgeSuccession)
	}
	p.resolver.advance(track, node.State, i)

	first, _ = p.resolver.first(track, node.State)
	node.FirstSeen = p.nodes[first].ID
}

// fold merges node i into the first-seen node for its (track, state) pair.
// Node i keeps only the incoming recurrence edge and never becomes a head.
func (p *pass) fold(i, first, pred int, hasPred bool) {
	node := &p.nodes[i]
	survivor := &p.nodes[first]

	if hasPred {
		p.addEdge(pred, i, ir.EdgeRecurrence)
	}
	survivor.Occurrences = unionOccurrences(survivor.Occurrences, node.Occurrences)

	node.Live = false
	node.FirstSeen = survivor.ID
	node.FoldedInto = survivor.ID
	p.resolver.resetHead(*node.EffectiveTrack, first)
	p.folded++

	p.logger.Debug("recurrence folded",
		"node", node.ID,
		"into", survivor.ID,
		"track", *node.EffectiveTrack,
		"state", node.State)
}

func (p *pass) addEdge(source, target int, kind ir.EdgeKind) {
	p.edges = append(p.edges, ir.Edge{
		ID:     ir.EdgeID(target),
		Source: p.nodes[source].ID,
		Target: p.nodes[target].ID,
		Kind:   kind,
	})
}

func (p *pass) graph() *ir.Graph {
	stats := ir.Stats{
		Events:     len(p.nodes),
		Edges:      len(p.edges),
		Attributed: p.attributed,
		Folded:     p.folded,
		TrackCount: p.resolver.trackCount(),
	}
	for _, n := range p.nodes {
		if n.Live {
			stats.LiveNodes++
		}
		if n.EffectiveTrack == nil {
			stats.Untracked++
		}
	}

	return &ir.Graph{
		Policy:           string(p.policy),
		Nodes:            p.nodes,
		Edges:            p.edges,
		Stats:            stats,
		DeploymentSuffix: p.deploymentSuffix,
		BuildSuffix:      p.buildSuffix,
	}
}

// unionOccurrences appends the entries of extra not already in base, keeping order.
func unionOccurrences(base, extra []string) []string {
	seen := make(map[string]bool, len(base))
	for _, s := range base {
		seen[s] = true
	}
	for _, s := range extra {
		if !seen[s] {
			base = append(base, s)
			seen[s] = true
		}
	}
	return base
}
