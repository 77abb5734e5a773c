// Package engine reconstructs a succession graph from an ordered timeline.
//
// The build is a single left-to-right fold over normalized events. For each
// event, in order:
//
//  1. Deployment attribution: a node whose state ends with the deployment
//     suffix takes the track of the earliest prior build node whose artifact
//     tag contains the deployment's correlation key.
//  2. Track resolution: the node links from its track's head, or from the
//     last untracked node when the track has no history yet.
//  3. Recurrence handling per the graph-wide RecurrencePolicy.
//
// All mutable state (track heads, first-seen index, untracked pointer, the
// build index used for attribution) lives in a pass value created per call
// to Build. Builders hold only configuration and are safe for concurrent use.
//
// # Invariants
//
//   - Every edge's source has a strictly smaller index than its target
//   - Every node has at most one incoming edge
//   - Track heads are always live nodes
//   - Attribution only looks backward; future input never changes a decision
package engine
