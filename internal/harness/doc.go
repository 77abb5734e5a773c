// Package harness runs conformance scenarios against the graph builder.
//
// # Scenario Format
//
// Scenarios are YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	policy: forward            # or fold; defaults to forward
//	events:
//	  - state: CodeCommit
//	    branch: main
//	    time: "2024-03-01T10:00:00Z"
//	  - state: ProdDeployment
//	    additional_info: "release 1.4.2-2024-03-01-abc"
//	assertions:
//	  - type: edge
//	    from: node-0
//	    to: node-1
//	  - type: effective_track
//	    node: node-1
//	    track: main
//
// Events use the same field names and aliases as timeline input files.
//
// # Assertion Types
//
//   - edge: an edge from → to exists (any kind)
//   - no_edge: no edge from → to exists
//   - no_incoming: node has no incoming edge
//   - effective_track: node's effective track equals track, or is absent when untracked is true
//   - live: node's live flag equals live
//   - edge_count: the full graph has exactly count edges
//
// Assertions are evaluated against the full graph, including folded nodes.
// A scenario with expect_malformed set passes only if normalization rejects
// its events; such a scenario needs no assertions.
//
// # Golden Files
//
// RunWithGolden compares the canonical JSON of the visible graph against
// testdata/golden/<name>.golden. Regenerate with:
//
//	go test ./internal/harness -update
package harness
