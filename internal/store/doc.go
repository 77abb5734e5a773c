// Package store provides SQLite-backed storage for built journey graphs.
//
// Each build is persisted as a run:
//   - Runs: one row per distinct (timeline, policy) with stats and the raw input
//   - Nodes: every node of the run, including folded ones, for provenance
//   - Edges: every edge of the run, including recurrence edges
//
// # Critical Patterns
//
// Run-Level Idempotency
//   - UNIQUE(timeline_hash, policy) constraint
//   - Writing the same timeline under the same policy returns the existing run
//
// Logical Ordering
//   - Runs are ordered by a seq INTEGER assigned at insert, never by wall time
//   - Nodes are ordered by idx, edges by target index
//
// Raw Timeline Retention
//   - The raw input is kept zstd-compressed so a run can be rebuilt later
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Graph and timeline hashes are computed via internal/ir/hash.go.
package store
