// Package ir provides the plain data contract shared by every other package:
// timeline events, graph nodes and edges, and the canonical serialization
// used to fingerprint a built graph.
//
// This package contains no graph-building logic. All other internal packages
// import ir; ir imports nothing internal. The output types carry no geometry
// and no dependency on any layout or rendering library.
//
// Key design constraints:
//   - Node and edge ids are derived from the event index only
//   - All JSON tags use snake_case
//   - Absent track is a nil *string, distinct from the empty string
//   - Canonical JSON forbids floats and nulls
package ir
