package ir

// Version constants for the graph schema and builder.
const (
	// SchemaVersion is the graph data contract version.
	SchemaVersion = "1"

	// BuilderVersion is the journey builder version.
	BuilderVersion = "0.1.0"
)
