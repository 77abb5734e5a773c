// Package timeline decodes raw lifecycle records and normalizes them into
// ir.Event values.
//
// Raw input is a JSON array, a YAML sequence, or the lifecycle API envelope
// {"status": 200, "message": "...", "data": [...]}. Two field-naming
// conventions are accepted and may be mixed across records:
//
//	state | milestone          lifecycle stage label (required)
//	time  | timestamp          string or list of strings
//	branch | repo              track; absent or null means untracked
//	artifact | artifact_tag    what the event built
//	additional_info | metadata free text
//
// Absence and the empty string stay distinct for track and metadata.
// The only validation performed is that every record carries a usable
// state label; anything else is passed through.
package timeline
