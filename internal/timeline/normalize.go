package timeline

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/roach88/journey/internal/ir"
)

// Field aliases, in lookup order. The first non-null key wins.
var (
	stateKeys    = []string{"state", "milestone"}
	timeKeys     = []string{"time", "timestamp"}
	trackKeys    = []string{"branch", "repo"}
	artifactKeys = []string{"artifact", "artifact_tag"}
	metadataKeys = []string{"additional_info", "metadata"}
)

// Normalize converts records into events, failing on the first record
// without a usable state label. No partial result is returned on error.
func Normalize(records []Record) ([]ir.Event, error) {
	events := make([]ir.Event, 0, len(records))
	for i, rec := range records {
		ev, err := normalizeRecord(i, rec)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, nil
}

// Validate checks every record and returns all problems found, in input order.
// Returns nil when Normalize would succeed.
func Validate(records []Record) []error {
	var errs []error
	for i, rec := range records {
		if _, err := normalizeRecord(i, rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func normalizeRecord(index int, rec Record) (ir.Event, error) {
	raw, ok := lookup(rec, stateKeys)
	if !ok {
		return ir.Event{}, &MalformedEventError{Index: index, Field: "state", Reason: "missing state label"}
	}
	state, ok := raw.(string)
	if !ok {
		return ir.Event{}, &MalformedEventError{Index: index, Field: "state", Reason: fmt.Sprintf("state must be a string, got %T", raw)}
	}
	if strings.TrimSpace(state) == "" {
		return ir.Event{}, &MalformedEventError{Index: index, Field: "state", Reason: "state label is empty"}
	}

	timeVal, _ := lookup(rec, timeKeys)

	return ir.Event{
		Index:       index,
		State:       state,
		Occurrences: occurrences(timeVal),
		Track:       optionalString(rec, trackKeys),
		Metadata:    optionalString(rec, metadataKeys),
		ArtifactTag: optionalString(rec, artifactKeys),
	}, nil
}

// occurrences wraps scalars in a one-element list and passes lists through
// with their length intact; a null entry becomes "". Missing or empty scalar
// values become an empty, non-nil list.
func occurrences(v any) []string {
	out := []string{}
	switch val := v.(type) {
	case nil:
	case []any:
		for _, elem := range val {
			if elem == nil {
				out = append(out, "")
				continue
			}
			out = append(out, scalarString(elem))
		}
	case []string:
		out = append(out, val...)
	default:
		if s := scalarString(val); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// optionalString returns nil when none of the keys is present or the value is null.
// The empty string is returned as a non-nil pointer.
func optionalString(rec Record, keys []string) *string {
	v, ok := lookup(rec, keys)
	if !ok {
		return nil
	}
	s := scalarString(v)
	return &s
}

// lookup returns the first non-null value among the aliased keys.
func lookup(rec Record, keys []string) (any, bool) {
	for _, k := range keys {
		if v, ok := rec[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func scalarString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case time.Time:
		return val.UTC().Format(time.RFC3339)
	default:
		return fmt.Sprint(val)
	}
}
