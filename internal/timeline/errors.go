package timeline

import (
	"errors"
	"fmt"
)

// MalformedEventError reports a record that cannot become an event.
// The whole input must be rejected when this is returned.
type MalformedEventError struct {
	// Index is the record position in the input sequence.
	Index int

	// Field names the offending field ("state" when the label is missing).
	Field string

	// Reason is a human-readable description.
	Reason string
}

// Error implements the error interface.
func (e *MalformedEventError) Error() string {
	return fmt.Sprintf("malformed event at index %d: %s: %s", e.Index, e.Field, e.Reason)
}

// IsMalformed returns true if err is or wraps a MalformedEventError.
func IsMalformed(err error) bool {
	var me *MalformedEventError
	return errors.As(err, &me)
}

// EnvelopeError reports a lifecycle API envelope whose status is not 200.
type EnvelopeError struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *EnvelopeError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("lifecycle envelope status %d", e.Status)
	}
	return fmt.Sprintf("lifecycle envelope status %d: %s", e.Status, e.Message)
}
