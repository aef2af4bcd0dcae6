package booking

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an appointment does not exist.
var ErrNotFound = errors.New("appointment not found")

// ValidationError reports a rejected request field. Callers can inspect the
// field programmatically; the message is for humans.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalidf(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// CapacityError is returned when a slot has no capacity left at commit time.
type CapacityError struct {
	Date string
	Time string
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("slot %s %s has no remaining capacity", e.Date, e.Time)
}

// StateError is returned when a lifecycle transition is not allowed from the
// appointment's current status.
type StateError struct {
	Current string
	Action  string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("cannot %s an appointment in status %q", e.Action, e.Current)
}
