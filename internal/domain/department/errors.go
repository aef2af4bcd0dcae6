package department

import "errors"

var (
	// ErrNotFound is returned when a department or day schedule does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateSchedule is returned when a department already has a
	// schedule for the requested date.
	ErrDuplicateSchedule = errors.New("schedule already exists for this department and date")
)
