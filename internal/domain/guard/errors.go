package guard

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a token row does not exist.
var ErrNotFound = errors.New("token not found")

// InvalidTokenError covers every rejection that is not an expiry: bad
// signature, malformed claims, superseded version, unknown or cancelled
// appointment. Guards see one generic failure; the reason is for logs.
type InvalidTokenError struct {
	Reason string
}

func (e *InvalidTokenError) Error() string {
	return fmt.Sprintf("invalid token: %s", e.Reason)
}

// ExpiredTokenError is kept distinct from InvalidTokenError so the gate UI
// can tell a crew member to re-issue their pass instead of re-booking.
type ExpiredTokenError struct {
	ExpiredAt time.Time
}

func (e *ExpiredTokenError) Error() string {
	if e.ExpiredAt.IsZero() {
		return "token expired"
	}
	return fmt.Sprintf("token expired at %s", e.ExpiredAt.Format(time.RFC3339))
}
