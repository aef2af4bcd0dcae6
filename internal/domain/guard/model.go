package guard

import (
	"time"

	"github.com/google/uuid"
)

// QrToken is one issued gate pass for an appointment. Re-issuing bumps the
// version and points the appointment at the new row; older rows stay for
// audit but no longer verify.
type QrToken struct {
	ID            uuid.UUID `db:"id" json:"id"`
	AppointmentID uuid.UUID `db:"appointment_id" json:"appointment_id"`
	Version       int       `db:"version" json:"version"`
	IssuedAt      time.Time `db:"issued_at" json:"issued_at"`
	ExpiresAt     time.Time `db:"expires_at" json:"expires_at"`
}

// IssuedToken is the API shape returned when a pass is issued. Token is the
// signed payload to encode into a QR image client-side.
type IssuedToken struct {
	TokenID       uuid.UUID `json:"token_id"`
	AppointmentID uuid.UUID `json:"appointment_id"`
	Version       int       `json:"version"`
	Token         string    `json:"token"`
	VerifyURL     string    `json:"verify_url"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// VerifyResult is the gate-side snapshot shown to the guard on a successful
// scan.
type VerifyResult struct {
	Valid           bool      `json:"valid"`
	AppointmentID   uuid.UUID `json:"appointment_id"`
	CrewID          string    `json:"crew_id"`
	DepartmentID    uuid.UUID `json:"department_id"`
	DepartmentName  string    `json:"department_name"`
	AppointmentType string    `json:"appointment_type"`
	Date            string    `json:"date"`
	Time            string    `json:"time"`
	Purpose         string    `json:"purpose"`
	Status          string    `json:"status"`
	TokenIssuedAt   time.Time `json:"token_issued_at"`
	TokenExpiresAt  time.Time `json:"token_expires_at"`
}
