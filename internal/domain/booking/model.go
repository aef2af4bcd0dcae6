package booking

import (
	"time"

	"github.com/google/uuid"
)

// Appointment statuses. The lifecycle only moves forward: pending may become
// confirmed or cancelled, confirmed may become cancelled, cancelled is final.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// Day availability statuses used by the month calendar.
const (
	DayNoSchedule = "no_schedule"
	DayFull       = "full"
	DayLimited    = "limited"
	DayAvailable  = "available"
)

// limitedThreshold is the largest remaining-slot count still shown as
// "limited" on the calendar.
const limitedThreshold = 2

// Appointment is a crew member's booking with a department. Rows are never
// deleted; cancellation is recorded in place.
type Appointment struct {
	ID                 uuid.UUID  `db:"id" json:"id"`
	CrewID             string     `db:"crew_id" json:"crew_id"`
	DepartmentID       uuid.UUID  `db:"department_id" json:"department_id"`
	AppointmentType    string     `db:"appointment_type" json:"appointment_type"`
	Date               time.Time  `db:"date" json:"date"`
	Time               string     `db:"time" json:"time"`
	Purpose            string     `db:"purpose" json:"purpose"`
	Status             string     `db:"status" json:"status"`
	CancellationReason *string    `db:"cancellation_reason" json:"cancellation_reason,omitempty"`
	CancelledAt        *time.Time `db:"cancelled_at" json:"cancelled_at,omitempty"`
	CancelledBy        *string    `db:"cancelled_by" json:"cancelled_by,omitempty"`
	ActiveTokenID      *uuid.UUID `db:"active_token_id" json:"active_token_id,omitempty"`
	CreatedAt          time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at" json:"updated_at"`
}

// TimeSlot is one bookable interval derived from a day schedule. Slots are
// computed on demand and never persisted.
type TimeSlot struct {
	Start             string `json:"start"`
	End               string `json:"end"`
	Capacity          int    `json:"capacity"`
	CapacityRemaining int    `json:"capacity_remaining"`
}

// DayCell is one calendar day in the month view.
type DayCell struct {
	Date           string `json:"date"`
	TotalSlots     int    `json:"total_slots"`
	AvailableSlots int    `json:"available_slots"`
	Status         string `json:"status"`
}

// MonthView is the month calendar for one department. LeadingBlanks is the
// Sunday-based weekday index of the first day, for grid alignment.
type MonthView struct {
	Month         string    `json:"month"`
	LeadingBlanks int       `json:"leading_blanks"`
	Days          []DayCell `json:"days"`
}
