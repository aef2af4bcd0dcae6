package department

import (
	"time"

	"github.com/google/uuid"
)

// Department is a welfare-center service point a crew member can book.
type Department struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Category  string    `db:"category" json:"category"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// DaySchedule is the staff-defined booking template for one department on
// one calendar day. Times are wall-clock "HH:MM" strings; the slot grid is
// derived from them, never stored.
type DaySchedule struct {
	ID                  uuid.UUID `db:"id" json:"id"`
	DepartmentID        uuid.UUID `db:"department_id" json:"department_id"`
	Date                time.Time `db:"date" json:"date"`
	OpeningTime         string    `db:"opening_time" json:"opening_time"`
	ClosingTime         string    `db:"closing_time" json:"closing_time"`
	SlotDurationMinutes int       `db:"slot_duration_minutes" json:"slot_duration_minutes"`
	SlotCapacity        int       `db:"slot_capacity" json:"slot_capacity"`
	CreatedAt           time.Time `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time `db:"updated_at" json:"updated_at"`
}
