package booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/crewport/crewport/internal/domain/department"
)

// Filter narrows appointment listings.
type Filter struct {
	Status string
	Date   *time.Time
}

type AppointmentRepository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	// GetByIDForUpdate locks the appointment row for the duration of the
	// surrounding transaction.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*Appointment, error)
	Update(ctx context.Context, a *Appointment) error
	SetActiveToken(ctx context.Context, id uuid.UUID, tokenID *uuid.UUID) error
	ListByCrew(ctx context.Context, crewID string, f Filter, limit, offset int) ([]*Appointment, int, error)
	ListByDepartment(ctx context.Context, departmentID uuid.UUID, f Filter, limit, offset int) ([]*Appointment, int, error)
	// CountBySlot returns non-cancelled appointment counts per "HH:MM" slot
	// start for one department day.
	CountBySlot(ctx context.Context, departmentID uuid.UUID, date time.Time) (map[string]int, error)
	// CountByDateRange returns non-cancelled appointment counts keyed by
	// "YYYY-MM-DD" date and then "HH:MM" slot start.
	CountByDateRange(ctx context.Context, departmentID uuid.UUID, from, to time.Time) (map[string]map[string]int, error)
	// GetDayScheduleForUpdate reads the department's schedule row for a date
	// and locks it, serializing concurrent bookings for that day.
	GetDayScheduleForUpdate(ctx context.Context, departmentID uuid.UUID, date time.Time) (*department.DaySchedule, error)
}

// TxRunner runs a function inside a database transaction carried on the
// context.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}
