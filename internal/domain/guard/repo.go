package guard

import (
	"context"

	"github.com/google/uuid"

	"github.com/crewport/crewport/internal/domain/booking"
	"github.com/crewport/crewport/internal/domain/department"
)

type TokenRepository interface {
	Create(ctx context.Context, t *QrToken) error
	GetByID(ctx context.Context, id uuid.UUID) (*QrToken, error)
	// LatestVersion returns the highest version issued for the appointment,
	// or zero when none exist.
	LatestVersion(ctx context.Context, appointmentID uuid.UUID) (int, error)
}

// AppointmentStore is the slice of the booking repository the guard flow
// needs.
type AppointmentStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*booking.Appointment, error)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*booking.Appointment, error)
	SetActiveToken(ctx context.Context, id uuid.UUID, tokenID *uuid.UUID) error
}

type DepartmentStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*department.Department, error)
}
