package department

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type DepartmentRepository interface {
	Create(ctx context.Context, d *Department) error
	GetByID(ctx context.Context, id uuid.UUID) (*Department, error)
	Update(ctx context.Context, d *Department) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, activeOnly bool, limit, offset int) ([]*Department, int, error)
}

type ScheduleRepository interface {
	Create(ctx context.Context, s *DaySchedule) error
	GetByID(ctx context.Context, id uuid.UUID) (*DaySchedule, error)
	GetByDepartmentDate(ctx context.Context, departmentID uuid.UUID, date time.Time) (*DaySchedule, error)
	Update(ctx context.Context, s *DaySchedule) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByDepartmentRange(ctx context.Context, departmentID uuid.UUID, from, to time.Time) ([]*DaySchedule, error)
}
