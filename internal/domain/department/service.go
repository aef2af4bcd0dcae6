package department

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	departments DepartmentRepository
	schedules   ScheduleRepository
}

func NewService(departments DepartmentRepository, schedules ScheduleRepository) *Service {
	return &Service{departments: departments, schedules: schedules}
}

// -- Department --

func (s *Service) CreateDepartment(ctx context.Context, d *Department) error {
	if d.Name == "" {
		return fmt.Errorf("name is required")
	}
	if d.Category == "" {
		d.Category = "general"
	}
	return s.departments.Create(ctx, d)
}

func (s *Service) GetDepartment(ctx context.Context, id uuid.UUID) (*Department, error) {
	return s.departments.GetByID(ctx, id)
}

func (s *Service) UpdateDepartment(ctx context.Context, d *Department) error {
	if d.Name == "" {
		return fmt.Errorf("name is required")
	}
	return s.departments.Update(ctx, d)
}

func (s *Service) DeleteDepartment(ctx context.Context, id uuid.UUID) error {
	return s.departments.Delete(ctx, id)
}

func (s *Service) ListDepartments(ctx context.Context, activeOnly bool, limit, offset int) ([]*Department, int, error) {
	return s.departments.List(ctx, activeOnly, limit, offset)
}

// -- Day schedules --

// ValidateWindow rejects malformed booking templates before they ever reach
// the slot grid: the window must be ordered, the duration positive, and the
// duration must divide the window evenly.
func ValidateWindow(opening, closing string, durationMinutes, capacity int) error {
	open, err := time.Parse("15:04", opening)
	if err != nil {
		return fmt.Errorf("invalid opening_time %q: want HH:MM", opening)
	}
	closeT, err := time.Parse("15:04", closing)
	if err != nil {
		return fmt.Errorf("invalid closing_time %q: want HH:MM", closing)
	}
	if !closeT.After(open) {
		return fmt.Errorf("closing_time must be after opening_time")
	}
	if durationMinutes <= 0 {
		return fmt.Errorf("slot_duration_minutes must be positive")
	}
	window := int(closeT.Sub(open).Minutes())
	if window%durationMinutes != 0 {
		return fmt.Errorf("slot_duration_minutes %d does not divide the %d minute window", durationMinutes, window)
	}
	if capacity <= 0 {
		return fmt.Errorf("slot_capacity must be positive")
	}
	return nil
}

func (s *Service) CreateSchedule(ctx context.Context, sched *DaySchedule) error {
	if sched.DepartmentID == uuid.Nil {
		return fmt.Errorf("department_id is required")
	}
	if sched.Date.IsZero() {
		return fmt.Errorf("date is required")
	}
	if _, err := s.departments.GetByID(ctx, sched.DepartmentID); err != nil {
		return fmt.Errorf("department %s: %w", sched.DepartmentID, err)
	}
	if err := ValidateWindow(sched.OpeningTime, sched.ClosingTime, sched.SlotDurationMinutes, sched.SlotCapacity); err != nil {
		return err
	}
	return s.schedules.Create(ctx, sched)
}

func (s *Service) GetSchedule(ctx context.Context, id uuid.UUID) (*DaySchedule, error) {
	return s.schedules.GetByID(ctx, id)
}

func (s *Service) UpdateSchedule(ctx context.Context, sched *DaySchedule) error {
	if err := ValidateWindow(sched.OpeningTime, sched.ClosingTime, sched.SlotDurationMinutes, sched.SlotCapacity); err != nil {
		return err
	}
	return s.schedules.Update(ctx, sched)
}

func (s *Service) DeleteSchedule(ctx context.Context, id uuid.UUID) error {
	return s.schedules.Delete(ctx, id)
}

func (s *Service) ListSchedules(ctx context.Context, departmentID uuid.UUID, from, to time.Time) ([]*DaySchedule, error) {
	return s.schedules.ListByDepartmentRange(ctx, departmentID, from, to)
}
