package booking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/crewport/crewport/internal/domain/department"
)

type Service struct {
	appointments AppointmentRepository
	schedules    department.ScheduleRepository
	tx           TxRunner
	now          func() time.Time
}

func NewService(appointments AppointmentRepository, schedules department.ScheduleRepository, tx TxRunner) *Service {
	return &Service{
		appointments: appointments,
		schedules:    schedules,
		tx:           tx,
		now:          time.Now,
	}
}

// -- Calendar --

// MonthView builds the month calendar for a department. Days without a
// schedule classify as no_schedule; scheduled days classify from the sum of
// per-slot remaining capacity.
func (s *Service) MonthView(ctx context.Context, departmentID uuid.UUID, month string) (*MonthView, error) {
	first, err := ParseMonth(month)
	if err != nil {
		return nil, invalidf("month", "%v", err)
	}
	days := DaysInMonth(first.Year(), first.Month())
	last := time.Date(first.Year(), first.Month(), days, 0, 0, 0, 0, time.UTC)

	scheds, err := s.schedules.ListByDepartmentRange(ctx, departmentID, first, last)
	if err != nil {
		return nil, err
	}
	counts, err := s.appointments.CountByDateRange(ctx, departmentID, first, last)
	if err != nil {
		return nil, err
	}

	byDate := make(map[string]*department.DaySchedule, len(scheds))
	for _, sched := range scheds {
		byDate[sched.Date.Format(time.DateOnly)] = sched
	}

	view := &MonthView{
		Month:         month,
		LeadingBlanks: LeadingBlanks(first.Year(), first.Month()),
		Days:          make([]DayCell, 0, days),
	}
	for day := 1; day <= days; day++ {
		date := time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC).Format(time.DateOnly)
		cell := DayCell{Date: date}

		if sched, ok := byDate[date]; ok {
			total, available, err := DayTotals(sched, counts[date])
			if err != nil {
				return nil, err
			}
			cell.TotalSlots = total
			cell.AvailableSlots = available
			cell.Status = ClassifyDay(true, total, available)
		} else {
			cell.Status = ClassifyDay(false, 0, 0)
		}
		view.Days = append(view.Days, cell)
	}
	return view, nil
}

// DaySlots returns the bookable slot grid for one department day. Past dates
// and days without a schedule yield an empty grid.
func (s *Service) DaySlots(ctx context.Context, departmentID uuid.UUID, date time.Time) ([]TimeSlot, error) {
	// Dates are stored as UTC midnights; the clock is normalized to match so
	// the past-date cutoff does not drift with the server zone.
	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if date.Before(today) {
		return []TimeSlot{}, nil
	}

	sched, err := s.schedules.GetByDepartmentDate(ctx, departmentID, date)
	if err != nil {
		if errors.Is(err, department.ErrNotFound) {
			return []TimeSlot{}, nil
		}
		return nil, err
	}

	counts, err := s.appointments.CountBySlot(ctx, departmentID, date)
	if err != nil {
		return nil, err
	}
	return BuildSlots(sched, counts, now)
}

// -- Booking state machine --

// CreateRequest carries everything needed to book a slot.
type CreateRequest struct {
	CrewID          string
	DepartmentID    uuid.UUID
	AppointmentType string
	Date            time.Time
	Time            string
	Purpose         string
}

// Create books a pending appointment. The capacity check and insert run
// inside one transaction that locks the day's schedule row, so concurrent
// bookings for the same department day are serialized and capacity can never
// go negative.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Appointment, error) {
	if req.CrewID == "" {
		return nil, invalidf("crew_id", "is required")
	}
	if req.DepartmentID == uuid.Nil {
		return nil, invalidf("department_id", "is required")
	}
	if req.Purpose == "" {
		return nil, invalidf("purpose", "is required")
	}
	if req.AppointmentType == "" {
		req.AppointmentType = "general"
	}
	if _, err := parseClock(req.Time); err != nil {
		return nil, invalidf("time", "%v", err)
	}

	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if req.Date.Before(today) {
		return nil, invalidf("date", "is in the past")
	}

	var appt *Appointment
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		sched, err := s.appointments.GetDayScheduleForUpdate(ctx, req.DepartmentID, req.Date)
		if err != nil {
			if errors.Is(err, department.ErrNotFound) {
				return invalidf("date", "department has no schedule on %s", req.Date.Format(time.DateOnly))
			}
			return err
		}

		starts, err := SlotStarts(sched.OpeningTime, sched.ClosingTime, sched.SlotDurationMinutes)
		if err != nil {
			return err
		}
		if !contains(starts, req.Time) {
			return invalidf("time", "%s is not a slot on this schedule", req.Time)
		}

		sameDay := req.Date.Year() == now.Year() && req.Date.YearDay() == now.YearDay()
		if sameDay {
			startM, _ := parseClock(req.Time)
			if startM <= now.Hour()*60+now.Minute() {
				return invalidf("time", "slot %s has already started", req.Time)
			}
		}

		counts, err := s.appointments.CountBySlot(ctx, req.DepartmentID, req.Date)
		if err != nil {
			return err
		}
		if counts[req.Time] >= sched.SlotCapacity {
			return &CapacityError{Date: req.Date.Format(time.DateOnly), Time: req.Time}
		}

		appt = &Appointment{
			CrewID:          req.CrewID,
			DepartmentID:    req.DepartmentID,
			AppointmentType: req.AppointmentType,
			Date:            req.Date,
			Time:            req.Time,
			Purpose:         req.Purpose,
			Status:          StatusPending,
		}
		return s.appointments.Create(ctx, appt)
	})
	if err != nil {
		return nil, err
	}
	return appt, nil
}

// Confirm moves a pending appointment to confirmed.
func (s *Service) Confirm(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	var appt *Appointment
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		a, err := s.appointments.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if a.Status != StatusPending {
			return &StateError{Current: a.Status, Action: "confirm"}
		}
		a.Status = StatusConfirmed
		if err := s.appointments.Update(ctx, a); err != nil {
			return err
		}
		appt = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return appt, nil
}

// Cancel terminates a pending or confirmed appointment. Cancellation frees
// the slot's capacity and invalidates any issued gate token by clearing the
// appointment's active token reference.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID, actor, reason string) (*Appointment, error) {
	if reason == "" {
		return nil, invalidf("reason", "is required")
	}

	var appt *Appointment
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		a, err := s.appointments.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if a.Status == StatusCancelled {
			return &StateError{Current: a.Status, Action: "cancel"}
		}

		now := s.now()
		a.Status = StatusCancelled
		a.CancellationReason = &reason
		a.CancelledAt = &now
		a.CancelledBy = &actor
		a.ActiveTokenID = nil
		if err := s.appointments.Update(ctx, a); err != nil {
			return err
		}
		appt = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return appt, nil
}

// -- Reads --

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.appointments.GetByID(ctx, id)
}

func (s *Service) ListByCrew(ctx context.Context, crewID string, f Filter, limit, offset int) ([]*Appointment, int, error) {
	return s.appointments.ListByCrew(ctx, crewID, f, limit, offset)
}

func (s *Service) ListByDepartment(ctx context.Context, departmentID uuid.UUID, f Filter, limit, offset int) ([]*Appointment, int, error) {
	return s.appointments.ListByDepartment(ctx, departmentID, f, limit, offset)
}

func contains(items []string, v string) bool {
	for _, item := range items {
		if item == v {
			return true
		}
	}
	return false
}
