package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/crewport/crewport/internal/domain/department"
	"github.com/crewport/crewport/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type appointmentRepoPG struct{ pool *pgxpool.Pool }

func NewAppointmentRepoPG(pool *pgxpool.Pool) AppointmentRepository {
	return &appointmentRepoPG{pool: pool}
}

func (r *appointmentRepoPG) conn(ctx context.Context) queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const apptCols = `id, crew_id, department_id, appointment_type, date, time, purpose, status,
	cancellation_reason, cancelled_at, cancelled_by, active_token_id, created_at, updated_at`

func (r *appointmentRepoPG) scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.CrewID, &a.DepartmentID, &a.AppointmentType, &a.Date, &a.Time,
		&a.Purpose, &a.Status, &a.CancellationReason, &a.CancelledAt, &a.CancelledBy,
		&a.ActiveTokenID, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &a, err
}

func (r *appointmentRepoPG) Create(ctx context.Context, a *Appointment) error {
	a.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO appointment (id, crew_id, department_id, appointment_type, date, time, purpose, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		a.ID, a.CrewID, a.DepartmentID, a.AppointmentType, a.Date, a.Time, a.Purpose, a.Status)
	return err
}

func (r *appointmentRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return r.scanAppointment(r.conn(ctx).QueryRow(ctx, `SELECT `+apptCols+` FROM appointment WHERE id = $1`, id))
}

func (r *appointmentRepoPG) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return r.scanAppointment(r.conn(ctx).QueryRow(ctx, `SELECT `+apptCols+` FROM appointment WHERE id = $1 FOR UPDATE`, id))
}

func (r *appointmentRepoPG) Update(ctx context.Context, a *Appointment) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE appointment SET status=$2, cancellation_reason=$3, cancelled_at=$4,
			cancelled_by=$5, active_token_id=$6, updated_at=NOW()
		WHERE id = $1`,
		a.ID, a.Status, a.CancellationReason, a.CancelledAt, a.CancelledBy, a.ActiveTokenID)
	return err
}

func (r *appointmentRepoPG) SetActiveToken(ctx context.Context, id uuid.UUID, tokenID *uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE appointment SET active_token_id=$2, updated_at=NOW() WHERE id = $1`, id, tokenID)
	return err
}

func (r *appointmentRepoPG) ListByCrew(ctx context.Context, crewID string, f Filter, limit, offset int) ([]*Appointment, int, error) {
	return r.list(ctx, `crew_id = $1`, crewID, f, limit, offset)
}

func (r *appointmentRepoPG) ListByDepartment(ctx context.Context, departmentID uuid.UUID, f Filter, limit, offset int) ([]*Appointment, int, error) {
	return r.list(ctx, `department_id = $1`, departmentID, f, limit, offset)
}

func (r *appointmentRepoPG) list(ctx context.Context, ownerClause string, ownerArg interface{}, f Filter, limit, offset int) ([]*Appointment, int, error) {
	query := `SELECT ` + apptCols + ` FROM appointment WHERE ` + ownerClause
	countQuery := `SELECT COUNT(*) FROM appointment WHERE ` + ownerClause
	args := []interface{}{ownerArg}
	idx := 2

	if f.Status != "" {
		query += fmt.Sprintf(` AND status = $%d`, idx)
		countQuery += fmt.Sprintf(` AND status = $%d`, idx)
		args = append(args, f.Status)
		idx++
	}
	if f.Date != nil {
		query += fmt.Sprintf(` AND date = $%d`, idx)
		countQuery += fmt.Sprintf(` AND date = $%d`, idx)
		args = append(args, *f.Date)
		idx++
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY date DESC, time DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Appointment
	for rows.Next() {
		a, err := r.scanAppointment(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	return items, total, nil
}

func (r *appointmentRepoPG) CountBySlot(ctx context.Context, departmentID uuid.UUID, date time.Time) (map[string]int, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT time, COUNT(*) FROM appointment
		WHERE department_id = $1 AND date = $2 AND status <> $3
		GROUP BY time`,
		departmentID, date, StatusCancelled)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var slot string
		var n int
		if err := rows.Scan(&slot, &n); err != nil {
			return nil, err
		}
		counts[slot] = n
	}
	return counts, rows.Err()
}

func (r *appointmentRepoPG) CountByDateRange(ctx context.Context, departmentID uuid.UUID, from, to time.Time) (map[string]map[string]int, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT date, time, COUNT(*) FROM appointment
		WHERE department_id = $1 AND date >= $2 AND date <= $3 AND status <> $4
		GROUP BY date, time`,
		departmentID, from, to, StatusCancelled)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]map[string]int)
	for rows.Next() {
		var date time.Time
		var slot string
		var n int
		if err := rows.Scan(&date, &slot, &n); err != nil {
			return nil, err
		}
		day := date.Format(time.DateOnly)
		if counts[day] == nil {
			counts[day] = make(map[string]int)
		}
		counts[day][slot] = n
	}
	return counts, rows.Err()
}

func (r *appointmentRepoPG) GetDayScheduleForUpdate(ctx context.Context, departmentID uuid.UUID, date time.Time) (*department.DaySchedule, error) {
	row := r.conn(ctx).QueryRow(ctx, `
		SELECT id, department_id, date, opening_time, closing_time,
			slot_duration_minutes, slot_capacity, created_at, updated_at
		FROM day_schedule
		WHERE department_id = $1 AND date = $2
		FOR UPDATE`,
		departmentID, date)

	var s department.DaySchedule
	err := row.Scan(&s.ID, &s.DepartmentID, &s.Date, &s.OpeningTime, &s.ClosingTime,
		&s.SlotDurationMinutes, &s.SlotCapacity, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, department.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}
