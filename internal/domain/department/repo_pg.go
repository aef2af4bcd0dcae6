package department

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/crewport/crewport/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// =========== Department Repository ===========

type departmentRepoPG struct{ pool *pgxpool.Pool }

func NewDepartmentRepoPG(pool *pgxpool.Pool) DepartmentRepository {
	return &departmentRepoPG{pool: pool}
}

func (r *departmentRepoPG) conn(ctx context.Context) queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const deptCols = `id, name, category, active, created_at, updated_at`

func (r *departmentRepoPG) scanDepartment(row pgx.Row) (*Department, error) {
	var d Department
	err := row.Scan(&d.ID, &d.Name, &d.Category, &d.Active, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &d, err
}

func (r *departmentRepoPG) Create(ctx context.Context, d *Department) error {
	d.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO department (id, name, category, active)
		VALUES ($1,$2,$3,$4)`,
		d.ID, d.Name, d.Category, d.Active)
	return err
}

func (r *departmentRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Department, error) {
	return r.scanDepartment(r.conn(ctx).QueryRow(ctx, `SELECT `+deptCols+` FROM department WHERE id = $1`, id))
}

func (r *departmentRepoPG) Update(ctx context.Context, d *Department) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE department SET name=$2, category=$3, active=$4, updated_at=NOW()
		WHERE id = $1`,
		d.ID, d.Name, d.Category, d.Active)
	return err
}

func (r *departmentRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM department WHERE id = $1`, id)
	return err
}

func (r *departmentRepoPG) List(ctx context.Context, activeOnly bool, limit, offset int) ([]*Department, int, error) {
	where := ``
	if activeOnly {
		where = ` WHERE active`
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM department`+where).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx, `SELECT `+deptCols+` FROM department`+where+` ORDER BY name ASC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Department
	for rows.Next() {
		d, err := r.scanDepartment(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, d)
	}
	return items, total, nil
}

// =========== Schedule Repository ===========

type scheduleRepoPG struct{ pool *pgxpool.Pool }

func NewScheduleRepoPG(pool *pgxpool.Pool) ScheduleRepository {
	return &scheduleRepoPG{pool: pool}
}

func (r *scheduleRepoPG) conn(ctx context.Context) queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const schedCols = `id, department_id, date, opening_time, closing_time,
	slot_duration_minutes, slot_capacity, created_at, updated_at`

func (r *scheduleRepoPG) scanSchedule(row pgx.Row) (*DaySchedule, error) {
	var s DaySchedule
	err := row.Scan(&s.ID, &s.DepartmentID, &s.Date, &s.OpeningTime, &s.ClosingTime,
		&s.SlotDurationMinutes, &s.SlotCapacity, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &s, err
}

func (r *scheduleRepoPG) Create(ctx context.Context, s *DaySchedule) error {
	s.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO day_schedule (id, department_id, date, opening_time, closing_time,
			slot_duration_minutes, slot_capacity)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		s.ID, s.DepartmentID, s.Date, s.OpeningTime, s.ClosingTime,
		s.SlotDurationMinutes, s.SlotCapacity)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicateSchedule
	}
	return err
}

func (r *scheduleRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*DaySchedule, error) {
	return r.scanSchedule(r.conn(ctx).QueryRow(ctx, `SELECT `+schedCols+` FROM day_schedule WHERE id = $1`, id))
}

func (r *scheduleRepoPG) GetByDepartmentDate(ctx context.Context, departmentID uuid.UUID, date time.Time) (*DaySchedule, error) {
	return r.scanSchedule(r.conn(ctx).QueryRow(ctx,
		`SELECT `+schedCols+` FROM day_schedule WHERE department_id = $1 AND date = $2`,
		departmentID, date))
}

func (r *scheduleRepoPG) Update(ctx context.Context, s *DaySchedule) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE day_schedule SET opening_time=$2, closing_time=$3,
			slot_duration_minutes=$4, slot_capacity=$5, updated_at=NOW()
		WHERE id = $1`,
		s.ID, s.OpeningTime, s.ClosingTime, s.SlotDurationMinutes, s.SlotCapacity)
	return err
}

func (r *scheduleRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM day_schedule WHERE id = $1`, id)
	return err
}

func (r *scheduleRepoPG) ListByDepartmentRange(ctx context.Context, departmentID uuid.UUID, from, to time.Time) ([]*DaySchedule, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+schedCols+` FROM day_schedule
		 WHERE department_id = $1 AND date >= $2 AND date <= $3
		 ORDER BY date ASC`,
		departmentID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*DaySchedule
	for rows.Next() {
		s, err := r.scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, nil
}
