package guard

import (
	"context"
	"errors"

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

type tokenRepoPG struct{ pool *pgxpool.Pool }

func NewTokenRepoPG(pool *pgxpool.Pool) TokenRepository {
	return &tokenRepoPG{pool: pool}
}

func (r *tokenRepoPG) conn(ctx context.Context) queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

func (r *tokenRepoPG) Create(ctx context.Context, t *QrToken) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO qr_token (id, appointment_id, version, issued_at, expires_at)
		VALUES ($1,$2,$3,$4,$5)`,
		t.ID, t.AppointmentID, t.Version, t.IssuedAt, t.ExpiresAt)
	return err
}

func (r *tokenRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*QrToken, error) {
	row := r.conn(ctx).QueryRow(ctx, `
		SELECT id, appointment_id, version, issued_at, expires_at
		FROM qr_token WHERE id = $1`, id)

	var t QrToken
	err := row.Scan(&t.ID, &t.AppointmentID, &t.Version, &t.IssuedAt, &t.ExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *tokenRepoPG) LatestVersion(ctx context.Context, appointmentID uuid.UUID) (int, error) {
	var version int
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT COALESCE(MAX(version), 0) FROM qr_token WHERE appointment_id = $1`,
		appointmentID).Scan(&version)
	return version, err
}
