package guard

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/crewport/crewport/internal/domain/booking"
	"github.com/crewport/crewport/internal/domain/department"
)

// Config carries the issuance policy.
type Config struct {
	TokenTTL      time.Duration
	VerifyBaseURL string
}

type Service struct {
	tokens       TokenRepository
	appointments AppointmentStore
	departments  DepartmentStore
	tx           booking.TxRunner
	signer       *Signer
	cfg          Config
	now          func() time.Time
}

func NewService(tokens TokenRepository, appointments AppointmentStore, departments DepartmentStore, tx booking.TxRunner, signer *Signer, cfg Config) *Service {
	return &Service{
		tokens:       tokens,
		appointments: appointments,
		departments:  departments,
		tx:           tx,
		signer:       signer,
		cfg:          cfg,
		now:          time.Now,
	}
}

// Issue creates a fresh gate pass for a confirmed appointment. Issuing again
// bumps the version and supersedes any earlier pass: the appointment row only
// ever points at the newest token, and verification checks that pointer.
func (s *Service) Issue(ctx context.Context, appointmentID uuid.UUID) (*IssuedToken, error) {
	var issued *IssuedToken
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		a, err := s.appointments.GetByIDForUpdate(ctx, appointmentID)
		if err != nil {
			return err
		}
		if a.Status != booking.StatusConfirmed {
			return &booking.StateError{Current: a.Status, Action: "issue a pass for"}
		}

		// Appointment dates are UTC midnights; normalize the clock to match.
		now := s.now().UTC()
		endOfDay := a.Date.AddDate(0, 0, 1)
		if slotStart, perr := time.Parse("15:04", a.Time); perr == nil {
			start := time.Date(a.Date.Year(), a.Date.Month(), a.Date.Day(),
				slotStart.Hour(), slotStart.Minute(), 0, 0, time.UTC)
			if now.After(start) {
				return &booking.ValidationError{Field: "appointment", Reason: "slot time has already passed"}
			}
		}

		latest, err := s.tokens.LatestVersion(ctx, a.ID)
		if err != nil {
			return err
		}

		// A pass never outlives the appointment day.
		expires := now.Add(s.cfg.TokenTTL)
		if expires.After(endOfDay) {
			expires = endOfDay
		}

		tok := &QrToken{
			ID:            uuid.New(),
			AppointmentID: a.ID,
			Version:       latest + 1,
			IssuedAt:      now,
			ExpiresAt:     expires,
		}
		if err := s.tokens.Create(ctx, tok); err != nil {
			return err
		}
		if err := s.appointments.SetActiveToken(ctx, a.ID, &tok.ID); err != nil {
			return err
		}

		signed, err := s.signer.Sign(tok.ID, a.ID, tok.Version, tok.IssuedAt, tok.ExpiresAt)
		if err != nil {
			return err
		}
		issued = &IssuedToken{
			TokenID:       tok.ID,
			AppointmentID: a.ID,
			Version:       tok.Version,
			Token:         signed,
			VerifyURL:     s.cfg.VerifyBaseURL + "/guard/verify?token=" + url.QueryEscape(signed),
			ExpiresAt:     tok.ExpiresAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return issued, nil
}

// Verify checks a scanned pass and returns the appointment snapshot shown at
// the gate. The input may be the bare signed token or the full verify URL a
// QR code encodes.
func (s *Service) Verify(ctx context.Context, raw string) (*VerifyResult, error) {
	claims, err := s.signer.Parse(extractToken(raw))
	if err != nil {
		return nil, err
	}

	tokenID, err := uuid.Parse(claims.ID)
	if err != nil {
		return nil, &InvalidTokenError{Reason: "malformed token id"}
	}
	appointmentID, err := uuid.Parse(claims.AppointmentID)
	if err != nil {
		return nil, &InvalidTokenError{Reason: "malformed appointment id"}
	}

	tok, err := s.tokens.GetByID(ctx, tokenID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, &InvalidTokenError{Reason: "unknown token"}
		}
		return nil, err
	}
	if tok.Version != claims.Version {
		return nil, &InvalidTokenError{Reason: "version mismatch"}
	}

	a, err := s.appointments.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, booking.ErrNotFound) {
			return nil, &InvalidTokenError{Reason: "appointment not found"}
		}
		return nil, err
	}
	if a.Status != booking.StatusConfirmed {
		return nil, &InvalidTokenError{Reason: "appointment is " + a.Status}
	}
	if a.ActiveTokenID == nil || *a.ActiveTokenID != tok.ID {
		return nil, &InvalidTokenError{Reason: "superseded by a newer pass"}
	}

	result := &VerifyResult{
		Valid:           true,
		AppointmentID:   a.ID,
		CrewID:          a.CrewID,
		DepartmentID:    a.DepartmentID,
		AppointmentType: a.AppointmentType,
		Date:            a.Date.Format(time.DateOnly),
		Time:            a.Time,
		Purpose:         a.Purpose,
		Status:          a.Status,
		TokenIssuedAt:   tok.IssuedAt,
		TokenExpiresAt:  tok.ExpiresAt,
	}
	if dept, err := s.departments.GetByID(ctx, a.DepartmentID); err == nil {
		result.DepartmentName = dept.Name
	} else if !errors.Is(err, department.ErrNotFound) {
		return nil, err
	}
	return result, nil
}

// extractToken accepts either a raw signed token or a verify URL carrying it
// in the token query parameter.
func extractToken(raw string) string {
	if !strings.Contains(raw, "token=") {
		return raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if tok := u.Query().Get("token"); tok != "" {
		return tok
	}
	return raw
}
