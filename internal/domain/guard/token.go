package guard

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenClaims is the signed payload inside a gate pass. The registered ID
// claim carries the token row id; apt and ver tie the pass to one appointment
// and one issuance.
type TokenClaims struct {
	jwt.RegisteredClaims
	AppointmentID string `json:"apt"`
	Version       int    `json:"ver"`
}

// Signer signs and parses gate passes with a symmetric key separate from the
// API auth key. The clock is a field so expiry checks can be pinned in tests.
type Signer struct {
	key []byte
	now func() time.Time
}

func NewSigner(key []byte) *Signer {
	return &Signer{key: key, now: time.Now}
}

func (s *Signer) Sign(tokenID, appointmentID uuid.UUID, version int, issuedAt, expiresAt time.Time) (string, error) {
	claims := TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID.String(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		AppointmentID: appointmentID.String(),
		Version:       version,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
}

// Parse validates the signature and expiry. Expiry comes back as
// ExpiredTokenError; every other failure is InvalidTokenError.
func (s *Signer) Parse(raw string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return s.key, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			e := &ExpiredTokenError{}
			if claims.ExpiresAt != nil {
				e.ExpiredAt = claims.ExpiresAt.Time
			}
			return nil, e
		}
		return nil, &InvalidTokenError{Reason: err.Error()}
	}
	if !token.Valid {
		return nil, &InvalidTokenError{Reason: "token rejected"}
	}
	if claims.ID == "" || claims.AppointmentID == "" {
		return nil, &InvalidTokenError{Reason: "missing claims"}
	}
	return claims, nil
}
