package apierror

import (
	"github.com/labstack/echo/v4"
)

// Error kinds carried in API error responses. Clients branch on the kind,
// not on the message text.
const (
	KindValidation       = "validation"
	KindCapacityExceeded = "capacity_exceeded"
	KindInvalidState     = "invalid_state"
	KindNotFound         = "not_found"
	KindInvalidToken     = "invalid_token"
	KindExpiredToken     = "expired_token"
	KindForbidden        = "forbidden"
	KindInternal         = "internal"
)

type body struct {
	Error detail `json:"error"`
}

type detail struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// JSON writes a structured error response with the given status and kind.
func JSON(c echo.Context, status int, kind, message string) error {
	return c.JSON(status, body{Error: detail{Kind: kind, Message: message}})
}
