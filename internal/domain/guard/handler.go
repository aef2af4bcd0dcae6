package guard

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/crewport/crewport/internal/domain/booking"
	"github.com/crewport/crewport/internal/platform/auth"
	"github.com/crewport/crewport/pkg/apierror"
)

type Handler struct {
	svc          *Service
	appointments AppointmentStore
}

func NewHandler(svc *Service, appointments AppointmentStore) *Handler {
	return &Handler{svc: svc, appointments: appointments}
}

// RegisterRoutes wires the crew-facing issue endpoint onto the API group and
// the verify endpoint onto the gate group.
func (h *Handler) RegisterRoutes(api *echo.Group, gate *echo.Group) {
	api.POST("/appointments/:id/qr", h.IssueToken)
	gate.GET("/verify", h.Verify, auth.RequireRole("guard"))
}

func (h *Handler) IssueToken(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apierror.JSON(c, http.StatusBadRequest, apierror.KindValidation, "invalid id")
	}

	ctx := c.Request().Context()
	appt, err := h.appointments.GetByID(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	if !auth.HasRole(ctx, "staff") && appt.CrewID != auth.UserIDFromContext(ctx) {
		return apierror.JSON(c, http.StatusForbidden, apierror.KindForbidden, "not your appointment")
	}

	issued, err := h.svc.Issue(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, issued)
}

func (h *Handler) Verify(c echo.Context) error {
	raw := c.QueryParam("token")
	if raw == "" {
		return apierror.JSON(c, http.StatusBadRequest, apierror.KindValidation, "token is required")
	}

	result, err := h.svc.Verify(c.Request().Context(), raw)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

func writeError(c echo.Context, err error) error {
	var (
		vErr   *booking.ValidationError
		stErr  *booking.StateError
		invErr *InvalidTokenError
		expErr *ExpiredTokenError
	)
	switch {
	case errors.As(err, &expErr):
		return apierror.JSON(c, http.StatusUnauthorized, apierror.KindExpiredToken, expErr.Error())
	case errors.As(err, &invErr):
		return apierror.JSON(c, http.StatusUnauthorized, apierror.KindInvalidToken, invErr.Error())
	case errors.As(err, &vErr):
		return apierror.JSON(c, http.StatusBadRequest, apierror.KindValidation, vErr.Error())
	case errors.As(err, &stErr):
		return apierror.JSON(c, http.StatusConflict, apierror.KindInvalidState, stErr.Error())
	case errors.Is(err, booking.ErrNotFound):
		return apierror.JSON(c, http.StatusNotFound, apierror.KindNotFound, "appointment not found")
	default:
		return apierror.JSON(c, http.StatusInternalServerError, apierror.KindInternal, "request failed")
	}
}
