package booking

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/crewport/crewport/internal/platform/auth"
	"github.com/crewport/crewport/pkg/apierror"
	"github.com/crewport/crewport/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/departments/:id/calendar", h.MonthCalendar)
	api.GET("/departments/:id/slots", h.DaySlots)

	api.POST("/appointments", h.CreateAppointment)
	api.GET("/appointments", h.ListAppointments)
	api.GET("/appointments/:id", h.GetAppointment)
	api.POST("/appointments/:id/cancel", h.CancelAppointment)

	staffGroup := api.Group("", auth.RequireRole("staff"))
	staffGroup.POST("/appointments/:id/confirm", h.ConfirmAppointment)
}

// -- Calendar --

func (h *Handler) MonthCalendar(c echo.Context) error {
	deptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apierror.JSON(c, http.StatusBadRequest, apierror.KindValidation, "invalid department id")
	}
	month := c.QueryParam("month")
	if month == "" {
		month = time.Now().Format("2006-01")
	}

	view, err := h.svc.MonthView(c.Request().Context(), deptID, month)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *Handler) DaySlots(c echo.Context) error {
	deptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apierror.JSON(c, http.StatusBadRequest, apierror.KindValidation, "invalid department id")
	}
	date, err := time.Parse(time.DateOnly, c.QueryParam("date"))
	if err != nil {
		return apierror.JSON(c, http.StatusBadRequest, apierror.KindValidation, "invalid date: want YYYY-MM-DD")
	}

	slots, err := h.svc.DaySlots(c.Request().Context(), deptID, date)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"date":  date.Format(time.DateOnly),
		"slots": slots,
	})
}

// -- Appointments --

type createAppointmentRequest struct {
	CrewID          string `json:"crew_id"`
	DepartmentID    string `json:"department_id"`
	AppointmentType string `json:"appointment_type"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	Purpose         string `json:"purpose"`
}

func (h *Handler) CreateAppointment(c echo.Context) error {
	var req createAppointmentRequest
	if err := c.Bind(&req); err != nil {
		return apierror.JSON(c, http.StatusBadRequest, apierror.KindValidation, err.Error())
	}
	deptID, err := uuid.Parse(req.DepartmentID)
	if err != nil {
		return apierror.JSON(c, http.StatusBadRequest, apierror.KindValidation, "invalid department_id")
	}
	date, err := time.Parse(time.DateOnly, req.Date)
	if err != nil {
		return apierror.JSON(c, http.StatusBadRequest, apierror.KindValidation, "invalid date: want YYYY-MM-DD")
	}

	ctx := c.Request().Context()
	crewID := req.CrewID
	if crewID == "" || !auth.HasRole(ctx, "staff") {
		// Crew members can only book for themselves.
		crewID = auth.UserIDFromContext(ctx)
	}

	appt, err := h.svc.Create(ctx, CreateRequest{
		CrewID:          crewID,
		DepartmentID:    deptID,
		AppointmentType: req.AppointmentType,
		Date:            date,
		Time:            req.Time,
		Purpose:         req.Purpose,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, appt)
}

func (h *Handler) GetAppointment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apierror.JSON(c, http.StatusBadRequest, apierror.KindValidation, "invalid id")
	}
	appt, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	if !canAccess(c, appt) {
		return apierror.JSON(c, http.StatusForbidden, apierror.KindForbidden, "not your appointment")
	}
	return c.JSON(http.StatusOK, appt)
}

func (h *Handler) ListAppointments(c echo.Context) error {
	ctx := c.Request().Context()
	pg := pagination.FromContext(c)

	f := Filter{Status: c.QueryParam("status")}
	if s := c.QueryParam("date"); s != "" {
		date, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return apierror.JSON(c, http.StatusBadRequest, apierror.KindValidation, "invalid date: want YYYY-MM-DD")
		}
		f.Date = &date
	}

	if s := c.QueryParam("department_id"); s != "" {
		if !auth.HasRole(ctx, "staff") {
			return apierror.JSON(c, http.StatusForbidden, apierror.KindForbidden, "department listing requires staff role")
		}
		deptID, err := uuid.Parse(s)
		if err != nil {
			return apierror.JSON(c, http.StatusBadRequest, apierror.KindValidation, "invalid department_id")
		}
		items, total, err := h.svc.ListByDepartment(ctx, deptID, f, pg.Limit, pg.Offset)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
	}

	crewID := auth.UserIDFromContext(ctx)
	if s := c.QueryParam("crew_id"); s != "" && auth.HasRole(ctx, "staff") {
		crewID = s
	}
	items, total, err := h.svc.ListByCrew(ctx, crewID, f, pg.Limit, pg.Offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) ConfirmAppointment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apierror.JSON(c, http.StatusBadRequest, apierror.KindValidation, "invalid id")
	}
	appt, err := h.svc.Confirm(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, appt)
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

func (h *Handler) CancelAppointment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apierror.JSON(c, http.StatusBadRequest, apierror.KindValidation, "invalid id")
	}
	var req cancelRequest
	if err := c.Bind(&req); err != nil {
		return apierror.JSON(c, http.StatusBadRequest, apierror.KindValidation, err.Error())
	}

	ctx := c.Request().Context()
	existing, err := h.svc.Get(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	if !canAccess(c, existing) {
		return apierror.JSON(c, http.StatusForbidden, apierror.KindForbidden, "not your appointment")
	}

	appt, err := h.svc.Cancel(ctx, id, auth.UserIDFromContext(ctx), req.Reason)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, appt)
}

// canAccess reports whether the caller may read or act on the appointment:
// staff and admin always, crew only on their own bookings.
func canAccess(c echo.Context, appt *Appointment) bool {
	ctx := c.Request().Context()
	if auth.HasRole(ctx, "staff") {
		return true
	}
	return appt.CrewID == auth.UserIDFromContext(ctx)
}

// writeError maps domain errors to wire responses.
func writeError(c echo.Context, err error) error {
	var (
		vErr   *ValidationError
		capErr *CapacityError
		stErr  *StateError
	)
	switch {
	case errors.As(err, &vErr):
		return apierror.JSON(c, http.StatusBadRequest, apierror.KindValidation, vErr.Error())
	case errors.As(err, &capErr):
		return apierror.JSON(c, http.StatusConflict, apierror.KindCapacityExceeded, capErr.Error())
	case errors.As(err, &stErr):
		return apierror.JSON(c, http.StatusConflict, apierror.KindInvalidState, stErr.Error())
	case errors.Is(err, ErrNotFound):
		return apierror.JSON(c, http.StatusNotFound, apierror.KindNotFound, "appointment not found")
	default:
		return apierror.JSON(c, http.StatusInternalServerError, apierror.KindInternal, "request failed")
	}
}
