package department

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
	api.GET("/departments", h.ListDepartments)
	api.GET("/departments/:id", h.GetDepartment)

	adminGroup := api.Group("", auth.RequireRole("admin"))
	adminGroup.POST("/departments", h.CreateDepartment)
	adminGroup.PUT("/departments/:id", h.UpdateDepartment)
	adminGroup.DELETE("/departments/:id", h.DeleteDepartment)

	staffGroup := api.Group("", auth.RequireRole("staff"))
	staffGroup.GET("/departments/:id/schedules", h.ListSchedules)
	staffGroup.POST("/departments/:id/schedules", h.CreateSchedule)
	staffGroup.PUT("/schedules/:id", h.UpdateSchedule)
	staffGroup.DELETE("/schedules/:id", h.DeleteSchedule)
}

// -- Department handlers --

func (h *Handler) CreateDepartment(c echo.Context) error {
	var d Department
	if err := c.Bind(&d); err != nil {
		return apierror.JSON(c, http.StatusBadRequest, apierror.KindValidation, err.Error())
	}
	d.Active = true
	if err := h.svc.CreateDepartment(c.Request().Context(), &d); err != nil {
		return apierror.JSON(c, http.StatusBadRequest, apierror.KindValidation, err.Error())
	}
	return c.JSON(http.StatusCreated, d)
}

func (h *Handler) GetDepartment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apierror.JSON(c, http.StatusBadRequest, apierror.KindValidation, "invalid id")
	}
	d, err := h.svc.GetDepartment(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return apierror.JSON(c, http.StatusNotFound, apierror.KindNotFound, "department not found")
		}
		return apierror.JSON(c, http.StatusInternalServerError, apierror.KindInternal, "lookup failed")
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) ListDepartments(c echo.Context) error {
	pg := pagination.FromContext(c)
	activeOnly := c.QueryParam("all") == ""
	items, total, err := h.svc.ListDepartments(c.Request().Context(), activeOnly, pg.Limit, pg.Offset)
	if err != nil {
		return apierror.JSON(c, http.StatusInternalServerError, apierror.KindInternal, "list failed")
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) UpdateDepartment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apierror.JSON(c, http.StatusBadRequest, apierror.KindValidation, "invalid id")
	}
	var d Department
	if err := c.Bind(&d); err != nil {
		return apierror.JSON(c, http.StatusBadRequest, apierror.KindValidation, err.Error())
	}
	d.ID = id
	if err := h.svc.UpdateDepartment(c.Request().Context(), &d); err != nil {
		return apierror.JSON(c, http.StatusBadRequest, apierror.KindValidation, err.Error())
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) DeleteDepartment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apierror.JSON(c, http.StatusBadRequest, apierror.KindValidation, "invalid id")
	}
	if err := h.svc.DeleteDepartment(c.Request().Context(), id); err != nil {
		return apierror.JSON(c, http.StatusInternalServerError, apierror.KindInternal, "delete failed")
	}
	return c.NoContent(http.StatusNoContent)
}

// -- Schedule handlers --

type scheduleRequest struct {
	Date                string `json:"date"`
	OpeningTime         string `json:"opening_time"`
	ClosingTime         string `json:"closing_time"`
	SlotDurationMinutes int    `json:"slot_duration_minutes"`
	SlotCapacity        int    `json:"slot_capacity"`
}

func (h *Handler) CreateSchedule(c echo.Context) error {
	deptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apierror.JSON(c, http.StatusBadRequest, apierror.KindValidation, "invalid department id")
	}
	var req scheduleRequest
	if err := c.Bind(&req); err != nil {
		return apierror.JSON(c, http.StatusBadRequest, apierror.KindValidation, err.Error())
	}
	date, err := time.Parse(time.DateOnly, req.Date)
	if err != nil {
		return apierror.JSON(c, http.StatusBadRequest, apierror.KindValidation, "invalid date: want YYYY-MM-DD")
	}

	sched := &DaySchedule{
		DepartmentID:        deptID,
		Date:                date,
		OpeningTime:         req.OpeningTime,
		ClosingTime:         req.ClosingTime,
		SlotDurationMinutes: req.SlotDurationMinutes,
		SlotCapacity:        req.SlotCapacity,
	}
	if err := h.svc.CreateSchedule(c.Request().Context(), sched); err != nil {
		switch {
		case errors.Is(err, ErrDuplicateSchedule):
			return apierror.JSON(c, http.StatusConflict, apierror.KindInvalidState, err.Error())
		case errors.Is(err, ErrNotFound):
			return apierror.JSON(c, http.StatusNotFound, apierror.KindNotFound, "department not found")
		default:
			return apierror.JSON(c, http.StatusBadRequest, apierror.KindValidation, err.Error())
		}
	}
	return c.JSON(http.StatusCreated, sched)
}

func (h *Handler) ListSchedules(c echo.Context) error {
	deptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apierror.JSON(c, http.StatusBadRequest, apierror.KindValidation, "invalid department id")
	}

	from, err := parseDateParam(c.QueryParam("from"), time.Now().AddDate(0, 0, -7))
	if err != nil {
		return apierror.JSON(c, http.StatusBadRequest, apierror.KindValidation, "invalid from date")
	}
	to, err := parseDateParam(c.QueryParam("to"), time.Now().AddDate(0, 1, 0))
	if err != nil {
		return apierror.JSON(c, http.StatusBadRequest, apierror.KindValidation, "invalid to date")
	}

	items, err := h.svc.ListSchedules(c.Request().Context(), deptID, from, to)
	if err != nil {
		return apierror.JSON(c, http.StatusInternalServerError, apierror.KindInternal, "list failed")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"data": items})
}

func (h *Handler) UpdateSchedule(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apierror.JSON(c, http.StatusBadRequest, apierror.KindValidation, "invalid id")
	}
	existing, err := h.svc.GetSchedule(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return apierror.JSON(c, http.StatusNotFound, apierror.KindNotFound, "schedule not found")
		}
		return apierror.JSON(c, http.StatusInternalServerError, apierror.KindInternal, "lookup failed")
	}

	var req scheduleRequest
	if err := c.Bind(&req); err != nil {
		return apierror.JSON(c, http.StatusBadRequest, apierror.KindValidation, err.Error())
	}
	existing.OpeningTime = req.OpeningTime
	existing.ClosingTime = req.ClosingTime
	existing.SlotDurationMinutes = req.SlotDurationMinutes
	existing.SlotCapacity = req.SlotCapacity

	if err := h.svc.UpdateSchedule(c.Request().Context(), existing); err != nil {
		return apierror.JSON(c, http.StatusBadRequest, apierror.KindValidation, err.Error())
	}
	return c.JSON(http.StatusOK, existing)
}

func (h *Handler) DeleteSchedule(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apierror.JSON(c, http.StatusBadRequest, apierror.KindValidation, "invalid id")
	}
	if err := h.svc.DeleteSchedule(c.Request().Context(), id); err != nil {
		return apierror.JSON(c, http.StatusInternalServerError, apierror.KindInternal, "delete failed")
	}
	return c.NoContent(http.StatusNoContent)
}

func parseDateParam(s string, fallback time.Time) (time.Time, error) {
	if s == "" {
		return fallback, nil
	}
	return time.Parse(time.DateOnly, s)
}
