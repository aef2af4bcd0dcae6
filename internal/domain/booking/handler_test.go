package booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/crewport/crewport/internal/platform/auth"
)

func newHandlerFixture(t *testing.T) (*Handler, *Service, uuid.UUID) {
	t.Helper()
	svc, _, deptID := newTestService(t)
	return NewHandler(svc), svc, deptID
}

func authedRequest(method, target, body, userID string, roles []string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	ctx := context.WithValue(req.Context(), auth.UserIDKey, userID)
	ctx = context.WithValue(ctx, auth.UserRolesKey, roles)

	rec := httptest.NewRecorder()
	return e.NewContext(req.WithContext(ctx), rec), rec
}

func decodeErrorKind(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Kind    string `json:"kind"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	return body.Error.Kind
}

func TestMonthCalendarHandler(t *testing.T) {
	h, _, deptID := newHandlerFixture(t)

	c, rec := authedRequest(http.MethodGet, "/api/v1/departments/"+deptID.String()+"/calendar?month=2026-09", "", "crew-1", []string{"crew"})
	c.SetParamNames("id")
	c.SetParamValues(deptID.String())

	if err := h.MonthCalendar(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var view MonthView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(view.Days) != 30 {
		t.Errorf("expected 30 days, got %d", len(view.Days))
	}
}

func TestDaySlotsHandler_BadDate(t *testing.T) {
	h, _, deptID := newHandlerFixture(t)

	c, rec := authedRequest(http.MethodGet, "/api/v1/departments/"+deptID.String()+"/slots?date=tomorrow", "", "crew-1", []string{"crew"})
	c.SetParamNames("id")
	c.SetParamValues(deptID.String())

	if err := h.DaySlots(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if kind := decodeErrorKind(t, rec); kind != "validation" {
		t.Errorf("error kind = %q, want validation", kind)
	}
}

func TestCreateAppointmentHandler(t *testing.T) {
	h, _, deptID := newHandlerFixture(t)

	body := `{"department_id":"` + deptID.String() + `","date":"2026-09-10","time":"09:00","purpose":"medical check"}`
	c, rec := authedRequest(http.MethodPost, "/api/v1/appointments", body, "crew-1", []string{"crew"})

	if err := h.CreateAppointment(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	var appt Appointment
	if err := json.Unmarshal(rec.Body.Bytes(), &appt); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if appt.Status != StatusPending {
		t.Errorf("status = %q, want %q", appt.Status, StatusPending)
	}
	if appt.CrewID != "crew-1" {
		t.Errorf("crew_id = %q, want caller's id", appt.CrewID)
	}
}

func TestCreateAppointmentHandler_IgnoresSpoofedCrewID(t *testing.T) {
	h, _, deptID := newHandlerFixture(t)

	body := `{"crew_id":"someone-else","department_id":"` + deptID.String() + `","date":"2026-09-10","time":"09:00","purpose":"p"}`
	c, rec := authedRequest(http.MethodPost, "/api/v1/appointments", body, "crew-1", []string{"crew"})

	if err := h.CreateAppointment(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var appt Appointment
	if err := json.Unmarshal(rec.Body.Bytes(), &appt); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if appt.CrewID != "crew-1" {
		t.Errorf("crew_id = %q, want caller's id", appt.CrewID)
	}
}

func TestCreateAppointmentHandler_CapacityConflict(t *testing.T) {
	h, svc, deptID := newHandlerFixture(t)

	mustCreate(t, svc, deptID, "crew-1", "09:00")
	mustCreate(t, svc, deptID, "crew-2", "09:00")

	body := `{"department_id":"` + deptID.String() + `","date":"2026-09-10","time":"09:00","purpose":"p"}`
	c, rec := authedRequest(http.MethodPost, "/api/v1/appointments", body, "crew-3", []string{"crew"})

	if err := h.CreateAppointment(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	if kind := decodeErrorKind(t, rec); kind != "capacity_exceeded" {
		t.Errorf("error kind = %q, want capacity_exceeded", kind)
	}
}

func TestGetAppointmentHandler_OtherCrewForbidden(t *testing.T) {
	h, svc, deptID := newHandlerFixture(t)
	appt := mustCreate(t, svc, deptID, "crew-1", "09:00")

	c, rec := authedRequest(http.MethodGet, "/api/v1/appointments/"+appt.ID.String(), "", "crew-2", []string{"crew"})
	c.SetParamNames("id")
	c.SetParamValues(appt.ID.String())

	if err := h.GetAppointment(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	if kind := decodeErrorKind(t, rec); kind != "forbidden" {
		t.Errorf("error kind = %q, want forbidden", kind)
	}
}

func TestGetAppointmentHandler_StaffAllowed(t *testing.T) {
	h, svc, deptID := newHandlerFixture(t)
	appt := mustCreate(t, svc, deptID, "crew-1", "09:00")

	c, rec := authedRequest(http.MethodGet, "/api/v1/appointments/"+appt.ID.String(), "", "staff-1", []string{"staff"})
	c.SetParamNames("id")
	c.SetParamValues(appt.ID.String())

	if err := h.GetAppointment(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestConfirmAppointmentHandler(t *testing.T) {
	h, svc, deptID := newHandlerFixture(t)
	appt := mustCreate(t, svc, deptID, "crew-1", "09:00")

	c, rec := authedRequest(http.MethodPost, "/api/v1/appointments/"+appt.ID.String()+"/confirm", "", "staff-1", []string{"staff"})
	c.SetParamNames("id")
	c.SetParamValues(appt.ID.String())

	if err := h.ConfirmAppointment(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var out Appointment
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if out.Status != StatusConfirmed {
		t.Errorf("status = %q, want %q", out.Status, StatusConfirmed)
	}
}

func TestCancelAppointmentHandler_MissingReason(t *testing.T) {
	h, svc, deptID := newHandlerFixture(t)
	appt := mustCreate(t, svc, deptID, "crew-1", "09:00")

	c, rec := authedRequest(http.MethodPost, "/api/v1/appointments/"+appt.ID.String()+"/cancel", `{}`, "crew-1", []string{"crew"})
	c.SetParamNames("id")
	c.SetParamValues(appt.ID.String())

	if err := h.CancelAppointment(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if kind := decodeErrorKind(t, rec); kind != "validation" {
		t.Errorf("error kind = %q, want validation", kind)
	}
}

func TestCancelAppointmentHandler_InvalidState(t *testing.T) {
	h, svc, deptID := newHandlerFixture(t)
	appt := mustCreate(t, svc, deptID, "crew-1", "09:00")
	if _, err := svc.Cancel(context.Background(), appt.ID, "crew-1", "conflict"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c, rec := authedRequest(http.MethodPost, "/api/v1/appointments/"+appt.ID.String()+"/cancel", `{"reason":"again"}`, "crew-1", []string{"crew"})
	c.SetParamNames("id")
	c.SetParamValues(appt.ID.String())

	if err := h.CancelAppointment(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	if kind := decodeErrorKind(t, rec); kind != "invalid_state" {
		t.Errorf("error kind = %q, want invalid_state", kind)
	}
}

func TestListAppointmentsHandler_CrewScopedToSelf(t *testing.T) {
	h, svc, deptID := newHandlerFixture(t)
	mustCreate(t, svc, deptID, "crew-1", "09:00")
	mustCreate(t, svc, deptID, "crew-2", "09:30")

	c, rec := authedRequest(http.MethodGet, "/api/v1/appointments", "", "crew-1", []string{"crew"})
	if err := h.ListAppointments(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp struct {
		Data  []*Appointment `json:"data"`
		Total int            `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Total != 1 || len(resp.Data) != 1 {
		t.Fatalf("expected 1 appointment, got total=%d len=%d", resp.Total, len(resp.Data))
	}
	if resp.Data[0].CrewID != "crew-1" {
		t.Errorf("listed crew_id = %q, want crew-1", resp.Data[0].CrewID)
	}
}

func TestListAppointmentsHandler_DepartmentNeedsStaff(t *testing.T) {
	h, _, deptID := newHandlerFixture(t)

	c, rec := authedRequest(http.MethodGet, "/api/v1/appointments?department_id="+deptID.String(), "", "crew-1", []string{"crew"})
	if err := h.ListAppointments(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}
