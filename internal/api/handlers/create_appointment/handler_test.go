package create_appointment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	reserveSlot "github.com/m04kA/Realty-BookingService/internal/usecase/reserve_slot"
	"github.com/m04kA/Realty-BookingService/pkg/types"
)

type stubUseCase struct {
	resp    *reserveSlot.Response
	err     error
	lastReq *reserveSlot.Request
}

func (s *stubUseCase) Execute(_ context.Context, req *reserveSlot.Request) (*reserveSlot.Response, error) {
	s.lastReq = req
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

func requestBody(t *testing.T, overrides map[string]interface{}) *bytes.Reader {
	t.Helper()

	body := map[string]interface{}{
		"name":          "Laura Jiménez",
		"email":         "laura@example.com",
		"phone":         "+52 55 1234 5678",
		"operationType": "rent",
		"budgetRange":   "15000-20000",
		"date":          "2026-03-16",
		"time":          "10:00",
	}
	for k, v := range overrides {
		body[k] = v
	}

	raw, err := json.Marshal(body)
	require.NoError(t, err)
	return bytes.NewReader(raw)
}

func performRequest(t *testing.T, uc *stubUseCase, body *bytes.Reader) *httptest.ResponseRecorder {
	t.Helper()

	handler := NewHandler(uc, noopLogger{})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", body)
	rec := httptest.NewRecorder()
	handler.Handle(rec, req)
	return rec
}

func successResponse(created bool) *reserveSlot.Response {
	return &reserveSlot.Response{
		Created:         created,
		AppointmentID:   uuid.New(),
		SlotID:          uuid.New(),
		AgentID:         uuid.New(),
		ClientName:      "Laura Jiménez",
		ClientEmail:     "laura@example.com",
		OperationType:   "rent",
		BudgetRange:     "15000-20000",
		Date:            time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC),
		StartTime:       types.TimeString("10:00:00"),
		DurationMinutes: 45,
		Status:          "pending",
		CreatedAt:       time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
		UpdatedAt:       time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
	}
}

func TestHandle_Created(t *testing.T) {
	uc := &stubUseCase{resp: successResponse(true)}

	rec := performRequest(t, uc, requestBody(t, nil))

	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp CreateAppointmentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, uc.resp.AppointmentID, resp.Appointment.ID)
	assert.Equal(t, "2026-03-16", resp.Appointment.Date)
	assert.Equal(t, "10:00", resp.Appointment.Time)
	assert.Equal(t, "pending", resp.Appointment.Status)
}

func TestHandle_Rescheduled_RespondsOK(t *testing.T) {
	uc := &stubUseCase{resp: successResponse(false)}
	appointmentID := uuid.New().String()

	rec := performRequest(t, uc, requestBody(t, map[string]interface{}{
		"appointmentId": appointmentID,
		"time":          "12:00",
	}))

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, uc.lastReq.AppointmentID)
	assert.Equal(t, appointmentID, uc.lastReq.AppointmentID.String())
}

func TestHandle_LegacyOperationType_Mapped(t *testing.T) {
	uc := &stubUseCase{resp: successResponse(true)}

	performRequest(t, uc, requestBody(t, map[string]interface{}{"operationType": "rentar"}))

	require.NotNil(t, uc.lastReq)
	assert.Equal(t, "rent", string(uc.lastReq.OperationType))
}

func TestHandle_MalformedBody_RespondsBadRequest(t *testing.T) {
	uc := &stubUseCase{}
	handler := NewHandler(uc, noopLogger{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	handler.Handle(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, uc.lastReq)
}

func TestHandle_UnparsableDate_RespondsBadRequest(t *testing.T) {
	uc := &stubUseCase{}

	rec := performRequest(t, uc, requestBody(t, map[string]interface{}{"date": "16/03/2026"}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, uc.lastReq)
}

func TestHandle_ValidationError_RespondsIssues(t *testing.T) {
	uc := &stubUseCase{err: &reserveSlot.ValidationError{Issues: []reserveSlot.FieldIssue{
		{Field: "clientEmail", Message: "el correo electrónico no es válido"},
		{Field: "budgetRange", Message: "el rango de presupuesto es obligatorio"},
	}}}

	rec := performRequest(t, uc, requestBody(t, nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ValidationErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Issues, 2)
	assert.Equal(t, "clientEmail", resp.Issues[0].Field)
}

func TestHandle_SlotNotFound_RespondsAvailableTimes(t *testing.T) {
	uc := &stubUseCase{err: &reserveSlot.SlotNotFoundError{
		Date:           time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC),
		RequestedTime:  types.TimeString("15:00:00"),
		AvailableTimes: []string{"10:00", "12:00"},
	}}

	rec := performRequest(t, uc, requestBody(t, map[string]interface{}{"time": "15:00"}))

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var resp SlotNotFoundResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "2026-03-16", resp.Date)
	assert.Equal(t, "15:00", resp.RequestedTime)
	assert.Equal(t, []string{"10:00", "12:00"}, resp.AvailableTimes)
}

func TestHandle_SlotFull_RespondsConflict(t *testing.T) {
	uc := &stubUseCase{err: &reserveSlot.SlotFullError{Booked: 3, Capacity: 3}}

	rec := performRequest(t, uc, requestBody(t, nil))

	assert.Equal(t, http.StatusConflict, rec.Code)

	var resp SlotFullResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Booked)
	assert.Equal(t, 3, resp.Capacity)
}

func TestHandle_SlotBusy_RespondsConflict(t *testing.T) {
	uc := &stubUseCase{err: reserveSlot.ErrSlotBusy}

	rec := performRequest(t, uc, requestBody(t, nil))

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHandle_RescheduleTargetMissing_RespondsNotFound(t *testing.T) {
	uc := &stubUseCase{err: reserveSlot.ErrAppointmentNotFound}

	rec := performRequest(t, uc, requestBody(t, map[string]interface{}{
		"appointmentId": uuid.New().String(),
	}))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandle_UnexpectedError_RespondsInternal(t *testing.T) {
	uc := &stubUseCase{err: errors.New("connection reset")}

	rec := performRequest(t, uc, requestBody(t, nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
