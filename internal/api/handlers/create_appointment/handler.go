package create_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/Realty-BookingService/internal/api/handlers"
	"github.com/m04kA/Realty-BookingService/internal/domain"
	reserveSlot "github.com/m04kA/Realty-BookingService/internal/usecase/reserve_slot"
)

const (
	msgInvalidRequestBody = "el cuerpo de la solicitud no es válido"
	msgValidationFailed   = "los datos de la cita no son válidos"
	msgSlotNotFound       = "el horario seleccionado no existe"
	msgSlotFull           = "el horario seleccionado ya está ocupado"
	msgSlotBusy           = "el horario está siendo reservado, intente de nuevo"
	msgAppointmentMissing = "la cita a reprogramar no existe"
	msgNotReschedulable   = "la cita ya no puede ser reprogramada"
)

type Handler struct {
	useCase ReserveSlotUseCase
	logger  Logger
}

func NewHandler(useCase ReserveSlotUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
//
// Создание отвечает 201, перенос существующей встречи (appointmentId
// в теле) отвечает 200. Отказ по занятости - 409 с booked/capacity,
// отсутствие слота - 404 со списком доступных времен.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /appointments - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		h.respondError(w, &req, err)
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}

	h.logger.Info("POST /appointments - Reserved: appointment_id=%s, slot_id=%s, created=%t",
		result.AppointmentID, result.SlotID, result.Created)
	handlers.RespondJSON(w, status, FromUseCaseResponse(result))
}

func (h *Handler) respondError(w http.ResponseWriter, req *CreateAppointmentRequest, err error) {
	var validationErr *reserveSlot.ValidationError
	var notFoundErr *reserveSlot.SlotNotFoundError
	var fullErr *reserveSlot.SlotFullError

	switch {
	case errors.As(err, &validationErr):
		h.logger.Warn("POST /appointments - Validation failed: email=%s, issues=%d",
			req.Email, len(validationErr.Issues))
		issues := make([]ValidationIssue, 0, len(validationErr.Issues))
		for _, issue := range validationErr.Issues {
			issues = append(issues, ValidationIssue{Field: issue.Field, Message: issue.Message})
		}
		handlers.RespondJSON(w, http.StatusBadRequest, ValidationErrorResponse{
			Error:  msgValidationFailed,
			Issues: issues,
		})

	case errors.As(err, &notFoundErr):
		h.logger.Warn("POST /appointments - Slot not found: date=%s, time=%s",
			req.Date, req.Time)
		handlers.RespondJSON(w, http.StatusNotFound, SlotNotFoundResponse{
			Error:          msgSlotNotFound,
			Date:           notFoundErr.Date.Format(domain.DateFormat),
			RequestedTime:  notFoundErr.RequestedTime.HHMM(),
			AvailableTimes: notFoundErr.AvailableTimes,
		})

	case errors.As(err, &fullErr):
		h.logger.Warn("POST /appointments - Slot full: date=%s, time=%s, booked=%d/%d",
			req.Date, req.Time, fullErr.Booked, fullErr.Capacity)
		handlers.RespondJSON(w, http.StatusConflict, SlotFullResponse{
			Error:    msgSlotFull,
			Booked:   fullErr.Booked,
			Capacity: fullErr.Capacity,
		})

	case errors.Is(err, reserveSlot.ErrSlotBusy):
		h.logger.Warn("POST /appointments - Slot busy: date=%s, time=%s", req.Date, req.Time)
		handlers.RespondError(w, http.StatusConflict, msgSlotBusy)

	case errors.Is(err, reserveSlot.ErrAppointmentNotFound):
		h.logger.Warn("POST /appointments - Appointment to reschedule not found: id=%v", req.AppointmentID)
		handlers.RespondNotFound(w, msgAppointmentMissing)

	case errors.Is(err, reserveSlot.ErrAppointmentNotReschedulable):
		h.logger.Warn("POST /appointments - Appointment not reschedulable: id=%v", req.AppointmentID)
		handlers.RespondError(w, http.StatusConflict, msgNotReschedulable)

	case errors.Is(err, reserveSlot.ErrInvalidInput):
		h.logger.Warn("POST /appointments - Invalid input: %v", err)
		handlers.RespondBadRequest(w, msgValidationFailed)

	default:
		h.logger.Error("POST /appointments - Failed to reserve slot: email=%s, error=%v", req.Email, err)
		handlers.RespondInternalError(w)
	}
}
