package confirm_appointment

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/Realty-BookingService/internal/api/handlers"
	"github.com/m04kA/Realty-BookingService/internal/service/appointments"
)

const (
	msgInvalidAppointmentID = "el ID de la cita no es válido"
	msgNotFound             = "la cita no existe"
	msgInvalidTransition    = "la cita no puede ser confirmada en su estado actual"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/appointments/{appointmentId}/confirm
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	appointmentID, err := uuid.Parse(mux.Vars(r)["appointmentId"])
	if err != nil {
		h.logger.Warn("PATCH /appointments/{id}/confirm - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	appointment, err := h.service.Confirm(r.Context(), appointmentID)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrAppointmentNotFound):
			h.logger.Warn("PATCH /appointments/{id}/confirm - Not found: appointment_id=%s", appointmentID)
			handlers.RespondNotFound(w, msgNotFound)
		case errors.Is(err, appointments.ErrInvalidTransition):
			h.logger.Warn("PATCH /appointments/{id}/confirm - Invalid transition: appointment_id=%s", appointmentID)
			handlers.RespondError(w, http.StatusConflict, msgInvalidTransition)
		default:
			h.logger.Error("PATCH /appointments/{id}/confirm - Failed: appointment_id=%s, error=%v", appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, appointment)
}
