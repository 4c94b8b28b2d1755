package complete_appointment

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/Realty-BookingService/internal/service/appointments/models"
)

type AppointmentService interface {
	Complete(ctx context.Context, id uuid.UUID) (*models.AppointmentResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
