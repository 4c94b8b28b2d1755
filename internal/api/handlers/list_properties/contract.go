package list_properties

import (
	"context"

	"github.com/m04kA/Realty-BookingService/internal/service/properties/models"
)

type PropertyService interface {
	List(ctx context.Context, operationType *string) (*models.PropertyListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
