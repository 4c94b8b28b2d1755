package reconcile_slots

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/Realty-BookingService/internal/domain"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Slot, error)
	ListBookedIDs(ctx context.Context) ([]uuid.UUID, error)
	UpdateBooked(ctx context.Context, id uuid.UUID, booked int) error
}

// AppointmentRepository интерфейс репозитория встреч
type AppointmentRepository interface {
	CountActiveBySlot(ctx context.Context, slotID uuid.UUID) (int, error)
	ListActiveSlotIDs(ctx context.Context) ([]uuid.UUID, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
