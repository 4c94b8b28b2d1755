package reserve_slot

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/Realty-BookingService/internal/domain"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	ListByDateAndAgent(ctx context.Context, date time.Time, agentID uuid.UUID) ([]*domain.Slot, error)
	ReserveSeat(ctx context.Context, id uuid.UUID) (*domain.Slot, error)
	ReleaseSeat(ctx context.Context, id uuid.UUID) error
}

// AppointmentRepository интерфейс репозитория встреч
type AppointmentRepository interface {
	Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Appointment, error)
	Reschedule(ctx context.Context, appt *domain.Appointment) error
}

// ClientRepository интерфейс репозитория клиентов CRM
type ClientRepository interface {
	Upsert(ctx context.Context, c *domain.Client) (*domain.Client, error)
}

// SlotLocker интерфейс распределенной блокировки слота
type SlotLocker interface {
	WithSlotLock(ctx context.Context, slotID uuid.UUID, fn func(ctx context.Context) error) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// ReservationMetrics интерфейс счетчика исходов бронирования
type ReservationMetrics interface {
	IncReservation(result string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
