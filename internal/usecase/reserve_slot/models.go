package reserve_slot

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/Realty-BookingService/internal/domain"
	"github.com/m04kA/Realty-BookingService/pkg/types"
)

// Request модель запроса на бронирование слота.
// Если AppointmentID указан, это перенос существующей встречи,
// иначе создание новой.
type Request struct {
	AppointmentID *uuid.UUID // ID встречи для переноса (опционально)
	AgentID       *uuid.UUID // ID агента (опционально, иначе агент по умолчанию)
	PropertyID    *uuid.UUID // ID объекта недвижимости (опционально)

	ClientName  string
	ClientEmail string
	ClientPhone *string

	OperationType domain.OperationType
	BudgetRange   string
	Company       *string                  // Работодатель (только аренда)
	Financing     *domain.FinancingDetails // Финансирование (только покупка)

	Date      time.Time        // Дата встречи (без времени)
	StartTime types.TimeString // Время начала слота (например, "10:00")
	Notes     *string
}

// Response модель ответа с забронированной встречей
type Response struct {
	Created bool // true - новая встреча, false - перенос существующей

	AppointmentID uuid.UUID
	SlotID        uuid.UUID
	AgentID       uuid.UUID
	PropertyID    *uuid.UUID

	ClientName  string
	ClientEmail string
	ClientPhone *string

	OperationType   string
	BudgetRange     string
	Date            time.Time
	StartTime       types.TimeString
	DurationMinutes int
	Notes           *string
	Status          string

	CreatedAt time.Time
	UpdatedAt time.Time
}
