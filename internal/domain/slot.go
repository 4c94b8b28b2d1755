package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/Realty-BookingService/pkg/types"
)

// Slot represents one bookable time window for one agent on one date.
//
// Booked is a cached counter: it must always equal the number of appointments
// referencing this slot whose status is pending or confirmed. The counter is
// only mutated through the conditional reserve/release queries of the slot
// repository; reconciliation repairs drift after the fact.
type Slot struct {
	ID        uuid.UUID
	AgentID   uuid.UUID
	Date      time.Time
	StartTime types.TimeString
	Capacity  int
	Booked    int
	Enabled   bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsFull returns true if the slot has no remaining capacity
func (s *Slot) IsFull() bool {
	return s.Booked >= s.Capacity
}

// AvailableSeats returns the number of remaining seats
func (s *Slot) AvailableSeats() int {
	if s.IsFull() {
		return 0
	}
	return s.Capacity - s.Booked
}

// IsAvailable returns true if the slot is enabled and has remaining capacity
func (s *Slot) IsAvailable() bool {
	return s.Enabled && !s.IsFull()
}

// SlotRangeFilter фильтр выборки слотов для календаря доступности
type SlotRangeFilter struct {
	AgentID   uuid.UUID
	StartDate time.Time  // Обязательный параметр
	EndDate   *time.Time // Конец периода (опционально, если nil - без ограничения)
}
