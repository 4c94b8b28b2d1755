package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/Realty-BookingService/pkg/types"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusCompleted AppointmentStatus = "completed"
)

// Appointment represents a client's reservation against a slot
type Appointment struct {
	ID         uuid.UUID
	SlotID     uuid.UUID
	AgentID    uuid.UUID
	PropertyID *uuid.UUID

	ClientName  string
	ClientEmail string
	ClientPhone *string

	OperationType OperationType
	BudgetRange   string
	Company       *string           // Работодатель клиента (только аренда)
	Financing     *FinancingDetails // Детали финансирования (только покупка)

	Date            time.Time
	StartTime       types.TimeString
	DurationMinutes int
	Notes           *string
	Status          AppointmentStatus

	CreatedAt   time.Time
	UpdatedAt   time.Time
	ConfirmedAt *time.Time
	CancelledAt *time.Time
}

// IsActive returns true if the appointment counts toward slot capacity
func (a *Appointment) IsActive() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// IsTerminal returns true if the appointment is in a final state
func (a *Appointment) IsTerminal() bool {
	return a.Status == StatusCancelled || a.Status == StatusCompleted
}

// CanBeConfirmed returns true if the appointment can move to confirmed
func (a *Appointment) CanBeConfirmed() bool {
	return a.Status == StatusPending
}

// CanBeCompleted returns true if the appointment can move to completed
func (a *Appointment) CanBeCompleted() bool {
	return a.Status == StatusConfirmed
}

// CanBeCancelled returns true if the appointment can be cancelled
func (a *Appointment) CanBeCancelled() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// CanBeRescheduled returns true if the appointment can be moved to another slot
func (a *Appointment) CanBeRescheduled() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// CanTransitionTo validates a status transition.
// Allowed: pending -> confirmed -> completed; pending|confirmed -> cancelled.
// Cancelled and completed are terminal.
func (a *Appointment) CanTransitionTo(next AppointmentStatus) bool {
	switch next {
	case StatusConfirmed:
		return a.CanBeConfirmed()
	case StatusCompleted:
		return a.CanBeCompleted()
	case StatusCancelled:
		return a.CanBeCancelled()
	default:
		return false
	}
}

// AppointmentsFilter фильтр для выборки встреч в дашборде
type AppointmentsFilter struct {
	AgentID   *uuid.UUID         // Фильтр по агенту (опционально)
	SlotID    *uuid.UUID         // Фильтр по слоту (опционально)
	StartDate *time.Time         // Начало периода (опционально)
	EndDate   *time.Time         // Конец периода (опционально)
	Status    *AppointmentStatus // Фильтр по статусу (опционально)
}
