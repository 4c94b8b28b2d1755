package models

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/Realty-BookingService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid appointment status")
)

// Request модели

// ListAppointmentsRequest запрос на выборку встреч для дашборда
type ListAppointmentsRequest struct {
	AgentID   *uuid.UUID `json:"agentId,omitempty"`
	SlotID    *uuid.UUID `json:"slotId,omitempty"`
	StartDate *time.Time `json:"startDate,omitempty"` // Начало периода (опционально)
	EndDate   *time.Time `json:"endDate,omitempty"`   // Конец периода (опционально)
	Status    *string    `json:"status,omitempty"`    // Фильтр по статусу (опционально)
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListAppointmentsRequest) ToDomainFilter() (domain.AppointmentsFilter, error) {
	filter := domain.AppointmentsFilter{
		AgentID:   r.AgentID,
		SlotID:    r.SlotID,
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
	}

	if r.Status != nil {
		status, err := ToDomainAppointmentStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// ToDomainAppointmentStatus конвертирует строку в domain.AppointmentStatus
func ToDomainAppointmentStatus(status string) (domain.AppointmentStatus, error) {
	switch domain.AppointmentStatus(status) {
	case domain.StatusPending, domain.StatusConfirmed, domain.StatusCancelled, domain.StatusCompleted:
		return domain.AppointmentStatus(status), nil
	default:
		return "", ErrInvalidStatus
	}
}

// Response модели

// FinancingResponse детали финансирования покупки
type FinancingResponse struct {
	Bank              *string `json:"bank,omitempty"`
	PreApprovedCredit *bool   `json:"preApprovedCredit,omitempty"`
	InfonavitModality *string `json:"infonavitModality,omitempty"`
	InfonavitNumber   *string `json:"infonavitNumber,omitempty"`
	FovisssteModality *string `json:"fovisssteModality,omitempty"`
	FovisssteNumber   *string `json:"fovisssteNumber,omitempty"`
}

// AppointmentResponse ответ с данными встречи
type AppointmentResponse struct {
	ID              uuid.UUID          `json:"id"`
	SlotID          uuid.UUID          `json:"slotId"`
	AgentID         uuid.UUID          `json:"agentId"`
	PropertyID      *uuid.UUID         `json:"propertyId,omitempty"`
	ClientName      string             `json:"clientName"`
	ClientEmail     string             `json:"clientEmail"`
	ClientPhone     *string            `json:"clientPhone,omitempty"`
	OperationType   string             `json:"operationType"`
	BudgetRange     string             `json:"budgetRange"`
	Company         *string            `json:"company,omitempty"`
	Financing       *FinancingResponse `json:"financing,omitempty"`
	Date            string             `json:"date"` // "2026-03-15"
	StartTime       string             `json:"time"` // "10:00"
	DurationMinutes int                `json:"durationMinutes"`
	Notes           *string            `json:"notes,omitempty"`
	Status          string             `json:"status"`
	CreatedAt       time.Time          `json:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt"`
	ConfirmedAt     *time.Time         `json:"confirmedAt,omitempty"`
	CancelledAt     *time.Time         `json:"cancelledAt,omitempty"`
}

// AppointmentListResponse ответ со списком встреч
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}

// FromDomainAppointment конвертирует domain модель в response
func FromDomainAppointment(appt *domain.Appointment) *AppointmentResponse {
	resp := &AppointmentResponse{
		ID:              appt.ID,
		SlotID:          appt.SlotID,
		AgentID:         appt.AgentID,
		PropertyID:      appt.PropertyID,
		ClientName:      appt.ClientName,
		ClientEmail:     appt.ClientEmail,
		ClientPhone:     appt.ClientPhone,
		OperationType:   string(appt.OperationType),
		BudgetRange:     appt.BudgetRange,
		Company:         appt.Company,
		Date:            appt.Date.Format(domain.DateFormat),
		StartTime:       appt.StartTime.HHMM(),
		DurationMinutes: appt.DurationMinutes,
		Notes:           appt.Notes,
		Status:          string(appt.Status),
		CreatedAt:       appt.CreatedAt,
		UpdatedAt:       appt.UpdatedAt,
		ConfirmedAt:     appt.ConfirmedAt,
		CancelledAt:     appt.CancelledAt,
	}

	if appt.Financing != nil {
		resp.Financing = &FinancingResponse{
			Bank:              appt.Financing.Bank,
			PreApprovedCredit: appt.Financing.PreApprovedCredit,
			InfonavitModality: appt.Financing.InfonavitModality,
			InfonavitNumber:   appt.Financing.InfonavitNumber,
			FovisssteModality: appt.Financing.FovisssteModality,
			FovisssteNumber:   appt.Financing.FovisssteNumber,
		}
	}

	return resp
}

// FromDomainAppointmentList конвертирует список domain моделей в response
func FromDomainAppointmentList(appointments []*domain.Appointment) *AppointmentListResponse {
	items := make([]AppointmentResponse, 0, len(appointments))
	for _, appt := range appointments {
		items = append(items, *FromDomainAppointment(appt))
	}

	return &AppointmentListResponse{
		Appointments: items,
		Total:        len(items),
	}
}
