package create_appointment

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/Realty-BookingService/internal/domain"
	reserveSlot "github.com/m04kA/Realty-BookingService/internal/usecase/reserve_slot"
	"github.com/m04kA/Realty-BookingService/pkg/types"
)

// FinancingPayload детали финансирования в HTTP запросе и ответе
type FinancingPayload struct {
	Bank              *string `json:"bank,omitempty"`
	PreApprovedCredit *bool   `json:"preApprovedCredit,omitempty"`
	InfonavitModality *string `json:"infonavitModality,omitempty"`
	InfonavitNumber   *string `json:"infonavitNumber,omitempty"`
	FovisssteModality *string `json:"fovisssteModality,omitempty"`
	FovisssteNumber   *string `json:"fovisssteNumber,omitempty"`
}

// CreateAppointmentRequest HTTP request model.
// Наличие appointmentId превращает запрос в перенос существующей встречи.
type CreateAppointmentRequest struct {
	AppointmentID *string `json:"appointmentId,omitempty"`
	AgentID       *string `json:"agentId,omitempty"`
	PropertyID    *string `json:"propertyId,omitempty"`

	Name  string  `json:"name"`
	Email string  `json:"email"`
	Phone *string `json:"phone,omitempty"`

	OperationType string            `json:"operationType"`
	BudgetRange   string            `json:"budgetRange"`
	Company       *string           `json:"company,omitempty"`
	Financing     *FinancingPayload `json:"financing,omitempty"`

	Date  string  `json:"date"` // "2026-03-15"
	Time  string  `json:"time"` // "10:00"
	Notes *string `json:"notes,omitempty"`
}

// CreateAppointmentResponse тело успешного ответа
type CreateAppointmentResponse struct {
	Success     bool                `json:"success"`
	Appointment AppointmentResponse `json:"appointment"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID              uuid.UUID  `json:"id"`
	SlotID          uuid.UUID  `json:"slotId"`
	AgentID         uuid.UUID  `json:"agentId"`
	PropertyID      *uuid.UUID `json:"propertyId,omitempty"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	Phone           *string    `json:"phone,omitempty"`
	OperationType   string     `json:"operationType"`
	BudgetRange     string     `json:"budgetRange"`
	Date            string     `json:"date"`
	Time            string     `json:"time"`
	DurationMinutes int        `json:"durationMinutes"`
	Notes           *string    `json:"notes,omitempty"`
	Status          string     `json:"status"`
	CreatedAt       string     `json:"createdAt"`
	UpdatedAt       string     `json:"updatedAt"`
}

// ValidationIssue одна проблема валидации в теле 400 ответа
type ValidationIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrorResponse тело 400 ответа с пофилдовыми проблемами
type ValidationErrorResponse struct {
	Error  string            `json:"error"`
	Issues []ValidationIssue `json:"issues"`
}

// SlotNotFoundResponse тело 404 ответа с подсказкой доступных времен
type SlotNotFoundResponse struct {
	Error          string   `json:"error"`
	Date           string   `json:"date"`
	RequestedTime  string   `json:"requestedTime"`
	AvailableTimes []string `json:"availableTimes"`
}

// SlotFullResponse тело 409 ответа с занятостью слота
type SlotFullResponse struct {
	Error    string `json:"error"`
	Booked   int    `json:"booked"`
	Capacity int    `json:"capacity"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateAppointmentRequest) ToUseCaseRequest() (*reserveSlot.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, fmt.Errorf("parse date: %w", err)
	}

	startTime, err := types.NewTimeStringFromString(r.Time)
	if err != nil {
		return nil, fmt.Errorf("parse time: %w", err)
	}

	req := &reserveSlot.Request{
		ClientName:    r.Name,
		ClientEmail:   r.Email,
		ClientPhone:   r.Phone,
		OperationType: toOperationType(r.OperationType),
		BudgetRange:   r.BudgetRange,
		Company:       r.Company,
		Date:          date,
		StartTime:     startTime,
		Notes:         r.Notes,
	}

	if r.AppointmentID != nil {
		id, err := uuid.Parse(*r.AppointmentID)
		if err != nil {
			return nil, fmt.Errorf("parse appointmentId: %w", err)
		}
		req.AppointmentID = &id
	}

	if r.AgentID != nil {
		id, err := uuid.Parse(*r.AgentID)
		if err != nil {
			return nil, fmt.Errorf("parse agentId: %w", err)
		}
		req.AgentID = &id
	}

	if r.PropertyID != nil {
		id, err := uuid.Parse(*r.PropertyID)
		if err != nil {
			return nil, fmt.Errorf("parse propertyId: %w", err)
		}
		req.PropertyID = &id
	}

	if r.Financing != nil {
		req.Financing = &domain.FinancingDetails{
			Bank:              r.Financing.Bank,
			PreApprovedCredit: r.Financing.PreApprovedCredit,
			InfonavitModality: r.Financing.InfonavitModality,
			InfonavitNumber:   r.Financing.InfonavitNumber,
			FovisssteModality: r.Financing.FovisssteModality,
			FovisssteNumber:   r.Financing.FovisssteNumber,
		}
	}

	return req, nil
}

// toOperationType нормализует тип операции.
// Старые клиенты присылают испанские значения rentar/comprar.
func toOperationType(value string) domain.OperationType {
	switch value {
	case "rentar":
		return domain.OperationRent
	case "comprar":
		return domain.OperationBuy
	default:
		return domain.OperationType(value)
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *reserveSlot.Response) *CreateAppointmentResponse {
	return &CreateAppointmentResponse{
		Success: true,
		Appointment: AppointmentResponse{
			ID:              resp.AppointmentID,
			SlotID:          resp.SlotID,
			AgentID:         resp.AgentID,
			PropertyID:      resp.PropertyID,
			Name:            resp.ClientName,
			Email:           resp.ClientEmail,
			Phone:           resp.ClientPhone,
			OperationType:   resp.OperationType,
			BudgetRange:     resp.BudgetRange,
			Date:            resp.Date.Format(domain.DateFormat),
			Time:            resp.StartTime.HHMM(),
			DurationMinutes: resp.DurationMinutes,
			Notes:           resp.Notes,
			Status:          resp.Status,
			CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
			UpdatedAt:       resp.UpdatedAt.Format(time.RFC3339),
		},
	}
}
