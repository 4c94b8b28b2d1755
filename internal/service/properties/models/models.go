package models

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/Realty-BookingService/internal/domain"
)

var (
	// ErrInvalidOperationType возвращается при некорректном типе операции
	ErrInvalidOperationType = errors.New("invalid operation type")
)

// Request модели

// CreatePropertyRequest запрос на создание объекта недвижимости
type CreatePropertyRequest struct {
	Title         string  `json:"title"`
	Description   *string `json:"description,omitempty"`
	OperationType string  `json:"operationType"` // "rent" | "buy"
	Price         float64 `json:"price"`
	Location      *string `json:"location,omitempty"`
}

// ToDomain конвертирует request в domain модель
func (r *CreatePropertyRequest) ToDomain() (*domain.Property, error) {
	operationType := domain.OperationType(r.OperationType)
	if !operationType.IsValid() {
		return nil, ErrInvalidOperationType
	}

	return &domain.Property{
		Title:         r.Title,
		Description:   r.Description,
		OperationType: operationType,
		Price:         r.Price,
		Location:      r.Location,
	}, nil
}

// Response модели

// PropertyResponse ответ с данными объекта недвижимости
type PropertyResponse struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	Description   *string   `json:"description,omitempty"`
	OperationType string    `json:"operationType"`
	Price         float64   `json:"price"`
	Location      *string   `json:"location,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// PropertyListResponse ответ со списком объектов недвижимости
type PropertyListResponse struct {
	Properties []PropertyResponse `json:"properties"`
	Total      int                `json:"total"`
}

// FromDomainProperty конвертирует domain модель в response
func FromDomainProperty(p *domain.Property) *PropertyResponse {
	return &PropertyResponse{
		ID:            p.ID,
		Title:         p.Title,
		Description:   p.Description,
		OperationType: string(p.OperationType),
		Price:         p.Price,
		Location:      p.Location,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// FromDomainPropertyList конвертирует список domain моделей в response
func FromDomainPropertyList(properties []*domain.Property) *PropertyListResponse {
	items := make([]PropertyResponse, 0, len(properties))
	for _, p := range properties {
		items = append(items, *FromDomainProperty(p))
	}

	return &PropertyListResponse{
		Properties: items,
		Total:      len(items),
	}
}
