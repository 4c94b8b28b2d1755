package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/Realty-BookingService/internal/domain"
)

// ClientResponse ответ с данными клиента
type ClientResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ClientListResponse ответ со списком клиентов
type ClientListResponse struct {
	Clients []ClientResponse `json:"clients"`
	Total   int              `json:"total"`
}

// FromDomainClient конвертирует domain модель в response
func FromDomainClient(c *domain.Client) *ClientResponse {
	return &ClientResponse{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// FromDomainClientList конвертирует список domain моделей в response
func FromDomainClientList(clients []*domain.Client) *ClientListResponse {
	items := make([]ClientResponse, 0, len(clients))
	for _, c := range clients {
		items = append(items, *FromDomainClient(c))
	}

	return &ClientListResponse{
		Clients: items,
		Total:   len(items),
	}
}
