package domain

import (
	"time"

	"github.com/google/uuid"
)

// Client represents a CRM contact created or refreshed on every booking
type Client struct {
	ID    uuid.UUID
	Name  string
	Email string // Уникальный ключ: клиент идентифицируется по email
	Phone *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
