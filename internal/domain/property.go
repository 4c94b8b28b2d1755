package domain

import (
	"time"

	"github.com/google/uuid"
)

// Property represents a real-estate listing managed in the dashboard
type Property struct {
	ID            uuid.UUID
	Title         string
	Description   *string
	OperationType OperationType
	Price         float64
	Location      *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
