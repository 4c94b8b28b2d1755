package get_availability

import (
	"time"

	"github.com/google/uuid"
)

// Request модель запроса календаря доступности
type Request struct {
	AgentID   *uuid.UUID // ID агента (опционально, иначе агент по умолчанию)
	StartDate *time.Time // Начало периода (опционально, по умолчанию сегодня)
	EndDate   *time.Time // Конец периода (опционально, по умолчанию начало + 30 дней)
}

// TimeOption одно время в рамках дня с текущей занятостью
type TimeOption struct {
	Time      string // "HH:MM"
	Available bool
	Capacity  int
	Booked    int
}

// Day день календаря с доступными временами
type Day struct {
	Date      string // "YYYY-MM-DD"
	DayOfWeek string // "monday".."sunday"
	Times     []TimeOption
}

// Response модель ответа: дни с хотя бы одним доступным временем
type Response struct {
	AgentID uuid.UUID
	Days    []Day
}
