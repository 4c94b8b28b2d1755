package get_availability

import (
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/Realty-BookingService/internal/domain"
	getAvailability "github.com/m04kA/Realty-BookingService/internal/usecase/get_availability"
)

// TimeOptionResponse одно время в рамках дня с текущей занятостью
type TimeOptionResponse struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
	Capacity  int    `json:"capacity"`
	Booked    int    `json:"booked"`
}

// DayResponse день календаря с доступными временами
type DayResponse struct {
	Date      string               `json:"date"`
	DayOfWeek string               `json:"dayOfWeek"`
	Times     []TimeOptionResponse `json:"times"`
}

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	AgentID uuid.UUID     `json:"agentId"`
	Days    []DayResponse `json:"days"`
}

// parseQuery собирает модель use case из query параметров
func parseQuery(query url.Values) (*getAvailability.Request, error) {
	req := &getAvailability.Request{}

	if raw := query.Get("agent_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, err
		}
		req.AgentID = &id
	}

	if raw := query.Get("start"); raw != "" {
		date, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			return nil, err
		}
		req.StartDate = &date
	}

	if raw := query.Get("end"); raw != "" {
		date, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			return nil, err
		}
		req.EndDate = &date
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailability.Response) *AvailabilityResponse {
	days := make([]DayResponse, 0, len(resp.Days))
	for _, day := range resp.Days {
		times := make([]TimeOptionResponse, 0, len(day.Times))
		for _, option := range day.Times {
			times = append(times, TimeOptionResponse{
				Time:      option.Time,
				Available: option.Available,
				Capacity:  option.Capacity,
				Booked:    option.Booked,
			})
		}
		days = append(days, DayResponse{
			Date:      day.Date,
			DayOfWeek: day.DayOfWeek,
			Times:     times,
		})
	}

	return &AvailabilityResponse{
		AgentID: resp.AgentID,
		Days:    days,
	}
}
