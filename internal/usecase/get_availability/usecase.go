package get_availability

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/Realty-BookingService/internal/domain"
)

// DefaultRangeDays горизонт календаря по умолчанию
const DefaultRangeDays = 30

// UseCase use case календаря доступности агента
type UseCase struct {
	slotRepo       SlotRepository
	timeProvider   TimeProvider
	logger         Logger
	defaultAgentID uuid.UUID
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(slotRepository SlotRepository, logger Logger, defaultAgentID uuid.UUID) *UseCase {
	return &UseCase{
		slotRepo:       slotRepository,
		timeProvider:   &RealTimeProvider{},
		logger:         logger,
		defaultAgentID: defaultAgentID,
	}
}

// Execute возвращает дни периода, в которых есть хотя бы одно доступное время.
// Полностью занятые и выключенные слоты в календарь не попадают.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	agentID := uc.defaultAgentID
	if req.AgentID != nil {
		agentID = *req.AgentID
	}

	now := uc.timeProvider.Now()
	startDate := dateOnly(now)
	if req.StartDate != nil {
		startDate = dateOnly(*req.StartDate)
	}

	endDate := startDate.AddDate(0, 0, DefaultRangeDays)
	if req.EndDate != nil {
		endDate = dateOnly(*req.EndDate)
	}

	if endDate.Before(startDate) {
		return nil, fmt.Errorf("%w: endDate is before startDate", ErrInvalidInput)
	}

	uc.logger.Info("GetAvailability: agent=%s, range=%s..%s",
		agentID, startDate.Format(domain.DateFormat), endDate.Format(domain.DateFormat))

	slots, err := uc.slotRepo.ListRange(ctx, domain.SlotRangeFilter{
		AgentID:   agentID,
		StartDate: startDate,
		EndDate:   &endDate,
	})
	if err != nil {
		uc.logger.Error("GetAvailability: failed to list slots: %v", err)
		return nil, fmt.Errorf("%w: failed to list slots: %v", ErrInternal, err)
	}

	return &Response{
		AgentID: agentID,
		Days:    groupByDay(slots),
	}, nil
}

// groupByDay группирует слоты по дате. Занятые времена остаются в выдаче
// с available=false, дни без единого доступного времени отбрасываются.
// Слоты приходят отсортированными по (date, start_time),
// поэтому дни и времена внутри дня уже в нужном порядке.
func groupByDay(slots []*domain.Slot) []Day {
	days := make([]Day, 0)

	for _, s := range slots {
		date := s.Date.Format(domain.DateFormat)
		option := TimeOption{
			Time:      s.StartTime.HHMM(),
			Available: s.IsAvailable(),
			Capacity:  s.Capacity,
			Booked:    s.Booked,
		}

		if n := len(days); n > 0 && days[n-1].Date == date {
			days[n-1].Times = append(days[n-1].Times, option)
			continue
		}

		days = append(days, Day{
			Date:      date,
			DayOfWeek: strings.ToLower(s.Date.Weekday().String()),
			Times:     []TimeOption{option},
		})
	}

	filtered := days[:0]
	for _, day := range days {
		for _, option := range day.Times {
			if option.Available {
				filtered = append(filtered, day)
				break
			}
		}
	}

	return filtered
}

// dateOnly обнуляет компонент времени, в БД дата хранится без времени
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
