package get_availability

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/Realty-BookingService/internal/domain"
	"github.com/m04kA/Realty-BookingService/pkg/types"
)

var (
	testAgentID = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	testNow     = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
)

type fakeSlotRepo struct {
	slots      []*domain.Slot
	lastFilter domain.SlotRangeFilter
}

func (r *fakeSlotRepo) ListRange(_ context.Context, filter domain.SlotRangeFilter) ([]*domain.Slot, error) {
	r.lastFilter = filter
	return r.slots, nil
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

type fixedTimeProvider struct{ now time.Time }

func (p fixedTimeProvider) Now() time.Time { return p.now }

func slotAt(date time.Time, timeStr string, capacity, booked int, enabled bool) *domain.Slot {
	return &domain.Slot{
		ID:        uuid.New(),
		AgentID:   testAgentID,
		Date:      date,
		StartTime: types.TimeString(timeStr),
		Capacity:  capacity,
		Booked:    booked,
		Enabled:   enabled,
	}
}

func newTestUseCase(repo *fakeSlotRepo) *UseCase {
	uc := NewUseCase(repo, noopLogger{}, testAgentID)
	uc.timeProvider = fixedTimeProvider{now: testNow}
	return uc
}

func TestExecute_GroupsSlotsByDay(t *testing.T) {
	monday := time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)
	tuesday := time.Date(2026, 3, 17, 0, 0, 0, 0, time.UTC)

	repo := &fakeSlotRepo{slots: []*domain.Slot{
		slotAt(monday, "10:00:00", 2, 0, true),
		slotAt(monday, "11:00:00", 2, 1, true),
		slotAt(tuesday, "16:00:00", 1, 0, true),
	}}
	uc := newTestUseCase(repo)

	resp, err := uc.Execute(context.Background(), &Request{})
	require.NoError(t, err)

	require.Len(t, resp.Days, 2)

	assert.Equal(t, "2026-03-16", resp.Days[0].Date)
	assert.Equal(t, "monday", resp.Days[0].DayOfWeek)
	require.Len(t, resp.Days[0].Times, 2)
	assert.Equal(t, TimeOption{Time: "10:00", Available: true, Capacity: 2, Booked: 0}, resp.Days[0].Times[0])
	assert.Equal(t, TimeOption{Time: "11:00", Available: true, Capacity: 2, Booked: 1}, resp.Days[0].Times[1])

	assert.Equal(t, "2026-03-17", resp.Days[1].Date)
	assert.Equal(t, "tuesday", resp.Days[1].DayOfWeek)
	require.Len(t, resp.Days[1].Times, 1)
}

func TestExecute_FullSlotsListedAsUnavailable(t *testing.T) {
	monday := time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)

	repo := &fakeSlotRepo{slots: []*domain.Slot{
		slotAt(monday, "10:00:00", 1, 1, true),
		slotAt(monday, "12:00:00", 2, 1, true),
	}}
	uc := newTestUseCase(repo)

	resp, err := uc.Execute(context.Background(), &Request{})
	require.NoError(t, err)

	// Занятое время остается в выдаче, чтобы виджет показал его серым
	require.Len(t, resp.Days, 1)
	require.Len(t, resp.Days[0].Times, 2)
	assert.Equal(t, TimeOption{Time: "10:00", Available: false, Capacity: 1, Booked: 1}, resp.Days[0].Times[0])
	assert.True(t, resp.Days[0].Times[1].Available)
}

func TestExecute_DayWithNoAvailableSlots_Dropped(t *testing.T) {
	monday := time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)
	tuesday := time.Date(2026, 3, 17, 0, 0, 0, 0, time.UTC)

	repo := &fakeSlotRepo{slots: []*domain.Slot{
		slotAt(monday, "10:00:00", 1, 1, true),
		slotAt(tuesday, "10:00:00", 1, 0, true),
	}}
	uc := newTestUseCase(repo)

	resp, err := uc.Execute(context.Background(), &Request{})
	require.NoError(t, err)

	require.Len(t, resp.Days, 1)
	assert.Equal(t, "2026-03-17", resp.Days[0].Date)
}

func TestExecute_DefaultsToThirtyDaysFromToday(t *testing.T) {
	repo := &fakeSlotRepo{}
	uc := newTestUseCase(repo)

	resp, err := uc.Execute(context.Background(), &Request{})
	require.NoError(t, err)

	assert.Equal(t, testAgentID, resp.AgentID)
	assert.Empty(t, resp.Days)

	wantStart := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, wantStart, repo.lastFilter.StartDate)
	require.NotNil(t, repo.lastFilter.EndDate)
	assert.Equal(t, wantStart.AddDate(0, 0, DefaultRangeDays), *repo.lastFilter.EndDate)
}

func TestExecute_ExplicitAgentAndRange(t *testing.T) {
	otherAgent := uuid.New()
	start := time.Date(2026, 4, 1, 15, 30, 0, 0, time.UTC)
	end := time.Date(2026, 4, 7, 0, 0, 0, 0, time.UTC)

	repo := &fakeSlotRepo{}
	uc := newTestUseCase(repo)

	_, err := uc.Execute(context.Background(), &Request{
		AgentID:   &otherAgent,
		StartDate: &start,
		EndDate:   &end,
	})
	require.NoError(t, err)

	assert.Equal(t, otherAgent, repo.lastFilter.AgentID)
	// Компонент времени начала периода отбрасывается
	assert.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), repo.lastFilter.StartDate)
}

func TestExecute_EndBeforeStart_Rejected(t *testing.T) {
	start := time.Date(2026, 4, 7, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	uc := newTestUseCase(&fakeSlotRepo{})

	_, err := uc.Execute(context.Background(), &Request{StartDate: &start, EndDate: &end})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
