package reserve_slot

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/Realty-BookingService/internal/domain"
	slotRepo "github.com/m04kA/Realty-BookingService/internal/infra/storage/slot"
	"github.com/m04kA/Realty-BookingService/pkg/ptr"
	"github.com/m04kA/Realty-BookingService/pkg/types"
)

var (
	testAgentID = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	testNow     = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	testDate    = time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)
)

// fakeSlotRepo потокобезопасная in-memory реализация репозитория слотов.
// ReserveSeat повторяет семантику условного UPDATE: проверка и инкремент
// под одной блокировкой.
type fakeSlotRepo struct {
	mu    sync.Mutex
	slots map[uuid.UUID]*domain.Slot
}

func newFakeSlotRepo(slots ...*domain.Slot) *fakeSlotRepo {
	repo := &fakeSlotRepo{slots: make(map[uuid.UUID]*domain.Slot)}
	for _, s := range slots {
		copied := *s
		repo.slots[s.ID] = &copied
	}
	return repo
}

func (r *fakeSlotRepo) ListByDateAndAgent(_ context.Context, date time.Time, agentID uuid.UUID) ([]*domain.Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*domain.Slot, 0)
	for _, s := range r.slots {
		if s.Enabled && s.AgentID == agentID && s.Date.Equal(date) {
			copied := *s
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.IsBefore(out[j].StartTime) })
	return out, nil
}

func (r *fakeSlotRepo) ReserveSeat(_ context.Context, id uuid.UUID) (*domain.Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.slots[id]
	if !ok {
		return nil, slotRepo.ErrSlotNotFound
	}
	if !s.Enabled || s.Booked >= s.Capacity {
		return nil, slotRepo.ErrSlotFull
	}
	s.Booked++
	copied := *s
	return &copied, nil
}

func (r *fakeSlotRepo) ReleaseSeat(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.slots[id]
	if !ok || s.Booked == 0 {
		return slotRepo.ErrNoSeatsToRelease
	}
	s.Booked--
	return nil
}

func (r *fakeSlotRepo) booked(id uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.slots[id].Booked
}

func (r *fakeSlotRepo) snapshot() map[uuid.UUID]domain.Slot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[uuid.UUID]domain.Slot, len(r.slots))
	for id, s := range r.slots {
		out[id] = *s
	}
	return out
}

func (r *fakeSlotRepo) restore(snapshot map[uuid.UUID]domain.Slot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, s := range snapshot {
		copied := s
		r.slots[id] = &copied
	}
}

type fakeAppointmentRepo struct {
	mu           sync.Mutex
	appointments map[uuid.UUID]*domain.Appointment
	createErr    error
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{appointments: make(map[uuid.UUID]*domain.Appointment)}
}

func (r *fakeAppointmentRepo) Create(_ context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.createErr != nil {
		return nil, r.createErr
	}

	appt.ID = uuid.New()
	appt.CreatedAt = testNow
	appt.UpdatedAt = testNow
	copied := *appt
	r.appointments[appt.ID] = &copied
	return appt, nil
}

func (r *fakeAppointmentRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	appt, ok := r.appointments[id]
	if !ok {
		return nil, errors.New("appointment.repository: appointment not found")
	}
	copied := *appt
	return &copied, nil
}

func (r *fakeAppointmentRepo) Reschedule(_ context.Context, appt *domain.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *appt
	r.appointments[appt.ID] = &copied
	return nil
}

func (r *fakeAppointmentRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.appointments)
}

func (r *fakeAppointmentRepo) put(appt *domain.Appointment) {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *appt
	r.appointments[appt.ID] = &copied
}

type fakeClientRepo struct {
	mu      sync.Mutex
	upserts []domain.Client
}

func (r *fakeClientRepo) Upsert(_ context.Context, c *domain.Client) (*domain.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c.ID = uuid.New()
	r.upserts = append(r.upserts, *c)
	return c, nil
}

// fakeTxManager имитирует сериализуемую транзакцию: fn выполняются
// строго по очереди, при ошибке состояние слотов возвращается
// к снимку на начало транзакции
type fakeTxManager struct {
	mu    sync.Mutex
	slots *fakeSlotRepo
}

func (m *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.slots.snapshot()
	if err := fn(ctx); err != nil {
		m.slots.restore(snapshot)
		return err
	}
	return nil
}

type noopLocker struct{}

func (noopLocker) WithSlotLock(ctx context.Context, _ uuid.UUID, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

type fixedTimeProvider struct{ now time.Time }

func (p fixedTimeProvider) Now() time.Time { return p.now }

func newTestSlot(timeStr string, capacity, booked int) *domain.Slot {
	return &domain.Slot{
		ID:        uuid.New(),
		AgentID:   testAgentID,
		Date:      testDate,
		StartTime: types.TimeString(timeStr),
		Capacity:  capacity,
		Booked:    booked,
		Enabled:   true,
	}
}

func newTestUseCase(slots *fakeSlotRepo, appts *fakeAppointmentRepo, clients *fakeClientRepo) *UseCase {
	uc := NewUseCase(
		slots,
		appts,
		clients,
		noopLocker{},
		&fakeTxManager{slots: slots},
		nil,
		noopLogger{},
		testAgentID,
		domain.DefaultDurationMinutes,
	)
	uc.timeProvider = fixedTimeProvider{now: testNow}
	return uc
}

func validRequest(timeStr string) *Request {
	startTime, _ := types.NewTimeStringFromString(timeStr)
	return &Request{
		ClientName:    "Laura Jiménez",
		ClientEmail:   "laura@example.com",
		ClientPhone:   ptr.Ptr("+52 55 1234 5678"),
		OperationType: domain.OperationRent,
		BudgetRange:   "15000-20000",
		Date:          testDate,
		StartTime:     startTime,
	}
}

func TestExecute_CreatesPendingAppointment(t *testing.T) {
	slot := newTestSlot("10:00:00", 2, 0)
	slots := newFakeSlotRepo(slot)
	appts := newFakeAppointmentRepo()
	clients := &fakeClientRepo{}
	uc := newTestUseCase(slots, appts, clients)

	resp, err := uc.Execute(context.Background(), validRequest("10:00"))
	require.NoError(t, err)

	assert.True(t, resp.Created)
	assert.Equal(t, slot.ID, resp.SlotID)
	assert.Equal(t, string(domain.StatusPending), resp.Status)
	assert.Equal(t, domain.DefaultDurationMinutes, resp.DurationMinutes)
	assert.Equal(t, 1, slots.booked(slot.ID))
	assert.Equal(t, 1, appts.count())
	require.Len(t, clients.upserts, 1)
	assert.Equal(t, "laura@example.com", clients.upserts[0].Email)
}

func TestExecute_MatchesTimeAtMinuteGranularity(t *testing.T) {
	slot := newTestSlot("10:00:00", 1, 0)
	slots := newFakeSlotRepo(slot)
	uc := newTestUseCase(slots, newFakeAppointmentRepo(), &fakeClientRepo{})

	// Клиент присылает "10:0", слот хранится как "10:00:00"
	resp, err := uc.Execute(context.Background(), validRequest("10:0"))
	require.NoError(t, err)
	assert.Equal(t, slot.ID, resp.SlotID)
}

func TestExecute_SlotNotFound_ReturnsAvailableTimes(t *testing.T) {
	free := newTestSlot("10:00:00", 2, 0)
	full := newTestSlot("11:00:00", 1, 1)
	open := newTestSlot("12:00:00", 1, 0)
	slots := newFakeSlotRepo(free, full, open)
	uc := newTestUseCase(slots, newFakeAppointmentRepo(), &fakeClientRepo{})

	_, err := uc.Execute(context.Background(), validRequest("15:00"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSlotNotFound)

	var notFoundErr *SlotNotFoundError
	require.ErrorAs(t, err, &notFoundErr)
	// Полностью занятый слот в подсказку не попадает
	assert.Equal(t, []string{"10:00", "12:00"}, notFoundErr.AvailableTimes)
	assert.Equal(t, "15:00", notFoundErr.RequestedTime.HHMM())
}

func TestExecute_NoSlotsOnDate_EmptyDiagnostic(t *testing.T) {
	uc := newTestUseCase(newFakeSlotRepo(), newFakeAppointmentRepo(), &fakeClientRepo{})

	_, err := uc.Execute(context.Background(), validRequest("10:00"))
	require.Error(t, err)

	var notFoundErr *SlotNotFoundError
	require.ErrorAs(t, err, &notFoundErr)
	assert.Empty(t, notFoundErr.AvailableTimes)
}

func TestExecute_SlotFull_ReturnsConflict(t *testing.T) {
	slot := newTestSlot("10:00:00", 1, 1)
	slots := newFakeSlotRepo(slot)
	appts := newFakeAppointmentRepo()
	uc := newTestUseCase(slots, appts, &fakeClientRepo{})

	_, err := uc.Execute(context.Background(), validRequest("10:00"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSlotFull)

	var fullErr *SlotFullError
	require.ErrorAs(t, err, &fullErr)
	assert.Equal(t, 1, fullErr.Capacity)

	assert.Equal(t, 1, slots.booked(slot.ID))
	assert.Equal(t, 0, appts.count())
}

func TestExecute_ValidationError_CollectsAllIssues(t *testing.T) {
	slots := newFakeSlotRepo(newTestSlot("10:00:00", 1, 0))
	uc := newTestUseCase(slots, newFakeAppointmentRepo(), &fakeClientRepo{})

	req := validRequest("10:00")
	req.ClientName = "x"
	req.ClientEmail = "not-an-email"
	req.BudgetRange = ""

	_, err := uc.Execute(context.Background(), req)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)

	fields := make([]string, 0)
	for _, issue := range validationErr.Issues {
		fields = append(fields, issue.Field)
	}
	assert.Contains(t, fields, "clientName")
	assert.Contains(t, fields, "clientEmail")
	assert.Contains(t, fields, "budgetRange")
}

func TestExecute_PastDate_Rejected(t *testing.T) {
	slots := newFakeSlotRepo(newTestSlot("10:00:00", 1, 0))
	uc := newTestUseCase(slots, newFakeAppointmentRepo(), &fakeClientRepo{})

	req := validRequest("10:00")
	req.Date = testNow.AddDate(0, 0, -1)

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_ConcurrentRequests_NeverOverbook(t *testing.T) {
	const capacity = 3
	const requests = 10

	slot := newTestSlot("10:00:00", capacity, 0)
	slots := newFakeSlotRepo(slot)
	appts := newFakeAppointmentRepo()
	uc := newTestUseCase(slots, appts, &fakeClientRepo{})

	var wg sync.WaitGroup
	results := make(chan error, requests)

	for i := 0; i < requests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Execute(context.Background(), validRequest("10:00"))
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	conflicts := 0
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrSlotFull):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, capacity, succeeded)
	assert.Equal(t, requests-capacity, conflicts)
	assert.Equal(t, capacity, slots.booked(slot.ID))
	assert.Equal(t, capacity, appts.count())
}

func TestExecute_StorageFailure_DoesNotLeakSeat(t *testing.T) {
	slot := newTestSlot("10:00:00", 1, 0)
	slots := newFakeSlotRepo(slot)
	appts := newFakeAppointmentRepo()
	appts.createErr = errors.New("connection reset")
	uc := newTestUseCase(slots, appts, &fakeClientRepo{})

	_, err := uc.Execute(context.Background(), validRequest("10:00"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInternal)

	// Транзакция откатилась, место не потеряно
	assert.Equal(t, 0, slots.booked(slot.ID))
}

func TestExecute_Reschedule_MovesSeatBetweenSlots(t *testing.T) {
	oldSlot := newTestSlot("10:00:00", 1, 1)
	newSlot := newTestSlot("12:00:00", 1, 0)
	slots := newFakeSlotRepo(oldSlot, newSlot)
	appts := newFakeAppointmentRepo()
	uc := newTestUseCase(slots, appts, &fakeClientRepo{})

	existing := &domain.Appointment{
		ID:            uuid.New(),
		SlotID:        oldSlot.ID,
		AgentID:       testAgentID,
		ClientName:    "Laura Jiménez",
		ClientEmail:   "laura@example.com",
		OperationType: domain.OperationRent,
		BudgetRange:   "15000-20000",
		Date:          testDate,
		StartTime:     oldSlot.StartTime,
		Status:        domain.StatusConfirmed,
	}
	appts.put(existing)

	req := validRequest("12:00")
	req.AppointmentID = &existing.ID

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.False(t, resp.Created)
	assert.Equal(t, newSlot.ID, resp.SlotID)
	assert.Equal(t, 0, slots.booked(oldSlot.ID))
	assert.Equal(t, 1, slots.booked(newSlot.ID))

	moved, err := appts.GetByID(context.Background(), existing.ID)
	require.NoError(t, err)
	assert.Equal(t, newSlot.ID, moved.SlotID)
	assert.True(t, moved.StartTime.EqualMinute(newSlot.StartTime))
}

func TestExecute_RescheduleToFullSlot_KeepsOriginalSeat(t *testing.T) {
	oldSlot := newTestSlot("10:00:00", 1, 1)
	fullSlot := newTestSlot("12:00:00", 1, 1)
	slots := newFakeSlotRepo(oldSlot, fullSlot)
	appts := newFakeAppointmentRepo()
	uc := newTestUseCase(slots, appts, &fakeClientRepo{})

	existing := &domain.Appointment{
		ID:            uuid.New(),
		SlotID:        oldSlot.ID,
		AgentID:       testAgentID,
		ClientName:    "Laura Jiménez",
		ClientEmail:   "laura@example.com",
		OperationType: domain.OperationRent,
		BudgetRange:   "15000-20000",
		Date:          testDate,
		StartTime:     oldSlot.StartTime,
		Status:        domain.StatusPending,
	}
	appts.put(existing)

	req := validRequest("12:00")
	req.AppointmentID = &existing.ID

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrSlotFull)

	// Исходное место не тронуто
	assert.Equal(t, 1, slots.booked(oldSlot.ID))
	assert.Equal(t, 1, slots.booked(fullSlot.ID))

	kept, err := appts.GetByID(context.Background(), existing.ID)
	require.NoError(t, err)
	assert.Equal(t, oldSlot.ID, kept.SlotID)
}

func TestExecute_RescheduleCancelledAppointment_Rejected(t *testing.T) {
	slot := newTestSlot("10:00:00", 1, 0)
	slots := newFakeSlotRepo(slot)
	appts := newFakeAppointmentRepo()
	uc := newTestUseCase(slots, appts, &fakeClientRepo{})

	cancelled := &domain.Appointment{
		ID:            uuid.New(),
		SlotID:        uuid.New(),
		AgentID:       testAgentID,
		ClientName:    "Laura Jiménez",
		ClientEmail:   "laura@example.com",
		OperationType: domain.OperationRent,
		BudgetRange:   "15000-20000",
		Date:          testDate,
		StartTime:     types.TimeString("09:00:00"),
		Status:        domain.StatusCancelled,
	}
	appts.put(cancelled)

	req := validRequest("10:00")
	req.AppointmentID = &cancelled.ID

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrAppointmentNotReschedulable)
	assert.Equal(t, 0, slots.booked(slot.ID))
}
