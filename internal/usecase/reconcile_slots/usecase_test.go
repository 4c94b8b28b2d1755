package reconcile_slots

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/Realty-BookingService/internal/domain"
	slotRepo "github.com/m04kA/Realty-BookingService/internal/infra/storage/slot"
	"github.com/m04kA/Realty-BookingService/pkg/types"
)

type fakeSlotRepo struct {
	slots   map[uuid.UUID]*domain.Slot
	updates map[uuid.UUID]int
}

func newFakeSlotRepo(slots ...*domain.Slot) *fakeSlotRepo {
	repo := &fakeSlotRepo{
		slots:   make(map[uuid.UUID]*domain.Slot),
		updates: make(map[uuid.UUID]int),
	}
	for _, s := range slots {
		repo.slots[s.ID] = s
	}
	return repo
}

func (r *fakeSlotRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Slot, error) {
	s, ok := r.slots[id]
	if !ok {
		return nil, slotRepo.ErrSlotNotFound
	}
	copied := *s
	return &copied, nil
}

func (r *fakeSlotRepo) ListBookedIDs(_ context.Context) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0)
	for id, s := range r.slots {
		if s.Booked > 0 {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r *fakeSlotRepo) UpdateBooked(_ context.Context, id uuid.UUID, booked int) error {
	r.slots[id].Booked = booked
	r.updates[id] = booked
	return nil
}

type fakeAppointmentRepo struct {
	activeBySlot map[uuid.UUID]int
}

func (r *fakeAppointmentRepo) CountActiveBySlot(_ context.Context, slotID uuid.UUID) (int, error) {
	return r.activeBySlot[slotID], nil
}

func (r *fakeAppointmentRepo) ListActiveSlotIDs(_ context.Context) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(r.activeBySlot))
	for id := range r.activeBySlot {
		ids = append(ids, id)
	}
	return ids, nil
}

type passthroughTxManager struct{}

func (passthroughTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

func testSlot(capacity, booked int) *domain.Slot {
	return &domain.Slot{
		ID:        uuid.New(),
		AgentID:   uuid.New(),
		Date:      time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC),
		StartTime: types.TimeString("10:00:00"),
		Capacity:  capacity,
		Booked:    booked,
		Enabled:   true,
	}
}

func newTestUseCase(slots *fakeSlotRepo, appts *fakeAppointmentRepo) *UseCase {
	return NewUseCase(slots, appts, passthroughTxManager{}, noopLogger{})
}

func TestReconcileSlot_RepairsDrift(t *testing.T) {
	slot := testSlot(3, 3)
	slots := newFakeSlotRepo(slot)
	appts := &fakeAppointmentRepo{activeBySlot: map[uuid.UUID]int{slot.ID: 1}}
	uc := newTestUseCase(slots, appts)

	drift, err := uc.ReconcileSlot(context.Background(), slot.ID)
	require.NoError(t, err)

	assert.Equal(t, -2, drift)
	assert.Equal(t, 1, slots.updates[slot.ID])
	assert.Equal(t, 1, slots.slots[slot.ID].Booked)
}

func TestReconcileSlot_AccurateCounter_NoWrite(t *testing.T) {
	slot := testSlot(3, 2)
	slots := newFakeSlotRepo(slot)
	appts := &fakeAppointmentRepo{activeBySlot: map[uuid.UUID]int{slot.ID: 2}}
	uc := newTestUseCase(slots, appts)

	drift, err := uc.ReconcileSlot(context.Background(), slot.ID)
	require.NoError(t, err)

	assert.Zero(t, drift)
	assert.Empty(t, slots.updates)
}

func TestReconcileSlot_ClampsToCapacity(t *testing.T) {
	slot := testSlot(2, 0)
	slots := newFakeSlotRepo(slot)
	// Активных встреч больше вместимости, счетчик прижимается к capacity
	appts := &fakeAppointmentRepo{activeBySlot: map[uuid.UUID]int{slot.ID: 5}}
	uc := newTestUseCase(slots, appts)

	drift, err := uc.ReconcileSlot(context.Background(), slot.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, drift)
	assert.Equal(t, 2, slots.updates[slot.ID])
}

func TestReconcileSlot_NotFound(t *testing.T) {
	uc := newTestUseCase(newFakeSlotRepo(), &fakeAppointmentRepo{})

	_, err := uc.ReconcileSlot(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrSlotNotFound)
}

func TestReconcileAll_CountsRepairedSlots(t *testing.T) {
	drifted := testSlot(3, 3)
	accurate := testSlot(3, 1)
	slots := newFakeSlotRepo(drifted, accurate)
	appts := &fakeAppointmentRepo{activeBySlot: map[uuid.UUID]int{
		drifted.ID:  1,
		accurate.ID: 1,
	}}
	uc := newTestUseCase(slots, appts)

	repaired, err := uc.ReconcileAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, repaired)
	assert.Equal(t, 1, slots.slots[drifted.ID].Booked)
	assert.Equal(t, 1, slots.slots[accurate.ID].Booked)
}

func TestReconcileAll_RepairsOrphanedCounter(t *testing.T) {
	// Все встречи слота отменены, но счетчик остался ненулевым
	orphaned := testSlot(3, 2)
	slots := newFakeSlotRepo(orphaned)
	appts := &fakeAppointmentRepo{activeBySlot: map[uuid.UUID]int{}}
	uc := newTestUseCase(slots, appts)

	repaired, err := uc.ReconcileAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, repaired)
	assert.Equal(t, 0, slots.slots[orphaned.ID].Booked)
}

func TestReconcileAll_SlotErrorDoesNotAbortOthers(t *testing.T) {
	drifted := testSlot(3, 0)
	slots := newFakeSlotRepo(drifted)
	// Второй слот отсутствует в репозитории, его сверка падает
	appts := &fakeAppointmentRepo{activeBySlot: map[uuid.UUID]int{
		drifted.ID: 2,
		uuid.New(): 1,
	}}
	uc := newTestUseCase(slots, appts)

	repaired, err := uc.ReconcileAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, repaired)
	assert.Equal(t, 2, slots.slots[drifted.ID].Booked)
}
