// Package reconcile_slots сверяет кешированный счетчик booked
// с фактическим числом активных встреч по слоту.
//
// Штатные операции не должны приводить к рассинхрону: резервирование и
// освобождение мест атомарны. Сверка страхует от ручных правок в БД и
// недоведенных миграций, возвращая счетчик к источнику истины.
package reconcile_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	slotRepo "github.com/m04kA/Realty-BookingService/internal/infra/storage/slot"
)

// UseCase use case сверки счетчиков занятости слотов
type UseCase struct {
	slotRepo        SlotRepository
	appointmentRepo AppointmentRepository
	txManager       TransactionManager
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepository SlotRepository,
	appointmentRepository AppointmentRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:        slotRepository,
		appointmentRepo: appointmentRepository,
		txManager:       txManager,
		logger:          logger,
	}
}

// ReconcileSlot пересчитывает счетчик booked одного слота.
// Возвращает величину расхождения: 0 означает, что счетчик был точен.
// Запись выполняется только при фактическом дрейфе.
func (uc *UseCase) ReconcileSlot(ctx context.Context, slotID uuid.UUID) (int, error) {
	var drift int

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		slot, err := uc.slotRepo.GetByID(txCtx, slotID)
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				return ErrSlotNotFound
			}
			return fmt.Errorf("%w: failed to get slot: %v", ErrInternal, err)
		}

		actual, err := uc.appointmentRepo.CountActiveBySlot(txCtx, slotID)
		if err != nil {
			return fmt.Errorf("%w: failed to count active appointments: %v", ErrInternal, err)
		}

		// Счетчик не может превышать вместимость даже при избытке активных встреч
		if actual > slot.Capacity {
			uc.logger.Warn("ReconcileSlot: slot id=%s has %d active appointments over capacity %d",
				slotID, actual, slot.Capacity)
			actual = slot.Capacity
		}

		drift = actual - slot.Booked
		if drift == 0 {
			return nil
		}

		uc.logger.Warn("ReconcileSlot: slot id=%s booked=%d, actual=%d, repairing",
			slotID, slot.Booked, actual)

		if err := uc.slotRepo.UpdateBooked(txCtx, slotID, actual); err != nil {
			return fmt.Errorf("%w: failed to update booked counter: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return drift, nil
}

// ReconcileAll сверяет все слоты, у которых счетчик может быть неточным:
// слоты с активными встречами и слоты с ненулевым booked без единой
// активной встречи. Возвращает число слотов, у которых счетчик был
// исправлен. Ошибка по одному слоту не прерывает обход остальных.
func (uc *UseCase) ReconcileAll(ctx context.Context) (int, error) {
	activeIDs, err := uc.appointmentRepo.ListActiveSlotIDs(ctx)
	if err != nil {
		uc.logger.Error("ReconcileAll: failed to list active slots: %v", err)
		return 0, fmt.Errorf("%w: failed to list active slots: %v", ErrInternal, err)
	}

	bookedIDs, err := uc.slotRepo.ListBookedIDs(ctx)
	if err != nil {
		uc.logger.Error("ReconcileAll: failed to list booked slots: %v", err)
		return 0, fmt.Errorf("%w: failed to list booked slots: %v", ErrInternal, err)
	}

	seen := make(map[uuid.UUID]struct{}, len(activeIDs)+len(bookedIDs))
	slotIDs := make([]uuid.UUID, 0, len(activeIDs)+len(bookedIDs))
	for _, id := range append(activeIDs, bookedIDs...) {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		slotIDs = append(slotIDs, id)
	}

	repaired := 0
	for _, slotID := range slotIDs {
		drift, err := uc.ReconcileSlot(ctx, slotID)
		if err != nil {
			uc.logger.Error("ReconcileAll: slot id=%s: %v", slotID, err)
			continue
		}
		if drift != 0 {
			repaired++
		}
	}

	uc.logger.Info("ReconcileAll: checked %d slots, repaired %d", len(slotIDs), repaired)
	return repaired, nil
}
