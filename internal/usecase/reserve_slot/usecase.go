package reserve_slot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/Realty-BookingService/internal/domain"
	"github.com/m04kA/Realty-BookingService/internal/infra/slotlock"
	apptRepo "github.com/m04kA/Realty-BookingService/internal/infra/storage/appointment"
	slotRepo "github.com/m04kA/Realty-BookingService/internal/infra/storage/slot"
)

// Метки исходов для счетчика бронирований
const (
	resultCreated     = "created"
	resultRescheduled = "rescheduled"
	resultNotFound    = "slot_not_found"
	resultConflict    = "slot_full"
	resultBusy        = "slot_busy"
	resultError       = "error"
)

// UseCase use case бронирования слота: создание встречи или перенос существующей
type UseCase struct {
	slotRepo        SlotRepository
	appointmentRepo AppointmentRepository
	clientRepo      ClientRepository
	locker          SlotLocker
	txManager       TransactionManager
	metrics         ReservationMetrics
	timeProvider    TimeProvider
	logger          Logger

	defaultAgentID  uuid.UUID
	durationMinutes int
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepository SlotRepository,
	appointmentRepository AppointmentRepository,
	clientRepository ClientRepository,
	locker SlotLocker,
	txManager TransactionManager,
	metrics ReservationMetrics,
	logger Logger,
	defaultAgentID uuid.UUID,
	durationMinutes int,
) *UseCase {
	return &UseCase{
		slotRepo:        slotRepository,
		appointmentRepo: appointmentRepository,
		clientRepo:      clientRepository,
		locker:          locker,
		txManager:       txManager,
		metrics:         metrics,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
		defaultAgentID:  defaultAgentID,
		durationMinutes: durationMinutes,
	}
}

// Execute выполняет бронирование слота.
// Проверка вместимости и запись встречи выполняются в сериализуемой
// транзакции поверх условного UPDATE, поэтому при любом уровне
// конкуренции слот не может быть забронирован сверх capacity.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ReserveSlot: email=%s, date=%s, time=%s, update=%t",
		req.ClientEmail, req.Date.Format(domain.DateFormat), req.StartTime.HHMM(), req.AppointmentID != nil)

	// 1. Валидация входных данных
	now := uc.timeProvider.Now()
	if err := validateRequest(req, now); err != nil {
		uc.logger.Warn("ReserveSlot: validation failed: %v", err)
		return nil, err
	}

	// 2. Определяем агента
	agentID := uc.defaultAgentID
	if req.AgentID != nil {
		agentID = *req.AgentID
	}

	// 3. Ищем слот на запрошенные дату и время
	target, err := uc.locateSlot(ctx, req, agentID)
	if err != nil {
		return nil, err
	}

	// 4. Создание или перенос
	if req.AppointmentID != nil {
		return uc.reschedule(ctx, req, target)
	}
	return uc.create(ctx, req, target)
}

// locateSlot находит слот агента с запрошенным временем начала.
// Сравнение времени с точностью до минуты: "10:00" и "10:00:00" - один слот.
func (uc *UseCase) locateSlot(ctx context.Context, req *Request, agentID uuid.UUID) (*domain.Slot, error) {
	slots, err := uc.slotRepo.ListByDateAndAgent(ctx, dateOnly(req.Date), agentID)
	if err != nil {
		uc.logger.Error("ReserveSlot: failed to list slots: %v", err)
		return nil, fmt.Errorf("%w: failed to list slots: %v", ErrInternal, err)
	}

	for _, s := range slots {
		if s.StartTime.EqualMinute(req.StartTime) {
			return s, nil
		}
	}

	// Времена, на которые еще можно записаться, как подсказка клиенту
	availableTimes := make([]string, 0, len(slots))
	for _, s := range slots {
		if s.IsAvailable() {
			availableTimes = append(availableTimes, s.StartTime.HHMM())
		}
	}

	uc.logger.Warn("ReserveSlot: no slot at %s on %s, %d available",
		req.StartTime.HHMM(), req.Date.Format(domain.DateFormat), len(availableTimes))
	uc.incReservation(resultNotFound)

	return nil, &SlotNotFoundError{
		Date:           req.Date,
		RequestedTime:  req.StartTime,
		AvailableTimes: availableTimes,
	}
}

// create бронирует место и создает встречу в статусе pending
func (uc *UseCase) create(ctx context.Context, req *Request, target *domain.Slot) (*Response, error) {
	var created *domain.Appointment

	err := uc.withSlotLock(ctx, target.ID, func(ctx context.Context) error {
		return uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
			// Условный инкремент решает гонку: при занятом слоте - 0 строк
			reserved, err := uc.slotRepo.ReserveSeat(txCtx, target.ID)
			if err != nil {
				if errors.Is(err, slotRepo.ErrSlotFull) {
					return &SlotFullError{Booked: target.Capacity, Capacity: target.Capacity}
				}
				return fmt.Errorf("%w: failed to reserve seat: %v", ErrInternal, err)
			}

			appt := uc.buildAppointment(req, reserved)
			created, err = uc.appointmentRepo.Create(txCtx, appt)
			if err != nil {
				return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
			}

			// CRM контакт создается или освежается той же транзакцией
			if _, err := uc.clientRepo.Upsert(txCtx, &domain.Client{
				Name:  req.ClientName,
				Email: req.ClientEmail,
				Phone: req.ClientPhone,
			}); err != nil {
				return fmt.Errorf("%w: failed to upsert client: %v", ErrInternal, err)
			}

			return nil
		})
	})
	if err != nil {
		uc.observeFailure("create", err)
		return nil, err
	}

	uc.logger.Info("ReserveSlot: created appointment id=%s in slot id=%s", created.ID, created.SlotID)
	uc.incReservation(resultCreated)

	return toResponse(created, true), nil
}

// reschedule переносит существующую встречу на другой слот.
// Место в новом слоте занимается и место в старом освобождается
// одной сериализуемой транзакцией, встреча не может занять два места.
func (uc *UseCase) reschedule(ctx context.Context, req *Request, target *domain.Slot) (*Response, error) {
	appt, err := uc.appointmentRepo.GetByID(ctx, *req.AppointmentID)
	if err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			uc.logger.Warn("ReserveSlot: appointment id=%s not found", *req.AppointmentID)
			return nil, ErrAppointmentNotFound
		}
		uc.logger.Error("ReserveSlot: failed to get appointment id=%s: %v", *req.AppointmentID, err)
		return nil, fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
	}

	if !appt.CanBeRescheduled() {
		uc.logger.Warn("ReserveSlot: appointment id=%s in status %s can not be rescheduled", appt.ID, appt.Status)
		return nil, ErrAppointmentNotReschedulable
	}

	previousSlotID := appt.SlotID
	sameSlot := previousSlotID == target.ID

	err = uc.withSlotLock(ctx, target.ID, func(ctx context.Context) error {
		return uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
			reserved := target

			if !sameSlot {
				var err error
				reserved, err = uc.slotRepo.ReserveSeat(txCtx, target.ID)
				if err != nil {
					if errors.Is(err, slotRepo.ErrSlotFull) {
						return &SlotFullError{Booked: target.Capacity, Capacity: target.Capacity}
					}
					return fmt.Errorf("%w: failed to reserve seat: %v", ErrInternal, err)
				}

				if err := uc.slotRepo.ReleaseSeat(txCtx, previousSlotID); err != nil {
					if !errors.Is(err, slotRepo.ErrNoSeatsToRelease) {
						return fmt.Errorf("%w: failed to release previous seat: %v", ErrInternal, err)
					}
					// Счетчик уже на нуле: рассинхрон исправит фоновая сверка
					uc.logger.Warn("ReserveSlot: previous slot id=%s had no seats to release", previousSlotID)
				}
			}

			applyRequest(appt, req, reserved)
			if err := uc.appointmentRepo.Reschedule(txCtx, appt); err != nil {
				return fmt.Errorf("%w: failed to update appointment: %v", ErrInternal, err)
			}

			if _, err := uc.clientRepo.Upsert(txCtx, &domain.Client{
				Name:  req.ClientName,
				Email: req.ClientEmail,
				Phone: req.ClientPhone,
			}); err != nil {
				return fmt.Errorf("%w: failed to upsert client: %v", ErrInternal, err)
			}

			return nil
		})
	})
	if err != nil {
		uc.observeFailure("reschedule", err)
		return nil, err
	}

	uc.logger.Info("ReserveSlot: rescheduled appointment id=%s from slot id=%s to slot id=%s",
		appt.ID, previousSlotID, appt.SlotID)
	uc.incReservation(resultRescheduled)

	return toResponse(appt, false), nil
}

// withSlotLock сериализует конкурентов на горячем слоте до входа в транзакцию
func (uc *UseCase) withSlotLock(ctx context.Context, slotID uuid.UUID, fn func(ctx context.Context) error) error {
	err := uc.locker.WithSlotLock(ctx, slotID, fn)
	if errors.Is(err, slotlock.ErrLockNotAcquired) {
		return ErrSlotBusy
	}
	return err
}

func (uc *UseCase) buildAppointment(req *Request, slot *domain.Slot) *domain.Appointment {
	return &domain.Appointment{
		SlotID:          slot.ID,
		AgentID:         slot.AgentID,
		PropertyID:      req.PropertyID,
		ClientName:      req.ClientName,
		ClientEmail:     req.ClientEmail,
		ClientPhone:     req.ClientPhone,
		OperationType:   req.OperationType,
		BudgetRange:     req.BudgetRange,
		Company:         req.Company,
		Financing:       req.Financing,
		Date:            slot.Date,
		StartTime:       slot.StartTime,
		DurationMinutes: uc.durationMinutes,
		Notes:           req.Notes,
		Status:          domain.StatusPending,
	}
}

// applyRequest переносит детали запроса на существующую встречу
func applyRequest(appt *domain.Appointment, req *Request, slot *domain.Slot) {
	appt.SlotID = slot.ID
	appt.AgentID = slot.AgentID
	appt.PropertyID = req.PropertyID
	appt.ClientName = req.ClientName
	appt.ClientPhone = req.ClientPhone
	appt.OperationType = req.OperationType
	appt.BudgetRange = req.BudgetRange
	appt.Company = req.Company
	appt.Financing = req.Financing
	appt.Date = slot.Date
	appt.StartTime = slot.StartTime
	appt.Notes = req.Notes
}

func (uc *UseCase) observeFailure(op string, err error) {
	switch {
	case errors.Is(err, ErrSlotFull):
		uc.logger.Warn("ReserveSlot: %s rejected, slot is full: %v", op, err)
		uc.incReservation(resultConflict)
	case errors.Is(err, ErrSlotBusy):
		uc.logger.Warn("ReserveSlot: %s rejected, slot is busy", op)
		uc.incReservation(resultBusy)
	default:
		uc.logger.Error("ReserveSlot: %s failed: %v", op, err)
		uc.incReservation(resultError)
	}
}

func (uc *UseCase) incReservation(result string) {
	if uc.metrics != nil {
		uc.metrics.IncReservation(result)
	}
}

func toResponse(appt *domain.Appointment, created bool) *Response {
	return &Response{
		Created:         created,
		AppointmentID:   appt.ID,
		SlotID:          appt.SlotID,
		AgentID:         appt.AgentID,
		PropertyID:      appt.PropertyID,
		ClientName:      appt.ClientName,
		ClientEmail:     appt.ClientEmail,
		ClientPhone:     appt.ClientPhone,
		OperationType:   string(appt.OperationType),
		BudgetRange:     appt.BudgetRange,
		Date:            appt.Date,
		StartTime:       appt.StartTime,
		DurationMinutes: appt.DurationMinutes,
		Notes:           appt.Notes,
		Status:          string(appt.Status),
		CreatedAt:       appt.CreatedAt,
		UpdatedAt:       appt.UpdatedAt,
	}
}

// dateOnly обнуляет компонент времени, в БД дата хранится без времени
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
