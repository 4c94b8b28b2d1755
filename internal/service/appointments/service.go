package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/Realty-BookingService/internal/domain"
	apptRepo "github.com/m04kA/Realty-BookingService/internal/infra/storage/appointment"
	slotRepo "github.com/m04kA/Realty-BookingService/internal/infra/storage/slot"
	"github.com/m04kA/Realty-BookingService/internal/service/appointments/models"
)

// Service сервис дашборда для работы со встречами
type Service struct {
	appointmentRepo AppointmentRepository
	slotRepo        SlotRepository
	txManager       TransactionManager
	logger          Logger
}

// NewService создает новый экземпляр сервиса встреч
func NewService(
	appointmentRepo AppointmentRepository,
	slotRepo SlotRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		slotRepo:        slotRepo,
		txManager:       txManager,
		logger:          logger,
	}
}

// GetByID получает встречу по ID
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%s", id)

	appt, err := s.getAppointment(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	return models.FromDomainAppointment(appt), nil
}

// List получает встречи по фильтру для дашборда
func (s *Service) List(ctx context.Context, req *models.ListAppointmentsRequest) (*models.AppointmentListResponse, error) {
	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("List: invalid status=%v", req.Status)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	appointments, err := s.appointmentRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: fetched %d appointments", len(appointments))
	return models.FromDomainAppointmentList(appointments), nil
}

// Confirm подтверждает встречу: pending -> confirmed.
// Место в слоте остается занятым.
func (s *Service) Confirm(ctx context.Context, id uuid.UUID) (*models.AppointmentResponse, error) {
	s.logger.Info("Confirm: appointment id=%s", id)
	return s.transition(ctx, "Confirm", id, domain.StatusConfirmed)
}

// Complete завершает встречу: confirmed -> completed.
// Финальный статус, место в слоте освобождается.
func (s *Service) Complete(ctx context.Context, id uuid.UUID) (*models.AppointmentResponse, error) {
	s.logger.Info("Complete: appointment id=%s", id)
	return s.transition(ctx, "Complete", id, domain.StatusCompleted)
}

// Cancel отменяет встречу: pending|confirmed -> cancelled.
// Статус и счетчик слота меняются одной транзакцией,
// освобожденное место сразу видно в календаре.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*models.AppointmentResponse, error) {
	s.logger.Info("Cancel: appointment id=%s", id)
	return s.transition(ctx, "Cancel", id, domain.StatusCancelled)
}

// transition переводит встречу в новый статус с проверкой машины состояний.
// Переходы в финальные статусы освобождают место в слоте той же транзакцией.
func (s *Service) transition(ctx context.Context, op string, id uuid.UUID, next domain.AppointmentStatus) (*models.AppointmentResponse, error) {
	var result *domain.Appointment

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		appt, err := s.getAppointment(txCtx, op, id)
		if err != nil {
			return err
		}

		if !appt.CanTransitionTo(next) {
			s.logger.Warn("%s: appointment id=%s can not go %s -> %s", op, id, appt.Status, next)
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, appt.Status, next)
		}

		wasActive := appt.IsActive()

		if err := s.appointmentRepo.UpdateStatus(txCtx, id, next); err != nil {
			s.logger.Error("%s: failed to update status for appointment id=%s: %v", op, id, err)
			return fmt.Errorf("%w: %s - update status: %v", ErrInternal, op, err)
		}

		// Уход в финальный статус освобождает место
		if wasActive && isTerminal(next) {
			if err := s.slotRepo.ReleaseSeat(txCtx, appt.SlotID); err != nil {
				if !errors.Is(err, slotRepo.ErrNoSeatsToRelease) {
					s.logger.Error("%s: failed to release seat in slot id=%s: %v", op, appt.SlotID, err)
					return fmt.Errorf("%w: %s - release seat: %v", ErrInternal, op, err)
				}
				// Счетчик уже на нуле: рассинхрон исправит фоновая сверка
				s.logger.Warn("%s: slot id=%s had no seats to release", op, appt.SlotID)
			}
		}

		result, err = s.appointmentRepo.GetByID(txCtx, id)
		if err != nil {
			return fmt.Errorf("%w: %s - reload appointment: %v", ErrInternal, op, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("%s: appointment id=%s is now %s", op, id, result.Status)
	return models.FromDomainAppointment(result), nil
}

func (s *Service) getAppointment(ctx context.Context, op string, id uuid.UUID) (*domain.Appointment, error) {
	appt, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			s.logger.Warn("%s: appointment id=%s not found", op, id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("%s: repository error for appointment id=%s: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return appt, nil
}

func isTerminal(status domain.AppointmentStatus) bool {
	return status == domain.StatusCancelled || status == domain.StatusCompleted
}
