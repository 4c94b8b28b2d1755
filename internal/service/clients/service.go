package clients

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	clientRepo "github.com/m04kA/Realty-BookingService/internal/infra/storage/client"
	"github.com/m04kA/Realty-BookingService/internal/service/clients/models"
)

// Service сервис CRM для работы с клиентами
type Service struct {
	clientRepo ClientRepository
	logger     Logger
}

// NewService создает новый экземпляр сервиса клиентов
func NewService(clientRepo ClientRepository, logger Logger) *Service {
	return &Service{
		clientRepo: clientRepo,
		logger:     logger,
	}
}

// GetByID получает клиента по ID
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*models.ClientResponse, error) {
	s.logger.Info("GetByID: fetching client id=%s", id)

	c, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, clientRepo.ErrClientNotFound) {
			s.logger.Warn("GetByID: client id=%s not found", id)
			return nil, ErrClientNotFound
		}
		s.logger.Error("GetByID: repository error for client id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainClient(c), nil
}

// List получает всех клиентов для дашборда
func (s *Service) List(ctx context.Context) (*models.ClientListResponse, error) {
	clients, err := s.clientRepo.List(ctx)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: fetched %d clients", len(clients))
	return models.FromDomainClientList(clients), nil
}
