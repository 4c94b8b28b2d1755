package properties

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/m04kA/Realty-BookingService/internal/domain"
	propertyRepo "github.com/m04kA/Realty-BookingService/internal/infra/storage/property"
	"github.com/m04kA/Realty-BookingService/internal/service/properties/models"
)

// Service сервис дашборда для работы с объектами недвижимости
type Service struct {
	propertyRepo PropertyRepository
	logger       Logger
}

// NewService создает новый экземпляр сервиса объектов
func NewService(propertyRepo PropertyRepository, logger Logger) *Service {
	return &Service{
		propertyRepo: propertyRepo,
		logger:       logger,
	}
}

// Create создает объект недвижимости
func (s *Service) Create(ctx context.Context, req *models.CreatePropertyRequest) (*models.PropertyResponse, error) {
	if strings.TrimSpace(req.Title) == "" {
		s.logger.Warn("Create: empty title")
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if req.Price < 0 {
		s.logger.Warn("Create: negative price %f", req.Price)
		return nil, fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}

	property, err := req.ToDomain()
	if err != nil {
		s.logger.Warn("Create: invalid operation type %s", req.OperationType)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	created, err := s.propertyRepo.Create(ctx, property)
	if err != nil {
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: created property id=%s", created.ID)
	return models.FromDomainProperty(created), nil
}

// GetByID получает объект недвижимости по ID
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*models.PropertyResponse, error) {
	s.logger.Info("GetByID: fetching property id=%s", id)

	p, err := s.propertyRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, propertyRepo.ErrPropertyNotFound) {
			s.logger.Warn("GetByID: property id=%s not found", id)
			return nil, ErrPropertyNotFound
		}
		s.logger.Error("GetByID: repository error for property id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainProperty(p), nil
}

// List получает объекты недвижимости, опционально фильтруя по типу операции
func (s *Service) List(ctx context.Context, operationType *string) (*models.PropertyListResponse, error) {
	var domainType *domain.OperationType
	if operationType != nil {
		t := domain.OperationType(*operationType)
		if !t.IsValid() {
			s.logger.Warn("List: invalid operation type %s", *operationType)
			return nil, fmt.Errorf("%w: invalid operation type", ErrInvalidInput)
		}
		domainType = &t
	}

	properties, err := s.propertyRepo.List(ctx, domainType)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: fetched %d properties", len(properties))
	return models.FromDomainPropertyList(properties), nil
}
