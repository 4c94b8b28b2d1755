package property

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/Realty-BookingService/internal/domain"
	"github.com/m04kA/Realty-BookingService/pkg/dbmetrics"
	"github.com/m04kA/Realty-BookingService/pkg/psqlbuilder"
)

var propertyColumns = []string{
	"id",
	"title",
	"description",
	"operation_type",
	"price",
	"location",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с объектами недвижимости
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория объектов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает объект недвижимости
func (r *Repository) Create(ctx context.Context, p *domain.Property) (*domain.Property, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("properties").
		Columns("title", "description", "operation_type", "price", "location").
		Values(p.Title, p.Description, p.OperationType, p.Price, p.Location).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&p.ID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	p.CreatedAt = createdAt.Time
	p.UpdatedAt = updatedAt.Time

	return p, nil
}

// GetByID получает объект недвижимости по ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Property, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(propertyColumns...).
		From("properties").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	p, err := scanPropertyRow(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrPropertyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan property: %v", ErrScanRow, err)
	}

	return p, nil
}

// List получает объекты недвижимости, опционально фильтруя по типу операции
func (r *Repository) List(ctx context.Context, operationType *domain.OperationType) ([]*domain.Property, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(propertyColumns...).
		From("properties").
		OrderBy("created_at DESC")

	if operationType != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"operation_type": *operationType})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	properties := make([]*domain.Property, 0)
	for rows.Next() {
		p, err := scanPropertyRow(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		properties = append(properties, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return properties, nil
}

// rowScanner объединяет *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPropertyRow(row rowScanner) (*domain.Property, error) {
	var p domain.Property
	var description, location sql.NullString
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&p.ID,
		&p.Title,
		&description,
		&p.OperationType,
		&p.Price,
		&location,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if description.Valid {
		p.Description = &description.String
	}
	if location.Valid {
		p.Location = &location.String
	}
	p.CreatedAt = createdAt.Time
	p.UpdatedAt = updatedAt.Time

	return &p, nil
}
