package appointment

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/Realty-BookingService/internal/domain"
	"github.com/m04kA/Realty-BookingService/pkg/dbmetrics"
	"github.com/m04kA/Realty-BookingService/pkg/psqlbuilder"
	"github.com/m04kA/Realty-BookingService/pkg/types"
)

var appointmentColumns = []string{
	"id",
	"slot_id",
	"agent_id",
	"property_id",
	"client_name",
	"client_email",
	"client_phone",
	"operation_type",
	"budget_range",
	"company",
	"financing",
	"date",
	"start_time",
	"duration_minutes",
	"notes",
	"status",
	"created_at",
	"updated_at",
	"confirmed_at",
	"cancelled_at",
}

// Repository репозиторий для работы со встречами
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория встреч
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую встречу в статусе pending
func (r *Repository) Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	financing, err := marshalFinancing(appt.Financing)
	if err != nil {
		return nil, err
	}

	query, args, err := psqlbuilder.Insert("appointments").
		Columns(
			"slot_id", "agent_id", "property_id",
			"client_name", "client_email", "client_phone",
			"operation_type", "budget_range", "company", "financing",
			"date", "start_time", "duration_minutes", "notes", "status",
		).
		Values(
			appt.SlotID, appt.AgentID, appt.PropertyID,
			appt.ClientName, appt.ClientEmail, appt.ClientPhone,
			appt.OperationType, appt.BudgetRange, appt.Company, financing,
			appt.Date, appt.StartTime, appt.DurationMinutes, appt.Notes, appt.Status,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&appt.ID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	appt.CreatedAt = createdAt.Time
	appt.UpdatedAt = updatedAt.Time

	return appt, nil
}

// GetByID получает встречу по ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	appt, err := scanAppointmentRow(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %v", ErrScanRow, err)
	}

	return appt, nil
}

// CountActiveBySlot считает встречи в статусах pending/confirmed по слоту.
// Источник истины для сверки счетчика booked.
func (r *Repository) CountActiveBySlot(ctx context.Context, slotID uuid.UUID) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("appointments").
		Where(squirrel.Eq{"slot_id": slotID}).
		Where(squirrel.Eq{"status": domain.ActiveStatuses}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountActiveBySlot - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountActiveBySlot - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}

// List получает встречи по фильтру для дашборда,
// отсортированные по дате и времени начала
func (r *Repository) List(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		OrderBy("date ASC, start_time ASC, created_at ASC")

	if filter.AgentID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"agent_id": *filter.AgentID})
	}
	if filter.SlotID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"slot_id": *filter.SlotID})
	}
	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"date": *filter.StartDate})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"date": *filter.EndDate})
	}
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
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

	return scanAppointments(rows)
}

// ListActiveSlotIDs возвращает ID слотов, у которых есть активные встречи.
// Используется сверкой для обхода только затронутых слотов.
func (r *Repository) ListActiveSlotIDs(ctx context.Context) ([]uuid.UUID, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("DISTINCT slot_id").
		From("appointments").
		Where(squirrel.Eq{"status": domain.ActiveStatuses}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveSlotIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveSlotIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: ListActiveSlotIDs - scan row: %v", ErrScanRow, err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListActiveSlotIDs - rows error: %v", ErrScanRow, err)
	}

	return ids, nil
}

// UpdateStatus переводит встречу в новый статус.
// Проставляет confirmed_at / cancelled_at для соответствующих переходов.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.AppointmentStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("appointments").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id})

	switch status {
	case domain.StatusConfirmed:
		updateBuilder = updateBuilder.Set("confirmed_at", squirrel.Expr("NOW()"))
	case domain.StatusCancelled:
		updateBuilder = updateBuilder.Set("cancelled_at", squirrel.Expr("NOW()"))
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

// Reschedule переносит встречу на другой слот.
// Обновляет slot_id, дату, время и детали; статус не трогает.
func (r *Repository) Reschedule(ctx context.Context, appt *domain.Appointment) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	financing, err := marshalFinancing(appt.Financing)
	if err != nil {
		return err
	}

	query, args, err := psqlbuilder.Update("appointments").
		Set("slot_id", appt.SlotID).
		Set("property_id", appt.PropertyID).
		Set("client_name", appt.ClientName).
		Set("client_phone", appt.ClientPhone).
		Set("operation_type", appt.OperationType).
		Set("budget_range", appt.BudgetRange).
		Set("company", appt.Company).
		Set("financing", financing).
		Set("date", appt.Date).
		Set("start_time", appt.StartTime).
		Set("notes", appt.Notes).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": appt.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Reschedule - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Reschedule - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Reschedule - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

func marshalFinancing(f *domain.FinancingDetails) ([]byte, error) {
	if f == nil {
		return nil, nil
	}
	data, err := json.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMarshalFinancing, err)
	}
	return data, nil
}

// rowScanner объединяет *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAppointmentRow(row rowScanner) (*domain.Appointment, error) {
	var (
		appt        domain.Appointment
		propertyID  uuid.NullUUID
		clientPhone sql.NullString
		company     sql.NullString
		financing   []byte
		startTime   types.TimeString
		notes       sql.NullString
		createdAt   sql.NullTime
		updatedAt   sql.NullTime
		confirmedAt sql.NullTime
		cancelledAt sql.NullTime
	)

	err := row.Scan(
		&appt.ID,
		&appt.SlotID,
		&appt.AgentID,
		&propertyID,
		&appt.ClientName,
		&appt.ClientEmail,
		&clientPhone,
		&appt.OperationType,
		&appt.BudgetRange,
		&company,
		&financing,
		&appt.Date,
		&startTime,
		&appt.DurationMinutes,
		&notes,
		&appt.Status,
		&createdAt,
		&updatedAt,
		&confirmedAt,
		&cancelledAt,
	)
	if err != nil {
		return nil, err
	}

	appt.StartTime = startTime
	appt.CreatedAt = createdAt.Time
	appt.UpdatedAt = updatedAt.Time

	if propertyID.Valid {
		appt.PropertyID = &propertyID.UUID
	}
	if clientPhone.Valid {
		appt.ClientPhone = &clientPhone.String
	}
	if company.Valid {
		appt.Company = &company.String
	}
	if notes.Valid {
		appt.Notes = &notes.String
	}
	if confirmedAt.Valid {
		t := confirmedAt.Time
		appt.ConfirmedAt = &t
	}
	if cancelledAt.Valid {
		t := cancelledAt.Time
		appt.CancelledAt = &t
	}

	if len(financing) > 0 {
		var details domain.FinancingDetails
		if err := json.Unmarshal(financing, &details); err != nil {
			return nil, fmt.Errorf("unmarshal financing: %v", err)
		}
		appt.Financing = &details
	}

	return &appt, nil
}

func scanAppointments(rows *sql.Rows) ([]*domain.Appointment, error) {
	appointments := make([]*domain.Appointment, 0)

	for rows.Next() {
		appt, err := scanAppointmentRow(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanAppointments - scan row: %v", ErrScanRow, err)
		}
		appointments = append(appointments, appt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanAppointments - rows error: %v", ErrScanRow, err)
	}

	return appointments, nil
}
