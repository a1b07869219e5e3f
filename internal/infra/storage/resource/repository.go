package resource

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Repository репозиторий для работы с ресурсами и их занятостью
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория ресурсов
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает ресурс по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Resource, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectResources().
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	resources, err := scanResources(rows)
	if err != nil {
		return nil, err
	}
	if len(resources) == 0 {
		return nil, ErrResourceNotFound
	}

	return resources[0], nil
}

// GetEligibleByService получает ресурсы, на которых может выполняться услуга,
// в стабильном порядке (id ASC)
//
// Если у услуги нет явного маппинга service_resources, подходят все активные
// ресурсы - услуга считается неограниченной
func (r *Repository) GetEligibleByService(ctx context.Context, serviceID int64) ([]*domain.Resource, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectResources().
		Join("service_resources sr ON sr.resource_id = resources.id").
		Where(squirrel.Eq{"sr.service_id": serviceID}).
		Where(squirrel.Eq{"resources.is_active": true}).
		OrderBy("resources.id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetEligibleByService - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetEligibleByService - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	resources, err := scanResources(rows)
	if err != nil {
		return nil, err
	}

	// Пустой маппинг = услуга не ограничена конкретными ресурсами
	if len(resources) == 0 {
		return r.ListActive(ctx)
	}

	return resources, nil
}

// ListActive получает все активные ресурсы в стабильном порядке (id ASC)
func (r *Repository) ListActive(ctx context.Context) ([]*domain.Resource, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectResources().
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListActive - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActive - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanResources(rows)
}

// GetBlockedResources подсчитывает занятость ресурсов в окне [windowStart, windowEnd)
// на указанную дату: resource_id -> число записей, пересекающих окно
//
// Учитываются только записи в переданных статусах (политика площадки решает,
// считать ли pending-удержания). Пересечение полуоткрытое: записи, граничащие
// с окном по краю, не считаются
func (r *Repository) GetBlockedResources(
	ctx context.Context,
	date time.Time,
	windowStart, windowEnd types.TimeString,
	statuses []domain.AppointmentStatus,
) (map[int64]int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	statusStrings := make([]string, len(statuses))
	for i, s := range statuses {
		statusStrings[i] = string(s)
	}

	query, args, err := psqlbuilder.Select(
		"ar.resource_id",
		"a.start_time",
		"a.duration_minutes",
	).
		From("appointment_resources ar").
		Join("appointments a ON a.id = ar.appointment_id").
		Where(squirrel.Eq{"a.appointment_date": date}).
		Where(squirrel.Eq{"a.status": statusStrings}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetBlockedResources - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetBlockedResources - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	blocked := make(map[int64]int)

	for rows.Next() {
		var resourceID int64
		var startTime types.TimeString
		var durationMinutes int

		if err := rows.Scan(&resourceID, &startTime, &durationMinutes); err != nil {
			return nil, fmt.Errorf("%w: GetBlockedResources - scan row: %v", ErrScanRow, err)
		}

		endTime, err := startTime.AddMinutes(durationMinutes)
		if err != nil {
			// Некорректный интервал в хранилище; запись пропускается
			continue
		}

		// Полуоткрытое пересечение: start < windowEnd AND end > windowStart
		if startTime.IsBefore(windowEnd) && endTime.IsAfter(windowStart) {
			blocked[resourceID]++
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetBlockedResources - rows error: %v", ErrScanRow, err)
	}

	return blocked, nil
}

// GetDayOccupancy получает все назначения ресурсов на дату в указанных статусах
// Используется калькулятором доступности: занятость считается в памяти
// для всех кандидатных окон дня без повторных запросов к БД
func (r *Repository) GetDayOccupancy(
	ctx context.Context,
	date time.Time,
	statuses []domain.AppointmentStatus,
) ([]Occupancy, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	statusStrings := make([]string, len(statuses))
	for i, s := range statuses {
		statusStrings[i] = string(s)
	}

	query, args, err := psqlbuilder.Select(
		"ar.resource_id",
		"a.start_time",
		"a.duration_minutes",
	).
		From("appointment_resources ar").
		Join("appointments a ON a.id = ar.appointment_id").
		Where(squirrel.Eq{"a.appointment_date": date}).
		Where(squirrel.Eq{"a.status": statusStrings}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetDayOccupancy - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetDayOccupancy - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	occupancy := make([]Occupancy, 0)

	for rows.Next() {
		var occ Occupancy
		if err := rows.Scan(&occ.ResourceID, &occ.StartTime, &occ.DurationMinutes); err != nil {
			return nil, fmt.Errorf("%w: GetDayOccupancy - scan row: %v", ErrScanRow, err)
		}
		occupancy = append(occupancy, occ)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetDayOccupancy - rows error: %v", ErrScanRow, err)
	}

	return occupancy, nil
}

// Assign назначает ресурс записи
// У записи может быть не более одного ресурса (unique по appointment_id)
func (r *Repository) Assign(ctx context.Context, appointmentID, resourceID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("appointment_resources").
		Columns("appointment_id", "resource_id").
		Values(appointmentID, resourceID).
		Suffix("ON CONFLICT (appointment_id) DO NOTHING").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Assign - build insert query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Assign - execute insert: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Assign - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrAlreadyAssigned
	}

	return nil
}

// GetAssignment получает ресурс, назначенный записи
// Возвращает nil без ошибки, если ресурс не назначен
func (r *Repository) GetAssignment(ctx context.Context, appointmentID int64) (*int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("resource_id").
		From("appointment_resources").
		Where(squirrel.Eq{"appointment_id": appointmentID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetAssignment - build select query: %v", ErrBuildQuery, err)
	}

	var resourceID int64
	err = executor.QueryRowContext(ctx, query, args...).Scan(&resourceID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetAssignment - scan row: %v", ErrScanRow, err)
	}

	return &resourceID, nil
}

func selectResources() squirrel.SelectBuilder {
	return psqlbuilder.Select(
		"resources.id",
		"resources.name",
		"resources.staff_id",
		"resources.capacity",
		"resources.is_active",
		"resources.created_at",
		"resources.updated_at",
	).From("resources")
}

// scanResources сканирует результаты запроса в слайс ресурсов
func scanResources(rows *sql.Rows) ([]*domain.Resource, error) {
	resources := make([]*domain.Resource, 0)

	for rows.Next() {
		var res domain.Resource
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&res.ID,
			&res.Name,
			&res.StaffID,
			&res.Capacity,
			&res.IsActive,
			&createdAt,
			&updatedAt,
		)

		if err != nil {
			return nil, fmt.Errorf("%w: scanResources - scan row: %v", ErrScanRow, err)
		}

		res.CreatedAt = createdAt.Time
		res.UpdatedAt = updatedAt.Time

		resources = append(resources, &res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanResources - rows error: %v", ErrScanRow, err)
	}

	return resources, nil
}
