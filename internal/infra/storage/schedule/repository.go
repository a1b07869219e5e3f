package schedule

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

// Repository репозиторий недельных расписаний сотрудников и датированных исключений
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписаний
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetWeekly получает недельное расписание сотрудника (до 7 строк, по дням недели)
func (r *Repository) GetWeekly(ctx context.Context, staffID int64) ([]*domain.StaffSchedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"staff_id",
		"weekday",
		"start_time",
		"end_time",
		"is_active",
		"created_at",
		"updated_at",
	).
		From("staff_schedules").
		Where(squirrel.Eq{"staff_id": staffID}).
		OrderBy("weekday ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetWeekly - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetWeekly - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	schedules := make([]*domain.StaffSchedule, 0, domain.WeekdaysCount)

	for rows.Next() {
		var s domain.StaffSchedule
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&s.ID,
			&s.StaffID,
			&s.Weekday,
			&s.StartTime,
			&s.EndTime,
			&s.IsActive,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: GetWeekly - scan row: %v", ErrScanRow, err)
		}

		s.CreatedAt = createdAt.Time
		s.UpdatedAt = updatedAt.Time

		schedules = append(schedules, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetWeekly - rows error: %v", ErrScanRow, err)
	}

	return schedules, nil
}

// SaveWeekly атомарно заменяет недельное расписание сотрудника
//
// Должен вызываться внутри транзакции (через TransactionManager): delete+insert
// без транзакции может оставить сотрудника с частичным расписанием при сбое
func (r *Repository) SaveWeekly(ctx context.Context, staffID int64, schedules []*domain.StaffSchedule) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	for _, s := range schedules {
		if s.Weekday < 0 || s.Weekday >= domain.WeekdaysCount {
			return fmt.Errorf("%w: got %d", ErrInvalidWeekday, s.Weekday)
		}
	}

	deleteQuery, deleteArgs, err := psqlbuilder.Delete("staff_schedules").
		Where(squirrel.Eq{"staff_id": staffID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: SaveWeekly - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return fmt.Errorf("%w: SaveWeekly - execute delete: %v", ErrExecQuery, err)
	}

	if len(schedules) == 0 {
		return nil
	}

	insertBuilder := psqlbuilder.Insert("staff_schedules").
		Columns("staff_id", "weekday", "start_time", "end_time", "is_active")

	for _, s := range schedules {
		insertBuilder = insertBuilder.Values(staffID, s.Weekday, s.StartTime, s.EndTime, s.IsActive)
	}

	insertQuery, insertArgs, err := insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: SaveWeekly - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
		return fmt.Errorf("%w: SaveWeekly - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// GetExceptionByDate получает исключение сотрудника на конкретную дату
// Возвращает nil без ошибки, если исключения нет
func (r *Repository) GetExceptionByDate(ctx context.Context, staffID int64, date time.Time) (*domain.ScheduleException, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectExceptions().
		Where(squirrel.Eq{"staff_id": staffID}).
		Where(squirrel.Eq{"exception_date": date}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetExceptionByDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetExceptionByDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	exceptions, err := scanExceptions(rows)
	if err != nil {
		return nil, err
	}
	if len(exceptions) == 0 {
		return nil, nil
	}

	return exceptions[0], nil
}

// GetExceptions получает исключения сотрудника в диапазоне дат [from, to]
func (r *Repository) GetExceptions(ctx context.Context, staffID int64, from, to time.Time) ([]*domain.ScheduleException, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectExceptions().
		Where(squirrel.Eq{"staff_id": staffID}).
		Where(squirrel.GtOrEq{"exception_date": from}).
		Where(squirrel.LtOrEq{"exception_date": to}).
		OrderBy("exception_date ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetExceptions - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetExceptions - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanExceptions(rows)
}

// UpsertException создает или обновляет исключение по ключу (staff_id, date)
func (r *Repository) UpsertException(ctx context.Context, exc *domain.ScheduleException) (*domain.ScheduleException, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("schedule_exceptions").
		Columns("staff_id", "exception_date", "is_day_off", "start_time", "end_time").
		Values(exc.StaffID, exc.Date, exc.IsDayOff, exc.StartTime, exc.EndTime).
		Suffix("ON CONFLICT (staff_id, exception_date) DO UPDATE SET " +
			"is_day_off = EXCLUDED.is_day_off, " +
			"start_time = EXCLUDED.start_time, " +
			"end_time = EXCLUDED.end_time, " +
			"updated_at = NOW() " +
			"RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: UpsertException - build upsert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&exc.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: UpsertException - execute upsert: %v", ErrExecQuery, err)
	}

	exc.CreatedAt = createdAt.Time
	exc.UpdatedAt = updatedAt.Time

	return exc, nil
}

// DeleteException удаляет исключение сотрудника на дату
func (r *Repository) DeleteException(ctx context.Context, staffID int64, date time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("schedule_exceptions").
		Where(squirrel.Eq{"staff_id": staffID}).
		Where(squirrel.Eq{"exception_date": date}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DeleteException - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteException - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteException - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrExceptionNotFound
	}

	return nil
}

func selectExceptions() squirrel.SelectBuilder {
	return psqlbuilder.Select(
		"id",
		"staff_id",
		"exception_date",
		"is_day_off",
		"start_time",
		"end_time",
		"created_at",
		"updated_at",
	).From("schedule_exceptions")
}

// scanExceptions сканирует результаты запроса в слайс исключений
func scanExceptions(rows *sql.Rows) ([]*domain.ScheduleException, error) {
	exceptions := make([]*domain.ScheduleException, 0)

	for rows.Next() {
		var exc domain.ScheduleException
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&exc.ID,
			&exc.StaffID,
			&exc.Date,
			&exc.IsDayOff,
			&exc.StartTime,
			&exc.EndTime,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanExceptions - scan row: %v", ErrScanRow, err)
		}

		exc.CreatedAt = createdAt.Time
		exc.UpdatedAt = updatedAt.Time

		exceptions = append(exceptions, &exc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanExceptions - rows error: %v", ErrScanRow, err)
	}

	return exceptions, nil
}
