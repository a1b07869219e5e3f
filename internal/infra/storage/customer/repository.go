package customer

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

// Repository репозиторий для работы с клиентами
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория клиентов
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// UpsertByEmail находит или создает клиента по email (ключ нормализуется
// к нижнему регистру); при совпадении обновляет имя и телефон
func (r *Repository) UpsertByEmail(ctx context.Context, email, name string, phone *string) (*domain.Customer, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	normalized := strings.ToLower(strings.TrimSpace(email))

	query, args, err := psqlbuilder.Insert("customers").
		Columns("email", "name", "phone").
		Values(normalized, name, phone).
		Suffix("ON CONFLICT (email) DO UPDATE SET " +
			"name = EXCLUDED.name, " +
			"phone = COALESCE(EXCLUDED.phone, customers.phone), " +
			"updated_at = NOW() " +
			"RETURNING id, email, name, phone, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: UpsertByEmail - build upsert query: %v", ErrBuildQuery, err)
	}

	var cust domain.Customer
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&cust.ID,
		&cust.Email,
		&cust.Name,
		&cust.Phone,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: UpsertByEmail - execute upsert: %v", ErrExecQuery, err)
	}

	cust.CreatedAt = createdAt.Time
	cust.UpdatedAt = updatedAt.Time

	return &cust, nil
}

// GetByID получает клиента по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Customer, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"email",
		"name",
		"phone",
		"created_at",
		"updated_at",
	).
		From("customers").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var cust domain.Customer
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&cust.ID,
		&cust.Email,
		&cust.Name,
		&cust.Phone,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrCustomerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan customer: %v", ErrScanRow, err)
	}

	cust.CreatedAt = createdAt.Time
	cust.UpdatedAt = updatedAt.Time

	return &cust, nil
}
