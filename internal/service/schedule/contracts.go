package schedule

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// ScheduleRepository интерфейс репозитория расписаний
type ScheduleRepository interface {
	GetWeekly(ctx context.Context, staffID int64) ([]*domain.StaffSchedule, error)
	SaveWeekly(ctx context.Context, staffID int64, schedules []*domain.StaffSchedule) error
	GetExceptions(ctx context.Context, staffID int64, from, to time.Time) ([]*domain.ScheduleException, error)
	UpsertException(ctx context.Context, exc *domain.ScheduleException) (*domain.ScheduleException, error)
	DeleteException(ctx context.Context, staffID int64, date time.Time) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
