package get_resource_availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// ServiceRepository интерфейс репозитория услуг
type ServiceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
}

// ResourceRepository интерфейс репозитория ресурсов
type ResourceRepository interface {
	GetEligibleByService(ctx context.Context, serviceID int64) ([]*domain.Resource, error)
	GetBlockedResources(ctx context.Context, date time.Time, windowStart, windowEnd types.TimeString, statuses []domain.AppointmentStatus) (map[int64]int, error)
}

// ScheduleRepository интерфейс репозитория расписаний
type ScheduleRepository interface {
	GetWeekly(ctx context.Context, staffID int64) ([]*domain.StaffSchedule, error)
	GetExceptionByDate(ctx context.Context, staffID int64, date time.Time) (*domain.ScheduleException, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
