package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	resourceRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/resource"
)

// ServiceRepository интерфейс репозитория услуг
type ServiceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
}

// ResourceRepository интерфейс репозитория ресурсов
type ResourceRepository interface {
	GetEligibleByService(ctx context.Context, serviceID int64) ([]*domain.Resource, error)
	GetDayOccupancy(ctx context.Context, date time.Time, statuses []domain.AppointmentStatus) ([]resourceRepo.Occupancy, error)
}

// ScheduleRepository интерфейс репозитория расписаний
type ScheduleRepository interface {
	GetWeekly(ctx context.Context, staffID int64) ([]*domain.StaffSchedule, error)
	GetExceptionByDate(ctx context.Context, staffID int64, date time.Time) (*domain.ScheduleException, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
