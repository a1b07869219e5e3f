package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/notifier"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)
	GetActiveByServiceAndDate(ctx context.Context, serviceID int64, date time.Time) ([]*domain.Appointment, error)
}

// ServiceRepository интерфейс репозитория услуг
type ServiceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
}

// ResourceRepository интерфейс репозитория ресурсов
type ResourceRepository interface {
	GetEligibleByService(ctx context.Context, serviceID int64) ([]*domain.Resource, error)
	GetBlockedResources(ctx context.Context, date time.Time, windowStart, windowEnd types.TimeString, statuses []domain.AppointmentStatus) (map[int64]int, error)
	Assign(ctx context.Context, appointmentID, resourceID int64) error
}

// ScheduleRepository интерфейс репозитория расписаний
type ScheduleRepository interface {
	GetWeekly(ctx context.Context, staffID int64) ([]*domain.StaffSchedule, error)
	GetExceptionByDate(ctx context.Context, staffID int64, date time.Time) (*domain.ScheduleException, error)
}

// CustomerRepository интерфейс репозитория клиентов
type CustomerRepository interface {
	UpsertByEmail(ctx context.Context, email, name string, phone *string) (*domain.Customer, error)
}

// NotifierClient интерфейс клиента сервиса уведомлений
type NotifierClient interface {
	SendAppointmentCreated(ctx context.Context, notification *notifier.AppointmentNotification) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Locker именованная advisory-блокировка, сериализующая коммиты по ключу
type Locker interface {
	TryAcquire(ctx context.Context, key string, timeout time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
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

// resourceWindow подходящий ресурс с эффективным рабочим окном его сотрудника
type resourceWindow struct {
	resource *domain.Resource
	window   domain.WorkingWindow
}
