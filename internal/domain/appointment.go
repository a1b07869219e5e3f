package domain

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusCompleted AppointmentStatus = "completed"
)

// Appointment запись на услугу
// Дата и время хранятся как наивные локальные значения в часовом поясе площадки;
// занятый интервал [StartTime, StartTime+DurationMinutes) полуоткрытый -
// соприкасающиеся записи не конфликтуют
type Appointment struct {
	ID              int64
	ServiceID       int64
	CustomerID      int64
	Date            time.Time        // Дата записи (без времени)
	StartTime       types.TimeString // Время начала занятого интервала
	DurationMinutes int              // Полный занятый интервал: буфер до + услуга + буфер после
	Status          AppointmentStatus
	Timezone        string // Часовой пояс площадки на момент создания

	// Денормализованные данные для истории
	ServiceName  string
	ServicePrice float64
	Notes        *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive возвращает true, если запись занимает ресурс (не отменена)
func (a *Appointment) IsActive() bool {
	return a.Status != StatusCancelled
}

// CanBeCancelled возвращает true, если запись можно отменить
func (a *Appointment) CanBeCancelled() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// IsCancelled возвращает true, если запись отменена
func (a *Appointment) IsCancelled() bool {
	return a.Status == StatusCancelled
}

// EndTime возвращает конец занятого интервала (эксклюзивный)
func (a *Appointment) EndTime() (types.TimeString, error) {
	return a.StartTime.AddMinutes(a.DurationMinutes)
}

// ValidStatus проверяет, что строка является допустимым статусом записи
func ValidStatus(s string) (AppointmentStatus, bool) {
	switch AppointmentStatus(s) {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return AppointmentStatus(s), true
	}
	return "", false
}
