package domain

// Default configuration values
const (
	DefaultSlotStepMinutes    = 30
	DefaultMinLeadTimeMinutes = 60 // 1 hour
	DefaultStatus             = StatusPending
)

// Business validation constants
const (
	MinSlotStepMinutes          = 5
	MaxSlotStepMinutes          = 240
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxCustomerNameLength       = 200
	MaxCustomerEmailLength      = 254
	WeekdaysCount               = 7
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses статусы, при которых запись занимает ресурс
// Используется при подсчёте занятости ресурсов
var ActiveStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
	StatusCompleted,
}

// BlockingStatuses возвращает статусы, учитываемые при подсчёте занятости ресурсов
// countPendingHolds - политика площадки: строгие площадки учитывают pending-записи,
// чтобы не перепродать ёмкость, пока клиент принимает решение
func BlockingStatuses(countPendingHolds bool) []AppointmentStatus {
	if countPendingHolds {
		return []AppointmentStatus{StatusConfirmed, StatusPending}
	}
	return []AppointmentStatus{StatusConfirmed}
}
