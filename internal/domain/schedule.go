package domain

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// StaffSchedule строка недельного расписания сотрудника
// Не более одной строки на пару (staff_id, weekday); отсутствие строки
// или IsActive=false означает недоступность в этот день недели
type StaffSchedule struct {
	ID        int64
	StaffID   int64
	Weekday   int // 0=воскресенье .. 6=суббота
	StartTime types.TimeString
	EndTime   types.TimeString
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ScheduleException датированное исключение из недельного расписания:
// либо выходной (IsDayOff), либо особые часы работы на конкретную дату
// Уникально по паре (staff_id, date)
type ScheduleException struct {
	ID        int64
	StaffID   int64
	Date      time.Time
	IsDayOff  bool
	StartTime *types.TimeString // Особое время начала (если не выходной)
	EndTime   *types.TimeString
	CreatedAt time.Time
	UpdatedAt time.Time
}

// WorkingWindow эффективное рабочее окно сотрудника на конкретную дату
type WorkingWindow struct {
	Start types.TimeString
	End   types.TimeString
}

// ResolveWindow вычисляет эффективное рабочее окно на дату:
// исключение (если есть) перекрывает недельное расписание, иначе действует
// строка расписания для дня недели; второй результат false = недоступен
func ResolveWindow(weekly *StaffSchedule, exception *ScheduleException) (WorkingWindow, bool) {
	if exception != nil {
		if exception.IsDayOff || exception.StartTime == nil || exception.EndTime == nil {
			return WorkingWindow{}, false
		}
		return WorkingWindow{Start: *exception.StartTime, End: *exception.EndTime}, true
	}

	if weekly == nil || !weekly.IsActive {
		return WorkingWindow{}, false
	}

	return WorkingWindow{Start: weekly.StartTime, End: weekly.EndTime}, true
}
