package resource

import "github.com/m04kA/SMC-AppointmentService/pkg/types"

// Occupancy занятый интервал на ресурсе: одна строка = одна активная запись
type Occupancy struct {
	ResourceID      int64
	StartTime       types.TimeString
	DurationMinutes int
}
