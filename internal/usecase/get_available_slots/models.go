package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	ServiceID int64     // ID услуги
	Date      time.Time // Дата для получения слотов (без времени)
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date      time.Time // Дата, на которую запрашивались слоты
	ServiceID int64     // ID услуги
	Slots     []Slot    // Доступные слоты в хронологическом порядке
}

// Slot кандидатное время начала записи, прошедшее проверку рабочих часов
// и ёмкости ресурсов на момент расчёта
type Slot struct {
	StartTime       types.TimeString // Время начала (например, "10:00")
	DurationMinutes int              // Длительность услуги без буферов
	FreeResources   int              // Число подходящих ресурсов со свободной ёмкостью
}

// Policy политика бронирования площадки, передаётся из конфигурации явно
type Policy struct {
	Location           *time.Location // Часовой пояс площадки
	SlotStepMinutes    int            // Шаг генерации кандидатных слотов
	MinLeadTimeMinutes int            // Минимальное время до начала слота при бронировании на сегодня
	CountPendingHolds  bool           // Учитывать ли pending-записи при подсчёте занятости
}
