package create_booking

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Предупреждение в ответе, когда запись сохранена без назначенного ресурса:
// ёмкость всех подходящих ресурсов исчерпана, запись оставлена для ручной
// маршрутизации оператором
const WarningCapacityExhausted = "capacity_exhausted"

// Request модель запроса на создание записи
type Request struct {
	ServiceID           int64            // ID услуги
	Date                time.Time        // Дата записи (без времени)
	StartTime           types.TimeString // Время начала слота (например, "10:00")
	CustomerName        string           // Имя клиента
	CustomerEmail       string           // Email клиента (ключ дедупликации)
	CustomerPhone       *string          // Телефон клиента (опционально)
	PreferredResourceID *int64           // Предпочитаемый ресурс (опционально)
	Notes               *string          // Дополнительные заметки (опционально)
}

// Response модель ответа с созданной записью
type Response struct {
	AppointmentID   int64            // ID созданной записи
	ServiceID       int64            // ID услуги
	CustomerID      int64            // ID клиента
	Date            time.Time        // Дата записи
	StartTime       types.TimeString // Время начала занятого интервала
	EndTime         types.TimeString // Конец занятого интервала (эксклюзивный)
	DurationMinutes int              // Полный занятый интервал с буферами
	Status          string           // Статус записи

	// Назначенный ресурс; nil = запись сохранена без ресурса
	ResourceID *int64
	// Предупреждение (например, capacity_exhausted); пустая строка = без предупреждений
	Warning string

	ServiceName  string
	ServicePrice float64
	Notes        *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Policy политика бронирования площадки, передаётся из конфигурации явно
type Policy struct {
	Location           *time.Location // Часовой пояс площадки
	MinLeadTimeMinutes int            // Минимальное время до начала слота при записи на сегодня
	CountPendingHolds  bool           // Учитывать ли pending-записи при подсчёте занятости
	DefaultStatus      string         // Статус создаваемых записей: pending | confirmed
	LockWait           time.Duration  // Максимальное ожидание advisory-блокировки
}
