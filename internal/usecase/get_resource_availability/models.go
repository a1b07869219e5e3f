package get_resource_availability

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request модель запроса занятости ресурсов услуги на конкретный слот
type Request struct {
	ServiceID int64            // ID услуги
	Date      time.Time        // Дата (без времени)
	StartTime types.TimeString // Время начала слота
}

// Response модель ответа с занятостью подходящих ресурсов
type Response struct {
	ServiceID int64            // ID услуги
	Date      time.Time        // Запрошенная дата
	StartTime types.TimeString // Начало занятого интервала
	EndTime   types.TimeString // Конец занятого интервала (эксклюзивный)
	Resources []ResourceLoad   // Занятость ресурсов в порядке возрастания ID
}

// ResourceLoad занятость одного ресурса в запрошенном окне
type ResourceLoad struct {
	ResourceID int64
	Name       string
	Capacity   int  // Максимальное число одновременных записей
	Used       int  // Записи, пересекающие окно
	Free       int  // Остаток ёмкости; 0 = исчерпана
	InWindow   bool // Окно целиком лежит в рабочем окне сотрудника ресурса
}

// Policy политика бронирования площадки, передаётся из конфигурации явно
type Policy struct {
	Location          *time.Location // Часовой пояс площадки
	CountPendingHolds bool           // Учитывать ли pending-записи при подсчёте занятости
}
