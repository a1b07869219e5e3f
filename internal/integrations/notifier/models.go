package notifier

// AppointmentNotification снапшот записи для сервиса уведомлений
// Отправляется не более одного раза на успешно созданную запись
type AppointmentNotification struct {
	AppointmentID int64   `json:"appointmentId"`
	ServiceName   string  `json:"serviceName"`
	ServicePrice  float64 `json:"servicePrice"`
	CustomerName  string  `json:"customerName"`
	CustomerEmail string  `json:"customerEmail"`
	Date          string  `json:"date"`      // YYYY-MM-DD
	StartTime     string  `json:"startTime"` // HH:MM
	EndTime       string  `json:"endTime"`   // HH:MM
	Status        string  `json:"status"`
}
