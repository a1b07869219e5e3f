package domain

import "time"

// Service услуга, на которую создаются записи
// Буферы - фиксированные отступы до и после услуги, в течение которых
// ресурс считается занятым
type Service struct {
	ID                  int64
	Name                string
	DurationMinutes     int
	BufferBeforeMinutes int
	BufferAfterMinutes  int
	Price               float64
	IsActive            bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// OccupiedSpanMinutes возвращает полный занятый интервал одной записи:
// буфер до + длительность услуги + буфер после
func (s *Service) OccupiedSpanMinutes() int {
	return s.BufferBeforeMinutes + s.DurationMinutes + s.BufferAfterMinutes
}
