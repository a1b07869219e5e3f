package domain

import "time"

// Customer клиент, на которого оформляется запись
// Ключ дедупликации - email, приведённый к нижнему регистру
type Customer struct {
	ID        int64
	Email     string
	Name      string
	Phone     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
