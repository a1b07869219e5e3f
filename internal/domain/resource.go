package domain

import "time"

// Resource ресурс (кабинет, бокс, кресло), который занимает запись
// Capacity - максимальное число одновременных записей на ресурсе
// Ресурс обслуживается одним сотрудником, чьё расписание определяет
// рабочее окно ресурса
type Resource struct {
	ID        int64
	Name      string
	StaffID   int64
	Capacity  int
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ResourceAssignment результат назначения ресурса записи:
// либо назначенный ресурс, либо явное "без ресурса"
// Запись без ресурса допустима - назначение носит рекомендательный характер
// для операционной маршрутизации, а не является условием бронирования
type ResourceAssignment struct {
	resourceID int64
	assigned   bool
}

// Assigned создает назначение на конкретный ресурс
func Assigned(resourceID int64) ResourceAssignment {
	return ResourceAssignment{resourceID: resourceID, assigned: true}
}

// Unassigned создает явное "ресурс не назначен"
func Unassigned() ResourceAssignment {
	return ResourceAssignment{}
}

// IsAssigned возвращает true, если ресурс назначен
func (r ResourceAssignment) IsAssigned() bool {
	return r.assigned
}

// ResourceID возвращает ID назначенного ресурса; второй результат false для Unassigned
func (r ResourceAssignment) ResourceID() (int64, bool) {
	return r.resourceID, r.assigned
}
