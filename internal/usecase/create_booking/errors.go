package create_booking

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена или не активна
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInvalidDate возвращается при дате записи в прошлом
	ErrInvalidDate = errors.New("create_booking: invalid booking date")

	// ErrTooLateToBook возвращается при нарушении минимального времени до начала слота
	ErrTooLateToBook = errors.New("create_booking: too late to book this slot")

	// ErrOutsideWorkingHours возвращается, когда запрошенный интервал не попадает
	// в рабочее окно ни одного подходящего ресурса (включая выходные по исключению)
	ErrOutsideWorkingHours = errors.New("create_booking: slot is outside working hours")

	// ErrSlotConflict возвращается, когда на этот интервал уже есть
	// неотменённая запись этой услуги
	ErrSlotConflict = errors.New("create_booking: slot is already taken")

	// ErrLockUnavailable возвращается, когда advisory-блокировку не удалось взять
	// за отведённое время. Временная ошибка: клиент должен повторить запрос,
	// а не считать слот занятым
	ErrLockUnavailable = errors.New("create_booking: booking lock unavailable, retry later")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
