// Package timeutil работа с датами и временем в часовом поясе площадки.
// Все даты и времена в БД хранятся как наивные локальные значения (YYYY-MM-DD и HH:MM),
// абсолютные моменты вычисляются только на границах системы.
package timeutil

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// DateFormat формат даты в хранилище и API
const DateFormat = "2006-01-02"

// ErrInvalidTimeFormat возвращается при некорректном формате даты или времени
var ErrInvalidTimeFormat = errors.New("timeutil: invalid date/time format")

// ParseDate парсит дату "YYYY-MM-DD" в полночь локального часового пояса
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(DateFormat, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}
	return d, nil
}

// ParseDateTime собирает абсолютный момент из даты и локального времени HH:MM
func ParseDateTime(date string, clock types.TimeString, loc *time.Location) (time.Time, error) {
	d, err := ParseDate(date, loc)
	if err != nil {
		return time.Time{}, err
	}

	minutes, err := clock.Minutes()
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, clock)
	}

	return time.Date(d.Year(), d.Month(), d.Day(), minutes/60, minutes%60, 0, 0, loc), nil
}

// FormatDate форматирует момент обратно в дату хранилища
func FormatDate(t time.Time) string {
	return t.Format(DateFormat)
}

// WeekdayIndex возвращает индекс дня недели: 0=воскресенье .. 6=суббота
// Совпадает с нумерацией в таблицах расписаний и исключений
func WeekdayIndex(date time.Time) int {
	return int(date.Weekday())
}

// DateOnly обнуляет время, оставляя только дату в исходной локации
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// IsSameDay проверяет, что две даты относятся к одному и тому же дню
func IsSameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// IsDateInPast проверяет, что дата раньше сегодняшнего дня
func IsDateInPast(date, now time.Time) bool {
	return DateOnly(date).Before(DateOnly(now))
}
