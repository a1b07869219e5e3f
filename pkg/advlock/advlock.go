// Package advlock именованные advisory-блокировки для сериализации
// конкурентных попыток бронирования одного и того же слота.
//
// Блокировка кооперативная: она не связана с row-level локами БД и берётся
// по строковому ключу (например, "booking:{serviceID}:{date}") перед проверкой
// конфликтов, чтобы проверка и запись выполнялись эффективно последовательно.
package advlock

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrLockUnavailable возвращается, когда блокировку не удалось взять за отведённое время
	// Вызывающий должен повторить запрос позже, а не считать слот занятым
	ErrLockUnavailable = errors.New("advlock: lock unavailable")

	// ErrNotHeld возвращается при попытке освободить не взятую блокировку
	ErrNotHeld = errors.New("advlock: lock is not held")
)

// Locker интерфейс именованной advisory-блокировки
// Реализации: PostgresLocker (pg_try_advisory_lock), LocalLocker (in-process, single-node),
// NoopLocker (деградированный режим без сериализации)
type Locker interface {
	// TryAcquire пытается взять блокировку по ключу, ожидая не дольше timeout
	// Возвращает false без ошибки, если блокировка занята по истечении timeout
	TryAcquire(ctx context.Context, key string, timeout time.Duration) (bool, error)

	// Release освобождает ранее взятую блокировку
	Release(ctx context.Context, key string) error
}

// Интервал опроса при ожидании занятой блокировки
const pollInterval = 50 * time.Millisecond
