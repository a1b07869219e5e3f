package advlock

import (
	"context"
	"time"
)

// NoopLocker заглушка для деградированного режима, когда примитив блокировок
// недоступен. Коммиты бронирований не сериализуются, риск двойного бронирования
// принимается явно и логируется на старте сервиса.
type NoopLocker struct{}

// NewNoopLocker создает заглушку
func NewNoopLocker() *NoopLocker {
	return &NoopLocker{}
}

// TryAcquire всегда успешен
func (l *NoopLocker) TryAcquire(_ context.Context, _ string, _ time.Duration) (bool, error) {
	return true, nil
}

// Release всегда успешен
func (l *NoopLocker) Release(_ context.Context, _ string) error {
	return nil
}
