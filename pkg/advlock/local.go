package advlock

import (
	"context"
	"sync"
	"time"
)

// LocalLocker in-process реализация для single-node развертываний и тестов
// Не защищает от гонок между несколькими экземплярами сервиса
type LocalLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewLocalLocker создает in-process locker
func NewLocalLocker() *LocalLocker {
	return &LocalLocker{locks: make(map[string]*sync.Mutex)}
}

func (l *LocalLocker) lockFor(key string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	return m
}

// TryAcquire берет блокировку по ключу, опрашивая её до истечения timeout
func (l *LocalLocker) TryAcquire(ctx context.Context, key string, timeout time.Duration) (bool, error) {
	m := l.lockFor(key)
	deadline := time.Now().Add(timeout)

	for {
		if m.TryLock() {
			return true, nil
		}

		if time.Now().After(deadline) {
			return false, nil
		}

		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(pollInterval):
		}
	}
}

// Release освобождает блокировку
func (l *LocalLocker) Release(_ context.Context, key string) error {
	l.mu.Lock()
	m, ok := l.locks[key]
	l.mu.Unlock()

	if !ok {
		return ErrNotHeld
	}

	m.Unlock()
	return nil
}
