package advlock

import (
	"context"
	"database/sql"
	"fmt"
	"hash/fnv"
	"sync"
	"time"
)

// PostgresLocker advisory-блокировки на pg_try_advisory_lock
//
// Блокировки в PostgreSQL привязаны к сессии, поэтому под каждый взятый ключ
// удерживается выделенное соединение из пула до вызова Release
type PostgresLocker struct {
	db *sql.DB

	mu   sync.Mutex
	held map[string]*sql.Conn
}

// NewPostgresLocker создает locker поверх пула соединений
func NewPostgresLocker(db *sql.DB) *PostgresLocker {
	return &PostgresLocker{
		db:   db,
		held: make(map[string]*sql.Conn),
	}
}

// Probe проверяет, что примитив advisory-блокировок доступен
// Вызывается один раз на старте; при ошибке сервис переходит в деградированный режим
func (l *PostgresLocker) Probe(ctx context.Context) error {
	conn, err := l.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("advlock: probe - acquire connection: %w", err)
	}
	defer conn.Close()

	key := hashKey("advlock:probe")

	var acquired bool
	if err := conn.QueryRowContext(ctx, "SELECT pg_try_advisory_lock($1)", key).Scan(&acquired); err != nil {
		return fmt.Errorf("advlock: probe - try lock: %w", err)
	}
	if !acquired {
		return fmt.Errorf("advlock: probe - lock unexpectedly busy")
	}

	var released bool
	if err := conn.QueryRowContext(ctx, "SELECT pg_advisory_unlock($1)", key).Scan(&released); err != nil {
		return fmt.Errorf("advlock: probe - unlock: %w", err)
	}

	return nil
}

// TryAcquire берет блокировку по ключу, опрашивая её до истечения timeout
func (l *PostgresLocker) TryAcquire(ctx context.Context, key string, timeout time.Duration) (bool, error) {
	conn, err := l.db.Conn(ctx)
	if err != nil {
		return false, fmt.Errorf("advlock: acquire connection: %w", err)
	}

	hashed := hashKey(key)
	deadline := time.Now().Add(timeout)

	for {
		var acquired bool
		if err := conn.QueryRowContext(ctx, "SELECT pg_try_advisory_lock($1)", hashed).Scan(&acquired); err != nil {
			_ = conn.Close()
			return false, fmt.Errorf("advlock: try lock %q: %w", key, err)
		}

		if acquired {
			l.mu.Lock()
			l.held[key] = conn
			l.mu.Unlock()
			return true, nil
		}

		if time.Now().After(deadline) {
			_ = conn.Close()
			return false, nil
		}

		select {
		case <-ctx.Done():
			_ = conn.Close()
			return false, ctx.Err()
		case <-time.After(pollInterval):
		}
	}
}

// Release освобождает блокировку и возвращает соединение в пул
func (l *PostgresLocker) Release(ctx context.Context, key string) error {
	l.mu.Lock()
	conn, ok := l.held[key]
	delete(l.held, key)
	l.mu.Unlock()

	if !ok {
		return ErrNotHeld
	}
	defer conn.Close()

	var released bool
	if err := conn.QueryRowContext(ctx, "SELECT pg_advisory_unlock($1)", hashKey(key)).Scan(&released); err != nil {
		return fmt.Errorf("advlock: unlock %q: %w", key, err)
	}
	if !released {
		return ErrNotHeld
	}

	return nil
}

// hashKey сводит строковый ключ к int64 для pg_advisory_lock
func hashKey(key string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(key))
	return int64(h.Sum64())
}
