package advlock

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalLocker_AcquireRelease(t *testing.T) {
	locker := NewLocalLocker()
	ctx := context.Background()

	acquired, err := locker.TryAcquire(ctx, "booking:1:2026-09-15", 0)
	require.NoError(t, err)
	assert.True(t, acquired)

	// Другой ключ берётся независимо
	acquired, err = locker.TryAcquire(ctx, "booking:2:2026-09-15", 0)
	require.NoError(t, err)
	assert.True(t, acquired)

	require.NoError(t, locker.Release(ctx, "booking:1:2026-09-15"))
	require.NoError(t, locker.Release(ctx, "booking:2:2026-09-15"))
}

func TestLocalLocker_BusyKeyTimesOut(t *testing.T) {
	locker := NewLocalLocker()
	ctx := context.Background()

	acquired, err := locker.TryAcquire(ctx, "busy", 0)
	require.NoError(t, err)
	require.True(t, acquired)

	// Занятый ключ не берётся в отведённое время, но это не ошибка
	acquired, err = locker.TryAcquire(ctx, "busy", 10*time.Millisecond)
	require.NoError(t, err)
	assert.False(t, acquired)

	require.NoError(t, locker.Release(ctx, "busy"))

	acquired, err = locker.TryAcquire(ctx, "busy", 0)
	require.NoError(t, err)
	assert.True(t, acquired)
	require.NoError(t, locker.Release(ctx, "busy"))
}

func TestLocalLocker_WaitsForRelease(t *testing.T) {
	locker := NewLocalLocker()
	ctx := context.Background()

	acquired, err := locker.TryAcquire(ctx, "contended", 0)
	require.NoError(t, err)
	require.True(t, acquired)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		time.Sleep(2 * pollInterval)
		_ = locker.Release(ctx, "contended")
	}()

	acquired, err = locker.TryAcquire(ctx, "contended", time.Second)
	require.NoError(t, err)
	assert.True(t, acquired)

	wg.Wait()
	require.NoError(t, locker.Release(ctx, "contended"))
}

func TestLocalLocker_ReleaseNotHeld(t *testing.T) {
	locker := NewLocalLocker()
	err := locker.Release(context.Background(), "never-acquired")
	assert.ErrorIs(t, err, ErrNotHeld)
}

func TestLocalLocker_ContextCancelled(t *testing.T) {
	locker := NewLocalLocker()
	ctx := context.Background()

	acquired, err := locker.TryAcquire(ctx, "held", 0)
	require.NoError(t, err)
	require.True(t, acquired)

	cancelCtx, cancel := context.WithCancel(ctx)
	cancel()

	_, err = locker.TryAcquire(cancelCtx, "held", time.Second)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNoopLocker(t *testing.T) {
	locker := NewNoopLocker()
	ctx := context.Background()

	// Деградированный режим: любой ключ всегда "берётся"
	acquired, err := locker.TryAcquire(ctx, "anything", 0)
	require.NoError(t, err)
	assert.True(t, acquired)

	acquired, err = locker.TryAcquire(ctx, "anything", 0)
	require.NoError(t, err)
	assert.True(t, acquired)

	assert.NoError(t, locker.Release(ctx, "anything"))
}
