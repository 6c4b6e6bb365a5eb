package lock_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fulfillment-planner/internal/infrastructure/lock"
)

func TestMemoryLocker_ExclusionPorLlave(t *testing.T) {
	ctx := context.Background()
	l := lock.NewMemoryLocker()

	release, err := l.Acquire(ctx, "workorder:confirm:2026-10-12", time.Minute)
	require.NoError(t, err)

	_, err = l.Acquire(ctx, "workorder:confirm:2026-10-12", time.Minute)
	assert.ErrorIs(t, err, lock.ErrLockHeld)

	other, err := l.Acquire(ctx, "workorder:confirm:2026-10-19", time.Minute)
	require.NoError(t, err, "otra semana no se bloquea")
	require.NoError(t, other(ctx))

	require.NoError(t, release(ctx))
	again, err := l.Acquire(ctx, "workorder:confirm:2026-10-12", time.Minute)
	require.NoError(t, err)
	require.NoError(t, again(ctx))
}

func TestMemoryLocker_LeaseVencido(t *testing.T) {
	ctx := context.Background()
	l := lock.NewMemoryLocker()

	stale, err := l.Acquire(ctx, "k", time.Millisecond)
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)

	fresh, err := l.Acquire(ctx, "k", time.Minute)
	require.NoError(t, err, "un lease vencido se puede tomar")

	require.NoError(t, stale(ctx), "liberar un lease ajeno no hace nada")
	_, err = l.Acquire(ctx, "k", time.Minute)
	assert.ErrorIs(t, err, lock.ErrLockHeld)
	require.NoError(t, fresh(ctx))
}

func TestMemoryLocker_SoloUnoGana(t *testing.T) {
	ctx := context.Background()
	l := lock.NewMemoryLocker()

	var won atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := l.Acquire(ctx, "same", time.Minute); err == nil {
				won.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), won.Load())
}
