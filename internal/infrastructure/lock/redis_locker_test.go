package lock_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fulfillment-planner/internal/infrastructure/lock"
)

func newRedisLocker(t *testing.T) (*lock.RedisLocker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	l := lock.NewRedisLockerWithClient(client, "")
	t.Cleanup(func() { _ = l.Close() })
	return l, mr
}

func TestRedisLocker_ExclusionPorLlave(t *testing.T) {
	ctx := context.Background()
	l, mr := newRedisLocker(t)
	require.NoError(t, l.Ping(ctx))

	release, err := l.Acquire(ctx, "workorder:confirm:2026-10-12", time.Minute)
	require.NoError(t, err)
	assert.True(t, mr.Exists("planner:lock:workorder:confirm:2026-10-12"))

	_, err = l.Acquire(ctx, "workorder:confirm:2026-10-12", time.Minute)
	assert.ErrorIs(t, err, lock.ErrLockHeld)

	other, err := l.Acquire(ctx, "workorder:confirm:2026-10-19", time.Minute)
	require.NoError(t, err, "otra semana no se bloquea")
	require.NoError(t, other(ctx))

	require.NoError(t, release(ctx))
	assert.False(t, mr.Exists("planner:lock:workorder:confirm:2026-10-12"))
	again, err := l.Acquire(ctx, "workorder:confirm:2026-10-12", time.Minute)
	require.NoError(t, err)
	require.NoError(t, again(ctx))
}

func TestRedisLocker_LeaseVencido(t *testing.T) {
	ctx := context.Background()
	l, mr := newRedisLocker(t)

	stale, err := l.Acquire(ctx, "k", time.Second)
	require.NoError(t, err)
	mr.FastForward(2 * time.Second)

	fresh, err := l.Acquire(ctx, "k", time.Minute)
	require.NoError(t, err, "un lease vencido se puede tomar")

	require.NoError(t, stale(ctx), "liberar un lease ajeno no hace nada")
	assert.True(t, mr.Exists("planner:lock:k"))
	_, err = l.Acquire(ctx, "k", time.Minute)
	assert.ErrorIs(t, err, lock.ErrLockHeld)
	require.NoError(t, fresh(ctx))
}

func TestRedisLocker_SoloUnoGana(t *testing.T) {
	ctx := context.Background()
	l, _ := newRedisLocker(t)

	var won atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
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
