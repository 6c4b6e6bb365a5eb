// Package lock implementa ports.Locker: en proceso (por defecto) o con Redis (varias instancias).
package lock

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/fulfillment-planner/internal/application/ports"
)

// ErrLockHeld la llave ya está tomada.
var ErrLockHeld = ports.ErrLockHeld

var _ ports.Locker = (*MemoryLocker)(nil)

type lease struct {
	token   string
	expires time.Time
}

// MemoryLocker locks por llave con vencimiento dentro del proceso.
type MemoryLocker struct {
	mu     sync.Mutex
	leases map[string]lease
	now    func() time.Time
}

// NewMemoryLocker crea un locker en memoria.
func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{leases: make(map[string]lease), now: time.Now}
}

// Acquire toma la llave por ttl. Un lease vencido se puede volver a tomar.
func (l *MemoryLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if cur, ok := l.leases[key]; ok && now.Before(cur.expires) {
		return nil, ErrLockHeld
	}
	token := uuid.NewString()
	l.leases[key] = lease{token: token, expires: now.Add(ttl)}

	return func(context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		if cur, ok := l.leases[key]; ok && cur.token == token {
			delete(l.leases, key)
		}
		return nil
	}, nil
}
