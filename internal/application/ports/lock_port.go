package ports

import (
	"context"
	"errors"
	"time"
)

// ErrLockHeld la llave ya está tomada por otro proceso o petición.
var ErrLockHeld = errors.New("lock ocupado")

// Locker exclusión mutua por llave con lease. Acquire no espera: si la llave está tomada
// devuelve ErrLockHeld de inmediato. La función devuelta libera la llave.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(context.Context) error, err error)
}
