package ports

import (
	"context"

	"github.com/jhoicas/fulfillment-planner/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción con repositorios atados a ella.
// Si fn devuelve error se hace rollback; si no, commit.
type TxRunner interface {
	Run(ctx context.Context, fn func(tx repository.Tx) error) error
	// RunSnapshot igual que Run, pero todas las lecturas de fn ven la misma instantánea.
	RunSnapshot(ctx context.Context, fn func(tx repository.Tx) error) error
}
