package repository

import (
	"context"

	"github.com/jhoicas/fulfillment-planner/internal/domain/entity"
)

// IncomingStockRepository define el puerto de persistencia para pronósticos de stock entrante.
type IncomingStockRepository interface {
	Create(ctx context.Context, e *entity.IncomingStockEntry) error
	GetByID(ctx context.Context, id string) (*entity.IncomingStockEntry, error)
	// GetForUpdate bloquea la entrada hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.IncomingStockEntry, error)
	Update(ctx context.Context, e *entity.IncomingStockEntry) error
	ListByWeek(ctx context.Context, week entity.Week) ([]entity.IncomingStockEntry, error)
}
