package repository

import (
	"context"

	"github.com/jhoicas/fulfillment-planner/internal/domain/entity"
)

// WorkOrderRepository define el puerto de persistencia para órdenes de trabajo.
//
// La cabecera, cada ledger de producto y cada asignación de tienda se guardan por separado
// para que la resolución de faltantes de productos distintos no se pise.
type WorkOrderRepository interface {
	// Create inserta la orden completa. Devuelve domain.ErrConcurrentConfirmation si ya existe
	// otra orden no cancelada para la semana.
	Create(ctx context.Context, wo *entity.WorkOrder) error
	GetByID(ctx context.Context, id string) (*entity.WorkOrder, error)
	// GetForUpdate bloquea la cabecera de la orden dentro de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.WorkOrder, error)
	// GetActiveByWeek devuelve la orden no cancelada de la semana, o domain.ErrNotFound.
	GetActiveByWeek(ctx context.Context, week entity.Week) (*entity.WorkOrder, error)
	ListByWeek(ctx context.Context, week entity.Week) ([]entity.WorkOrder, error)
	// UpdateHeader actualiza estado, actores, fechas y fuentes (no toca ledgers ni tiendas).
	UpdateHeader(ctx context.Context, wo *entity.WorkOrder) error
	SaveProductLedger(ctx context.Context, workOrderID string, l entity.ProductShortageLedger) error
	SaveStoreAllocation(ctx context.Context, workOrderID string, s entity.StoreAllocation) error
}
