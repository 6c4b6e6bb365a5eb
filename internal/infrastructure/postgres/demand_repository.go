package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/fulfillment-planner/internal/domain/entity"
	"github.com/jhoicas/fulfillment-planner/internal/domain/repository"
)

var _ repository.DemandRepository = (*DemandRepo)(nil)

// DemandRepo lee líneas de pedidos y pre-pedidos de tiendas.
type DemandRepo struct {
	q Querier
}

// NewDemandRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDemandRepository(q Querier) *DemandRepo {
	return &DemandRepo{q: q}
}

// ListByWeek devuelve las líneas con fecha de entrega dentro de la semana, incluidas las canceladas.
func (r *DemandRepo) ListByWeek(ctx context.Context, week entity.Week) ([]entity.DemandLine, error) {
	rows, err := r.q.Query(ctx, `
		SELECT o.source_type, o.id, o.store_id, i.product_id, i.quantity, o.delivery_date, o.created_at, o.cancelled
		FROM store_orders o
		JOIN store_order_items i ON i.order_id = o.id
		WHERE o.delivery_date BETWEEN $1 AND $2
		ORDER BY o.created_at, o.id, i.product_id`,
		week.Start, week.End,
	)
	if err != nil {
		return nil, fmt.Errorf("list demand: %w", err)
	}
	defer rows.Close()
	var list []entity.DemandLine
	for rows.Next() {
		var d entity.DemandLine
		if err := rows.Scan(&d.SourceType, &d.SourceID, &d.StoreID, &d.ProductID, &d.Quantity,
			&d.DeliveryDate, &d.CreatedAt, &d.Cancelled); err != nil {
			return nil, fmt.Errorf("scan demand: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}
