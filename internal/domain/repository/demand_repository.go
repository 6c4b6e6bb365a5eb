package repository

import (
	"context"

	"github.com/jhoicas/fulfillment-planner/internal/domain/entity"
)

// DemandRepository lee las líneas de pedidos y pre-pedidos con entrega en la semana,
// incluidas las canceladas (el agregador las descarta).
type DemandRepository interface {
	ListByWeek(ctx context.Context, week entity.Week) ([]entity.DemandLine, error)
}
