package repository

import (
	"context"

	"github.com/jhoicas/fulfillment-planner/internal/domain/entity"
)

// ProductRepository define el puerto de lectura del catálogo y de escritura de capacidad / on-hand (DIP).
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	ListByIDs(ctx context.Context, ids []string) ([]entity.Product, error)
	// UpdatePalletCapacity guarda geometría, peso y la capacidad calculada.
	UpdatePalletCapacity(ctx context.Context, product *entity.Product) error
	// AdjustOnHand suma delta al inventario disponible. Usado dentro de la tx de recepción.
	AdjustOnHand(ctx context.Context, productID string, delta int) error
}
