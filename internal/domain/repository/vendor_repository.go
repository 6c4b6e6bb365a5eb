package repository

import (
	"context"

	"github.com/jhoicas/fulfillment-planner/internal/domain/entity"
)

// VendorRepository puerto de solo lectura al directorio de proveedores.
type VendorRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Vendor, error)
}
