package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Modos de venta del catálogo.
const (
	SalesModeCase = "case"
	SalesModeUnit = "unit"
)

// Product entrada del catálogo tal como la ve el motor de planeación.
// El CRUD vive fuera; aquí solo se lee la geometría y el inventario, y se escribe PalletCapacity.
type Product struct {
	ID             string
	SKU            string
	Name           string
	Geometry       CaseGeometry
	CaseWeight     decimal.Decimal // libras
	SalesMode      string
	OnHand         int // cajas disponibles (autoritativo)
	PalletCapacity *PalletCapacity
	UpdatedAt      time.Time
}
