package entity

import "time"

// Orígenes de demanda.
const (
	DemandSourceOrder    = "order"
	DemandSourcePreOrder = "pre_order"
)

// DemandLine línea de pedido o pre-pedido de una tienda (colaborador externo, solo lectura).
type DemandLine struct {
	SourceType   string
	SourceID     string // id del pedido / pre-pedido
	StoreID      string
	ProductID    string
	Quantity     int
	DeliveryDate time.Time // fecha de entrega; define la semana de planeación
	CreatedAt    time.Time // desempate de asignación: primero el más antiguo
	Cancelled    bool
}
