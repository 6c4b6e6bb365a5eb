package entity

import "time"

// Estados de WorkOrder.
const (
	WorkOrderStatusDraft      = "draft"
	WorkOrderStatusConfirmed  = "confirmed"
	WorkOrderStatusInProgress = "in_progress"
	WorkOrderStatusCompleted  = "completed"
	WorkOrderStatusCancelled  = "cancelled"
)

// Estados de cobertura (producto y tienda).
const (
	AllocationFull    = "full"
	AllocationPartial = "partial"
	AllocationShort   = "short"
)

// Progreso de alistamiento por tienda.
const (
	PickingPending    = "pending"
	PickingInProgress = "in_progress"
	PickingCompleted  = "completed"
)

// ShortageResolution registro de stock tardío que se sumó a un producto.
type ShortageResolution struct {
	AddedQuantity int
	ResolvedBy    string
	ResolvedAt    time.Time
	Notes         string
}

// ProductShortageLedger balance demanda/oferta de un producto en una orden de trabajo.
// Shortage = TotalAvailable - TotalOrdered (negativo = faltante).
type ProductShortageLedger struct {
	ProductID      string
	OnHandSnapshot int
	IncomingSupply int
	TotalOrdered   int
	TotalAvailable int
	Shortage       int
	Status         string
	Resolutions    []ShortageResolution
}

// AllocationItem línea de una tienda: solicitado vs. asignado, más el estado de alistamiento.
type AllocationItem struct {
	ProductID      string
	Ordered        int
	Allocated      int
	FirstOrderedAt time.Time // desempate: pedido más antiguo primero
	Picked         bool
	PickedBy       string
	PickedAt       *time.Time
}

// StoreAllocation asignación de una tienda dentro de una orden de trabajo.
type StoreAllocation struct {
	StoreID          string
	Items            []AllocationItem
	AllocationStatus string
	PickingProgress  string
	StartedAt        *time.Time
	CompletedAt      *time.Time
}

// Item devuelve el índice del ítem del producto, o -1.
func (s StoreAllocation) Item(productID string) int {
	for i := range s.Items {
		if s.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// SourceRef referencia a un pedido o pre-pedido que originó demanda.
type SourceRef struct {
	SourceType string
	SourceID   string
}

// WorkOrder plan de una semana: ledger por producto, asignación por tienda y estado de alistamiento.
type WorkOrder struct {
	ID          string
	Week        Week
	Status      string
	Ledgers     []ProductShortageLedger // ordenados por ProductID
	Stores      []StoreAllocation       // ordenados por StoreID
	Sources     []SourceRef
	CreatedBy   string
	CreatedAt   time.Time
	ConfirmedBy string
	ConfirmedAt *time.Time
	CompletedBy string
	CompletedAt *time.Time
	CancelledBy string
	CancelledAt *time.Time
	UpdatedAt   time.Time
}

// Ledger devuelve el índice del ledger del producto, o -1.
func (w WorkOrder) Ledger(productID string) int {
	for i := range w.Ledgers {
		if w.Ledgers[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// Store devuelve el índice de la asignación de la tienda, o -1.
func (w WorkOrder) Store(storeID string) int {
	for i := range w.Stores {
		if w.Stores[i].StoreID == storeID {
			return i
		}
	}
	return -1
}
