package dto

import "time"

// WorkOrderWeekRequest body para POST /api/work-orders/draft y /confirm.
type WorkOrderWeekRequest struct {
	Week string `json:"week" validate:"required,datetime=2006-01-02"`
}

// ResolveShortageRequest body para POST /api/work-orders/:id/products/:productId/resolve.
type ResolveShortageRequest struct {
	AdditionalQuantity int    `json:"additional_quantity" validate:"gt=0"`
	Notes              string `json:"notes" validate:"max=500"`
}

// ShortageResolutionDTO stock tardío sumado a un producto.
type ShortageResolutionDTO struct {
	AddedQuantity int       `json:"added_quantity"`
	ResolvedBy    string    `json:"resolved_by"`
	ResolvedAt    time.Time `json:"resolved_at"`
	Notes         string    `json:"notes,omitempty"`
}

// ProductLedgerDTO balance de un producto. PalletsNeeded se llena si el producto tiene capacidad cacheada.
type ProductLedgerDTO struct {
	ProductID      string                  `json:"product_id"`
	OnHandSnapshot int                     `json:"on_hand_snapshot"`
	IncomingSupply int                     `json:"incoming_supply"`
	TotalOrdered   int                     `json:"total_ordered"`
	TotalAvailable int                     `json:"total_available"`
	Shortage       int                     `json:"shortage"`
	Status         string                  `json:"status"`
	Resolutions    []ShortageResolutionDTO `json:"resolutions,omitempty"`
	PalletsNeeded  *PalletsNeededResponse  `json:"pallets_needed,omitempty"`
}

// AllocationItemDTO línea de asignación de una tienda.
type AllocationItemDTO struct {
	ProductID string     `json:"product_id"`
	Ordered   int        `json:"ordered"`
	Allocated int        `json:"allocated"`
	Picked    bool       `json:"picked"`
	PickedBy  string     `json:"picked_by,omitempty"`
	PickedAt  *time.Time `json:"picked_at,omitempty"`
}

// StoreAllocationDTO asignación y alistamiento de una tienda.
type StoreAllocationDTO struct {
	StoreID          string              `json:"store_id"`
	AllocationStatus string              `json:"allocation_status"`
	PickingProgress  string              `json:"picking_progress"`
	StartedAt        *time.Time          `json:"started_at,omitempty"`
	CompletedAt      *time.Time          `json:"completed_at,omitempty"`
	Items            []AllocationItemDTO `json:"items"`
}

// SourceRefDTO pedido o pre-pedido de origen.
type SourceRefDTO struct {
	SourceType string `json:"source_type"`
	SourceID   string `json:"source_id"`
}

// WorkOrderResponse orden de trabajo completa.
type WorkOrderResponse struct {
	ID          string               `json:"id"`
	WeekStart   string               `json:"week_start"`
	WeekEnd     string               `json:"week_end"`
	Status      string               `json:"status"`
	Ledgers     []ProductLedgerDTO   `json:"ledgers"`
	Stores      []StoreAllocationDTO `json:"stores"`
	Sources     []SourceRefDTO       `json:"sources"`
	CreatedBy   string               `json:"created_by"`
	CreatedAt   time.Time            `json:"created_at"`
	ConfirmedBy string               `json:"confirmed_by,omitempty"`
	ConfirmedAt *time.Time           `json:"confirmed_at,omitempty"`
	CompletedBy string               `json:"completed_by,omitempty"`
	CompletedAt *time.Time           `json:"completed_at,omitempty"`
	CancelledBy string               `json:"cancelled_by,omitempty"`
	CancelledAt *time.Time           `json:"cancelled_at,omitempty"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// WorkOrderListResponse órdenes de una semana (incluye canceladas).
type WorkOrderListResponse struct {
	WeekStart string              `json:"week_start"`
	WeekEnd   string              `json:"week_end"`
	Items     []WorkOrderResponse `json:"items"`
}

// WorkOrderPreviewResponse plan calculado sin persistir.
type WorkOrderPreviewResponse struct {
	WeekStart string               `json:"week_start"`
	WeekEnd   string               `json:"week_end"`
	Ledgers   []ProductLedgerDTO   `json:"ledgers"`
	Stores    []StoreAllocationDTO `json:"stores"`
	Sources   []SourceRefDTO       `json:"sources"`
}

// ResolveShortageResponse orden actualizada y tiendas cuya asignación cambió.
type ResolveShortageResponse struct {
	WorkOrder      WorkOrderResponse `json:"work_order"`
	AffectedStores []string          `json:"affected_stores"`
}
