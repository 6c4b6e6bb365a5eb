package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateIncomingStockRequest body para POST /api/incoming-stock. Week es cualquier fecha de la semana.
type CreateIncomingStockRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gt=0"`
	Week      string `json:"week" validate:"required,datetime=2006-01-02"`
}

// LinkIncomingStockRequest body para POST /api/incoming-stock/:id/link.
type LinkIncomingStockRequest struct {
	VendorID  string           `json:"vendor_id" validate:"required"`
	UnitPrice *decimal.Decimal `json:"unit_price" validate:"required"`
}

// ReceiveIncomingStockRequest body para POST /api/incoming-stock/:id/receive.
// Sin received_quantity se recibe la cantidad pronosticada completa.
type ReceiveIncomingStockRequest struct {
	ReceivedQuantity *int `json:"received_quantity" validate:"omitempty,gte=0"`
}

// CancelIncomingStockRequest body para POST /api/incoming-stock/:id/cancel.
type CancelIncomingStockRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

// AttachPurchaseOrderRequest body para POST /api/incoming-stock/:id/purchase-order.
type AttachPurchaseOrderRequest struct {
	PurchaseOrderID string `json:"purchase_order_id" validate:"required,max=100"`
}

// IncomingStockResponse salida de un pronóstico de stock entrante.
type IncomingStockResponse struct {
	ID               string           `json:"id"`
	ProductID        string           `json:"product_id"`
	Quantity         int              `json:"quantity"`
	WeekStart        string           `json:"week_start"`
	WeekEnd          string           `json:"week_end"`
	VendorID         string           `json:"vendor_id,omitempty"`
	UnitPrice        *decimal.Decimal `json:"unit_price,omitempty"`
	TotalPrice       decimal.Decimal  `json:"total_price"`
	Status           string           `json:"status"`
	ReceivedQuantity int              `json:"received_quantity"`
	PurchaseOrderID  string           `json:"purchase_order_id,omitempty"`
	CancelReason     string           `json:"cancel_reason,omitempty"`
	CreatedBy        string           `json:"created_by"`
	CreatedAt        time.Time        `json:"created_at"`
	LinkedAt         *time.Time       `json:"linked_at,omitempty"`
	ReceivedAt       *time.Time       `json:"received_at,omitempty"`
	CancelledAt      *time.Time       `json:"cancelled_at,omitempty"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// IncomingStockListResponse pronósticos de una semana.
type IncomingStockListResponse struct {
	WeekStart string                  `json:"week_start"`
	WeekEnd   string                  `json:"week_end"`
	Items     []IncomingStockResponse `json:"items"`
}
