package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de IncomingStockEntry.
const (
	IncomingStatusDraft     = "draft"
	IncomingStatusLinked    = "linked"
	IncomingStatusReceived  = "received"
	IncomingStatusCancelled = "cancelled"
)

// IncomingStockEntry pronóstico de stock entrante para un producto en una semana.
// draft -> linked -> received, con cancelled alcanzable desde draft o linked. received es terminal.
type IncomingStockEntry struct {
	ID               string
	ProductID        string
	Quantity         int
	Week             Week
	VendorID         string // vacío hasta vincular
	UnitPrice        *decimal.Decimal
	TotalPrice       decimal.Decimal // Quantity * UnitPrice
	Status           string
	ReceivedQuantity int
	PurchaseOrderID  string
	CancelReason     string
	CreatedBy        string
	CreatedAt        time.Time
	LinkedBy         string
	LinkedAt         *time.Time
	ReceivedBy       string
	ReceivedAt       *time.Time
	CancelledBy      string
	CancelledAt      *time.Time
	UpdatedAt        time.Time
}

// CountsAsSupply indica si la entrada suma a la oferta disponible de la semana.
func (e IncomingStockEntry) CountsAsSupply() bool {
	switch e.Status {
	case IncomingStatusDraft, IncomingStatusLinked, IncomingStatusReceived:
		return true
	}
	return false
}
