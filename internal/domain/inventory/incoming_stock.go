// Package inventory contiene la máquina de estados del stock entrante (servicio de dominio).
// Cada transición recibe la entrada por valor y devuelve una nueva; nunca muta la original.
package inventory

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/fulfillment-planner/internal/domain"
	"github.com/jhoicas/fulfillment-planner/internal/domain/entity"
)

const entityName = "incoming_stock"

// NewEntry crea un pronóstico en estado draft.
func NewEntry(id, productID string, quantity int, week entity.Week, actor string, now time.Time) (entity.IncomingStockEntry, error) {
	if strings.TrimSpace(productID) == "" {
		return entity.IncomingStockEntry{}, domain.Invalid("product_id", "requerido")
	}
	if quantity <= 0 {
		return entity.IncomingStockEntry{}, domain.Invalid("quantity", "debe ser mayor que 0")
	}
	return entity.IncomingStockEntry{
		ID:         id,
		ProductID:  productID,
		Quantity:   quantity,
		Week:       week,
		Status:     entity.IncomingStatusDraft,
		TotalPrice: decimal.Zero,
		CreatedBy:  actor,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// Link vincula proveedor y precio: draft -> linked. TotalPrice = Quantity * UnitPrice.
func Link(e entity.IncomingStockEntry, vendorID string, unitPrice *decimal.Decimal, actor string, now time.Time) (entity.IncomingStockEntry, error) {
	if e.Status != entity.IncomingStatusDraft {
		return e, domain.InvalidTransition(entityName, e.Status, entity.IncomingStatusLinked)
	}
	if strings.TrimSpace(vendorID) == "" {
		return e, domain.Invalid("vendor_id", "requerido para vincular")
	}
	if unitPrice == nil {
		return e, domain.Invalid("unit_price", "requerido para vincular")
	}
	if unitPrice.IsNegative() {
		return e, domain.Invalid("unit_price", "no puede ser negativo")
	}
	price := *unitPrice
	e.VendorID = vendorID
	e.UnitPrice = &price
	e.TotalPrice = decimal.NewFromInt(int64(e.Quantity)).Mul(price)
	e.Status = entity.IncomingStatusLinked
	e.LinkedBy = actor
	e.LinkedAt = &now
	e.UpdatedAt = now
	return e, nil
}

// Receive registra la recepción física: linked -> received (terminal).
// Es el punto en que la cantidad recibida pasa a ser stock autoritativo.
func Receive(e entity.IncomingStockEntry, receivedQuantity int, actor string, now time.Time) (entity.IncomingStockEntry, error) {
	if e.Status != entity.IncomingStatusLinked {
		return e, domain.InvalidTransition(entityName, e.Status, entity.IncomingStatusReceived)
	}
	if receivedQuantity < 0 {
		return e, domain.Invalid("received_quantity", "no puede ser negativa")
	}
	if receivedQuantity > e.Quantity {
		return e, domain.Invalid("received_quantity", "no puede superar la cantidad pronosticada")
	}
	e.ReceivedQuantity = receivedQuantity
	e.Status = entity.IncomingStatusReceived
	e.ReceivedBy = actor
	e.ReceivedAt = &now
	e.UpdatedAt = now
	return e, nil
}

// Cancel anula la entrada desde draft o linked. Nunca desde received.
func Cancel(e entity.IncomingStockEntry, reason, actor string, now time.Time) (entity.IncomingStockEntry, error) {
	if e.Status != entity.IncomingStatusDraft && e.Status != entity.IncomingStatusLinked {
		return e, domain.InvalidTransition(entityName, e.Status, entity.IncomingStatusCancelled)
	}
	e.Status = entity.IncomingStatusCancelled
	e.CancelReason = strings.TrimSpace(reason)
	e.CancelledBy = actor
	e.CancelledAt = &now
	e.UpdatedAt = now
	return e, nil
}

// AttachPurchaseOrder asocia la orden de compra generada a una entrada vinculada.
func AttachPurchaseOrder(e entity.IncomingStockEntry, purchaseOrderID string, now time.Time) (entity.IncomingStockEntry, error) {
	if e.Status != entity.IncomingStatusLinked {
		return e, domain.InvalidTransition(entityName, e.Status, "purchase_order_attached")
	}
	if strings.TrimSpace(purchaseOrderID) == "" {
		return e, domain.Invalid("purchase_order_id", "requerido")
	}
	e.PurchaseOrderID = purchaseOrderID
	e.UpdatedAt = now
	return e, nil
}
