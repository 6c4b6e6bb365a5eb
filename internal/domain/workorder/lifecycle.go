// Package workorder implementa el ciclo de vida de la orden de trabajo semanal:
// confirmación, alistamiento por tienda, cierre, cancelación y resolución de faltantes.
// Igual que inventory, cada operación recibe la orden por valor y devuelve una copia modificada.
package workorder

import (
	"time"

	"github.com/jhoicas/fulfillment-planner/internal/domain"
	"github.com/jhoicas/fulfillment-planner/internal/domain/entity"
	"github.com/jhoicas/fulfillment-planner/internal/domain/planning"
)

const entityName = "work_order"

// NewDraft crea una orden vacía en draft para la semana.
func NewDraft(id string, week entity.Week, actor string, now time.Time) entity.WorkOrder {
	return entity.WorkOrder{
		ID:        id,
		Week:      week,
		Status:    entity.WorkOrderStatusDraft,
		CreatedBy: actor,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Confirm llena la orden con el plan calculado y la pasa a confirmed. Solo una vez por orden.
func Confirm(wo entity.WorkOrder, plan planning.Plan, actor string, now time.Time) (entity.WorkOrder, error) {
	switch wo.Status {
	case entity.WorkOrderStatusDraft:
	case entity.WorkOrderStatusConfirmed, entity.WorkOrderStatusInProgress, entity.WorkOrderStatusCompleted:
		return wo, domain.ErrAlreadyConfirmed
	default:
		return wo, domain.InvalidTransition(entityName, wo.Status, entity.WorkOrderStatusConfirmed)
	}
	if plan.Week.Key() != wo.Week.Key() {
		return wo, domain.Invalid("week", "el plan no corresponde a la semana de la orden")
	}
	wo.Ledgers = plan.Ledgers
	wo.Stores = plan.Stores
	wo.Sources = plan.Sources
	wo.Status = entity.WorkOrderStatusConfirmed
	wo.ConfirmedBy = actor
	wo.ConfirmedAt = &now
	wo.UpdatedAt = now
	return wo, nil
}

// StartPicking mueve una tienda de pending a in_progress. Si ya empezó no hace nada.
func StartPicking(wo entity.WorkOrder, storeID, actor string, now time.Time) (entity.WorkOrder, error) {
	if err := requirePickable(wo); err != nil {
		return wo, err
	}
	si := wo.Store(storeID)
	if si < 0 {
		return wo, domain.ErrNotFound
	}
	wo.Stores = cloneStores(wo.Stores)
	store := &wo.Stores[si]
	if store.PickingProgress == entity.PickingPending {
		store.PickingProgress = entity.PickingInProgress
		store.StartedAt = &now
	}
	markInProgress(&wo, now)
	return wo, nil
}

// PickItem marca un ítem como alistado. Cuando todos los ítems de la tienda están alistados
// la tienda pasa a completed. Un ítem ya alistado se deja tal cual.
func PickItem(wo entity.WorkOrder, storeID, productID, actor string, now time.Time) (entity.WorkOrder, error) {
	if err := requirePickable(wo); err != nil {
		return wo, err
	}
	si := wo.Store(storeID)
	if si < 0 {
		return wo, domain.ErrNotFound
	}
	ii := wo.Stores[si].Item(productID)
	if ii < 0 {
		return wo, domain.ErrNotFound
	}

	wo.Stores = cloneStores(wo.Stores)
	store := &wo.Stores[si]
	item := &store.Items[ii]
	if !item.Picked {
		item.Picked = true
		item.PickedBy = actor
		item.PickedAt = &now
	}
	if store.PickingProgress == entity.PickingPending {
		store.PickingProgress = entity.PickingInProgress
		store.StartedAt = &now
	}
	if allPicked(store.Items) && store.PickingProgress != entity.PickingCompleted {
		store.PickingProgress = entity.PickingCompleted
		store.CompletedAt = &now
	}
	markInProgress(&wo, now)
	return wo, nil
}

// Complete cierra la orden. Exige que todas las tiendas hayan completado el alistamiento.
func Complete(wo entity.WorkOrder, actor string, now time.Time) (entity.WorkOrder, error) {
	if wo.Status != entity.WorkOrderStatusConfirmed && wo.Status != entity.WorkOrderStatusInProgress {
		return wo, domain.InvalidTransition(entityName, wo.Status, entity.WorkOrderStatusCompleted)
	}
	for _, s := range wo.Stores {
		if s.PickingProgress != entity.PickingCompleted {
			return wo, domain.ErrIncompletePicking
		}
	}
	wo.Status = entity.WorkOrderStatusCompleted
	wo.CompletedBy = actor
	wo.CompletedAt = &now
	wo.UpdatedAt = now
	return wo, nil
}

// Cancel anula la orden desde draft o confirmed. La semana queda libre para una nueva confirmación.
func Cancel(wo entity.WorkOrder, actor string, now time.Time) (entity.WorkOrder, error) {
	if wo.Status != entity.WorkOrderStatusDraft && wo.Status != entity.WorkOrderStatusConfirmed {
		return wo, domain.InvalidTransition(entityName, wo.Status, entity.WorkOrderStatusCancelled)
	}
	wo.Status = entity.WorkOrderStatusCancelled
	wo.CancelledBy = actor
	wo.CancelledAt = &now
	wo.UpdatedAt = now
	return wo, nil
}

// ResolveShortage suma stock tardío a un producto y reasigna solo ese producto.
// Devuelve la orden actualizada y las tiendas cuya asignación cambió.
// Los ítems ya alistados conservan su marca.
func ResolveShortage(wo entity.WorkOrder, productID string, added int, actor, notes string, now time.Time) (entity.WorkOrder, []string, error) {
	if err := requirePickable(wo); err != nil {
		return wo, nil, err
	}
	li := wo.Ledger(productID)
	if li < 0 {
		return wo, nil, domain.ErrNotFound
	}
	ledger, err := planning.ResolveShortage(wo.Ledgers[li], added, actor, notes, now)
	if err != nil {
		return wo, nil, err
	}

	wo.Ledgers = append([]entity.ProductShortageLedger(nil), wo.Ledgers...)
	wo.Ledgers[li] = ledger
	wo.Stores = cloneStores(wo.Stores)

	var affected []string
	for _, share := range planning.Allocate(ledger, planning.ProductDemands(wo.Stores, productID)) {
		si := wo.Store(share.StoreID)
		store := &wo.Stores[si]
		ii := store.Item(productID)
		if store.Items[ii].Allocated == share.Allocated {
			continue
		}
		store.Items[ii].Allocated = share.Allocated
		store.AllocationStatus = planning.StoreStatus(store.Items)
		affected = append(affected, share.StoreID)
	}
	wo.UpdatedAt = now
	return wo, affected, nil
}

func requirePickable(wo entity.WorkOrder) error {
	if wo.Status != entity.WorkOrderStatusConfirmed && wo.Status != entity.WorkOrderStatusInProgress {
		return domain.InvalidTransition(entityName, wo.Status, entity.WorkOrderStatusInProgress)
	}
	return nil
}

func markInProgress(wo *entity.WorkOrder, now time.Time) {
	if wo.Status == entity.WorkOrderStatusConfirmed {
		wo.Status = entity.WorkOrderStatusInProgress
	}
	wo.UpdatedAt = now
}

func allPicked(items []entity.AllocationItem) bool {
	for _, it := range items {
		if !it.Picked {
			return false
		}
	}
	return true
}

// cloneStores copia tiendas e ítems para no compartir memoria con la orden original.
func cloneStores(in []entity.StoreAllocation) []entity.StoreAllocation {
	out := make([]entity.StoreAllocation, len(in))
	for i, s := range in {
		s.Items = append([]entity.AllocationItem(nil), s.Items...)
		out[i] = s
	}
	return out
}
