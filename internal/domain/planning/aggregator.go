// Package planning agrega demanda y oferta semanal por producto y reparte la oferta entre tiendas.
// Todo es cálculo puro sobre datos ya leídos: sin I/O, determinista y re-ejecutable.
package planning

import (
	"sort"

	"github.com/jhoicas/fulfillment-planner/internal/domain/entity"
)

// Aggregate suma la demanda (pedidos + pre-pedidos no cancelados) y la oferta
// (on-hand + stock entrante no cancelado) de la semana para cada producto con demanda.
//
// Los pronósticos en draft cuentan como oferta: así el planeador ve faltantes antes de emitir
// órdenes de compra. Un producto ausente del catálogo se toma con on-hand 0.
func Aggregate(
	week entity.Week,
	catalog []entity.Product,
	incoming []entity.IncomingStockEntry,
	demand []entity.DemandLine,
) map[string]entity.ProductShortageLedger {
	ordered := make(map[string]int)
	for _, d := range activeDemand(week, demand) {
		ordered[d.ProductID] += d.Quantity
	}

	onHand := make(map[string]int, len(catalog))
	for _, p := range catalog {
		onHand[p.ID] = p.OnHand
	}

	supply := make(map[string]int)
	for _, e := range incoming {
		if e.Week.Key() != week.Key() || !e.CountsAsSupply() {
			continue
		}
		supply[e.ProductID] += e.Quantity
	}

	ledgers := make(map[string]entity.ProductShortageLedger, len(ordered))
	for productID, totalOrdered := range ordered {
		l := entity.ProductShortageLedger{
			ProductID:      productID,
			OnHandSnapshot: onHand[productID],
			IncomingSupply: supply[productID],
			TotalOrdered:   totalOrdered,
		}
		l.TotalAvailable = l.OnHandSnapshot + l.IncomingSupply
		ledgers[productID] = Recompute(l)
	}
	return ledgers
}

// Recompute recalcula Shortage y Status a partir de TotalAvailable y TotalOrdered.
func Recompute(l entity.ProductShortageLedger) entity.ProductShortageLedger {
	l.Shortage = l.TotalAvailable - l.TotalOrdered
	switch {
	case l.Shortage >= 0:
		l.Status = entity.AllocationFull
	case l.TotalAvailable <= 0:
		l.Status = entity.AllocationShort
	default:
		l.Status = entity.AllocationPartial
	}
	return l
}

// SortedLedgers devuelve los ledgers ordenados por ProductID.
func SortedLedgers(m map[string]entity.ProductShortageLedger) []entity.ProductShortageLedger {
	out := make([]entity.ProductShortageLedger, 0, len(m))
	for _, l := range m {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}

// StoreDemands consolida la demanda activa de la semana por (tienda, producto):
// suma cantidades y conserva la fecha de pedido más antigua.
func StoreDemands(week entity.Week, demand []entity.DemandLine) map[string][]StoreDemand {
	type key struct{ store, product string }
	acc := make(map[key]*StoreDemand)
	for _, d := range activeDemand(week, demand) {
		k := key{d.StoreID, d.ProductID}
		sd, ok := acc[k]
		if !ok {
			acc[k] = &StoreDemand{StoreID: d.StoreID, ProductID: d.ProductID, Ordered: d.Quantity, OrderedAt: d.CreatedAt}
			continue
		}
		sd.Ordered += d.Quantity
		if d.CreatedAt.Before(sd.OrderedAt) {
			sd.OrderedAt = d.CreatedAt
		}
	}

	byProduct := make(map[string][]StoreDemand)
	for _, sd := range acc {
		byProduct[sd.ProductID] = append(byProduct[sd.ProductID], *sd)
	}
	for pid := range byProduct {
		sortByPriority(byProduct[pid])
	}
	return byProduct
}

// Sources referencias únicas (tipo, id) de los pedidos que aportaron demanda, en orden estable.
func Sources(week entity.Week, demand []entity.DemandLine) []entity.SourceRef {
	seen := make(map[entity.SourceRef]bool)
	var out []entity.SourceRef
	for _, d := range activeDemand(week, demand) {
		ref := entity.SourceRef{SourceType: d.SourceType, SourceID: d.SourceID}
		if seen[ref] {
			continue
		}
		seen[ref] = true
		out = append(out, ref)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SourceType != out[j].SourceType {
			return out[i].SourceType < out[j].SourceType
		}
		return out[i].SourceID < out[j].SourceID
	})
	return out
}

func activeDemand(week entity.Week, demand []entity.DemandLine) []entity.DemandLine {
	out := make([]entity.DemandLine, 0, len(demand))
	for _, d := range demand {
		if d.Cancelled || d.Quantity <= 0 || d.ProductID == "" || d.StoreID == "" {
			continue
		}
		if !week.Contains(d.DeliveryDate) {
			continue
		}
		out = append(out, d)
	}
	return out
}
