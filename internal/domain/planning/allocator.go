package planning

import (
	"sort"
	"time"

	"github.com/jhoicas/fulfillment-planner/internal/domain"
	"github.com/jhoicas/fulfillment-planner/internal/domain/entity"
)

// StoreDemand demanda consolidada de una tienda para un producto.
type StoreDemand struct {
	StoreID   string
	ProductID string
	Ordered   int
	OrderedAt time.Time
}

// StoreShare resultado de la asignación de un producto a una tienda.
type StoreShare struct {
	StoreID   string
	ProductID string
	Ordered   int
	Allocated int
	OrderedAt time.Time
}

// Allocate reparte TotalAvailable del ledger entre las tiendas.
//
// Con oferta suficiente cada tienda recibe lo pedido. Si no, cada tienda recibe
// floor(available * ordered / totalOrdered) y el remanente se entrega de a una unidad
// en orden de pedido más antiguo (empate: StoreID). Siempre se cumple
// sum(allocated) <= available y allocated <= ordered. Resultado ordenado por StoreID.
func Allocate(ledger entity.ProductShortageLedger, demands []StoreDemand) []StoreShare {
	queue := make([]StoreDemand, 0, len(demands))
	totalOrdered := 0
	for _, d := range demands {
		if d.Ordered <= 0 {
			continue
		}
		queue = append(queue, d)
		totalOrdered += d.Ordered
	}
	sortByPriority(queue)

	shares := make([]StoreShare, len(queue))
	for i, d := range queue {
		shares[i] = StoreShare{StoreID: d.StoreID, ProductID: d.ProductID, Ordered: d.Ordered, OrderedAt: d.OrderedAt}
	}

	available := ledger.TotalAvailable
	switch {
	case available >= totalOrdered:
		for i := range shares {
			shares[i].Allocated = shares[i].Ordered
		}
	case available > 0:
		given := 0
		for i := range shares {
			// floor exacto en enteros: available*ordered/totalOrdered
			shares[i].Allocated = int(int64(available) * int64(shares[i].Ordered) / int64(totalOrdered))
			given += shares[i].Allocated
		}
		remainder := available - given
		for remainder > 0 {
			progressed := false
			for i := range shares {
				if remainder == 0 {
					break
				}
				if shares[i].Allocated < shares[i].Ordered {
					shares[i].Allocated++
					remainder--
					progressed = true
				}
			}
			if !progressed {
				break
			}
		}
	}

	sort.Slice(shares, func(i, j int) bool { return shares[i].StoreID < shares[j].StoreID })
	return shares
}

// ResolveShortage suma stock tardío al ledger y recalcula faltante y estado.
func ResolveShortage(ledger entity.ProductShortageLedger, added int, actor, notes string, now time.Time) (entity.ProductShortageLedger, error) {
	if added <= 0 {
		return ledger, domain.Invalid("additional_quantity", "debe ser mayor que 0")
	}
	ledger.TotalAvailable += added
	ledger.Resolutions = append(append([]entity.ShortageResolution(nil), ledger.Resolutions...), entity.ShortageResolution{
		AddedQuantity: added,
		ResolvedBy:    actor,
		ResolvedAt:    now,
		Notes:         notes,
	})
	return Recompute(ledger), nil
}

// StoreStatus estado agregado de una tienda: full si todo lo pedido fue asignado,
// short si no se asignó nada, partial en otro caso.
func StoreStatus(items []entity.AllocationItem) string {
	allFull := true
	anyAllocated := false
	for _, it := range items {
		if it.Allocated < it.Ordered {
			allFull = false
		}
		if it.Allocated > 0 {
			anyAllocated = true
		}
	}
	switch {
	case allFull:
		return entity.AllocationFull
	case !anyAllocated:
		return entity.AllocationShort
	default:
		return entity.AllocationPartial
	}
}

func sortByPriority(ds []StoreDemand) {
	sort.Slice(ds, func(i, j int) bool {
		if !ds[i].OrderedAt.Equal(ds[j].OrderedAt) {
			return ds[i].OrderedAt.Before(ds[j].OrderedAt)
		}
		return ds[i].StoreID < ds[j].StoreID
	})
}
