package planning

import (
	"sort"

	"github.com/jhoicas/fulfillment-planner/internal/domain/entity"
)

// Plan resultado de agregar y asignar una semana completa.
type Plan struct {
	Week    entity.Week
	Ledgers []entity.ProductShortageLedger // por ProductID
	Stores  []entity.StoreAllocation       // por StoreID
	Sources []entity.SourceRef
}

// BuildPlan ejecuta Aggregate + Allocate sobre una instantánea de catálogo, stock entrante y demanda.
func BuildPlan(
	week entity.Week,
	catalog []entity.Product,
	incoming []entity.IncomingStockEntry,
	demand []entity.DemandLine,
) Plan {
	ledgers := Aggregate(week, catalog, incoming, demand)
	byProduct := StoreDemands(week, demand)

	items := make(map[string][]entity.AllocationItem)
	for _, l := range SortedLedgers(ledgers) {
		for _, s := range Allocate(l, byProduct[l.ProductID]) {
			items[s.StoreID] = append(items[s.StoreID], entity.AllocationItem{
				ProductID:      s.ProductID,
				Ordered:        s.Ordered,
				Allocated:      s.Allocated,
				FirstOrderedAt: s.OrderedAt,
			})
		}
	}

	stores := make([]entity.StoreAllocation, 0, len(items))
	for storeID, its := range items {
		stores = append(stores, entity.StoreAllocation{
			StoreID:          storeID,
			Items:            its,
			AllocationStatus: StoreStatus(its),
			PickingProgress:  entity.PickingPending,
		})
	}
	sort.Slice(stores, func(i, j int) bool { return stores[i].StoreID < stores[j].StoreID })

	return Plan{
		Week:    week,
		Ledgers: SortedLedgers(ledgers),
		Stores:  stores,
		Sources: Sources(week, demand),
	}
}

// ProductDemands reconstruye la demanda por tienda de un producto desde las asignaciones guardadas.
// Permite reasignar un solo producto sin volver a leer pedidos.
func ProductDemands(stores []entity.StoreAllocation, productID string) []StoreDemand {
	var out []StoreDemand
	for _, s := range stores {
		if i := s.Item(productID); i >= 0 {
			it := s.Items[i]
			out = append(out, StoreDemand{StoreID: s.StoreID, ProductID: productID, Ordered: it.Ordered, OrderedAt: it.FirstOrderedAt})
		}
	}
	return out
}
