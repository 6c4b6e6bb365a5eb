package memory

import "github.com/jhoicas/fulfillment-planner/internal/domain/entity"

// Copias profundas: el store nunca comparte slices ni punteros con quien llama.

func cloneCapacity(c *entity.PalletCapacity) *entity.PalletCapacity {
	if c == nil {
		return nil
	}
	out := *c
	out.Warnings = append([]string(nil), c.Warnings...)
	return &out
}

func cloneProduct(p entity.Product) entity.Product {
	p.PalletCapacity = cloneCapacity(p.PalletCapacity)
	return p
}

func cloneIncoming(e entity.IncomingStockEntry) entity.IncomingStockEntry {
	if e.UnitPrice != nil {
		price := *e.UnitPrice
		e.UnitPrice = &price
	}
	return e
}

func cloneStore(s entity.StoreAllocation) entity.StoreAllocation {
	s.Items = append([]entity.AllocationItem(nil), s.Items...)
	return s
}

func cloneWorkOrder(wo entity.WorkOrder) entity.WorkOrder {
	ledgers := make([]entity.ProductShortageLedger, len(wo.Ledgers))
	for i, l := range wo.Ledgers {
		l.Resolutions = append([]entity.ShortageResolution(nil), l.Resolutions...)
		ledgers[i] = l
	}
	stores := make([]entity.StoreAllocation, len(wo.Stores))
	for i, s := range wo.Stores {
		stores[i] = cloneStore(s)
	}
	wo.Ledgers = ledgers
	wo.Stores = stores
	wo.Sources = append([]entity.SourceRef(nil), wo.Sources...)
	return wo
}
