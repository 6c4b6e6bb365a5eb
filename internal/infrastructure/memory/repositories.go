package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/fulfillment-planner/internal/domain"
	"github.com/jhoicas/fulfillment-planner/internal/domain/entity"
	"github.com/jhoicas/fulfillment-planner/internal/domain/repository"
)

var (
	_ repository.ProductRepository       = (*ProductRepo)(nil)
	_ repository.VendorRepository        = (*VendorRepo)(nil)
	_ repository.IncomingStockRepository = (*IncomingStockRepo)(nil)
	_ repository.DemandRepository        = (*DemandRepo)(nil)
	_ repository.WorkOrderRepository     = (*WorkOrderRepo)(nil)
)

// ProductRepo catálogo en memoria.
type ProductRepo struct{ access accessor }

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out entity.Product
	err := r.access(func(s *state) error {
		p, ok := s.products[id]
		if !ok {
			return domain.ErrNotFound
		}
		out = cloneProduct(p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListByIDs omite los IDs inexistentes.
func (r *ProductRepo) ListByIDs(_ context.Context, ids []string) ([]entity.Product, error) {
	var out []entity.Product
	err := r.access(func(s *state) error {
		for _, id := range ids {
			if p, ok := s.products[id]; ok {
				out = append(out, cloneProduct(p))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, err
}

func (r *ProductRepo) UpdatePalletCapacity(_ context.Context, product *entity.Product) error {
	return r.access(func(s *state) error {
		p, ok := s.products[product.ID]
		if !ok {
			return domain.ErrNotFound
		}
		p.Geometry = product.Geometry
		p.CaseWeight = product.CaseWeight
		p.PalletCapacity = cloneCapacity(product.PalletCapacity)
		p.UpdatedAt = product.UpdatedAt
		s.products[p.ID] = p
		return nil
	})
}

func (r *ProductRepo) AdjustOnHand(_ context.Context, productID string, delta int) error {
	return r.access(func(s *state) error {
		p, ok := s.products[productID]
		if !ok {
			return domain.ErrNotFound
		}
		p.OnHand += delta
		p.UpdatedAt = time.Now().UTC()
		s.products[productID] = p
		return nil
	})
}

// VendorRepo directorio de proveedores en memoria.
type VendorRepo struct{ access accessor }

func (r *VendorRepo) GetByID(_ context.Context, id string) (*entity.Vendor, error) {
	var out entity.Vendor
	err := r.access(func(s *state) error {
		v, ok := s.vendors[id]
		if !ok {
			return domain.ErrNotFound
		}
		out = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// IncomingStockRepo pronósticos de stock entrante en memoria.
type IncomingStockRepo struct{ access accessor }

func (r *IncomingStockRepo) Create(_ context.Context, e *entity.IncomingStockEntry) error {
	return r.access(func(s *state) error {
		if _, ok := s.incoming[e.ID]; ok {
			return fmt.Errorf("incoming stock %s: %w", e.ID, domain.ErrConflict)
		}
		s.incoming[e.ID] = cloneIncoming(*e)
		return nil
	})
}

func (r *IncomingStockRepo) GetByID(_ context.Context, id string) (*entity.IncomingStockEntry, error) {
	var out entity.IncomingStockEntry
	err := r.access(func(s *state) error {
		e, ok := s.incoming[id]
		if !ok {
			return domain.ErrNotFound
		}
		out = cloneIncoming(e)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *IncomingStockRepo) GetForUpdate(ctx context.Context, id string) (*entity.IncomingStockEntry, error) {
	return r.GetByID(ctx, id)
}

func (r *IncomingStockRepo) Update(_ context.Context, e *entity.IncomingStockEntry) error {
	return r.access(func(s *state) error {
		if _, ok := s.incoming[e.ID]; !ok {
			return domain.ErrNotFound
		}
		s.incoming[e.ID] = cloneIncoming(*e)
		return nil
	})
}

func (r *IncomingStockRepo) ListByWeek(_ context.Context, week entity.Week) ([]entity.IncomingStockEntry, error) {
	var out []entity.IncomingStockEntry
	err := r.access(func(s *state) error {
		for _, e := range s.incoming {
			if e.Week.Key() == week.Key() {
				out = append(out, cloneIncoming(e))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, err
}

// DemandRepo líneas de pedidos y pre-pedidos en memoria.
type DemandRepo struct{ access accessor }

func (r *DemandRepo) ListByWeek(_ context.Context, week entity.Week) ([]entity.DemandLine, error) {
	var out []entity.DemandLine
	err := r.access(func(s *state) error {
		for _, d := range s.demand {
			if week.Contains(d.DeliveryDate) {
				out = append(out, d)
			}
		}
		return nil
	})
	return out, err
}

// WorkOrderRepo órdenes de trabajo en memoria. Como en la base, solo puede haber una orden
// no cancelada por semana.
type WorkOrderRepo struct{ access accessor }

func (r *WorkOrderRepo) Create(_ context.Context, wo *entity.WorkOrder) error {
	return r.access(func(s *state) error {
		if _, ok := s.workOrders[wo.ID]; ok {
			return fmt.Errorf("work order %s: %w", wo.ID, domain.ErrConflict)
		}
		if _, ok := activeByWeek(s, wo.Week); ok {
			return domain.ErrConcurrentConfirmation
		}
		s.workOrders[wo.ID] = cloneWorkOrder(*wo)
		return nil
	})
}

func (r *WorkOrderRepo) GetByID(_ context.Context, id string) (*entity.WorkOrder, error) {
	var out entity.WorkOrder
	err := r.access(func(s *state) error {
		wo, ok := s.workOrders[id]
		if !ok {
			return domain.ErrNotFound
		}
		out = cloneWorkOrder(wo)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *WorkOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.WorkOrder, error) {
	return r.GetByID(ctx, id)
}

func (r *WorkOrderRepo) GetActiveByWeek(_ context.Context, week entity.Week) (*entity.WorkOrder, error) {
	var out entity.WorkOrder
	err := r.access(func(s *state) error {
		wo, ok := activeByWeek(s, week)
		if !ok {
			return domain.ErrNotFound
		}
		out = cloneWorkOrder(wo)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *WorkOrderRepo) ListByWeek(_ context.Context, week entity.Week) ([]entity.WorkOrder, error) {
	var out []entity.WorkOrder
	err := r.access(func(s *state) error {
		for _, wo := range s.workOrders {
			if wo.Week.Key() == week.Key() {
				out = append(out, cloneWorkOrder(wo))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, err
}

func (r *WorkOrderRepo) UpdateHeader(_ context.Context, wo *entity.WorkOrder) error {
	return r.access(func(s *state) error {
		cur, ok := s.workOrders[wo.ID]
		if !ok {
			return domain.ErrNotFound
		}
		if wo.Status != entity.WorkOrderStatusCancelled && cur.Status == entity.WorkOrderStatusCancelled {
			if other, ok := activeByWeek(s, wo.Week); ok && other.ID != wo.ID {
				return domain.ErrConcurrentConfirmation
			}
		}
		cur.Status = wo.Status
		cur.Sources = append([]entity.SourceRef(nil), wo.Sources...)
		cur.ConfirmedBy, cur.ConfirmedAt = wo.ConfirmedBy, wo.ConfirmedAt
		cur.CompletedBy, cur.CompletedAt = wo.CompletedBy, wo.CompletedAt
		cur.CancelledBy, cur.CancelledAt = wo.CancelledBy, wo.CancelledAt
		cur.UpdatedAt = wo.UpdatedAt
		s.workOrders[wo.ID] = cur
		return nil
	})
}

func (r *WorkOrderRepo) SaveProductLedger(_ context.Context, workOrderID string, l entity.ProductShortageLedger) error {
	return r.access(func(s *state) error {
		wo, ok := s.workOrders[workOrderID]
		if !ok {
			return domain.ErrNotFound
		}
		l.Resolutions = append([]entity.ShortageResolution(nil), l.Resolutions...)
		if i := wo.Ledger(l.ProductID); i >= 0 {
			wo.Ledgers[i] = l
		} else {
			wo.Ledgers = append(wo.Ledgers, l)
			sort.Slice(wo.Ledgers, func(i, j int) bool { return wo.Ledgers[i].ProductID < wo.Ledgers[j].ProductID })
		}
		s.workOrders[workOrderID] = wo
		return nil
	})
}

func (r *WorkOrderRepo) SaveStoreAllocation(_ context.Context, workOrderID string, st entity.StoreAllocation) error {
	return r.access(func(s *state) error {
		wo, ok := s.workOrders[workOrderID]
		if !ok {
			return domain.ErrNotFound
		}
		st = cloneStore(st)
		if i := wo.Store(st.StoreID); i >= 0 {
			wo.Stores[i] = st
		} else {
			wo.Stores = append(wo.Stores, st)
			sort.Slice(wo.Stores, func(i, j int) bool { return wo.Stores[i].StoreID < wo.Stores[j].StoreID })
		}
		s.workOrders[workOrderID] = wo
		return nil
	})
}

func activeByWeek(s *state, week entity.Week) (entity.WorkOrder, bool) {
	for _, wo := range s.workOrders {
		if wo.Week.Key() == week.Key() && wo.Status != entity.WorkOrderStatusCancelled {
			return wo, true
		}
	}
	return entity.WorkOrder{}, false
}
