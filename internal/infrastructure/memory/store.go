// Package memory implementa los puertos de persistencia en memoria: mapas de valores propios
// indexados por ID. Las transacciones trabajan sobre una copia del estado que se publica
// completa al hacer commit. Se usa en tests y con APP_ENV=memory.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/fulfillment-planner/internal/application/ports"
	"github.com/jhoicas/fulfillment-planner/internal/domain/entity"
	"github.com/jhoicas/fulfillment-planner/internal/domain/repository"
)

var _ ports.TxRunner = (*Store)(nil)

type state struct {
	products   map[string]entity.Product
	vendors    map[string]entity.Vendor
	incoming   map[string]entity.IncomingStockEntry
	demand     []entity.DemandLine
	workOrders map[string]entity.WorkOrder
}

func newState() *state {
	return &state{
		products:   make(map[string]entity.Product),
		vendors:    make(map[string]entity.Vendor),
		incoming:   make(map[string]entity.IncomingStockEntry),
		workOrders: make(map[string]entity.WorkOrder),
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.products {
		c.products[k] = cloneProduct(v)
	}
	for k, v := range s.vendors {
		c.vendors[k] = v
	}
	for k, v := range s.incoming {
		c.incoming[k] = cloneIncoming(v)
	}
	c.demand = append([]entity.DemandLine(nil), s.demand...)
	for k, v := range s.workOrders {
		c.workOrders[k] = cloneWorkOrder(v)
	}
	return c
}

// Store estado en memoria protegido por un mutex. Implementa ports.TxRunner.
type Store struct {
	mu sync.Mutex
	st *state
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// access ejecuta fn con el estado vigente bajo el mutex (operaciones fuera de transacción).
func (s *Store) access(fn func(*state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.st)
}

// Run ejecuta fn sobre una copia del estado. Si fn no falla la copia reemplaza al estado vigente.
// Las transacciones se serializan; GetForUpdate equivale a GetByID.
func (s *Store) Run(ctx context.Context, fn func(tx repository.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.st.clone()
	direct := func(f func(*state) error) error { return f(work) }
	if err := fn(newRepos(direct)); err != nil {
		return err
	}
	s.st = work
	return nil
}

// RunSnapshot igual que Run: la copia del estado ya es una instantánea.
func (s *Store) RunSnapshot(ctx context.Context, fn func(tx repository.Tx) error) error {
	return s.Run(ctx, fn)
}

// Repos repositorios fuera de transacción sobre el estado vigente.
func (s *Store) Repos() repository.Tx {
	return newRepos(s.access)
}

type accessor func(func(*state) error) error

type repos struct {
	products   *ProductRepo
	vendors    *VendorRepo
	incoming   *IncomingStockRepo
	demand     *DemandRepo
	workOrders *WorkOrderRepo
}

func newRepos(a accessor) *repos {
	return &repos{
		products:   &ProductRepo{access: a},
		vendors:    &VendorRepo{access: a},
		incoming:   &IncomingStockRepo{access: a},
		demand:     &DemandRepo{access: a},
		workOrders: &WorkOrderRepo{access: a},
	}
}

func (r *repos) Products() repository.ProductRepository            { return r.products }
func (r *repos) Vendors() repository.VendorRepository              { return r.vendors }
func (r *repos) IncomingStock() repository.IncomingStockRepository { return r.incoming }
func (r *repos) Demand() repository.DemandRepository               { return r.demand }
func (r *repos) WorkOrders() repository.WorkOrderRepository        { return r.workOrders }
