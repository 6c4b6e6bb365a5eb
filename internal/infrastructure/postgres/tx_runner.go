package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/fulfillment-planner/internal/application/ports"
	"github.com/jhoicas/fulfillment-planner/internal/domain/repository"
)

// Ensure TxRunner implements ports.TxRunner.
var _ ports.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	db TxBeginner
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(db TxBeginner) *TxRunner {
	return &TxRunner{db: db}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(tx repository.Tx) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	return r.finish(ctx, tx, fn)
}

// RunSnapshot abre la transacción en REPEATABLE READ: las lecturas de catálogo, stock entrante y
// demanda ven la misma instantánea.
func (r *TxRunner) RunSnapshot(ctx context.Context, fn func(tx repository.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return fmt.Errorf("begin snapshot transaction: %w", err)
	}
	return r.finish(ctx, tx, fn)
}

func (r *TxRunner) finish(ctx context.Context, tx pgx.Tx, fn func(tx repository.Tx) error) error {
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewRepositories(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Repositories agrupa los repositorios sobre un mismo Querier (pool o tx).
type Repositories struct {
	products   *ProductRepo
	vendors    *VendorRepo
	incoming   *IncomingStockRepo
	demand     *DemandRepo
	workOrders *WorkOrderRepo
}

// NewRepositories construye todos los repositorios sobre q.
func NewRepositories(q Querier) *Repositories {
	return &Repositories{
		products:   NewProductRepository(q),
		vendors:    NewVendorRepository(q),
		incoming:   NewIncomingStockRepository(q),
		demand:     NewDemandRepository(q),
		workOrders: NewWorkOrderRepository(q),
	}
}

func (r *Repositories) Products() repository.ProductRepository            { return r.products }
func (r *Repositories) Vendors() repository.VendorRepository              { return r.vendors }
func (r *Repositories) IncomingStock() repository.IncomingStockRepository { return r.incoming }
func (r *Repositories) Demand() repository.DemandRepository               { return r.demand }
func (r *Repositories) WorkOrders() repository.WorkOrderRepository        { return r.workOrders }
