package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/fulfillment-planner/internal/domain"
	"github.com/jhoicas/fulfillment-planner/internal/domain/entity"
	"github.com/jhoicas/fulfillment-planner/internal/domain/repository"
)

var _ repository.IncomingStockRepository = (*IncomingStockRepo)(nil)

const incomingColumns = `id, product_id, quantity, week_start, week_end, vendor_id, unit_price, total_price, status,
	received_quantity, purchase_order_id, cancel_reason, created_by, created_at, linked_by, linked_at,
	received_by, received_at, cancelled_by, cancelled_at, updated_at`

// IncomingStockRepo implementación de IncomingStockRepository sobre PostgreSQL (usable con pool o tx).
type IncomingStockRepo struct {
	q Querier
}

// NewIncomingStockRepository construye el adaptador. Pasar pool o tx (Querier).
func NewIncomingStockRepository(q Querier) *IncomingStockRepo {
	return &IncomingStockRepo{q: q}
}

// Create persiste un pronóstico nuevo.
func (r *IncomingStockRepo) Create(ctx context.Context, e *entity.IncomingStockEntry) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO incoming_stock (`+incomingColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`,
		incomingArgs(e)...,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert incoming stock: %w", err)
	}
	return nil
}

// GetByID obtiene un pronóstico por ID.
func (r *IncomingStockRepo) GetByID(ctx context.Context, id string) (*entity.IncomingStockEntry, error) {
	return r.get(ctx, `SELECT `+incomingColumns+` FROM incoming_stock WHERE id = $1`, id)
}

// GetForUpdate obtiene el pronóstico y bloquea la fila (SELECT FOR UPDATE).
func (r *IncomingStockRepo) GetForUpdate(ctx context.Context, id string) (*entity.IncomingStockEntry, error) {
	return r.get(ctx, `SELECT `+incomingColumns+` FROM incoming_stock WHERE id = $1 FOR UPDATE`, id)
}

// Update guarda todos los campos mutables del pronóstico.
func (r *IncomingStockRepo) Update(ctx context.Context, e *entity.IncomingStockEntry) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE incoming_stock SET
			vendor_id = $2, unit_price = $3, total_price = $4, status = $5, received_quantity = $6,
			purchase_order_id = $7, cancel_reason = $8, linked_by = $9, linked_at = $10,
			received_by = $11, received_at = $12, cancelled_by = $13, cancelled_at = $14, updated_at = $15
		WHERE id = $1`,
		e.ID, nullString(e.VendorID), e.UnitPrice, e.TotalPrice, e.Status, e.ReceivedQuantity,
		e.PurchaseOrderID, e.CancelReason, e.LinkedBy, e.LinkedAt,
		e.ReceivedBy, e.ReceivedAt, e.CancelledBy, e.CancelledAt, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update incoming stock: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByWeek lista los pronósticos de la semana en orden de creación.
func (r *IncomingStockRepo) ListByWeek(ctx context.Context, week entity.Week) ([]entity.IncomingStockEntry, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+incomingColumns+` FROM incoming_stock WHERE week_start = $1 ORDER BY created_at, id`,
		week.Start,
	)
	if err != nil {
		return nil, fmt.Errorf("list incoming stock: %w", err)
	}
	defer rows.Close()
	var list []entity.IncomingStockEntry
	for rows.Next() {
		e, err := scanIncoming(rows)
		if err != nil {
			return nil, fmt.Errorf("scan incoming stock: %w", err)
		}
		list = append(list, *e)
	}
	return list, rows.Err()
}

func (r *IncomingStockRepo) get(ctx context.Context, query, id string) (*entity.IncomingStockEntry, error) {
	e, err := scanIncoming(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get incoming stock: %w", err)
	}
	return e, nil
}

func incomingArgs(e *entity.IncomingStockEntry) []any {
	return []any{
		e.ID, e.ProductID, e.Quantity, e.Week.Start, e.Week.End, nullString(e.VendorID), e.UnitPrice, e.TotalPrice, e.Status,
		e.ReceivedQuantity, e.PurchaseOrderID, e.CancelReason, e.CreatedBy, e.CreatedAt, e.LinkedBy, e.LinkedAt,
		e.ReceivedBy, e.ReceivedAt, e.CancelledBy, e.CancelledAt, e.UpdatedAt,
	}
}

func scanIncoming(row pgx.Row) (*entity.IncomingStockEntry, error) {
	var (
		e          entity.IncomingStockEntry
		start, end time.Time
		vendorID   *string
	)
	if err := row.Scan(
		&e.ID, &e.ProductID, &e.Quantity, &start, &end, &vendorID, &e.UnitPrice, &e.TotalPrice, &e.Status,
		&e.ReceivedQuantity, &e.PurchaseOrderID, &e.CancelReason, &e.CreatedBy, &e.CreatedAt, &e.LinkedBy, &e.LinkedAt,
		&e.ReceivedBy, &e.ReceivedAt, &e.CancelledBy, &e.CancelledAt, &e.UpdatedAt,
	); err != nil {
		return nil, err
	}
	e.Week = toWeek(start, end)
	if vendorID != nil {
		e.VendorID = *vendorID
	}
	return &e, nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
