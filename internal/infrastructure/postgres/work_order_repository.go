package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/fulfillment-planner/internal/domain"
	"github.com/jhoicas/fulfillment-planner/internal/domain/entity"
	"github.com/jhoicas/fulfillment-planner/internal/domain/repository"
)

var _ repository.WorkOrderRepository = (*WorkOrderRepo)(nil)

const workOrderColumns = `id, week_start, week_end, status, sources, created_by, created_at, confirmed_by, confirmed_at,
	completed_by, completed_at, cancelled_by, cancelled_at, updated_at`

// WorkOrderRepo persistencia de órdenes de trabajo: cabecera, ledgers por producto,
// asignaciones por tienda e ítems en tablas separadas.
// Create y las escrituras múltiples deben ejecutarse dentro de TxRunner.
type WorkOrderRepo struct {
	q Querier
}

// NewWorkOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewWorkOrderRepository(q Querier) *WorkOrderRepo {
	return &WorkOrderRepo{q: q}
}

type sourceJSON struct {
	SourceType string `json:"source_type"`
	SourceID   string `json:"source_id"`
}

type resolutionJSON struct {
	AddedQuantity int       `json:"added_quantity"`
	ResolvedBy    string    `json:"resolved_by"`
	ResolvedAt    time.Time `json:"resolved_at"`
	Notes         string    `json:"notes,omitempty"`
}

// Create inserta la orden completa. El índice único de semana activa convierte una segunda
// orden simultánea en ErrConcurrentConfirmation.
func (r *WorkOrderRepo) Create(ctx context.Context, wo *entity.WorkOrder) error {
	sources, err := marshalSources(wo.Sources)
	if err != nil {
		return err
	}
	_, err = r.q.Exec(ctx, `
		INSERT INTO work_orders (`+workOrderColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		wo.ID, wo.Week.Start, wo.Week.End, wo.Status, sources, wo.CreatedBy, wo.CreatedAt,
		wo.ConfirmedBy, wo.ConfirmedAt, wo.CompletedBy, wo.CompletedAt, wo.CancelledBy, wo.CancelledAt, wo.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) || isSerializationFailure(err) {
			return domain.ErrConcurrentConfirmation
		}
		return fmt.Errorf("insert work order: %w", err)
	}
	for _, l := range wo.Ledgers {
		if err := r.SaveProductLedger(ctx, wo.ID, l); err != nil {
			return err
		}
	}
	for _, s := range wo.Stores {
		if err := r.SaveStoreAllocation(ctx, wo.ID, s); err != nil {
			return err
		}
	}
	return nil
}

// GetByID obtiene la orden completa.
func (r *WorkOrderRepo) GetByID(ctx context.Context, id string) (*entity.WorkOrder, error) {
	return r.getOne(ctx, `SELECT `+workOrderColumns+` FROM work_orders WHERE id = $1`, id)
}

// GetForUpdate bloquea la cabecera (SELECT FOR UPDATE) y carga el resto de la orden.
func (r *WorkOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.WorkOrder, error) {
	return r.getOne(ctx, `SELECT `+workOrderColumns+` FROM work_orders WHERE id = $1 FOR UPDATE`, id)
}

// GetActiveByWeek obtiene la orden no cancelada de la semana.
func (r *WorkOrderRepo) GetActiveByWeek(ctx context.Context, week entity.Week) (*entity.WorkOrder, error) {
	return r.getOne(ctx,
		`SELECT `+workOrderColumns+` FROM work_orders WHERE week_start = $1 AND status <> 'cancelled'`,
		week.Start,
	)
}

// ListByWeek lista todas las órdenes de la semana (incluidas canceladas) en orden de creación.
func (r *WorkOrderRepo) ListByWeek(ctx context.Context, week entity.Week) ([]entity.WorkOrder, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+workOrderColumns+` FROM work_orders WHERE week_start = $1 ORDER BY created_at, id`,
		week.Start,
	)
	if err != nil {
		return nil, fmt.Errorf("list work orders: %w", err)
	}
	var list []entity.WorkOrder
	for rows.Next() {
		wo, err := scanWorkOrder(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan work order: %w", err)
		}
		list = append(list, *wo)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list work orders: %w", err)
	}
	for i := range list {
		if err := r.loadDetails(ctx, &list[i]); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// UpdateHeader actualiza estado, fuentes y actores/fechas de la orden.
func (r *WorkOrderRepo) UpdateHeader(ctx context.Context, wo *entity.WorkOrder) error {
	sources, err := marshalSources(wo.Sources)
	if err != nil {
		return err
	}
	cmd, err := r.q.Exec(ctx, `
		UPDATE work_orders SET status = $2, sources = $3, confirmed_by = $4, confirmed_at = $5,
			completed_by = $6, completed_at = $7, cancelled_by = $8, cancelled_at = $9, updated_at = $10
		WHERE id = $1`,
		wo.ID, wo.Status, sources, wo.ConfirmedBy, wo.ConfirmedAt,
		wo.CompletedBy, wo.CompletedAt, wo.CancelledBy, wo.CancelledAt, wo.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) || isSerializationFailure(err) {
			return domain.ErrConcurrentConfirmation
		}
		return fmt.Errorf("update work order: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SaveProductLedger inserta o reemplaza el ledger de un producto.
func (r *WorkOrderRepo) SaveProductLedger(ctx context.Context, workOrderID string, l entity.ProductShortageLedger) error {
	resolutions := make([]resolutionJSON, 0, len(l.Resolutions))
	for _, res := range l.Resolutions {
		resolutions = append(resolutions, resolutionJSON{
			AddedQuantity: res.AddedQuantity,
			ResolvedBy:    res.ResolvedBy,
			ResolvedAt:    res.ResolvedAt,
			Notes:         res.Notes,
		})
	}
	b, err := json.Marshal(resolutions)
	if err != nil {
		return fmt.Errorf("marshal resolutions: %w", err)
	}
	_, err = r.q.Exec(ctx, `
		INSERT INTO work_order_product_ledgers
			(work_order_id, product_id, on_hand_snapshot, incoming_supply, total_ordered, total_available, shortage, status, resolutions)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (work_order_id, product_id) DO UPDATE SET
			on_hand_snapshot = EXCLUDED.on_hand_snapshot, incoming_supply = EXCLUDED.incoming_supply,
			total_ordered = EXCLUDED.total_ordered, total_available = EXCLUDED.total_available,
			shortage = EXCLUDED.shortage, status = EXCLUDED.status, resolutions = EXCLUDED.resolutions`,
		workOrderID, l.ProductID, l.OnHandSnapshot, l.IncomingSupply, l.TotalOrdered, l.TotalAvailable, l.Shortage, l.Status, b,
	)
	if err != nil {
		return fmt.Errorf("save product ledger: %w", err)
	}
	return nil
}

// SaveStoreAllocation inserta o reemplaza la asignación de una tienda y sus ítems.
func (r *WorkOrderRepo) SaveStoreAllocation(ctx context.Context, workOrderID string, s entity.StoreAllocation) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO work_order_store_allocations
			(work_order_id, store_id, allocation_status, picking_progress, started_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (work_order_id, store_id) DO UPDATE SET
			allocation_status = EXCLUDED.allocation_status, picking_progress = EXCLUDED.picking_progress,
			started_at = EXCLUDED.started_at, completed_at = EXCLUDED.completed_at`,
		workOrderID, s.StoreID, s.AllocationStatus, s.PickingProgress, s.StartedAt, s.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("save store allocation: %w", err)
	}
	for _, it := range s.Items {
		_, err := r.q.Exec(ctx, `
			INSERT INTO work_order_allocation_items
				(work_order_id, store_id, product_id, ordered, allocated, first_ordered_at, picked, picked_by, picked_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (work_order_id, store_id, product_id) DO UPDATE SET
				ordered = EXCLUDED.ordered, allocated = EXCLUDED.allocated, first_ordered_at = EXCLUDED.first_ordered_at,
				picked = EXCLUDED.picked, picked_by = EXCLUDED.picked_by, picked_at = EXCLUDED.picked_at`,
			workOrderID, s.StoreID, it.ProductID, it.Ordered, it.Allocated, it.FirstOrderedAt, it.Picked, it.PickedBy, it.PickedAt,
		)
		if err != nil {
			return fmt.Errorf("save allocation item: %w", err)
		}
	}
	return nil
}

func (r *WorkOrderRepo) getOne(ctx context.Context, query string, arg any) (*entity.WorkOrder, error) {
	wo, err := scanWorkOrder(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get work order: %w", err)
	}
	if err := r.loadDetails(ctx, wo); err != nil {
		return nil, err
	}
	return wo, nil
}

// loadDetails carga ledgers, tiendas e ítems de la orden.
func (r *WorkOrderRepo) loadDetails(ctx context.Context, wo *entity.WorkOrder) error {
	ledgers, err := r.loadLedgers(ctx, wo.ID)
	if err != nil {
		return err
	}
	stores, err := r.loadStores(ctx, wo.ID)
	if err != nil {
		return err
	}
	wo.Ledgers = ledgers
	wo.Stores = stores
	return nil
}

func (r *WorkOrderRepo) loadLedgers(ctx context.Context, workOrderID string) ([]entity.ProductShortageLedger, error) {
	rows, err := r.q.Query(ctx, `
		SELECT product_id, on_hand_snapshot, incoming_supply, total_ordered, total_available, shortage, status, resolutions
		FROM work_order_product_ledgers WHERE work_order_id = $1 ORDER BY product_id`, workOrderID)
	if err != nil {
		return nil, fmt.Errorf("list product ledgers: %w", err)
	}
	defer rows.Close()
	var out []entity.ProductShortageLedger
	for rows.Next() {
		var (
			l   entity.ProductShortageLedger
			raw []byte
		)
		if err := rows.Scan(&l.ProductID, &l.OnHandSnapshot, &l.IncomingSupply, &l.TotalOrdered,
			&l.TotalAvailable, &l.Shortage, &l.Status, &raw); err != nil {
			return nil, fmt.Errorf("scan product ledger: %w", err)
		}
		var resolutions []resolutionJSON
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &resolutions); err != nil {
				return nil, fmt.Errorf("unmarshal resolutions: %w", err)
			}
		}
		for _, res := range resolutions {
			l.Resolutions = append(l.Resolutions, entity.ShortageResolution{
				AddedQuantity: res.AddedQuantity,
				ResolvedBy:    res.ResolvedBy,
				ResolvedAt:    res.ResolvedAt,
				Notes:         res.Notes,
			})
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *WorkOrderRepo) loadStores(ctx context.Context, workOrderID string) ([]entity.StoreAllocation, error) {
	rows, err := r.q.Query(ctx, `
		SELECT store_id, allocation_status, picking_progress, started_at, completed_at
		FROM work_order_store_allocations WHERE work_order_id = $1 ORDER BY store_id`, workOrderID)
	if err != nil {
		return nil, fmt.Errorf("list store allocations: %w", err)
	}
	var stores []entity.StoreAllocation
	for rows.Next() {
		var s entity.StoreAllocation
		if err := rows.Scan(&s.StoreID, &s.AllocationStatus, &s.PickingProgress, &s.StartedAt, &s.CompletedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan store allocation: %w", err)
		}
		stores = append(stores, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list store allocations: %w", err)
	}

	items, err := r.q.Query(ctx, `
		SELECT store_id, product_id, ordered, allocated, first_ordered_at, picked, picked_by, picked_at
		FROM work_order_allocation_items WHERE work_order_id = $1 ORDER BY store_id, product_id`, workOrderID)
	if err != nil {
		return nil, fmt.Errorf("list allocation items: %w", err)
	}
	defer items.Close()
	index := make(map[string]int, len(stores))
	for i, s := range stores {
		index[s.StoreID] = i
	}
	for items.Next() {
		var (
			storeID string
			it      entity.AllocationItem
		)
		if err := items.Scan(&storeID, &it.ProductID, &it.Ordered, &it.Allocated, &it.FirstOrderedAt,
			&it.Picked, &it.PickedBy, &it.PickedAt); err != nil {
			return nil, fmt.Errorf("scan allocation item: %w", err)
		}
		if i, ok := index[storeID]; ok {
			stores[i].Items = append(stores[i].Items, it)
		}
	}
	return stores, items.Err()
}

func scanWorkOrder(row pgx.Row) (*entity.WorkOrder, error) {
	var (
		wo         entity.WorkOrder
		start, end time.Time
		sources    []byte
	)
	if err := row.Scan(&wo.ID, &start, &end, &wo.Status, &sources, &wo.CreatedBy, &wo.CreatedAt,
		&wo.ConfirmedBy, &wo.ConfirmedAt, &wo.CompletedBy, &wo.CompletedAt, &wo.CancelledBy, &wo.CancelledAt, &wo.UpdatedAt); err != nil {
		return nil, err
	}
	wo.Week = toWeek(start, end)
	if len(sources) > 0 {
		var refs []sourceJSON
		if err := json.Unmarshal(sources, &refs); err != nil {
			return nil, fmt.Errorf("unmarshal sources: %w", err)
		}
		for _, s := range refs {
			wo.Sources = append(wo.Sources, entity.SourceRef{SourceType: s.SourceType, SourceID: s.SourceID})
		}
	}
	return &wo, nil
}

func marshalSources(sources []entity.SourceRef) ([]byte, error) {
	refs := make([]sourceJSON, 0, len(sources))
	for _, s := range sources {
		refs = append(refs, sourceJSON{SourceType: s.SourceType, SourceID: s.SourceID})
	}
	b, err := json.Marshal(refs)
	if err != nil {
		return nil, fmt.Errorf("marshal sources: %w", err)
	}
	return b, nil
}
