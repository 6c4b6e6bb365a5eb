package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/fulfillment-planner/internal/application/dto"
	"github.com/jhoicas/fulfillment-planner/internal/application/ports"
	"github.com/jhoicas/fulfillment-planner/internal/domain"
	"github.com/jhoicas/fulfillment-planner/internal/domain/entity"
	"github.com/jhoicas/fulfillment-planner/internal/domain/inventory"
	"github.com/jhoicas/fulfillment-planner/internal/domain/repository"
	"github.com/jhoicas/fulfillment-planner/pkg/logger"
)

// IncomingStockUseCase flujo de pronósticos de stock entrante: alta, vinculación con proveedor,
// recepción (transaccional con el on-hand del producto) y cancelación.
type IncomingStockUseCase struct {
	txRunner  ports.TxRunner
	entries   repository.IncomingStockRepository
	products  repository.ProductRepository
	vendors   repository.VendorRepository
	weekStart time.Weekday
	metrics   ports.PlanningMetrics
	log       *logger.Logger
}

// NewIncomingStockUseCase construye el caso de uso.
func NewIncomingStockUseCase(
	txRunner ports.TxRunner,
	entries repository.IncomingStockRepository,
	products repository.ProductRepository,
	vendors repository.VendorRepository,
	weekStart time.Weekday,
	metrics ports.PlanningMetrics,
	log *logger.Logger,
) *IncomingStockUseCase {
	return &IncomingStockUseCase{
		txRunner:  txRunner,
		entries:   entries,
		products:  products,
		vendors:   vendors,
		weekStart: weekStart,
		metrics:   metrics,
		log:       log.Component("incoming_stock"),
	}
}

// Create registra un pronóstico en draft para la semana que contiene in.Week.
func (uc *IncomingStockUseCase) Create(ctx context.Context, actor string, in dto.CreateIncomingStockRequest) (*dto.IncomingStockResponse, error) {
	week, err := entity.ParseWeek(in.Week, uc.weekStart)
	if err != nil {
		return nil, domain.Invalid("week", err.Error())
	}
	if _, err := uc.products.GetByID(ctx, in.ProductID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.Invalid("product_id", "producto no existe")
		}
		return nil, err
	}
	e, err := inventory.NewEntry(uuid.New().String(), in.ProductID, in.Quantity, week, actor, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if err := uc.entries.Create(ctx, &e); err != nil {
		return nil, err
	}
	uc.logTransition(e, actor)
	return toIncomingResponse(&e), nil
}

// Get obtiene un pronóstico por ID.
func (uc *IncomingStockUseCase) Get(ctx context.Context, id string) (*dto.IncomingStockResponse, error) {
	e, err := uc.entries.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toIncomingResponse(e), nil
}

// ListByWeek lista los pronósticos de la semana que contiene weekDate (todas los estados).
func (uc *IncomingStockUseCase) ListByWeek(ctx context.Context, weekDate string) (*dto.IncomingStockListResponse, error) {
	week, err := entity.ParseWeek(weekDate, uc.weekStart)
	if err != nil {
		return nil, domain.Invalid("week", err.Error())
	}
	list, err := uc.entries.ListByWeek(ctx, week)
	if err != nil {
		return nil, err
	}
	items := make([]dto.IncomingStockResponse, 0, len(list))
	for i := range list {
		items = append(items, *toIncomingResponse(&list[i]))
	}
	return &dto.IncomingStockListResponse{
		WeekStart: week.Start.Format(entity.WeekLayout),
		WeekEnd:   week.End.Format(entity.WeekLayout),
		Items:     items,
	}, nil
}

// Link vincula proveedor y precio unitario (draft -> linked). El proveedor debe existir y estar activo.
func (uc *IncomingStockUseCase) Link(ctx context.Context, id, actor string, in dto.LinkIncomingStockRequest) (*dto.IncomingStockResponse, error) {
	v, err := uc.vendors.GetByID(ctx, in.VendorID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.Invalid("vendor_id", "proveedor no existe")
		}
		return nil, err
	}
	if !v.Active {
		return nil, domain.Invalid("vendor_id", "proveedor inactivo")
	}
	return uc.transition(ctx, id, actor, func(e entity.IncomingStockEntry, now time.Time) (entity.IncomingStockEntry, error) {
		return inventory.Link(e, v.ID, in.UnitPrice, actor, now)
	}, nil)
}

// Receive registra la llegada física (linked -> received) y suma la cantidad recibida al on-hand
// del producto en la misma transacción: o ambos quedan o ninguno.
func (uc *IncomingStockUseCase) Receive(ctx context.Context, id, actor string, in dto.ReceiveIncomingStockRequest) (*dto.IncomingStockResponse, error) {
	return uc.transition(ctx, id, actor, func(e entity.IncomingStockEntry, now time.Time) (entity.IncomingStockEntry, error) {
		qty := e.Quantity
		if in.ReceivedQuantity != nil {
			qty = *in.ReceivedQuantity
		}
		return inventory.Receive(e, qty, actor, now)
	}, func(tx repository.Tx, e entity.IncomingStockEntry) error {
		if e.ReceivedQuantity == 0 {
			return nil
		}
		return tx.Products().AdjustOnHand(ctx, e.ProductID, e.ReceivedQuantity)
	})
}

// Cancel anula un pronóstico en draft o linked.
func (uc *IncomingStockUseCase) Cancel(ctx context.Context, id, actor string, in dto.CancelIncomingStockRequest) (*dto.IncomingStockResponse, error) {
	return uc.transition(ctx, id, actor, func(e entity.IncomingStockEntry, now time.Time) (entity.IncomingStockEntry, error) {
		return inventory.Cancel(e, in.Reason, actor, now)
	}, nil)
}

// AttachPurchaseOrder asocia la orden de compra generada a un pronóstico linked.
func (uc *IncomingStockUseCase) AttachPurchaseOrder(ctx context.Context, id, actor string, in dto.AttachPurchaseOrderRequest) (*dto.IncomingStockResponse, error) {
	return uc.transition(ctx, id, actor, func(e entity.IncomingStockEntry, now time.Time) (entity.IncomingStockEntry, error) {
		return inventory.AttachPurchaseOrder(e, in.PurchaseOrderID, now)
	}, nil)
}

// transition bloquea la entrada, aplica la transición de dominio, la guarda y ejecuta after
// (efectos en otros agregados) dentro de la misma transacción.
func (uc *IncomingStockUseCase) transition(
	ctx context.Context,
	id, actor string,
	apply func(entity.IncomingStockEntry, time.Time) (entity.IncomingStockEntry, error),
	after func(repository.Tx, entity.IncomingStockEntry) error,
) (*dto.IncomingStockResponse, error) {
	var updated entity.IncomingStockEntry
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		current, err := tx.IncomingStock().GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		next, err := apply(*current, time.Now().UTC())
		if err != nil {
			return err
		}
		if err := tx.IncomingStock().Update(ctx, &next); err != nil {
			return err
		}
		if after != nil {
			if err := after(tx, next); err != nil {
				return err
			}
		}
		updated = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.logTransition(updated, actor)
	return toIncomingResponse(&updated), nil
}

func (uc *IncomingStockUseCase) logTransition(e entity.IncomingStockEntry, actor string) {
	uc.metrics.IncomingTransition(e.Status)
	uc.log.Info().
		Str("incoming_id", e.ID).
		Str("product_id", e.ProductID).
		Str("week", e.Week.Key()).
		Str("status", e.Status).
		Str("actor", actor).
		Msg("stock entrante actualizado")
}

func toIncomingResponse(e *entity.IncomingStockEntry) *dto.IncomingStockResponse {
	return &dto.IncomingStockResponse{
		ID:               e.ID,
		ProductID:        e.ProductID,
		Quantity:         e.Quantity,
		WeekStart:        e.Week.Start.Format(entity.WeekLayout),
		WeekEnd:          e.Week.End.Format(entity.WeekLayout),
		VendorID:         e.VendorID,
		UnitPrice:        e.UnitPrice,
		TotalPrice:       e.TotalPrice,
		Status:           e.Status,
		ReceivedQuantity: e.ReceivedQuantity,
		PurchaseOrderID:  e.PurchaseOrderID,
		CancelReason:     e.CancelReason,
		CreatedBy:        e.CreatedBy,
		CreatedAt:        e.CreatedAt,
		LinkedAt:         e.LinkedAt,
		ReceivedAt:       e.ReceivedAt,
		CancelledAt:      e.CancelledAt,
		UpdatedAt:        e.UpdatedAt,
	}
}
