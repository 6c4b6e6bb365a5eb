// Package planning casos de uso de la orden de trabajo semanal: vista previa, confirmación,
// alistamiento por tienda, cierre y resolución de faltantes.
package planning

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/fulfillment-planner/internal/application/dto"
	"github.com/jhoicas/fulfillment-planner/internal/application/ports"
	"github.com/jhoicas/fulfillment-planner/internal/domain"
	"github.com/jhoicas/fulfillment-planner/internal/domain/entity"
	domainplanning "github.com/jhoicas/fulfillment-planner/internal/domain/planning"
	"github.com/jhoicas/fulfillment-planner/internal/domain/repository"
	"github.com/jhoicas/fulfillment-planner/internal/domain/workorder"
	"github.com/jhoicas/fulfillment-planner/pkg/logger"
)

// Config parámetros del motor de planeación.
type Config struct {
	LockTTL   time.Duration
	WeekStart time.Weekday
}

// WorkOrderUseCase orquesta lectura de la instantánea, cálculo puro y persistencia de la orden.
type WorkOrderUseCase struct {
	txRunner   ports.TxRunner
	workOrders repository.WorkOrderRepository
	products   repository.ProductRepository
	incoming   repository.IncomingStockRepository
	demand     repository.DemandRepository
	locker     ports.Locker
	cfg        Config
	metrics    ports.PlanningMetrics
	log        *logger.Logger
}

// NewWorkOrderUseCase construye el caso de uso.
func NewWorkOrderUseCase(
	txRunner ports.TxRunner,
	workOrders repository.WorkOrderRepository,
	products repository.ProductRepository,
	incoming repository.IncomingStockRepository,
	demand repository.DemandRepository,
	locker ports.Locker,
	cfg Config,
	metrics ports.PlanningMetrics,
	log *logger.Logger,
) *WorkOrderUseCase {
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = 30 * time.Second
	}
	return &WorkOrderUseCase{
		txRunner:   txRunner,
		workOrders: workOrders,
		products:   products,
		incoming:   incoming,
		demand:     demand,
		locker:     locker,
		cfg:        cfg,
		metrics:    metrics,
		log:        log.Component("work_order"),
	}
}

// ConfirmLockKey llave del lock de confirmación de una semana.
func ConfirmLockKey(week entity.Week) string {
	return "workorder:confirm:" + week.Key()
}

// ResolutionLockKey llave del lock de resolución de un producto dentro de una orden.
func ResolutionLockKey(workOrderID, productID string) string {
	return "workorder:" + workOrderID + ":product:" + productID
}

// Preview calcula el plan de la semana sin persistir nada.
func (uc *WorkOrderUseCase) Preview(ctx context.Context, weekDate string) (*dto.WorkOrderPreviewResponse, error) {
	week, err := uc.parseWeek(weekDate)
	if err != nil {
		return nil, err
	}
	plan, catalog, err := buildPlan(ctx, week, uc.products, uc.incoming, uc.demand)
	if err != nil {
		return nil, err
	}
	caps := capacities(catalog)
	return &dto.WorkOrderPreviewResponse{
		WeekStart: week.Start.Format(entity.WeekLayout),
		WeekEnd:   week.End.Format(entity.WeekLayout),
		Ledgers:   toLedgerDTOs(plan.Ledgers, plan.Stores, caps),
		Stores:    toStoreDTOs(plan.Stores),
		Sources:   toSourceDTOs(plan.Sources),
	}, nil
}

// CreateDraft crea una orden vacía en draft. Falla si la semana ya tiene una orden activa.
func (uc *WorkOrderUseCase) CreateDraft(ctx context.Context, actor, weekDate string) (*dto.WorkOrderResponse, error) {
	week, err := uc.parseWeek(weekDate)
	if err != nil {
		return nil, err
	}
	wo := workorder.NewDraft(uuid.New().String(), week, actor, time.Now().UTC())
	err = uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		existing, err := tx.WorkOrders().GetActiveByWeek(ctx, week)
		switch {
		case err == nil && existing.Status == entity.WorkOrderStatusDraft:
			return domain.ErrConflict
		case err == nil:
			return domain.ErrAlreadyConfirmed
		case !errors.Is(err, domain.ErrNotFound):
			return err
		}
		return tx.WorkOrders().Create(ctx, &wo)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("work_order_id", wo.ID).Str("week", week.Key()).Str("actor", actor).Msg("orden de trabajo en draft")
	return toWorkOrderResponse(&wo, nil), nil
}

// Confirm ejecuta Aggregate + Allocate sobre una instantánea consistente de la semana y persiste
// la orden en confirmed. Si existe un draft se llena; si no, se crea y confirma en un paso.
//
// Dos confirmaciones simultáneas de la misma semana: la segunda recibe ErrConcurrentConfirmation
// (lock por semana y, como respaldo, índice único de semana activa en la base).
func (uc *WorkOrderUseCase) Confirm(ctx context.Context, actor, weekDate string) (*dto.WorkOrderResponse, error) {
	week, err := uc.parseWeek(weekDate)
	if err != nil {
		return nil, err
	}
	started := time.Now()

	release, err := uc.locker.Acquire(ctx, ConfirmLockKey(week), uc.cfg.LockTTL)
	if err != nil {
		if errors.Is(err, ports.ErrLockHeld) {
			uc.metrics.ConfirmationConflict()
			return nil, domain.ErrConcurrentConfirmation
		}
		return nil, err
	}
	defer uc.release(release, ConfirmLockKey(week))

	var (
		confirmed entity.WorkOrder
		catalog   []entity.Product
	)
	err = uc.txRunner.RunSnapshot(ctx, func(tx repository.Tx) error {
		wo, isNew, err := uc.draftFor(ctx, tx, week, actor)
		if err != nil {
			return err
		}
		var plan domainplanning.Plan
		plan, catalog, err = buildPlan(ctx, week, tx.Products(), tx.IncomingStock(), tx.Demand())
		if err != nil {
			return err
		}
		confirmed, err = workorder.Confirm(wo, plan, actor, time.Now().UTC())
		if err != nil {
			return err
		}
		if isNew {
			return tx.WorkOrders().Create(ctx, &confirmed)
		}
		return saveAll(ctx, tx.WorkOrders(), &confirmed)
	})
	if err != nil {
		if errors.Is(err, domain.ErrConcurrentConfirmation) {
			uc.metrics.ConfirmationConflict()
		}
		return nil, err
	}

	uc.metrics.WorkOrderConfirmed(time.Since(started))
	uc.log.Info().
		Str("work_order_id", confirmed.ID).
		Str("week", week.Key()).
		Str("actor", actor).
		Int("products", len(confirmed.Ledgers)).
		Int("stores", len(confirmed.Stores)).
		Msg("orden de trabajo confirmada")
	return toWorkOrderResponse(&confirmed, capacities(catalog)), nil
}

// Get obtiene una orden con el cálculo de tarimas por producto.
func (uc *WorkOrderUseCase) Get(ctx context.Context, id string) (*dto.WorkOrderResponse, error) {
	wo, err := uc.workOrders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	caps, err := uc.capacitiesFor(ctx, wo)
	if err != nil {
		return nil, err
	}
	return toWorkOrderResponse(wo, caps), nil
}

// ListByWeek órdenes de la semana, incluidas las canceladas.
func (uc *WorkOrderUseCase) ListByWeek(ctx context.Context, weekDate string) (*dto.WorkOrderListResponse, error) {
	week, err := uc.parseWeek(weekDate)
	if err != nil {
		return nil, err
	}
	list, err := uc.workOrders.ListByWeek(ctx, week)
	if err != nil {
		return nil, err
	}
	items := make([]dto.WorkOrderResponse, 0, len(list))
	for i := range list {
		items = append(items, *toWorkOrderResponse(&list[i], nil))
	}
	return &dto.WorkOrderListResponse{
		WeekStart: week.Start.Format(entity.WeekLayout),
		WeekEnd:   week.End.Format(entity.WeekLayout),
		Items:     items,
	}, nil
}

// StartPicking marca el inicio del alistamiento de una tienda.
func (uc *WorkOrderUseCase) StartPicking(ctx context.Context, id, storeID, actor string) (*dto.WorkOrderResponse, error) {
	wo, err := uc.mutate(ctx, id, func(wo entity.WorkOrder, now time.Time) (entity.WorkOrder, []string, error) {
		next, err := workorder.StartPicking(wo, storeID, actor, now)
		return next, []string{storeID}, err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("work_order_id", id).Str("store_id", storeID).Str("actor", actor).Msg("alistamiento iniciado")
	return toWorkOrderResponse(wo, nil), nil
}

// PickItem marca un ítem de una tienda como alistado.
func (uc *WorkOrderUseCase) PickItem(ctx context.Context, id, storeID, productID, actor string) (*dto.WorkOrderResponse, error) {
	wo, err := uc.mutate(ctx, id, func(wo entity.WorkOrder, now time.Time) (entity.WorkOrder, []string, error) {
		next, err := workorder.PickItem(wo, storeID, productID, actor, now)
		return next, []string{storeID}, err
	})
	if err != nil {
		return nil, err
	}
	uc.metrics.ItemPicked()
	uc.log.Info().
		Str("work_order_id", id).
		Str("store_id", storeID).
		Str("product_id", productID).
		Str("actor", actor).
		Msg("ítem alistado")
	return toWorkOrderResponse(wo, nil), nil
}

// Complete cierra la orden (todas las tiendas deben haber terminado el alistamiento).
func (uc *WorkOrderUseCase) Complete(ctx context.Context, id, actor string) (*dto.WorkOrderResponse, error) {
	wo, err := uc.mutate(ctx, id, func(wo entity.WorkOrder, now time.Time) (entity.WorkOrder, []string, error) {
		next, err := workorder.Complete(wo, actor, now)
		return next, nil, err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("work_order_id", id).Str("week", wo.Week.Key()).Str("actor", actor).Msg("orden de trabajo completada")
	return toWorkOrderResponse(wo, nil), nil
}

// Cancel anula una orden en draft o confirmed y libera la semana.
func (uc *WorkOrderUseCase) Cancel(ctx context.Context, id, actor string) (*dto.WorkOrderResponse, error) {
	wo, err := uc.mutate(ctx, id, func(wo entity.WorkOrder, now time.Time) (entity.WorkOrder, []string, error) {
		next, err := workorder.Cancel(wo, actor, now)
		return next, nil, err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("work_order_id", id).Str("week", wo.Week.Key()).Str("actor", actor).Msg("orden de trabajo cancelada")
	return toWorkOrderResponse(wo, nil), nil
}

// ResolveShortage suma stock tardío a un producto y reasigna solo ese producto.
// Resolver el mismo producto dos veces a la vez devuelve ErrConcurrentResolution;
// productos distintos no se bloquean entre sí.
func (uc *WorkOrderUseCase) ResolveShortage(ctx context.Context, id, productID, actor string, in dto.ResolveShortageRequest) (*dto.ResolveShortageResponse, error) {
	key := ResolutionLockKey(id, productID)
	release, err := uc.locker.Acquire(ctx, key, uc.cfg.LockTTL)
	if err != nil {
		if errors.Is(err, ports.ErrLockHeld) {
			return nil, domain.ErrConcurrentResolution
		}
		return nil, err
	}
	defer uc.release(release, key)

	var affected []string
	wo, err := uc.mutateLedger(ctx, id, productID, func(wo entity.WorkOrder, now time.Time) (entity.WorkOrder, []string, error) {
		next, stores, err := workorder.ResolveShortage(wo, productID, in.AdditionalQuantity, actor, in.Notes, now)
		affected = stores
		return next, stores, err
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.ShortageResolved(productID, in.AdditionalQuantity)
	l := wo.Ledgers[wo.Ledger(productID)]
	uc.log.Info().
		Str("work_order_id", id).
		Str("product_id", productID).
		Str("actor", actor).
		Int("added", in.AdditionalQuantity).
		Int("shortage", l.Shortage).
		Str("status", l.Status).
		Strs("affected_stores", affected).
		Msg("faltante resuelto")

	caps, err := uc.capacitiesFor(ctx, wo)
	if err != nil {
		return nil, err
	}
	if affected == nil {
		affected = []string{}
	}
	return &dto.ResolveShortageResponse{WorkOrder: *toWorkOrderResponse(wo, caps), AffectedStores: affected}, nil
}

// draftFor devuelve el draft activo de la semana (bloqueado) o uno nuevo. Una orden activa que ya
// pasó por confirmed rechaza la operación.
func (uc *WorkOrderUseCase) draftFor(ctx context.Context, tx repository.Tx, week entity.Week, actor string) (entity.WorkOrder, bool, error) {
	existing, err := tx.WorkOrders().GetActiveByWeek(ctx, week)
	if errors.Is(err, domain.ErrNotFound) {
		return workorder.NewDraft(uuid.New().String(), week, actor, time.Now().UTC()), true, nil
	}
	if err != nil {
		return entity.WorkOrder{}, false, err
	}
	if existing.Status != entity.WorkOrderStatusDraft {
		return entity.WorkOrder{}, false, domain.ErrAlreadyConfirmed
	}
	locked, err := tx.WorkOrders().GetForUpdate(ctx, existing.ID)
	if err != nil {
		return entity.WorkOrder{}, false, err
	}
	return *locked, false, nil
}

// mutate bloquea la orden, aplica fn y guarda cabecera y las tiendas que fn indique.
func (uc *WorkOrderUseCase) mutate(ctx context.Context, id string, fn func(entity.WorkOrder, time.Time) (entity.WorkOrder, []string, error)) (*entity.WorkOrder, error) {
	var out entity.WorkOrder
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		current, err := tx.WorkOrders().GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		next, stores, err := fn(*current, time.Now().UTC())
		if err != nil {
			return err
		}
		if err := tx.WorkOrders().UpdateHeader(ctx, &next); err != nil {
			return err
		}
		if err := saveStores(ctx, tx.WorkOrders(), &next, stores); err != nil {
			return err
		}
		out = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// mutateLedger como mutate pero además guarda el ledger del producto.
func (uc *WorkOrderUseCase) mutateLedger(ctx context.Context, id, productID string, fn func(entity.WorkOrder, time.Time) (entity.WorkOrder, []string, error)) (*entity.WorkOrder, error) {
	var out entity.WorkOrder
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		current, err := tx.WorkOrders().GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		next, stores, err := fn(*current, time.Now().UTC())
		if err != nil {
			return err
		}
		if err := tx.WorkOrders().SaveProductLedger(ctx, id, next.Ledgers[next.Ledger(productID)]); err != nil {
			return err
		}
		if err := saveStores(ctx, tx.WorkOrders(), &next, stores); err != nil {
			return err
		}
		if err := tx.WorkOrders().UpdateHeader(ctx, &next); err != nil {
			return err
		}
		out = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (uc *WorkOrderUseCase) release(release func(context.Context) error, key string) {
	if err := release(context.Background()); err != nil {
		uc.log.Warn().Err(err).Str("lock_key", key).Msg("no se pudo liberar el lock")
	}
}

func (uc *WorkOrderUseCase) parseWeek(s string) (entity.Week, error) {
	week, err := entity.ParseWeek(s, uc.cfg.WeekStart)
	if err != nil {
		return entity.Week{}, domain.Invalid("week", err.Error())
	}
	return week, nil
}

func (uc *WorkOrderUseCase) capacitiesFor(ctx context.Context, wo *entity.WorkOrder) (map[string]int, error) {
	if len(wo.Ledgers) == 0 {
		return nil, nil
	}
	ids := make([]string, 0, len(wo.Ledgers))
	for _, l := range wo.Ledgers {
		ids = append(ids, l.ProductID)
	}
	catalog, err := uc.products.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return capacities(catalog), nil
}

// buildPlan lee la instantánea de la semana (demanda, stock entrante, catálogo de los productos
// pedidos) y ejecuta el cálculo puro.
func buildPlan(
	ctx context.Context,
	week entity.Week,
	products repository.ProductRepository,
	incoming repository.IncomingStockRepository,
	demand repository.DemandRepository,
) (domainplanning.Plan, []entity.Product, error) {
	lines, err := demand.ListByWeek(ctx, week)
	if err != nil {
		return domainplanning.Plan{}, nil, err
	}
	entries, err := incoming.ListByWeek(ctx, week)
	if err != nil {
		return domainplanning.Plan{}, nil, err
	}
	seen := make(map[string]bool)
	var ids []string
	for _, l := range lines {
		if !seen[l.ProductID] {
			seen[l.ProductID] = true
			ids = append(ids, l.ProductID)
		}
	}
	var catalog []entity.Product
	if len(ids) > 0 {
		catalog, err = products.ListByIDs(ctx, ids)
		if err != nil {
			return domainplanning.Plan{}, nil, err
		}
	}
	return domainplanning.BuildPlan(week, catalog, entries, lines), catalog, nil
}

func saveAll(ctx context.Context, repo repository.WorkOrderRepository, wo *entity.WorkOrder) error {
	if err := repo.UpdateHeader(ctx, wo); err != nil {
		return err
	}
	for _, l := range wo.Ledgers {
		if err := repo.SaveProductLedger(ctx, wo.ID, l); err != nil {
			return err
		}
	}
	for _, s := range wo.Stores {
		if err := repo.SaveStoreAllocation(ctx, wo.ID, s); err != nil {
			return err
		}
	}
	return nil
}

func saveStores(ctx context.Context, repo repository.WorkOrderRepository, wo *entity.WorkOrder, storeIDs []string) error {
	for _, sid := range storeIDs {
		i := wo.Store(sid)
		if i < 0 {
			continue
		}
		if err := repo.SaveStoreAllocation(ctx, wo.ID, wo.Stores[i]); err != nil {
			return err
		}
	}
	return nil
}

func capacities(catalog []entity.Product) map[string]int {
	out := make(map[string]int, len(catalog))
	for _, p := range catalog {
		if p.PalletCapacity != nil && p.PalletCapacity.TotalCasesPerPallet > 0 {
			out[p.ID] = p.PalletCapacity.TotalCasesPerPallet
		}
	}
	return out
}
