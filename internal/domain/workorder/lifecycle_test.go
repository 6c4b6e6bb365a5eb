package workorder_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fulfillment-planner/internal/domain"
	"github.com/jhoicas/fulfillment-planner/internal/domain/entity"
	"github.com/jhoicas/fulfillment-planner/internal/domain/planning"
	"github.com/jhoicas/fulfillment-planner/internal/domain/workorder"
)

var (
	now  = time.Date(2026, 10, 12, 7, 0, 0, 0, time.UTC)
	week = entity.WeekOf(now, time.Monday)
)

func demand(store, product string, qty, minute int) entity.DemandLine {
	return entity.DemandLine{
		SourceType:   entity.DemandSourceOrder,
		SourceID:     "ord-" + store + "-" + product,
		StoreID:      store,
		ProductID:    product,
		Quantity:     qty,
		DeliveryDate: week.Start.AddDate(0, 0, 3),
		CreatedAt:    now.Add(time.Duration(minute) * time.Minute),
	}
}

// p-short: 10 pedidas, nada disponible. p-ok: cubierto.
func confirmed(t *testing.T) entity.WorkOrder {
	t.Helper()
	catalog := []entity.Product{{ID: "p-short", OnHand: 0}, {ID: "p-ok", OnHand: 50}}
	plan := planning.BuildPlan(week, catalog, nil, []entity.DemandLine{
		demand("A", "p-short", 6, 1),
		demand("B", "p-short", 4, 2),
		demand("A", "p-ok", 5, 1),
	})
	wo, err := workorder.Confirm(workorder.NewDraft("wo-1", week, "planner-1", now), plan, "planner-1", now)
	require.NoError(t, err)
	return wo
}

func TestConfirm_DesdeDraft(t *testing.T) {
	wo := confirmed(t)
	assert.Equal(t, entity.WorkOrderStatusConfirmed, wo.Status)
	require.NotNil(t, wo.ConfirmedAt)
	require.Len(t, wo.Ledgers, 2)
	require.Len(t, wo.Stores, 2)
	assert.Equal(t, entity.AllocationShort, wo.Stores[1].AllocationStatus, "B solo pidió p-short")
}

func TestConfirm_RechazaReconfirmacion(t *testing.T) {
	wo := confirmed(t)
	_, err := workorder.Confirm(wo, planning.Plan{Week: week}, "x", now)
	assert.ErrorIs(t, err, domain.ErrAlreadyConfirmed)

	cancelled, err := workorder.Cancel(workorder.NewDraft("wo-2", week, "x", now), "x", now)
	require.NoError(t, err)
	_, err = workorder.Confirm(cancelled, planning.Plan{Week: week}, "x", now)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestConfirm_SemanaDistinta(t *testing.T) {
	other := entity.WeekOf(week.Start.AddDate(0, 0, 7), time.Monday)
	_, err := workorder.Confirm(workorder.NewDraft("wo", week, "x", now), planning.Plan{Week: other}, "x", now)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPickItem_AvanzaTiendaYOrden(t *testing.T) {
	wo := confirmed(t)

	wo, err := workorder.PickItem(wo, "A", "p-ok", "warehouse-1", now)
	require.NoError(t, err)
	assert.Equal(t, entity.WorkOrderStatusInProgress, wo.Status)
	a := wo.Stores[wo.Store("A")]
	assert.Equal(t, entity.PickingInProgress, a.PickingProgress)
	it := a.Items[a.Item("p-ok")]
	assert.True(t, it.Picked)
	assert.Equal(t, "warehouse-1", it.PickedBy)

	wo, err = workorder.PickItem(wo, "A", "p-short", "warehouse-1", now)
	require.NoError(t, err)
	assert.Equal(t, entity.PickingCompleted, wo.Stores[wo.Store("A")].PickingProgress)

	_, err = workorder.PickItem(wo, "A", "p-nope", "w", now)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = workorder.PickItem(wo, "Z", "p-ok", "w", now)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPickItem_RepetidoNoCambiaActor(t *testing.T) {
	wo, err := workorder.PickItem(confirmed(t), "A", "p-ok", "first", now)
	require.NoError(t, err)
	wo, err = workorder.PickItem(wo, "A", "p-ok", "second", now.Add(time.Minute))
	require.NoError(t, err)
	a := wo.Stores[wo.Store("A")]
	assert.Equal(t, "first", a.Items[a.Item("p-ok")].PickedBy)
}

func TestPickItem_NoMutaOriginal(t *testing.T) {
	wo := confirmed(t)
	_, err := workorder.PickItem(wo, "A", "p-ok", "w", now)
	require.NoError(t, err)
	a := wo.Stores[wo.Store("A")]
	assert.False(t, a.Items[a.Item("p-ok")].Picked)
	assert.Equal(t, entity.WorkOrderStatusConfirmed, wo.Status)
}

func TestStartPicking(t *testing.T) {
	wo, err := workorder.StartPicking(confirmed(t), "B", "w", now)
	require.NoError(t, err)
	assert.Equal(t, entity.WorkOrderStatusInProgress, wo.Status)
	assert.Equal(t, entity.PickingInProgress, wo.Stores[wo.Store("B")].PickingProgress)
	assert.Equal(t, entity.PickingPending, wo.Stores[wo.Store("A")].PickingProgress)

	_, err = workorder.StartPicking(workorder.NewDraft("d", week, "x", now), "B", "w", now)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestComplete_RequiereAlistamientoTotal(t *testing.T) {
	wo := confirmed(t)
	_, err := workorder.Complete(wo, "w", now)
	assert.ErrorIs(t, err, domain.ErrIncompletePicking)

	for _, step := range []struct{ store, product string }{{"A", "p-ok"}, {"A", "p-short"}} {
		wo, err = workorder.PickItem(wo, step.store, step.product, "w", now)
		require.NoError(t, err)
	}
	_, err = workorder.Complete(wo, "w", now)
	assert.ErrorIs(t, err, domain.ErrIncompletePicking, "B sigue pendiente")

	wo, err = workorder.PickItem(wo, "B", "p-short", "w", now)
	require.NoError(t, err)
	wo, err = workorder.Complete(wo, "supervisor", now)
	require.NoError(t, err)
	assert.Equal(t, entity.WorkOrderStatusCompleted, wo.Status)
	assert.Equal(t, "supervisor", wo.CompletedBy)

	_, err = workorder.Cancel(wo, "x", now)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "completed es terminal")
}

func TestCancel(t *testing.T) {
	wo, err := workorder.Cancel(confirmed(t), "planner-1", now)
	require.NoError(t, err)
	assert.Equal(t, entity.WorkOrderStatusCancelled, wo.Status)

	inProgress, err := workorder.StartPicking(confirmed(t), "A", "w", now)
	require.NoError(t, err)
	_, err = workorder.Cancel(inProgress, "planner-1", now)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

// Un ledger short (0 disponibles, 10 pedidas) que recibe +10 queda full y todas sus tiendas
// pasan a allocated = ordered sin tocar otros productos.
func TestResolveShortage_ReasignaSoloElProducto(t *testing.T) {
	wo := confirmed(t)
	before := wo.Ledgers[wo.Ledger("p-ok")]

	resolved, affected, err := workorder.ResolveShortage(wo, "p-short", 10, "planner-1", "camión tardío", now)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"A", "B"}, affected)

	l := resolved.Ledgers[resolved.Ledger("p-short")]
	assert.Equal(t, entity.AllocationFull, l.Status)
	assert.Equal(t, 0, l.Shortage)
	require.Len(t, l.Resolutions, 1)

	for _, s := range resolved.Stores {
		i := s.Item("p-short")
		require.GreaterOrEqual(t, i, 0)
		assert.Equal(t, s.Items[i].Ordered, s.Items[i].Allocated, s.StoreID)
		assert.Equal(t, entity.AllocationFull, s.AllocationStatus, s.StoreID)
	}
	assert.Equal(t, before, resolved.Ledgers[resolved.Ledger("p-ok")])

	orig := wo.Ledgers[wo.Ledger("p-short")]
	assert.Equal(t, entity.AllocationShort, orig.Status, "la orden original no cambia")
}

func TestResolveShortage_Parcial(t *testing.T) {
	resolved, affected, err := workorder.ResolveShortage(confirmed(t), "p-short", 5, "p", "", now)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"A", "B"}, affected)

	a := resolved.Stores[resolved.Store("A")]
	b := resolved.Stores[resolved.Store("B")]
	assert.Equal(t, 3, a.Items[a.Item("p-short")].Allocated)
	assert.Equal(t, 2, b.Items[b.Item("p-short")].Allocated)
	assert.Equal(t, entity.AllocationPartial, resolved.Ledgers[resolved.Ledger("p-short")].Status)
}

func TestResolveShortage_ConservaItemsAlistados(t *testing.T) {
	wo, err := workorder.PickItem(confirmed(t), "B", "p-short", "w", now)
	require.NoError(t, err)
	require.Equal(t, entity.PickingCompleted, wo.Stores[wo.Store("B")].PickingProgress)

	wo, _, err = workorder.ResolveShortage(wo, "p-short", 10, "p", "", now)
	require.NoError(t, err)
	b := wo.Stores[wo.Store("B")]
	assert.True(t, b.Items[0].Picked)
	assert.Equal(t, entity.PickingCompleted, b.PickingProgress)
}

func TestResolveShortage_Errores(t *testing.T) {
	wo := confirmed(t)
	_, _, err := workorder.ResolveShortage(wo, "p-x", 1, "p", "", now)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, _, err = workorder.ResolveShortage(wo, "p-short", 0, "p", "", now)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, _, err = workorder.ResolveShortage(workorder.NewDraft("d", week, "x", now), "p-short", 1, "p", "", now)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}
