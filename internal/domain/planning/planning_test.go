package planning_test

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fulfillment-planner/internal/domain"
	"github.com/jhoicas/fulfillment-planner/internal/domain/entity"
	"github.com/jhoicas/fulfillment-planner/internal/domain/planning"
)

var (
	t0   = time.Date(2026, 10, 5, 8, 0, 0, 0, time.UTC)
	week = entity.WeekOf(time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC), time.Monday)
)

func at(minutes int) time.Time { return t0.Add(time.Duration(minutes) * time.Minute) }

func line(store, product string, qty, minute int) entity.DemandLine {
	return entity.DemandLine{
		SourceType:   entity.DemandSourceOrder,
		SourceID:     "ord-" + store,
		StoreID:      store,
		ProductID:    product,
		Quantity:     qty,
		DeliveryDate: week.Start.AddDate(0, 0, 2),
		CreatedAt:    at(minute),
	}
}

func ledger(available, ordered int) entity.ProductShortageLedger {
	return planning.Recompute(entity.ProductShortageLedger{ProductID: "p1", TotalAvailable: available, TotalOrdered: ordered})
}

func byStore(shares []planning.StoreShare) map[string]int {
	m := make(map[string]int, len(shares))
	for _, s := range shares {
		m[s.StoreID] = s.Allocated
	}
	return m
}

// ──────────────────────────────────────────────────────────────────────────────
// Aggregate
// ──────────────────────────────────────────────────────────────────────────────

func TestAggregate_SumaDemandaYOferta(t *testing.T) {
	catalog := []entity.Product{{ID: "p1", OnHand: 30}, {ID: "p2", OnHand: 0}, {ID: "p3", OnHand: 500}}
	incoming := []entity.IncomingStockEntry{
		{ProductID: "p1", Quantity: 20, Week: week, Status: entity.IncomingStatusDraft},
		{ProductID: "p1", Quantity: 10, Week: week, Status: entity.IncomingStatusLinked},
		{ProductID: "p1", Quantity: 5, Week: week, Status: entity.IncomingStatusReceived},
		{ProductID: "p1", Quantity: 99, Week: week, Status: entity.IncomingStatusCancelled},
		{ProductID: "p1", Quantity: 77, Week: entity.WeekOf(week.Start.AddDate(0, 0, 7), time.Monday), Status: entity.IncomingStatusDraft},
	}
	cancelled := line("s3", "p1", 1000, 0)
	cancelled.Cancelled = true
	otherWeek := line("s3", "p1", 1000, 0)
	otherWeek.DeliveryDate = week.End.AddDate(0, 0, 1)
	pre := line("s2", "p1", 40, 5)
	pre.SourceType = entity.DemandSourcePreOrder

	demand := []entity.DemandLine{
		line("s1", "p1", 60, 1), pre, cancelled, otherWeek,
		line("s1", "p2", 10, 1),
	}

	got := planning.Aggregate(week, catalog, incoming, demand)
	require.Len(t, got, 2, "p3 sin demanda no genera ledger")

	p1 := got["p1"]
	assert.Equal(t, 100, p1.TotalOrdered)
	assert.Equal(t, 30, p1.OnHandSnapshot)
	assert.Equal(t, 35, p1.IncomingSupply, "draft + linked + received; cancelled y otra semana fuera")
	assert.Equal(t, 65, p1.TotalAvailable)
	assert.Equal(t, -35, p1.Shortage)
	assert.Equal(t, entity.AllocationPartial, p1.Status)

	p2 := got["p2"]
	assert.Equal(t, 0, p2.TotalAvailable)
	assert.Equal(t, entity.AllocationShort, p2.Status)
}

// receive sube on-hand y la entrada sigue contando como oferta: la misma semana suma ambas.
func TestAggregate_RecibidoCuentaDobleEnLaMismaSemana(t *testing.T) {
	demand := []entity.DemandLine{line("s1", "p1", 15, 1)}
	entry := entity.IncomingStockEntry{ProductID: "p1", Quantity: 10, Week: week, Status: entity.IncomingStatusLinked}

	before := planning.Aggregate(week, []entity.Product{{ID: "p1", OnHand: 0}}, []entity.IncomingStockEntry{entry}, demand)["p1"]
	assert.Equal(t, 10, before.TotalAvailable)
	assert.Equal(t, entity.AllocationPartial, before.Status)

	entry.Status = entity.IncomingStatusReceived
	after := planning.Aggregate(week, []entity.Product{{ID: "p1", OnHand: 10}}, []entity.IncomingStockEntry{entry}, demand)["p1"]
	assert.Equal(t, 10, after.OnHandSnapshot)
	assert.Equal(t, 10, after.IncomingSupply)
	assert.Equal(t, 20, after.TotalAvailable)
	assert.Equal(t, 5, after.Shortage)
	assert.Equal(t, entity.AllocationFull, after.Status)
}

func TestRecompute_Estados(t *testing.T) {
	assert.Equal(t, entity.AllocationFull, ledger(10, 10).Status)
	assert.Equal(t, entity.AllocationFull, ledger(11, 10).Status)
	assert.Equal(t, entity.AllocationPartial, ledger(9, 10).Status)
	assert.Equal(t, entity.AllocationShort, ledger(0, 10).Status)
}

// Dos ejecuciones sobre las mismas entradas congeladas producen exactamente los mismos bytes.
func TestAggregate_Idempotente(t *testing.T) {
	f := gofakeit.New(7)
	catalog, incoming, demand := randomSnapshot(f, 12, 25)

	first, err := json.Marshal(planning.SortedLedgers(planning.Aggregate(week, catalog, incoming, demand)))
	require.NoError(t, err)
	second, err := json.Marshal(planning.SortedLedgers(planning.Aggregate(week, catalog, incoming, demand)))
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))

	planA, err := json.Marshal(planning.BuildPlan(week, catalog, incoming, demand))
	require.NoError(t, err)
	planB, err := json.Marshal(planning.BuildPlan(week, catalog, incoming, demand))
	require.NoError(t, err)
	assert.Equal(t, string(planA), string(planB))
}

// ──────────────────────────────────────────────────────────────────────────────
// Allocate
// ──────────────────────────────────────────────────────────────────────────────

func TestAllocate_OfertaCompleta(t *testing.T) {
	shares := planning.Allocate(ledger(200, 100), []planning.StoreDemand{
		{StoreID: "A", Ordered: 60, OrderedAt: at(1)},
		{StoreID: "B", Ordered: 40, OrderedAt: at(2)},
	})
	assert.Equal(t, map[string]int{"A": 60, "B": 40}, byStore(shares))
}

// 100 pedidas (A=60, B=40), 70 disponibles: 42 y 28 sin remanente.
func TestAllocate_Proporcional(t *testing.T) {
	shares := planning.Allocate(ledger(70, 100), []planning.StoreDemand{
		{StoreID: "A", Ordered: 60, OrderedAt: at(1)},
		{StoreID: "B", Ordered: 40, OrderedAt: at(2)},
	})
	assert.Equal(t, map[string]int{"A": 42, "B": 28}, byStore(shares))
}

// 100 pedidas (50/50), 71 disponibles: floor 35/35 y la unidad extra va al pedido más antiguo.
func TestAllocate_RemanenteAlPedidoMasAntiguo(t *testing.T) {
	shares := planning.Allocate(ledger(71, 100), []planning.StoreDemand{
		{StoreID: "B", Ordered: 50, OrderedAt: at(2)},
		{StoreID: "A", Ordered: 50, OrderedAt: at(1)},
	})
	assert.Equal(t, map[string]int{"A": 36, "B": 35}, byStore(shares))

	swapped := planning.Allocate(ledger(71, 100), []planning.StoreDemand{
		{StoreID: "A", Ordered: 50, OrderedAt: at(9)},
		{StoreID: "B", Ordered: 50, OrderedAt: at(2)},
	})
	assert.Equal(t, map[string]int{"A": 35, "B": 36}, byStore(swapped))
}

func TestAllocate_EmpateDeFechaPorTienda(t *testing.T) {
	shares := planning.Allocate(ledger(2, 3), []planning.StoreDemand{
		{StoreID: "C", Ordered: 1, OrderedAt: at(1)},
		{StoreID: "A", Ordered: 1, OrderedAt: at(1)},
		{StoreID: "B", Ordered: 1, OrderedAt: at(1)},
	})
	assert.Equal(t, map[string]int{"A": 1, "B": 1, "C": 0}, byStore(shares))
	assert.Equal(t, "A", shares[0].StoreID, "salida ordenada por tienda")
}

func TestAllocate_SinOferta(t *testing.T) {
	shares := planning.Allocate(ledger(0, 10), []planning.StoreDemand{
		{StoreID: "A", Ordered: 4, OrderedAt: at(1)},
		{StoreID: "B", Ordered: 6, OrderedAt: at(2)},
	})
	assert.Equal(t, map[string]int{"A": 0, "B": 0}, byStore(shares))
}

// Para cualquier ledger y conjunto de demandas: sum(allocated) <= available y allocated <= ordered.
func TestAllocate_Conservacion(t *testing.T) {
	f := gofakeit.New(42)
	for round := 0; round < 300; round++ {
		n := f.IntRange(1, 12)
		demands := make([]planning.StoreDemand, n)
		total := 0
		for i := range demands {
			demands[i] = planning.StoreDemand{
				StoreID:   fmt.Sprintf("store-%02d", i),
				ProductID: "p1",
				Ordered:   f.IntRange(1, 500),
				OrderedAt: at(f.IntRange(0, 5)),
			}
			total += demands[i].Ordered
		}
		available := f.IntRange(0, total+100)

		shares := planning.Allocate(ledger(available, total), demands)
		require.Len(t, shares, n)

		sum := 0
		for _, s := range shares {
			assert.LessOrEqual(t, s.Allocated, s.Ordered, "ronda %d tienda %s", round, s.StoreID)
			assert.GreaterOrEqual(t, s.Allocated, 0)
			sum += s.Allocated
		}
		assert.LessOrEqual(t, sum, available, "ronda %d", round)
		if available <= total {
			assert.Equal(t, available, sum, "toda la oferta escasa se reparte (ronda %d)", round)
		}
	}
}

func TestStoreStatus(t *testing.T) {
	full := []entity.AllocationItem{{Ordered: 5, Allocated: 5}, {Ordered: 2, Allocated: 2}}
	partial := []entity.AllocationItem{{Ordered: 5, Allocated: 5}, {Ordered: 2, Allocated: 0}}
	short := []entity.AllocationItem{{Ordered: 5, Allocated: 0}, {Ordered: 2, Allocated: 0}}
	assert.Equal(t, entity.AllocationFull, planning.StoreStatus(full))
	assert.Equal(t, entity.AllocationPartial, planning.StoreStatus(partial))
	assert.Equal(t, entity.AllocationShort, planning.StoreStatus(short))
}

func TestResolveShortage_LedgerCortoPasaACompleto(t *testing.T) {
	l := ledger(0, 10)
	require.Equal(t, entity.AllocationShort, l.Status)

	resolved, err := planning.ResolveShortage(l, 10, "planner-1", "llegó camión", t0)
	require.NoError(t, err)
	assert.Equal(t, 10, resolved.TotalAvailable)
	assert.Equal(t, 0, resolved.Shortage)
	assert.Equal(t, entity.AllocationFull, resolved.Status)
	require.Len(t, resolved.Resolutions, 1)
	assert.Equal(t, "planner-1", resolved.Resolutions[0].ResolvedBy)
	assert.Empty(t, l.Resolutions, "el ledger original no se modifica")

	_, err = planning.ResolveShortage(l, 0, "x", "", t0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// BuildPlan
// ──────────────────────────────────────────────────────────────────────────────

func TestBuildPlan_ConsolidaPorTienda(t *testing.T) {
	catalog := []entity.Product{{ID: "p1", OnHand: 70}, {ID: "p2", OnHand: 100}}
	demand := []entity.DemandLine{
		line("A", "p1", 40, 1),
		line("A", "p1", 20, 3), // segunda línea de la misma tienda: se suma
		line("B", "p1", 40, 2),
		line("B", "p2", 5, 2),
	}
	plan := planning.BuildPlan(week, catalog, nil, demand)

	require.Len(t, plan.Ledgers, 2)
	assert.Equal(t, "p1", plan.Ledgers[0].ProductID)
	require.Len(t, plan.Stores, 2)

	a := plan.Stores[0]
	assert.Equal(t, "A", a.StoreID)
	require.Len(t, a.Items, 1)
	assert.Equal(t, 60, a.Items[0].Ordered)
	assert.Equal(t, 42, a.Items[0].Allocated)
	assert.Equal(t, at(1), a.Items[0].FirstOrderedAt)
	assert.Equal(t, entity.AllocationPartial, a.AllocationStatus)
	assert.Equal(t, entity.PickingPending, a.PickingProgress)

	b := plan.Stores[1]
	require.Len(t, b.Items, 2)
	assert.Equal(t, 28, b.Items[0].Allocated)
	assert.Equal(t, 5, b.Items[1].Allocated)
	assert.Equal(t, entity.AllocationPartial, b.AllocationStatus)

	assert.Len(t, plan.Sources, 2)
}

func randomSnapshot(f *gofakeit.Faker, products, lines int) ([]entity.Product, []entity.IncomingStockEntry, []entity.DemandLine) {
	statuses := []string{entity.IncomingStatusDraft, entity.IncomingStatusLinked, entity.IncomingStatusReceived, entity.IncomingStatusCancelled}
	var catalog []entity.Product
	var incoming []entity.IncomingStockEntry
	for i := 0; i < products; i++ {
		id := fmt.Sprintf("p%02d", i)
		catalog = append(catalog, entity.Product{ID: id, OnHand: f.IntRange(0, 80)})
		incoming = append(incoming, entity.IncomingStockEntry{
			ProductID: id, Quantity: f.IntRange(1, 60), Week: week,
			Status: statuses[f.IntRange(0, len(statuses)-1)],
		})
	}
	var demand []entity.DemandLine
	for i := 0; i < lines; i++ {
		demand = append(demand, line(
			fmt.Sprintf("s%02d", f.IntRange(0, 6)),
			fmt.Sprintf("p%02d", f.IntRange(0, products-1)),
			f.IntRange(1, 90),
			f.IntRange(0, 30),
		))
	}
	return catalog, incoming, demand
}
