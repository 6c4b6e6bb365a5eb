package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fulfillment-planner/internal/application/dto"
	"github.com/jhoicas/fulfillment-planner/internal/application/inventory"
	"github.com/jhoicas/fulfillment-planner/internal/application/ports"
	"github.com/jhoicas/fulfillment-planner/internal/domain"
	"github.com/jhoicas/fulfillment-planner/internal/domain/entity"
	"github.com/jhoicas/fulfillment-planner/internal/domain/repository"
	"github.com/jhoicas/fulfillment-planner/internal/infrastructure/memory"
	"github.com/jhoicas/fulfillment-planner/pkg/logger"
)

var ctx = context.Background()

func setup(t *testing.T) (*inventory.IncomingStockUseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	store.Seed(
		[]entity.Product{{ID: "p1", OnHand: 10}},
		[]entity.Vendor{{ID: "v-on", Name: "Activo", Active: true}, {ID: "v-off", Name: "Inactivo"}},
		nil,
	)
	repos := store.Repos()
	uc := inventory.NewIncomingStockUseCase(
		store, repos.IncomingStock(), repos.Products(), repos.Vendors(),
		time.Monday, ports.NopMetrics{}, logger.Nop(),
	)
	return uc, store
}

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func onHand(t *testing.T, store *memory.Store, id string) int {
	t.Helper()
	p, err := store.Repos().Products().GetByID(ctx, id)
	require.NoError(t, err)
	return p.OnHand
}

func TestFlujoCompleto_RecepcionSumaOnHand(t *testing.T) {
	uc, store := setup(t)

	e, err := uc.Create(ctx, "buyer-1", dto.CreateIncomingStockRequest{ProductID: "p1", Quantity: 20, Week: "2026-10-15"})
	require.NoError(t, err)
	assert.Equal(t, entity.IncomingStatusDraft, e.Status)
	assert.Equal(t, "2026-10-12", e.WeekStart)

	e, err = uc.Link(ctx, e.ID, "buyer-1", dto.LinkIncomingStockRequest{VendorID: "v-on", UnitPrice: price("2.50")})
	require.NoError(t, err)
	assert.Equal(t, entity.IncomingStatusLinked, e.Status)
	assert.True(t, decimal.NewFromInt(50).Equal(e.TotalPrice))

	e, err = uc.AttachPurchaseOrder(ctx, e.ID, "buyer-1", dto.AttachPurchaseOrderRequest{PurchaseOrderID: "PO-77"})
	require.NoError(t, err)
	assert.Equal(t, "PO-77", e.PurchaseOrderID)

	qty := 18
	e, err = uc.Receive(ctx, e.ID, "dock-1", dto.ReceiveIncomingStockRequest{ReceivedQuantity: &qty})
	require.NoError(t, err)
	assert.Equal(t, entity.IncomingStatusReceived, e.Status)
	assert.Equal(t, 28, onHand(t, store, "p1"))

	_, err = uc.Cancel(ctx, e.ID, "buyer-1", dto.CancelIncomingStockRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "received es terminal")
}

func TestReceive_SinCantidadRecibeTodo(t *testing.T) {
	uc, store := setup(t)
	e, err := uc.Create(ctx, "b", dto.CreateIncomingStockRequest{ProductID: "p1", Quantity: 7, Week: "2026-10-12"})
	require.NoError(t, err)
	_, err = uc.Link(ctx, e.ID, "b", dto.LinkIncomingStockRequest{VendorID: "v-on", UnitPrice: price("1")})
	require.NoError(t, err)

	e, err = uc.Receive(ctx, e.ID, "dock", dto.ReceiveIncomingStockRequest{})
	require.NoError(t, err)
	assert.Equal(t, 7, e.ReceivedQuantity)
	assert.Equal(t, 17, onHand(t, store, "p1"))
}

// Si el ajuste de on-hand falla la entrada no queda como received.
func TestReceive_Atomico(t *testing.T) {
	uc, store := setup(t)
	week := entity.WeekOf(time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC), time.Monday)
	require.NoError(t, store.Run(ctx, func(tx repository.Tx) error {
		return tx.IncomingStock().Create(ctx, &entity.IncomingStockEntry{
			ID: "in-ghost", ProductID: "p-ghost", Quantity: 5, Week: week, Status: entity.IncomingStatusLinked, VendorID: "v-on",
		})
	}))

	_, err := uc.Receive(ctx, "in-ghost", "dock", dto.ReceiveIncomingStockRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err := uc.Get(ctx, "in-ghost")
	require.NoError(t, err)
	assert.Equal(t, entity.IncomingStatusLinked, got.Status)
	assert.Equal(t, 0, got.ReceivedQuantity)
}

func TestLink_ValidaProveedor(t *testing.T) {
	uc, _ := setup(t)
	e, err := uc.Create(ctx, "b", dto.CreateIncomingStockRequest{ProductID: "p1", Quantity: 3, Week: "2026-10-12"})
	require.NoError(t, err)

	_, err = uc.Link(ctx, e.ID, "b", dto.LinkIncomingStockRequest{VendorID: "v-off", UnitPrice: price("1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Link(ctx, e.ID, "b", dto.LinkIncomingStockRequest{VendorID: "v-nope", UnitPrice: price("1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Link(ctx, e.ID, "b", dto.LinkIncomingStockRequest{VendorID: "v-on", UnitPrice: price("-1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreate_Validaciones(t *testing.T) {
	uc, _ := setup(t)
	_, err := uc.Create(ctx, "b", dto.CreateIncomingStockRequest{ProductID: "p-x", Quantity: 3, Week: "2026-10-12"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Create(ctx, "b", dto.CreateIncomingStockRequest{ProductID: "p1", Quantity: 0, Week: "2026-10-12"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Create(ctx, "b", dto.CreateIncomingStockRequest{ProductID: "p1", Quantity: 3, Week: "mañana"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestListByWeek_IncluyeCanceladas(t *testing.T) {
	uc, _ := setup(t)
	a, err := uc.Create(ctx, "b", dto.CreateIncomingStockRequest{ProductID: "p1", Quantity: 3, Week: "2026-10-12"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, "b", dto.CreateIncomingStockRequest{ProductID: "p1", Quantity: 4, Week: "2026-10-18"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, "b", dto.CreateIncomingStockRequest{ProductID: "p1", Quantity: 5, Week: "2026-10-19"})
	require.NoError(t, err)
	_, err = uc.Cancel(ctx, a.ID, "b", dto.CancelIncomingStockRequest{Reason: "duplicado"})
	require.NoError(t, err)

	list, err := uc.ListByWeek(ctx, "2026-10-14")
	require.NoError(t, err)
	assert.Len(t, list.Items, 2)
}
