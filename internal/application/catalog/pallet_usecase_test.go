package catalog_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fulfillment-planner/internal/application/catalog"
	"github.com/jhoicas/fulfillment-planner/internal/application/dto"
	"github.com/jhoicas/fulfillment-planner/internal/domain"
	"github.com/jhoicas/fulfillment-planner/internal/domain/entity"
	"github.com/jhoicas/fulfillment-planner/internal/infrastructure/memory"
	"github.com/jhoicas/fulfillment-planner/pkg/logger"
)

var ctx = context.Background()

func box(l, w, h int64) dto.CaseGeometryDTO {
	return dto.CaseGeometryDTO{Length: decimal.NewFromInt(l), Width: decimal.NewFromInt(w), Height: decimal.NewFromInt(h)}
}

func newUseCase(t *testing.T) (*catalog.PalletUseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	store.Seed([]entity.Product{{ID: "p1", SKU: "SKU-1", Name: "Caja"}}, nil, nil)
	return catalog.NewPalletUseCase(store.Repos().Products(), entity.DefaultPalletProfile(), logger.Nop()), store
}

func TestCalculate(t *testing.T) {
	uc, _ := newUseCase(t)
	out, err := uc.Calculate(dto.PalletCapacityRequest{Geometry: box(12, 10, 8), CaseWeight: decimal.NewFromInt(20)})
	require.NoError(t, err)
	assert.Equal(t, 112, out.TotalCasesPerPallet)
	assert.Equal(t, entity.CapacityModeAuto, out.Mode)
	assert.NotNil(t, out.Warnings)

	big, err := uc.Calculate(dto.PalletCapacityRequest{Geometry: box(50, 45, 10), CaseWeight: decimal.NewFromInt(5)})
	require.NoError(t, err, "no cabe: capacidad cero con advertencia")
	assert.Equal(t, 0, big.TotalCasesPerPallet)
	assert.Contains(t, big.Warnings, domain.ErrDimensionsExceedFootprint.Error())

	_, err = uc.Calculate(dto.PalletCapacityRequest{Geometry: box(0, 10, 8)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestValidate(t *testing.T) {
	uc, _ := newUseCase(t)
	ok, err := uc.Validate(dto.ManualCapacityRequest{Geometry: box(12, 10, 8), CaseWeight: decimal.NewFromInt(10), AssertedCasesPerPallet: 112})
	require.NoError(t, err)
	assert.True(t, ok.Valid)
	assert.Empty(t, ok.Errors)

	heavy, err := uc.Validate(dto.ManualCapacityRequest{Geometry: box(12, 10, 8), CaseWeight: decimal.NewFromInt(25), AssertedCasesPerPallet: 112})
	require.NoError(t, err)
	assert.False(t, heavy.Valid)
	assert.Len(t, heavy.Errors, 1)
}

func TestUpdateCaseGeometry_CacheaCapacidad(t *testing.T) {
	uc, store := newUseCase(t)
	out, err := uc.UpdateCaseGeometry(ctx, "p1", "catalog-admin", dto.UpdateCaseGeometryRequest{
		Geometry: box(12, 10, 8), CaseWeight: decimal.NewFromInt(20),
	})
	require.NoError(t, err)
	require.NotNil(t, out.PalletCapacity)
	assert.Equal(t, 112, out.PalletCapacity.TotalCasesPerPallet)

	p, err := store.Repos().Products().GetByID(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, p.PalletCapacity)
	assert.Equal(t, 112, p.PalletCapacity.TotalCasesPerPallet)

	needed, err := uc.PalletsNeeded(ctx, "p1", 250, 0)
	require.NoError(t, err)
	assert.True(t, needed.Computable)
	assert.Equal(t, 2, needed.FullPallets)
	assert.Equal(t, 26, needed.PartialCases)
	assert.Equal(t, 3, needed.TotalPallets)
}

func TestUpdateCaseGeometry_Manual(t *testing.T) {
	uc, _ := newUseCase(t)
	out, err := uc.UpdateCaseGeometry(ctx, "p1", "a", dto.UpdateCaseGeometryRequest{
		Geometry: box(12, 10, 8), CaseWeight: decimal.NewFromInt(10), Mode: entity.CapacityModeManual, ManualCasesPerPallet: 100,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.CapacityModeManual, out.PalletCapacity.Mode)
	assert.Equal(t, 100, out.PalletCapacity.TotalCasesPerPallet)

	_, err = uc.UpdateCaseGeometry(ctx, "p1", "a", dto.UpdateCaseGeometryRequest{
		Geometry: box(12, 10, 8), CaseWeight: decimal.NewFromInt(25), Mode: entity.CapacityModeManual, ManualCasesPerPallet: 112,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "excede el peso máximo")

	_, err = uc.UpdateCaseGeometry(ctx, "p1", "a", dto.UpdateCaseGeometryRequest{Geometry: box(12, 10, 8), Mode: entity.CapacityModeManual})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.UpdateCaseGeometry(ctx, "p-x", "a", dto.UpdateCaseGeometryRequest{Geometry: box(12, 10, 8)})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPalletsNeeded_SinProducto(t *testing.T) {
	uc, _ := newUseCase(t)
	out, err := uc.PalletsNeeded(ctx, "", 10, 0)
	require.NoError(t, err)
	assert.False(t, out.Computable)

	out, err = uc.PalletsNeeded(ctx, "p1", 10, 5)
	require.NoError(t, err)
	assert.False(t, out.Computable, "el producto aún no tiene capacidad")
}
