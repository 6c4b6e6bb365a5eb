// Package catalog casos de uso sobre el catálogo: capacidad de tarima y su escritura en el producto.
package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jhoicas/fulfillment-planner/internal/application/dto"
	"github.com/jhoicas/fulfillment-planner/internal/domain"
	"github.com/jhoicas/fulfillment-planner/internal/domain/entity"
	"github.com/jhoicas/fulfillment-planner/internal/domain/pallet"
	"github.com/jhoicas/fulfillment-planner/internal/domain/repository"
	"github.com/jhoicas/fulfillment-planner/pkg/logger"
)

// PalletUseCase cálculo y validación de capacidad de tarima con el perfil global configurado.
type PalletUseCase struct {
	products repository.ProductRepository
	profile  entity.PalletProfile
	log      *logger.Logger
}

// NewPalletUseCase construye el caso de uso.
func NewPalletUseCase(products repository.ProductRepository, profile entity.PalletProfile, log *logger.Logger) *PalletUseCase {
	return &PalletUseCase{products: products, profile: profile, log: log.Component("pallet")}
}

// Profile perfil de tarima en uso.
func (uc *PalletUseCase) Profile() entity.PalletProfile {
	return uc.profile
}

// Calculate capacidad automática. Una caja que no cabe en la tarima devuelve capacidad cero con advertencia.
func (uc *PalletUseCase) Calculate(in dto.PalletCapacityRequest) (*dto.PalletCapacityResponse, error) {
	capacity, err := pallet.CalculateCapacity(toGeometry(in.Geometry), in.CaseWeight, uc.profile)
	if err != nil && !errors.Is(err, domain.ErrDimensionsExceedFootprint) {
		return nil, err
	}
	return toCapacityResponse(&capacity), nil
}

// Validate revisa una capacidad declarada manualmente.
func (uc *PalletUseCase) Validate(in dto.ManualCapacityRequest) (*dto.ManualCapacityResponse, error) {
	check, err := pallet.ValidateManualCapacity(in.AssertedCasesPerPallet, toGeometry(in.Geometry), in.CaseWeight, uc.profile)
	if err != nil {
		return nil, err
	}
	return &dto.ManualCapacityResponse{
		Valid:         check.Valid(),
		CasesPerLayer: check.CasesPerLayer,
		LayersUsed:    check.LayersUsed,
		TotalHeight:   check.TotalHeight,
		TotalWeight:   check.TotalWeight,
		Warnings:      nonNil(check.Warnings),
		Errors:        nonNil(check.Errors),
	}, nil
}

// PalletsNeeded tarimas para quantity cajas. Si productID no es vacío se usa la capacidad
// cacheada del producto en lugar de casesPerPallet.
func (uc *PalletUseCase) PalletsNeeded(ctx context.Context, productID string, quantity, casesPerPallet int) (*dto.PalletsNeededResponse, error) {
	if productID != "" {
		p, err := uc.products.GetByID(ctx, productID)
		if err != nil {
			return nil, err
		}
		casesPerPallet = 0
		if p.PalletCapacity != nil {
			casesPerPallet = p.PalletCapacity.TotalCasesPerPallet
		}
	}
	r := pallet.PalletsNeeded(quantity, casesPerPallet)
	return ToPalletsNeeded(r), nil
}

// UpdateCaseGeometry guarda geometría y peso de la caja y recalcula la capacidad del producto.
// En modo manual el valor declarado se valida y se rechaza si tiene errores duros.
func (uc *PalletUseCase) UpdateCaseGeometry(ctx context.Context, productID, actor string, in dto.UpdateCaseGeometryRequest) (*dto.ProductCapacityResponse, error) {
	p, err := uc.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	g := toGeometry(in.Geometry)

	var capacity entity.PalletCapacity
	switch in.Mode {
	case entity.CapacityModeManual:
		if in.ManualCasesPerPallet <= 0 {
			return nil, domain.Invalid("manual_cases_per_pallet", "requerido en modo manual")
		}
		check, err := pallet.ValidateManualCapacity(in.ManualCasesPerPallet, g, in.CaseWeight, uc.profile)
		if err != nil {
			return nil, err
		}
		if !check.Valid() {
			return nil, domain.Invalid("manual_cases_per_pallet", strings.Join(check.Errors, "; "))
		}
		capacity = pallet.ManualCapacity(in.ManualCasesPerPallet, check)
	default:
		capacity, err = pallet.CalculateCapacity(g, in.CaseWeight, uc.profile)
		if err != nil && !errors.Is(err, domain.ErrDimensionsExceedFootprint) {
			return nil, err
		}
	}

	p.Geometry = g
	p.CaseWeight = in.CaseWeight
	p.PalletCapacity = &capacity
	p.UpdatedAt = time.Now().UTC()
	if err := uc.products.UpdatePalletCapacity(ctx, p); err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("product_id", p.ID).
		Str("actor", actor).
		Str("mode", capacity.Mode).
		Int("total_cases_per_pallet", capacity.TotalCasesPerPallet).
		Msg("capacidad de tarima actualizada")
	return toProductCapacityResponse(p), nil
}

// ToPalletsNeeded convierte el requerimiento de tarimas a su DTO.
func ToPalletsNeeded(r entity.PalletRequirement) *dto.PalletsNeededResponse {
	return &dto.PalletsNeededResponse{
		Computable:         r.Computable,
		FullPallets:        r.FullPallets,
		PartialCases:       r.PartialCases,
		TotalPallets:       r.TotalPallets,
		UtilizationPercent: r.UtilizationPercent,
	}
}

func toGeometry(g dto.CaseGeometryDTO) entity.CaseGeometry {
	return entity.CaseGeometry{Length: g.Length, Width: g.Width, Height: g.Height}
}

func toCapacityResponse(c *entity.PalletCapacity) *dto.PalletCapacityResponse {
	if c == nil {
		return nil
	}
	return &dto.PalletCapacityResponse{
		CasesPerLayer:       c.CasesPerLayer,
		LayersPerPallet:     c.LayersPerPallet,
		TotalCasesPerPallet: c.TotalCasesPerPallet,
		LimitingFactor:      c.LimitingFactor,
		Mode:                c.Mode,
		Warnings:            nonNil(c.Warnings),
	}
}

func toProductCapacityResponse(p *entity.Product) *dto.ProductCapacityResponse {
	return &dto.ProductCapacityResponse{
		ID:   p.ID,
		SKU:  p.SKU,
		Name: p.Name,
		Geometry: dto.CaseGeometryDTO{
			Length: p.Geometry.Length,
			Width:  p.Geometry.Width,
			Height: p.Geometry.Height,
		},
		CaseWeight:     p.CaseWeight,
		OnHand:         p.OnHand,
		PalletCapacity: toCapacityResponse(p.PalletCapacity),
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
