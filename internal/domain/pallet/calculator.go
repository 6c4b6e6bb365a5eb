// Package pallet estima cuántas cajas de un producto caben en una tarima a partir de la
// geometría de la caja y su peso. Funciones puras: sin estado, sin I/O.
package pallet

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/fulfillment-planner/internal/domain"
	"github.com/jhoicas/fulfillment-planner/internal/domain/entity"
)

var (
	hundred         = decimal.NewFromInt(100)
	nearLimitFactor = decimal.NewFromFloat(0.8)
)

// ValidateGeometry rechaza dimensiones no positivas o peso negativo.
func ValidateGeometry(g entity.CaseGeometry, weight decimal.Decimal) error {
	if !g.Length.IsPositive() {
		return domain.Invalid("length", "debe ser mayor que 0")
	}
	if !g.Width.IsPositive() {
		return domain.Invalid("width", "debe ser mayor que 0")
	}
	if !g.Height.IsPositive() {
		return domain.Invalid("height", "debe ser mayor que 0")
	}
	if weight.IsNegative() {
		return domain.Invalid("weight", "no puede ser negativo")
	}
	return nil
}

// CasesPerLayer prueba ambas orientaciones sobre la huella de la tarima y devuelve la mejor.
func CasesPerLayer(g entity.CaseGeometry, profile entity.PalletProfile) int {
	straight := floorDiv(profile.Length, g.Length) * floorDiv(profile.Width, g.Width)
	rotated := floorDiv(profile.Length, g.Width) * floorDiv(profile.Width, g.Length)
	if rotated > straight {
		return rotated
	}
	return straight
}

// CalculateCapacity calcula la capacidad automática.
//
// Si la caja no cabe en ninguna orientación devuelve capacidad cero junto con
// domain.ErrDimensionsExceedFootprint: es un resultado normal que se muestra como advertencia.
func CalculateCapacity(g entity.CaseGeometry, weight decimal.Decimal, profile entity.PalletProfile) (entity.PalletCapacity, error) {
	if err := ValidateGeometry(g, weight); err != nil {
		return entity.PalletCapacity{}, err
	}

	perLayer := CasesPerLayer(g, profile)
	if perLayer == 0 {
		return entity.PalletCapacity{
			LimitingFactor: entity.LimitingFactorNone,
			Mode:           entity.CapacityModeAuto,
			Warnings:       []string{domain.ErrDimensionsExceedFootprint.Error()},
		}, domain.ErrDimensionsExceedFootprint
	}

	byHeight := floorDiv(profile.MaxStackHeight, g.Height)
	byWeight := byHeight
	if weight.IsPositive() {
		byWeight = floorDiv(profile.MaxWeight, weight) / perLayer
	}

	layers := byHeight
	limiting := entity.LimitingFactorHeight
	if byWeight < byHeight {
		layers = byWeight
		limiting = entity.LimitingFactorWeight
	}

	return entity.PalletCapacity{
		CasesPerLayer:       perLayer,
		LayersPerPallet:     layers,
		TotalCasesPerPallet: perLayer * layers,
		LimitingFactor:      limiting,
		Mode:                entity.CapacityModeAuto,
	}, nil
}

// ValidateManualCapacity verifica un valor de cajas por tarima declarado por el usuario contra
// los límites derivados de la geometría. Errors son rechazos duros; Warnings son avisos.
func ValidateManualCapacity(asserted int, g entity.CaseGeometry, weight decimal.Decimal, profile entity.PalletProfile) (entity.ManualCapacityCheck, error) {
	if err := ValidateGeometry(g, weight); err != nil {
		return entity.ManualCapacityCheck{}, err
	}
	if asserted <= 0 {
		return entity.ManualCapacityCheck{}, domain.Invalid("cases_per_pallet", "debe ser mayor que 0")
	}

	check := entity.ManualCapacityCheck{CasesPerLayer: CasesPerLayer(g, profile)}
	if check.CasesPerLayer == 0 {
		check.Errors = append(check.Errors, domain.ErrDimensionsExceedFootprint.Error())
		return check, nil
	}

	check.LayersUsed = (asserted + check.CasesPerLayer - 1) / check.CasesPerLayer
	check.TotalHeight = decimal.NewFromInt(int64(check.LayersUsed)).Mul(g.Height).Add(profile.DeckHeight)
	check.TotalWeight = decimal.NewFromInt(int64(asserted)).Mul(weight)

	if check.TotalHeight.GreaterThan(profile.MaxHeight) {
		check.Errors = append(check.Errors, fmt.Sprintf("altura total %s excede el máximo %s",
			check.TotalHeight.String(), profile.MaxHeight.String()))
	}
	if check.TotalWeight.GreaterThan(profile.MaxWeight) {
		check.Errors = append(check.Errors, fmt.Sprintf("peso total %s excede el máximo %s",
			check.TotalWeight.String(), profile.MaxWeight.String()))
	} else if check.TotalWeight.GreaterThan(profile.MaxWeight.Mul(nearLimitFactor)) {
		check.Warnings = append(check.Warnings, fmt.Sprintf("peso total %s supera el 80%% del máximo %s",
			check.TotalWeight.String(), profile.MaxWeight.String()))
	}

	if auto, err := CalculateCapacity(g, weight, profile); err == nil && asserted > auto.TotalCasesPerPallet {
		check.Warnings = append(check.Warnings, fmt.Sprintf("%d cajas supera el máximo calculado %d",
			asserted, auto.TotalCasesPerPallet))
	}
	return check, nil
}

// ManualCapacity construye la capacidad en modo manual a partir de una validación sin errores.
func ManualCapacity(asserted int, check entity.ManualCapacityCheck) entity.PalletCapacity {
	return entity.PalletCapacity{
		CasesPerLayer:       check.CasesPerLayer,
		LayersPerPallet:     check.LayersUsed,
		TotalCasesPerPallet: asserted,
		LimitingFactor:      entity.LimitingFactorNone,
		Mode:                entity.CapacityModeManual,
		Warnings:            check.Warnings,
	}
}

// PalletsNeeded tarimas requeridas para quantity cajas. Entradas degeneradas devuelven Computable=false.
func PalletsNeeded(quantity, casesPerPallet int) entity.PalletRequirement {
	if quantity <= 0 || casesPerPallet <= 0 {
		return entity.PalletRequirement{Computable: false, UtilizationPercent: decimal.Zero}
	}
	full := quantity / casesPerPallet
	partial := quantity % casesPerPallet
	total := full
	if partial > 0 {
		total++
	}
	util := decimal.NewFromInt(int64(quantity)).
		Div(decimal.NewFromInt(int64(total * casesPerPallet))).
		Mul(hundred).
		Round(2)
	return entity.PalletRequirement{
		Computable:         true,
		FullPallets:        full,
		PartialCases:       partial,
		TotalPallets:       total,
		UtilizationPercent: util,
	}
}

func floorDiv(a, b decimal.Decimal) int {
	if !b.IsPositive() {
		return 0
	}
	return int(a.Div(b).Floor().IntPart())
}
