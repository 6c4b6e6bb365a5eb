package entity

import "github.com/shopspring/decimal"

// CaseGeometry dimensiones físicas de una caja (pulgadas). Valor inmutable.
type CaseGeometry struct {
	Length decimal.Decimal
	Width  decimal.Decimal
	Height decimal.Decimal
}

// PalletProfile perfil global de estiba (no es por producto).
type PalletProfile struct {
	Length         decimal.Decimal
	Width          decimal.Decimal
	MaxStackHeight decimal.Decimal // altura máxima de cajas apiladas
	MaxWeight      decimal.Decimal // libras
	DeckHeight     decimal.Decimal // altura de la tarima
	MaxHeight      decimal.Decimal // altura total cargada (cajas + tarima)
}

// DefaultPalletProfile tarima estándar 48x40, 60" de apilado, 2500 lb, tarima de 6".
func DefaultPalletProfile() PalletProfile {
	return PalletProfile{
		Length:         decimal.NewFromInt(48),
		Width:          decimal.NewFromInt(40),
		MaxStackHeight: decimal.NewFromInt(60),
		MaxWeight:      decimal.NewFromInt(2500),
		DeckHeight:     decimal.NewFromInt(6),
		MaxHeight:      decimal.NewFromInt(66),
	}
}

// Factores limitantes de capas por tarima.
const (
	LimitingFactorHeight = "height"
	LimitingFactorWeight = "weight"
	LimitingFactorNone   = "none"
)

// Modos de cálculo de capacidad.
const (
	CapacityModeAuto   = "auto"
	CapacityModeManual = "manual"
)

// PalletCapacity capacidad derivada de una caja sobre el perfil de tarima (cache por producto).
// En modo auto TotalCasesPerPallet = CasesPerLayer * LayersPerPallet.
type PalletCapacity struct {
	CasesPerLayer       int
	LayersPerPallet     int
	TotalCasesPerPallet int
	LimitingFactor      string
	Mode                string
	Warnings            []string
}

// ManualCapacityCheck resultado de validar una capacidad declarada manualmente.
type ManualCapacityCheck struct {
	CasesPerLayer int
	LayersUsed    int
	TotalHeight   decimal.Decimal
	TotalWeight   decimal.Decimal
	Warnings      []string
	Errors        []string
}

// Valid indica si no hubo errores duros.
func (c ManualCapacityCheck) Valid() bool {
	return len(c.Errors) == 0
}

// PalletRequirement tarimas necesarias para una cantidad de cajas.
type PalletRequirement struct {
	Computable         bool
	FullPallets        int
	PartialCases       int
	TotalPallets       int
	UtilizationPercent decimal.Decimal
}
