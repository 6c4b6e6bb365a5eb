package dto

import "github.com/shopspring/decimal"

// CaseGeometryDTO dimensiones de la caja en pulgadas.
type CaseGeometryDTO struct {
	Length decimal.Decimal `json:"length"`
	Width  decimal.Decimal `json:"width"`
	Height decimal.Decimal `json:"height"`
}

// PalletCapacityRequest body para POST /api/pallet/capacity.
type PalletCapacityRequest struct {
	Geometry   CaseGeometryDTO `json:"geometry"`
	CaseWeight decimal.Decimal `json:"case_weight"`
}

// ManualCapacityRequest body para POST /api/pallet/validate.
type ManualCapacityRequest struct {
	Geometry               CaseGeometryDTO `json:"geometry"`
	CaseWeight             decimal.Decimal `json:"case_weight"`
	AssertedCasesPerPallet int             `json:"asserted_cases_per_pallet" validate:"gt=0"`
}

// UpdateCaseGeometryRequest body para PUT /api/products/:id/case-geometry.
// En modo manual ManualCasesPerPallet es obligatorio.
type UpdateCaseGeometryRequest struct {
	Geometry             CaseGeometryDTO `json:"geometry"`
	CaseWeight           decimal.Decimal `json:"case_weight"`
	Mode                 string          `json:"mode" validate:"omitempty,oneof=auto manual"`
	ManualCasesPerPallet int             `json:"manual_cases_per_pallet" validate:"omitempty,gt=0"`
}

// PalletCapacityResponse capacidad calculada.
type PalletCapacityResponse struct {
	CasesPerLayer       int      `json:"cases_per_layer"`
	LayersPerPallet     int      `json:"layers_per_pallet"`
	TotalCasesPerPallet int      `json:"total_cases_per_pallet"`
	LimitingFactor      string   `json:"limiting_factor"`
	Mode                string   `json:"mode"`
	Warnings            []string `json:"warnings"`
}

// ManualCapacityResponse resultado de validar una capacidad manual.
type ManualCapacityResponse struct {
	Valid         bool            `json:"valid"`
	CasesPerLayer int             `json:"cases_per_layer"`
	LayersUsed    int             `json:"layers_used"`
	TotalHeight   decimal.Decimal `json:"total_height"`
	TotalWeight   decimal.Decimal `json:"total_weight"`
	Warnings      []string        `json:"warnings"`
	Errors        []string        `json:"errors"`
}

// PalletsNeededResponse tarimas necesarias para una cantidad de cajas.
type PalletsNeededResponse struct {
	Computable         bool            `json:"computable"`
	FullPallets        int             `json:"full_pallets"`
	PartialCases       int             `json:"partial_cases"`
	TotalPallets       int             `json:"total_pallets"`
	UtilizationPercent decimal.Decimal `json:"utilization_percent"`
}

// ProductCapacityResponse producto con su geometría y capacidad cacheada.
type ProductCapacityResponse struct {
	ID             string                  `json:"id"`
	SKU            string                  `json:"sku"`
	Name           string                  `json:"name"`
	Geometry       CaseGeometryDTO         `json:"geometry"`
	CaseWeight     decimal.Decimal         `json:"case_weight"`
	OnHand         int                     `json:"on_hand"`
	PalletCapacity *PalletCapacityResponse `json:"pallet_capacity,omitempty"`
}
