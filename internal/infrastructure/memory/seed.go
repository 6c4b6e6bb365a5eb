package memory

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/fulfillment-planner/internal/domain/entity"
	"github.com/jhoicas/fulfillment-planner/internal/domain/pallet"
)

// Seed carga catálogo, proveedores y demanda (colaboradores externos que el motor solo lee).
func (s *Store) Seed(products []entity.Product, vendors []entity.Vendor, demand []entity.DemandLine) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range products {
		s.st.products[p.ID] = cloneProduct(p)
	}
	for _, v := range vendors {
		s.st.vendors[v.ID] = v
	}
	s.st.demand = append(s.st.demand, demand...)
}

// SeedDemo genera datos de ejemplo deterministas para la semana que contiene now:
// productos con geometría y capacidad calculada, dos proveedores y pedidos de varias tiendas
// con algunos productos deliberadamente cortos.
func (s *Store) SeedDemo(now time.Time, weekStart time.Weekday, profile entity.PalletProfile) {
	f := gofakeit.New(20240101)
	week := entity.WeekOf(now, weekStart)

	var products []entity.Product
	for i := 1; i <= 8; i++ {
		p := entity.Product{
			ID:        fmt.Sprintf("prod-%02d", i),
			SKU:       fmt.Sprintf("SKU-%04d", f.Number(1000, 9999)),
			Name:      f.ProductName(),
			SalesMode: entity.SalesModeCase,
			OnHand:    f.Number(0, 120),
			Geometry: entity.CaseGeometry{
				Length: decimal.NewFromInt(int64(f.Number(8, 24))),
				Width:  decimal.NewFromInt(int64(f.Number(6, 20))),
				Height: decimal.NewFromInt(int64(f.Number(4, 14))),
			},
			CaseWeight: decimal.NewFromFloat(f.Float64Range(5, 45)).Round(1),
			UpdatedAt:  now,
		}
		if c, err := pallet.CalculateCapacity(p.Geometry, p.CaseWeight, profile); err == nil {
			p.PalletCapacity = &c
		}
		products = append(products, p)
	}

	vendors := []entity.Vendor{
		{ID: "vendor-01", Name: f.Company(), Active: true},
		{ID: "vendor-02", Name: f.Company(), Active: true},
		{ID: "vendor-03", Name: f.Company(), Active: false},
	}

	var demand []entity.DemandLine
	for store := 1; store <= 5; store++ {
		storeID := fmt.Sprintf("store-%02d", store)
		for n := 0; n < 4; n++ {
			sourceType := entity.DemandSourceOrder
			if n%3 == 2 {
				sourceType = entity.DemandSourcePreOrder
			}
			demand = append(demand, entity.DemandLine{
				SourceType:   sourceType,
				SourceID:     fmt.Sprintf("%s-%s-%d", sourceType, storeID, n),
				StoreID:      storeID,
				ProductID:    products[f.Number(0, len(products)-1)].ID,
				Quantity:     f.Number(5, 60),
				DeliveryDate: week.Start.AddDate(0, 0, f.Number(0, 6)),
				CreatedAt:    week.Start.AddDate(0, 0, -7).Add(time.Duration(f.Number(0, 6*24*60)) * time.Minute),
			})
		}
	}

	s.Seed(products, vendors, demand)
}
