package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/fulfillment-planner/internal/domain"
	"github.com/jhoicas/fulfillment-planner/internal/domain/entity"
	"github.com/jhoicas/fulfillment-planner/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, sku, name, case_length, case_width, case_height, case_weight, sales_mode, on_hand, pallet_capacity, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// capacityJSON forma persistida de PalletCapacity en la columna JSONB.
type capacityJSON struct {
	CasesPerLayer       int      `json:"cases_per_layer"`
	LayersPerPallet     int      `json:"layers_per_pallet"`
	TotalCasesPerPallet int      `json:"total_cases_per_pallet"`
	LimitingFactor      string   `json:"limiting_factor"`
	Mode                string   `json:"mode"`
	Warnings            []string `json:"warnings,omitempty"`
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// ListByIDs obtiene los productos existentes entre ids, ordenados por ID.
func (r *ProductRepo) ListByIDs(ctx context.Context, ids []string) ([]entity.Product, error) {
	rows, err := r.q.Query(ctx, `SELECT `+productColumns+` FROM products WHERE id = ANY($1) ORDER BY id`, ids)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, *p)
	}
	return list, rows.Err()
}

// UpdatePalletCapacity guarda geometría, peso y capacidad de tarima.
func (r *ProductRepo) UpdatePalletCapacity(ctx context.Context, p *entity.Product) error {
	var capacity []byte
	if p.PalletCapacity != nil {
		b, err := json.Marshal(capacityJSON{
			CasesPerLayer:       p.PalletCapacity.CasesPerLayer,
			LayersPerPallet:     p.PalletCapacity.LayersPerPallet,
			TotalCasesPerPallet: p.PalletCapacity.TotalCasesPerPallet,
			LimitingFactor:      p.PalletCapacity.LimitingFactor,
			Mode:                p.PalletCapacity.Mode,
			Warnings:            p.PalletCapacity.Warnings,
		})
		if err != nil {
			return fmt.Errorf("marshal pallet capacity: %w", err)
		}
		capacity = b
	}
	cmd, err := r.q.Exec(ctx, `
		UPDATE products SET case_length = $2, case_width = $3, case_height = $4, case_weight = $5,
			pallet_capacity = $6, updated_at = $7
		WHERE id = $1`,
		p.ID, p.Geometry.Length, p.Geometry.Width, p.Geometry.Height, p.CaseWeight, capacity, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update pallet capacity: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AdjustOnHand suma delta al inventario disponible (usado por la recepción de stock entrante).
func (r *ProductRepo) AdjustOnHand(ctx context.Context, productID string, delta int) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE products SET on_hand = on_hand + $2, updated_at = now() WHERE id = $1`,
		productID, delta,
	)
	if err != nil {
		return fmt.Errorf("adjust on hand: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var (
		p        entity.Product
		capacity []byte
	)
	if err := row.Scan(
		&p.ID, &p.SKU, &p.Name,
		&p.Geometry.Length, &p.Geometry.Width, &p.Geometry.Height, &p.CaseWeight,
		&p.SalesMode, &p.OnHand, &capacity, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if len(capacity) > 0 {
		var c capacityJSON
		if err := json.Unmarshal(capacity, &c); err != nil {
			return nil, fmt.Errorf("unmarshal pallet capacity: %w", err)
		}
		p.PalletCapacity = &entity.PalletCapacity{
			CasesPerLayer:       c.CasesPerLayer,
			LayersPerPallet:     c.LayersPerPallet,
			TotalCasesPerPallet: c.TotalCasesPerPallet,
			LimitingFactor:      c.LimitingFactor,
			Mode:                c.Mode,
			Warnings:            c.Warnings,
		}
	}
	return &p, nil
}
