package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo vista mínima del catálogo sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de catálogo. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// GetByID obtiene un producto por ID o (nil, nil).
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	query := `SELECT id, sku, name, price, updated_at FROM products WHERE id = $1`
	var p entity.Product
	err := r.q.QueryRow(ctx, query, id).Scan(&p.ID, &p.SKU, &p.Name, &p.Price, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// Upsert sincroniza un producto del catálogo.
func (r *ProductRepo) Upsert(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (id, sku, name, price, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET sku = EXCLUDED.sku, name = EXCLUDED.name, price = EXCLUDED.price, updated_at = EXCLUDED.updated_at`
	if _, err := r.q.Exec(ctx, query, p.ID, p.SKU, p.Name, p.Price, p.UpdatedAt); err != nil {
		return fmt.Errorf("upsert product: %w", err)
	}
	return nil
}

// GetProductPrice precio unitario; domain.ErrNotFound si el producto no está en catálogo.
func (r *ProductRepo) GetProductPrice(ctx context.Context, productID string) (decimal.Decimal, error) {
	p, err := r.GetByID(ctx, productID)
	if err != nil {
		return decimal.Zero, err
	}
	if p == nil {
		return decimal.Zero, fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
	}
	return p.Price, nil
}
