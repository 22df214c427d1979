package memory

import (
	"context"
	"fmt"

	memdb "github.com/hashicorp/go-memdb"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo vista mínima del catálogo en memoria. También resuelve precios.
type ProductRepo struct {
	store *Store
}

// NewProductRepository construye el repositorio de catálogo.
func NewProductRepository(store *Store) *ProductRepo {
	return &ProductRepo{store: store}
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	txn, done := r.store.read(nil)
	defer done()
	obj, err := txn.First(tableProducts, "id", id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if obj == nil {
		return nil, nil
	}
	p := *obj.(*entity.Product)
	return &p, nil
}

func (r *ProductRepo) Upsert(_ context.Context, product *entity.Product) error {
	return r.store.write(nil, func(txn *memdb.Txn) error {
		p := *product
		if err := txn.Insert(tableProducts, &p); err != nil {
			return fmt.Errorf("upsert product: %w", err)
		}
		return nil
	})
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
