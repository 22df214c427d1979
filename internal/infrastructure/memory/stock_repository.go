package memory

import (
	"context"
	"fmt"

	memdb "github.com/hashicorp/go-memdb"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo registros de stock en memoria.
type StockRepo struct {
	store *Store
	txn   *memdb.Txn
}

// NewStockRepository repositorio de lectura fuera de transacción.
func NewStockRepository(store *Store) *StockRepo {
	return &StockRepo{store: store}
}

func (r *StockRepo) Get(_ context.Context, productID string) (*entity.StockRecord, error) {
	txn, done := r.store.read(r.txn)
	defer done()
	return firstStock(txn, productID)
}

// GetForUpdate dentro de TxRunner la transacción ya tiene el lock de escritura.
func (r *StockRepo) GetForUpdate(ctx context.Context, productID string) (*entity.StockRecord, error) {
	return r.Get(ctx, productID)
}

func (r *StockRepo) Create(_ context.Context, stock *entity.StockRecord) error {
	return r.store.write(r.txn, func(txn *memdb.Txn) error {
		existing, err := txn.First(tableStock, "id", stock.ProductID)
		if err != nil {
			return fmt.Errorf("create stock: %w", err)
		}
		if existing != nil {
			return domain.ErrDuplicate
		}
		if err := txn.Insert(tableStock, stock.Clone()); err != nil {
			return fmt.Errorf("create stock: %w", err)
		}
		return nil
	})
}

func (r *StockRepo) Update(_ context.Context, stock *entity.StockRecord) error {
	return r.store.write(r.txn, func(txn *memdb.Txn) error {
		current, err := firstStock(txn, stock.ProductID)
		if err != nil {
			return err
		}
		if current == nil {
			return fmt.Errorf("%w: stock %s", domain.ErrNotFound, stock.ProductID)
		}
		if current.Version != stock.Version {
			return fmt.Errorf("%w: versión %d, esperada %d", domain.ErrConflict, current.Version, stock.Version)
		}
		next := stock.Clone()
		next.Version++
		if err := txn.Insert(tableStock, next); err != nil {
			return fmt.Errorf("update stock: %w", err)
		}
		stock.Version = next.Version
		return nil
	})
}

func (r *StockRepo) List(ctx context.Context, limit, offset int) ([]*entity.StockRecord, error) {
	all, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return page(all, limit, offset), nil
}

// ListAll ordenado por product_id (orden del índice radix).
func (r *StockRepo) ListAll(_ context.Context) ([]*entity.StockRecord, error) {
	txn, done := r.store.read(r.txn)
	defer done()
	it, err := txn.Get(tableStock, "id")
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	var out []*entity.StockRecord
	collect(it, func(obj interface{}) {
		out = append(out, obj.(*entity.StockRecord).Clone())
	})
	return out, nil
}

func (r *StockRepo) ListLowStock(ctx context.Context) ([]*entity.StockRecord, error) {
	all, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*entity.StockRecord, 0, len(all))
	for _, s := range all {
		if s.IsLowStock() {
			out = append(out, s)
		}
	}
	return out, nil
}

func firstStock(txn *memdb.Txn, productID string) (*entity.StockRecord, error) {
	obj, err := txn.First(tableStock, "id", productID)
	if err != nil {
		return nil, fmt.Errorf("get stock: %w", err)
	}
	if obj == nil {
		return nil, nil
	}
	return obj.(*entity.StockRecord).Clone(), nil
}
