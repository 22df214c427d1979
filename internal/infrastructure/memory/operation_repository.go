package memory

import (
	"context"
	"fmt"
	"sort"

	memdb "github.com/hashicorp/go-memdb"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.StockOperationRepository = (*OperationRepo)(nil)

// OperationRepo log de operaciones en memoria (append-only).
type OperationRepo struct {
	store *Store
	txn   *memdb.Txn
}

// NewOperationRepository repositorio de lectura fuera de transacción.
func NewOperationRepository(store *Store) *OperationRepo {
	return &OperationRepo{store: store}
}

// Append asigna un ID monotónico. Si la transacción se aborta el ID queda sin usar.
func (r *OperationRepo) Append(_ context.Context, op *entity.OperationRecord) error {
	return r.store.write(r.txn, func(txn *memdb.Txn) error {
		id := r.store.opSeq.Add(1)
		stored := *op
		stored.ID = id
		if err := txn.Insert(tableOperations, &stored); err != nil {
			return fmt.Errorf("append operation: %w", err)
		}
		op.ID = id
		return nil
	})
}

func (r *OperationRepo) GetByID(_ context.Context, id int64) (*entity.OperationRecord, error) {
	txn, done := r.store.read(r.txn)
	defer done()
	obj, err := txn.First(tableOperations, "id", id)
	if err != nil {
		return nil, fmt.Errorf("get operation: %w", err)
	}
	if obj == nil {
		return nil, nil
	}
	op := *obj.(*entity.OperationRecord)
	return &op, nil
}

func (r *OperationRepo) List(_ context.Context, filter repository.OperationFilter) ([]*entity.OperationRecord, error) {
	ops, err := r.scan(filter.ProductID)
	if err != nil {
		return nil, err
	}
	out := ops[:0]
	for _, op := range ops {
		if filter.Type != "" && op.Type != filter.Type {
			continue
		}
		if filter.ReferenceNumber != "" && op.ReferenceNumber != filter.ReferenceNumber {
			continue
		}
		out = append(out, op)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return page(out, filter.Limit, filter.Offset), nil
}

func (r *OperationRepo) ListByProductChronological(_ context.Context, productID string) ([]*entity.OperationRecord, error) {
	ops, err := r.scan(productID)
	if err != nil {
		return nil, err
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i].ID < ops[j].ID })
	return ops, nil
}

func (r *OperationRepo) scan(productID string) ([]*entity.OperationRecord, error) {
	txn, done := r.store.read(r.txn)
	defer done()

	var (
		it  memdb.ResultIterator
		err error
	)
	if productID != "" {
		it, err = txn.Get(tableOperations, "product", productID)
	} else {
		it, err = txn.Get(tableOperations, "id")
	}
	if err != nil {
		return nil, fmt.Errorf("list operations: %w", err)
	}
	var out []*entity.OperationRecord
	collect(it, func(obj interface{}) {
		op := *obj.(*entity.OperationRecord)
		out = append(out, &op)
	})
	return out, nil
}
