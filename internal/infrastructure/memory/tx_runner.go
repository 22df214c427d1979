package memory

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción de escritura de go-memdb.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner sobre el store.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run abre una transacción de escritura, ejecuta fn con repos atados a ella y confirma
// solo si fn no devuelve error. Cualquier error descarta todos los cambios.
func (r *TxRunner) Run(ctx context.Context, fn func(
	stockRepo repository.StockRepository,
	opRepo repository.StockOperationRepository,
	alertRepo repository.StockAlertRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	txn := r.store.db.Txn(true)
	defer txn.Abort()

	if err := fn(
		&StockRepo{store: r.store, txn: txn},
		&OperationRepo{store: r.store, txn: txn},
		&AlertRepo{store: r.store, txn: txn},
	); err != nil {
		return err
	}
	txn.Commit()
	return nil
}
