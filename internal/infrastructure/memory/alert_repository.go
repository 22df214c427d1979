package memory

import (
	"context"
	"fmt"
	"sort"

	memdb "github.com/hashicorp/go-memdb"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.StockAlertRepository = (*AlertRepo)(nil)

// AlertRepo alertas en memoria. El índice product_type no es único (hay historia
// resuelta por par); la unicidad de la active se verifica en Create y Update.
type AlertRepo struct {
	store *Store
	txn   *memdb.Txn
}

// NewAlertRepository repositorio de lectura fuera de transacción.
func NewAlertRepository(store *Store) *AlertRepo {
	return &AlertRepo{store: store}
}

func (r *AlertRepo) FindActive(_ context.Context, productID string, alertType entity.AlertType) (*entity.AlertRecord, error) {
	txn, done := r.store.read(r.txn)
	defer done()
	return findActive(txn, productID, alertType, 0)
}

func (r *AlertRepo) Create(_ context.Context, alert *entity.AlertRecord) error {
	return r.store.write(r.txn, func(txn *memdb.Txn) error {
		if alert.Status == entity.AlertStatusActive {
			active, err := findActive(txn, alert.ProductID, alert.Type, 0)
			if err != nil {
				return err
			}
			if active != nil {
				return fmt.Errorf("%w: alerta %s activa para %s", domain.ErrConflict, alert.Type, alert.ProductID)
			}
		}
		id := r.store.alertSeq.Add(1)
		stored := alert.Clone()
		stored.ID = id
		if err := txn.Insert(tableAlerts, stored); err != nil {
			return fmt.Errorf("create alert: %w", err)
		}
		alert.ID = id
		return nil
	})
}

func (r *AlertRepo) GetByID(_ context.Context, id int64) (*entity.AlertRecord, error) {
	txn, done := r.store.read(r.txn)
	defer done()
	obj, err := txn.First(tableAlerts, "id", id)
	if err != nil {
		return nil, fmt.Errorf("get alert: %w", err)
	}
	if obj == nil {
		return nil, nil
	}
	return obj.(*entity.AlertRecord).Clone(), nil
}

func (r *AlertRepo) GetForUpdate(ctx context.Context, id int64) (*entity.AlertRecord, error) {
	return r.GetByID(ctx, id)
}

func (r *AlertRepo) Update(_ context.Context, alert *entity.AlertRecord) error {
	return r.store.write(r.txn, func(txn *memdb.Txn) error {
		existing, err := txn.First(tableAlerts, "id", alert.ID)
		if err != nil {
			return fmt.Errorf("update alert: %w", err)
		}
		if existing == nil {
			return fmt.Errorf("%w: alerta %d", domain.ErrNotFound, alert.ID)
		}
		if alert.Status == entity.AlertStatusActive {
			other, err := findActive(txn, alert.ProductID, alert.Type, alert.ID)
			if err != nil {
				return err
			}
			if other != nil {
				return fmt.Errorf("%w: alerta %s activa para %s", domain.ErrConflict, alert.Type, alert.ProductID)
			}
		}
		if err := txn.Insert(tableAlerts, alert.Clone()); err != nil {
			return fmt.Errorf("update alert: %w", err)
		}
		return nil
	})
}

func (r *AlertRepo) List(_ context.Context, filter repository.AlertFilter) ([]*entity.AlertRecord, error) {
	txn, done := r.store.read(r.txn)
	defer done()
	it, err := txn.Get(tableAlerts, "id")
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	var out []*entity.AlertRecord
	collect(it, func(obj interface{}) {
		a := obj.(*entity.AlertRecord)
		if filter.Status != "" && a.Status != filter.Status {
			return
		}
		if filter.Type != "" && a.Type != filter.Type {
			return
		}
		if filter.ProductID != "" && a.ProductID != filter.ProductID {
			return
		}
		out = append(out, a.Clone())
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return page(out, filter.Limit, filter.Offset), nil
}

func (r *AlertRepo) CountActiveByType(_ context.Context) (map[entity.AlertType]int, error) {
	txn, done := r.store.read(r.txn)
	defer done()
	it, err := txn.Get(tableAlerts, "status", string(entity.AlertStatusActive))
	if err != nil {
		return nil, fmt.Errorf("count alerts: %w", err)
	}
	out := make(map[entity.AlertType]int)
	collect(it, func(obj interface{}) {
		out[obj.(*entity.AlertRecord).Type]++
	})
	return out, nil
}

// findActive busca la alerta active del par ignorando exceptID.
func findActive(txn *memdb.Txn, productID string, alertType entity.AlertType, exceptID int64) (*entity.AlertRecord, error) {
	it, err := txn.Get(tableAlerts, "product_type", productID, string(alertType))
	if err != nil {
		return nil, fmt.Errorf("find active alert: %w", err)
	}
	for obj := it.Next(); obj != nil; obj = it.Next() {
		a := obj.(*entity.AlertRecord)
		if a.Status == entity.AlertStatusActive && a.ID != exceptID {
			return a.Clone(), nil
		}
	}
	return nil, nil
}
