package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

const stockColumns = `product_id, current_stock, reserved_stock, available_stock, low_stock_threshold,
	reorder_point, max_stock, version, last_updated, last_stock_in, last_stock_out, created_at`

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Get obtiene el registro de stock de un producto o (nil, nil).
func (r *StockRepo) Get(ctx context.Context, productID string) (*entity.StockRecord, error) {
	query := `SELECT ` + stockColumns + ` FROM stock_records WHERE product_id = $1`
	s, err := scanStock(r.q.QueryRow(ctx, query, productID))
	if err != nil {
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return s, nil
}

// GetForUpdate obtiene el registro y bloquea la fila para update (SELECT FOR UPDATE).
func (r *StockRepo) GetForUpdate(ctx context.Context, productID string) (*entity.StockRecord, error) {
	query := `SELECT ` + stockColumns + ` FROM stock_records WHERE product_id = $1 FOR UPDATE`
	s, err := scanStock(r.q.QueryRow(ctx, query, productID))
	if err != nil {
		return nil, fmt.Errorf("get stock for update: %w", err)
	}
	return s, nil
}

// Create inserta el registro. available_stock es columna generada.
func (r *StockRepo) Create(ctx context.Context, s *entity.StockRecord) error {
	query := `
		INSERT INTO stock_records (product_id, current_stock, reserved_stock, low_stock_threshold, reorder_point,
			max_stock, version, last_updated, last_stock_in, last_stock_out, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		s.ProductID, s.CurrentStock, s.ReservedStock, s.LowStockThreshold, s.ReorderPoint,
		s.MaxStock, s.Version, s.LastUpdated, s.LastStockIn, s.LastStockOut, s.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create stock: %w", err)
	}
	return nil
}

// Update persiste el registro si la versión coincide e incrementa s.Version.
func (r *StockRepo) Update(ctx context.Context, s *entity.StockRecord) error {
	query := `
		UPDATE stock_records
		SET current_stock = $2, reserved_stock = $3, low_stock_threshold = $4, reorder_point = $5,
			max_stock = $6, last_updated = $7, last_stock_in = $8, last_stock_out = $9, version = version + 1
		WHERE product_id = $1 AND version = $10`
	tag, err := r.q.Exec(ctx, query,
		s.ProductID, s.CurrentStock, s.ReservedStock, s.LowStockThreshold, s.ReorderPoint,
		s.MaxStock, s.LastUpdated, s.LastStockIn, s.LastStockOut, s.Version,
	)
	if err != nil {
		return fmt.Errorf("update stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: stock %s versión %d", domain.ErrConflict, s.ProductID, s.Version)
	}
	s.Version++
	return nil
}

// List registros paginados por product_id.
func (r *StockRepo) List(ctx context.Context, limit, offset int) ([]*entity.StockRecord, error) {
	query := `SELECT ` + stockColumns + ` FROM stock_records ORDER BY product_id LIMIT $1 OFFSET $2`
	return r.list(ctx, "list stock", query, limit, offset)
}

// ListAll todos los registros (reportes).
func (r *StockRepo) ListAll(ctx context.Context) ([]*entity.StockRecord, error) {
	query := `SELECT ` + stockColumns + ` FROM stock_records ORDER BY product_id`
	return r.list(ctx, "list all stock", query)
}

// ListLowStock registros con current_stock <= low_stock_threshold.
func (r *StockRepo) ListLowStock(ctx context.Context) ([]*entity.StockRecord, error) {
	query := `SELECT ` + stockColumns + ` FROM stock_records
		WHERE current_stock <= low_stock_threshold ORDER BY current_stock, product_id`
	return r.list(ctx, "list low stock", query)
}

func (r *StockRepo) list(ctx context.Context, op, query string, args ...any) ([]*entity.StockRecord, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()
	var list []*entity.StockRecord
	for rows.Next() {
		s, err := scanStock(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func scanStock(row pgx.Row) (*entity.StockRecord, error) {
	var s entity.StockRecord
	err := row.Scan(
		&s.ProductID, &s.CurrentStock, &s.ReservedStock, &s.AvailableStock, &s.LowStockThreshold,
		&s.ReorderPoint, &s.MaxStock, &s.Version, &s.LastUpdated, &s.LastStockIn, &s.LastStockOut, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}
