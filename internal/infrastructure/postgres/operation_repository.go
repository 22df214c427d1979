package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.StockOperationRepository = (*OperationRepo)(nil)

const operationColumns = `id, product_id, operation_type, quantity, previous_stock, new_stock,
	actor_id, reference_number, notes, details, created_at`

// OperationRepo log de operaciones sobre PostgreSQL. La tabla rechaza UPDATE y DELETE (trigger).
type OperationRepo struct {
	q Querier
}

// NewOperationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOperationRepository(q Querier) *OperationRepo {
	return &OperationRepo{q: q}
}

// Append inserta la operación y asigna el ID generado (BIGSERIAL).
func (r *OperationRepo) Append(ctx context.Context, op *entity.OperationRecord) error {
	details, err := json.Marshal(op.Details)
	if err != nil {
		return fmt.Errorf("encode operation details: %w", err)
	}
	query := `
		INSERT INTO stock_operations (product_id, operation_type, quantity, previous_stock, new_stock,
			actor_id, reference_number, notes, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`
	err = r.q.QueryRow(ctx, query,
		op.ProductID, string(op.Type), op.Quantity, op.PreviousStock, op.NewStock,
		op.ActorID, op.ReferenceNumber, op.Notes, details, op.CreatedAt,
	).Scan(&op.ID)
	if err != nil {
		return fmt.Errorf("append operation: %w", err)
	}
	return nil
}

// GetByID obtiene una operación o (nil, nil).
func (r *OperationRepo) GetByID(ctx context.Context, id int64) (*entity.OperationRecord, error) {
	query := `SELECT ` + operationColumns + ` FROM stock_operations WHERE id = $1`
	op, err := scanOperation(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get operation: %w", err)
	}
	return op, nil
}

// List operaciones filtradas, de la más reciente a la más antigua.
func (r *OperationRepo) List(ctx context.Context, filter repository.OperationFilter) ([]*entity.OperationRecord, error) {
	query := `SELECT ` + operationColumns + ` FROM stock_operations WHERE 1=1`
	var args []any
	pos := 1
	if filter.ProductID != "" {
		query += fmt.Sprintf(" AND product_id = $%d", pos)
		args = append(args, filter.ProductID)
		pos++
	}
	if filter.Type != "" {
		query += fmt.Sprintf(" AND operation_type = $%d", pos)
		args = append(args, string(filter.Type))
		pos++
	}
	if filter.ReferenceNumber != "" {
		query += fmt.Sprintf(" AND reference_number = $%d", pos)
		args = append(args, filter.ReferenceNumber)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY id DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, filter.Limit, filter.Offset)
	return r.list(ctx, "list operations", query, args...)
}

// ListByProductChronological historia completa de un producto, de la más antigua a la más reciente.
func (r *OperationRepo) ListByProductChronological(ctx context.Context, productID string) ([]*entity.OperationRecord, error) {
	query := `SELECT ` + operationColumns + ` FROM stock_operations WHERE product_id = $1 ORDER BY id`
	return r.list(ctx, "list operations by product", query, productID)
}

func (r *OperationRepo) list(ctx context.Context, op, query string, args ...any) ([]*entity.OperationRecord, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()
	var list []*entity.OperationRecord
	for rows.Next() {
		o, err := scanOperation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan operation: %w", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

func scanOperation(row pgx.Row) (*entity.OperationRecord, error) {
	var (
		o       entity.OperationRecord
		opType  string
		details []byte
	)
	if err := row.Scan(&o.ID, &o.ProductID, &opType, &o.Quantity, &o.PreviousStock, &o.NewStock,
		&o.ActorID, &o.ReferenceNumber, &o.Notes, &details, &o.CreatedAt); err != nil {
		return nil, err
	}
	o.Type = entity.OperationType(opType)
	if len(details) > 0 {
		if err := json.Unmarshal(details, &o.Details); err != nil {
			return nil, fmt.Errorf("decode operation details: %w", err)
		}
	}
	return &o, nil
}
