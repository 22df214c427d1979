package repository

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// OperationFilter filtros opcionales del log de operaciones.
type OperationFilter struct {
	ProductID       string
	Type            entity.OperationType
	ReferenceNumber string
	Limit           int
	Offset          int
}

// StockOperationRepository puerto del log de operaciones (append-only: no hay Update ni Delete).
type StockOperationRepository interface {
	// Append asigna ID y persiste el registro.
	Append(ctx context.Context, op *entity.OperationRecord) error
	GetByID(ctx context.Context, id int64) (*entity.OperationRecord, error)
	// List devuelve registros de la más reciente a la más antigua.
	List(ctx context.Context, filter OperationFilter) ([]*entity.OperationRecord, error)
	// ListByProductChronological devuelve toda la historia de un producto, de la más antigua a la más reciente.
	ListByProductChronological(ctx context.Context, productID string) ([]*entity.OperationRecord, error)
}
