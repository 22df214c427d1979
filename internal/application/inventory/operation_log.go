package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// OperationLog historia inmutable de operaciones de stock.
// Solo el ledger agrega registros, dentro de su transacción; hacia afuera es de solo lectura.
type OperationLog struct {
	repo repository.StockOperationRepository
}

// NewOperationLog construye el log sobre el repositorio de lectura.
func NewOperationLog(repo repository.StockOperationRepository) *OperationLog {
	return &OperationLog{repo: repo}
}

func (o *OperationLog) append(ctx context.Context, opRepo repository.StockOperationRepository, op *entity.OperationRecord) error {
	if op.ID != 0 {
		return fmt.Errorf("la operación %d ya fue registrada", op.ID)
	}
	return opRepo.Append(ctx, op)
}

// OperationQuery filtros de consulta del log. Los campos vacíos no filtran.
type OperationQuery struct {
	ProductID       string
	OperationType   string
	ReferenceNumber string
	Page            dto.PageRequest
}

// Query devuelve operaciones de la más reciente a la más antigua.
func (o *OperationLog) Query(ctx context.Context, q OperationQuery) ([]*entity.OperationRecord, error) {
	filter := repository.OperationFilter{
		ProductID:       q.ProductID,
		ReferenceNumber: q.ReferenceNumber,
	}
	if q.OperationType != "" {
		t, err := entity.ParseOperationType(q.OperationType)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		filter.Type = t
	}
	q.Page.DefaultPage()
	filter.Limit = q.Page.Limit
	filter.Offset = q.Page.Offset()
	return o.repo.List(ctx, filter)
}

// Get devuelve una operación por ID.
func (o *OperationLog) Get(ctx context.Context, id int64) (*entity.OperationRecord, error) {
	op, err := o.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if op == nil {
		return nil, fmt.Errorf("%w: operación %d", domain.ErrNotFound, id)
	}
	return op, nil
}
