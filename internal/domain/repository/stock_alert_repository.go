package repository

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// AlertFilter filtros opcionales de alertas.
type AlertFilter struct {
	Status    entity.AlertStatus
	Type      entity.AlertType
	ProductID string
	Limit     int
	Offset    int
}

// StockAlertRepository puerto de persistencia de alertas.
type StockAlertRepository interface {
	// FindActive devuelve la alerta active del par (producto, tipo) o (nil, nil).
	FindActive(ctx context.Context, productID string, alertType entity.AlertType) (*entity.AlertRecord, error)
	// Create asigna ID. Devuelve domain.ErrConflict si ya existe una active para el par.
	Create(ctx context.Context, alert *entity.AlertRecord) error
	GetByID(ctx context.Context, id int64) (*entity.AlertRecord, error)
	GetForUpdate(ctx context.Context, id int64) (*entity.AlertRecord, error)
	Update(ctx context.Context, alert *entity.AlertRecord) error
	List(ctx context.Context, filter AlertFilter) ([]*entity.AlertRecord, error)
	CountActiveByType(ctx context.Context) (map[entity.AlertType]int, error)
}
