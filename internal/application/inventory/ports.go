package inventory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Contador, log de operaciones y alertas se confirman o descartan juntos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		stockRepo repository.StockRepository,
		opRepo repository.StockOperationRepository,
		alertRepo repository.StockAlertRepository,
	) error) error
}

// PriceResolver colaborador de catálogo: precio unitario de un producto.
type PriceResolver interface {
	GetProductPrice(ctx context.Context, productID string) (decimal.Decimal, error)
}

// AlertNotifier recibe las alertas creadas, después del commit.
type AlertNotifier interface {
	Notify(ctx context.Context, alerts []*entity.AlertRecord) error
}

// SummaryPDFGenerator genera el reporte PDF del resumen de inventario.
type SummaryPDFGenerator interface {
	GenerateSummaryPDF(ctx context.Context, summary *dto.InventorySummaryDTO, lowStock []dto.StockResponse) ([]byte, error)
}
