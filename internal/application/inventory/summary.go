package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var errPDFDisabled = errors.New("generador de PDF no configurado")

// SummaryReporter agrega el estado del inventario. Lee sin bloqueo y el resultado puede
// estar levemente desfasado respecto de mutaciones concurrentes.
type SummaryReporter struct {
	stockRepo repository.StockRepository
	alertRepo repository.StockAlertRepository
	prices    PriceResolver
	pdf       SummaryPDFGenerator
	log       zerolog.Logger
	now       func() time.Time
}

// NewSummaryReporter construye el reporter. prices y pdf pueden ser nil.
func NewSummaryReporter(
	stockRepo repository.StockRepository,
	alertRepo repository.StockAlertRepository,
	prices PriceResolver,
	pdf SummaryPDFGenerator,
	log zerolog.Logger,
) *SummaryReporter {
	return &SummaryReporter{
		stockRepo: stockRepo,
		alertRepo: alertRepo,
		prices:    prices,
		pdf:       pdf,
		log:       log.With().Str("component", "summary").Logger(),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// GetSummary calcula el resumen. Un producto sin precio aporta cero al valor total.
func (r *SummaryReporter) GetSummary(ctx context.Context) (*dto.InventorySummaryDTO, error) {
	stocks, err := r.stockRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := r.alertRepo.CountActiveByType(ctx)
	if err != nil {
		return nil, err
	}

	out := &dto.InventorySummaryDTO{
		TotalProducts:      len(stocks),
		TotalStockValue:    decimal.Zero,
		ActiveAlertsByType: make(map[string]int, len(counts)),
		GeneratedAt:        r.now(),
	}
	for _, s := range stocks {
		if s.IsLowStock() {
			out.LowStockItems++
		}
		if s.IsOutOfStock() {
			out.OutOfStockItems++
		}
		if s.IsOverstock() {
			out.OverstockItems++
		}
		if s.BelowReorderPoint() {
			out.BelowReorderPointItems++
		}
		out.ReservedUnits += s.ReservedStock
		out.TotalStockValue = out.TotalStockValue.Add(r.valuate(ctx, s))
	}
	for t, n := range counts {
		out.ActiveAlerts += n
		out.ActiveAlertsByType[string(t)] = n
	}
	return out, nil
}

func (r *SummaryReporter) valuate(ctx context.Context, s *entity.StockRecord) decimal.Decimal {
	if r.prices == nil || s.CurrentStock == 0 {
		return decimal.Zero
	}
	price, err := r.prices.GetProductPrice(ctx, s.ProductID)
	if err != nil {
		r.log.Debug().Err(err).Str("product_id", s.ProductID).Msg("producto sin precio, se valoriza en cero")
		return decimal.Zero
	}
	return price.Mul(decimal.NewFromInt(s.CurrentStock))
}

// ListLowStock registros con current_stock <= low_stock_threshold.
func (r *SummaryReporter) ListLowStock(ctx context.Context) ([]*entity.StockRecord, error) {
	return r.stockRepo.ListLowStock(ctx)
}

// SummaryPDF genera el resumen en PDF junto con el detalle de productos en stock bajo.
func (r *SummaryReporter) SummaryPDF(ctx context.Context) ([]byte, error) {
	if r.pdf == nil {
		return nil, errPDFDisabled
	}
	summary, err := r.GetSummary(ctx)
	if err != nil {
		return nil, err
	}
	low, err := r.ListLowStock(ctx)
	if err != nil {
		return nil, err
	}
	return r.pdf.GenerateSummaryPDF(ctx, summary, dto.NewStockList(low))
}
