package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/pdf"
)

func TestGenerateSummaryPDF(t *testing.T) {
	g := pdf.NewMarotoPDFGenerator("Bodega Central")
	summary := &dto.InventorySummaryDTO{
		TotalProducts:      3,
		TotalStockValue:    decimal.RequireFromString("125000.50"),
		LowStockItems:      1,
		ActiveAlerts:       2,
		ActiveAlertsByType: map[string]int{"low_stock": 1, "out_of_stock": 1},
		GeneratedAt:        time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	low := []dto.StockResponse{{ProductID: "SKU-1", CurrentStock: 0, LowStockThreshold: 10}}

	out, err := g.GenerateSummaryPDF(context.Background(), summary, low)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGenerateSummaryPDF_Empty(t *testing.T) {
	g := pdf.NewMarotoPDFGenerator("Bodega Central")
	out, err := g.GenerateSummaryPDF(context.Background(), &dto.InventorySummaryDTO{GeneratedAt: time.Now()}, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}
