// Package pdf genera el reporte PDF del resumen de inventario.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Resumen de inventario       │  Fecha de corte      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  INDICADORES: productos / valor / reservas / alertas        │
//	│  ALERTAS ACTIVAS POR TIPO                                   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA STOCK BAJO: Producto | Actual | Reservado | Umbral   │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"sort"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
)

var _ inventory.SummaryPDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 170, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa inventory.SummaryPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	title   string
	printer *message.Printer
}

// NewMarotoPDFGenerator construye el generador. title encabeza el documento.
func NewMarotoPDFGenerator(title string) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{title: title, printer: message.NewPrinter(language.Spanish)}
}

// GenerateSummaryPDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateSummaryPDF(
	_ context.Context,
	summary *dto.InventorySummaryDTO,
	lowStock []dto.StockResponse,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Resumen de inventario", true).
		WithAuthor(g.title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(summary))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(g.indicatorRows(summary)...)
	m.AddRows(g.alertRows(summary)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(lowStockHeaderRow())
	m.AddRows(g.lowStockRows(lowStock)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (g *MarotoPDFGenerator) headerRow(s *dto.InventorySummaryDTO) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New(g.title, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New("Resumen de inventario", props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(4).Add(
			text.New("Corte: "+s.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 3, Color: colorGray,
			}),
		),
	)
}

func (g *MarotoPDFGenerator) indicatorRows(s *dto.InventorySummaryDTO) []core.Row {
	kpi := func(label, value string) core.Col {
		return col.New(3).Add(
			text.New(label, props.Text{Size: 7, Color: colorGray, Top: 1}),
			text.New(value, props.Text{Style: fontstyle.Bold, Size: 11, Top: 5}),
		)
	}
	return []core.Row{
		row.New(14).Add(
			kpi("Productos", g.printer.Sprintf("%d", s.TotalProducts)),
			kpi("Valor del stock", "$"+g.printer.Sprintf("%.2f", s.TotalStockValue.InexactFloat64())),
			kpi("Unidades reservadas", g.printer.Sprintf("%d", s.ReservedUnits)),
			kpi("Alertas activas", g.printer.Sprintf("%d", s.ActiveAlerts)),
		),
		row.New(14).Add(
			kpi("Stock bajo", g.printer.Sprintf("%d", s.LowStockItems)),
			kpi("Agotados", g.printer.Sprintf("%d", s.OutOfStockItems)),
			kpi("Sobrestock", g.printer.Sprintf("%d", s.OverstockItems)),
			kpi("Bajo punto de reorden", g.printer.Sprintf("%d", s.BelowReorderPointItems)),
		),
	}
}

func (g *MarotoPDFGenerator) alertRows(s *dto.InventorySummaryDTO) []core.Row {
	if len(s.ActiveAlertsByType) == 0 {
		return nil
	}
	types := make([]string, 0, len(s.ActiveAlertsByType))
	for t := range s.ActiveAlertsByType {
		types = append(types, t)
	}
	sort.Strings(types)

	rows := []core.Row{
		row.New(7).Add(col.New(12).Add(text.New("ALERTAS ACTIVAS POR TIPO", props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2,
		}))),
	}
	for _, t := range types {
		rows = append(rows, row.New(5).Add(
			col.New(6).Add(text.New(t, props.Text{Size: 8, Left: 2})),
			col.New(2).Add(text.New(g.printer.Sprintf("%d", s.ActiveAlertsByType[t]), props.Text{
				Size: 8, Align: align.Right, Color: colorAlert,
			})),
		))
	}
	return rows
}

func lowStockHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Producto", 4, align.Left),
		h("Actual", 2, align.Right),
		h("Reservado", 2, align.Right),
		h("Disponible", 2, align.Right),
		h("Umbral", 2, align.Right),
	)
}

func (g *MarotoPDFGenerator) lowStockRows(list []dto.StockResponse) []core.Row {
	if len(list) == 0 {
		return []core.Row{row.New(8).Add(col.New(12).Add(text.New("Sin productos en stock bajo.", props.Text{
			Size: 8, Color: colorGray, Top: 2, Align: align.Center,
		})))}
	}
	cell := func(v int64, size int) core.Col {
		return col.New(size).Add(text.New(g.printer.Sprintf("%d", v), props.Text{
			Size: 8, Align: align.Right, Top: 1, Right: 1,
		}))
	}
	rows := make([]core.Row, 0, len(list))
	for _, s := range list {
		rows = append(rows, row.New(6).Add(
			col.New(4).Add(text.New(s.ProductID, props.Text{Size: 8, Top: 1, Left: 1})),
			cell(s.CurrentStock, 2),
			cell(s.ReservedStock, 2),
			cell(s.AvailableStock, 2),
			cell(s.LowStockThreshold, 2),
		))
	}
	return rows
}
