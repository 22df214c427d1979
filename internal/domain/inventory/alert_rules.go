package inventory

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// AlertCondition condición de alerta que se cumple para un StockRecord.
type AlertCondition struct {
	Type     entity.AlertType
	Severity entity.AlertSeverity
	Message  string
	Details  entity.AlertDetails
}

var printer = message.NewPrinter(language.Spanish)

// DefaultSeverity severidad por defecto de cada tipo de alerta.
func DefaultSeverity(t entity.AlertType) entity.AlertSeverity {
	switch t {
	case entity.AlertOutOfStock, entity.AlertTheftSuspicion:
		return entity.SeverityCritical
	case entity.AlertLowStock:
		return entity.SeverityMedium
	case entity.AlertExpiryWarning:
		return entity.SeverityHigh
	default:
		return entity.SeverityLow
	}
}

// EvaluateConditions devuelve las condiciones de alerta que cumple rec (post-mutación).
// out_of_stock se suma a low_stock, no lo reemplaza. Las condiciones que dejan de
// cumplirse no se reportan: las alertas nunca se resuelven solas.
func EvaluateConditions(rec entity.StockRecord) []AlertCondition {
	var out []AlertCondition
	if rec.IsLowStock() {
		out = append(out, AlertCondition{
			Type:     entity.AlertLowStock,
			Severity: DefaultSeverity(entity.AlertLowStock),
			Message: printer.Sprintf("Stock bajo para %s: %d unidades (umbral %d)",
				rec.ProductID, rec.CurrentStock, rec.LowStockThreshold),
			Details: entity.AlertDetails{StockLevel: rec.CurrentStock, Threshold: rec.LowStockThreshold},
		})
	}
	if rec.IsOutOfStock() {
		out = append(out, AlertCondition{
			Type:     entity.AlertOutOfStock,
			Severity: DefaultSeverity(entity.AlertOutOfStock),
			Message:  printer.Sprintf("Producto %s agotado", rec.ProductID),
			Details:  entity.AlertDetails{StockLevel: 0, Threshold: 0},
		})
	}
	if rec.IsOverstock() {
		out = append(out, AlertCondition{
			Type:     entity.AlertOverstock,
			Severity: DefaultSeverity(entity.AlertOverstock),
			Message: printer.Sprintf("Sobrestock para %s: %d unidades (máximo %d)",
				rec.ProductID, rec.CurrentStock, rec.MaxStock),
			Details: entity.AlertDetails{StockLevel: rec.CurrentStock, Threshold: rec.MaxStock},
		})
	}
	return out
}
