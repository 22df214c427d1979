// Package inventory contiene las reglas puras del ledger de stock (servicios de dominio):
// efecto de cada tipo de operación, aritmética de reservas, invariante y condiciones de alerta.
// No conoce transacciones ni persistencia.
package inventory

import (
	"fmt"
	"math"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// ApplyOperation aplica el efecto de op sobre rec y devuelve el stock anterior y el nuevo.
// Si la operación falla rec queda intacto.
//
//	stock_in, return_stock      → current += qty
//	stock_out, damage, transfer → current -= qty (falla si qty > current)
//	adjustment                  → current  = qty
//
// En todos los casos el nuevo current no puede quedar por debajo de reserved.
func ApplyOperation(rec *entity.StockRecord, op entity.OperationType, qty int64, now time.Time) (previous, next int64, err error) {
	if qty <= 0 {
		return 0, 0, fmt.Errorf("%w: la cantidad debe ser positiva", domain.ErrInvalidInput)
	}
	previous = rec.CurrentStock

	switch op {
	case entity.OperationStockIn, entity.OperationReturnStock:
		if previous > math.MaxInt64-qty {
			return 0, 0, fmt.Errorf("%w: la cantidad desborda el contador", domain.ErrInvalidInput)
		}
		next = previous + qty
	case entity.OperationStockOut, entity.OperationDamage, entity.OperationTransfer:
		if qty > previous {
			return 0, 0, fmt.Errorf("%w: stock actual %d, solicitado %d", domain.ErrInsufficientStock, previous, qty)
		}
		next = previous - qty
	case entity.OperationAdjustment:
		next = qty
	default:
		return 0, 0, fmt.Errorf("%w: tipo de operación desconocido %q", domain.ErrInvalidInput, op)
	}

	if next < rec.ReservedStock {
		return 0, 0, fmt.Errorf("%w: %d unidades reservadas, el stock quedaría en %d",
			domain.ErrInsufficientStock, rec.ReservedStock, next)
	}

	rec.CurrentStock = next
	switch {
	case next > previous:
		rec.LastStockIn = &now
	case next < previous:
		rec.LastStockOut = &now
	}
	rec.LastUpdated = now
	rec.Recompute()
	return previous, next, nil
}

// Reserve retiene qty unidades contra el stock disponible.
func Reserve(rec *entity.StockRecord, qty int64, now time.Time) error {
	if qty <= 0 {
		return fmt.Errorf("%w: la cantidad debe ser positiva", domain.ErrInvalidInput)
	}
	if qty > rec.AvailableStock {
		return fmt.Errorf("%w: disponible %d, solicitado %d", domain.ErrInsufficientStock, rec.AvailableStock, qty)
	}
	rec.ReservedStock += qty
	rec.LastUpdated = now
	rec.Recompute()
	return nil
}

// Release libera min(qty, reserved) unidades y devuelve cuántas se liberaron.
// Pedir más de lo retenido no es error: tolera liberaciones duplicadas.
func Release(rec *entity.StockRecord, qty int64, now time.Time) (int64, error) {
	if qty <= 0 {
		return 0, fmt.Errorf("%w: la cantidad debe ser positiva", domain.ErrInvalidInput)
	}
	released := min(qty, rec.ReservedStock)
	if released == 0 {
		return 0, nil
	}
	rec.ReservedStock -= released
	rec.LastUpdated = now
	rec.Recompute()
	return released, nil
}

// CheckInvariant verifica available == current - reserved, current >= 0 y 0 <= reserved <= current.
func CheckInvariant(rec *entity.StockRecord) error {
	switch {
	case rec.CurrentStock < 0:
		return fmt.Errorf("invariante de stock violada para %s: current_stock %d < 0", rec.ProductID, rec.CurrentStock)
	case rec.ReservedStock < 0:
		return fmt.Errorf("invariante de stock violada para %s: reserved_stock %d < 0", rec.ProductID, rec.ReservedStock)
	case rec.ReservedStock > rec.CurrentStock:
		return fmt.Errorf("invariante de stock violada para %s: reserved_stock %d > current_stock %d",
			rec.ProductID, rec.ReservedStock, rec.CurrentStock)
	case rec.AvailableStock != rec.CurrentStock-rec.ReservedStock:
		return fmt.Errorf("invariante de stock violada para %s: available_stock %d != %d - %d",
			rec.ProductID, rec.AvailableStock, rec.CurrentStock, rec.ReservedStock)
	}
	return nil
}

// ValidateSettings valida umbrales de un registro de stock.
func ValidateSettings(lowStockThreshold, reorderPoint, maxStock int64) error {
	if lowStockThreshold < 0 || reorderPoint < 0 || maxStock < 0 {
		return fmt.Errorf("%w: los umbrales no pueden ser negativos", domain.ErrInvalidInput)
	}
	if maxStock == 0 {
		return fmt.Errorf("%w: max_stock debe ser positivo", domain.ErrInvalidInput)
	}
	return nil
}

// ReplayStock reconstruye current_stock reproduciendo las operaciones desde cero,
// en orden cronológico (la lista debe venir de la más antigua a la más reciente).
func ReplayStock(ops []*entity.OperationRecord) int64 {
	var stock int64
	for _, op := range ops {
		switch op.Type {
		case entity.OperationStockIn, entity.OperationReturnStock:
			stock += op.Quantity
		case entity.OperationStockOut, entity.OperationDamage, entity.OperationTransfer:
			stock -= op.Quantity
		case entity.OperationAdjustment:
			stock = op.Quantity
		}
	}
	return stock
}
