package entity

import (
	"fmt"
	"time"
)

// OperationType tipo de operación aplicada al ledger.
type OperationType string

// Tipos de operación de stock.
const (
	OperationStockIn     OperationType = "stock_in"     // entrada
	OperationStockOut    OperationType = "stock_out"    // salida (venta confirmada)
	OperationAdjustment  OperationType = "adjustment"   // conteo físico: fija el valor absoluto
	OperationReturnStock OperationType = "return_stock" // devolución de cliente
	OperationDamage      OperationType = "damage"       // merma
	OperationTransfer    OperationType = "transfer"     // salida hacia otra ubicación
)

var operationTypes = map[OperationType]struct{}{
	OperationStockIn:     {},
	OperationStockOut:    {},
	OperationAdjustment:  {},
	OperationReturnStock: {},
	OperationDamage:      {},
	OperationTransfer:    {},
}

// ParseOperationType valida un tipo recibido como texto.
func ParseOperationType(s string) (OperationType, error) {
	t := OperationType(s)
	if _, ok := operationTypes[t]; !ok {
		return "", fmt.Errorf("tipo de operación desconocido %q", s)
	}
	return t, nil
}

// OperationDetails campos opcionales tipados de una operación.
type OperationDetails struct {
	Source              string `json:"source,omitempty"`               // api, order-workflow, catalog...
	TransferDestination string `json:"transfer_destination,omitempty"` // solo transfer
	ReasonCode          string `json:"reason_code,omitempty"`
}

// OperationRecord registro inmutable del log de operaciones.
// Nunca se actualiza ni se elimina una vez creado.
type OperationRecord struct {
	ID              int64
	ProductID       string
	Type            OperationType
	Quantity        int64
	PreviousStock   int64
	NewStock        int64
	ActorID         string
	ReferenceNumber string
	Notes           string
	Details         OperationDetails
	CreatedAt       time.Time
}
