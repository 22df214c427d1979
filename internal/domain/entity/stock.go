package entity

import "time"

// StockRecord representa el contador autoritativo de stock de un producto.
// AvailableStock es derivado: CurrentStock - ReservedStock. Solo el ledger lo modifica.
type StockRecord struct {
	ProductID         string
	CurrentStock      int64 // unidades físicas en bodega
	ReservedStock     int64 // retenidas por órdenes sin confirmar
	AvailableStock    int64 // vendibles
	LowStockThreshold int64
	ReorderPoint      int64 // informativo; la reposición está fuera de este núcleo
	MaxStock          int64
	Version           int64 // se incrementa en cada mutación confirmada
	LastUpdated       time.Time
	LastStockIn       *time.Time
	LastStockOut      *time.Time
	CreatedAt         time.Time
}

// Recompute recalcula AvailableStock a partir de los contadores.
func (s *StockRecord) Recompute() {
	s.AvailableStock = s.CurrentStock - s.ReservedStock
}

// IsLowStock indica si el stock actual está en o bajo el umbral de stock bajo.
func (s StockRecord) IsLowStock() bool { return s.CurrentStock <= s.LowStockThreshold }

// IsOutOfStock indica stock físico en cero.
func (s StockRecord) IsOutOfStock() bool { return s.CurrentStock == 0 }

// IsOverstock indica stock por encima del máximo configurado.
func (s StockRecord) IsOverstock() bool { return s.CurrentStock > s.MaxStock }

// BelowReorderPoint indica stock en o bajo el punto de reorden.
func (s StockRecord) BelowReorderPoint() bool { return s.CurrentStock <= s.ReorderPoint }

// Clone devuelve una copia profunda (los punteros de fecha no se comparten).
func (s *StockRecord) Clone() *StockRecord {
	if s == nil {
		return nil
	}
	c := *s
	if s.LastStockIn != nil {
		t := *s.LastStockIn
		c.LastStockIn = &t
	}
	if s.LastStockOut != nil {
		t := *s.LastStockOut
		c.LastStockOut = &t
	}
	return &c
}
