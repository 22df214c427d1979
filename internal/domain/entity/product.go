package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product vista mínima del catálogo que consume este núcleo: solo el precio unitario
// para valorizar el stock. El catálogo completo vive en otro servicio.
type Product struct {
	ID        string
	SKU       string
	Name      string
	Price     decimal.Decimal // precio de venta
	UpdatedAt time.Time
}
