package repository

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// StockRepository define el puerto para leer/escribir registros de stock por producto.
// Las escrituras solo ocurren dentro de transacciones (TxRunner).
type StockRepository interface {
	// Get devuelve (nil, nil) si el producto no tiene registro.
	Get(ctx context.Context, productID string) (*entity.StockRecord, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, productID string) (*entity.StockRecord, error)
	Create(ctx context.Context, stock *entity.StockRecord) error
	// Update persiste el registro si la versión almacenada coincide con stock.Version
	// y la incrementa en stock. Si no coincide devuelve domain.ErrConflict.
	Update(ctx context.Context, stock *entity.StockRecord) error
	List(ctx context.Context, limit, offset int) ([]*entity.StockRecord, error)
	ListAll(ctx context.Context) ([]*entity.StockRecord, error)
	// ListLowStock devuelve los registros con current_stock <= low_stock_threshold.
	ListLowStock(ctx context.Context) ([]*entity.StockRecord, error)
}
