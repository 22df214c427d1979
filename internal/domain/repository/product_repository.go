package repository

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// ProductRepository puerto de lectura del catálogo (colaborador externo).
// El núcleo solo necesita el precio unitario para valorizar el stock.
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	Upsert(ctx context.Context, product *entity.Product) error
}
