package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// ProductStockRepository puerto del acumulador de stock sobre la tabla de productos.
// Las implementaciones se atan a una transacción; GetForUpdate bloquea la fila hasta el commit.
// Todos los Get devuelven (nil, nil) si el producto no existe.
type ProductStockRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	SetCurrentStock(ctx context.Context, id string, value int64) error
}
