package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// MovementRepository puerto del ledger. Solo inserta: no existe Update ni Delete.
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.MovementRecord) error
	// GetByID devuelve (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*MovementView, error)
	List(ctx context.Context, filter MovementFilter) ([]MovementView, int, error)
	// ListByProduct devuelve el historial completo del producto en orden cronológico.
	ListByProduct(ctx context.Context, productID string) ([]entity.MovementRecord, error)
}
