package memory

import (
	"context"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// ProductRepo acumulador de stock en memoria.
type ProductRepo struct{ view }

// GetByID devuelve una copia; (nil, nil) si no existe.
func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	defer r.read()()
	p, ok := r.s.st.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// GetForUpdate dentro de Run el mutex exclusivo ya serializa a los escritores.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

// SetCurrentStock escribe el valor absoluto.
func (r *ProductRepo) SetCurrentStock(_ context.Context, id string, value int64) error {
	defer r.write()()
	p, ok := r.s.st.products[id]
	if !ok {
		return domain.NewNotFound("product", id)
	}
	p.CurrentStock = value
	p.UpdatedAt = time.Now().UTC()
	r.s.st.products[id] = p
	return nil
}
