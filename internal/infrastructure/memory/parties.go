package memory

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// CustomerRepo lectura de clientes.
type CustomerRepo struct{ view }

func (r *CustomerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	defer r.read()()
	c, ok := r.s.st.customers[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

// SupplierRepo lectura de proveedores.
type SupplierRepo struct{ view }

func (r *SupplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	defer r.read()()
	sp, ok := r.s.st.suppliers[id]
	if !ok {
		return nil, nil
	}
	return &sp, nil
}
