package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// CustomerRepository lectura de clientes (el CRUD pertenece a otro módulo).
type CustomerRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
}

// SupplierRepository lectura de proveedores (el CRUD pertenece a otro módulo).
type SupplierRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Supplier, error)
}
