package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del inventario. El CRUD pertenece a otro módulo;
// el ledger solo muta CurrentStock al confirmar movimientos.
type Product struct {
	ID            string
	SKU           string // código único
	Name          string
	CurrentStock  int64 // nunca negativo
	MinStockLevel int64
	MaxStockLevel int64
	UnitPrice     decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
