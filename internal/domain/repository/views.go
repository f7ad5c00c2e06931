package repository

import (
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Campos de orden permitidos en los listados; cualquier otro valor cae a SortCreatedAt.
const (
	SortCreatedAt   = "created_at"
	SortQuantity    = "quantity"
	SortTotalAmount = "total_amount"
	SortReference   = "reference_number"
)

// MovementFilter filtros del listado de movimientos. Campos vacíos = sin filtro.
type MovementFilter struct {
	Type       string
	ProductID  string
	CustomerID string
	SupplierID string
	IsLoan     *bool
	From       *time.Time
	To         *time.Time // exclusivo
	Search     string     // ya normalizado
	Sort       string
	Desc       bool
	Limit      int
	Offset     int
}

// TransactionFilter filtros del listado de transacciones agrupadas.
type TransactionFilter struct {
	Type   string
	IsLoan *bool
	From   *time.Time
	To     *time.Time // exclusivo
	Search string
	Sort   string
	Desc   bool
	Limit  int
	Offset int
}

// LoanFilter filtros del listado de préstamos.
type LoanFilter struct {
	Status     string
	CustomerID string
	ProductID  string
	Search     string
	Limit      int
	Offset     int
}

// MovementView fila del ledger con nombres desnormalizados para mostrar.
type MovementView struct {
	entity.MovementRecord
	ProductName  string
	ProductSKU   string
	SupplierName string
	CustomerName string
	UserName     string
}

// TransactionSummary cabecera agregada de una transacción lógica.
type TransactionSummary struct {
	TransactionID   string
	ReferenceNumber string
	Type            string
	IsLoan          bool
	ItemsCount      int
	TotalQuantity   int64
	TotalAmount     decimal.Decimal
	SupplierID      string
	SupplierName    string
	CustomerID      string
	CustomerName    string
	UserID          string
	UserName        string
	Notes           string
	EntryDate       *time.Time
	ExitDate        *time.Time
	CreatedAt       time.Time
}

// LoanView préstamo con nombres de producto y cliente.
type LoanView struct {
	entity.LoanItem
	ProductName  string
	ProductSKU   string
	CustomerName string
}

// LoanReceipt snapshot para generar el comprobante del préstamo.
type LoanReceipt struct {
	Loan     entity.LoanItem
	Product  entity.Product
	Customer entity.Customer
}
