package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockItemRequest línea de una entrada o salida.
type StockItemRequest struct {
	ProductID string           `json:"product_id" validate:"required,max=64"`
	Quantity  int64            `json:"quantity" validate:"gt=0,lte=1000000000"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty" validate:"omitempty,gte=0"`
}

// StockInRequest body para POST /api/stock/in.
type StockInRequest struct {
	SupplierID      string             `json:"supplier_id,omitempty" validate:"max=64"`
	ReferenceNumber string             `json:"reference_number,omitempty" validate:"max=100"`
	EntryDate       string             `json:"entry_date,omitempty" validate:"omitempty,date"`
	Notes           string             `json:"notes,omitempty" validate:"max=1000"`
	Items           []StockItemRequest `json:"items" validate:"required,min=1,max=100,dive"`
}

// StockOutRequest body para POST /api/stock/out. IsLoan=true registra además un préstamo por línea.
type StockOutRequest struct {
	CustomerID      string             `json:"customer_id" validate:"required,max=64"`
	ReferenceNumber string             `json:"reference_number,omitempty" validate:"max=100"`
	ExitDate        string             `json:"exit_date,omitempty" validate:"omitempty,date"`
	Notes           string             `json:"notes,omitempty" validate:"max=1000"`
	IsLoan          bool               `json:"is_loan"`
	Items           []StockItemRequest `json:"items" validate:"required,min=1,max=100,dive"`
}

// AdjustmentRequest body para POST /api/stock/adjustment. NewQuantity es el valor absoluto final.
type AdjustmentRequest struct {
	ProductID   string `json:"product_id" validate:"required,max=64"`
	NewQuantity *int64 `json:"new_quantity" validate:"required,gte=0,lte=1000000000"`
	Notes       string `json:"notes" validate:"required,max=1000"`
}

// StockInResponse resultado de una entrada confirmada.
type StockInResponse struct {
	TransactionID   string   `json:"transaction_id"`
	ReferenceNumber string   `json:"reference_number"`
	ItemsCount      int      `json:"items_count"`
	MovementIDs     []string `json:"movement_ids"`
}

// StockOutResponse resultado de una salida confirmada.
type StockOutResponse struct {
	TransactionID   string   `json:"transaction_id"`
	ReferenceNumber string   `json:"reference_number"`
	ItemsCount      int      `json:"items_count"`
	IsLoan          bool     `json:"is_loan"`
	MovementIDs     []string `json:"movement_ids"`
	LoanIDs         []string `json:"loan_ids,omitempty"`
}

// AdjustmentResponse resultado de un ajuste. AdjustmentQuantity lleva signo.
type AdjustmentResponse struct {
	MovementID         string `json:"movement_id"`
	TransactionID      string `json:"transaction_id"`
	ProductID          string `json:"product_id"`
	PreviousStock      int64  `json:"previous_stock"`
	NewStock           int64  `json:"new_stock"`
	AdjustmentQuantity int64  `json:"adjustment_quantity"`
}

// MovementResponse fila del ledger.
type MovementResponse struct {
	ID              string          `json:"id"`
	TransactionID   string          `json:"transaction_id"`
	ProductID       string          `json:"product_id"`
	ProductName     string          `json:"product_name,omitempty"`
	ProductSKU      string          `json:"product_sku,omitempty"`
	MovementType    string          `json:"movement_type"`
	Quantity        int64           `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	PreviousStock   int64           `json:"previous_stock"`
	NewStock        int64           `json:"new_stock"`
	ReferenceNumber string          `json:"reference_number,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	UserID          string          `json:"user_id,omitempty"`
	UserName        string          `json:"user_name,omitempty"`
	SupplierID      string          `json:"supplier_id,omitempty"`
	SupplierName    string          `json:"supplier_name,omitempty"`
	CustomerID      string          `json:"customer_id,omitempty"`
	CustomerName    string          `json:"customer_name,omitempty"`
	IsLoan          bool            `json:"is_loan"`
	EntryDate       *time.Time      `json:"entry_date,omitempty"`
	ExitDate        *time.Time      `json:"exit_date,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// MovementQuery filtros de GET /api/stock/movements tal como llegan en la query string.
type MovementQuery struct {
	PageRequest
	Type       string `query:"type"`
	ProductID  string `query:"product_id"`
	CustomerID string `query:"customer_id"`
	SupplierID string `query:"supplier_id"`
	IsLoan     string `query:"is_loan"`
	From       string `query:"from"`
	To         string `query:"to"`
	Search     string `query:"search"`
	Sort       string `query:"sort"`
	Order      string `query:"order"`
}

// ReconciliationResponse resultado de re-ejecutar el ledger de un producto.
type ReconciliationResponse struct {
	ProductID     string `json:"product_id"`
	MovementCount int    `json:"movement_count"`
	InitialStock  int64  `json:"initial_stock"`
	TotalIn       int64  `json:"total_in"`
	TotalOut      int64  `json:"total_out"`
	AdjustmentNet int64  `json:"adjustment_net"`
	ReplayedStock int64  `json:"replayed_stock"`
	CurrentStock  int64  `json:"current_stock"`
	Consistent    bool   `json:"consistent"`
}
