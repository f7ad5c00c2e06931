package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionResponse cabecera agregada de una transacción lógica.
type TransactionResponse struct {
	TransactionID   string          `json:"transaction_id"`
	ReferenceNumber string          `json:"reference_number"`
	MovementType    string          `json:"movement_type"`
	IsLoan          bool            `json:"is_loan"`
	ItemsCount      int             `json:"items_count"`
	TotalQuantity   int64           `json:"total_quantity"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	SupplierID      string          `json:"supplier_id,omitempty"`
	SupplierName    string          `json:"supplier_name,omitempty"`
	CustomerID      string          `json:"customer_id,omitempty"`
	CustomerName    string          `json:"customer_name,omitempty"`
	UserID          string          `json:"user_id,omitempty"`
	UserName        string          `json:"user_name,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	EntryDate       *time.Time      `json:"entry_date,omitempty"`
	ExitDate        *time.Time      `json:"exit_date,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// TransactionDetailResponse cabecera más líneas.
type TransactionDetailResponse struct {
	TransactionResponse
	Items []MovementResponse `json:"items"`
}

// TransactionListResponse lista paginada de transacciones.
type TransactionListResponse struct {
	Items []TransactionResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}

// TransactionQuery filtros de GET /api/stock/transactions.
type TransactionQuery struct {
	PageRequest
	Type   string `query:"type"`
	IsLoan string `query:"is_loan"`
	From   string `query:"from"`
	To     string `query:"to"`
	Search string `query:"search"`
	Sort   string `query:"sort"`
	Order  string `query:"order"`
}
