package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoanReturnRequest body para POST /api/stock/loans/:id/return.
type LoanReturnRequest struct {
	ReturnDate string `json:"return_date,omitempty" validate:"omitempty,date"`
	Notes      string `json:"notes,omitempty" validate:"max=1000"`
}

// LoanReturnResponse resultado de una devolución.
type LoanReturnResponse struct {
	LoanID           string    `json:"loan_id"`
	Status           string    `json:"status"`
	ReturnDate       time.Time `json:"return_date"`
	ReturnMovementID string    `json:"return_movement_id"`
	TransactionID    string    `json:"transaction_id"`
	ReferenceNumber  string    `json:"reference_number"`
	NewStock         int64     `json:"new_stock"`
}

// LoanResponse préstamo con nombres de producto y cliente.
type LoanResponse struct {
	ID               string          `json:"id"`
	MovementID       string          `json:"movement_id"`
	ProductID        string          `json:"product_id"`
	ProductName      string          `json:"product_name,omitempty"`
	ProductSKU       string          `json:"product_sku,omitempty"`
	CustomerID       string          `json:"customer_id"`
	CustomerName     string          `json:"customer_name,omitempty"`
	Quantity         int64           `json:"quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	ReferenceNumber  string          `json:"reference_number"`
	Notes            string          `json:"notes,omitempty"`
	Status           string          `json:"status"`
	ExitDate         time.Time       `json:"exit_date"`
	ReturnDate       *time.Time      `json:"return_date,omitempty"`
	ReturnMovementID string          `json:"return_movement_id,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// LoanListResponse lista paginada de préstamos.
type LoanListResponse struct {
	Items []LoanResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// LoanQuery filtros de GET /api/stock/loans.
type LoanQuery struct {
	PageRequest
	Status     string `query:"status"`
	CustomerID string `query:"customer_id"`
	ProductID  string `query:"product_id"`
	Search     string `query:"search"`
}

// LoanReceiptResponse comprobante de préstamo en JSON.
type LoanReceiptResponse struct {
	Loan            LoanResponse `json:"loan"`
	CustomerTaxID   string       `json:"customer_tax_id,omitempty"`
	CustomerPhone   string       `json:"customer_phone,omitempty"`
	CustomerEmail   string       `json:"customer_email,omitempty"`
	CustomerAddress string       `json:"customer_address,omitempty"`
}
