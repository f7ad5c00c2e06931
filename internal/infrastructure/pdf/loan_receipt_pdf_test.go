package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "0,00", formatMoney(decimal.Zero))
	assert.Equal(t, "999,90", formatMoney(decimal.RequireFromString("999.9")))
	assert.Equal(t, "1.234.567,50", formatMoney(decimal.RequireFromString("1234567.5")))
	assert.Equal(t, "-25.000,00", formatMoney(decimal.NewFromInt(-25000)))
}

func TestLoanReceiptGenerator_Generate(t *testing.T) {
	returned := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	r := &repository.LoanReceipt{
		Loan: entity.LoanItem{
			ID: "5c1d7e9a-1111-4a2b-9c3d-000000000001", ReferenceNumber: "LOAN-20240501-ABC123",
			Quantity: 2, UnitPrice: decimal.NewFromInt(40), TotalAmount: decimal.NewFromInt(80),
			ExitDate: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), ReturnDate: &returned,
			Status: entity.LoanStatusReturned, Notes: "feria\nsin daños",
		},
		Product:  entity.Product{ID: "p1", SKU: "MTK-01", Name: "Matkap"},
		Customer: entity.Customer{ID: "c1", Name: "Ana Gómez"},
	}
	b, err := NewLoanReceiptGenerator("Ferretería").Generate(r)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("%PDF")))
}
