package ports

import "github.com/jhoicas/stock-ledger/internal/domain/repository"

// LoanReceiptPDFGenerator puerto de salida para renderizar el comprobante de un préstamo.
// El adaptador actual usa maroto; la aplicación solo conoce este contrato.
type LoanReceiptPDFGenerator interface {
	Generate(receipt *repository.LoanReceipt) ([]byte, error)
}
