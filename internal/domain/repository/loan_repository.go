package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// LoanRepository puerto de persistencia de préstamos (emanet).
type LoanRepository interface {
	Create(ctx context.Context, loan *entity.LoanItem) error
	// GetForUpdate bloquea la fila del préstamo dentro de la transacción; (nil, nil) si no existe.
	GetForUpdate(ctx context.Context, id string) (*entity.LoanItem, error)
	// MarkReturned persiste la transición active → returned. Devuelve domain.ErrLoanAlreadyReturned
	// si la fila ya no estaba activa.
	MarkReturned(ctx context.Context, loan *entity.LoanItem) error
	List(ctx context.Context, filter LoanFilter) ([]LoanView, int, error)
	// GetReceipt proyección para el comprobante; (nil, nil) si no existe.
	GetReceipt(ctx context.Context, id string) (*LoanReceipt, error)
}
