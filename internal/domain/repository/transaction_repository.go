package repository

import (
	"context"
)

// TransactionRepository vista de solo lectura que agrupa el ledger por transaction_id.
type TransactionRepository interface {
	List(ctx context.Context, filter TransactionFilter) ([]TransactionSummary, int, error)
	// FindByReference devuelve la transacción más reciente con ese número de referencia;
	// si transactionID no es vacío, exige además ese id. (nil, nil) si no hay coincidencia.
	FindByReference(ctx context.Context, referenceNumber, transactionID string) (*TransactionSummary, error)
	Lines(ctx context.Context, transactionID string) ([]MovementView, error)
}
