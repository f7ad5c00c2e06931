package ports

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// TxRepos repositorios atados a una misma transacción de BD.
type TxRepos struct {
	Movements repository.MovementRepository
	Products  repository.ProductStockRepository
	Loans     repository.LoanRepository
}

// TxRunner ejecuta fn dentro de una transacción: Commit si fn devuelve nil, Rollback en
// cualquier otro caso. Es la única vía para escribir en el ledger o en current_stock.
type TxRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context, tx TxRepos) error) error
}
