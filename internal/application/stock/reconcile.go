package stock

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/ports"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// ReconcileUseCase re-ejecuta el ledger de un producto y lo compara con current_stock.
type ReconcileUseCase struct {
	txRunner ports.TxRunner
}

// NewReconcileUseCase construye el caso de uso.
func NewReconcileUseCase(txRunner ports.TxRunner) *ReconcileUseCase {
	return &ReconcileUseCase{txRunner: txRunner}
}

// Replay aplica el historial en orden sobre initial. Los ajustes fijan el valor absoluto
// registrado en new_stock.
func Replay(initial int64, history []entity.MovementRecord) dto.ReconciliationResponse {
	out := dto.ReconciliationResponse{InitialStock: initial, MovementCount: len(history)}
	current := initial
	for _, m := range history {
		switch m.Type {
		case entity.MovementTypeIn:
			out.TotalIn += m.Quantity
			current += m.Quantity
		case entity.MovementTypeOut:
			out.TotalOut += m.Quantity
			current -= m.Quantity
		case entity.MovementTypeAdjustment:
			out.AdjustmentNet += m.NewStock - current
			current = m.NewStock
		}
	}
	out.ReplayedStock = current
	return out
}

// Reconcile lectura sin efectos; Consistent=false indica que current_stock se escribió
// fuera del ledger. El producto se bloquea antes de leer su historial, así ninguna
// escritura concurrente queda a medias entre las dos lecturas.
func (uc *ReconcileUseCase) Reconcile(ctx context.Context, productID string) (*dto.ReconciliationResponse, error) {
	var (
		product *entity.Product
		history []entity.MovementRecord
	)
	err := uc.txRunner.Run(ctx, func(ctx context.Context, tx ports.TxRepos) error {
		var err error
		product, err = tx.Products.GetForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.NewNotFound("product", productID)
		}
		history, err = tx.Movements.ListByProduct(ctx, productID)
		return err
	})
	if err != nil {
		return nil, err
	}
	initial := product.CurrentStock
	if len(history) > 0 {
		initial = history[0].PreviousStock
	}
	out := Replay(initial, history)
	out.ProductID = productID
	out.CurrentStock = product.CurrentStock
	out.Consistent = out.ReplayedStock == product.CurrentStock
	return &out, nil
}
