// Package stock contiene los casos de uso que escriben en el ledger (entradas, salidas y
// ajustes) y las vistas de lectura sobre él.
package stock

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/ports"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	stockdomain "github.com/jhoicas/stock-ledger/internal/domain/stock"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// MovementUseCase único escritor de MovementRecords. Cada operación es una sola
// transacción: las filas del ledger y current_stock se confirman juntas o no se confirman.
type MovementUseCase struct {
	txRunner  ports.TxRunner
	suppliers repository.SupplierRepository
	customers repository.CustomerRepository
	log       *logger.Logger
	now       func() time.Time
}

// NewMovementUseCase construye el caso de uso.
func NewMovementUseCase(
	txRunner ports.TxRunner,
	suppliers repository.SupplierRepository,
	customers repository.CustomerRepository,
	log *logger.Logger,
) *MovementUseCase {
	return &MovementUseCase{
		txRunner:  txRunner,
		suppliers: suppliers,
		customers: customers,
		log:       log,
		now:       time.Now,
	}
}

// commitTime instante compartido por todas las filas de una transacción. Se trunca a
// microsegundos para que coincida con la precisión de timestamptz.
func commitTime(now func() time.Time) time.Time {
	return now().UTC().Truncate(time.Microsecond)
}

func dateOrNow(s string, now time.Time) time.Time {
	if t, ok := dto.ParseDate(s); ok {
		return t
	}
	return now
}

func productIDs(items []dto.StockItemRequest) []string {
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	return ids
}

func priceFor(item dto.StockItemRequest, p *entity.Product) decimal.Decimal {
	if item.UnitPrice != nil {
		return *item.UnitPrice
	}
	return p.UnitPrice
}

// StockIn registra una entrada de varios productos. Todas las líneas comparten
// transaction_id, reference_number y created_at.
func (uc *MovementUseCase) StockIn(ctx context.Context, userID string, in dto.StockInRequest) (*dto.StockInResponse, error) {
	in.ReferenceNumber = strings.TrimSpace(in.ReferenceNumber)
	in.SupplierID = strings.TrimSpace(in.SupplierID)
	in.Notes = strings.TrimSpace(in.Notes)
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if in.SupplierID != "" {
		supplier, err := uc.suppliers.GetByID(ctx, in.SupplierID)
		if err != nil {
			return nil, err
		}
		if supplier == nil {
			return nil, domain.NewNotFound("supplier", in.SupplierID)
		}
	}

	now := commitTime(uc.now)
	entryDate := dateOrNow(in.EntryDate, now)
	txID := uuid.New().String()
	ref := in.ReferenceNumber
	if ref == "" {
		ref = NewReference(PrefixIn, now)
	}

	movementIDs := make([]string, 0, len(in.Items))
	err := uc.txRunner.Run(ctx, func(ctx context.Context, tx ports.TxRepos) error {
		acc := stockdomain.NewAccumulator(tx.Products)
		if err := acc.Lock(ctx, productIDs(in.Items)...); err != nil {
			return err
		}
		for _, item := range in.Items {
			product, err := acc.Product(ctx, item.ProductID)
			if err != nil {
				return err
			}
			price := priceFor(item, product)
			change, err := acc.ApplyDelta(ctx, item.ProductID, item.Quantity)
			if err != nil {
				return err
			}
			mov := &entity.MovementRecord{
				ID:              uuid.New().String(),
				TransactionID:   txID,
				ProductID:       item.ProductID,
				Type:            entity.MovementTypeIn,
				Quantity:        item.Quantity,
				UnitPrice:       price,
				TotalAmount:     price.Mul(decimal.NewFromInt(item.Quantity)),
				PreviousStock:   change.Previous,
				NewStock:        change.New,
				ReferenceNumber: ref,
				Notes:           in.Notes,
				UserID:          userID,
				SupplierID:      in.SupplierID,
				EntryDate:       &entryDate,
				CreatedAt:       now,
			}
			if err := tx.Movements.Create(ctx, mov); err != nil {
				return err
			}
			movementIDs = append(movementIDs, mov.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("transaction_id", txID).
		Str("reference_number", ref).
		Int("items", len(movementIDs)).
		Str("user_id", userID).
		Msg("entrada de stock registrada")

	return &dto.StockInResponse{
		TransactionID:   txID,
		ReferenceNumber: ref,
		ItemsCount:      len(movementIDs),
		MovementIDs:     movementIDs,
	}, nil
}

// StockOut registra una salida. Antes de mutar nada verifica la demanda completa del lote
// contra las filas bloqueadas; si alguna línea no alcanza, no se escribe nada.
// Con IsLoan crea además un préstamo activo por línea.
func (uc *MovementUseCase) StockOut(ctx context.Context, userID string, in dto.StockOutRequest) (*dto.StockOutResponse, error) {
	in.ReferenceNumber = strings.TrimSpace(in.ReferenceNumber)
	in.CustomerID = strings.TrimSpace(in.CustomerID)
	in.Notes = strings.TrimSpace(in.Notes)
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	customer, err := uc.customers.GetByID(ctx, in.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.NewNotFound("customer", in.CustomerID)
	}

	now := commitTime(uc.now)
	exitDate := dateOrNow(in.ExitDate, now)
	txID := uuid.New().String()
	ref := in.ReferenceNumber
	if ref == "" {
		prefix := PrefixOut
		if in.IsLoan {
			prefix = PrefixLoan
		}
		ref = NewReference(prefix, now)
	}

	movementIDs := make([]string, 0, len(in.Items))
	var loanIDs []string
	err = uc.txRunner.Run(ctx, func(ctx context.Context, tx ports.TxRepos) error {
		acc := stockdomain.NewAccumulator(tx.Products)
		demand := make([]stockdomain.Demand, 0, len(in.Items))
		for _, item := range in.Items {
			demand = append(demand, stockdomain.Demand{ProductID: item.ProductID, Quantity: item.Quantity})
		}
		if err := acc.EnsureAvailable(ctx, demand); err != nil {
			return err
		}
		for _, item := range in.Items {
			product, err := acc.Product(ctx, item.ProductID)
			if err != nil {
				return err
			}
			price := priceFor(item, product)
			total := price.Mul(decimal.NewFromInt(item.Quantity))
			change, err := acc.ApplyDelta(ctx, item.ProductID, -item.Quantity)
			if err != nil {
				return err
			}
			mov := &entity.MovementRecord{
				ID:              uuid.New().String(),
				TransactionID:   txID,
				ProductID:       item.ProductID,
				Type:            entity.MovementTypeOut,
				Quantity:        item.Quantity,
				UnitPrice:       price,
				TotalAmount:     total,
				PreviousStock:   change.Previous,
				NewStock:        change.New,
				ReferenceNumber: ref,
				Notes:           in.Notes,
				UserID:          userID,
				CustomerID:      in.CustomerID,
				IsLoan:          in.IsLoan,
				ExitDate:        &exitDate,
				CreatedAt:       now,
			}
			if err := tx.Movements.Create(ctx, mov); err != nil {
				return err
			}
			movementIDs = append(movementIDs, mov.ID)

			if !in.IsLoan {
				continue
			}
			loan := &entity.LoanItem{
				ID:              uuid.New().String(),
				MovementID:      mov.ID,
				ProductID:       item.ProductID,
				CustomerID:      in.CustomerID,
				Quantity:        item.Quantity,
				UnitPrice:       price,
				TotalAmount:     total,
				ReferenceNumber: ref,
				Notes:           in.Notes,
				ExitDate:        exitDate,
				Status:          entity.LoanStatusActive,
				CreatedAt:       now,
				UpdatedAt:       now,
			}
			if err := tx.Loans.Create(ctx, loan); err != nil {
				return err
			}
			loanIDs = append(loanIDs, loan.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("transaction_id", txID).
		Str("reference_number", ref).
		Int("items", len(movementIDs)).
		Bool("is_loan", in.IsLoan).
		Str("user_id", userID).
		Msg("salida de stock registrada")

	return &dto.StockOutResponse{
		TransactionID:   txID,
		ReferenceNumber: ref,
		ItemsCount:      len(movementIDs),
		IsLoan:          in.IsLoan,
		MovementIDs:     movementIDs,
		LoanIDs:         loanIDs,
	}, nil
}

// Adjust fija el stock de un producto a un valor absoluto y registra la diferencia.
// quantity guarda la magnitud; el signo se recupera de previous_stock/new_stock.
func (uc *MovementUseCase) Adjust(ctx context.Context, userID string, in dto.AdjustmentRequest) (*dto.AdjustmentResponse, error) {
	in.ProductID = strings.TrimSpace(in.ProductID)
	in.Notes = strings.TrimSpace(in.Notes)
	if err := dto.Validate(in); err != nil {
		return nil, err
	}

	now := commitTime(uc.now)
	txID := uuid.New().String()
	var (
		mov    *entity.MovementRecord
		change stockdomain.Change
	)
	err := uc.txRunner.Run(ctx, func(ctx context.Context, tx ports.TxRepos) error {
		acc := stockdomain.NewAccumulator(tx.Products)
		product, err := acc.Product(ctx, in.ProductID)
		if err != nil {
			return err
		}
		change, err = acc.Set(ctx, in.ProductID, *in.NewQuantity)
		if err != nil {
			return err
		}
		magnitude := change.Delta()
		if magnitude < 0 {
			magnitude = -magnitude
		}
		mov = &entity.MovementRecord{
			ID:              uuid.New().String(),
			TransactionID:   txID,
			ProductID:       in.ProductID,
			Type:            entity.MovementTypeAdjustment,
			Quantity:        magnitude,
			UnitPrice:       product.UnitPrice,
			TotalAmount:     product.UnitPrice.Mul(decimal.NewFromInt(magnitude)),
			PreviousStock:   change.Previous,
			NewStock:        change.New,
			ReferenceNumber: NewReference(PrefixAdjustment, now),
			Notes:           in.Notes,
			UserID:          userID,
			CreatedAt:       now,
		}
		return tx.Movements.Create(ctx, mov)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("transaction_id", txID).
		Str("product_id", in.ProductID).
		Int64("previous_stock", change.Previous).
		Int64("new_stock", change.New).
		Str("user_id", userID).
		Msg("ajuste de stock registrado")

	return &dto.AdjustmentResponse{
		MovementID:         mov.ID,
		TransactionID:      txID,
		ProductID:          in.ProductID,
		PreviousStock:      change.Previous,
		NewStock:           change.New,
		AdjustmentQuantity: change.Delta(),
	}, nil
}
