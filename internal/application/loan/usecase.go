// Package loan gestiona el ciclo de vida de los préstamos (emanet): active → returned.
package loan

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/ports"
	"github.com/jhoicas/stock-ledger/internal/application/stock"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	stockdomain "github.com/jhoicas/stock-ledger/internal/domain/stock"
	"github.com/jhoicas/stock-ledger/pkg/logger"
	"github.com/jhoicas/stock-ledger/pkg/textsearch"
)

// UseCase devoluciones, listados y comprobantes de préstamos.
type UseCase struct {
	txRunner ports.TxRunner
	loans    repository.LoanRepository
	pdf      ports.LoanReceiptPDFGenerator
	log      *logger.Logger
	now      func() time.Time
}

// NewUseCase construye el caso de uso. pdf puede ser nil si no se exponen comprobantes PDF.
func NewUseCase(
	txRunner ports.TxRunner,
	loans repository.LoanRepository,
	pdf ports.LoanReceiptPDFGenerator,
	log *logger.Logger,
) *UseCase {
	return &UseCase{txRunner: txRunner, loans: loans, pdf: pdf, log: log, now: time.Now}
}

// Return cierra un préstamo activo. En la misma transacción: bloquea la fila del préstamo,
// registra la entrada RETURN-<referencia> al precio original y devuelve la cantidad al stock.
func (uc *UseCase) Return(ctx context.Context, userID, loanID string, in dto.LoanReturnRequest) (*dto.LoanReturnResponse, error) {
	loanID = strings.TrimSpace(loanID)
	in.Notes = strings.TrimSpace(in.Notes)
	if loanID == "" {
		return nil, domain.NewValidationError("id", "es requerido")
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}

	now := uc.now().UTC().Truncate(time.Microsecond)
	returnDate := now
	if d, ok := dto.ParseDate(in.ReturnDate); ok {
		returnDate = d
	}
	txID := uuid.New().String()

	var (
		loan   *entity.LoanItem
		mov    *entity.MovementRecord
		change stockdomain.Change
	)
	err := uc.txRunner.Run(ctx, func(ctx context.Context, tx ports.TxRepos) error {
		var err error
		loan, err = tx.Loans.GetForUpdate(ctx, loanID)
		if err != nil {
			return err
		}
		if loan == nil {
			return domain.NewNotFound("loan", loanID)
		}
		if !loan.IsActive() {
			return domain.ErrLoanAlreadyReturned
		}

		acc := stockdomain.NewAccumulator(tx.Products)
		change, err = acc.ApplyDelta(ctx, loan.ProductID, loan.Quantity)
		if err != nil {
			return err
		}
		mov = &entity.MovementRecord{
			ID:              uuid.New().String(),
			TransactionID:   txID,
			ProductID:       loan.ProductID,
			Type:            entity.MovementTypeIn,
			Quantity:        loan.Quantity,
			UnitPrice:       loan.UnitPrice,
			TotalAmount:     loan.TotalAmount,
			PreviousStock:   change.Previous,
			NewStock:        change.New,
			ReferenceNumber: stock.ReturnReference(loan.ReferenceNumber),
			Notes:           in.Notes,
			UserID:          userID,
			CustomerID:      loan.CustomerID,
			IsLoan:          true,
			EntryDate:       &returnDate,
			CreatedAt:       now,
		}
		if err := tx.Movements.Create(ctx, mov); err != nil {
			return err
		}
		if !loan.MarkReturned(returnDate, in.Notes, mov.ID, now) {
			return domain.ErrLoanAlreadyReturned
		}
		return tx.Loans.MarkReturned(ctx, loan)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("loan_id", loan.ID).
		Str("transaction_id", txID).
		Str("reference_number", mov.ReferenceNumber).
		Int64("quantity", loan.Quantity).
		Str("user_id", userID).
		Msg("préstamo devuelto")

	return &dto.LoanReturnResponse{
		LoanID:           loan.ID,
		Status:           loan.Status,
		ReturnDate:       returnDate,
		ReturnMovementID: mov.ID,
		TransactionID:    txID,
		ReferenceNumber:  mov.ReferenceNumber,
		NewStock:         change.New,
	}, nil
}

// List préstamos paginados. Un status desconocido se ignora.
func (uc *UseCase) List(ctx context.Context, q dto.LoanQuery) (*dto.LoanListResponse, error) {
	q.DefaultPage()
	status := strings.ToLower(strings.TrimSpace(q.Status))
	if status != entity.LoanStatusActive && status != entity.LoanStatusReturned {
		status = ""
	}
	rows, total, err := uc.loans.List(ctx, repository.LoanFilter{
		Status:     status,
		CustomerID: strings.TrimSpace(q.CustomerID),
		ProductID:  strings.TrimSpace(q.ProductID),
		Search:     textsearch.Normalize(q.Search),
		Limit:      q.Limit,
		Offset:     q.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.LoanResponse, 0, len(rows))
	for i := range rows {
		items = append(items, toLoanResponse(&rows[i]))
	}
	return &dto.LoanListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset, Total: total},
	}, nil
}

func (uc *UseCase) receipt(ctx context.Context, loanID string) (*repository.LoanReceipt, error) {
	r, err := uc.loans.GetReceipt(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domain.NewNotFound("loan", loanID)
	}
	return r, nil
}

// Receipt comprobante del préstamo (proyección de solo lectura).
func (uc *UseCase) Receipt(ctx context.Context, loanID string) (*dto.LoanReceiptResponse, error) {
	r, err := uc.receipt(ctx, loanID)
	if err != nil {
		return nil, err
	}
	view := repository.LoanView{
		LoanItem:     r.Loan,
		ProductName:  r.Product.Name,
		ProductSKU:   r.Product.SKU,
		CustomerName: r.Customer.Name,
	}
	return &dto.LoanReceiptResponse{
		Loan:            toLoanResponse(&view),
		CustomerTaxID:   r.Customer.TaxID,
		CustomerPhone:   r.Customer.Phone,
		CustomerEmail:   r.Customer.Email,
		CustomerAddress: r.Customer.Address,
	}, nil
}

// ReceiptPDF comprobante en PDF; devuelve también la referencia para nombrar el archivo.
func (uc *UseCase) ReceiptPDF(ctx context.Context, loanID string) ([]byte, string, error) {
	if uc.pdf == nil {
		return nil, "", domain.NewValidationError("format", "PDF no disponible")
	}
	r, err := uc.receipt(ctx, loanID)
	if err != nil {
		return nil, "", err
	}
	b, err := uc.pdf.Generate(r)
	if err != nil {
		return nil, "", err
	}
	return b, r.Loan.ReferenceNumber, nil
}

func toLoanResponse(v *repository.LoanView) dto.LoanResponse {
	return dto.LoanResponse{
		ID:               v.ID,
		MovementID:       v.MovementID,
		ProductID:        v.ProductID,
		ProductName:      v.ProductName,
		ProductSKU:       v.ProductSKU,
		CustomerID:       v.CustomerID,
		CustomerName:     v.CustomerName,
		Quantity:         v.Quantity,
		UnitPrice:        v.UnitPrice,
		TotalAmount:      v.TotalAmount,
		ReferenceNumber:  v.ReferenceNumber,
		Notes:            v.Notes,
		Status:           v.Status,
		ExitDate:         v.ExitDate,
		ReturnDate:       v.ReturnDate,
		ReturnMovementID: v.ReturnMovementID,
		CreatedAt:        v.CreatedAt,
		UpdatedAt:        v.UpdatedAt,
	}
}
