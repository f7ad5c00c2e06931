package stock

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/pkg/textsearch"
)

// QueryUseCase lecturas del ledger y de la vista de transacciones. Los filtros inválidos
// no fallan: se ignoran o caen a su valor por defecto.
type QueryUseCase struct {
	movements    repository.MovementRepository
	transactions repository.TransactionRepository
}

// NewQueryUseCase construye el caso de uso.
func NewQueryUseCase(movements repository.MovementRepository, transactions repository.TransactionRepository) *QueryUseCase {
	return &QueryUseCase{movements: movements, transactions: transactions}
}

func sortField(s string) string {
	switch s {
	case repository.SortQuantity, repository.SortTotalAmount, repository.SortReference:
		return s
	}
	return repository.SortCreatedAt
}

func parseBool(s string) *bool {
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return &b
}

func movementType(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if entity.IsValidMovementType(s) {
		return s
	}
	return ""
}

// dateRange interpreta from/to; un "to" con formato YYYY-MM-DD incluye el día completo.
func dateRange(from, to string) (*time.Time, *time.Time) {
	var f, t *time.Time
	if d, ok := dto.ParseDate(from); ok {
		f = &d
	}
	if d, ok := dto.ParseDate(to); ok {
		if _, err := time.Parse(dto.DateLayout, strings.TrimSpace(to)); err == nil {
			d = d.AddDate(0, 0, 1)
		} else {
			d = d.Add(time.Microsecond)
		}
		t = &d
	}
	return f, t
}

// ListMovements filas crudas del ledger.
func (uc *QueryUseCase) ListMovements(ctx context.Context, q dto.MovementQuery) (*dto.MovementListResponse, error) {
	q.DefaultPage()
	from, to := dateRange(q.From, q.To)
	filter := repository.MovementFilter{
		Type:       movementType(q.Type),
		ProductID:  strings.TrimSpace(q.ProductID),
		CustomerID: strings.TrimSpace(q.CustomerID),
		SupplierID: strings.TrimSpace(q.SupplierID),
		IsLoan:     parseBool(q.IsLoan),
		From:       from,
		To:         to,
		Search:     textsearch.Normalize(q.Search),
		Sort:       sortField(q.Sort),
		Desc:       !strings.EqualFold(q.Order, "asc"),
		Limit:      q.Limit,
		Offset:     q.Offset,
	}
	rows, total, err := uc.movements.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(rows))
	for i := range rows {
		items = append(items, toMovementResponse(&rows[i]))
	}
	return &dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset, Total: total},
	}, nil
}

// GetMovement una fila del ledger por id.
func (uc *QueryUseCase) GetMovement(ctx context.Context, id string) (*dto.MovementResponse, error) {
	v, err := uc.movements.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, domain.NewNotFound("movement", id)
	}
	out := toMovementResponse(v)
	return &out, nil
}

// ListTransactions transacciones agrupadas por transaction_id, paginadas.
func (uc *QueryUseCase) ListTransactions(ctx context.Context, q dto.TransactionQuery) (*dto.TransactionListResponse, error) {
	q.DefaultPage()
	from, to := dateRange(q.From, q.To)
	filter := repository.TransactionFilter{
		Type:   movementType(q.Type),
		IsLoan: parseBool(q.IsLoan),
		From:   from,
		To:     to,
		Search: textsearch.Normalize(q.Search),
		Sort:   sortField(q.Sort),
		Desc:   !strings.EqualFold(q.Order, "asc"),
		Limit:  q.Limit,
		Offset: q.Offset,
	}
	rows, total, err := uc.transactions.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.TransactionResponse, 0, len(rows))
	for i := range rows {
		items = append(items, toTransactionResponse(&rows[i]))
	}
	return &dto.TransactionListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset, Total: total},
	}, nil
}

// GetTransaction cabecera y líneas de la transacción con ese número de referencia.
// Si varias comparten la referencia se devuelve la más reciente, salvo que transactionID
// indique cuál.
func (uc *QueryUseCase) GetTransaction(ctx context.Context, referenceNumber, transactionID string) (*dto.TransactionDetailResponse, error) {
	referenceNumber = strings.TrimSpace(referenceNumber)
	transactionID = strings.TrimSpace(transactionID)
	if referenceNumber == "" {
		return nil, domain.NewValidationError("reference_number", "es requerido")
	}
	summary, err := uc.transactions.FindByReference(ctx, referenceNumber, transactionID)
	if err != nil {
		return nil, err
	}
	if summary == nil {
		return nil, domain.NewNotFound("transaction", referenceNumber)
	}
	lines, err := uc.transactions.Lines(ctx, summary.TransactionID)
	if err != nil {
		return nil, err
	}
	out := &dto.TransactionDetailResponse{
		TransactionResponse: toTransactionResponse(summary),
		Items:               make([]dto.MovementResponse, 0, len(lines)),
	}
	for i := range lines {
		out.Items = append(out.Items, toMovementResponse(&lines[i]))
	}
	return out, nil
}
