package memory

import (
	"context"
	"fmt"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/pkg/textsearch"
)

// LoanRepo préstamos en memoria.
type LoanRepo struct{ view }

func (r *LoanRepo) Create(_ context.Context, l *entity.LoanItem) error {
	defer r.write()()
	if _, ok := r.s.st.loans[l.ID]; ok {
		return fmt.Errorf("loan %s ya existe", l.ID)
	}
	r.s.st.loans[l.ID] = *l
	r.s.st.loanOrder = append(r.s.st.loanOrder, l.ID)
	return nil
}

// GetForUpdate devuelve una copia; la exclusión la da el mutex de Run.
func (r *LoanRepo) GetForUpdate(_ context.Context, id string) (*entity.LoanItem, error) {
	defer r.read()()
	l, ok := r.s.st.loans[id]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

// MarkReturned solo persiste si la fila almacenada sigue activa.
func (r *LoanRepo) MarkReturned(_ context.Context, l *entity.LoanItem) error {
	defer r.write()()
	stored, ok := r.s.st.loans[l.ID]
	if !ok {
		return domain.NewNotFound("loan", l.ID)
	}
	if !stored.IsActive() {
		return domain.ErrLoanAlreadyReturned
	}
	r.s.st.loans[l.ID] = *l
	return nil
}

func (st *state) loanView(l entity.LoanItem) repository.LoanView {
	v := repository.LoanView{LoanItem: l}
	if p, ok := st.products[l.ProductID]; ok {
		v.ProductName = p.Name
		v.ProductSKU = p.SKU
	}
	if c, ok := st.customers[l.CustomerID]; ok {
		v.CustomerName = c.Name
	}
	return v
}

// List más recientes primero.
func (r *LoanRepo) List(_ context.Context, f repository.LoanFilter) ([]repository.LoanView, int, error) {
	defer r.read()()
	rows := make([]repository.LoanView, 0)
	for i := len(r.s.st.loanOrder) - 1; i >= 0; i-- {
		l := r.s.st.loans[r.s.st.loanOrder[i]]
		if (f.Status != "" && l.Status != f.Status) ||
			(f.CustomerID != "" && l.CustomerID != f.CustomerID) ||
			(f.ProductID != "" && l.ProductID != f.ProductID) {
			continue
		}
		v := r.s.st.loanView(l)
		if f.Search != "" && !anyContains(f.Search, v.ProductName, v.ProductSKU, v.CustomerName, v.ReferenceNumber, v.Notes) {
			continue
		}
		rows = append(rows, v)
	}
	return paginate(rows, f.Limit, f.Offset), len(rows), nil
}

func anyContains(term string, fields ...string) bool {
	for _, f := range fields {
		if textsearch.Contains(f, term) {
			return true
		}
	}
	return false
}

// GetReceipt préstamo con snapshot de producto y cliente.
func (r *LoanRepo) GetReceipt(_ context.Context, id string) (*repository.LoanReceipt, error) {
	defer r.read()()
	l, ok := r.s.st.loans[id]
	if !ok {
		return nil, nil
	}
	out := &repository.LoanReceipt{
		Loan:     l,
		Product:  r.s.st.products[l.ProductID],
		Customer: r.s.st.customers[l.CustomerID],
	}
	if out.Customer.ID == "" {
		out.Customer.ID = l.CustomerID
	}
	if out.Product.ID == "" {
		out.Product.ID = l.ProductID
	}
	return out, nil
}
