package memory

import (
	"cmp"
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// TransactionRepo agrupa el ledger por transaction_id en cada lectura.
type TransactionRepo struct{ view }

type group struct {
	summary repository.TransactionSummary
	lines   []repository.MovementView
}

// groups en orden de inserción de la primera fila de cada transacción.
func (st *state) groups() []*group {
	index := make(map[string]*group)
	var out []*group
	for _, m := range st.movements {
		g, ok := index[m.TransactionID]
		if !ok {
			v := st.movementView(m)
			g = &group{summary: repository.TransactionSummary{
				TransactionID:   m.TransactionID,
				ReferenceNumber: m.ReferenceNumber,
				Type:            m.Type,
				IsLoan:          m.IsLoan,
				TotalAmount:     decimal.Zero,
				SupplierID:      m.SupplierID,
				SupplierName:    v.SupplierName,
				CustomerID:      m.CustomerID,
				CustomerName:    v.CustomerName,
				UserID:          m.UserID,
				UserName:        v.UserName,
				Notes:           m.Notes,
				EntryDate:       m.EntryDate,
				ExitDate:        m.ExitDate,
				CreatedAt:       m.CreatedAt,
			}}
			index[m.TransactionID] = g
			out = append(out, g)
		}
		g.summary.ItemsCount++
		g.summary.TotalQuantity += m.Quantity
		g.summary.TotalAmount = g.summary.TotalAmount.Add(m.TotalAmount)
		g.lines = append(g.lines, st.movementView(m))
	}
	return out
}

func matchGroup(g *group, f repository.TransactionFilter) bool {
	s := g.summary
	switch {
	case f.Type != "" && s.Type != f.Type,
		f.IsLoan != nil && s.IsLoan != *f.IsLoan,
		f.From != nil && s.CreatedAt.Before(*f.From),
		f.To != nil && !s.CreatedAt.Before(*f.To):
		return false
	}
	if f.Search == "" {
		return true
	}
	for _, l := range g.lines {
		if matchesSearch(l, f.Search) {
			return true
		}
	}
	return false
}

// List una fila por transacción; los agregados cubren todas sus líneas aunque la
// búsqueda solo coincida con una.
func (r *TransactionRepo) List(_ context.Context, f repository.TransactionFilter) ([]repository.TransactionSummary, int, error) {
	defer r.read()()
	rows := make([]repository.TransactionSummary, 0)
	for _, g := range r.s.st.groups() {
		if matchGroup(g, f) {
			rows = append(rows, g.summary)
		}
	}
	sortStable(rows, func(a, b repository.TransactionSummary) int {
		switch f.Sort {
		case repository.SortQuantity:
			return cmp.Compare(a.TotalQuantity, b.TotalQuantity)
		case repository.SortTotalAmount:
			return a.TotalAmount.Cmp(b.TotalAmount)
		case repository.SortReference:
			return cmp.Compare(a.ReferenceNumber, b.ReferenceNumber)
		}
		return a.CreatedAt.Compare(b.CreatedAt)
	}, f.Desc)
	return paginate(rows, f.Limit, f.Offset), len(rows), nil
}

// FindByReference la más reciente con esa referencia (o la indicada por transactionID).
func (r *TransactionRepo) FindByReference(_ context.Context, ref, transactionID string) (*repository.TransactionSummary, error) {
	defer r.read()()
	var found *repository.TransactionSummary
	for _, g := range r.s.st.groups() {
		s := g.summary
		if s.ReferenceNumber != ref || (transactionID != "" && s.TransactionID != transactionID) {
			continue
		}
		if found == nil || !s.CreatedAt.Before(found.CreatedAt) {
			found = &s
		}
	}
	return found, nil
}

// Lines filas de la transacción en orden de inserción.
func (r *TransactionRepo) Lines(_ context.Context, transactionID string) ([]repository.MovementView, error) {
	defer r.read()()
	var out []repository.MovementView
	for _, m := range r.s.st.movements {
		if m.TransactionID == transactionID {
			out = append(out, r.s.st.movementView(m))
		}
	}
	return out, nil
}
