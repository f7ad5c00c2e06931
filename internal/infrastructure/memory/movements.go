package memory

import (
	"cmp"
	"context"
	"slices"
	"sort"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// MovementRepo ledger en memoria; solo inserta.
type MovementRepo struct{ view }

// Create agrega la fila al final del ledger.
func (r *MovementRepo) Create(_ context.Context, m *entity.MovementRecord) error {
	defer r.write()()
	r.s.st.movements = append(r.s.st.movements, *m)
	return nil
}

// GetByID devuelve (nil, nil) si no existe.
func (r *MovementRepo) GetByID(_ context.Context, id string) (*repository.MovementView, error) {
	defer r.read()()
	for i := range r.s.st.movements {
		if r.s.st.movements[i].ID == id {
			v := r.s.st.movementView(r.s.st.movements[i])
			return &v, nil
		}
	}
	return nil, nil
}

// List filtra, ordena y pagina.
func (r *MovementRepo) List(_ context.Context, f repository.MovementFilter) ([]repository.MovementView, int, error) {
	defer r.read()()
	rows := make([]repository.MovementView, 0)
	for _, m := range r.s.st.movements {
		if !matchMovement(m, f) {
			continue
		}
		v := r.s.st.movementView(m)
		if f.Search != "" && !matchesSearch(v, f.Search) {
			continue
		}
		rows = append(rows, v)
	}
	sortMovements(rows, f.Sort, f.Desc)
	return paginate(rows, f.Limit, f.Offset), len(rows), nil
}

// ListByProduct historial del producto en orden de inserción.
func (r *MovementRepo) ListByProduct(_ context.Context, productID string) ([]entity.MovementRecord, error) {
	defer r.read()()
	var out []entity.MovementRecord
	for _, m := range r.s.st.movements {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out, nil
}

func matchMovement(m entity.MovementRecord, f repository.MovementFilter) bool {
	switch {
	case f.Type != "" && m.Type != f.Type,
		f.ProductID != "" && m.ProductID != f.ProductID,
		f.CustomerID != "" && m.CustomerID != f.CustomerID,
		f.SupplierID != "" && m.SupplierID != f.SupplierID,
		f.IsLoan != nil && m.IsLoan != *f.IsLoan,
		f.From != nil && m.CreatedAt.Before(*f.From),
		f.To != nil && !m.CreatedAt.Before(*f.To):
		return false
	}
	return true
}

func (st *state) movementView(m entity.MovementRecord) repository.MovementView {
	v := repository.MovementView{MovementRecord: m}
	if p, ok := st.products[m.ProductID]; ok {
		v.ProductName = p.Name
		v.ProductSKU = p.SKU
	}
	if sp, ok := st.suppliers[m.SupplierID]; ok {
		v.SupplierName = sp.Name
	}
	if c, ok := st.customers[m.CustomerID]; ok {
		v.CustomerName = c.Name
	}
	v.UserName = st.users[m.UserID]
	return v
}

// matchesSearch imita el ILIKE de Postgres sobre producto, SKU, referencia, notas, cliente y proveedor.
func matchesSearch(v repository.MovementView, term string) bool {
	return anyContains(term, v.ProductName, v.ProductSKU, v.ReferenceNumber, v.Notes, v.CustomerName, v.SupplierName)
}

// sortMovements orden estable; a igual clave desempata el orden de inserción
// (lo más reciente primero cuando desc).
func sortMovements(rows []repository.MovementView, field string, desc bool) {
	compare := func(a, b repository.MovementView) int {
		switch field {
		case repository.SortQuantity:
			return cmp.Compare(a.Quantity, b.Quantity)
		case repository.SortTotalAmount:
			return a.TotalAmount.Cmp(b.TotalAmount)
		case repository.SortReference:
			return cmp.Compare(a.ReferenceNumber, b.ReferenceNumber)
		}
		return a.CreatedAt.Compare(b.CreatedAt)
	}
	sortStable(rows, compare, desc)
}

func sortStable[T any](rows []T, compare func(a, b T) int, desc bool) {
	if desc {
		slices.Reverse(rows)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		c := compare(rows[i], rows[j])
		if desc {
			return c > 0
		}
		return c < 0
	})
}
