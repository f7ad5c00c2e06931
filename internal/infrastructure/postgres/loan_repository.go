package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.LoanRepository = (*LoanRepo)(nil)

// LoanRepo préstamos sobre PostgreSQL (usable con pool o tx).
type LoanRepo struct {
	q Querier
}

// NewLoanRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLoanRepository(q Querier) *LoanRepo {
	return &LoanRepo{q: q}
}

const loanColumns = `l.id, l.movement_id, l.product_id, l.customer_id, l.quantity, l.unit_price, l.total_amount,
	l.reference_number, l.notes, l.exit_date, l.return_date, l.status, l.return_movement_id, l.created_at, l.updated_at`

func loanDest(l *entity.LoanItem, returnMovementID **string) []any {
	return []any{
		&l.ID, &l.MovementID, &l.ProductID, &l.CustomerID, &l.Quantity, &l.UnitPrice, &l.TotalAmount,
		&l.ReferenceNumber, &l.Notes, &l.ExitDate, &l.ReturnDate, &l.Status, returnMovementID, &l.CreatedAt, &l.UpdatedAt,
	}
}

// Create persiste un préstamo activo.
func (r *LoanRepo) Create(ctx context.Context, l *entity.LoanItem) error {
	query := `
		INSERT INTO loan_items (id, movement_id, product_id, customer_id, quantity, unit_price, total_amount,
			reference_number, notes, exit_date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		l.ID, l.MovementID, l.ProductID, l.CustomerID, l.Quantity, l.UnitPrice, l.TotalAmount,
		l.ReferenceNumber, l.Notes, l.ExitDate, l.Status, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert loan item %s: duplicado: %w", l.ID, err)
		}
		return fmt.Errorf("insert loan item: %w", err)
	}
	return nil
}

// GetForUpdate obtiene el préstamo y bloquea la fila (SELECT FOR UPDATE).
func (r *LoanRepo) GetForUpdate(ctx context.Context, id string) (*entity.LoanItem, error) {
	if !isUUID(id) {
		return nil, nil
	}
	var (
		l     entity.LoanItem
		retID *string
	)
	err := r.q.QueryRow(ctx, `SELECT `+loanColumns+` FROM loan_items l WHERE l.id = $1 FOR UPDATE`, id).
		Scan(loanDest(&l, &retID)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get loan item for update: %w", err)
	}
	l.ReturnMovementID = deref(retID)
	return &l, nil
}

// MarkReturned UPDATE condicionado a status='active'; 0 filas = ya devuelto.
func (r *LoanRepo) MarkReturned(ctx context.Context, l *entity.LoanItem) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE loan_items
		SET status = $2, return_date = $3, notes = $4, return_movement_id = $5, updated_at = $6
		WHERE id = $1 AND status = 'active'`,
		l.ID, l.Status, l.ReturnDate, l.Notes, nullable(l.ReturnMovementID), l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("mark loan returned: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrLoanAlreadyReturned
	}
	return nil
}

// List préstamos con nombres de producto y cliente, más recientes primero.
func (r *LoanRepo) List(ctx context.Context, f repository.LoanFilter) ([]repository.LoanView, int, error) {
	for _, id := range []string{f.CustomerID, f.ProductID} {
		if id != "" && !isUUID(id) {
			return []repository.LoanView{}, 0, nil
		}
	}
	w := &where{}
	if f.Status != "" {
		w.add("l.status = $%d", f.Status)
	}
	if f.CustomerID != "" {
		w.add("l.customer_id = $%d", f.CustomerID)
	}
	if f.ProductID != "" {
		w.add("l.product_id = $%d", f.ProductID)
	}
	w.addSearch(f.Search, "p.name", "p.sku", "c.name", "l.reference_number", "l.notes")

	from := `
		FROM loan_items l
		LEFT JOIN products p ON p.id = l.product_id
		LEFT JOIN customers c ON c.id = l.customer_id` + w.sql()

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*)`+from, w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count loan items: %w", err)
	}

	query := `SELECT ` + loanColumns + `, COALESCE(p.name, ''), COALESCE(p.sku, ''), COALESCE(c.name, '')` + from +
		" ORDER BY l.created_at DESC, l.id LIMIT " + w.next(f.Limit) + " OFFSET " + w.next(f.Offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list loan items: %w", err)
	}
	defer rows.Close()
	list := make([]repository.LoanView, 0)
	for rows.Next() {
		var (
			v     repository.LoanView
			retID *string
		)
		dest := append(loanDest(&v.LoanItem, &retID), &v.ProductName, &v.ProductSKU, &v.CustomerName)
		if err := rows.Scan(dest...); err != nil {
			return nil, 0, fmt.Errorf("scan loan item: %w", err)
		}
		v.ReturnMovementID = deref(retID)
		list = append(list, v)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// GetReceipt préstamo con el snapshot actual de producto y cliente; (nil, nil) si no existe.
func (r *LoanRepo) GetReceipt(ctx context.Context, id string) (*repository.LoanReceipt, error) {
	if !isUUID(id) {
		return nil, nil
	}
	var (
		rc    repository.LoanReceipt
		retID *string
	)
	query := `SELECT ` + loanColumns + `,
		p.id, p.sku, p.name, p.current_stock, p.min_stock_level, p.max_stock_level, p.unit_price, p.created_at, p.updated_at,
		c.id, c.name, c.tax_id, c.phone, c.email, c.address
		FROM loan_items l
		JOIN products p ON p.id = l.product_id
		JOIN customers c ON c.id = l.customer_id
		WHERE l.id = $1`
	p, c := &rc.Product, &rc.Customer
	dest := append(loanDest(&rc.Loan, &retID),
		&p.ID, &p.SKU, &p.Name, &p.CurrentStock, &p.MinStockLevel, &p.MaxStockLevel, &p.UnitPrice, &p.CreatedAt, &p.UpdatedAt,
		&c.ID, &c.Name, &c.TaxID, &c.Phone, &c.Email, &c.Address,
	)
	if err := r.q.QueryRow(ctx, query, id).Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get loan receipt: %w", err)
	}
	rc.Loan.ReturnMovementID = deref(retID)
	return &rc, nil
}
