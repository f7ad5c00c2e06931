package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/pkg/textsearch"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

// TransactionRepo vista agrupada del ledger por transaction_id. Todas las filas de una
// transacción comparten tipo, is_loan, referencia y created_at, así que esos filtros se
// aplican antes de agrupar; la cabecera toma contraparte/notas de la primera fila (seq).
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository construye el adaptador.
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

var transactionSortColumns = map[string]string{
	repository.SortCreatedAt:   "g.created_at",
	repository.SortQuantity:    "g.total_quantity",
	repository.SortTotalAmount: "g.total_amount",
	repository.SortReference:   "f.reference_number",
}

// groupedQuery arma la consulta de cabeceras; inner filtra stock_movements m antes de agrupar.
func groupedQuery(inner string) string {
	return `
	WITH g AS (
		SELECT m.transaction_id,
		       MIN(m.seq) AS first_seq,
		       COUNT(*) AS items_count,
		       SUM(m.quantity)::bigint AS total_quantity,
		       SUM(m.total_amount) AS total_amount,
		       MIN(m.created_at) AS created_at
		FROM stock_movements m` + inner + `
		GROUP BY m.transaction_id
	)
	SELECT g.transaction_id, f.reference_number, f.movement_type, f.is_loan,
	       g.items_count, g.total_quantity, g.total_amount,
	       f.supplier_id, COALESCE(s.name, ''), f.customer_id, COALESCE(c.name, ''),
	       f.user_id, COALESCE(u.name, ''), f.notes, f.entry_date, f.exit_date, g.created_at
	FROM g
	JOIN stock_movements f ON f.seq = g.first_seq
	LEFT JOIN suppliers s ON s.id = f.supplier_id
	LEFT JOIN customers c ON c.id = f.customer_id
	LEFT JOIN users u ON u.id = f.user_id`
}

func scanSummary(row pgx.Row) (*repository.TransactionSummary, error) {
	var (
		s                              repository.TransactionSummary
		supplierID, customerID, userID *string
	)
	err := row.Scan(
		&s.TransactionID, &s.ReferenceNumber, &s.Type, &s.IsLoan,
		&s.ItemsCount, &s.TotalQuantity, &s.TotalAmount,
		&supplierID, &s.SupplierName, &customerID, &s.CustomerName,
		&userID, &s.UserName, &s.Notes, &s.EntryDate, &s.ExitDate, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.SupplierID = deref(supplierID)
	s.CustomerID = deref(customerID)
	s.UserID = deref(userID)
	return &s, nil
}

// List una fila por transacción. La búsqueda selecciona transacciones con alguna línea
// coincidente pero los agregados cubren todas sus líneas.
func (r *TransactionRepo) List(ctx context.Context, f repository.TransactionFilter) ([]repository.TransactionSummary, int, error) {
	w := &where{}
	if f.Type != "" {
		w.add("m.movement_type = $%d", f.Type)
	}
	if f.IsLoan != nil {
		w.add("m.is_loan = $%d", *f.IsLoan)
	}
	if f.From != nil {
		w.add("m.created_at >= $%d", *f.From)
	}
	if f.To != nil {
		w.add("m.created_at < $%d", *f.To)
	}
	if f.Search != "" {
		pos := len(w.args) + 1
		w.args = append(w.args, textsearch.LikePattern(f.Search))
		w.conds = append(w.conds, `m.transaction_id IN (
			SELECT sm.transaction_id FROM stock_movements sm
			LEFT JOIN products p ON p.id = sm.product_id
			LEFT JOIN suppliers s ON s.id = sm.supplier_id
			LEFT JOIN customers c ON c.id = sm.customer_id
			WHERE `+likeAny(pos, []string{"p.name", "p.sku", "sm.reference_number", "sm.notes", "c.name", "s.name"})+`)`)
	}
	base := groupedQuery(w.sql())

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM (`+base+`) t`, w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}

	dir := "ASC"
	if f.Desc {
		dir = "DESC"
	}
	query := base + " ORDER BY " + orderBy(f.Sort, f.Desc, transactionSortColumns) + ", g.first_seq " + dir +
		" LIMIT " + w.next(f.Limit) + " OFFSET " + w.next(f.Offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()
	list := make([]repository.TransactionSummary, 0)
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan transaction: %w", err)
		}
		list = append(list, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// FindByReference la transacción más reciente con esa referencia, o la indicada por transactionID.
func (r *TransactionRepo) FindByReference(ctx context.Context, ref, transactionID string) (*repository.TransactionSummary, error) {
	w := &where{}
	w.add("m.reference_number = $%d", ref)
	if transactionID != "" {
		if !isUUID(transactionID) {
			return nil, nil
		}
		w.add("m.transaction_id = $%d", transactionID)
	}
	query := groupedQuery(w.sql()) + " ORDER BY g.created_at DESC, g.first_seq DESC LIMIT 1"
	s, err := scanSummary(r.q.QueryRow(ctx, query, w.args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find transaction by reference: %w", err)
	}
	return s, nil
}

// Lines filas de la transacción en orden de inserción.
func (r *TransactionRepo) Lines(ctx context.Context, transactionID string) ([]repository.MovementView, error) {
	if !isUUID(transactionID) {
		return nil, nil
	}
	rows, err := r.q.Query(ctx, movementViewSelect+` WHERE m.transaction_id = $1 ORDER BY m.seq`, transactionID)
	if err != nil {
		return nil, fmt.Errorf("list transaction lines: %w", err)
	}
	return collectMovementViews(rows)
}
