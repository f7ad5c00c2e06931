package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo ledger sobre PostgreSQL (usable con pool o tx). Solo INSERT y SELECT.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementViewSelect = `
	SELECT m.id, m.transaction_id, m.product_id, m.movement_type, m.quantity, m.unit_price, m.total_amount,
	       m.previous_stock, m.new_stock, m.reference_number, m.notes, m.user_id, m.supplier_id, m.customer_id,
	       m.is_loan, m.entry_date, m.exit_date, m.created_at,
	       COALESCE(p.name, ''), COALESCE(p.sku, ''), COALESCE(s.name, ''), COALESCE(c.name, ''), COALESCE(u.name, '')
	FROM stock_movements m
	LEFT JOIN products p ON p.id = m.product_id
	LEFT JOIN suppliers s ON s.id = m.supplier_id
	LEFT JOIN customers c ON c.id = m.customer_id
	LEFT JOIN users u ON u.id = m.user_id`

// movementSearchColumns columnas donde busca el texto libre.
var movementSearchColumns = []string{"p.name", "p.sku", "m.reference_number", "m.notes", "c.name", "s.name"}

var movementSortColumns = map[string]string{
	repository.SortCreatedAt:   "m.created_at",
	repository.SortQuantity:    "m.quantity",
	repository.SortTotalAmount: "m.total_amount",
	repository.SortReference:   "m.reference_number",
}

// Create inserta una fila del ledger.
func (r *MovementRepo) Create(ctx context.Context, m *entity.MovementRecord) error {
	query := `
		INSERT INTO stock_movements (id, transaction_id, product_id, movement_type, quantity, unit_price, total_amount,
			previous_stock, new_stock, reference_number, notes, user_id, supplier_id, customer_id,
			is_loan, entry_date, exit_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	var userID *string
	if isUUID(m.UserID) {
		userID = &m.UserID
	}
	_, err := r.q.Exec(ctx, query,
		m.ID, m.TransactionID, m.ProductID, m.Type, m.Quantity, m.UnitPrice, m.TotalAmount,
		m.PreviousStock, m.NewStock, m.ReferenceNumber, m.Notes, userID, nullable(m.SupplierID), nullable(m.CustomerID),
		m.IsLoan, m.EntryDate, m.ExitDate, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

func scanMovementView(row pgx.Row) (*repository.MovementView, error) {
	var (
		v                              repository.MovementView
		userID, supplierID, customerID *string
	)
	err := row.Scan(
		&v.ID, &v.TransactionID, &v.ProductID, &v.Type, &v.Quantity, &v.UnitPrice, &v.TotalAmount,
		&v.PreviousStock, &v.NewStock, &v.ReferenceNumber, &v.Notes, &userID, &supplierID, &customerID,
		&v.IsLoan, &v.EntryDate, &v.ExitDate, &v.CreatedAt,
		&v.ProductName, &v.ProductSKU, &v.SupplierName, &v.CustomerName, &v.UserName,
	)
	if err != nil {
		return nil, err
	}
	v.UserID = deref(userID)
	v.SupplierID = deref(supplierID)
	v.CustomerID = deref(customerID)
	return &v, nil
}

func collectMovementViews(rows pgx.Rows) ([]repository.MovementView, error) {
	defer rows.Close()
	list := make([]repository.MovementView, 0)
	for rows.Next() {
		v, err := scanMovementView(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		list = append(list, *v)
	}
	return list, rows.Err()
}

// GetByID obtiene una fila con nombres desnormalizados; (nil, nil) si no existe.
func (r *MovementRepo) GetByID(ctx context.Context, id string) (*repository.MovementView, error) {
	if !isUUID(id) {
		return nil, nil
	}
	v, err := scanMovementView(r.q.QueryRow(ctx, movementViewSelect+` WHERE m.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock movement: %w", err)
	}
	return v, nil
}

// List filtra, ordena y pagina el ledger. Devuelve también el total sin paginar.
func (r *MovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]repository.MovementView, int, error) {
	for _, id := range []string{f.ProductID, f.CustomerID, f.SupplierID} {
		if id != "" && !isUUID(id) {
			return []repository.MovementView{}, 0, nil
		}
	}
	w := &where{}
	if f.Type != "" {
		w.add("m.movement_type = $%d", f.Type)
	}
	if f.ProductID != "" {
		w.add("m.product_id = $%d", f.ProductID)
	}
	if f.CustomerID != "" {
		w.add("m.customer_id = $%d", f.CustomerID)
	}
	if f.SupplierID != "" {
		w.add("m.supplier_id = $%d", f.SupplierID)
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
	w.addSearch(f.Search, movementSearchColumns...)

	var total int
	countQuery := `
		SELECT COUNT(*) FROM stock_movements m
		LEFT JOIN products p ON p.id = m.product_id
		LEFT JOIN suppliers s ON s.id = m.supplier_id
		LEFT JOIN customers c ON c.id = m.customer_id` + w.sql()
	if err := r.q.QueryRow(ctx, countQuery, w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count stock movements: %w", err)
	}

	dir := "ASC"
	if f.Desc {
		dir = "DESC"
	}
	query := movementViewSelect + w.sql() +
		" ORDER BY " + orderBy(f.Sort, f.Desc, movementSortColumns) + ", m.seq " + dir
	query += " LIMIT " + w.next(f.Limit) + " OFFSET " + w.next(f.Offset)

	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list stock movements: %w", err)
	}
	list, err := collectMovementViews(rows)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// ListByProduct historial completo del producto en orden de inserción.
func (r *MovementRepo) ListByProduct(ctx context.Context, productID string) ([]entity.MovementRecord, error) {
	if !isUUID(productID) {
		return nil, nil
	}
	rows, err := r.q.Query(ctx, movementViewSelect+` WHERE m.product_id = $1 ORDER BY m.seq`, productID)
	if err != nil {
		return nil, fmt.Errorf("list stock movements by product: %w", err)
	}
	views, err := collectMovementViews(rows)
	if err != nil {
		return nil, err
	}
	out := make([]entity.MovementRecord, 0, len(views))
	for _, v := range views {
		out = append(out, v.MovementRecord)
	}
	return out, nil
}
