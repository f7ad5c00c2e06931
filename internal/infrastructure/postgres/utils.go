package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/pkg/textsearch"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// isUUID las columnas id son UUID: un id mal formado no puede existir y se trata como
// "no encontrado" en vez de dejar que Postgres falle con 22P02.
func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// nullable convierte "" en NULL.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// where acumula condiciones con placeholders numerados.
type where struct {
	conds []string
	args  []any
}

func (w *where) add(cond string, arg any) {
	w.args = append(w.args, arg)
	w.conds = append(w.conds, fmt.Sprintf(cond, len(w.args)))
}

// addSearch agrega (col1 ILIKE $n OR col2 ILIKE $n ...) con el término ya normalizado.
func (w *where) addSearch(term string, columns ...string) {
	if term == "" {
		return
	}
	w.args = append(w.args, textsearch.LikePattern(term))
	w.conds = append(w.conds, "("+likeAny(len(w.args), columns)+")")
}

func likeAny(pos int, columns []string) string {
	parts := make([]string, 0, len(columns))
	for _, c := range columns {
		parts = append(parts, fmt.Sprintf("%s ILIKE $%d ESCAPE '\\'", c, pos))
	}
	return strings.Join(parts, " OR ")
}

func (w *where) sql() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// next placeholder libre ($n).
func (w *where) next(arg any) string {
	w.args = append(w.args, arg)
	return fmt.Sprintf("$%d", len(w.args))
}

// orderBy traduce el campo de orden permitido a SQL; el whitelist evita inyección.
func orderBy(sort string, desc bool, columns map[string]string) string {
	col, ok := columns[sort]
	if !ok {
		col = columns[repository.SortCreatedAt]
	}
	dir := "ASC"
	if desc {
		dir = "DESC"
	}
	return col + " " + dir
}
