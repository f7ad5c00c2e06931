package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Estados del préstamo (emanet).
const (
	LoanStatusActive   = "active"
	LoanStatusReturned = "returned" // terminal
)

// LoanItem mercadería entregada temporalmente a un cliente. Se crea junto con la salida
// que la origina y se muta una sola vez, al devolverse.
type LoanItem struct {
	ID               string
	MovementID       string // salida que originó el préstamo
	ProductID        string
	CustomerID       string
	Quantity         int64
	UnitPrice        decimal.Decimal
	TotalAmount      decimal.Decimal
	ReferenceNumber  string
	Notes            string
	ExitDate         time.Time
	ReturnDate       *time.Time
	Status           string
	ReturnMovementID string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsActive indica si el préstamo sigue pendiente de devolución.
func (l *LoanItem) IsActive() bool { return l.Status == LoanStatusActive }

// MarkReturned aplica la única transición permitida active → returned.
// Devuelve false si el préstamo ya no está activo; en ese caso no modifica nada.
func (l *LoanItem) MarkReturned(returnDate time.Time, notes, returnMovementID string, now time.Time) bool {
	if !l.IsActive() {
		return false
	}
	l.Status = LoanStatusReturned
	l.ReturnDate = &returnDate
	l.ReturnMovementID = returnMovementID
	if notes = strings.TrimSpace(notes); notes != "" {
		if l.Notes == "" {
			l.Notes = notes
		} else {
			l.Notes = l.Notes + "\n" + notes
		}
	}
	l.UpdatedAt = now
	return true
}
