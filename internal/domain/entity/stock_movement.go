package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento del ledger.
const (
	MovementTypeIn         = "in"         // entrada
	MovementTypeOut        = "out"        // salida (venta o préstamo)
	MovementTypeAdjustment = "adjustment" // ajuste a un valor absoluto
)

// IsValidMovementType indica si t es un tipo conocido.
func IsValidMovementType(t string) bool {
	switch t {
	case MovementTypeIn, MovementTypeOut, MovementTypeAdjustment:
		return true
	}
	return false
}

// MovementRecord fila inmutable del ledger de stock. Nunca se actualiza ni se borra:
// las correcciones son nuevos ajustes o devoluciones.
type MovementRecord struct {
	ID              string
	TransactionID   string // compartido por todas las filas de una misma unidad de trabajo
	ProductID       string
	Type            string
	Quantity        int64           // magnitud del cambio, siempre > 0
	UnitPrice       decimal.Decimal // precio al momento del registro
	TotalAmount     decimal.Decimal // Quantity × UnitPrice, congelado
	PreviousStock   int64
	NewStock        int64
	ReferenceNumber string
	Notes           string
	UserID          string // vacío = sin atribución
	SupplierID      string // entradas
	CustomerID      string // salidas y préstamos
	IsLoan          bool
	EntryDate       *time.Time
	ExitDate        *time.Time
	CreatedAt       time.Time
}

// Delta devuelve el cambio con signo aplicado al stock.
func (m *MovementRecord) Delta() int64 {
	return m.NewStock - m.PreviousStock
}
