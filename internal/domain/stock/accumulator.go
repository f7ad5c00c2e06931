// Package stock mantiene el stock materializado (current_stock) de cada producto
// consistente con el ledger. Un Accumulator vive lo que dura una unidad de trabajo.
package stock

import (
	"context"
	"sort"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// Change resultado de aplicar un movimiento al acumulador.
type Change struct {
	ProductID string
	Previous  int64
	New       int64
}

// Delta cambio con signo.
func (c Change) Delta() int64 { return c.New - c.Previous }

// Demand cantidad solicitada de un producto en una salida.
type Demand struct {
	ProductID string
	Quantity  int64
}

// NextStock aplica delta a current; si el resultado fuese negativo devuelve
// InsufficientStockError con la cantidad solicitada (|delta|). Una suma que desborda
// int64 es un error de validación sobre la cantidad.
func NextStock(productID string, current, delta int64) (int64, error) {
	next := current + delta
	if delta > 0 && next < current {
		return 0, domain.NewValidationError("quantity", "excede el stock máximo del producto "+productID)
	}
	if next < 0 {
		return 0, &domain.InsufficientStockError{
			ProductID:         productID,
			CurrentStock:      current,
			RequestedQuantity: -delta,
		}
	}
	return next, nil
}

// AdjustmentDelta delta = newQuantity - current; un delta cero es ErrNoOpAdjustment.
func AdjustmentDelta(current, newQuantity int64) (int64, error) {
	if newQuantity < 0 {
		return 0, domain.NewValidationError("new_quantity", "debe ser mayor o igual a 0")
	}
	delta := newQuantity - current
	if delta == 0 {
		return 0, domain.ErrNoOpAdjustment
	}
	return delta, nil
}

// Accumulator serializa las lecturas y escrituras de stock de una transacción:
// cada producto se bloquea (SELECT FOR UPDATE) antes de cualquier verificación
// y el snapshot bloqueado se reutiliza hasta el commit.
type Accumulator struct {
	repo   repository.ProductStockRepository
	locked map[string]*entity.Product
}

// NewAccumulator construye el acumulador sobre un repositorio atado a la transacción.
func NewAccumulator(repo repository.ProductStockRepository) *Accumulator {
	return &Accumulator{repo: repo, locked: make(map[string]*entity.Product)}
}

// Lock bloquea las filas de los productos en orden de id para evitar deadlocks
// entre transacciones concurrentes que tocan los mismos productos.
func (a *Accumulator) Lock(ctx context.Context, ids ...string) error {
	pending := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if _, ok := a.locked[id]; ok || seen[id] {
			continue
		}
		seen[id] = true
		pending = append(pending, id)
	}
	sort.Strings(pending)

	for _, id := range pending {
		p, err := a.repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.NewNotFound("product", id)
		}
		a.locked[id] = p
	}
	return nil
}

// Product devuelve el snapshot bloqueado del producto, bloqueándolo si aún no lo estaba.
func (a *Accumulator) Product(ctx context.Context, id string) (*entity.Product, error) {
	if err := a.Lock(ctx, id); err != nil {
		return nil, err
	}
	return a.locked[id], nil
}

// EnsureAvailable verifica toda la demanda antes de mutar nada. Las cantidades de un
// mismo producto repetido en el lote se suman.
func (a *Accumulator) EnsureAvailable(ctx context.Context, demand []Demand) error {
	totals := make(map[string]int64, len(demand))
	order := make([]string, 0, len(demand))
	for _, d := range demand {
		if _, ok := totals[d.ProductID]; !ok {
			order = append(order, d.ProductID)
		}
		totals[d.ProductID] += d.Quantity
	}
	if err := a.Lock(ctx, order...); err != nil {
		return err
	}
	for _, id := range order {
		p := a.locked[id]
		if _, err := NextStock(id, p.CurrentStock, -totals[id]); err != nil {
			return err
		}
	}
	return nil
}

// ApplyDelta suma delta (con signo) al stock y lo persiste. Nunca deja el stock negativo.
func (a *Accumulator) ApplyDelta(ctx context.Context, id string, delta int64) (Change, error) {
	p, err := a.Product(ctx, id)
	if err != nil {
		return Change{}, err
	}
	next, err := NextStock(id, p.CurrentStock, delta)
	if err != nil {
		return Change{}, err
	}
	return a.write(ctx, p, next)
}

// Set fija el stock a un valor absoluto (ajustes). No acumula deltas.
func (a *Accumulator) Set(ctx context.Context, id string, newQuantity int64) (Change, error) {
	p, err := a.Product(ctx, id)
	if err != nil {
		return Change{}, err
	}
	if _, err := AdjustmentDelta(p.CurrentStock, newQuantity); err != nil {
		return Change{}, err
	}
	return a.write(ctx, p, newQuantity)
}

func (a *Accumulator) write(ctx context.Context, p *entity.Product, value int64) (Change, error) {
	if err := a.repo.SetCurrentStock(ctx, p.ID, value); err != nil {
		return Change{}, err
	}
	change := Change{ProductID: p.ID, Previous: p.CurrentStock, New: value}
	p.CurrentStock = value
	return change, nil
}
