package stock

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// fakeProducts registra el orden de bloqueo y las escrituras.
type fakeProducts struct {
	stock   map[string]int64
	lockLog []string
	writes  int
	failSet error
}

func (f *fakeProducts) GetByID(_ context.Context, id string) (*entity.Product, error) {
	v, ok := f.stock[id]
	if !ok {
		return nil, nil
	}
	return &entity.Product{ID: id, CurrentStock: v}, nil
}

func (f *fakeProducts) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	f.lockLog = append(f.lockLog, id)
	return f.GetByID(ctx, id)
}

func (f *fakeProducts) SetCurrentStock(_ context.Context, id string, value int64) error {
	if f.failSet != nil {
		return f.failSet
	}
	f.writes++
	f.stock[id] = value
	return nil
}

func TestNextStock(t *testing.T) {
	next, err := NextStock("p", 10, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(15), next)

	_, err = NextStock("p", 15, -20)
	var ise *domain.InsufficientStockError
	require.True(t, errors.As(err, &ise))
	assert.Equal(t, int64(15), ise.CurrentStock)
	assert.Equal(t, int64(20), ise.RequestedQuantity)

	next, err = NextStock("p", 4, -4)
	require.NoError(t, err)
	assert.Zero(t, next)
}

func TestNextStock_DesbordeEsValidacion(t *testing.T) {
	_, err := NextStock("p", 10, math.MaxInt64)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.NotErrorIs(t, err, domain.ErrInsufficientStock)

	_, err = NextStock("p", math.MaxInt64, 1)
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "quantity", ve.Fields[0].Field)
}

func TestAdjustmentDelta(t *testing.T) {
	d, err := AdjustmentDelta(15, 12)
	require.NoError(t, err)
	assert.Equal(t, int64(-3), d)

	_, err = AdjustmentDelta(15, 15)
	assert.ErrorIs(t, err, domain.ErrNoOpAdjustment)

	_, err = AdjustmentDelta(15, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAccumulator_LockOrdenadoYSinRepetir(t *testing.T) {
	repo := &fakeProducts{stock: map[string]int64{"c": 1, "a": 1, "b": 1}}
	acc := NewAccumulator(repo)

	require.NoError(t, acc.Lock(context.Background(), "c", "a", "c", "b"))
	require.NoError(t, acc.Lock(context.Background(), "a"))
	assert.Equal(t, []string{"a", "b", "c"}, repo.lockLog)
}

func TestAccumulator_LockProductoInexistente(t *testing.T) {
	acc := NewAccumulator(&fakeProducts{stock: map[string]int64{}})
	err := acc.Lock(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAccumulator_EnsureAvailableSumaRepetidos(t *testing.T) {
	repo := &fakeProducts{stock: map[string]int64{"a": 10, "b": 3}}
	acc := NewAccumulator(repo)

	err := acc.EnsureAvailable(context.Background(), []Demand{
		{ProductID: "a", Quantity: 6},
		{ProductID: "b", Quantity: 1},
		{ProductID: "a", Quantity: 6},
	})
	var ise *domain.InsufficientStockError
	require.True(t, errors.As(err, &ise))
	assert.Equal(t, "a", ise.ProductID)
	assert.Equal(t, int64(12), ise.RequestedQuantity)
	assert.Zero(t, repo.writes, "la verificación no escribe")
}

func TestAccumulator_ApplyDeltaEncadenado(t *testing.T) {
	repo := &fakeProducts{stock: map[string]int64{"a": 10}}
	acc := NewAccumulator(repo)
	ctx := context.Background()

	c1, err := acc.ApplyDelta(ctx, "a", 5)
	require.NoError(t, err)
	assert.Equal(t, Change{ProductID: "a", Previous: 10, New: 15}, c1)

	c2, err := acc.ApplyDelta(ctx, "a", -15)
	require.NoError(t, err)
	assert.Equal(t, int64(-15), c2.Delta())
	assert.Equal(t, int64(0), repo.stock["a"])

	_, err = acc.ApplyDelta(ctx, "a", -1)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(0), repo.stock["a"])
	assert.Len(t, repo.lockLog, 1, "el producto se bloquea una sola vez por unidad de trabajo")
}

func TestAccumulator_SetAbsoluto(t *testing.T) {
	repo := &fakeProducts{stock: map[string]int64{"a": 15}}
	acc := NewAccumulator(repo)

	c, err := acc.Set(context.Background(), "a", 12)
	require.NoError(t, err)
	assert.Equal(t, int64(15), c.Previous)
	assert.Equal(t, int64(12), repo.stock["a"])

	_, err = acc.Set(context.Background(), "a", 12)
	assert.ErrorIs(t, err, domain.ErrNoOpAdjustment)
}

func TestAccumulator_ErrorDeEscrituraNoCambiaSnapshot(t *testing.T) {
	boom := errors.New("boom")
	repo := &fakeProducts{stock: map[string]int64{"a": 7}, failSet: boom}
	acc := NewAccumulator(repo)

	_, err := acc.ApplyDelta(context.Background(), "a", 1)
	assert.ErrorIs(t, err, boom)
	p, err := acc.Product(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, int64(7), p.CurrentStock)
}
