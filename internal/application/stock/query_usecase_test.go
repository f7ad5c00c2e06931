package stock_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
)

func seedLedger(t *testing.T, f *fixture) {
	t.Helper()
	ctx := context.Background()
	_, err := f.uc.StockIn(ctx, "u1", dto.StockInRequest{
		SupplierID:      "s1",
		ReferenceNumber: "FAC-1",
		Notes:           "compra mensual",
		Items: []dto.StockItemRequest{
			{ProductID: "p1", Quantity: 5, UnitPrice: price(3)},
			{ProductID: "p3", Quantity: 9, UnitPrice: price(1)},
		},
	})
	require.NoError(t, err)
	_, err = f.uc.StockOut(ctx, "u1", dto.StockOutRequest{
		CustomerID: "c1",
		Items:      []dto.StockItemRequest{{ProductID: "p2", Quantity: 1}},
	})
	require.NoError(t, err)
}

func TestListMovements_Filtros(t *testing.T) {
	f := newFixture(t)
	seedLedger(t, f)
	ctx := context.Background()

	all, err := f.query.ListMovements(ctx, dto.MovementQuery{})
	require.NoError(t, err)
	assert.Equal(t, 3, all.Page.Total)
	assert.Equal(t, dto.DefaultLimit, all.Page.Limit)
	assert.Equal(t, "out", all.Items[0].MovementType, "por defecto lo más reciente primero")

	ins, err := f.query.ListMovements(ctx, dto.MovementQuery{Type: "IN"})
	require.NoError(t, err)
	assert.Equal(t, 2, ins.Page.Total)

	byCustomer, err := f.query.ListMovements(ctx, dto.MovementQuery{CustomerID: "c1"})
	require.NoError(t, err)
	assert.Equal(t, 1, byCustomer.Page.Total)

	loans, err := f.query.ListMovements(ctx, dto.MovementQuery{IsLoan: "true"})
	require.NoError(t, err)
	assert.Zero(t, loans.Page.Total)
}

func TestListMovements_FiltrosInvalidosUsanDefaults(t *testing.T) {
	f := newFixture(t)
	seedLedger(t, f)

	res, err := f.query.ListMovements(context.Background(), dto.MovementQuery{
		PageRequest: dto.PageRequest{Limit: 5000, Offset: -3},
		Type:        "teleport",
		From:        "no-es-fecha",
		Sort:        "DROP TABLE",
		IsLoan:      "quizás",
	})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Page.Total)
	assert.Equal(t, dto.MaxLimit, res.Page.Limit)
	assert.Zero(t, res.Page.Offset)
}

func TestListMovements_OrdenYPaginacion(t *testing.T) {
	f := newFixture(t)
	seedLedger(t, f)

	res, err := f.query.ListMovements(context.Background(), dto.MovementQuery{
		PageRequest: dto.PageRequest{Limit: 2},
		Sort:        "quantity",
		Order:       "asc",
	})
	require.NoError(t, err)
	require.Len(t, res.Items, 2)
	assert.Equal(t, int64(1), res.Items[0].Quantity)
	assert.Equal(t, int64(5), res.Items[1].Quantity)
	assert.Equal(t, 3, res.Page.Total)
}

func TestListTransactions_BusquedaCubreTodaLaTransaccion(t *testing.T) {
	f := newFixture(t)
	seedLedger(t, f)

	res, err := f.query.ListTransactions(context.Background(), dto.TransactionQuery{Search: "  somun "})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "FAC-1", res.Items[0].ReferenceNumber)
	assert.Equal(t, 2, res.Items[0].ItemsCount, "los agregados incluyen líneas que no coinciden")
	assert.Equal(t, int64(14), res.Items[0].TotalQuantity)

	res, err = f.query.ListTransactions(context.Background(), dto.TransactionQuery{Search: "ayşe"})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "out", res.Items[0].MovementType)

	res, err = f.query.ListTransactions(context.Background(), dto.TransactionQuery{Type: "adjustment"})
	require.NoError(t, err)
	assert.Empty(t, res.Items)
}

func TestListTransactions_RangoDeFechas(t *testing.T) {
	f := newFixture(t)
	seedLedger(t, f)

	res, err := f.query.ListTransactions(context.Background(), dto.TransactionQuery{From: "2000-01-01", To: "2000-12-31"})
	require.NoError(t, err)
	assert.Empty(t, res.Items)

	res, err = f.query.ListTransactions(context.Background(), dto.TransactionQuery{From: "2000-01-01"})
	require.NoError(t, err)
	assert.Len(t, res.Items, 2)
}

func TestGetTransaction_ReferenciaRepetida(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first, err := f.uc.StockIn(ctx, "u1", dto.StockInRequest{
		ReferenceNumber: "DUP",
		Items:           []dto.StockItemRequest{{ProductID: "p1", Quantity: 1}},
	})
	require.NoError(t, err)
	second, err := f.uc.StockIn(ctx, "u1", dto.StockInRequest{
		ReferenceNumber: "DUP",
		Items: []dto.StockItemRequest{
			{ProductID: "p1", Quantity: 1},
			{ProductID: "p2", Quantity: 1},
		},
	})
	require.NoError(t, err)

	latest, err := f.query.GetTransaction(ctx, "DUP", "")
	require.NoError(t, err)
	assert.Equal(t, second.TransactionID, latest.TransactionID)
	assert.Len(t, latest.Items, 2)

	chosen, err := f.query.GetTransaction(ctx, "DUP", first.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, first.TransactionID, chosen.TransactionID)
	assert.Len(t, chosen.Items, 1)

	list, err := f.query.ListTransactions(ctx, dto.TransactionQuery{})
	require.NoError(t, err)
	assert.Len(t, list.Items, 2, "misma referencia, transacciones distintas")
}

func TestGetTransaction_NoEncontrada(t *testing.T) {
	f := newFixture(t)
	_, err := f.query.GetTransaction(context.Background(), "NOPE", "")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.query.GetMovement(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
