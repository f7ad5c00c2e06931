package stock_test

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/stock"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

type fixture struct {
	store *memory.Store
	uc    *stock.MovementUseCase
	query *stock.QueryUseCase
	recon *stock.ReconcileUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := memory.New()
	s.PutProduct(entity.Product{ID: "p1", SKU: "MTK-01", Name: "Matkap", CurrentStock: 10, UnitPrice: decimal.NewFromInt(3)})
	s.PutProduct(entity.Product{ID: "p2", SKU: "VDA-02", Name: "Vida", CurrentStock: 4, UnitPrice: decimal.NewFromInt(2)})
	s.PutProduct(entity.Product{ID: "p3", SKU: "SMN-03", Name: "Somun", CurrentStock: 0, UnitPrice: decimal.NewFromInt(1)})
	s.PutSupplier(entity.Supplier{ID: "s1", Name: "Ferretería Central"})
	s.PutCustomer(entity.Customer{ID: "c1", Name: "Ayşe Yılmaz"})
	s.PutUser("u1", "Bodega Uno")
	return &fixture{
		store: s,
		uc:    stock.NewMovementUseCase(s, s.Suppliers(), s.Customers(), logger.Nop()),
		query: stock.NewQueryUseCase(s.Movements(), s.Transactions()),
		recon: stock.NewReconcileUseCase(s),
	}
}

func (f *fixture) stockOf(t *testing.T, id string) int64 {
	t.Helper()
	p, err := f.store.Products().GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.CurrentStock
}

func price(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func TestStockIn_SumaYCongelaTotal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.uc.StockIn(ctx, "u1", dto.StockInRequest{
		SupplierID: "s1",
		Items:      []dto.StockItemRequest{{ProductID: "p1", Quantity: 5, UnitPrice: price(3)}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(15), f.stockOf(t, "p1"))
	assert.Regexp(t, `^IN-\d{8}-[0-9A-F]{6}$`, res.ReferenceNumber)
	require.Len(t, res.MovementIDs, 1)

	mov, err := f.query.GetMovement(ctx, res.MovementIDs[0])
	require.NoError(t, err)
	assert.True(t, mov.TotalAmount.Equal(decimal.NewFromInt(15)))
	assert.Equal(t, int64(10), mov.PreviousStock)
	assert.Equal(t, int64(15), mov.NewStock)
	assert.Equal(t, "Ferretería Central", mov.SupplierName)
	assert.Equal(t, "Bodega Uno", mov.UserName)
}

func TestStockIn_PrecioPorDefectoDelProducto(t *testing.T) {
	f := newFixture(t)
	res, err := f.uc.StockIn(context.Background(), "u1", dto.StockInRequest{
		ReferenceNumber: "FAC-77",
		Items:           []dto.StockItemRequest{{ProductID: "p2", Quantity: 3}},
	})
	require.NoError(t, err)
	assert.Equal(t, "FAC-77", res.ReferenceNumber)

	mov, err := f.query.GetMovement(context.Background(), res.MovementIDs[0])
	require.NoError(t, err)
	assert.True(t, mov.UnitPrice.Equal(decimal.NewFromInt(2)))
	assert.True(t, mov.TotalAmount.Equal(decimal.NewFromInt(6)))
}

func TestStockIn_AgrupaEnUnaTransaccion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.uc.StockIn(ctx, "u1", dto.StockInRequest{
		SupplierID:      "s1",
		ReferenceNumber: "REF-3",
		Items: []dto.StockItemRequest{
			{ProductID: "p1", Quantity: 2, UnitPrice: price(3)},
			{ProductID: "p2", Quantity: 5, UnitPrice: price(2)},
			{ProductID: "p3", Quantity: 1, UnitPrice: price(10)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, res.ItemsCount)

	list, err := f.query.ListTransactions(ctx, dto.TransactionQuery{})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	tx := list.Items[0]
	assert.Equal(t, res.TransactionID, tx.TransactionID)
	assert.Equal(t, 3, tx.ItemsCount)
	assert.Equal(t, int64(8), tx.TotalQuantity)
	assert.True(t, tx.TotalAmount.Equal(decimal.NewFromInt(26)))
	assert.Equal(t, "Ferretería Central", tx.SupplierName)
	assert.Equal(t, 1, list.Page.Total)

	detail, err := f.query.GetTransaction(ctx, "REF-3", "")
	require.NoError(t, err)
	require.Len(t, detail.Items, 3)
	for _, line := range detail.Items {
		assert.Equal(t, detail.CreatedAt, line.CreatedAt)
	}
	assert.Equal(t, "p1", detail.Items[0].ProductID, "las líneas conservan el orden de entrada")
}

func TestStockIn_LoteAtomico(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.StockIn(context.Background(), "u1", dto.StockInRequest{
		Items: []dto.StockItemRequest{
			{ProductID: "p1", Quantity: 5},
			{ProductID: "ghost", Quantity: 1},
		},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, int64(10), f.stockOf(t, "p1"))

	list, err := f.query.ListMovements(context.Background(), dto.MovementQuery{})
	require.NoError(t, err)
	assert.Empty(t, list.Items)
}

func TestStockIn_ProveedorInexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.StockIn(context.Background(), "u1", dto.StockInRequest{
		SupplierID: "nope",
		Items:      []dto.StockItemRequest{{ProductID: "p1", Quantity: 1}},
	})
	var nf *domain.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "supplier", nf.Resource)
}

func TestStockIn_Validacion(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.StockIn(context.Background(), "u1", dto.StockInRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStockIn_CantidadEnormeEsValidacion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.StockIn(ctx, "u1", dto.StockInRequest{
		Items: []dto.StockItemRequest{{ProductID: "p1", Quantity: math.MaxInt64}},
	})
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve), "got %v", err)
	assert.Equal(t, "items[0].quantity", ve.Fields[0].Field)
	assert.NotErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(10), f.stockOf(t, "p1"))

	// stock cargado cerca del límite por el CRUD: la suma desbordaría
	f.store.PutProduct(entity.Product{ID: "p9", Name: "Tope", CurrentStock: math.MaxInt64 - 1, UnitPrice: decimal.NewFromInt(1)})
	_, err = f.uc.StockIn(ctx, "u1", dto.StockInRequest{
		Items: []dto.StockItemRequest{{ProductID: "p9", Quantity: 5}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.NotErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(math.MaxInt64-1), f.stockOf(t, "p9"))
}

func TestStockOut_StockInsuficienteNoEscribe(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.uc.StockIn(ctx, "u1", dto.StockInRequest{Items: []dto.StockItemRequest{{ProductID: "p1", Quantity: 5}}})
	require.NoError(t, err)

	_, err = f.uc.StockOut(ctx, "u1", dto.StockOutRequest{
		CustomerID: "c1",
		Items:      []dto.StockItemRequest{{ProductID: "p1", Quantity: 20}},
	})
	var ise *domain.InsufficientStockError
	require.True(t, errors.As(err, &ise))
	assert.Equal(t, int64(15), ise.CurrentStock)
	assert.Equal(t, int64(20), ise.RequestedQuantity)
	assert.Equal(t, int64(15), f.stockOf(t, "p1"))
}

func TestStockOut_PrevalidaTodoElLote(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.StockOut(context.Background(), "u1", dto.StockOutRequest{
		CustomerID: "c1",
		Items: []dto.StockItemRequest{
			{ProductID: "p1", Quantity: 3},
			{ProductID: "p2", Quantity: 5},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(10), f.stockOf(t, "p1"))
	assert.Equal(t, int64(4), f.stockOf(t, "p2"))
}

func TestStockOut_DemandaRepetidaSeAcumula(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.StockOut(context.Background(), "u1", dto.StockOutRequest{
		CustomerID: "c1",
		Items: []dto.StockItemRequest{
			{ProductID: "p2", Quantity: 3},
			{ProductID: "p2", Quantity: 3},
		},
	})
	var ise *domain.InsufficientStockError
	require.True(t, errors.As(err, &ise))
	assert.Equal(t, int64(6), ise.RequestedQuantity)
	assert.Equal(t, int64(4), f.stockOf(t, "p2"))
}

func TestStockOut_ClienteInexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.StockOut(context.Background(), "u1", dto.StockOutRequest{
		CustomerID: "nadie",
		Items:      []dto.StockItemRequest{{ProductID: "p1", Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStockOut_PrestamoCreaLoanItems(t *testing.T) {
	f := newFixture(t)
	res, err := f.uc.StockOut(context.Background(), "u1", dto.StockOutRequest{
		CustomerID: "c1",
		IsLoan:     true,
		ExitDate:   "2024-05-02",
		Items: []dto.StockItemRequest{
			{ProductID: "p1", Quantity: 2},
			{ProductID: "p2", Quantity: 1},
		},
	})
	require.NoError(t, err)
	assert.Regexp(t, `^LOAN-`, res.ReferenceNumber)
	assert.Len(t, res.LoanIDs, 2)
	assert.Equal(t, int64(8), f.stockOf(t, "p1"))

	loan, err := f.store.Loans().GetForUpdate(context.Background(), res.LoanIDs[0])
	require.NoError(t, err)
	assert.Equal(t, entity.LoanStatusActive, loan.Status)
	assert.Equal(t, res.MovementIDs[0], loan.MovementID)
	assert.Equal(t, res.ReferenceNumber, loan.ReferenceNumber)
	assert.Equal(t, 2024, loan.ExitDate.Year())
}

func TestStockOut_ConcurrenciaNuncaNegativo(t *testing.T) {
	f := newFixture(t)
	var (
		wg sync.WaitGroup
		mu sync.Mutex
		ok int
	)
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.uc.StockOut(context.Background(), "u1", dto.StockOutRequest{
				CustomerID: "c1",
				Items:      []dto.StockItemRequest{{ProductID: "p1", Quantity: 1}},
			})
			if err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 10, ok)
	assert.Equal(t, int64(0), f.stockOf(t, "p1"))
}

func TestAdjust_ValorAbsoluto(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.uc.StockIn(ctx, "u1", dto.StockInRequest{Items: []dto.StockItemRequest{{ProductID: "p1", Quantity: 5}}})
	require.NoError(t, err)

	twelve := int64(12)
	res, err := f.uc.Adjust(ctx, "u1", dto.AdjustmentRequest{ProductID: "p1", NewQuantity: &twelve, Notes: "conteo físico"})
	require.NoError(t, err)
	assert.Equal(t, int64(15), res.PreviousStock)
	assert.Equal(t, int64(12), res.NewStock)
	assert.Equal(t, int64(-3), res.AdjustmentQuantity)
	assert.Equal(t, int64(12), f.stockOf(t, "p1"))

	mov, err := f.query.GetMovement(ctx, res.MovementID)
	require.NoError(t, err)
	assert.Equal(t, entity.MovementTypeAdjustment, mov.MovementType)
	assert.Equal(t, int64(3), mov.Quantity)
	assert.True(t, mov.TotalAmount.Equal(decimal.NewFromInt(9)))

	_, err = f.uc.Adjust(ctx, "u1", dto.AdjustmentRequest{ProductID: "p1", NewQuantity: &twelve, Notes: "otra vez"})
	assert.ErrorIs(t, err, domain.ErrNoOpAdjustment)
}

func TestAdjust_NotasEnBlanco(t *testing.T) {
	f := newFixture(t)
	five := int64(5)
	_, err := f.uc.Adjust(context.Background(), "u1", dto.AdjustmentRequest{ProductID: "p1", NewQuantity: &five, Notes: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, int64(10), f.stockOf(t, "p1"))
}

func TestReconcile_ReplayIgualAlStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.uc.StockIn(ctx, "u1", dto.StockInRequest{Items: []dto.StockItemRequest{{ProductID: "p1", Quantity: 7}}})
	require.NoError(t, err)
	_, err = f.uc.StockOut(ctx, "u1", dto.StockOutRequest{CustomerID: "c1", Items: []dto.StockItemRequest{{ProductID: "p1", Quantity: 4}}})
	require.NoError(t, err)
	six := int64(6)
	_, err = f.uc.Adjust(ctx, "u1", dto.AdjustmentRequest{ProductID: "p1", NewQuantity: &six, Notes: "rotura"})
	require.NoError(t, err)

	rec, err := f.recon.Reconcile(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(10), rec.InitialStock)
	assert.Equal(t, int64(7), rec.TotalIn)
	assert.Equal(t, int64(4), rec.TotalOut)
	assert.Equal(t, int64(-7), rec.AdjustmentNet)
	assert.Equal(t, int64(6), rec.ReplayedStock)
	assert.True(t, rec.Consistent)
	assert.Equal(t, 3, rec.MovementCount)

	f.store.PutProduct(entity.Product{ID: "p1", CurrentStock: 99})
	rec, err = f.recon.Reconcile(ctx, "p1")
	require.NoError(t, err)
	assert.False(t, rec.Consistent)
}

func TestReconcile_ConsistenteConEscriturasConcurrentes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			_, err := f.uc.StockIn(ctx, "u1", dto.StockInRequest{Items: []dto.StockItemRequest{
				{ProductID: "p1", Quantity: 1},
				{ProductID: "p2", Quantity: 1},
			}})
			assert.NoError(t, err)
		}
	}()
	for i := 0; i < 50; i++ {
		rec, err := f.recon.Reconcile(ctx, "p1")
		require.NoError(t, err)
		assert.True(t, rec.Consistent, "replay %d vs current %d", rec.ReplayedStock, rec.CurrentStock)
	}
	wg.Wait()

	rec, err := f.recon.Reconcile(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(60), rec.CurrentStock)
	assert.True(t, rec.Consistent)
}

func TestReconcile_SinMovimientos(t *testing.T) {
	f := newFixture(t)
	rec, err := f.recon.Reconcile(context.Background(), "p2")
	require.NoError(t, err)
	assert.Equal(t, int64(4), rec.InitialStock)
	assert.True(t, rec.Consistent)

	_, err = f.recon.Reconcile(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
