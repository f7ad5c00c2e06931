package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/ports"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

func TestRun_RollbackRestauraTodo(t *testing.T) {
	s := New()
	s.PutProduct(entity.Product{ID: "p1", CurrentStock: 5})
	boom := errors.New("boom")

	err := s.Run(context.Background(), func(ctx context.Context, tx ports.TxRepos) error {
		require.NoError(t, tx.Products.SetCurrentStock(ctx, "p1", 1))
		require.NoError(t, tx.Movements.Create(ctx, &entity.MovementRecord{ID: "m1", ProductID: "p1"}))
		require.NoError(t, tx.Loans.Create(ctx, &entity.LoanItem{ID: "l1", Status: entity.LoanStatusActive}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	p, _ := s.Products().GetByID(context.Background(), "p1")
	assert.Equal(t, int64(5), p.CurrentStock)
	m, _ := s.Movements().GetByID(context.Background(), "m1")
	assert.Nil(t, m)
	l, _ := s.Loans().GetForUpdate(context.Background(), "l1")
	assert.Nil(t, l)
}

func TestRun_ContextoCanceladoNoConfirma(t *testing.T) {
	s := New()
	s.PutProduct(entity.Product{ID: "p1", CurrentStock: 5})
	ctx, cancel := context.WithCancel(context.Background())

	err := s.Run(ctx, func(ctx context.Context, tx ports.TxRepos) error {
		cancel()
		return tx.Products.SetCurrentStock(ctx, "p1", 9)
	})
	assert.ErrorIs(t, err, context.Canceled)
	p, _ := s.Products().GetByID(context.Background(), "p1")
	assert.Equal(t, int64(5), p.CurrentStock)
}

func TestRun_PanicoRestauraYRelanza(t *testing.T) {
	s := New()
	s.PutProduct(entity.Product{ID: "p1", CurrentStock: 5})

	assert.PanicsWithValue(t, "boom", func() {
		_ = s.Run(context.Background(), func(ctx context.Context, tx ports.TxRepos) error {
			require.NoError(t, tx.Products.SetCurrentStock(ctx, "p1", 2))
			require.NoError(t, tx.Movements.Create(ctx, &entity.MovementRecord{ID: "m1", ProductID: "p1"}))
			panic("boom")
		})
	})

	p, _ := s.Products().GetByID(context.Background(), "p1")
	assert.Equal(t, int64(5), p.CurrentStock)
	m, _ := s.Movements().GetByID(context.Background(), "m1")
	assert.Nil(t, m)

	// el mutex quedó libre
	require.NoError(t, s.Run(context.Background(), func(ctx context.Context, tx ports.TxRepos) error {
		return tx.Products.SetCurrentStock(ctx, "p1", 6)
	}))
}

func TestProductRepo_DevuelveCopias(t *testing.T) {
	s := New()
	s.PutProduct(entity.Product{ID: "p1", CurrentStock: 5})
	p, err := s.Products().GetByID(context.Background(), "p1")
	require.NoError(t, err)
	p.CurrentStock = 100

	again, _ := s.Products().GetByID(context.Background(), "p1")
	assert.Equal(t, int64(5), again.CurrentStock)

	missing, err := s.Products().GetByID(context.Background(), "x")
	assert.NoError(t, err)
	assert.Nil(t, missing)
	assert.ErrorIs(t, s.Products().SetCurrentStock(context.Background(), "x", 1), domain.ErrNotFound)
}

func TestLoanRepo_MarkReturnedUnaVez(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.Loans().Create(ctx, &entity.LoanItem{ID: "l1", Status: entity.LoanStatusActive}))

	l, _ := s.Loans().GetForUpdate(ctx, "l1")
	require.True(t, l.MarkReturned(time.Now(), "", "m9", time.Now()))
	require.NoError(t, s.Loans().MarkReturned(ctx, l))
	assert.ErrorIs(t, s.Loans().MarkReturned(ctx, l), domain.ErrLoanAlreadyReturned)
}

func TestTransactionRepo_Agrega(t *testing.T) {
	s := New()
	s.PutProduct(entity.Product{ID: "p1", Name: "Matkap"})
	s.PutProduct(entity.Product{ID: "p2", Name: "Vida"})
	ctx := context.Background()
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	for i, pid := range []string{"p1", "p2", "p1"} {
		require.NoError(t, s.Movements().Create(ctx, &entity.MovementRecord{
			ID: string(rune('a' + i)), TransactionID: "t1", ProductID: pid, Type: entity.MovementTypeIn,
			Quantity: int64(i + 1), TotalAmount: decimal.NewFromInt(int64(10 * (i + 1))),
			ReferenceNumber: "R1", CreatedAt: at,
		}))
	}
	require.NoError(t, s.Movements().Create(ctx, &entity.MovementRecord{
		ID: "z", TransactionID: "t2", ProductID: "p2", Type: entity.MovementTypeOut,
		Quantity: 1, TotalAmount: decimal.NewFromInt(1), ReferenceNumber: "R2", CreatedAt: at.Add(time.Second),
	}))

	rows, total, err := s.Transactions().List(ctx, repository.TransactionFilter{Search: "matkap", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, 3, rows[0].ItemsCount)
	assert.Equal(t, int64(6), rows[0].TotalQuantity)
	assert.True(t, rows[0].TotalAmount.Equal(decimal.NewFromInt(60)))

	rows, total, err = s.Transactions().List(ctx, repository.TransactionFilter{Sort: repository.SortCreatedAt, Desc: true, Limit: 1, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, rows, 1)
	assert.Equal(t, "t1", rows[0].TransactionID)

	lines, err := s.Transactions().Lines(ctx, "t1")
	require.NoError(t, err)
	assert.Len(t, lines, 3)
	assert.Equal(t, "Matkap", lines[0].ProductName)
}
