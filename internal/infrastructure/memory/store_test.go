package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jhoicas/Inventario-pos/internal/domain"
	"github.com/jhoicas/Inventario-pos/internal/domain/entity"
	"github.com/jhoicas/Inventario-pos/internal/domain/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTxRunner_RollbackRestoresState(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	now := time.Now()

	row := entity.NewStock("p1", "wh1", now)
	require.NoError(t, row.Receive(decimal.NewFromInt(5), now))
	require.NoError(t, s.Repos().Stock.Upsert(ctx, row))

	boom := errors.New("boom")
	err := NewTxRunner(s).Run(ctx, func(tx repository.Repos) error {
		st, err := tx.Stock.GetForUpdate(ctx, "p1", "wh1")
		require.NoError(t, err)
		require.NoError(t, st.Deduct(decimal.NewFromInt(5), now))
		require.NoError(t, tx.Stock.Upsert(ctx, st))
		require.NoError(t, tx.Movements.Create(ctx, &entity.StockMovement{ID: "m1", ProductID: "p1"}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := s.Repos().Stock.Get(ctx, "p1", "wh1")
	require.NoError(t, err)
	assert.True(t, got.AvailableQty.Equal(decimal.NewFromInt(5)))
	movs, err := s.Repos().Movements.ListByProduct(ctx, "p1", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, movs)
}

func TestTxRunner_CommitKeepsState(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	err := NewTxRunner(s).Run(ctx, func(tx repository.Repos) error {
		return tx.Warehouses.Create(ctx, &entity.Warehouse{ID: "w1", CompanyID: "c1", Name: "Centro", Active: true})
	})
	require.NoError(t, err)

	list, err := s.Repos().Warehouses.ListActive(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Centro", list[0].Name)
}

func TestTxRunner_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err := NewTxRunner(NewStore()).Run(ctx, func(repository.Repos) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestWarehouseRepo_ListActive(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repos()
	require.NoError(t, repos.Warehouses.Create(ctx, &entity.Warehouse{ID: "w1", CompanyID: "c1", Name: "Sur", Active: true}))
	require.NoError(t, repos.Warehouses.Create(ctx, &entity.Warehouse{ID: "w2", CompanyID: "c1", Name: "Norte", Active: false}))
	require.NoError(t, repos.Warehouses.Create(ctx, &entity.Warehouse{ID: "w3", CompanyID: "c1", Name: "Centro", Active: true}))
	require.NoError(t, repos.Warehouses.Create(ctx, &entity.Warehouse{ID: "w4", CompanyID: "c2", Name: "Otra", Active: true}))

	list, err := repos.Warehouses.ListActive(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Centro", list[0].Name)
	assert.Equal(t, "Sur", list[1].Name)
}

func TestStockRepo_ListByProductFIFO(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repos()
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repos.Stock.Upsert(ctx, entity.NewStock("p1", "wh-b", base.Add(time.Hour))))
	require.NoError(t, repos.Stock.Upsert(ctx, entity.NewStock("p1", "wh-a", base)))
	require.NoError(t, repos.Stock.Upsert(ctx, entity.NewStock("p2", "wh-a", base)))

	rows, err := repos.Stock.ListByProduct(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "wh-a", rows[0].WarehouseID)

	missing, err := repos.Stock.Get(ctx, "p9", "wh-a")
	require.NoError(t, err)
	assert.True(t, missing.Quantity.IsZero())
}

func TestStockRepo_MissingRowTakesFirstMutationDate(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repos()
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repos.Stock.Upsert(ctx, entity.NewStock("p1", "wh-a", base.Add(time.Hour))))

	row, err := repos.Stock.GetForUpdate(ctx, "p1", "wh-b")
	require.NoError(t, err)
	assert.True(t, row.Valid())
	assert.True(t, row.CreatedAt.IsZero())
	require.NoError(t, row.Receive(decimal.NewFromInt(4), base.Add(2*time.Hour)))
	require.NoError(t, repos.Stock.Upsert(ctx, row))

	stored, err := repos.Stock.Get(ctx, "p1", "wh-b")
	require.NoError(t, err)
	assert.Equal(t, base.Add(2*time.Hour), stored.CreatedAt)

	rows, err := repos.Stock.ListByProduct(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "wh-a", rows[0].WarehouseID)
	assert.Equal(t, "wh-b", rows[1].WarehouseID)
}

func TestUniqueConstraints(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repos()

	require.NoError(t, repos.Notifications.CreateResponse(ctx, &entity.BranchNotificationResponse{ID: "r1", NotificationID: "n1"}))
	assert.ErrorIs(t, repos.Notifications.CreateResponse(ctx, &entity.BranchNotificationResponse{ID: "r2", NotificationID: "n1"}), domain.ErrDuplicate)

	require.NoError(t, repos.Transfers.Create(ctx, &entity.BranchStockTransfer{ID: "t1", NotificationID: "n1"}))
	assert.ErrorIs(t, repos.Transfers.Create(ctx, &entity.BranchStockTransfer{ID: "t2", NotificationID: "n1"}), domain.ErrDuplicate)

	key := "idem-1"
	require.NoError(t, repos.Orders.Create(ctx, &entity.Order{ID: "o1", CompanyID: "c1", IdempotencyKey: &key}))
	assert.ErrorIs(t, repos.Orders.Create(ctx, &entity.Order{ID: "o2", CompanyID: "c1", IdempotencyKey: &key}), domain.ErrDuplicate)
	got, err := repos.Orders.GetByIdempotencyKey(ctx, "c1", key)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "o1", got.ID)
}
