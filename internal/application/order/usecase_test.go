package order

import (
	"context"
	"testing"
	"time"

	"github.com/jhoicas/Inventario-pos/internal/application/dto"
	"github.com/jhoicas/Inventario-pos/internal/domain"
	"github.com/jhoicas/Inventario-pos/internal/domain/entity"
	"github.com/jhoicas/Inventario-pos/internal/domain/repository"
	"github.com/jhoicas/Inventario-pos/internal/infrastructure/memory"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const company = "company-1"

func qty(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func setup(t *testing.T) (context.Context, repository.Repos, *UseCase) {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	repos := store.Repos()
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	for _, w := range []entity.Warehouse{
		{ID: "wh-a", Name: "Sucursal A", Active: true},
		{ID: "wh-b", Name: "Sucursal B", Active: true},
	} {
		w.CompanyID = company
		w.Type = entity.WarehouseTypeSucursal
		require.NoError(t, repos.Warehouses.Create(ctx, &w))
	}
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{
		ID: "p1", CompanyID: company, SKU: "SKU-1", Name: "Arroz 1kg", Price: qty(25),
	}))
	for wh, n := range map[string]int64{"wh-a": 3, "wh-b": 10} {
		at := now.Add(-time.Hour)
		if wh == "wh-b" {
			at = now.Add(-30 * time.Minute)
		}
		row := entity.NewStock("p1", wh, at)
		require.NoError(t, row.Receive(qty(n), at))
		require.NoError(t, repos.Stock.Upsert(ctx, row))
	}

	uc := NewUseCase(memory.NewTxRunner(store), repos, zerolog.Nop())
	uc.now = func() time.Time { return now }
	return ctx, repos, uc
}

func stockRow(t *testing.T, ctx context.Context, repos repository.Repos, wh string) *entity.Stock {
	t.Helper()
	row, err := repos.Stock.Get(ctx, "p1", wh)
	require.NoError(t, err)
	return row
}

func create(t *testing.T, ctx context.Context, uc *UseCase, n int64) *dto.OrderResponse {
	t.Helper()
	o, err := uc.Create(ctx, company, "vendedor", dto.CreateOrderRequest{
		WarehouseID: "wh-a",
		Items:       []dto.OrderItemRequest{{ProductID: "p1", Quantity: qty(n)}},
	})
	require.NoError(t, err)
	return o
}

func TestCreate_ReservesFIFO(t *testing.T) {
	ctx, repos, uc := setup(t)
	o := create(t, ctx, uc, 5)

	assert.Equal(t, entity.OrderStatusPendiente, o.Status)
	assert.Equal(t, entity.OrderChannelSales, o.Channel)
	assert.True(t, o.Total.Equal(qty(125)))
	require.Len(t, o.Items[0].Allocations, 2)

	a := stockRow(t, ctx, repos, "wh-a")
	assert.True(t, a.ReservedQty.Equal(qty(3)))
	assert.True(t, a.AvailableQty.IsZero())
	b := stockRow(t, ctx, repos, "wh-b")
	assert.True(t, b.ReservedQty.Equal(qty(2)))
	assert.True(t, b.Quantity.Equal(qty(10)))
}

func TestCreate_Shortage(t *testing.T) {
	ctx, repos, uc := setup(t)
	_, err := uc.Create(ctx, company, "vendedor", dto.CreateOrderRequest{
		WarehouseID: "wh-a",
		Items:       []dto.OrderItemRequest{{ProductID: "p1", Quantity: qty(14)}},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, stockRow(t, ctx, repos, "wh-b").ReservedQty.IsZero())
}

func TestDeliver_ConsumesReservation(t *testing.T) {
	ctx, repos, uc := setup(t)
	o := create(t, ctx, uc, 5)

	_, err := uc.Deliver(ctx, company, "bodeguero", o.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = uc.Process(ctx, company, o.ID)
	require.NoError(t, err)
	delivered, err := uc.Deliver(ctx, company, "bodeguero", o.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusEntregado, delivered.Status)

	b := stockRow(t, ctx, repos, "wh-b")
	assert.True(t, b.Quantity.Equal(qty(8)))
	assert.True(t, b.ReservedQty.IsZero())

	movs, err := repos.Movements.ListByReference(ctx, "ORDER:"+o.ID)
	require.NoError(t, err)
	require.Len(t, movs, 2)
	for _, m := range movs {
		assert.Equal(t, entity.MovementTypeOrderDelivery, m.Type)
	}

	_, err = uc.Cancel(ctx, company, o.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestCancel_ReleasesReservation(t *testing.T) {
	ctx, repos, uc := setup(t)
	o := create(t, ctx, uc, 5)

	cancelled, err := uc.Cancel(ctx, company, o.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusCancelado, cancelled.Status)
	assert.True(t, stockRow(t, ctx, repos, "wh-a").AvailableQty.Equal(qty(3)))
	assert.True(t, stockRow(t, ctx, repos, "wh-b").AvailableQty.Equal(qty(10)))

	movs, err := repos.Movements.ListByReference(ctx, "ORDER:"+o.ID)
	require.NoError(t, err)
	assert.Empty(t, movs)
}

func TestGetAndList(t *testing.T) {
	ctx, _, uc := setup(t)
	o := create(t, ctx, uc, 1)

	got, err := uc.Get(ctx, company, o.ID)
	require.NoError(t, err)
	assert.Len(t, got.Items, 1)

	_, err = uc.Get(ctx, "other", o.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := uc.List(ctx, company, entity.OrderStatusPendiente, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)
	assert.Equal(t, 20, list.Page.Limit)
}
