package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/jhoicas/Inventario-pos/internal/application/dto"
	"github.com/jhoicas/Inventario-pos/internal/domain"
	"github.com/jhoicas/Inventario-pos/internal/domain/entity"
	"github.com/jhoicas/Inventario-pos/internal/domain/repository"
	"github.com/jhoicas/Inventario-pos/internal/domain/stock"
	"github.com/jhoicas/Inventario-pos/internal/infrastructure/memory"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const company = "company-1"

func qty(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func setup(t *testing.T) (context.Context, repository.Repos, *RegisterMovementUseCase) {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	repos := store.Repos()
	require.NoError(t, repos.Warehouses.Create(ctx, &entity.Warehouse{
		ID: "wh-a", CompanyID: company, Name: "Sucursal A", Type: entity.WarehouseTypeSucursal, Active: true,
	}))
	for _, p := range []entity.Product{
		{ID: "p1", SKU: "SKU-1", Name: "Arroz", MinStock: qty(5), ReorderPoint: qty(10)},
		{ID: "p2", SKU: "SKU-2", Name: "Frijol", MinStock: qty(2), ReorderPoint: qty(4)},
		{ID: "p3", SKU: "SKU-3", Name: "Azúcar", MinStock: qty(1), ReorderPoint: qty(2)},
	} {
		p.CompanyID = company
		require.NoError(t, repos.Products.Create(ctx, &p))
	}
	uc := NewRegisterMovementUseCase(memory.NewTxRunner(store), repos, zerolog.Nop())
	uc.now = func() time.Time { return time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC) }
	return ctx, repos, uc
}

func TestRegisterMovement_AdjustInAndOut(t *testing.T) {
	ctx, repos, uc := setup(t)

	row, err := uc.RegisterMovementFromRequest(ctx, company, "u1", dto.AdjustStockRequest{
		ProductID: "p1", WarehouseID: "wh-a", Quantity: qty(12), Notes: "carga inicial",
	})
	require.NoError(t, err)
	assert.True(t, row.AvailableQty.Equal(qty(12)))

	_, err = uc.RegisterMovement(ctx, MovementInputDTO{
		CompanyID: company, UserID: "u1", ProductID: "p1", WarehouseID: "wh-a", Quantity: qty(-20),
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	require.Len(t, domain.Shortages(err), 1)

	row, err = uc.RegisterMovement(ctx, MovementInputDTO{
		CompanyID: company, UserID: "u1", ProductID: "p1", WarehouseID: "wh-a", Quantity: qty(-2),
	})
	require.NoError(t, err)
	assert.True(t, row.Quantity.Equal(qty(10)))

	movs, err := uc.Movements(ctx, company, "p1", dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, movs.Items, 2)

	st, err := uc.ProductStock(ctx, company, "p1")
	require.NoError(t, err)
	require.Len(t, st.Warehouses, 1)
	assert.Equal(t, "Sucursal A", st.Warehouses[0].WarehouseName)
	assert.True(t, st.TotalAvailable.Equal(qty(10)))

	stored, err := repos.Stock.Get(ctx, "p1", "wh-a")
	require.NoError(t, err)
	assert.True(t, stored.Valid())
}

func TestRegisterMovement_Validation(t *testing.T) {
	ctx, _, uc := setup(t)

	_, err := uc.RegisterMovement(ctx, MovementInputDTO{
		CompanyID: company, ProductID: "p1", WarehouseID: "wh-a", Type: entity.MovementTypeReturn, Quantity: qty(-1),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.RegisterMovement(ctx, MovementInputDTO{
		CompanyID: company, ProductID: "p1", WarehouseID: "wh-a", Type: entity.MovementTypeSale, Quantity: qty(1),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.RegisterMovement(ctx, MovementInputDTO{
		CompanyID: "other", ProductID: "p1", WarehouseID: "wh-a", Quantity: qty(1),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.ProductStock(ctx, "other", "p1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReplenishment_OrdersByUrgency(t *testing.T) {
	ctx, repos, uc := setup(t)
	for pid, n := range map[string]int64{"p1": 7, "p2": 1, "p3": 5} {
		_, err := uc.RegisterMovement(ctx, MovementInputDTO{
			CompanyID: company, UserID: "u1", ProductID: pid, WarehouseID: "wh-a", Quantity: qty(n),
		})
		require.NoError(t, err)
	}

	list, err := NewReplenishmentUseCase(repos).GenerateReplenishmentList(ctx, company, "wh-a")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "p2", list[0].ProductID)
	assert.Equal(t, stock.UrgencyHigh, list[0].Urgency)
	assert.True(t, list[0].SuggestedOrderQty.Equal(qty(5)))
	assert.Equal(t, "p1", list[1].ProductID)
	assert.Equal(t, stock.UrgencyMedium, list[1].Urgency)

	_, err = NewReplenishmentUseCase(repos).GenerateReplenishmentList(ctx, "other", "wh-a")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
