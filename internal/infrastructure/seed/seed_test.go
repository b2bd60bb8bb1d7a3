package seed

import (
	"context"
	"testing"
	"time"

	"github.com/jhoicas/Inventario-pos/internal/infrastructure/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewStore().Repos()

	sum, err := Load(ctx, repos, "company-1", time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Len(t, sum.WarehouseIDs, 3)
	assert.Len(t, sum.ProductIDs, 4)

	active, err := repos.Warehouses.ListActive(ctx, "company-1")
	require.NoError(t, err)
	assert.Len(t, active, 3)

	rows, err := repos.Stock.ListByProduct(ctx, sum.ProductIDs["ARZ-1KG"])
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, sum.WarehouseIDs["Bodega Central"], rows[0].WarehouseID)
	for _, r := range rows {
		assert.True(t, r.Valid())
	}

	reg, err := repos.Registers.GetByID(ctx, sum.RegisterID)
	require.NoError(t, err)
	require.NotNil(t, reg)
	assert.True(t, reg.Balance.Equal(reg.Breakdown.TotalDecimal()))
	assert.True(t, reg.Balance.Equal(decimal.RequireFromString("1485")))
}
