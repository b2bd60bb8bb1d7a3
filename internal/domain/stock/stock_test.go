package stock

import (
	"testing"
	"time"

	"github.com/jhoicas/Inventario-pos/internal/domain"
	"github.com/jhoicas/Inventario-pos/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(wh string, avail int64, created time.Time) *entity.Stock {
	s := entity.NewStock("p1", wh, created)
	_ = s.Receive(decimal.NewFromInt(avail), created)
	return s
}

func TestAllocateFIFO_OldestFirst(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := []*entity.Stock{
		row("wh-b", 10, base.Add(2*time.Hour)),
		row("wh-a", 3, base),
		row("wh-c", 4, base.Add(time.Hour)),
	}

	allocs, err := AllocateFIFO("p1", rows, decimal.NewFromInt(9))
	require.NoError(t, err)
	require.Len(t, allocs, 3)
	assert.Equal(t, "wh-a", allocs[0].WarehouseID)
	assert.Equal(t, "wh-c", allocs[1].WarehouseID)
	assert.Equal(t, "wh-b", allocs[2].WarehouseID)
	assert.True(t, allocs[2].Quantity.Equal(decimal.NewFromInt(2)))

	sum := decimal.Zero
	for _, a := range allocs {
		sum = sum.Add(a.Quantity)
	}
	assert.True(t, sum.Equal(decimal.NewFromInt(9)))

	// las filas originales no se tocan
	assert.Equal(t, "wh-b", rows[0].WarehouseID)
	assert.True(t, rows[1].AvailableQty.Equal(decimal.NewFromInt(3)))
}

func TestAllocateFIFO_TieBreaksByWarehouse(t *testing.T) {
	ts := time.Now()
	rows := []*entity.Stock{row("wh-z", 5, ts), row("wh-m", 5, ts)}

	allocs, err := AllocateFIFO("p1", rows, decimal.NewFromInt(5))
	require.NoError(t, err)
	require.Len(t, allocs, 1)
	assert.Equal(t, "wh-m", allocs[0].WarehouseID)
}

func TestAllocateFIFO_SkipsEmptyRows(t *testing.T) {
	ts := time.Now()
	rows := []*entity.Stock{entity.NewStock("p1", "wh-a", ts), row("wh-b", 2, ts.Add(time.Second))}

	allocs, err := AllocateFIFO("p1", rows, decimal.NewFromInt(2))
	require.NoError(t, err)
	require.Len(t, allocs, 1)
	assert.Equal(t, "wh-b", allocs[0].WarehouseID)
}

func TestAllocateFIFO_Shortage(t *testing.T) {
	ts := time.Now()
	rows := []*entity.Stock{row("wh-a", 3, ts), row("wh-b", 1, ts)}

	allocs, err := AllocateFIFO("p1", rows, decimal.NewFromInt(5))
	assert.Nil(t, allocs)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	shortages := domain.Shortages(err)
	require.Len(t, shortages, 1)
	assert.True(t, shortages[0].Available.Equal(decimal.NewFromInt(4)))
	assert.True(t, shortages[0].Requested.Equal(decimal.NewFromInt(5)))
}

func TestAllocateFIFO_RejectsNonPositive(t *testing.T) {
	_, err := AllocateFIFO("p1", nil, decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUrgency(t *testing.T) {
	minStock := decimal.NewFromInt(5)
	reorder := decimal.NewFromInt(10)
	cases := []struct {
		projected int64
		want      string
	}{
		{-2, UrgencyCritical},
		{0, UrgencyHigh},
		{4, UrgencyHigh},
		{5, UrgencyMedium},
		{9, UrgencyMedium},
		{10, UrgencyNone},
	}
	for _, c := range cases {
		got := Urgency(decimal.NewFromInt(c.projected), minStock, reorder)
		assert.Equal(t, c.want, got, "projected=%d", c.projected)
	}
	assert.True(t, IsUrgent(UrgencyCritical))
	assert.True(t, IsUrgent(UrgencyHigh))
	assert.True(t, IsUrgent(UrgencyMedium))
	assert.False(t, IsUrgent(UrgencyNone))
	assert.Equal(t, 1, Priority(UrgencyCritical))
	assert.Equal(t, 2, Priority(UrgencyHigh))
	assert.Equal(t, 3, Priority(UrgencyNone))
}

func TestRankSuppliers(t *testing.T) {
	in := []Supplier{
		{WarehouseID: "1", WarehouseName: "Norte", AvailableQty: decimal.NewFromInt(3)},
		{WarehouseID: "2", WarehouseName: "Centro", AvailableQty: decimal.NewFromInt(1), Principal: true},
		{WarehouseID: "3", WarehouseName: "Sur", AvailableQty: decimal.NewFromInt(8)},
		{WarehouseID: "4", WarehouseName: "Este", AvailableQty: decimal.NewFromInt(8)},
	}
	out := RankSuppliers(in)
	ids := []string{out[0].WarehouseID, out[1].WarehouseID, out[2].WarehouseID, out[3].WarehouseID}
	assert.Equal(t, []string{"2", "4", "3", "1"}, ids)
	assert.Equal(t, "1", in[0].WarehouseID)
}
