package cashregister

import (
	"context"
	"testing"
	"time"

	"github.com/jhoicas/Inventario-pos/internal/application/dto"
	"github.com/jhoicas/Inventario-pos/internal/domain"
	"github.com/jhoicas/Inventario-pos/internal/domain/cash"
	"github.com/jhoicas/Inventario-pos/internal/domain/entity"
	"github.com/jhoicas/Inventario-pos/internal/domain/repository"
	"github.com/jhoicas/Inventario-pos/internal/infrastructure/memory"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const company = "company-1"

func bd(t *testing.T, counts map[string]int64) cash.Breakdown {
	t.Helper()
	var b cash.Breakdown
	for name, n := range counts {
		i, ok := cash.Index(name)
		require.True(t, ok, name)
		b[i] = n
	}
	return b
}

func setup(t *testing.T) (context.Context, repository.Repos, *UseCase) {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	repos := store.Repos()
	drawer := bd(t, map[string]int64{"billete_100": 2, "moneda_10": 5})
	require.NoError(t, repos.Registers.Create(ctx, &entity.CashRegister{
		ID: "reg-1", CompanyID: company, UserID: "cajero", WarehouseID: "wh-a", Location: "Caja 1",
		Balance: drawer.TotalDecimal(), Breakdown: drawer,
	}))
	uc := NewUseCase(memory.NewTxRunner(store), repos, zerolog.Nop())
	now := time.Date(2024, 3, 1, 18, 0, 0, 0, time.UTC)
	uc.now = func() time.Time { return now }
	return ctx, repos, uc
}

func TestDepositAndWithdraw(t *testing.T) {
	ctx, _, uc := setup(t)

	out, err := uc.Deposit(ctx, company, "gerente", "reg-1", dto.CashMovementRequest{
		Breakdown: bd(t, map[string]int64{"billete_500": 1}),
		Reference: "fondo",
	})
	require.NoError(t, err)
	assert.True(t, out.Balance.Equal(decimal.NewFromInt(750)))
	assert.True(t, out.Total.Equal(decimal.NewFromInt(750)))

	out, err = uc.Withdraw(ctx, company, "gerente", "reg-1", dto.CashMovementRequest{
		Breakdown: bd(t, map[string]int64{"billete_100": 2}),
	})
	require.NoError(t, err)
	assert.True(t, out.Balance.Equal(decimal.NewFromInt(550)))

	txs, err := uc.Transactions(ctx, company, "reg-1", dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, txs.Items, 2)
}

func TestWithdraw_NeverNegative(t *testing.T) {
	ctx, repos, uc := setup(t)

	_, err := uc.Withdraw(ctx, company, "gerente", "reg-1", dto.CashMovementRequest{
		Breakdown: bd(t, map[string]int64{"billete_100": 3}),
	})
	require.ErrorIs(t, err, domain.ErrRegisterNegative)

	r, err := repos.Registers.GetByID(ctx, "reg-1")
	require.NoError(t, err)
	assert.Equal(t, bd(t, map[string]int64{"billete_100": 2, "moneda_10": 5}), r.Breakdown)
	txs, err := repos.Registers.ListTransactions(ctx, "reg-1", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestMove_RejectsInvalidBreakdowns(t *testing.T) {
	ctx, _, uc := setup(t)

	_, err := uc.Deposit(ctx, company, "gerente", "reg-1", dto.CashMovementRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Deposit(ctx, company, "gerente", "reg-1", dto.CashMovementRequest{
		Breakdown: bd(t, map[string]int64{"moneda_1": -1}),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	huge := bd(t, map[string]int64{"billete_1000": 184467440737096})
	_, err = uc.Deposit(ctx, company, "gerente", "reg-1", dto.CashMovementRequest{Breakdown: huge})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Reconcile(ctx, company, "gerente", "reg-1", dto.ReconcileRequest{Declared: huge})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Deposit(ctx, "other", "gerente", "reg-1", dto.CashMovementRequest{
		Breakdown: bd(t, map[string]int64{"moneda_1": 1}),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReconcile(t *testing.T) {
	ctx, repos, uc := setup(t)

	out, err := uc.Reconcile(ctx, company, "gerente", "reg-1", dto.ReconcileRequest{
		Declared: bd(t, map[string]int64{"billete_100": 2, "moneda_10": 4, "moneda_5": 1}),
		Notes:    "cierre turno",
	})
	require.NoError(t, err)
	assert.False(t, out.Balanced)
	assert.True(t, out.Expected.Equal(decimal.NewFromInt(250)))
	assert.True(t, out.Declared.Equal(decimal.NewFromInt(245)))
	assert.True(t, out.Difference.Equal(decimal.NewFromInt(-5)))
	assert.Equal(t, map[string]int64{"moneda_10": -1, "moneda_5": 1}, out.Denominations)

	r, err := repos.Registers.GetByID(ctx, "reg-1")
	require.NoError(t, err)
	assert.True(t, r.Balance.Equal(decimal.NewFromInt(245)))
	txs, err := repos.Registers.ListTransactions(ctx, "reg-1", 10, 0)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, entity.CashTxReconciliation, txs[0].Type)

	again, err := uc.Reconcile(ctx, company, "gerente", "reg-1", dto.ReconcileRequest{Declared: r.Breakdown})
	require.NoError(t, err)
	assert.True(t, again.Balanced)
	assert.True(t, again.Difference.IsZero())
}
