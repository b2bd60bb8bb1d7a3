package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/Inventario-pos/internal/application/branch"
	"github.com/jhoicas/Inventario-pos/internal/application/cashregister"
	"github.com/jhoicas/Inventario-pos/internal/application/inventory"
	"github.com/jhoicas/Inventario-pos/internal/application/order"
	"github.com/jhoicas/Inventario-pos/internal/application/pos"
	"github.com/jhoicas/Inventario-pos/internal/domain/repository"
)

var (
	_ pos.TxRunner          = (*TxRunner)(nil)
	_ branch.TxRunner       = (*TxRunner)(nil)
	_ order.TxRunner        = (*TxRunner)(nil)
	_ cashregister.TxRunner = (*TxRunner)(nil)
	_ inventory.TxRunner    = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(tx repository.Repos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewRepos(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// NewRepos arma todos los repositorios sobre un pool o una tx.
func NewRepos(q Querier) repository.Repos {
	return repository.Repos{
		Warehouses:    NewWarehouseRepository(q),
		Products:      NewProductRepository(q),
		Stock:         NewStockRepository(q),
		Movements:     NewStockMovementRepository(q),
		Customers:     NewCustomerRepository(q),
		Orders:        NewOrderRepository(q),
		Payments:      NewPaymentRepository(q),
		Registers:     NewCashRegisterRepository(q),
		Notifications: NewBranchNotificationRepository(q),
		Transfers:     NewBranchTransferRepository(q),
	}
}
