package repository

import (
	"context"

	"github.com/jhoicas/Inventario-pos/internal/domain/entity"
)

// CashRegisterRepository cajas y su libro de movimientos.
type CashRegisterRepository interface {
	Create(ctx context.Context, register *entity.CashRegister) error
	GetByID(ctx context.Context, id string) (*entity.CashRegister, error)
	GetForUpdate(ctx context.Context, id string) (*entity.CashRegister, error)
	// Update persiste balance y desglose.
	Update(ctx context.Context, register *entity.CashRegister) error

	CreateTransaction(ctx context.Context, tx *entity.CashTransaction) error
	ListTransactions(ctx context.Context, registerID string, limit, offset int) ([]*entity.CashTransaction, error)
}
