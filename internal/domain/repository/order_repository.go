package repository

import (
	"context"

	"github.com/jhoicas/Inventario-pos/internal/domain/entity"
)

// OrderRepository persistencia de pedidos, sus líneas y asignaciones de stock.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Order, error)
	// GetByIdempotencyKey (nil, nil) si la llave no se ha usado.
	GetByIdempotencyKey(ctx context.Context, companyID, key string) (*entity.Order, error)
	UpdateStatus(ctx context.Context, order *entity.Order) error
	ListByCompany(ctx context.Context, companyID, status string, limit, offset int) ([]*entity.Order, error)

	CreateItem(ctx context.Context, item *entity.OrderItem) error
	ListItems(ctx context.Context, orderID string) ([]*entity.OrderItem, error)
	CreateAllocation(ctx context.Context, alloc *entity.OrderAllocation) error
	ListAllocations(ctx context.Context, orderID string) ([]*entity.OrderAllocation, error)
}

// PaymentRepository pagos de pedidos.
type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	ListByOrder(ctx context.Context, orderID string) ([]*entity.Payment, error)
}
