package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Inventario-pos/internal/domain"
	"github.com/jhoicas/Inventario-pos/internal/domain/entity"
	"github.com/jhoicas/Inventario-pos/internal/domain/repository"
)

var (
	_ repository.OrderRepository   = (*OrderRepo)(nil)
	_ repository.PaymentRepository = (*PaymentRepo)(nil)
)

const orderColumns = `id, company_id, customer_id, warehouse_id, channel, status, subtotal, total,
	idempotency_key, created_by, created_at, updated_at`

// OrderRepo pedidos, líneas y asignaciones de stock.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador de pedidos. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var o entity.Order
	err := row.Scan(&o.ID, &o.CompanyID, &o.CustomerID, &o.WarehouseID, &o.Channel, &o.Status,
		&o.Subtotal, &o.Total, &o.IdempotencyKey, &o.CreatedBy, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Create persiste el encabezado. Una llave de idempotencia repetida devuelve domain.ErrDuplicate.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		o.ID, o.CompanyID, o.CustomerID, o.WarehouseID, o.Channel, o.Status,
		o.Subtotal, o.Total, o.IdempotencyKey, o.CreatedBy, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *OrderRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Order, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

// GetByID obtiene un pedido por ID.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	return r.getOne(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
}

// GetForUpdate obtiene el pedido bloqueando la fila.
func (r *OrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.getOne(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id)
}

// GetByIdempotencyKey pedido creado con esa llave en la empresa.
func (r *OrderRepo) GetByIdempotencyKey(ctx context.Context, companyID, key string) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE company_id = $1 AND idempotency_key = $2`
	return r.getOne(ctx, query, companyID, key)
}

// UpdateStatus persiste estado y updated_at.
func (r *OrderRepo) UpdateStatus(ctx context.Context, o *entity.Order) error {
	_, err := r.q.Exec(ctx, `UPDATE orders SET status = $2, updated_at = $3 WHERE id = $1`, o.ID, o.Status, o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	return nil
}

// ListByCompany pedidos de la empresa, más recientes primero. status vacío no filtra.
func (r *OrderRepo) ListByCompany(ctx context.Context, companyID, status string, limit, offset int) ([]*entity.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE company_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC, id LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, companyID, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return collect(rows, scanOrder)
}

// CreateItem persiste una línea.
func (r *OrderRepo) CreateItem(ctx context.Context, item *entity.OrderItem) error {
	query := `
		INSERT INTO order_items (id, order_id, product_id, quantity, unit_price, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query, item.ID, item.OrderID, item.ProductID, item.Quantity, item.UnitPrice, item.Subtotal)
	if err != nil {
		return fmt.Errorf("insert order item: %w", err)
	}
	return nil
}

// ListItems líneas del pedido.
func (r *OrderRepo) ListItems(ctx context.Context, orderID string) ([]*entity.OrderItem, error) {
	query := `
		SELECT id, order_id, product_id, quantity, unit_price, subtotal
		FROM order_items WHERE order_id = $1 ORDER BY product_id, id`
	rows, err := r.q.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	return collect(rows, func(row pgx.Row) (*entity.OrderItem, error) {
		var it entity.OrderItem
		if err := row.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.UnitPrice, &it.Subtotal); err != nil {
			return nil, err
		}
		return &it, nil
	})
}

// CreateAllocation persiste la asignación de una línea a una bodega.
func (r *OrderRepo) CreateAllocation(ctx context.Context, a *entity.OrderAllocation) error {
	query := `
		INSERT INTO order_allocations (id, order_item_id, product_id, warehouse_id, quantity)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query, a.ID, a.OrderItemID, a.ProductID, a.WarehouseID, a.Quantity)
	if err != nil {
		return fmt.Errorf("insert order allocation: %w", err)
	}
	return nil
}

// ListAllocations asignaciones de todas las líneas del pedido.
func (r *OrderRepo) ListAllocations(ctx context.Context, orderID string) ([]*entity.OrderAllocation, error) {
	query := `
		SELECT a.id, a.order_item_id, a.product_id, a.warehouse_id, a.quantity
		FROM order_allocations a
		JOIN order_items i ON i.id = a.order_item_id
		WHERE i.order_id = $1
		ORDER BY a.product_id, a.warehouse_id, a.id`
	rows, err := r.q.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order allocations: %w", err)
	}
	return collect(rows, func(row pgx.Row) (*entity.OrderAllocation, error) {
		var a entity.OrderAllocation
		if err := row.Scan(&a.ID, &a.OrderItemID, &a.ProductID, &a.WarehouseID, &a.Quantity); err != nil {
			return nil, err
		}
		return &a, nil
	})
}

// PaymentRepo pagos de pedidos.
type PaymentRepo struct {
	q Querier
}

// NewPaymentRepository construye el adaptador de pagos.
func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

// Create persiste un pago.
func (r *PaymentRepo) Create(ctx context.Context, p *entity.Payment) error {
	query := `
		INSERT INTO payments (id, order_id, method, amount, tendered, change, reference, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query, p.ID, p.OrderID, p.Method, p.Amount, p.Tendered, p.Change, p.Reference, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

// ListByOrder pagos del pedido.
func (r *PaymentRepo) ListByOrder(ctx context.Context, orderID string) ([]*entity.Payment, error) {
	query := `
		SELECT id, order_id, method, amount, tendered, change, reference, created_at
		FROM payments WHERE order_id = $1 ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return collect(rows, func(row pgx.Row) (*entity.Payment, error) {
		var p entity.Payment
		if err := row.Scan(&p.ID, &p.OrderID, &p.Method, &p.Amount, &p.Tendered, &p.Change, &p.Reference, &p.CreatedAt); err != nil {
			return nil, err
		}
		return &p, nil
	})
}
