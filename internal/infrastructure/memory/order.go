package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/Inventario-pos/internal/domain"
	"github.com/jhoicas/Inventario-pos/internal/domain/entity"
	"github.com/jhoicas/Inventario-pos/internal/domain/repository"
)

var (
	_ repository.OrderRepository   = (*OrderRepo)(nil)
	_ repository.PaymentRepository = (*PaymentRepo)(nil)
)

// OrderRepo pedidos, líneas y asignaciones en memoria.
type OrderRepo struct{ base }

func (r *OrderRepo) Create(_ context.Context, o *entity.Order) error {
	return r.write(func(d *data) error {
		if _, ok := d.orders[o.ID]; ok {
			return domain.ErrDuplicate
		}
		if o.IdempotencyKey != nil {
			for _, existing := range d.orders {
				if existing.IdempotencyKey != nil && existing.CompanyID == o.CompanyID && *existing.IdempotencyKey == *o.IdempotencyKey {
					return domain.ErrDuplicate
				}
			}
		}
		d.orders[o.ID] = *o
		return nil
	})
}

func (r *OrderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	var out *entity.Order
	r.read(func(d *data) {
		if o, ok := d.orders[id]; ok {
			out = &o
		}
	})
	return out, nil
}

func (r *OrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.GetByID(ctx, id)
}

func (r *OrderRepo) GetByIdempotencyKey(_ context.Context, companyID, key string) (*entity.Order, error) {
	var out *entity.Order
	r.read(func(d *data) {
		for _, o := range d.orders {
			if o.IdempotencyKey != nil && o.CompanyID == companyID && *o.IdempotencyKey == key {
				out = &o
				return
			}
		}
	})
	return out, nil
}

func (r *OrderRepo) UpdateStatus(_ context.Context, o *entity.Order) error {
	return r.write(func(d *data) error {
		cur, ok := d.orders[o.ID]
		if !ok {
			return domain.ErrNotFound
		}
		cur.Status = o.Status
		cur.UpdatedAt = o.UpdatedAt
		d.orders[o.ID] = cur
		return nil
	})
}

func (r *OrderRepo) ListByCompany(_ context.Context, companyID, status string, limit, offset int) ([]*entity.Order, error) {
	var list []*entity.Order
	r.read(func(d *data) {
		for _, o := range d.orders {
			if o.CompanyID != companyID || (status != "" && o.Status != status) {
				continue
			}
			list = append(list, &o)
		}
	})
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return paginate(list, limit, offset), nil
}

func (r *OrderRepo) CreateItem(_ context.Context, item *entity.OrderItem) error {
	return r.write(func(d *data) error {
		d.orderItems = append(d.orderItems, *item)
		return nil
	})
}

func (r *OrderRepo) ListItems(_ context.Context, orderID string) ([]*entity.OrderItem, error) {
	var list []*entity.OrderItem
	r.read(func(d *data) {
		for _, it := range d.orderItems {
			if it.OrderID == orderID {
				list = append(list, &it)
			}
		}
	})
	return list, nil
}

func (r *OrderRepo) CreateAllocation(_ context.Context, a *entity.OrderAllocation) error {
	return r.write(func(d *data) error {
		d.allocations = append(d.allocations, *a)
		return nil
	})
}

func (r *OrderRepo) ListAllocations(_ context.Context, orderID string) ([]*entity.OrderAllocation, error) {
	var list []*entity.OrderAllocation
	r.read(func(d *data) {
		items := make(map[string]bool)
		for _, it := range d.orderItems {
			if it.OrderID == orderID {
				items[it.ID] = true
			}
		}
		for _, a := range d.allocations {
			if items[a.OrderItemID] {
				list = append(list, &a)
			}
		}
	})
	return list, nil
}

// PaymentRepo pagos en memoria.
type PaymentRepo struct{ base }

func (r *PaymentRepo) Create(_ context.Context, p *entity.Payment) error {
	return r.write(func(d *data) error {
		d.payments = append(d.payments, *p)
		return nil
	})
}

func (r *PaymentRepo) ListByOrder(_ context.Context, orderID string) ([]*entity.Payment, error) {
	var list []*entity.Payment
	r.read(func(d *data) {
		for _, p := range d.payments {
			if p.OrderID == orderID {
				list = append(list, &p)
			}
		}
	})
	return list, nil
}
