package order

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Inventario-pos/internal/application/dto"
	"github.com/jhoicas/Inventario-pos/internal/domain"
	"github.com/jhoicas/Inventario-pos/internal/domain/entity"
	"github.com/jhoicas/Inventario-pos/internal/domain/repository"
	"github.com/jhoicas/Inventario-pos/internal/domain/stock"
	"github.com/jhoicas/Inventario-pos/pkg/validation"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// TxRunner ejecuta fn dentro de una transacción con repositorios atados a ella.
type TxRunner interface {
	Run(ctx context.Context, fn func(tx repository.Repos) error) error
}

// UseCase pedidos de venta que reservan stock hasta su entrega.
type UseCase struct {
	tx    TxRunner
	repos repository.Repos
	log   zerolog.Logger
	now   func() time.Time
}

func NewUseCase(tx TxRunner, repos repository.Repos, log zerolog.Logger) *UseCase {
	return &UseCase{tx: tx, repos: repos, log: log, now: time.Now}
}

// Create reserva stock FIFO entre las bodegas activas y deja el pedido PENDIENTE.
func (uc *UseCase) Create(ctx context.Context, companyID, userID string, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	var out dto.OrderResponse
	err := uc.tx.Run(ctx, func(tx repository.Repos) error {
		now := uc.now()
		wh, err := tx.Warehouses.GetByID(ctx, in.WarehouseID)
		if err != nil {
			return err
		}
		if wh == nil || wh.CompanyID != companyID {
			return fmt.Errorf("%w: bodega %s", domain.ErrNotFound, in.WarehouseID)
		}
		var customerID *string
		if in.CustomerID != "" {
			c, err := tx.Customers.GetByID(ctx, in.CustomerID)
			if err != nil {
				return err
			}
			if c == nil || c.CompanyID != companyID {
				return fmt.Errorf("%w: cliente %s", domain.ErrNotFound, in.CustomerID)
			}
			customerID = &c.ID
		}
		active, err := tx.Warehouses.ListActive(ctx, companyID)
		if err != nil {
			return err
		}
		activeIDs := make(map[string]bool, len(active))
		for _, w := range active {
			activeIDs[w.ID] = true
		}

		requested := make(map[string]decimal.Decimal)
		for _, it := range in.Items {
			requested[it.ProductID] = requested[it.ProductID].Add(it.Quantity)
		}
		productIDs := make([]string, 0, len(requested))
		for id := range requested {
			productIDs = append(productIDs, id)
		}
		sort.Strings(productIDs)

		prices := make(map[string]decimal.Decimal, len(productIDs))
		rows := make(map[string][]*entity.Stock, len(productIDs))
		var shortages []domain.Shortage
		for _, pid := range productIDs {
			p, err := tx.Products.GetByID(ctx, pid)
			if err != nil {
				return err
			}
			if p == nil || p.CompanyID != companyID {
				return fmt.Errorf("%w: producto %s", domain.ErrNotFound, pid)
			}
			prices[pid] = p.Price
			locked, err := tx.Stock.ListByProductForUpdate(ctx, pid)
			if err != nil {
				return err
			}
			var usable []*entity.Stock
			for _, r := range locked {
				if activeIDs[r.WarehouseID] {
					usable = append(usable, r)
				}
			}
			rows[pid] = usable
			if total := stock.TotalAvailable(usable); total.LessThan(requested[pid]) {
				shortages = append(shortages, domain.Shortage{ProductID: pid, Requested: requested[pid], Available: total})
			}
		}
		if len(shortages) > 0 {
			return &domain.StockShortageError{Shortages: shortages}
		}

		o := &entity.Order{
			ID:          uuid.New().String(),
			CompanyID:   companyID,
			CustomerID:  customerID,
			WarehouseID: in.WarehouseID,
			Channel:     entity.OrderChannelSales,
			Status:      entity.OrderStatusPendiente,
			Subtotal:    decimal.Zero,
			CreatedBy:   userID,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		items := make([]*entity.OrderItem, 0, len(in.Items))
		for _, it := range in.Items {
			price := it.UnitPrice
			if price.IsZero() {
				price = prices[it.ProductID]
			}
			sub := price.Mul(it.Quantity).Round(2)
			o.Subtotal = o.Subtotal.Add(sub)
			items = append(items, &entity.OrderItem{
				ID:        uuid.New().String(),
				OrderID:   o.ID,
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				UnitPrice: price,
				Subtotal:  sub,
			})
		}
		o.Total = o.Subtotal
		if err := tx.Orders.Create(ctx, o); err != nil {
			return err
		}

		var allocs []*entity.OrderAllocation
		dirty := make(map[*entity.Stock]bool)
		for _, item := range items {
			if err := tx.Orders.CreateItem(ctx, item); err != nil {
				return err
			}
			parts, err := stock.AllocateFIFO(item.ProductID, rows[item.ProductID], item.Quantity)
			if err != nil {
				return err
			}
			for _, part := range parts {
				row := rowFor(rows[item.ProductID], part.WarehouseID)
				if err := row.Reserve(part.Quantity, now); err != nil {
					return fmt.Errorf("reservar %s en %s: %w", item.ProductID, part.WarehouseID, err)
				}
				dirty[row] = true
				a := &entity.OrderAllocation{
					ID:          uuid.New().String(),
					OrderItemID: item.ID,
					ProductID:   item.ProductID,
					WarehouseID: part.WarehouseID,
					Quantity:    part.Quantity,
				}
				if err := tx.Orders.CreateAllocation(ctx, a); err != nil {
					return err
				}
				allocs = append(allocs, a)
			}
		}
		for _, pid := range productIDs {
			for _, r := range rows[pid] {
				if dirty[r] {
					if err := tx.Stock.Upsert(ctx, r); err != nil {
						return err
					}
				}
			}
		}
		out = Response(o, items, allocs)
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("order_id", out.ID).
		Str("company_id", companyID).
		Str("total", out.Total.String()).
		Msg("pedido creado con reserva")
	return &out, nil
}

// Process PENDIENTE -> PROCESANDO.
func (uc *UseCase) Process(ctx context.Context, companyID, id string) (*dto.OrderResponse, error) {
	return uc.transition(ctx, companyID, "", id, entity.OrderStatusProcesando)
}

// Deliver PROCESANDO -> ENTREGADO. Consume la reserva de cada asignación y registra ORDER_DELIVERY.
func (uc *UseCase) Deliver(ctx context.Context, companyID, userID, id string) (*dto.OrderResponse, error) {
	return uc.transition(ctx, companyID, userID, id, entity.OrderStatusEntregado)
}

// Cancel PENDIENTE/PROCESANDO -> CANCELADO. Libera la reserva.
func (uc *UseCase) Cancel(ctx context.Context, companyID, id string) (*dto.OrderResponse, error) {
	return uc.transition(ctx, companyID, "", id, entity.OrderStatusCancelado)
}

func (uc *UseCase) transition(ctx context.Context, companyID, userID, id, to string) (*dto.OrderResponse, error) {
	var out dto.OrderResponse
	err := uc.tx.Run(ctx, func(tx repository.Repos) error {
		now := uc.now()
		o, err := tx.Orders.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if o == nil || o.CompanyID != companyID {
			return domain.ErrNotFound
		}
		if o.Channel != entity.OrderChannelSales {
			return fmt.Errorf("%w: las ventas POS se entregan al cobrar", domain.ErrInvalidTransition)
		}
		if err := o.MoveTo(to, now); err != nil {
			return err
		}
		items, err := tx.Orders.ListItems(ctx, o.ID)
		if err != nil {
			return err
		}
		allocs, err := tx.Orders.ListAllocations(ctx, o.ID)
		if err != nil {
			return err
		}

		if to == entity.OrderStatusEntregado || to == entity.OrderStatusCancelado {
			if err := uc.settle(ctx, tx, o, userID, to, allocs, now); err != nil {
				return err
			}
		}
		if err := tx.Orders.UpdateStatus(ctx, o); err != nil {
			return err
		}
		out = Response(o, items, allocs)
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("order_id", id).Str("status", to).Msg("pedido actualizado")
	return &out, nil
}

// settle aplica la reserva de las asignaciones: la consume al entregar o la libera al cancelar.
func (uc *UseCase) settle(ctx context.Context, tx repository.Repos, o *entity.Order, userID, to string, allocs []*entity.OrderAllocation, now time.Time) error {
	sorted := append([]*entity.OrderAllocation(nil), allocs...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].ProductID != sorted[j].ProductID {
			return sorted[i].ProductID < sorted[j].ProductID
		}
		return sorted[i].WarehouseID < sorted[j].WarehouseID
	})
	ref := "ORDER:" + o.ID
	for _, a := range sorted {
		row, err := tx.Stock.GetForUpdate(ctx, a.ProductID, a.WarehouseID)
		if err != nil {
			return err
		}
		if to == entity.OrderStatusEntregado {
			err = row.ConsumeReserved(a.Quantity, now)
		} else {
			err = row.Release(a.Quantity, now)
		}
		if err != nil {
			return fmt.Errorf("pedido %s, producto %s en %s: %w", o.ID, a.ProductID, a.WarehouseID, err)
		}
		if err := tx.Stock.Upsert(ctx, row); err != nil {
			return err
		}
		if to != entity.OrderStatusEntregado {
			continue
		}
		if err := tx.Movements.Create(ctx, &entity.StockMovement{
			ID:          uuid.New().String(),
			CompanyID:   o.CompanyID,
			ProductID:   a.ProductID,
			WarehouseID: a.WarehouseID,
			Type:        entity.MovementTypeOrderDelivery,
			Quantity:    a.Quantity.Neg(),
			Reference:   ref,
			CreatedBy:   userID,
			CreatedAt:   now,
		}); err != nil {
			return err
		}
	}
	return nil
}

// Get obtiene un pedido de la empresa con sus líneas.
func (uc *UseCase) Get(ctx context.Context, companyID, id string) (*dto.OrderResponse, error) {
	o, err := uc.repos.Orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil || o.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	items, err := uc.repos.Orders.ListItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	allocs, err := uc.repos.Orders.ListAllocations(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	out := Response(o, items, allocs)
	return &out, nil
}

// List pedidos de la empresa, opcionalmente por estado. No incluye líneas.
func (uc *UseCase) List(ctx context.Context, companyID, status string, page dto.PageRequest) (*dto.OrderListResponse, error) {
	page.DefaultPage()
	list, err := uc.repos.Orders.ListByCompany(ctx, companyID, status, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		items = append(items, Response(o, nil, nil))
	}
	return &dto.OrderListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

func rowFor(rows []*entity.Stock, warehouseID string) *entity.Stock {
	for _, r := range rows {
		if r.WarehouseID == warehouseID {
			return r
		}
	}
	return nil
}
