package entity

import (
	"fmt"
	"time"

	"github.com/jhoicas/Inventario-pos/internal/domain"
	"github.com/shopspring/decimal"
)

// Estados de pedido.
const (
	OrderStatusPendiente  = "PENDIENTE"
	OrderStatusProcesando = "PROCESANDO"
	OrderStatusEntregado  = "ENTREGADO"
	OrderStatusCancelado  = "CANCELADO"
)

// Canales de venta.
const (
	OrderChannelPOS   = "POS"
	OrderChannelSales = "SALES"
)

// Order pedido de venta. Las ventas POS nacen ENTREGADO; los pedidos SALES reservan stock.
type Order struct {
	ID             string
	CompanyID      string
	CustomerID     *string
	WarehouseID    string
	Channel        string
	Status         string
	Subtotal       decimal.Decimal
	Total          decimal.Decimal
	IdempotencyKey *string
	CreatedBy      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

var orderTransitions = map[string][]string{
	OrderStatusPendiente:  {OrderStatusProcesando, OrderStatusCancelado},
	OrderStatusProcesando: {OrderStatusEntregado, OrderStatusCancelado},
}

// MoveTo cambia el estado si la transición es válida. ENTREGADO y CANCELADO son finales.
func (o *Order) MoveTo(status string, now time.Time) error {
	for _, next := range orderTransitions[o.Status] {
		if next == status {
			o.Status = status
			o.UpdatedAt = now
			return nil
		}
	}
	return fmt.Errorf("%w: pedido %s -> %s", domain.ErrInvalidTransition, o.Status, status)
}

// OrderItem línea del pedido.
type OrderItem struct {
	ID        string
	OrderID   string
	ProductID string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}

// OrderAllocation fila de stock consumida o reservada por una línea.
type OrderAllocation struct {
	ID          string
	OrderItemID string
	ProductID   string
	WarehouseID string
	Quantity    decimal.Decimal
}
