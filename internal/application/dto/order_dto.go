package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItemRequest línea de un pedido de venta.
type OrderItemRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity" validate:"gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price" validate:"gte=0"`
}

// CreateOrderRequest body para POST /api/orders (pedido con reserva de stock).
type CreateOrderRequest struct {
	WarehouseID string             `json:"warehouse_id" validate:"required"`
	CustomerID  string             `json:"customer_id"`
	Items       []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// OrderResponse salida de un pedido.
type OrderResponse struct {
	ID          string          `json:"id"`
	CompanyID   string          `json:"company_id"`
	CustomerID  *string         `json:"customer_id,omitempty"`
	WarehouseID string          `json:"warehouse_id"`
	Channel     string          `json:"channel"`
	Status      string          `json:"status"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Total       decimal.Decimal `json:"total"`
	Items       []OrderItemDTO  `json:"items"`
	CreatedBy   string          `json:"created_by"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// OrderListResponse lista paginada de pedidos.
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
