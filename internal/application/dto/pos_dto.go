package dto

import (
	"github.com/jhoicas/Inventario-pos/internal/domain/cash"
	"github.com/shopspring/decimal"
)

// CheckoutItem línea del carrito. UnitPrice en cero toma el precio del producto.
type CheckoutItem struct {
	ProductID string          `json:"product_id" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity" validate:"gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price" validate:"gte=0"`
}

// CheckoutClient datos opcionales del cliente; se crea o actualiza por TaxID.
type CheckoutClient struct {
	Name  string `json:"name" validate:"max=200"`
	TaxID string `json:"tax_id" validate:"max=50"`
	Email string `json:"email" validate:"omitempty,email"`
	Phone string `json:"phone" validate:"max=50"`
}

// CheckoutPayment forma de pago. En efectivo Tendered es el desglose recibido.
type CheckoutPayment struct {
	Method     string          `json:"method" validate:"required,oneof=CASH CARD TRANSFER"`
	RegisterID string          `json:"register_id" validate:"required_if=Method CASH"`
	Tendered   *cash.Breakdown `json:"tendered" validate:"required_if=Method CASH"`
	Reference  string          `json:"reference" validate:"max=100"`
}

// CheckoutRequest body para POST /api/pos/checkout.
type CheckoutRequest struct {
	WarehouseID    string          `json:"warehouse_id" validate:"required"`
	Items          []CheckoutItem  `json:"items" validate:"required,min=1,dive"`
	Client         *CheckoutClient `json:"client"`
	Payment        CheckoutPayment `json:"payment"`
	IdempotencyKey string          `json:"idempotency_key" validate:"max=100"`
}

// AllocationDTO de qué bodega salió una línea.
type AllocationDTO struct {
	WarehouseID string          `json:"warehouse_id"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// OrderItemDTO línea de pedido con sus asignaciones.
type OrderItemDTO struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Allocations []AllocationDTO `json:"allocations,omitempty"`
}

// PaymentDTO pago aplicado.
type PaymentDTO struct {
	Method    string          `json:"method"`
	Amount    decimal.Decimal `json:"amount"`
	Tendered  decimal.Decimal `json:"tendered"`
	Change    decimal.Decimal `json:"change"`
	Reference string          `json:"reference,omitempty"`
}

// CheckoutResponse resultado del checkout.
type CheckoutResponse struct {
	Order               OrderResponse   `json:"order"`
	Payment             PaymentDTO      `json:"payment"`
	Change              *cash.Breakdown `json:"change,omitempty"`
	NotificationIDs     []string        `json:"notification_ids,omitempty"`
	NotificationsFailed []string        `json:"notifications_failed,omitempty"` // productos sin notificación
	Duplicate           bool            `json:"duplicate"`
}

// ChangePreviewRequest body para POST /api/pos/change.
type ChangePreviewRequest struct {
	RegisterID string          `json:"register_id" validate:"required"`
	Amount     decimal.Decimal `json:"amount" validate:"gte=0"`
	Tendered   cash.Breakdown  `json:"tendered"`
}

// ChangePreviewResponse cambio que se entregaría con el contenido actual de la caja.
type ChangePreviewResponse struct {
	Amount   decimal.Decimal `json:"amount"`
	Tendered decimal.Decimal `json:"tendered"`
	Change   decimal.Decimal `json:"change"`
	Pieces   cash.Breakdown  `json:"pieces"`
}
