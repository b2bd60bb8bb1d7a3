package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de stock.
const (
	MovementTypeSale          = "SALE"           // venta POS
	MovementTypeTransferOut   = "TRANSFER_OUT"   // salida por traslado entre sucursales
	MovementTypeTransferIn    = "TRANSFER_IN"    // entrada por traslado entre sucursales
	MovementTypeReturn        = "RETURN"         // devolución
	MovementTypeAdjustment    = "ADJUSTMENT"     // ajuste manual / carga inicial
	MovementTypeOrderDelivery = "ORDER_DELIVERY" // entrega de pedido con reserva
)

// StockMovement registro de auditoría append-only de un delta de cantidad.
// Quantity es positivo para entradas y negativo para salidas.
type StockMovement struct {
	ID          string
	CompanyID   string
	ProductID   string
	WarehouseID string
	Type        string
	Quantity    decimal.Decimal
	Reference   string // pedido, traslado, ajuste
	Notes       string
	CreatedBy   string
	CreatedAt   time.Time
}
