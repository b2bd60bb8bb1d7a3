package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU vendible (multi-bodega).
// MinStock y ReorderPoint definen cuándo una solicitud entre sucursales es urgente.
type Product struct {
	ID           string
	CompanyID    string
	SKU          string // código único por empresa
	Name         string
	Price        decimal.Decimal // precio de venta
	MinStock     decimal.Decimal
	ReorderPoint decimal.Decimal
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
