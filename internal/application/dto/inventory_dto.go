package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdjustStockRequest body para POST /api/inventory/adjustments.
// Quantity positivo ingresa unidades; negativo las retira del disponible.
type AdjustStockRequest struct {
	ProductID   string          `json:"product_id" validate:"required"`
	WarehouseID string          `json:"warehouse_id" validate:"required"`
	Quantity    decimal.Decimal `json:"quantity" validate:"required"`
	Type        string          `json:"type" validate:"omitempty,oneof=ADJUSTMENT RETURN"`
	Notes       string          `json:"notes" validate:"max=500"`
}

// StockDTO fila de stock de un producto en una bodega.
type StockDTO struct {
	ProductID     string          `json:"product_id"`
	WarehouseID   string          `json:"warehouse_id"`
	WarehouseName string          `json:"warehouse_name,omitempty"`
	Quantity      decimal.Decimal `json:"quantity"`
	ReservedQty   decimal.Decimal `json:"reserved_quantity"`
	AvailableQty  decimal.Decimal `json:"available_quantity"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ProductStockResponse stock de un producto en todas las bodegas.
type ProductStockResponse struct {
	ProductID      string          `json:"product_id"`
	TotalQuantity  decimal.Decimal `json:"total_quantity"`
	TotalAvailable decimal.Decimal `json:"total_available"`
	Warehouses     []StockDTO      `json:"warehouses"`
}

// StockMovementDTO línea del kardex.
type StockMovementDTO struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	WarehouseID string          `json:"warehouse_id"`
	Type        string          `json:"type"`
	Quantity    decimal.Decimal `json:"quantity"`
	Reference   string          `json:"reference,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	CreatedBy   string          `json:"created_by,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// StockMovementListResponse kardex paginado.
type StockMovementListResponse struct {
	Items []StockMovementDTO `json:"items"`
	Page  PageResponse       `json:"page"`
}

// ReplenishmentSuggestionDTO producto de una bodega por debajo de su punto de reorden.
type ReplenishmentSuggestionDTO struct {
	ProductID         string          `json:"product_id"`
	SKU               string          `json:"sku"`
	ProductName       string          `json:"product_name"`
	WarehouseID       string          `json:"warehouse_id"`
	CurrentStock      decimal.Decimal `json:"current_stock"`
	MinStock          decimal.Decimal `json:"min_stock"`
	ReorderPoint      decimal.Decimal `json:"reorder_point"`
	IdealStock        decimal.Decimal `json:"ideal_stock"`
	SuggestedOrderQty decimal.Decimal `json:"suggested_order_qty"`
	Urgency           string          `json:"urgency"`
	Priority          int             `json:"priority"`
}
