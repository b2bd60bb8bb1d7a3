package entity

import (
	"time"

	"github.com/jhoicas/Inventario-pos/internal/domain"
	"github.com/shopspring/decimal"
)

// Stock representa el stock de un producto en una bodega.
// Invariante: Quantity = ReservedQty + AvailableQty y los tres son >= 0.
// Solo se modifica a través de los métodos; ninguno recorta a cero en silencio.
type Stock struct {
	ProductID    string
	WarehouseID  string
	Quantity     decimal.Decimal
	ReservedQty  decimal.Decimal
	AvailableQty decimal.Decimal
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewStock crea una fila vacía de stock.
func NewStock(productID, warehouseID string, now time.Time) *Stock {
	return &Stock{
		ProductID:    productID,
		WarehouseID:  warehouseID,
		Quantity:     decimal.Zero,
		ReservedQty:  decimal.Zero,
		AvailableQty: decimal.Zero,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Valid comprueba el invariante de la fila.
func (s *Stock) Valid() bool {
	if s.Quantity.IsNegative() || s.ReservedQty.IsNegative() || s.AvailableQty.IsNegative() {
		return false
	}
	return s.Quantity.Equal(s.ReservedQty.Add(s.AvailableQty))
}

// Deduct descuenta unidades disponibles (venta directa).
func (s *Stock) Deduct(qty decimal.Decimal, now time.Time) error {
	if !qty.IsPositive() {
		return domain.ErrInvalidInput
	}
	if s.AvailableQty.LessThan(qty) {
		return domain.ErrInsufficientStock
	}
	s.AvailableQty = s.AvailableQty.Sub(qty)
	s.Quantity = s.Quantity.Sub(qty)
	s.UpdatedAt = now
	return nil
}

// Reserve aparta unidades disponibles (pedido o traslado aceptado).
func (s *Stock) Reserve(qty decimal.Decimal, now time.Time) error {
	if !qty.IsPositive() {
		return domain.ErrInvalidInput
	}
	if s.AvailableQty.LessThan(qty) {
		return domain.ErrInsufficientStock
	}
	s.AvailableQty = s.AvailableQty.Sub(qty)
	s.ReservedQty = s.ReservedQty.Add(qty)
	s.UpdatedAt = now
	return nil
}

// Release devuelve unidades reservadas a disponibles.
func (s *Stock) Release(qty decimal.Decimal, now time.Time) error {
	if !qty.IsPositive() {
		return domain.ErrInvalidInput
	}
	if s.ReservedQty.LessThan(qty) {
		return domain.ErrConflict
	}
	s.ReservedQty = s.ReservedQty.Sub(qty)
	s.AvailableQty = s.AvailableQty.Add(qty)
	s.UpdatedAt = now
	return nil
}

// ConsumeReserved saca físicamente unidades que estaban reservadas (entrega o despacho).
func (s *Stock) ConsumeReserved(qty decimal.Decimal, now time.Time) error {
	if !qty.IsPositive() {
		return domain.ErrInvalidInput
	}
	if s.ReservedQty.LessThan(qty) {
		return domain.ErrInsufficientStock
	}
	s.ReservedQty = s.ReservedQty.Sub(qty)
	s.Quantity = s.Quantity.Sub(qty)
	s.UpdatedAt = now
	return nil
}

// Receive ingresa unidades disponibles (traslado recibido, devolución).
func (s *Stock) Receive(qty decimal.Decimal, now time.Time) error {
	if !qty.IsPositive() {
		return domain.ErrInvalidInput
	}
	s.AvailableQty = s.AvailableQty.Add(qty)
	s.Quantity = s.Quantity.Add(qty)
	s.UpdatedAt = now
	return nil
}
