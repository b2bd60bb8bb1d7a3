package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias de infraestructura).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrForbidden           = errors.New("acceso denegado")
	ErrConflict            = errors.New("conflicto con el estado actual")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrInvalidTransition   = errors.New("transición de estado inválida")
	ErrCannotMakeChange    = errors.New("no es posible dar cambio con las denominaciones disponibles")
	ErrInsufficientPayment = errors.New("el monto recibido no cubre el total")
	ErrRegisterNegative    = errors.New("la caja no tiene suficientes billetes o monedas")
)

// Shortage faltante de un producto: lo solicitado contra lo disponible.
type Shortage struct {
	ProductID string          `json:"product_id"`
	Requested decimal.Decimal `json:"requested"`
	Available decimal.Decimal `json:"available"`
}

// StockShortageError error tipado de stock insuficiente con el detalle por producto.
// errors.Is(err, ErrInsufficientStock) es verdadero.
type StockShortageError struct {
	Shortages []Shortage
}

func (e *StockShortageError) Error() string {
	parts := make([]string, 0, len(e.Shortages))
	for _, s := range e.Shortages {
		parts = append(parts, fmt.Sprintf("%s (solicitado %s, disponible %s)", s.ProductID, s.Requested, s.Available))
	}
	return ErrInsufficientStock.Error() + ": " + strings.Join(parts, "; ")
}

func (e *StockShortageError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// Shortages extrae el detalle de faltantes si err es (o envuelve) un StockShortageError.
func Shortages(err error) []Shortage {
	var se *StockShortageError
	if errors.As(err, &se) {
		return se.Shortages
	}
	return nil
}
