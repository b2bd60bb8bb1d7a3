package cash

import (
	"fmt"

	"github.com/jhoicas/Inventario-pos/internal/domain"
)

// MakeChange arma el cambio de forma voraz desde la denominación mayor,
// limitado por las piezas disponibles. Si no se alcanza el monto exacto
// devuelve ErrCannotMakeChange; el total devuelto nunca supera amount.
func MakeChange(amount int64, available Breakdown) (Breakdown, error) {
	if amount < 0 {
		return Breakdown{}, fmt.Errorf("%w: monto de cambio negativo", domain.ErrInvalidInput)
	}
	var change Breakdown
	remaining := amount
	for i, d := range Denominations {
		if remaining == 0 {
			break
		}
		n := remaining / d.Value
		if n > available[i] {
			n = available[i]
		}
		if n <= 0 {
			continue
		}
		change[i] = n
		remaining -= n * d.Value
	}
	if remaining != 0 {
		return Breakdown{}, fmt.Errorf("%w: faltan %s", domain.ErrCannotMakeChange, DecimalFromCents(remaining).StringFixed(2))
	}
	return change, nil
}
