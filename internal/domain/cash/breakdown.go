// Package cash modela el desglose de billetes y monedas de una caja y el cálculo de cambio.
package cash

import (
	"encoding/json"
	"fmt"

	"github.com/jhoicas/Inventario-pos/internal/domain"
	"github.com/shopspring/decimal"
)

// Denomination billete o moneda aceptada por la caja. Value en centavos.
type Denomination struct {
	Name  string
	Value int64
}

// Denominations tabla fija de denominaciones (MXN), de mayor a menor.
var Denominations = [...]Denomination{
	{Name: "billete_1000", Value: 100000},
	{Name: "billete_500", Value: 50000},
	{Name: "billete_200", Value: 20000},
	{Name: "billete_100", Value: 10000},
	{Name: "billete_50", Value: 5000},
	{Name: "billete_20", Value: 2000},
	{Name: "moneda_10", Value: 1000},
	{Name: "moneda_5", Value: 500},
	{Name: "moneda_2", Value: 200},
	{Name: "moneda_1", Value: 100},
	{Name: "moneda_0_50", Value: 50},
}

// MaxPieces tope de piezas por denominación, en un desglose recibido y en la caja.
// Con este tope Total no puede desbordar int64.
const MaxPieces int64 = 1_000_000

// Breakdown cantidad de piezas por denominación, en el orden de Denominations.
type Breakdown [len(Denominations)]int64

// Index devuelve la posición de una denominación por nombre.
func Index(name string) (int, bool) {
	for i, d := range Denominations {
		if d.Name == name {
			return i, true
		}
	}
	return -1, false
}

// Total suma del desglose en centavos.
func (b Breakdown) Total() int64 {
	var total int64
	for i, n := range b {
		total += n * Denominations[i].Value
	}
	return total
}

// TotalDecimal total en pesos.
func (b Breakdown) TotalDecimal() decimal.Decimal {
	return DecimalFromCents(b.Total())
}

// IsZero indica si no hay ninguna pieza.
func (b Breakdown) IsZero() bool {
	return b == Breakdown{}
}

// Validate rechaza conteos negativos o mayores a MaxPieces.
func (b Breakdown) Validate() error {
	for i, n := range b {
		if n < 0 {
			return fmt.Errorf("%w: conteo negativo en %s", domain.ErrInvalidInput, Denominations[i].Name)
		}
		if n > MaxPieces {
			return fmt.Errorf("%w: %d piezas de %s exceden el máximo de %d", domain.ErrInvalidInput, n, Denominations[i].Name, MaxPieces)
		}
	}
	return nil
}

// Merge suma dos desgloses pieza por pieza. Ninguna denominación puede pasar de MaxPieces.
func Merge(a, b Breakdown) (Breakdown, error) {
	var out Breakdown
	for i := range out {
		if a[i] > MaxPieces || b[i] > MaxPieces-a[i] {
			return Breakdown{}, fmt.Errorf("%w: desbordamiento en %s", domain.ErrInvalidInput, Denominations[i].Name)
		}
		out[i] = a[i] + b[i]
	}
	return out, nil
}

// Subtract resta b de a. Nunca recorta: si alguna pieza quedaría negativa devuelve ErrRegisterNegative.
func Subtract(a, b Breakdown) (Breakdown, error) {
	var out Breakdown
	for i := range out {
		if a[i] < b[i] {
			return Breakdown{}, fmt.Errorf("%w: faltan %d de %s", domain.ErrRegisterNegative, b[i]-a[i], Denominations[i].Name)
		}
		out[i] = a[i] - b[i]
	}
	return out, nil
}

// Diff diferencia con signo (a - b) por denominación; usada en el arqueo.
func Diff(a, b Breakdown) Breakdown {
	var out Breakdown
	for i := range out {
		out[i] = a[i] - b[i]
	}
	return out
}

// CentsFromDecimal convierte pesos a centavos; rechaza fracciones de centavo.
func CentsFromDecimal(d decimal.Decimal) (int64, error) {
	cents := d.Shift(2)
	if !cents.Equal(cents.Truncate(0)) {
		return 0, fmt.Errorf("%w: %s tiene fracciones de centavo", domain.ErrInvalidInput, d.String())
	}
	return cents.IntPart(), nil
}

// DecimalFromCents convierte centavos a pesos.
func DecimalFromCents(c int64) decimal.Decimal {
	return decimal.New(c, -2)
}

type denominationJSON struct {
	Value decimal.Decimal `json:"value"`
	Count int64           `json:"count"`
	Total decimal.Decimal `json:"total"`
}

// MarshalJSON forma {"billete_1000": {"value": "1000", "count": 2, "total": "2000"}, ...}.
func (b Breakdown) MarshalJSON() ([]byte, error) {
	out := make(map[string]denominationJSON, len(Denominations))
	for i, d := range Denominations {
		out[d.Name] = denominationJSON{
			Value: DecimalFromCents(d.Value),
			Count: b[i],
			Total: DecimalFromCents(d.Value * b[i]),
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON acepta la forma completa o solo {"nombre": {"count": n}}; los nombres ausentes valen cero.
func (b *Breakdown) UnmarshalJSON(data []byte) error {
	var in map[string]struct {
		Count int64 `json:"count"`
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	var out Breakdown
	for name, v := range in {
		i, ok := Index(name)
		if !ok {
			return fmt.Errorf("%w: denominación desconocida %q", domain.ErrInvalidInput, name)
		}
		out[i] = v.Count
	}
	*b = out
	return nil
}
