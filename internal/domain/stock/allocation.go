// Package stock reglas puras de inventario multi-bodega: asignación FIFO,
// urgencia de reabastecimiento y orden de sucursales proveedoras.
package stock

import (
	"sort"

	"github.com/jhoicas/Inventario-pos/internal/domain"
	"github.com/jhoicas/Inventario-pos/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Allocation cantidad que se toma de una fila de stock.
type Allocation struct {
	ProductID   string
	WarehouseID string
	Quantity    decimal.Decimal
}

// SortFIFO ordena filas por CreatedAt y, en empate, por bodega.
func SortFIFO(rows []*entity.Stock) {
	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].CreatedAt.Before(rows[j].CreatedAt)
		}
		return rows[i].WarehouseID < rows[j].WarehouseID
	})
}

// TotalAvailable suma AvailableQty de las filas.
func TotalAvailable(rows []*entity.Stock) decimal.Decimal {
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.AvailableQty)
	}
	return total
}

// AllocateFIFO reparte qty entre las filas, la más antigua primero.
// No modifica las filas. Si el disponible total no alcanza devuelve *domain.StockShortageError.
func AllocateFIFO(productID string, rows []*entity.Stock, qty decimal.Decimal) ([]Allocation, error) {
	if !qty.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	available := TotalAvailable(rows)
	if available.LessThan(qty) {
		return nil, &domain.StockShortageError{Shortages: []domain.Shortage{{
			ProductID: productID,
			Requested: qty,
			Available: available,
		}}}
	}

	ordered := make([]*entity.Stock, len(rows))
	copy(ordered, rows)
	SortFIFO(ordered)

	var out []Allocation
	remaining := qty
	for _, r := range ordered {
		if !remaining.IsPositive() {
			break
		}
		if !r.AvailableQty.IsPositive() {
			continue
		}
		take := decimal.Min(r.AvailableQty, remaining)
		out = append(out, Allocation{ProductID: productID, WarehouseID: r.WarehouseID, Quantity: take})
		remaining = remaining.Sub(take)
	}
	return out, nil
}
