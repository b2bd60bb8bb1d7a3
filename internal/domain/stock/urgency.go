package stock

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Niveles de urgencia de una solicitud entre sucursales.
const (
	UrgencyCritical = "CRITICAL" // el stock proyectado queda negativo
	UrgencyHigh     = "HIGH"     // por debajo del mínimo
	UrgencyMedium   = "MEDIUM"   // por debajo del punto de reorden
	UrgencyNone     = "NONE"
)

// Urgency clasifica el stock proyectado de la bodega solicitante.
func Urgency(projected, minStock, reorderPoint decimal.Decimal) string {
	switch {
	case projected.IsNegative():
		return UrgencyCritical
	case projected.LessThan(minStock):
		return UrgencyHigh
	case projected.LessThan(reorderPoint):
		return UrgencyMedium
	default:
		return UrgencyNone
	}
}

// IsUrgent true si el stock proyectado queda bajo el punto de reorden (CRITICAL, HIGH o MEDIUM).
// Solo las solicitudes urgentes generan respaldos y se escalan.
func IsUrgent(level string) bool {
	return level == UrgencyCritical || level == UrgencyHigh || level == UrgencyMedium
}

// Priority 1 es la más alta.
func Priority(level string) int {
	switch level {
	case UrgencyCritical:
		return 1
	case UrgencyHigh:
		return 2
	default:
		return 3
	}
}

// Supplier bodega candidata a enviar stock.
type Supplier struct {
	WarehouseID   string
	WarehouseName string
	Principal     bool
	AvailableQty  decimal.Decimal
}

// RankSuppliers ordena candidatas: bodega principal primero, luego mayor disponible, luego nombre.
func RankSuppliers(candidates []Supplier) []Supplier {
	out := make([]Supplier, len(candidates))
	copy(out, candidates)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Principal != out[j].Principal {
			return out[i].Principal
		}
		if c := out[i].AvailableQty.Cmp(out[j].AvailableQty); c != 0 {
			return c > 0
		}
		return out[i].WarehouseName < out[j].WarehouseName
	})
	return out
}
