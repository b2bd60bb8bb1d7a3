package entity

import "time"

// Tipos de bodega.
const (
	WarehouseTypePrincipal = "PRINCIPAL" // bodega central
	WarehouseTypeSucursal  = "SUCURSAL"  // sucursal / punto de venta
)

// Warehouse representa una bodega o sucursal donde se almacena inventario (multi-bodega).
type Warehouse struct {
	ID        string
	CompanyID string
	Name      string
	Address   string
	Type      string // PRINCIPAL, SUCURSAL
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsPrincipal indica si es la bodega central de la empresa.
func (w *Warehouse) IsPrincipal() bool {
	return w.Type == WarehouseTypePrincipal
}

// ValidWarehouseType verifica el tipo recibido desde la API.
func ValidWarehouseType(t string) bool {
	return t == WarehouseTypePrincipal || t == WarehouseTypeSucursal
}
