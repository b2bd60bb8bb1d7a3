package repository

import (
	"context"

	"github.com/jhoicas/Inventario-pos/internal/domain/entity"
)

// StockRepository define el puerto para consultar/actualizar stock por bodega+producto.
// Usado dentro de transacciones para garantizar consistencia.
// Get y GetForUpdate devuelven una fila en cero si no existe.
type StockRepository interface {
	Get(ctx context.Context, productID, warehouseID string) (*entity.Stock, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.Stock, error)
	// ListByProduct filas del producto en todas las bodegas, orden FIFO (created_at, warehouse_id).
	ListByProduct(ctx context.Context, productID string) ([]*entity.Stock, error)
	// ListByProductForUpdate igual que ListByProduct pero bloqueando las filas en ese orden.
	ListByProductForUpdate(ctx context.Context, productID string) ([]*entity.Stock, error)
	Upsert(ctx context.Context, stock *entity.Stock) error
}
