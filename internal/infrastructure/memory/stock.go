package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/Inventario-pos/internal/domain/entity"
	"github.com/jhoicas/Inventario-pos/internal/domain/repository"
	"github.com/jhoicas/Inventario-pos/internal/domain/stock"
)

var (
	_ repository.StockRepository         = (*StockRepo)(nil)
	_ repository.StockMovementRepository = (*StockMovementRepo)(nil)
)

// StockRepo stock por producto y bodega. Los bloqueos los da la serialización del TxRunner.
type StockRepo struct{ base }

func (r *StockRepo) Get(_ context.Context, productID, warehouseID string) (*entity.Stock, error) {
	var out *entity.Stock
	r.read(func(d *data) {
		if s, ok := d.stock[stockKey{productID, warehouseID}]; ok {
			out = &s
		}
	})
	if out == nil {
		// sin fechas: Upsert estampa CreatedAt con la primera mutación
		out = entity.NewStock(productID, warehouseID, time.Time{})
	}
	return out, nil
}

func (r *StockRepo) GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.Stock, error) {
	return r.Get(ctx, productID, warehouseID)
}

func (r *StockRepo) ListByProduct(_ context.Context, productID string) ([]*entity.Stock, error) {
	var list []*entity.Stock
	r.read(func(d *data) {
		for k, s := range d.stock {
			if k.productID == productID {
				list = append(list, &s)
			}
		}
	})
	stock.SortFIFO(list)
	return list, nil
}

func (r *StockRepo) ListByProductForUpdate(ctx context.Context, productID string) ([]*entity.Stock, error) {
	return r.ListByProduct(ctx, productID)
}

func (r *StockRepo) Upsert(_ context.Context, s *entity.Stock) error {
	return r.write(func(d *data) error {
		k := stockKey{s.ProductID, s.WarehouseID}
		row := *s
		if prev, ok := d.stock[k]; ok {
			row.CreatedAt = prev.CreatedAt
		} else if row.CreatedAt.IsZero() {
			row.CreatedAt = row.UpdatedAt
		}
		d.stock[k] = row
		return nil
	})
}

// StockMovementRepo kardex en memoria (append-only).
type StockMovementRepo struct{ base }

func (r *StockMovementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	return r.write(func(d *data) error {
		d.movements = append(d.movements, *m)
		return nil
	})
}

func (r *StockMovementRepo) ListByProduct(_ context.Context, productID string, limit, offset int) ([]*entity.StockMovement, error) {
	var list []*entity.StockMovement
	r.read(func(d *data) {
		for _, m := range d.movements {
			if m.ProductID == productID {
				list = append(list, &m)
			}
		}
	})
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return paginate(list, limit, offset), nil
}

func (r *StockMovementRepo) ListByReference(_ context.Context, reference string) ([]*entity.StockMovement, error) {
	var list []*entity.StockMovement
	r.read(func(d *data) {
		for _, m := range d.movements {
			if m.Reference == reference {
				list = append(list, &m)
			}
		}
	})
	return list, nil
}
