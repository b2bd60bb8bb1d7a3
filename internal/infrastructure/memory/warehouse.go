package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/Inventario-pos/internal/domain"
	"github.com/jhoicas/Inventario-pos/internal/domain/entity"
	"github.com/jhoicas/Inventario-pos/internal/domain/repository"
)

var _ repository.WarehouseRepository = (*WarehouseRepo)(nil)

// WarehouseRepo bodegas en memoria.
type WarehouseRepo struct{ base }

func (r *WarehouseRepo) Create(_ context.Context, w *entity.Warehouse) error {
	return r.write(func(d *data) error {
		if _, ok := d.warehouses[w.ID]; ok {
			return domain.ErrDuplicate
		}
		d.warehouses[w.ID] = *w
		return nil
	})
}

func (r *WarehouseRepo) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	var out *entity.Warehouse
	r.read(func(d *data) {
		if w, ok := d.warehouses[id]; ok {
			out = &w
		}
	})
	return out, nil
}

func (r *WarehouseRepo) Update(_ context.Context, w *entity.Warehouse) error {
	return r.write(func(d *data) error {
		if _, ok := d.warehouses[w.ID]; !ok {
			return domain.ErrNotFound
		}
		d.warehouses[w.ID] = *w
		return nil
	})
}

func (r *WarehouseRepo) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.Warehouse, error) {
	list := r.filter(companyID, false)
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return paginate(list, limit, offset), nil
}

func (r *WarehouseRepo) ListActive(_ context.Context, companyID string) ([]*entity.Warehouse, error) {
	list := r.filter(companyID, true)
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (r *WarehouseRepo) filter(companyID string, onlyActive bool) []*entity.Warehouse {
	var list []*entity.Warehouse
	r.read(func(d *data) {
		for _, w := range d.warehouses {
			if w.CompanyID != companyID || (onlyActive && !w.Active) {
				continue
			}
			list = append(list, &w)
		}
	})
	return list
}
