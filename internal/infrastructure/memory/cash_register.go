package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/Inventario-pos/internal/domain"
	"github.com/jhoicas/Inventario-pos/internal/domain/entity"
	"github.com/jhoicas/Inventario-pos/internal/domain/repository"
)

var _ repository.CashRegisterRepository = (*CashRegisterRepo)(nil)

// CashRegisterRepo cajas y movimientos de caja en memoria.
type CashRegisterRepo struct{ base }

func (r *CashRegisterRepo) Create(_ context.Context, cr *entity.CashRegister) error {
	return r.write(func(d *data) error {
		if _, ok := d.registers[cr.ID]; ok {
			return domain.ErrDuplicate
		}
		d.registers[cr.ID] = *cr
		return nil
	})
}

func (r *CashRegisterRepo) GetByID(_ context.Context, id string) (*entity.CashRegister, error) {
	var out *entity.CashRegister
	r.read(func(d *data) {
		if cr, ok := d.registers[id]; ok {
			out = &cr
		}
	})
	return out, nil
}

func (r *CashRegisterRepo) GetForUpdate(ctx context.Context, id string) (*entity.CashRegister, error) {
	return r.GetByID(ctx, id)
}

func (r *CashRegisterRepo) Update(_ context.Context, cr *entity.CashRegister) error {
	return r.write(func(d *data) error {
		if _, ok := d.registers[cr.ID]; !ok {
			return domain.ErrNotFound
		}
		d.registers[cr.ID] = *cr
		return nil
	})
}

func (r *CashRegisterRepo) CreateTransaction(_ context.Context, tx *entity.CashTransaction) error {
	return r.write(func(d *data) error {
		d.cashTxs = append(d.cashTxs, *tx)
		return nil
	})
}

func (r *CashRegisterRepo) ListTransactions(_ context.Context, registerID string, limit, offset int) ([]*entity.CashTransaction, error) {
	var list []*entity.CashTransaction
	r.read(func(d *data) {
		for _, tx := range d.cashTxs {
			if tx.RegisterID == registerID {
				list = append(list, &tx)
			}
		}
	})
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return paginate(list, limit, offset), nil
}
