package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/Inventario-pos/internal/domain"
	"github.com/jhoicas/Inventario-pos/internal/domain/entity"
	"github.com/jhoicas/Inventario-pos/internal/domain/repository"
)

var (
	_ repository.ProductRepository  = (*ProductRepo)(nil)
	_ repository.CustomerRepository = (*CustomerRepo)(nil)
)

// ProductRepo productos en memoria. SKU único por empresa.
type ProductRepo struct{ base }

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	return r.write(func(d *data) error {
		for _, existing := range d.products {
			if existing.ID == p.ID || (existing.CompanyID == p.CompanyID && existing.SKU == p.SKU) {
				return domain.ErrDuplicate
			}
		}
		d.products[p.ID] = *p
		return nil
	})
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	r.read(func(d *data) {
		if p, ok := d.products[id]; ok {
			out = &p
		}
	})
	return out, nil
}

func (r *ProductRepo) GetByCompanyAndSKU(_ context.Context, companyID, sku string) (*entity.Product, error) {
	var out *entity.Product
	r.read(func(d *data) {
		for _, p := range d.products {
			if p.CompanyID == companyID && p.SKU == sku {
				out = &p
				return
			}
		}
	})
	return out, nil
}

func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	return r.write(func(d *data) error {
		if _, ok := d.products[p.ID]; !ok {
			return domain.ErrNotFound
		}
		d.products[p.ID] = *p
		return nil
	})
}

func (r *ProductRepo) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.Product, error) {
	var list []*entity.Product
	r.read(func(d *data) {
		for _, p := range d.products {
			if p.CompanyID == companyID {
				list = append(list, &p)
			}
		}
	})
	sort.Slice(list, func(i, j int) bool { return list[i].SKU < list[j].SKU })
	return paginate(list, limit, offset), nil
}

// CustomerRepo clientes en memoria. TaxID único por empresa.
type CustomerRepo struct{ base }

func (r *CustomerRepo) Create(_ context.Context, c *entity.Customer) error {
	return r.write(func(d *data) error {
		for _, existing := range d.customers {
			if existing.ID == c.ID || (c.TaxID != "" && existing.CompanyID == c.CompanyID && existing.TaxID == c.TaxID) {
				return domain.ErrDuplicate
			}
		}
		d.customers[c.ID] = *c
		return nil
	})
}

func (r *CustomerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	var out *entity.Customer
	r.read(func(d *data) {
		if c, ok := d.customers[id]; ok {
			out = &c
		}
	})
	return out, nil
}

func (r *CustomerRepo) GetByCompanyAndTaxID(_ context.Context, companyID, taxID string) (*entity.Customer, error) {
	var out *entity.Customer
	r.read(func(d *data) {
		for _, c := range d.customers {
			if c.CompanyID == companyID && c.TaxID == taxID {
				out = &c
				return
			}
		}
	})
	return out, nil
}

func (r *CustomerRepo) Update(_ context.Context, c *entity.Customer) error {
	return r.write(func(d *data) error {
		if _, ok := d.customers[c.ID]; !ok {
			return domain.ErrNotFound
		}
		d.customers[c.ID] = *c
		return nil
	})
}

func (r *CustomerRepo) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.Customer, error) {
	var list []*entity.Customer
	r.read(func(d *data) {
		for _, c := range d.customers {
			if c.CompanyID == companyID {
				list = append(list, &c)
			}
		}
	})
	sort.Slice(list, func(i, j int) bool {
		if list[i].Name != list[j].Name {
			return list[i].Name < list[j].Name
		}
		return list[i].ID < list[j].ID
	})
	return paginate(list, limit, offset), nil
}
