package usecase

import (
	"context"
	"testing"

	"github.com/jhoicas/Inventario-pos/internal/application/dto"
	"github.com/jhoicas/Inventario-pos/internal/domain"
	"github.com/jhoicas/Inventario-pos/internal/domain/entity"
	"github.com/jhoicas/Inventario-pos/internal/infrastructure/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWarehouseUseCase_ListActive(t *testing.T) {
	ctx := context.Background()
	uc := NewWarehouseUseCase(memory.NewStore().Repos().Warehouses)

	empty, err := uc.ListActive(ctx, "c1")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	norte, err := uc.Create(ctx, "c1", dto.CreateWarehouseRequest{Name: "Norte"})
	require.NoError(t, err)
	assert.Equal(t, entity.WarehouseTypeSucursal, norte.Type)
	assert.True(t, norte.Active)
	_, err = uc.Create(ctx, "c1", dto.CreateWarehouseRequest{Name: "Central", Type: entity.WarehouseTypePrincipal})
	require.NoError(t, err)
	_, err = uc.Create(ctx, "c2", dto.CreateWarehouseRequest{Name: "Otra empresa"})
	require.NoError(t, err)

	inactive := false
	_, err = uc.Update(ctx, "c1", norte.ID, dto.UpdateWarehouseRequest{Active: &inactive})
	require.NoError(t, err)

	active, err := uc.ListActive(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Central", active[0].Name)

	all, err := uc.List(ctx, "c1", dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, all.Items, 2)
}

func TestWarehouseUseCase_Errors(t *testing.T) {
	ctx := context.Background()
	uc := NewWarehouseUseCase(memory.NewStore().Repos().Warehouses)

	_, err := uc.Create(ctx, "c1", dto.CreateWarehouseRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	bad := "BODEGUITA"
	w, err := uc.Create(ctx, "c1", dto.CreateWarehouseRequest{Name: "Sur"})
	require.NoError(t, err)
	_, err = uc.Update(ctx, "c1", w.ID, dto.UpdateWarehouseRequest{Type: &bad})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.GetByID(ctx, "c2", w.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = uc.GetByID(ctx, "c1", "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductUseCase(t *testing.T) {
	ctx := context.Background()
	uc := NewProductUseCase(memory.NewStore().Repos().Products)

	p, err := uc.Create(ctx, "c1", dto.CreateProductRequest{
		SKU: "SKU-1", Name: "Arroz", Price: decimal.NewFromInt(25),
		MinStock: decimal.NewFromInt(5), ReorderPoint: decimal.NewFromInt(10),
	})
	require.NoError(t, err)

	_, err = uc.Create(ctx, "c1", dto.CreateProductRequest{SKU: "SKU-1", Name: "Otro"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	low := decimal.NewFromInt(1)
	_, err = uc.Update(ctx, "c1", p.ID, dto.UpdateProductRequest{ReorderPoint: &low})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	price := decimal.NewFromInt(30)
	updated, err := uc.Update(ctx, "c1", p.ID, dto.UpdateProductRequest{Price: &price})
	require.NoError(t, err)
	assert.True(t, updated.Price.Equal(price))

	_, err = uc.GetByID(ctx, "c2", p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := uc.List(ctx, "c1", dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)
}

func TestCustomerUseCase(t *testing.T) {
	ctx := context.Background()
	uc := NewCustomerUseCase(memory.NewStore().Repos().Customers)

	_, err := uc.Create(ctx, "c1", dto.CreateCustomerRequest{Name: "Ana", TaxID: "XAXX010101000", Email: "no-es-correo"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	ana, err := uc.Create(ctx, "c1", dto.CreateCustomerRequest{Name: "Ana", TaxID: " XAXX010101000 "})
	require.NoError(t, err)
	assert.Equal(t, "XAXX010101000", ana.TaxID)

	_, err = uc.Create(ctx, "c1", dto.CreateCustomerRequest{Name: "Otra Ana", TaxID: "XAXX010101000"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	_, err = uc.Create(ctx, "c1", dto.CreateCustomerRequest{Name: "Beto", TaxID: "BETO800101AAA"})
	require.NoError(t, err)

	phone := "555-0101"
	updated, err := uc.Update(ctx, "c1", ana.ID, dto.UpdateCustomerRequest{Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, phone, updated.Phone)
	assert.Equal(t, "Ana", updated.Name)

	_, err = uc.GetByID(ctx, "c2", ana.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := uc.List(ctx, "c1", dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, list.Items, 2)
	assert.Equal(t, "Ana", list.Items[0].Name)
}
