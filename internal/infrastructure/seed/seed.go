// Package seed carga datos de desarrollo: bodegas, productos, stock FIFO y una caja con fondo.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Inventario-pos/internal/domain/cash"
	"github.com/jhoicas/Inventario-pos/internal/domain/entity"
	"github.com/jhoicas/Inventario-pos/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// Summary IDs creados, para armar tokens y probar la API.
type Summary struct {
	CompanyID    string
	WarehouseIDs map[string]string // nombre -> id
	ProductIDs   map[string]string // sku -> id
	RegisterID   string
}

type productSeed struct {
	sku, name           string
	price, min, reorder string
	stock               map[string]int64 // bodega -> unidades
}

var warehouses = []struct {
	name, address, kind string
}{
	{"Bodega Central", "Av. Industrial 100", entity.WarehouseTypePrincipal},
	{"Sucursal Centro", "Calle Madero 12", entity.WarehouseTypeSucursal},
	{"Sucursal Norte", "Blvd. Norte 455", entity.WarehouseTypeSucursal},
}

var products = []productSeed{
	{"ARZ-1KG", "Arroz 1kg", "25.00", "5", "10", map[string]int64{"Bodega Central": 200, "Sucursal Centro": 3, "Sucursal Norte": 10}},
	{"FRJ-1KG", "Frijol negro 1kg", "38.50", "5", "12", map[string]int64{"Bodega Central": 150, "Sucursal Centro": 20}},
	{"ACT-1L", "Aceite vegetal 1L", "52.00", "3", "8", map[string]int64{"Sucursal Centro": 6, "Sucursal Norte": 2}},
	{"LCD-600", "Licuadora 600W", "237.50", "1", "2", map[string]int64{"Bodega Central": 4, "Sucursal Norte": 1}},
}

// Fondo inicial de la caja de Sucursal Centro.
var openingFloat = map[string]int64{
	"billete_200": 2, "billete_100": 4, "billete_50": 6, "billete_20": 10,
	"moneda_10": 10, "moneda_5": 10, "moneda_2": 10, "moneda_1": 10, "moneda_0_50": 10,
}

// Load crea todo dentro de los repos recibidos (usar dentro de una transacción).
// La bodega central queda como la más antigua para que FIFO la consuma primero.
func Load(ctx context.Context, repos repository.Repos, companyID string, now time.Time) (*Summary, error) {
	sum := &Summary{
		CompanyID:    companyID,
		WarehouseIDs: make(map[string]string, len(warehouses)),
		ProductIDs:   make(map[string]string, len(products)),
	}
	for i, w := range warehouses {
		at := now.Add(time.Duration(i-len(warehouses)) * time.Hour)
		wh := &entity.Warehouse{
			ID:        uuid.New().String(),
			CompanyID: companyID,
			Name:      w.name,
			Address:   w.address,
			Type:      w.kind,
			Active:    true,
			CreatedAt: at,
			UpdatedAt: at,
		}
		if err := repos.Warehouses.Create(ctx, wh); err != nil {
			return nil, fmt.Errorf("bodega %s: %w", w.name, err)
		}
		sum.WarehouseIDs[w.name] = wh.ID
	}

	for _, p := range products {
		product := &entity.Product{
			ID:           uuid.New().String(),
			CompanyID:    companyID,
			SKU:          p.sku,
			Name:         p.name,
			Price:        decimal.RequireFromString(p.price),
			MinStock:     decimal.RequireFromString(p.min),
			ReorderPoint: decimal.RequireFromString(p.reorder),
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := repos.Products.Create(ctx, product); err != nil {
			return nil, fmt.Errorf("producto %s: %w", p.sku, err)
		}
		sum.ProductIDs[p.sku] = product.ID

		for i, w := range warehouses {
			units, ok := p.stock[w.name]
			if !ok {
				continue
			}
			at := now.Add(time.Duration(i-len(warehouses)) * time.Hour)
			row := entity.NewStock(product.ID, sum.WarehouseIDs[w.name], at)
			qty := decimal.NewFromInt(units)
			if err := row.Receive(qty, at); err != nil {
				return nil, err
			}
			if err := repos.Stock.Upsert(ctx, row); err != nil {
				return nil, fmt.Errorf("stock %s: %w", p.sku, err)
			}
			if err := repos.Movements.Create(ctx, &entity.StockMovement{
				ID:          uuid.New().String(),
				CompanyID:   companyID,
				ProductID:   product.ID,
				WarehouseID: row.WarehouseID,
				Type:        entity.MovementTypeAdjustment,
				Quantity:    qty,
				Reference:   "SEED",
				Notes:       "carga inicial",
				CreatedBy:   "seed",
				CreatedAt:   at,
			}); err != nil {
				return nil, err
			}
		}
	}

	var float cash.Breakdown
	for name, n := range openingFloat {
		i, ok := cash.Index(name)
		if !ok {
			return nil, fmt.Errorf("denominación desconocida %s", name)
		}
		float[i] = n
	}
	register := &entity.CashRegister{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		UserID:      "cajero-centro",
		WarehouseID: sum.WarehouseIDs["Sucursal Centro"],
		Location:    "Caja 1",
		Balance:     float.TotalDecimal(),
		Breakdown:   float,
		UpdatedAt:   now,
	}
	if err := repos.Registers.Create(ctx, register); err != nil {
		return nil, fmt.Errorf("caja: %w", err)
	}
	if err := repos.Registers.CreateTransaction(ctx, &entity.CashTransaction{
		ID:         uuid.New().String(),
		RegisterID: register.ID,
		Type:       entity.CashTxDeposit,
		Amount:     register.Balance,
		Breakdown:  float,
		Reference:  "fondo inicial",
		CreatedBy:  "seed",
		CreatedAt:  now,
	}); err != nil {
		return nil, err
	}
	sum.RegisterID = register.ID
	return sum, nil
}
