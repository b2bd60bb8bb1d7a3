package inventory

import (
	"context"
	"sort"

	"github.com/jhoicas/Inventario-pos/internal/application/dto"
	"github.com/jhoicas/Inventario-pos/internal/domain"
	"github.com/jhoicas/Inventario-pos/internal/domain/repository"
	"github.com/jhoicas/Inventario-pos/internal/domain/stock"
	"github.com/shopspring/decimal"
)

const replenishmentPage = 200

// ReplenishmentUseCase genera la lista de reposición de una bodega.
// Usa la misma clasificación de urgencia que las solicitudes entre sucursales.
type ReplenishmentUseCase struct {
	repos repository.Repos
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(repos repository.Repos) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{repos: repos}
}

// GenerateReplenishmentList devuelve los productos de la bodega bajo su punto de reorden,
// con la cantidad sugerida para llegar a 1.5 veces el punto de reorden. Ordena por urgencia
// y luego por mayor déficit.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context, companyID, warehouseID string) ([]dto.ReplenishmentSuggestionDTO, error) {
	wh, err := uc.repos.Warehouses.GetByID(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	if wh == nil || wh.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}

	factor := decimal.NewFromFloat(1.5)
	suggestions := []dto.ReplenishmentSuggestionDTO{}
	for offset := 0; ; offset += replenishmentPage {
		products, err := uc.repos.Products.ListByCompany(ctx, companyID, replenishmentPage, offset)
		if err != nil {
			return nil, err
		}
		for _, p := range products {
			row, err := uc.repos.Stock.Get(ctx, p.ID, warehouseID)
			if err != nil {
				return nil, err
			}
			level := stock.Urgency(row.AvailableQty, p.MinStock, p.ReorderPoint)
			if level == stock.UrgencyNone {
				continue
			}
			ideal := p.ReorderPoint.Mul(factor)
			suggested := ideal.Sub(row.AvailableQty)
			if suggested.IsNegative() {
				suggested = decimal.Zero
			}
			suggestions = append(suggestions, dto.ReplenishmentSuggestionDTO{
				ProductID:         p.ID,
				SKU:               p.SKU,
				ProductName:       p.Name,
				WarehouseID:       warehouseID,
				CurrentStock:      row.AvailableQty,
				MinStock:          p.MinStock,
				ReorderPoint:      p.ReorderPoint,
				IdealStock:        ideal,
				SuggestedOrderQty: suggested,
				Urgency:           level,
				Priority:          stock.Priority(level),
			})
		}
		if len(products) < replenishmentPage {
			break
		}
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		defA := a.ReorderPoint.Sub(a.CurrentStock)
		defB := b.ReorderPoint.Sub(b.CurrentStock)
		if !defA.Equal(defB) {
			return defA.GreaterThan(defB)
		}
		return a.SKU < b.SKU
	})
	return suggestions, nil
}
