package order

import (
	"github.com/jhoicas/Inventario-pos/internal/application/dto"
	"github.com/jhoicas/Inventario-pos/internal/domain/entity"
)

// Response arma la salida del pedido con sus líneas y de qué bodega salió cada una.
func Response(o *entity.Order, items []*entity.OrderItem, allocs []*entity.OrderAllocation) dto.OrderResponse {
	byItem := make(map[string][]dto.AllocationDTO, len(items))
	for _, a := range allocs {
		byItem[a.OrderItemID] = append(byItem[a.OrderItemID], dto.AllocationDTO{
			WarehouseID: a.WarehouseID,
			Quantity:    a.Quantity,
		})
	}
	out := dto.OrderResponse{
		ID:          o.ID,
		CompanyID:   o.CompanyID,
		CustomerID:  o.CustomerID,
		WarehouseID: o.WarehouseID,
		Channel:     o.Channel,
		Status:      o.Status,
		Subtotal:    o.Subtotal,
		Total:       o.Total,
		Items:       make([]dto.OrderItemDTO, 0, len(items)),
		CreatedBy:   o.CreatedBy,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
	for _, it := range items {
		out.Items = append(out.Items, dto.OrderItemDTO{
			ID:          it.ID,
			ProductID:   it.ProductID,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Subtotal:    it.Subtotal,
			Allocations: byItem[it.ID],
		})
	}
	return out
}

// PaymentResponse salida de un pago.
func PaymentResponse(p *entity.Payment) dto.PaymentDTO {
	return dto.PaymentDTO{
		Method:    p.Method,
		Amount:    p.Amount,
		Tendered:  p.Tendered,
		Change:    p.Change,
		Reference: p.Reference,
	}
}
