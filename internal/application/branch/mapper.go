package branch

import (
	"github.com/jhoicas/Inventario-pos/internal/application/dto"
	"github.com/jhoicas/Inventario-pos/internal/domain/entity"
)

func toNotificationDTO(n *entity.BranchNotification) dto.BranchNotificationDTO {
	return dto.BranchNotificationDTO{
		ID:              n.ID,
		FromWarehouseID: n.FromWarehouseID,
		ToWarehouseID:   n.ToWarehouseID,
		ProductID:       n.ProductID,
		RequestedQty:    n.RequestedQty,
		AvailableQty:    n.AvailableQty,
		Status:          n.Status,
		Priority:        n.Priority,
		Urgent:          n.Urgent,
		IsBackup:        n.IsBackup,
		ParentID:        n.ParentID,
		OrderID:         n.OrderID,
		EscalatedAt:     n.EscalatedAt,
		CreatedBy:       n.CreatedBy,
		CreatedAt:       n.CreatedAt,
		UpdatedAt:       n.UpdatedAt,
	}
}

func toTransferDTO(t *entity.BranchStockTransfer) *dto.BranchTransferDTO {
	if t == nil {
		return nil
	}
	return &dto.BranchTransferDTO{
		ID:              t.ID,
		NotificationID:  t.NotificationID,
		FromWarehouseID: t.FromWarehouseID,
		ToWarehouseID:   t.ToWarehouseID,
		ProductID:       t.ProductID,
		Quantity:        t.Quantity,
		Status:          t.Status,
		HandledBy:       t.HandledBy,
		ShippedAt:       t.ShippedAt,
		ReceivedBy:      t.ReceivedBy,
		ReceivedAt:      t.ReceivedAt,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}
