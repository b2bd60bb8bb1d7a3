package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RequestStockRequest body para POST /api/branch-notifications (solicitud manual).
type RequestStockRequest struct {
	WarehouseID string          `json:"warehouse_id" validate:"required"` // bodega que solicita
	ProductID   string          `json:"product_id" validate:"required"`
	Quantity    decimal.Decimal `json:"quantity" validate:"gt=0"`
}

// RespondNotificationRequest body para POST /api/branch-notifications/:id/respond.
type RespondNotificationRequest struct {
	ResponseType string          `json:"response_type" validate:"required,oneof=ACCEPT PARTIAL_ACCEPT REJECT"`
	ConfirmedQty decimal.Decimal `json:"confirmed_quantity" validate:"gte=0"`
	Message      string          `json:"message" validate:"max=500"`
}

// NotificationListRequest filtros de GET /api/branch-notifications.
type NotificationListRequest struct {
	WarehouseID string `query:"warehouse_id"`
	Direction   string `query:"direction" validate:"omitempty,oneof=incoming outgoing"`
	Status      string `query:"status" validate:"omitempty,oneof=PENDING ACKNOWLEDGED ACCEPTED REJECTED COMPLETED"`
	PageRequest
}

// BranchNotificationDTO salida de una notificación.
type BranchNotificationDTO struct {
	ID              string          `json:"id"`
	FromWarehouseID string          `json:"from_warehouse_id"`
	ToWarehouseID   string          `json:"to_warehouse_id"`
	ProductID       string          `json:"product_id"`
	RequestedQty    decimal.Decimal `json:"requested_quantity"`
	AvailableQty    decimal.Decimal `json:"available_quantity"`
	Status          string          `json:"status"`
	Priority        int             `json:"priority"`
	Urgent          bool            `json:"urgent"`
	IsBackup        bool            `json:"is_backup"`
	ParentID        *string         `json:"parent_id,omitempty"`
	OrderID         *string         `json:"order_id,omitempty"`
	EscalatedAt     *time.Time      `json:"escalated_at,omitempty"`
	CreatedBy       string          `json:"created_by,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// RequestStockResponse notificaciones creadas o actualizadas por una solicitud.
type RequestStockResponse struct {
	Urgency       string                  `json:"urgency"`
	Deduplicated  bool                    `json:"deduplicated"`
	Notifications []BranchNotificationDTO `json:"notifications"`
}

// BranchNotificationListResponse lista de notificaciones.
type BranchNotificationListResponse struct {
	Items []BranchNotificationDTO `json:"items"`
	Page  PageResponse            `json:"page"`
}

// BranchTransferDTO salida de un traslado.
type BranchTransferDTO struct {
	ID              string          `json:"id"`
	NotificationID  string          `json:"notification_id"`
	FromWarehouseID string          `json:"from_warehouse_id"`
	ToWarehouseID   string          `json:"to_warehouse_id"`
	ProductID       string          `json:"product_id"`
	Quantity        decimal.Decimal `json:"quantity"`
	Status          string          `json:"status"`
	HandledBy       *string         `json:"handled_by,omitempty"`
	ShippedAt       *time.Time      `json:"shipped_at,omitempty"`
	ReceivedBy      *string         `json:"received_by,omitempty"`
	ReceivedAt      *time.Time      `json:"received_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// RespondNotificationResponse resultado de responder. Transfer solo si se aceptó.
type RespondNotificationResponse struct {
	Notification BranchNotificationDTO `json:"notification"`
	Transfer     *BranchTransferDTO    `json:"transfer,omitempty"`
}
