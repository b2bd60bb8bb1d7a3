package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de notificación entre sucursales.
const (
	NotificationPending      = "PENDING"
	NotificationAcknowledged = "ACKNOWLEDGED"
	NotificationAccepted     = "ACCEPTED"
	NotificationRejected     = "REJECTED"
	NotificationCompleted    = "COMPLETED"
)

// Tipos de respuesta.
const (
	ResponseAccept        = "ACCEPT"
	ResponsePartialAccept = "PARTIAL_ACCEPT"
	ResponseReject        = "REJECT"
)

// Estados de traslado.
const (
	TransferPending   = "PENDING"
	TransferInTransit = "IN_TRANSIT"
	TransferReceived  = "RECEIVED"
)

// BranchNotification solicitud de stock de la bodega From a la bodega To.
type BranchNotification struct {
	ID              string
	CompanyID       string
	FromWarehouseID string // solicitante
	ToWarehouseID   string // quien debe enviar
	ProductID       string
	RequestedQty    decimal.Decimal
	AvailableQty    decimal.Decimal // disponible en To al crearla
	Status          string
	Priority        int
	Urgent          bool
	IsBackup        bool
	ParentID        *string
	OrderID         *string
	EscalatedAt     *time.Time
	CreatedBy       string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsOpen pendiente de respuesta.
func (n *BranchNotification) IsOpen() bool {
	return n.Status == NotificationPending || n.Status == NotificationAcknowledged
}

// BranchNotificationResponse respuesta única a una notificación.
type BranchNotificationResponse struct {
	ID             string
	NotificationID string
	ResponseType   string
	ConfirmedQty   decimal.Decimal
	Message        string
	RespondedBy    string
	CreatedAt      time.Time
}

// BranchStockTransfer traslado físico acordado, del respondedor al solicitante.
type BranchStockTransfer struct {
	ID              string
	NotificationID  string
	CompanyID       string
	FromWarehouseID string
	ToWarehouseID   string
	ProductID       string
	Quantity        decimal.Decimal
	Status          string
	HandledBy       *string
	ShippedAt       *time.Time
	ReceivedBy      *string
	ReceivedAt      *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
