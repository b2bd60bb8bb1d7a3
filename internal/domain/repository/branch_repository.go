package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Inventario-pos/internal/domain/entity"
)

// Direcciones para listar notificaciones desde el punto de vista de una bodega.
const (
	DirectionIncoming = "incoming" // la bodega debe responder
	DirectionOutgoing = "outgoing" // la bodega las solicitó
)

// NotificationFilter filtros de listado. Campos vacíos no filtran.
type NotificationFilter struct {
	CompanyID   string
	WarehouseID string
	Direction   string
	Status      string
	Limit       int
	Offset      int
}

// BranchNotificationRepository notificaciones entre sucursales y sus respuestas.
type BranchNotificationRepository interface {
	Create(ctx context.Context, n *entity.BranchNotification) error
	GetByID(ctx context.Context, id string) (*entity.BranchNotification, error)
	GetForUpdate(ctx context.Context, id string) (*entity.BranchNotification, error)
	Update(ctx context.Context, n *entity.BranchNotification) error
	List(ctx context.Context, f NotificationFilter) ([]*entity.BranchNotification, error)
	// FindOpenPrimary notificación principal abierta (PENDING/ACKNOWLEDGED) de la misma bodega solicitante y producto, bloqueada.
	FindOpenPrimary(ctx context.Context, companyID, fromWarehouseID, productID string) (*entity.BranchNotification, error)
	ListByParent(ctx context.Context, parentID string) ([]*entity.BranchNotification, error)
	// ListEscalationCandidates urgentes en PENDING creadas antes de olderThan y sin escalar.
	ListEscalationCandidates(ctx context.Context, olderThan time.Time, limit int) ([]*entity.BranchNotification, error)

	// CreateResponse devuelve domain.ErrDuplicate si la notificación ya tiene respuesta.
	CreateResponse(ctx context.Context, r *entity.BranchNotificationResponse) error
	GetResponse(ctx context.Context, notificationID string) (*entity.BranchNotificationResponse, error)
}

// BranchTransferRepository traslados físicos entre sucursales.
type BranchTransferRepository interface {
	Create(ctx context.Context, t *entity.BranchStockTransfer) error
	GetByID(ctx context.Context, id string) (*entity.BranchStockTransfer, error)
	GetForUpdate(ctx context.Context, id string) (*entity.BranchStockTransfer, error)
	GetByNotification(ctx context.Context, notificationID string) (*entity.BranchStockTransfer, error)
	Update(ctx context.Context, t *entity.BranchStockTransfer) error
	ListByCompany(ctx context.Context, companyID, status string, limit, offset int) ([]*entity.BranchStockTransfer, error)
}
