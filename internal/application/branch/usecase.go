package branch

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Inventario-pos/internal/application/dto"
	"github.com/jhoicas/Inventario-pos/internal/domain"
	"github.com/jhoicas/Inventario-pos/internal/domain/branch"
	"github.com/jhoicas/Inventario-pos/internal/domain/entity"
	"github.com/jhoicas/Inventario-pos/internal/domain/repository"
	"github.com/jhoicas/Inventario-pos/internal/domain/stock"
	"github.com/jhoicas/Inventario-pos/pkg/validation"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// UseCase flujo de abastecimiento entre sucursales: solicitud, respuesta y traslado.
type UseCase struct {
	tx        TxRunner
	repos     repository.Repos
	publisher Publisher
	backups   int
	log       zerolog.Logger
	now       func() time.Time
}

// NewUseCase construye el caso de uso. backups = notificaciones de respaldo para solicitudes urgentes.
func NewUseCase(tx TxRunner, repos repository.Repos, publisher Publisher, backups int, log zerolog.Logger) *UseCase {
	if backups < 0 {
		backups = 0
	}
	return &UseCase{
		tx:        tx,
		repos:     repos,
		publisher: publisher,
		backups:   backups,
		log:       log,
		now:       time.Now,
	}
}

// RequestStockInput solicitud de stock de una bodega a las demás.
// Projected es el stock local que quedaría tras la venta; nil usa el disponible actual.
type RequestStockInput struct {
	CompanyID   string
	UserID      string
	WarehouseID string
	ProductID   string
	Quantity    decimal.Decimal
	Projected   *decimal.Decimal
	OrderID     *string
}

// RequestStock crea la notificación principal hacia la mejor sucursal candidata y,
// si la solicitud es urgente, respaldos a las siguientes. Si ya existe una solicitud
// abierta del mismo producto desde la misma bodega, le suma la cantidad.
func (uc *UseCase) RequestStock(ctx context.Context, in RequestStockInput) (*dto.RequestStockResponse, error) {
	if in.WarehouseID == "" || in.ProductID == "" || !in.Quantity.IsPositive() {
		return nil, domain.ErrInvalidInput
	}

	var (
		resp    dto.RequestStockResponse
		created []*entity.BranchNotification
		updated []*entity.BranchNotification
	)
	err := uc.tx.Run(ctx, func(tx repository.Repos) error {
		requester, err := tx.Warehouses.GetByID(ctx, in.WarehouseID)
		if err != nil {
			return err
		}
		if requester == nil || requester.CompanyID != in.CompanyID {
			return domain.ErrNotFound
		}
		product, err := tx.Products.GetByID(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil || product.CompanyID != in.CompanyID {
			return domain.ErrNotFound
		}

		rows, err := tx.Stock.ListByProduct(ctx, in.ProductID)
		if err != nil {
			return err
		}
		active, err := tx.Warehouses.ListActive(ctx, in.CompanyID)
		if err != nil {
			return err
		}
		byID := make(map[string]*entity.Warehouse, len(active))
		for _, w := range active {
			byID[w.ID] = w
		}

		local := decimal.Zero
		var candidates []stock.Supplier
		for _, r := range rows {
			if r.WarehouseID == in.WarehouseID {
				local = r.AvailableQty
				continue
			}
			w, ok := byID[r.WarehouseID]
			if !ok || !r.AvailableQty.IsPositive() {
				continue
			}
			candidates = append(candidates, stock.Supplier{
				WarehouseID:   w.ID,
				WarehouseName: w.Name,
				Principal:     w.IsPrincipal(),
				AvailableQty:  r.AvailableQty,
			})
		}

		projected := local
		if in.Projected != nil {
			projected = *in.Projected
		}
		level := stock.Urgency(projected, product.MinStock, product.ReorderPoint)
		resp.Urgency = level
		now := uc.now()

		open, err := tx.Notifications.FindOpenPrimary(ctx, in.CompanyID, in.WarehouseID, in.ProductID)
		if err != nil {
			return err
		}
		if open != nil {
			// la cantidad nueva se suma a la principal y a sus respaldos abiertos
			grow := func(n *entity.BranchNotification) error {
				n.RequestedQty = n.RequestedQty.Add(in.Quantity)
				if p := stock.Priority(level); p < n.Priority {
					n.Priority = p
				}
				n.Urgent = n.Urgent || stock.IsUrgent(level)
				n.UpdatedAt = now
				if err := tx.Notifications.Update(ctx, n); err != nil {
					return err
				}
				updated = append(updated, n)
				return nil
			}
			if err := grow(open); err != nil {
				return err
			}
			children, err := tx.Notifications.ListByParent(ctx, open.ID)
			if err != nil {
				return err
			}
			for _, c := range children {
				if !c.IsOpen() {
					continue
				}
				locked, err := tx.Notifications.GetForUpdate(ctx, c.ID)
				if err != nil {
					return err
				}
				if locked == nil || !locked.IsOpen() {
					continue
				}
				if err := grow(locked); err != nil {
					return err
				}
			}
			resp.Deduplicated = true
			resp.Notifications = []dto.BranchNotificationDTO{toNotificationDTO(open)}
			return nil
		}

		if len(candidates) == 0 {
			return fmt.Errorf("%w: ninguna sucursal activa tiene %s disponible", domain.ErrInsufficientStock, product.SKU)
		}
		ranked := stock.RankSuppliers(candidates)

		newNotification := func(s stock.Supplier, parentID *string) *entity.BranchNotification {
			return &entity.BranchNotification{
				ID:              uuid.New().String(),
				CompanyID:       in.CompanyID,
				FromWarehouseID: in.WarehouseID,
				ToWarehouseID:   s.WarehouseID,
				ProductID:       in.ProductID,
				RequestedQty:    in.Quantity,
				AvailableQty:    s.AvailableQty,
				Status:          entity.NotificationPending,
				Priority:        stock.Priority(level),
				Urgent:          stock.IsUrgent(level),
				IsBackup:        parentID != nil,
				ParentID:        parentID,
				OrderID:         in.OrderID,
				CreatedBy:       in.UserID,
				CreatedAt:       now,
				UpdatedAt:       now,
			}
		}

		primary := newNotification(ranked[0], nil)
		if err := tx.Notifications.Create(ctx, primary); err != nil {
			return err
		}
		created = append(created, primary)
		if stock.IsUrgent(level) {
			for i := 1; i <= uc.backups && i < len(ranked); i++ {
				parentID := primary.ID
				backup := newNotification(ranked[i], &parentID)
				if err := tx.Notifications.Create(ctx, backup); err != nil {
					return err
				}
				created = append(created, backup)
			}
		}
		for _, n := range created {
			resp.Notifications = append(resp.Notifications, toNotificationDTO(n))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, n := range updated {
		uc.publish(ctx, EventUpdated, n)
	}
	for _, n := range created {
		uc.publish(ctx, EventCreated, n)
	}
	uc.log.Info().
		Str("company_id", in.CompanyID).
		Str("warehouse_id", in.WarehouseID).
		Str("product_id", in.ProductID).
		Str("quantity", in.Quantity.String()).
		Str("urgency", resp.Urgency).
		Int("created", len(created)).
		Bool("deduplicated", resp.Deduplicated).
		Msg("solicitud de stock entre sucursales")
	return &resp, nil
}

// Acknowledge marca la notificación como vista por la sucursal destino.
func (uc *UseCase) Acknowledge(ctx context.Context, companyID, id string) (*dto.BranchNotificationDTO, error) {
	var out *entity.BranchNotification
	err := uc.tx.Run(ctx, func(tx repository.Repos) error {
		n, err := lockNotification(ctx, tx, companyID, id)
		if err != nil {
			return err
		}
		if err := branch.MoveNotification(n, entity.NotificationAcknowledged); err != nil {
			return err
		}
		n.UpdatedAt = uc.now()
		if err := tx.Notifications.Update(ctx, n); err != nil {
			return err
		}
		out = n
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.publish(ctx, EventUpdated, out)
	res := toNotificationDTO(out)
	return &res, nil
}

// Get obtiene una notificación de la empresa.
func (uc *UseCase) Get(ctx context.Context, companyID, id string) (*dto.BranchNotificationDTO, error) {
	n, err := uc.repos.Notifications.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n == nil || n.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	res := toNotificationDTO(n)
	return &res, nil
}

// List lista notificaciones; con WarehouseID filtra por entrantes, salientes o ambas.
func (uc *UseCase) List(ctx context.Context, companyID string, in dto.NotificationListRequest) (*dto.BranchNotificationListResponse, error) {
	in.DefaultPage()
	if err := validation.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	list, err := uc.repos.Notifications.List(ctx, repository.NotificationFilter{
		CompanyID:   companyID,
		WarehouseID: in.WarehouseID,
		Direction:   in.Direction,
		Status:      in.Status,
		Limit:       in.Limit,
		Offset:      in.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.BranchNotificationDTO, 0, len(list))
	for _, n := range list {
		items = append(items, toNotificationDTO(n))
	}
	return &dto.BranchNotificationListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}, nil
}

func lockNotification(ctx context.Context, tx repository.Repos, companyID, id string) (*entity.BranchNotification, error) {
	n, err := tx.Notifications.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if n == nil || n.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return n, nil
}

// publish no falla la operación: la notificación ya quedó persistida.
func (uc *UseCase) publish(ctx context.Context, event string, n *entity.BranchNotification) {
	if uc.publisher == nil {
		return
	}
	if err := uc.publisher.PublishNotification(ctx, event, n); err != nil {
		uc.log.Warn().Err(err).
			Str("notification_id", n.ID).
			Str("to_warehouse_id", n.ToWarehouseID).
			Str("event", event).
			Msg("no se pudo publicar la notificación")
	}
}

// RequestStockFromRequest solicitud manual desde HTTP.
func (uc *UseCase) RequestStockFromRequest(ctx context.Context, companyID, userID string, in dto.RequestStockRequest) (*dto.RequestStockResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return uc.RequestStock(ctx, RequestStockInput{
		CompanyID:   companyID,
		UserID:      userID,
		WarehouseID: in.WarehouseID,
		ProductID:   in.ProductID,
		Quantity:    in.Quantity,
	})
}
