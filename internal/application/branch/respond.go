package branch

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jhoicas/Inventario-pos/internal/application/dto"
	"github.com/jhoicas/Inventario-pos/internal/domain"
	"github.com/jhoicas/Inventario-pos/internal/domain/branch"
	"github.com/jhoicas/Inventario-pos/internal/domain/entity"
	"github.com/jhoicas/Inventario-pos/internal/domain/repository"
	"github.com/jhoicas/Inventario-pos/pkg/validation"
	"github.com/shopspring/decimal"
)

// Respond registra la única respuesta de la sucursal destino.
// ACCEPT y PARTIAL_ACCEPT reservan el stock del respondedor, crean el traslado
// y rechazan los respaldos hermanos que sigan abiertos. REJECT cierra la notificación.
func (uc *UseCase) Respond(ctx context.Context, companyID, userID, id string, in dto.RespondNotificationRequest) (*dto.RespondNotificationResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	target, err := branch.StatusForResponse(in.ResponseType)
	if err != nil {
		return nil, err
	}

	var (
		notification *entity.BranchNotification
		transfer     *entity.BranchStockTransfer
		siblings     []*entity.BranchNotification
	)
	err = uc.tx.Run(ctx, func(tx repository.Repos) error {
		n, err := lockNotification(ctx, tx, companyID, id)
		if err != nil {
			return err
		}
		prev, err := tx.Notifications.GetResponse(ctx, n.ID)
		if err != nil {
			return err
		}
		if prev != nil {
			return fmt.Errorf("%w: la notificación ya fue respondida", domain.ErrConflict)
		}
		if !branch.CanTransitionNotification(n.Status, target) {
			return fmt.Errorf("%w: notificación en estado %s", domain.ErrInvalidTransition, n.Status)
		}

		confirmed := decimal.Zero
		switch in.ResponseType {
		case entity.ResponseAccept:
			confirmed = n.RequestedQty
		case entity.ResponsePartialAccept:
			if !in.ConfirmedQty.IsPositive() || !in.ConfirmedQty.LessThan(n.RequestedQty) {
				return fmt.Errorf("%w: cantidad confirmada debe ser mayor a 0 y menor a %s", domain.ErrInvalidInput, n.RequestedQty)
			}
			confirmed = in.ConfirmedQty
		}

		now := uc.now()
		response := &entity.BranchNotificationResponse{
			ID:             uuid.New().String(),
			NotificationID: n.ID,
			ResponseType:   in.ResponseType,
			ConfirmedQty:   confirmed,
			Message:        in.Message,
			RespondedBy:    userID,
			CreatedAt:      now,
		}
		if err := tx.Notifications.CreateResponse(ctx, response); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				return fmt.Errorf("%w: la notificación ya fue respondida", domain.ErrConflict)
			}
			return err
		}
		if err := branch.MoveNotification(n, target); err != nil {
			return err
		}
		n.UpdatedAt = now
		if err := tx.Notifications.Update(ctx, n); err != nil {
			return err
		}
		notification = n

		if target != entity.NotificationAccepted {
			return nil
		}

		st, err := tx.Stock.GetForUpdate(ctx, n.ProductID, n.ToWarehouseID)
		if err != nil {
			return err
		}
		if err := st.Reserve(confirmed, now); err != nil {
			if errors.Is(err, domain.ErrInsufficientStock) {
				return &domain.StockShortageError{Shortages: []domain.Shortage{{
					ProductID: n.ProductID,
					Requested: confirmed,
					Available: st.AvailableQty,
				}}}
			}
			return err
		}
		if err := tx.Stock.Upsert(ctx, st); err != nil {
			return err
		}

		transfer = &entity.BranchStockTransfer{
			ID:              uuid.New().String(),
			NotificationID:  n.ID,
			CompanyID:       n.CompanyID,
			FromWarehouseID: n.ToWarehouseID,
			ToWarehouseID:   n.FromWarehouseID,
			ProductID:       n.ProductID,
			Quantity:        confirmed,
			Status:          entity.TransferPending,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := tx.Transfers.Create(ctx, transfer); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				return fmt.Errorf("%w: la notificación ya tiene traslado", domain.ErrConflict)
			}
			return err
		}

		siblings, err = uc.closeSiblings(ctx, tx, n)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.publish(ctx, EventResponded, notification)
	for _, s := range siblings {
		uc.publish(ctx, EventUpdated, s)
	}
	uc.log.Info().
		Str("notification_id", notification.ID).
		Str("response", in.ResponseType).
		Str("status", notification.Status).
		Int("siblings_rejected", len(siblings)).
		Msg("notificación respondida")

	return &dto.RespondNotificationResponse{
		Notification: toNotificationDTO(notification),
		Transfer:     toTransferDTO(transfer),
	}, nil
}

// closeSiblings rechaza las demás notificaciones abiertas de la misma solicitud (principal y respaldos).
func (uc *UseCase) closeSiblings(ctx context.Context, tx repository.Repos, accepted *entity.BranchNotification) ([]*entity.BranchNotification, error) {
	rootID := accepted.ID
	if accepted.ParentID != nil {
		rootID = *accepted.ParentID
	}
	family, err := tx.Notifications.ListByParent(ctx, rootID)
	if err != nil {
		return nil, err
	}
	if rootID != accepted.ID {
		root, err := tx.Notifications.GetForUpdate(ctx, rootID)
		if err != nil {
			return nil, err
		}
		if root != nil {
			family = append(family, root)
		}
	}

	var closed []*entity.BranchNotification
	for _, s := range family {
		if s.ID == accepted.ID || !s.IsOpen() {
			continue
		}
		if err := branch.MoveNotification(s, entity.NotificationRejected); err != nil {
			return nil, err
		}
		s.UpdatedAt = uc.now()
		if err := tx.Notifications.Update(ctx, s); err != nil {
			return nil, err
		}
		closed = append(closed, s)
	}
	return closed, nil
}
