package branch

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/jhoicas/Inventario-pos/internal/application/dto"
	"github.com/jhoicas/Inventario-pos/internal/domain"
	"github.com/jhoicas/Inventario-pos/internal/domain/branch"
	"github.com/jhoicas/Inventario-pos/internal/domain/entity"
	"github.com/jhoicas/Inventario-pos/internal/domain/repository"
)

// DispatchTransfer PENDING -> IN_TRANSIT; registra quién despacha y cuándo.
func (uc *UseCase) DispatchTransfer(ctx context.Context, companyID, userID, id string) (*dto.BranchTransferDTO, error) {
	var out *entity.BranchStockTransfer
	err := uc.tx.Run(ctx, func(tx repository.Repos) error {
		t, err := lockTransfer(ctx, tx, companyID, id)
		if err != nil {
			return err
		}
		if err := branch.MoveTransfer(t, entity.TransferInTransit); err != nil {
			return err
		}
		now := uc.now()
		t.HandledBy = &userID
		t.ShippedAt = &now
		t.UpdatedAt = now
		if err := tx.Transfers.Update(ctx, t); err != nil {
			return err
		}
		out = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("transfer_id", out.ID).Str("handled_by", userID).Msg("traslado despachado")
	return toTransferDTO(out), nil
}

// ReceiveTransfer IN_TRANSIT -> RECEIVED. Completa la notificación, consume la reserva
// en origen, ingresa el stock en destino y registra el par de movimientos. Se aplica una sola vez.
func (uc *UseCase) ReceiveTransfer(ctx context.Context, companyID, userID, id string) (*dto.BranchTransferDTO, error) {
	var (
		out          *entity.BranchStockTransfer
		notification *entity.BranchNotification
	)
	err := uc.tx.Run(ctx, func(tx repository.Repos) error {
		t, err := lockTransfer(ctx, tx, companyID, id)
		if err != nil {
			return err
		}
		if err := branch.MoveTransfer(t, entity.TransferReceived); err != nil {
			return err
		}
		now := uc.now()
		t.ReceivedBy = &userID
		t.ReceivedAt = &now
		t.UpdatedAt = now

		n, err := tx.Notifications.GetForUpdate(ctx, t.NotificationID)
		if err != nil {
			return err
		}
		if n == nil {
			return fmt.Errorf("%w: notificación %s del traslado", domain.ErrNotFound, t.NotificationID)
		}
		if err := branch.MoveNotification(n, entity.NotificationCompleted); err != nil {
			return err
		}
		n.UpdatedAt = now

		// bloqueo en orden de bodega para no cruzarse con otro traslado en sentido inverso
		whs := []string{t.FromWarehouseID, t.ToWarehouseID}
		sort.Strings(whs)
		rows := make(map[string]*entity.Stock, 2)
		for _, wh := range whs {
			st, err := tx.Stock.GetForUpdate(ctx, t.ProductID, wh)
			if err != nil {
				return err
			}
			rows[wh] = st
		}
		source, dest := rows[t.FromWarehouseID], rows[t.ToWarehouseID]
		if err := source.ConsumeReserved(t.Quantity, now); err != nil {
			return fmt.Errorf("traslado %s: reserva en origen: %w", t.ID, err)
		}
		if err := dest.Receive(t.Quantity, now); err != nil {
			return fmt.Errorf("traslado %s: ingreso en destino: %w", t.ID, err)
		}
		if err := tx.Stock.Upsert(ctx, source); err != nil {
			return err
		}
		if err := tx.Stock.Upsert(ctx, dest); err != nil {
			return err
		}

		ref := "TRANSFER:" + t.ID
		movements := []*entity.StockMovement{
			{
				ID: uuid.New().String(), CompanyID: t.CompanyID, ProductID: t.ProductID,
				WarehouseID: t.FromWarehouseID, Type: entity.MovementTypeTransferOut,
				Quantity: t.Quantity.Neg(), Reference: ref, CreatedBy: userID, CreatedAt: now,
			},
			{
				ID: uuid.New().String(), CompanyID: t.CompanyID, ProductID: t.ProductID,
				WarehouseID: t.ToWarehouseID, Type: entity.MovementTypeTransferIn,
				Quantity: t.Quantity, Reference: ref, CreatedBy: userID, CreatedAt: now,
			},
		}
		for _, m := range movements {
			if err := tx.Movements.Create(ctx, m); err != nil {
				return err
			}
		}
		if err := tx.Notifications.Update(ctx, n); err != nil {
			return err
		}
		if err := tx.Transfers.Update(ctx, t); err != nil {
			return err
		}
		out, notification = t, n
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.publish(ctx, EventUpdated, notification)
	uc.log.Info().
		Str("transfer_id", out.ID).
		Str("from_warehouse_id", out.FromWarehouseID).
		Str("to_warehouse_id", out.ToWarehouseID).
		Str("quantity", out.Quantity.String()).
		Msg("traslado recibido")
	return toTransferDTO(out), nil
}

// GetTransfer obtiene un traslado de la empresa.
func (uc *UseCase) GetTransfer(ctx context.Context, companyID, id string) (*dto.BranchTransferDTO, error) {
	t, err := uc.repos.Transfers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil || t.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return toTransferDTO(t), nil
}

// ListTransfers lista traslados de la empresa, opcionalmente por estado.
func (uc *UseCase) ListTransfers(ctx context.Context, companyID, status string, page dto.PageRequest) ([]dto.BranchTransferDTO, error) {
	page.DefaultPage()
	list, err := uc.repos.Transfers.ListByCompany(ctx, companyID, status, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BranchTransferDTO, 0, len(list))
	for _, t := range list {
		out = append(out, *toTransferDTO(t))
	}
	return out, nil
}

func lockTransfer(ctx context.Context, tx repository.Repos, companyID, id string) (*entity.BranchStockTransfer, error) {
	t, err := tx.Transfers.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil || t.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return t, nil
}
