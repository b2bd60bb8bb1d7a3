package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/Inventario-pos/internal/domain"
	"github.com/jhoicas/Inventario-pos/internal/domain/entity"
	"github.com/jhoicas/Inventario-pos/internal/domain/repository"
)

var (
	_ repository.BranchNotificationRepository = (*BranchNotificationRepo)(nil)
	_ repository.BranchTransferRepository     = (*BranchTransferRepo)(nil)
)

// BranchNotificationRepo notificaciones y respuestas en memoria.
type BranchNotificationRepo struct{ base }

func (r *BranchNotificationRepo) Create(_ context.Context, n *entity.BranchNotification) error {
	return r.write(func(d *data) error {
		if _, ok := d.notifications[n.ID]; ok {
			return domain.ErrDuplicate
		}
		d.notifications[n.ID] = *n
		return nil
	})
}

func (r *BranchNotificationRepo) GetByID(_ context.Context, id string) (*entity.BranchNotification, error) {
	var out *entity.BranchNotification
	r.read(func(d *data) {
		if n, ok := d.notifications[id]; ok {
			out = &n
		}
	})
	return out, nil
}

func (r *BranchNotificationRepo) GetForUpdate(ctx context.Context, id string) (*entity.BranchNotification, error) {
	return r.GetByID(ctx, id)
}

func (r *BranchNotificationRepo) Update(_ context.Context, n *entity.BranchNotification) error {
	return r.write(func(d *data) error {
		if _, ok := d.notifications[n.ID]; !ok {
			return domain.ErrNotFound
		}
		d.notifications[n.ID] = *n
		return nil
	})
}

func (r *BranchNotificationRepo) List(_ context.Context, f repository.NotificationFilter) ([]*entity.BranchNotification, error) {
	list := r.collect(func(n *entity.BranchNotification) bool {
		if n.CompanyID != f.CompanyID || (f.Status != "" && n.Status != f.Status) {
			return false
		}
		if f.WarehouseID == "" {
			return true
		}
		switch f.Direction {
		case repository.DirectionIncoming:
			return n.ToWarehouseID == f.WarehouseID
		case repository.DirectionOutgoing:
			return n.FromWarehouseID == f.WarehouseID
		default:
			return n.ToWarehouseID == f.WarehouseID || n.FromWarehouseID == f.WarehouseID
		}
	})
	sort.Slice(list, func(i, j int) bool {
		if list[i].Priority != list[j].Priority {
			return list[i].Priority < list[j].Priority
		}
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return paginate(list, f.Limit, f.Offset), nil
}

func (r *BranchNotificationRepo) FindOpenPrimary(_ context.Context, companyID, fromWarehouseID, productID string) (*entity.BranchNotification, error) {
	list := r.collect(func(n *entity.BranchNotification) bool {
		return n.CompanyID == companyID && n.FromWarehouseID == fromWarehouseID &&
			n.ProductID == productID && !n.IsBackup && n.IsOpen()
	})
	if len(list) == 0 {
		return nil, nil
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list[0], nil
}

func (r *BranchNotificationRepo) ListByParent(_ context.Context, parentID string) ([]*entity.BranchNotification, error) {
	list := r.collect(func(n *entity.BranchNotification) bool {
		return n.ParentID != nil && *n.ParentID == parentID
	})
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list, nil
}

func (r *BranchNotificationRepo) ListEscalationCandidates(_ context.Context, olderThan time.Time, limit int) ([]*entity.BranchNotification, error) {
	list := r.collect(func(n *entity.BranchNotification) bool {
		return n.Urgent && n.Status == entity.NotificationPending && n.EscalatedAt == nil && n.CreatedAt.Before(olderThan)
	})
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return paginate(list, limit, 0), nil
}

func (r *BranchNotificationRepo) collect(match func(n *entity.BranchNotification) bool) []*entity.BranchNotification {
	var list []*entity.BranchNotification
	r.read(func(d *data) {
		for _, n := range d.notifications {
			if match(&n) {
				list = append(list, &n)
			}
		}
	})
	return list
}

func (r *BranchNotificationRepo) CreateResponse(_ context.Context, resp *entity.BranchNotificationResponse) error {
	return r.write(func(d *data) error {
		if _, ok := d.responses[resp.NotificationID]; ok {
			return domain.ErrDuplicate
		}
		d.responses[resp.NotificationID] = *resp
		return nil
	})
}

func (r *BranchNotificationRepo) GetResponse(_ context.Context, notificationID string) (*entity.BranchNotificationResponse, error) {
	var out *entity.BranchNotificationResponse
	r.read(func(d *data) {
		if resp, ok := d.responses[notificationID]; ok {
			out = &resp
		}
	})
	return out, nil
}

// BranchTransferRepo traslados en memoria. Uno por notificación.
type BranchTransferRepo struct{ base }

func (r *BranchTransferRepo) Create(_ context.Context, t *entity.BranchStockTransfer) error {
	return r.write(func(d *data) error {
		for _, existing := range d.transfers {
			if existing.ID == t.ID || existing.NotificationID == t.NotificationID {
				return domain.ErrDuplicate
			}
		}
		d.transfers[t.ID] = *t
		return nil
	})
}

func (r *BranchTransferRepo) GetByID(_ context.Context, id string) (*entity.BranchStockTransfer, error) {
	var out *entity.BranchStockTransfer
	r.read(func(d *data) {
		if t, ok := d.transfers[id]; ok {
			out = &t
		}
	})
	return out, nil
}

func (r *BranchTransferRepo) GetForUpdate(ctx context.Context, id string) (*entity.BranchStockTransfer, error) {
	return r.GetByID(ctx, id)
}

func (r *BranchTransferRepo) GetByNotification(_ context.Context, notificationID string) (*entity.BranchStockTransfer, error) {
	var out *entity.BranchStockTransfer
	r.read(func(d *data) {
		for _, t := range d.transfers {
			if t.NotificationID == notificationID {
				out = &t
				return
			}
		}
	})
	return out, nil
}

func (r *BranchTransferRepo) Update(_ context.Context, t *entity.BranchStockTransfer) error {
	return r.write(func(d *data) error {
		if _, ok := d.transfers[t.ID]; !ok {
			return domain.ErrNotFound
		}
		d.transfers[t.ID] = *t
		return nil
	})
}

func (r *BranchTransferRepo) ListByCompany(_ context.Context, companyID, status string, limit, offset int) ([]*entity.BranchStockTransfer, error) {
	var list []*entity.BranchStockTransfer
	r.read(func(d *data) {
		for _, t := range d.transfers {
			if t.CompanyID == companyID && (status == "" || t.Status == status) {
				list = append(list, &t)
			}
		}
	})
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return paginate(list, limit, offset), nil
}
