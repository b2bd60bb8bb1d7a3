package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Inventario-pos/internal/domain"
	"github.com/jhoicas/Inventario-pos/internal/domain/entity"
	"github.com/jhoicas/Inventario-pos/internal/domain/repository"
)

var (
	_ repository.BranchNotificationRepository = (*BranchNotificationRepo)(nil)
	_ repository.BranchTransferRepository     = (*BranchTransferRepo)(nil)
)

const notificationColumns = `id, company_id, from_warehouse_id, to_warehouse_id, product_id,
	requested_qty, available_qty, status, priority, urgent, is_backup, parent_id, order_id,
	escalated_at, created_by, created_at, updated_at`

// BranchNotificationRepo notificaciones entre sucursales y sus respuestas.
type BranchNotificationRepo struct {
	q Querier
}

// NewBranchNotificationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBranchNotificationRepository(q Querier) *BranchNotificationRepo {
	return &BranchNotificationRepo{q: q}
}

func scanNotification(row pgx.Row) (*entity.BranchNotification, error) {
	var n entity.BranchNotification
	err := row.Scan(&n.ID, &n.CompanyID, &n.FromWarehouseID, &n.ToWarehouseID, &n.ProductID,
		&n.RequestedQty, &n.AvailableQty, &n.Status, &n.Priority, &n.Urgent, &n.IsBackup,
		&n.ParentID, &n.OrderID, &n.EscalatedAt, &n.CreatedBy, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// Create persiste una notificación.
func (r *BranchNotificationRepo) Create(ctx context.Context, n *entity.BranchNotification) error {
	query := `
		INSERT INTO branch_notifications (` + notificationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(ctx, query,
		n.ID, n.CompanyID, n.FromWarehouseID, n.ToWarehouseID, n.ProductID,
		n.RequestedQty, n.AvailableQty, n.Status, n.Priority, n.Urgent, n.IsBackup,
		n.ParentID, n.OrderID, n.EscalatedAt, n.CreatedBy, n.CreatedAt, n.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert branch notification: %w", err)
	}
	return nil
}

func (r *BranchNotificationRepo) getOne(ctx context.Context, query string, args ...any) (*entity.BranchNotification, error) {
	n, err := scanNotification(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get branch notification: %w", err)
	}
	return n, nil
}

// GetByID obtiene una notificación por ID.
func (r *BranchNotificationRepo) GetByID(ctx context.Context, id string) (*entity.BranchNotification, error) {
	return r.getOne(ctx, `SELECT `+notificationColumns+` FROM branch_notifications WHERE id = $1`, id)
}

// GetForUpdate obtiene la notificación bloqueando la fila.
func (r *BranchNotificationRepo) GetForUpdate(ctx context.Context, id string) (*entity.BranchNotification, error) {
	return r.getOne(ctx, `SELECT `+notificationColumns+` FROM branch_notifications WHERE id = $1 FOR UPDATE`, id)
}

// Update persiste estado, bandera de escalamiento y cantidades.
func (r *BranchNotificationRepo) Update(ctx context.Context, n *entity.BranchNotification) error {
	query := `
		UPDATE branch_notifications
		SET status = $2, requested_qty = $3, available_qty = $4, priority = $5, urgent = $6,
			escalated_at = $7, updated_at = $8
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		n.ID, n.Status, n.RequestedQty, n.AvailableQty, n.Priority, n.Urgent, n.EscalatedAt, n.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update branch notification: %w", err)
	}
	return nil
}

// List arma el WHERE según los filtros presentes. Sin dirección se listan entrantes y salientes.
func (r *BranchNotificationRepo) List(ctx context.Context, f repository.NotificationFilter) ([]*entity.BranchNotification, error) {
	conds := []string{"company_id = $1"}
	args := []any{f.CompanyID}
	if f.WarehouseID != "" {
		args = append(args, f.WarehouseID)
		p := fmt.Sprintf("$%d", len(args))
		switch f.Direction {
		case repository.DirectionIncoming:
			conds = append(conds, "to_warehouse_id = "+p)
		case repository.DirectionOutgoing:
			conds = append(conds, "from_warehouse_id = "+p)
		default:
			conds = append(conds, "(to_warehouse_id = "+p+" OR from_warehouse_id = "+p+")")
		}
	}
	if f.Status != "" {
		args = append(args, f.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	args = append(args, f.Limit, f.Offset)
	query := `
		SELECT ` + notificationColumns + `
		FROM branch_notifications
		WHERE ` + strings.Join(conds, " AND ") + fmt.Sprintf(`
		ORDER BY priority, created_at DESC, id LIMIT $%d OFFSET $%d`, len(args)-1, len(args))
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list branch notifications: %w", err)
	}
	return collect(rows, scanNotification)
}

// FindOpenPrimary notificación principal abierta para el mismo solicitante y producto.
func (r *BranchNotificationRepo) FindOpenPrimary(ctx context.Context, companyID, fromWarehouseID, productID string) (*entity.BranchNotification, error) {
	query := `
		SELECT ` + notificationColumns + `
		FROM branch_notifications
		WHERE company_id = $1 AND from_warehouse_id = $2 AND product_id = $3
			AND status IN ('PENDING', 'ACKNOWLEDGED') AND NOT is_backup
		ORDER BY created_at
		LIMIT 1
		FOR UPDATE`
	return r.getOne(ctx, query, companyID, fromWarehouseID, productID)
}

// ListByParent respaldos de una notificación principal.
func (r *BranchNotificationRepo) ListByParent(ctx context.Context, parentID string) ([]*entity.BranchNotification, error) {
	query := `
		SELECT ` + notificationColumns + `
		FROM branch_notifications WHERE parent_id = $1 ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query, parentID)
	if err != nil {
		return nil, fmt.Errorf("list backup notifications: %w", err)
	}
	return collect(rows, scanNotification)
}

// ListEscalationCandidates urgentes sin respuesta ni escalamiento más viejas que olderThan.
func (r *BranchNotificationRepo) ListEscalationCandidates(ctx context.Context, olderThan time.Time, limit int) ([]*entity.BranchNotification, error) {
	query := `
		SELECT ` + notificationColumns + `
		FROM branch_notifications
		WHERE urgent AND status = 'PENDING' AND escalated_at IS NULL AND created_at < $1
		ORDER BY created_at LIMIT $2`
	rows, err := r.q.Query(ctx, query, olderThan, limit)
	if err != nil {
		return nil, fmt.Errorf("list escalation candidates: %w", err)
	}
	return collect(rows, scanNotification)
}

// CreateResponse guarda la respuesta. La restricción única sobre notification_id devuelve domain.ErrDuplicate.
func (r *BranchNotificationRepo) CreateResponse(ctx context.Context, resp *entity.BranchNotificationResponse) error {
	query := `
		INSERT INTO branch_notification_responses
			(id, notification_id, response_type, confirmed_qty, message, responded_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		resp.ID, resp.NotificationID, resp.ResponseType, resp.ConfirmedQty, resp.Message, resp.RespondedBy, resp.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert branch notification response: %w", err)
	}
	return nil
}

// GetResponse respuesta de la notificación, (nil, nil) si aún no hay.
func (r *BranchNotificationRepo) GetResponse(ctx context.Context, notificationID string) (*entity.BranchNotificationResponse, error) {
	query := `
		SELECT id, notification_id, response_type, confirmed_qty, message, responded_by, created_at
		FROM branch_notification_responses WHERE notification_id = $1`
	var resp entity.BranchNotificationResponse
	err := r.q.QueryRow(ctx, query, notificationID).Scan(
		&resp.ID, &resp.NotificationID, &resp.ResponseType, &resp.ConfirmedQty, &resp.Message, &resp.RespondedBy, &resp.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get branch notification response: %w", err)
	}
	return &resp, nil
}

const transferColumns = `id, notification_id, company_id, from_warehouse_id, to_warehouse_id, product_id,
	quantity, status, handled_by, shipped_at, received_by, received_at, created_at, updated_at`

// BranchTransferRepo traslados físicos entre sucursales.
type BranchTransferRepo struct {
	q Querier
}

// NewBranchTransferRepository construye el adaptador de traslados.
func NewBranchTransferRepository(q Querier) *BranchTransferRepo {
	return &BranchTransferRepo{q: q}
}

func scanTransfer(row pgx.Row) (*entity.BranchStockTransfer, error) {
	var t entity.BranchStockTransfer
	err := row.Scan(&t.ID, &t.NotificationID, &t.CompanyID, &t.FromWarehouseID, &t.ToWarehouseID, &t.ProductID,
		&t.Quantity, &t.Status, &t.HandledBy, &t.ShippedAt, &t.ReceivedBy, &t.ReceivedAt, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create persiste un traslado; uno por notificación.
func (r *BranchTransferRepo) Create(ctx context.Context, t *entity.BranchStockTransfer) error {
	query := `
		INSERT INTO branch_stock_transfers (` + transferColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.NotificationID, t.CompanyID, t.FromWarehouseID, t.ToWarehouseID, t.ProductID,
		t.Quantity, t.Status, t.HandledBy, t.ShippedAt, t.ReceivedBy, t.ReceivedAt, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert branch transfer: %w", err)
	}
	return nil
}

func (r *BranchTransferRepo) getOne(ctx context.Context, query, arg string) (*entity.BranchStockTransfer, error) {
	t, err := scanTransfer(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get branch transfer: %w", err)
	}
	return t, nil
}

// GetByID obtiene un traslado por ID.
func (r *BranchTransferRepo) GetByID(ctx context.Context, id string) (*entity.BranchStockTransfer, error) {
	return r.getOne(ctx, `SELECT `+transferColumns+` FROM branch_stock_transfers WHERE id = $1`, id)
}

// GetForUpdate obtiene el traslado bloqueando la fila.
func (r *BranchTransferRepo) GetForUpdate(ctx context.Context, id string) (*entity.BranchStockTransfer, error) {
	return r.getOne(ctx, `SELECT `+transferColumns+` FROM branch_stock_transfers WHERE id = $1 FOR UPDATE`, id)
}

// GetByNotification traslado generado por una notificación.
func (r *BranchTransferRepo) GetByNotification(ctx context.Context, notificationID string) (*entity.BranchStockTransfer, error) {
	return r.getOne(ctx, `SELECT `+transferColumns+` FROM branch_stock_transfers WHERE notification_id = $1`, notificationID)
}

// Update persiste estado y datos de despacho y recepción.
func (r *BranchTransferRepo) Update(ctx context.Context, t *entity.BranchStockTransfer) error {
	query := `
		UPDATE branch_stock_transfers
		SET status = $2, handled_by = $3, shipped_at = $4, received_by = $5, received_at = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query, t.ID, t.Status, t.HandledBy, t.ShippedAt, t.ReceivedBy, t.ReceivedAt, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update branch transfer: %w", err)
	}
	return nil
}

// ListByCompany traslados de la empresa, más recientes primero. status vacío no filtra.
func (r *BranchTransferRepo) ListByCompany(ctx context.Context, companyID, status string, limit, offset int) ([]*entity.BranchStockTransfer, error) {
	query := `
		SELECT ` + transferColumns + `
		FROM branch_stock_transfers
		WHERE company_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC, id LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, companyID, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list branch transfers: %w", err)
	}
	return collect(rows, scanTransfer)
}
