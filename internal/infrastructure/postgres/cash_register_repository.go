package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Inventario-pos/internal/domain/cash"
	"github.com/jhoicas/Inventario-pos/internal/domain/entity"
	"github.com/jhoicas/Inventario-pos/internal/domain/repository"
)

var _ repository.CashRegisterRepository = (*CashRegisterRepo)(nil)

const registerColumns = `id, company_id, user_id, warehouse_id, location, balance, breakdown, updated_at`

// CashRegisterRepo cajas y su libro de movimientos. El desglose se guarda como JSONB.
type CashRegisterRepo struct {
	q Querier
}

// NewCashRegisterRepository construye el adaptador de cajas. Pasar pool o tx (Querier).
func NewCashRegisterRepository(q Querier) *CashRegisterRepo {
	return &CashRegisterRepo{q: q}
}

func decodeBreakdown(raw []byte) (cash.Breakdown, error) {
	var b cash.Breakdown
	if len(raw) == 0 {
		return b, nil
	}
	if err := json.Unmarshal(raw, &b); err != nil {
		return b, fmt.Errorf("decode breakdown: %w", err)
	}
	return b, nil
}

func scanRegister(row pgx.Row) (*entity.CashRegister, error) {
	var (
		c   entity.CashRegister
		raw []byte
	)
	if err := row.Scan(&c.ID, &c.CompanyID, &c.UserID, &c.WarehouseID, &c.Location, &c.Balance, &raw, &c.UpdatedAt); err != nil {
		return nil, err
	}
	b, err := decodeBreakdown(raw)
	if err != nil {
		return nil, err
	}
	c.Breakdown = b
	return &c, nil
}

// Create persiste una caja.
func (r *CashRegisterRepo) Create(ctx context.Context, c *entity.CashRegister) error {
	raw, err := json.Marshal(c.Breakdown)
	if err != nil {
		return fmt.Errorf("encode breakdown: %w", err)
	}
	query := `
		INSERT INTO cash_registers (` + registerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err = r.q.Exec(ctx, query, c.ID, c.CompanyID, c.UserID, c.WarehouseID, c.Location, c.Balance, raw, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert cash register: %w", err)
	}
	return nil
}

func (r *CashRegisterRepo) getOne(ctx context.Context, query, id string) (*entity.CashRegister, error) {
	c, err := scanRegister(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cash register: %w", err)
	}
	return c, nil
}

// GetByID obtiene una caja por ID.
func (r *CashRegisterRepo) GetByID(ctx context.Context, id string) (*entity.CashRegister, error) {
	return r.getOne(ctx, `SELECT `+registerColumns+` FROM cash_registers WHERE id = $1`, id)
}

// GetForUpdate obtiene la caja bloqueando la fila.
func (r *CashRegisterRepo) GetForUpdate(ctx context.Context, id string) (*entity.CashRegister, error) {
	return r.getOne(ctx, `SELECT `+registerColumns+` FROM cash_registers WHERE id = $1 FOR UPDATE`, id)
}

// Update persiste balance y desglose.
func (r *CashRegisterRepo) Update(ctx context.Context, c *entity.CashRegister) error {
	raw, err := json.Marshal(c.Breakdown)
	if err != nil {
		return fmt.Errorf("encode breakdown: %w", err)
	}
	query := `UPDATE cash_registers SET balance = $2, breakdown = $3, updated_at = $4 WHERE id = $1`
	if _, err := r.q.Exec(ctx, query, c.ID, c.Balance, raw, c.UpdatedAt); err != nil {
		return fmt.Errorf("update cash register: %w", err)
	}
	return nil
}

const cashTxColumns = `id, register_id, type, amount, breakdown, reference, created_by, created_at`

// CreateTransaction agrega un movimiento al libro de la caja.
func (r *CashRegisterRepo) CreateTransaction(ctx context.Context, t *entity.CashTransaction) error {
	raw, err := json.Marshal(t.Breakdown)
	if err != nil {
		return fmt.Errorf("encode breakdown: %w", err)
	}
	query := `
		INSERT INTO cash_transactions (` + cashTxColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err = r.q.Exec(ctx, query, t.ID, t.RegisterID, t.Type, t.Amount, raw, t.Reference, t.CreatedBy, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert cash transaction: %w", err)
	}
	return nil
}

// ListTransactions movimientos de la caja, más recientes primero.
func (r *CashRegisterRepo) ListTransactions(ctx context.Context, registerID string, limit, offset int) ([]*entity.CashTransaction, error) {
	query := `
		SELECT ` + cashTxColumns + `
		FROM cash_transactions WHERE register_id = $1
		ORDER BY created_at DESC, id LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, registerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list cash transactions: %w", err)
	}
	return collect(rows, func(row pgx.Row) (*entity.CashTransaction, error) {
		var (
			t   entity.CashTransaction
			raw []byte
		)
		if err := row.Scan(&t.ID, &t.RegisterID, &t.Type, &t.Amount, &raw, &t.Reference, &t.CreatedBy, &t.CreatedAt); err != nil {
			return nil, err
		}
		b, err := decodeBreakdown(raw)
		if err != nil {
			return nil, err
		}
		t.Breakdown = b
		return &t, nil
	})
}
