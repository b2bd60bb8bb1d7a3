// Package cashregister consultas y operaciones de caja fuera del cobro: depósitos,
// retiros y arqueo contra el desglose del sistema.
package cashregister

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Inventario-pos/internal/application/dto"
	"github.com/jhoicas/Inventario-pos/internal/domain"
	"github.com/jhoicas/Inventario-pos/internal/domain/cash"
	"github.com/jhoicas/Inventario-pos/internal/domain/entity"
	"github.com/jhoicas/Inventario-pos/internal/domain/repository"
	"github.com/jhoicas/Inventario-pos/pkg/validation"
	"github.com/rs/zerolog"
)

// TxRunner ejecuta fn dentro de una transacción con repositorios atados a ella.
type TxRunner interface {
	Run(ctx context.Context, fn func(tx repository.Repos) error) error
}

type UseCase struct {
	tx    TxRunner
	repos repository.Repos
	log   zerolog.Logger
	now   func() time.Time
}

func NewUseCase(tx TxRunner, repos repository.Repos, log zerolog.Logger) *UseCase {
	return &UseCase{tx: tx, repos: repos, log: log, now: time.Now}
}

// Get caja de la empresa con su desglose.
func (uc *UseCase) Get(ctx context.Context, companyID, id string) (*dto.CashRegisterResponse, error) {
	r, err := uc.repos.Registers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil || r.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return toResponse(r), nil
}

// Transactions libro de la caja, más recientes primero.
func (uc *UseCase) Transactions(ctx context.Context, companyID, id string, page dto.PageRequest) (*dto.CashTransactionListResponse, error) {
	if _, err := uc.Get(ctx, companyID, id); err != nil {
		return nil, err
	}
	page.DefaultPage()
	list, err := uc.repos.Registers.ListTransactions(ctx, id, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CashTransactionDTO, 0, len(list))
	for _, t := range list {
		items = append(items, dto.CashTransactionDTO{
			ID:        t.ID,
			Type:      t.Type,
			Amount:    t.Amount,
			Breakdown: t.Breakdown,
			Reference: t.Reference,
			CreatedBy: t.CreatedBy,
			CreatedAt: t.CreatedAt,
		})
	}
	return &dto.CashTransactionListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Deposit agrega piezas a la caja.
func (uc *UseCase) Deposit(ctx context.Context, companyID, userID, id string, in dto.CashMovementRequest) (*dto.CashRegisterResponse, error) {
	return uc.move(ctx, companyID, userID, id, entity.CashTxDeposit, in)
}

// Withdraw retira piezas. Si alguna denominación quedaría negativa devuelve
// domain.ErrRegisterNegative y la caja no cambia.
func (uc *UseCase) Withdraw(ctx context.Context, companyID, userID, id string, in dto.CashMovementRequest) (*dto.CashRegisterResponse, error) {
	return uc.move(ctx, companyID, userID, id, entity.CashTxWithdrawal, in)
}

func (uc *UseCase) move(ctx context.Context, companyID, userID, id, kind string, in dto.CashMovementRequest) (*dto.CashRegisterResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if err := in.Breakdown.Validate(); err != nil {
		return nil, err
	}
	if in.Breakdown.IsZero() {
		return nil, fmt.Errorf("%w: desglose vacío", domain.ErrInvalidInput)
	}

	var out *entity.CashRegister
	err := uc.tx.Run(ctx, func(tx repository.Repos) error {
		r, err := lockRegister(ctx, tx, companyID, id)
		if err != nil {
			return err
		}
		amount := in.Breakdown.TotalDecimal()
		if kind == entity.CashTxDeposit {
			r.Breakdown, err = cash.Merge(r.Breakdown, in.Breakdown)
			r.Balance = r.Balance.Add(amount)
		} else {
			r.Breakdown, err = cash.Subtract(r.Breakdown, in.Breakdown)
			r.Balance = r.Balance.Sub(amount)
			amount = amount.Neg()
		}
		if err != nil {
			return err
		}
		now := uc.now()
		r.UpdatedAt = now
		if err := tx.Registers.Update(ctx, r); err != nil {
			return err
		}
		if err := tx.Registers.CreateTransaction(ctx, &entity.CashTransaction{
			ID:         uuid.New().String(),
			RegisterID: r.ID,
			Type:       kind,
			Amount:     amount,
			Breakdown:  in.Breakdown,
			Reference:  in.Reference,
			CreatedBy:  userID,
			CreatedAt:  now,
		}); err != nil {
			return err
		}
		out = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("register_id", id).Str("type", kind).Str("amount", in.Breakdown.TotalDecimal().String()).Msg("movimiento de caja")
	return toResponse(out), nil
}

// Reconcile compara el conteo declarado con el desglose del sistema y registra
// un movimiento RECONCILIATION con la diferencia. La caja queda con lo declarado.
func (uc *UseCase) Reconcile(ctx context.Context, companyID, userID, id string, in dto.ReconcileRequest) (*dto.ReconcileResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if err := in.Declared.Validate(); err != nil {
		return nil, err
	}

	var out dto.ReconcileResponse
	err := uc.tx.Run(ctx, func(tx repository.Repos) error {
		r, err := lockRegister(ctx, tx, companyID, id)
		if err != nil {
			return err
		}
		diff := cash.Diff(in.Declared, r.Breakdown)
		expected := r.Breakdown.TotalDecimal()
		declared := in.Declared.TotalDecimal()
		out = dto.ReconcileResponse{
			RegisterID:    r.ID,
			Expected:      expected,
			Declared:      declared,
			Difference:    declared.Sub(expected),
			Denominations: map[string]int64{},
			Balanced:      diff.IsZero(),
		}
		for i, n := range diff {
			if n != 0 {
				out.Denominations[cash.Denominations[i].Name] = n
			}
		}

		now := uc.now()
		r.Breakdown = in.Declared
		r.Balance = r.Balance.Add(out.Difference)
		r.UpdatedAt = now
		if err := tx.Registers.Update(ctx, r); err != nil {
			return err
		}
		return tx.Registers.CreateTransaction(ctx, &entity.CashTransaction{
			ID:         uuid.New().String(),
			RegisterID: r.ID,
			Type:       entity.CashTxReconciliation,
			Amount:     out.Difference,
			Breakdown:  in.Declared,
			Reference:  in.Notes,
			CreatedBy:  userID,
			CreatedAt:  now,
		})
	})
	if err != nil {
		return nil, err
	}
	ev := uc.log.Info()
	if !out.Balanced {
		ev = uc.log.Warn().Interface("denominations", out.Denominations)
	}
	ev.Str("register_id", id).Str("difference", out.Difference.String()).Msg("arqueo de caja")
	return &out, nil
}

func lockRegister(ctx context.Context, tx repository.Repos, companyID, id string) (*entity.CashRegister, error) {
	r, err := tx.Registers.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil || r.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return r, nil
}

func toResponse(r *entity.CashRegister) *dto.CashRegisterResponse {
	return &dto.CashRegisterResponse{
		ID:          r.ID,
		WarehouseID: r.WarehouseID,
		UserID:      r.UserID,
		Location:    r.Location,
		Balance:     r.Balance,
		Breakdown:   r.Breakdown,
		Total:       r.Breakdown.TotalDecimal(),
		UpdatedAt:   r.UpdatedAt,
	}
}
