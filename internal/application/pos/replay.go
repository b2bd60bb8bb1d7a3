package pos

import (
	"context"
	"fmt"

	"github.com/jhoicas/Inventario-pos/internal/application/dto"
	"github.com/jhoicas/Inventario-pos/internal/application/order"
	"github.com/jhoicas/Inventario-pos/internal/domain"
	"github.com/jhoicas/Inventario-pos/internal/domain/cash"
	"github.com/jhoicas/Inventario-pos/pkg/validation"
)

func idemKey(companyID, key string) string { return companyID + ":" + key }

// lookup busca una venta previa con la misma llave: primero en cache y luego en la base.
// Devuelve nil si la llave no se ha usado.
func (uc *CheckoutUseCase) lookup(ctx context.Context, companyID, key string) (*dto.CheckoutResponse, error) {
	if uc.idem != nil {
		resp, ok, err := uc.idem.Get(ctx, idemKey(companyID, key))
		if err != nil {
			uc.log.Warn().Err(err).Str("key", key).Msg("cache de idempotencia no disponible, se consulta la base")
		} else if ok {
			resp.Duplicate = true
			return resp, nil
		}
	}

	o, err := uc.repos.Orders.GetByIdempotencyKey(ctx, companyID, key)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, nil
	}
	items, err := uc.repos.Orders.ListItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	allocs, err := uc.repos.Orders.ListAllocations(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	payments, err := uc.repos.Payments.ListByOrder(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	resp := &dto.CheckoutResponse{
		Order:     order.Response(o, items, allocs),
		Duplicate: true,
	}
	if len(payments) > 0 {
		resp.Payment = order.PaymentResponse(payments[0])
	}
	uc.remember(ctx, companyID, key, resp)
	return resp, nil
}

func (uc *CheckoutUseCase) remember(ctx context.Context, companyID, key string, resp *dto.CheckoutResponse) {
	if uc.idem == nil {
		return
	}
	stored := *resp
	stored.Duplicate = false
	if err := uc.idem.Set(ctx, idemKey(companyID, key), &stored, uc.idemTTL); err != nil {
		uc.log.Warn().Err(err).Str("key", key).Msg("no se pudo guardar la respuesta idempotente")
	}
}

// PreviewChange calcula el cambio que daría la caja sin modificarla.
func (uc *CheckoutUseCase) PreviewChange(ctx context.Context, companyID string, in dto.ChangePreviewRequest) (*dto.ChangePreviewResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if err := in.Tendered.Validate(); err != nil {
		return nil, err
	}
	reg, err := uc.repos.Registers.GetByID(ctx, in.RegisterID)
	if err != nil {
		return nil, err
	}
	if reg == nil || reg.CompanyID != companyID {
		return nil, fmt.Errorf("%w: caja %s", domain.ErrNotFound, in.RegisterID)
	}
	amount, err := cash.CentsFromDecimal(in.Amount)
	if err != nil {
		return nil, err
	}
	if in.Tendered.Total() < amount {
		return nil, fmt.Errorf("%w: recibido %s, total %s", domain.ErrInsufficientPayment,
			in.Tendered.TotalDecimal().StringFixed(2), in.Amount.StringFixed(2))
	}
	merged, err := cash.Merge(reg.Breakdown, in.Tendered)
	if err != nil {
		return nil, err
	}
	pieces, err := cash.MakeChange(in.Tendered.Total()-amount, merged)
	if err != nil {
		return nil, err
	}
	return &dto.ChangePreviewResponse{
		Amount:   in.Amount,
		Tendered: in.Tendered.TotalDecimal(),
		Change:   pieces.TotalDecimal(),
		Pieces:   pieces,
	}, nil
}
