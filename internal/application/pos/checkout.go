package pos

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Inventario-pos/internal/application/branch"
	"github.com/jhoicas/Inventario-pos/internal/application/dto"
	"github.com/jhoicas/Inventario-pos/internal/application/order"
	"github.com/jhoicas/Inventario-pos/internal/domain"
	"github.com/jhoicas/Inventario-pos/internal/domain/cash"
	"github.com/jhoicas/Inventario-pos/internal/domain/entity"
	"github.com/jhoicas/Inventario-pos/internal/domain/repository"
	"github.com/jhoicas/Inventario-pos/internal/domain/stock"
	"github.com/jhoicas/Inventario-pos/pkg/validation"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// CheckoutUseCase venta de mostrador: valida stock y cambio, crea el pedido,
// descuenta stock FIFO entre bodegas, registra el pago y actualiza la caja en una sola transacción.
type CheckoutUseCase struct {
	tx        TxRunner
	repos     repository.Repos
	idem      IdempotencyStore
	requester StockRequester
	idemTTL   time.Duration
	log       zerolog.Logger
	now       func() time.Time
}

// NewCheckoutUseCase construye el caso de uso. idem y requester pueden ser nil.
func NewCheckoutUseCase(
	tx TxRunner,
	repos repository.Repos,
	idem IdempotencyStore,
	requester StockRequester,
	idemTTL time.Duration,
	log zerolog.Logger,
) *CheckoutUseCase {
	return &CheckoutUseCase{
		tx:        tx,
		repos:     repos,
		idem:      idem,
		requester: requester,
		idemTTL:   idemTTL,
		log:       log,
		now:       time.Now,
	}
}

// faltante local de la bodega de venta, a pedir a otras sucursales tras el commit.
type shortfall struct {
	productID string
	quantity  decimal.Decimal
	projected decimal.Decimal
}

type cartLine struct {
	productID string
	quantity  decimal.Decimal
	unitPrice decimal.Decimal
	subtotal  decimal.Decimal
}

// Checkout procesa la venta. Con stock insuficiente devuelve *domain.StockShortageError
// y con efectivo sin cambio posible domain.ErrCannotMakeChange; en ambos casos nada se escribe.
func (uc *CheckoutUseCase) Checkout(ctx context.Context, companyID, userID string, in dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if in.Payment.Method == entity.PaymentMethodCash {
		if in.Payment.Tendered == nil {
			return nil, fmt.Errorf("%w: falta el desglose recibido", domain.ErrInvalidInput)
		}
		if err := in.Payment.Tendered.Validate(); err != nil {
			return nil, err
		}
	}

	key := strings.TrimSpace(in.IdempotencyKey)
	if key != "" {
		prev, err := uc.lookup(ctx, companyID, key)
		if err != nil {
			return nil, err
		}
		if prev != nil {
			return prev, nil
		}
	}

	var (
		resp       *dto.CheckoutResponse
		shortfalls []shortfall
	)
	err := uc.tx.Run(ctx, func(tx repository.Repos) error {
		var err error
		resp, shortfalls, err = uc.checkoutTx(ctx, tx, companyID, userID, key, in)
		return err
	})
	if err != nil {
		if key != "" && errors.Is(err, domain.ErrDuplicate) {
			// otra terminal confirmó la misma llave mientras tanto
			if prev, lerr := uc.lookup(ctx, companyID, key); lerr == nil && prev != nil {
				return prev, nil
			}
		}
		ev := uc.log.Warn().Err(err).
			Str("company_id", companyID).
			Str("warehouse_id", in.WarehouseID).
			Str("method", in.Payment.Method).
			Int("items", len(in.Items))
		if s := domain.Shortages(err); len(s) > 0 {
			ev = ev.Interface("shortages", s)
		}
		ev.Msg("checkout rechazado")
		return nil, err
	}

	uc.requestShortfalls(ctx, companyID, userID, in.WarehouseID, resp, shortfalls)
	if key != "" {
		uc.remember(ctx, companyID, key, resp)
	}
	uc.log.Info().
		Str("order_id", resp.Order.ID).
		Str("company_id", companyID).
		Str("warehouse_id", in.WarehouseID).
		Str("total", resp.Order.Total.String()).
		Str("method", resp.Payment.Method).
		Int("notifications", len(resp.NotificationIDs)).
		Msg("checkout completado")
	return resp, nil
}

func (uc *CheckoutUseCase) checkoutTx(ctx context.Context, tx repository.Repos, companyID, userID, key string, in dto.CheckoutRequest) (*dto.CheckoutResponse, []shortfall, error) {
	now := uc.now()

	wh, err := tx.Warehouses.GetByID(ctx, in.WarehouseID)
	if err != nil {
		return nil, nil, err
	}
	if wh == nil || wh.CompanyID != companyID {
		return nil, nil, fmt.Errorf("%w: bodega %s", domain.ErrNotFound, in.WarehouseID)
	}
	if !wh.Active {
		return nil, nil, fmt.Errorf("%w: la bodega %s está inactiva", domain.ErrInvalidInput, wh.Name)
	}
	active, err := tx.Warehouses.ListActive(ctx, companyID)
	if err != nil {
		return nil, nil, err
	}
	activeIDs := make(map[string]bool, len(active))
	for _, w := range active {
		activeIDs[w.ID] = true
	}

	requested := make(map[string]decimal.Decimal)
	for _, it := range in.Items {
		requested[it.ProductID] = requested[it.ProductID].Add(it.Quantity)
	}
	// orden fijo de bloqueo entre terminales
	productIDs := make([]string, 0, len(requested))
	for id := range requested {
		productIDs = append(productIDs, id)
	}
	sort.Strings(productIDs)

	products := make(map[string]*entity.Product, len(productIDs))
	rows := make(map[string][]*entity.Stock, len(productIDs))
	var (
		shortages  []domain.Shortage
		shortfalls []shortfall
	)
	for _, pid := range productIDs {
		p, err := tx.Products.GetByID(ctx, pid)
		if err != nil {
			return nil, nil, err
		}
		if p == nil || p.CompanyID != companyID {
			return nil, nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, pid)
		}
		products[pid] = p

		locked, err := tx.Stock.ListByProductForUpdate(ctx, pid)
		if err != nil {
			return nil, nil, err
		}
		usable := locked[:0:0]
		local := decimal.Zero
		for _, r := range locked {
			if !activeIDs[r.WarehouseID] {
				continue
			}
			usable = append(usable, r)
			if r.WarehouseID == in.WarehouseID {
				local = r.AvailableQty
			}
		}
		rows[pid] = usable

		want := requested[pid]
		if total := stock.TotalAvailable(usable); total.LessThan(want) {
			shortages = append(shortages, domain.Shortage{ProductID: pid, Requested: want, Available: total})
			continue
		}
		if local.LessThan(want) {
			shortfalls = append(shortfalls, shortfall{
				productID: pid,
				quantity:  want.Sub(local),
				projected: local.Sub(want),
			})
		}
	}
	if len(shortages) > 0 {
		return nil, nil, &domain.StockShortageError{Shortages: shortages}
	}

	lines := make([]cartLine, 0, len(in.Items))
	subtotal := decimal.Zero
	for _, it := range in.Items {
		price := it.UnitPrice
		if price.IsZero() {
			price = products[it.ProductID].Price
		}
		sub := price.Mul(it.Quantity).Round(2)
		subtotal = subtotal.Add(sub)
		lines = append(lines, cartLine{productID: it.ProductID, quantity: it.Quantity, unitPrice: price, subtotal: sub})
	}
	total := subtotal

	payment := &entity.Payment{
		ID:        uuid.New().String(),
		Method:    in.Payment.Method,
		Amount:    total,
		Tendered:  total,
		Change:    decimal.Zero,
		Reference: in.Payment.Reference,
		CreatedAt: now,
	}

	// el cambio se resuelve antes de cualquier escritura
	var (
		register         *entity.CashRegister
		tendered, change cash.Breakdown
		drawer           cash.Breakdown
	)
	if in.Payment.Method == entity.PaymentMethodCash {
		register, err = tx.Registers.GetForUpdate(ctx, in.Payment.RegisterID)
		if err != nil {
			return nil, nil, err
		}
		if register == nil || register.CompanyID != companyID {
			return nil, nil, fmt.Errorf("%w: caja %s", domain.ErrNotFound, in.Payment.RegisterID)
		}
		tendered = *in.Payment.Tendered
		totalCents, err := cash.CentsFromDecimal(total)
		if err != nil {
			return nil, nil, err
		}
		if tendered.Total() < totalCents {
			return nil, nil, fmt.Errorf("%w: recibido %s, total %s", domain.ErrInsufficientPayment,
				tendered.TotalDecimal().StringFixed(2), total.StringFixed(2))
		}
		merged, err := cash.Merge(register.Breakdown, tendered)
		if err != nil {
			return nil, nil, err
		}
		change, err = cash.MakeChange(tendered.Total()-totalCents, merged)
		if err != nil {
			return nil, nil, err
		}
		drawer, err = cash.Subtract(merged, change)
		if err != nil {
			return nil, nil, err
		}
		payment.Tendered = tendered.TotalDecimal()
		payment.Change = change.TotalDecimal()
	}

	var customerID *string
	if in.Client != nil && strings.TrimSpace(in.Client.TaxID) != "" {
		c, err := upsertCustomer(ctx, tx, companyID, *in.Client, now)
		if err != nil {
			return nil, nil, err
		}
		customerID = &c.ID
	}

	o := &entity.Order{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		CustomerID:  customerID,
		WarehouseID: in.WarehouseID,
		Channel:     entity.OrderChannelPOS,
		Status:      entity.OrderStatusEntregado,
		Subtotal:    subtotal,
		Total:       total,
		CreatedBy:   userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if key != "" {
		o.IdempotencyKey = &key
	}
	if err := tx.Orders.Create(ctx, o); err != nil {
		return nil, nil, err
	}

	ref := "ORDER:" + o.ID
	var (
		items  []*entity.OrderItem
		allocs []*entity.OrderAllocation
	)
	dirty := make(map[*entity.Stock]bool)
	for _, l := range lines {
		item := &entity.OrderItem{
			ID:        uuid.New().String(),
			OrderID:   o.ID,
			ProductID: l.productID,
			Quantity:  l.quantity,
			UnitPrice: l.unitPrice,
			Subtotal:  l.subtotal,
		}
		if err := tx.Orders.CreateItem(ctx, item); err != nil {
			return nil, nil, err
		}
		items = append(items, item)

		parts, err := stock.AllocateFIFO(l.productID, rows[l.productID], l.quantity)
		if err != nil {
			return nil, nil, err
		}
		for _, part := range parts {
			row := findRow(rows[l.productID], part.WarehouseID)
			if err := row.Deduct(part.Quantity, now); err != nil {
				return nil, nil, fmt.Errorf("descontar %s en %s: %w", l.productID, part.WarehouseID, err)
			}
			dirty[row] = true

			alloc := &entity.OrderAllocation{
				ID:          uuid.New().String(),
				OrderItemID: item.ID,
				ProductID:   l.productID,
				WarehouseID: part.WarehouseID,
				Quantity:    part.Quantity,
			}
			if err := tx.Orders.CreateAllocation(ctx, alloc); err != nil {
				return nil, nil, err
			}
			allocs = append(allocs, alloc)

			if err := tx.Movements.Create(ctx, &entity.StockMovement{
				ID:          uuid.New().String(),
				CompanyID:   companyID,
				ProductID:   l.productID,
				WarehouseID: part.WarehouseID,
				Type:        entity.MovementTypeSale,
				Quantity:    part.Quantity.Neg(),
				Reference:   ref,
				CreatedBy:   userID,
				CreatedAt:   now,
			}); err != nil {
				return nil, nil, err
			}
		}
	}
	for _, pid := range productIDs {
		for _, r := range rows[pid] {
			if !dirty[r] {
				continue
			}
			if err := tx.Stock.Upsert(ctx, r); err != nil {
				return nil, nil, err
			}
		}
	}

	payment.OrderID = o.ID
	if err := tx.Payments.Create(ctx, payment); err != nil {
		return nil, nil, err
	}

	resp := &dto.CheckoutResponse{
		Order:   order.Response(o, items, allocs),
		Payment: order.PaymentResponse(payment),
	}
	if register != nil {
		register.Breakdown = drawer
		register.Balance = register.Balance.Add(total)
		register.UpdatedAt = now
		if err := tx.Registers.Update(ctx, register); err != nil {
			return nil, nil, err
		}
		if err := tx.Registers.CreateTransaction(ctx, &entity.CashTransaction{
			ID:         uuid.New().String(),
			RegisterID: register.ID,
			Type:       entity.CashTxSale,
			Amount:     tendered.TotalDecimal(),
			Breakdown:  tendered,
			Reference:  ref,
			CreatedBy:  userID,
			CreatedAt:  now,
		}); err != nil {
			return nil, nil, err
		}
		if !change.IsZero() {
			if err := tx.Registers.CreateTransaction(ctx, &entity.CashTransaction{
				ID:         uuid.New().String(),
				RegisterID: register.ID,
				Type:       entity.CashTxChange,
				Amount:     change.TotalDecimal().Neg(),
				Breakdown:  change,
				Reference:  ref,
				CreatedBy:  userID,
				CreatedAt:  now,
			}); err != nil {
				return nil, nil, err
			}
		}
		resp.Change = &change
	}
	return resp, shortfalls, nil
}

func findRow(rows []*entity.Stock, warehouseID string) *entity.Stock {
	for _, r := range rows {
		if r.WarehouseID == warehouseID {
			return r
		}
	}
	return nil
}

func upsertCustomer(ctx context.Context, tx repository.Repos, companyID string, in dto.CheckoutClient, now time.Time) (*entity.Customer, error) {
	taxID := strings.TrimSpace(in.TaxID)
	c, err := tx.Customers.GetByCompanyAndTaxID(ctx, companyID, taxID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		c = &entity.Customer{
			ID:        uuid.New().String(),
			CompanyID: companyID,
			Name:      in.Name,
			TaxID:     taxID,
			Email:     in.Email,
			Phone:     in.Phone,
			CreatedAt: now,
			UpdatedAt: now,
		}
		return c, tx.Customers.Create(ctx, c)
	}
	if in.Name != "" {
		c.Name = in.Name
	}
	if in.Email != "" {
		c.Email = in.Email
	}
	if in.Phone != "" {
		c.Phone = in.Phone
	}
	c.UpdatedAt = now
	return c, tx.Customers.Update(ctx, c)
}

// requestShortfalls notifica a otras sucursales lo que faltó en la bodega de venta.
// Un fallo aquí no deshace la venta: queda en el log y en NotificationsFailed.
func (uc *CheckoutUseCase) requestShortfalls(ctx context.Context, companyID, userID, warehouseID string, resp *dto.CheckoutResponse, shortfalls []shortfall) {
	if uc.requester == nil {
		return
	}
	orderID := resp.Order.ID
	for _, s := range shortfalls {
		projected := s.projected
		r, err := uc.requester.RequestStock(ctx, branch.RequestStockInput{
			CompanyID:   companyID,
			UserID:      userID,
			WarehouseID: warehouseID,
			ProductID:   s.productID,
			Quantity:    s.quantity,
			Projected:   &projected,
			OrderID:     &orderID,
		})
		if err != nil {
			uc.log.Error().Err(err).
				Str("order_id", orderID).
				Str("product_id", s.productID).
				Str("warehouse_id", warehouseID).
				Str("quantity", s.quantity.String()).
				Msg("no se pudo notificar el faltante a otras sucursales")
			resp.NotificationsFailed = append(resp.NotificationsFailed, s.productID)
			continue
		}
		for _, n := range r.Notifications {
			resp.NotificationIDs = append(resp.NotificationIDs, n.ID)
		}
	}
}
