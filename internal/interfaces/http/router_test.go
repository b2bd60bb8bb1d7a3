package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-pos/internal/application/branch"
	"github.com/jhoicas/Inventario-pos/internal/application/cashregister"
	"github.com/jhoicas/Inventario-pos/internal/application/dto"
	"github.com/jhoicas/Inventario-pos/internal/application/inventory"
	"github.com/jhoicas/Inventario-pos/internal/application/order"
	"github.com/jhoicas/Inventario-pos/internal/application/pos"
	"github.com/jhoicas/Inventario-pos/internal/application/usecase"
	"github.com/jhoicas/Inventario-pos/internal/domain/entity"
	"github.com/jhoicas/Inventario-pos/internal/domain/repository"
	"github.com/jhoicas/Inventario-pos/internal/infrastructure/cache"
	"github.com/jhoicas/Inventario-pos/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/Inventario-pos/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Inventario-pos/pkg/jwt"
)

// newAPI arma el router completo sobre el store en memoria.
// Stock inicial: p1 con 3 en wh-a (más antiguo) y 10 en wh-b; caja reg-1 vacía.
func newAPI(t *testing.T) (*fiber.App, repository.Repos) {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	repos := store.Repos()
	now := time.Now()

	for i, w := range []entity.Warehouse{
		{ID: "wh-b", Name: "Sucursal B", Active: true},
		{ID: "wh-a", Name: "Sucursal A", Active: true},
		{ID: "wh-x", Name: "Cerrada", Active: false},
	} {
		w.CompanyID = testCompanyID
		w.Type = entity.WarehouseTypeSucursal
		w.CreatedAt = now.Add(time.Duration(i) * time.Minute)
		w.UpdatedAt = w.CreatedAt
		require.NoError(t, repos.Warehouses.Create(ctx, &w))
	}
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{
		ID: "p1", CompanyID: testCompanyID, SKU: "SKU-1", Name: "Licuadora",
		Price: decimal.RequireFromString("237.50"), MinStock: decimal.NewFromInt(5), ReorderPoint: decimal.NewFromInt(10),
	}))
	for wh, seed := range map[string]struct {
		qty int64
		age time.Duration
	}{"wh-a": {3, 2 * time.Hour}, "wh-b": {10, time.Hour}} {
		at := now.Add(-seed.age)
		row := entity.NewStock("p1", wh, at)
		require.NoError(t, row.Receive(decimal.NewFromInt(seed.qty), at))
		require.NoError(t, repos.Stock.Upsert(ctx, row))
	}
	require.NoError(t, repos.Registers.Create(ctx, &entity.CashRegister{
		ID: "reg-1", CompanyID: testCompanyID, WarehouseID: "wh-a", Balance: decimal.Zero, UpdatedAt: now,
	}))

	log := zerolog.Nop()
	txr := memory.NewTxRunner(store)
	branchUC := branch.NewUseCase(txr, repos, cache.NoopPublisher{}, 2, log)
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		WarehouseUC:      usecase.NewWarehouseUseCase(repos.Warehouses),
		ProductUC:        usecase.NewProductUseCase(repos.Products),
		CustomerUC:       usecase.NewCustomerUseCase(repos.Customers),
		RegisterMovement: inventory.NewRegisterMovementUseCase(txr, repos, log),
		Replenishment:    inventory.NewReplenishmentUseCase(repos),
		Checkout:         pos.NewCheckoutUseCase(txr, repos, cache.NoopIdempotencyStore{}, branchUC, time.Hour, log),
		OrderUC:          order.NewUseCase(txr, repos, log),
		CashRegisterUC:   cashregister.NewUseCase(txr, repos, log),
		BranchUC:         branchUC,
		JWTSecret:        testJWTSecret,
	})
	return app, repos
}

func call(t *testing.T, app *fiber.App, method, path, auth string, body any, out any) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestHealth(t *testing.T) {
	app, _ := newAPI(t)
	assert.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/health", "", nil, nil))
}

func TestWarehouses_ActivasPorNombre(t *testing.T) {
	app, _ := newAPI(t)

	var list []dto.WarehouseResponse
	status := call(t, app, http.MethodGet, "/api/warehouses", tokenFor(t, pkgjwt.RoleCajero, ""), nil, &list)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, list, 2)
	assert.Equal(t, "Sucursal A", list[0].Name)
	assert.Equal(t, "Sucursal B", list[1].Name)

	assert.Equal(t, http.StatusUnauthorized, call(t, app, http.MethodGet, "/api/warehouses", "", nil, nil))
	assert.Equal(t, http.StatusForbidden, call(t, app, http.MethodPost, "/api/warehouses",
		tokenFor(t, pkgjwt.RoleCajero, ""), dto.CreateWarehouseRequest{Name: "Nueva"}, nil))
}

func TestCheckout_StockInsuficiente(t *testing.T) {
	app, repos := newAPI(t)

	var body dto.ErrorResponse
	status := call(t, app, http.MethodPost, "/api/pos/checkout", tokenFor(t, pkgjwt.RoleCajero, "wh-a"), dto.CheckoutRequest{
		Items:   []dto.CheckoutItem{{ProductID: "p1", Quantity: decimal.NewFromInt(50)}},
		Payment: dto.CheckoutPayment{Method: entity.PaymentMethodCard},
	}, &body)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INSUFFICIENT_STOCK", body.Code)
	assert.True(t, body.IsStockError)
	require.Len(t, body.Shortages, 1)
	assert.True(t, body.Shortages[0].Available.Equal(decimal.NewFromInt(13)))

	orders, err := repos.Orders.ListByCompany(context.Background(), testCompanyID, "", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestCheckout_SinCambioPosible(t *testing.T) {
	app, _ := newAPI(t)

	var body dto.ErrorResponse
	status := call(t, app, http.MethodPost, "/api/pos/checkout", tokenFor(t, pkgjwt.RoleCajero, "wh-a"), map[string]any{
		"items": []map[string]any{{"product_id": "p1", "quantity": 1}},
		"payment": map[string]any{
			"method":      "CASH",
			"register_id": "reg-1",
			"tendered":    map[string]any{"billete_200": map[string]int{"count": 1}, "billete_100": map[string]int{"count": 1}},
		},
	}, &body)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "CANNOT_MAKE_CHANGE", body.Code)
}

func TestFlujoEntreSucursales(t *testing.T) {
	app, repos := newAPI(t)
	ctx := context.Background()
	cajero := tokenFor(t, pkgjwt.RoleCajero, "wh-a")
	bodegaB := tokenFor(t, pkgjwt.RoleBodeguero, "wh-b")

	var sale dto.CheckoutResponse
	status := call(t, app, http.MethodPost, "/api/pos/checkout", cajero, dto.CheckoutRequest{
		Items:          []dto.CheckoutItem{{ProductID: "p1", Quantity: decimal.NewFromInt(5)}},
		Payment:        dto.CheckoutPayment{Method: entity.PaymentMethodCard, Reference: "voucher-1"},
		IdempotencyKey: "venta-1",
	}, &sale)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, entity.OrderStatusEntregado, sale.Order.Status)
	require.Len(t, sale.NotificationIDs, 1)

	var replay dto.CheckoutResponse
	status = call(t, app, http.MethodPost, "/api/pos/checkout", cajero, dto.CheckoutRequest{
		Items:          []dto.CheckoutItem{{ProductID: "p1", Quantity: decimal.NewFromInt(5)}},
		Payment:        dto.CheckoutPayment{Method: entity.PaymentMethodCard},
		IdempotencyKey: "venta-1",
	}, &replay)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, replay.Duplicate)
	assert.Equal(t, sale.Order.ID, replay.Order.ID)

	var incoming dto.BranchNotificationListResponse
	status = call(t, app, http.MethodGet, "/api/branch-notifications?direction=incoming", bodegaB, nil, &incoming)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, incoming.Items, 1)
	n := incoming.Items[0]
	assert.Equal(t, "wh-a", n.FromWarehouseID)
	assert.True(t, n.RequestedQty.Equal(decimal.NewFromInt(2)))

	var acked dto.BranchNotificationDTO
	require.Equal(t, http.StatusOK, call(t, app, http.MethodPost, "/api/branch-notifications/"+n.ID+"/acknowledge", bodegaB, nil, &acked))
	assert.Equal(t, entity.NotificationAcknowledged, acked.Status)

	var responded dto.RespondNotificationResponse
	status = call(t, app, http.MethodPost, "/api/branch-notifications/"+n.ID+"/respond", bodegaB, dto.RespondNotificationRequest{
		ResponseType: entity.ResponseAccept, ConfirmedQty: decimal.NewFromInt(2),
	}, &responded)
	require.Equal(t, http.StatusOK, status)
	require.NotNil(t, responded.Transfer)
	transferID := responded.Transfer.ID

	assert.Equal(t, http.StatusConflict, call(t, app, http.MethodPost, "/api/branch-notifications/"+n.ID+"/respond", bodegaB,
		dto.RespondNotificationRequest{ResponseType: entity.ResponseReject}, nil))
	assert.Equal(t, http.StatusForbidden, call(t, app, http.MethodPost, "/api/branch-transfers/"+transferID+"/dispatch", cajero, nil, nil))

	var moved dto.BranchTransferDTO
	require.Equal(t, http.StatusOK, call(t, app, http.MethodPost, "/api/branch-transfers/"+transferID+"/dispatch", bodegaB, nil, &moved))
	assert.Equal(t, entity.TransferInTransit, moved.Status)
	require.Equal(t, http.StatusOK, call(t, app, http.MethodPost, "/api/branch-transfers/"+transferID+"/receive", bodegaB, nil, &moved))
	assert.Equal(t, entity.TransferReceived, moved.Status)
	assert.Equal(t, http.StatusConflict, call(t, app, http.MethodPost, "/api/branch-transfers/"+transferID+"/receive", bodegaB, nil, nil))

	a, err := repos.Stock.Get(ctx, "p1", "wh-a")
	require.NoError(t, err)
	assert.True(t, a.AvailableQty.Equal(decimal.NewFromInt(2)))
	b, err := repos.Stock.Get(ctx, "p1", "wh-b")
	require.NoError(t, err)
	assert.True(t, b.Quantity.Equal(decimal.NewFromInt(6)))
	assert.True(t, b.ReservedQty.IsZero())

	var stock dto.ProductStockResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/inventory/stock/p1", cajero, nil, &stock))
	assert.True(t, stock.TotalAvailable.Equal(decimal.NewFromInt(8)))
}

func TestCustomers_AltaYDuplicado(t *testing.T) {
	app, _ := newAPI(t)
	cajero := tokenFor(t, pkgjwt.RoleCajero, "wh-a")

	var created dto.CustomerResponse
	status := call(t, app, http.MethodPost, "/api/customers", cajero,
		dto.CreateCustomerRequest{Name: "Ana", TaxID: "XAXX010101000"}, &created)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, testCompanyID, created.CompanyID)

	assert.Equal(t, http.StatusConflict, call(t, app, http.MethodPost, "/api/customers", cajero,
		dto.CreateCustomerRequest{Name: "Ana", TaxID: "XAXX010101000"}, nil))
	assert.Equal(t, http.StatusForbidden, call(t, app, http.MethodPost, "/api/customers",
		tokenFor(t, pkgjwt.RoleBodeguero, ""), dto.CreateCustomerRequest{Name: "Beto", TaxID: "B1"}, nil))

	var list dto.CustomerListResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/customers",
		tokenFor(t, pkgjwt.RoleBodeguero, ""), nil, &list))
	assert.Len(t, list.Items, 1)
}
