package branch

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jhoicas/Inventario-pos/internal/application/dto"
	"github.com/jhoicas/Inventario-pos/internal/domain"
	"github.com/jhoicas/Inventario-pos/internal/domain/entity"
	"github.com/jhoicas/Inventario-pos/internal/domain/repository"
	"github.com/jhoicas/Inventario-pos/internal/infrastructure/memory"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const company = "company-1"

type published struct {
	event string
	id    string
	to    string
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []published
}

func (p *recordingPublisher) PublishNotification(_ context.Context, event string, n *entity.BranchNotification) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, published{event: event, id: n.ID, to: n.ToWarehouseID})
	return nil
}

func (p *recordingPublisher) count(event string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, e := range p.events {
		if e.event == event {
			n++
		}
	}
	return n
}

type fixture struct {
	ctx   context.Context
	store *memory.Store
	repos repository.Repos
	uc    *UseCase
	pub   *recordingPublisher
	now   time.Time
}

func qty(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	repos := store.Repos()
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	for _, w := range []entity.Warehouse{
		{ID: "wh-a", Name: "Sucursal A", Type: entity.WarehouseTypeSucursal, Active: true},
		{ID: "wh-b", Name: "Sucursal B", Type: entity.WarehouseTypeSucursal, Active: true},
		{ID: "wh-c", Name: "Central", Type: entity.WarehouseTypePrincipal, Active: true},
		{ID: "wh-d", Name: "Sucursal D", Type: entity.WarehouseTypeSucursal, Active: true},
		{ID: "wh-x", Name: "Cerrada", Type: entity.WarehouseTypeSucursal, Active: false},
	} {
		w.CompanyID = company
		w.CreatedAt, w.UpdatedAt = now, now
		require.NoError(t, repos.Warehouses.Create(ctx, &w))
	}
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{
		ID: "p1", CompanyID: company, SKU: "SKU-1", Name: "Arroz 1kg",
		Price: qty(25), MinStock: qty(5), ReorderPoint: qty(10),
	}))

	pub := &recordingPublisher{}
	uc := NewUseCase(memory.NewTxRunner(store), repos, pub, 2, zerolog.Nop())
	uc.now = func() time.Time { return now }
	return &fixture{ctx: ctx, store: store, repos: repos, uc: uc, pub: pub, now: now}
}

func (f *fixture) stock(t *testing.T, wh string, available int64) {
	t.Helper()
	row := entity.NewStock("p1", wh, f.now)
	if available > 0 {
		require.NoError(t, row.Receive(qty(available), f.now))
	}
	require.NoError(t, f.repos.Stock.Upsert(f.ctx, row))
}

func (f *fixture) available(t *testing.T, wh string) *entity.Stock {
	t.Helper()
	row, err := f.repos.Stock.Get(f.ctx, "p1", wh)
	require.NoError(t, err)
	return row
}

func (f *fixture) request(t *testing.T, wh string, n int64) *dto.RequestStockResponse {
	t.Helper()
	resp, err := f.uc.RequestStock(f.ctx, RequestStockInput{
		CompanyID: company, UserID: "u1", WarehouseID: wh, ProductID: "p1", Quantity: qty(n),
	})
	require.NoError(t, err)
	return resp
}

func TestRequestStock_PrincipalFirstWithBackupsWhenUrgent(t *testing.T) {
	f := newFixture(t)
	f.stock(t, "wh-a", 2)
	f.stock(t, "wh-b", 10)
	f.stock(t, "wh-c", 1)
	f.stock(t, "wh-d", 4)
	f.stock(t, "wh-x", 50)

	resp := f.request(t, "wh-a", 3)

	assert.Equal(t, "HIGH", resp.Urgency)
	require.Len(t, resp.Notifications, 3)
	primary := resp.Notifications[0]
	assert.Equal(t, "wh-c", primary.ToWarehouseID)
	assert.False(t, primary.IsBackup)
	assert.Equal(t, 2, primary.Priority)
	assert.Equal(t, "wh-b", resp.Notifications[1].ToWarehouseID)
	assert.Equal(t, "wh-d", resp.Notifications[2].ToWarehouseID)
	for _, b := range resp.Notifications[1:] {
		assert.True(t, b.IsBackup)
		require.NotNil(t, b.ParentID)
		assert.Equal(t, primary.ID, *b.ParentID)
		assert.True(t, b.RequestedQty.Equal(qty(3)))
	}
	assert.Equal(t, 3, f.pub.count(EventCreated))
}

func TestRequestStock_NotUrgentHasNoBackups(t *testing.T) {
	f := newFixture(t)
	f.stock(t, "wh-a", 20)
	f.stock(t, "wh-b", 10)
	f.stock(t, "wh-d", 4)

	resp := f.request(t, "wh-a", 3)

	assert.Equal(t, "NONE", resp.Urgency)
	require.Len(t, resp.Notifications, 1)
	assert.Equal(t, "wh-b", resp.Notifications[0].ToWarehouseID)
	assert.Equal(t, 3, resp.Notifications[0].Priority)
}

func TestRequestStock_BelowReorderPointIsUrgent(t *testing.T) {
	f := newFixture(t)
	f.stock(t, "wh-a", 7)
	f.stock(t, "wh-b", 10)
	f.stock(t, "wh-c", 10)
	f.stock(t, "wh-d", 10)

	resp := f.request(t, "wh-a", 3)

	assert.Equal(t, "MEDIUM", resp.Urgency)
	require.Len(t, resp.Notifications, 3)
	assert.Equal(t, "wh-c", resp.Notifications[0].ToWarehouseID)
	assert.False(t, resp.Notifications[0].IsBackup)
	for _, n := range resp.Notifications {
		assert.True(t, n.Urgent)
		assert.Equal(t, 3, n.Priority)
	}
	assert.True(t, resp.Notifications[1].IsBackup)
	assert.True(t, resp.Notifications[2].IsBackup)
}

func TestRequestStock_ProjectedDrivesUrgency(t *testing.T) {
	f := newFixture(t)
	f.stock(t, "wh-a", 3)
	f.stock(t, "wh-b", 10)

	projected := qty(-2)
	resp, err := f.uc.RequestStock(f.ctx, RequestStockInput{
		CompanyID: company, WarehouseID: "wh-a", ProductID: "p1", Quantity: qty(2), Projected: &projected,
	})
	require.NoError(t, err)
	assert.Equal(t, "CRITICAL", resp.Urgency)
	assert.Equal(t, 1, resp.Notifications[0].Priority)
	assert.True(t, resp.Notifications[0].Urgent)
}

func TestRequestStock_NoCandidates(t *testing.T) {
	f := newFixture(t)
	f.stock(t, "wh-a", 1)
	f.stock(t, "wh-b", 0)
	f.stock(t, "wh-x", 30)

	_, err := f.uc.RequestStock(f.ctx, RequestStockInput{
		CompanyID: company, WarehouseID: "wh-a", ProductID: "p1", Quantity: qty(2),
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	list, err := f.repos.Notifications.List(f.ctx, repository.NotificationFilter{CompanyID: company})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRequestStock_DeduplicatesOpenRequest(t *testing.T) {
	f := newFixture(t)
	f.stock(t, "wh-a", 20)
	f.stock(t, "wh-b", 10)

	first := f.request(t, "wh-a", 2)
	second := f.request(t, "wh-a", 3)

	assert.True(t, second.Deduplicated)
	require.Len(t, second.Notifications, 1)
	assert.Equal(t, first.Notifications[0].ID, second.Notifications[0].ID)
	assert.True(t, second.Notifications[0].RequestedQty.Equal(qty(5)))
	assert.Equal(t, 1, f.pub.count(EventUpdated))

	list, err := f.repos.Notifications.List(f.ctx, repository.NotificationFilter{CompanyID: company})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestRequestStock_DeduplicateGrowsOpenBackups(t *testing.T) {
	f := newFixture(t)
	f.stock(t, "wh-a", 7)
	f.stock(t, "wh-b", 10)
	f.stock(t, "wh-c", 10)
	f.stock(t, "wh-d", 10)

	first := f.request(t, "wh-a", 3)
	require.Len(t, first.Notifications, 3)
	_, err := f.uc.Respond(f.ctx, company, "u2", first.Notifications[2].ID, dto.RespondNotificationRequest{
		ResponseType: entity.ResponseReject,
	})
	require.NoError(t, err)

	second := f.request(t, "wh-a", 2)
	assert.True(t, second.Deduplicated)

	primary, err := f.repos.Notifications.GetByID(f.ctx, first.Notifications[0].ID)
	require.NoError(t, err)
	assert.True(t, primary.RequestedQty.Equal(qty(5)))
	open, err := f.repos.Notifications.GetByID(f.ctx, first.Notifications[1].ID)
	require.NoError(t, err)
	assert.True(t, open.RequestedQty.Equal(qty(5)))
	rejected, err := f.repos.Notifications.GetByID(f.ctx, first.Notifications[2].ID)
	require.NoError(t, err)
	assert.True(t, rejected.RequestedQty.Equal(qty(3)))
	assert.Equal(t, 2, f.pub.count(EventUpdated))
}

func TestRequestStock_OtherCompanyWarehouse(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.RequestStock(f.ctx, RequestStockInput{
		CompanyID: "other", WarehouseID: "wh-a", ProductID: "p1", Quantity: qty(1),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.uc.Get(f.ctx, "other", "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAcknowledgeThenList(t *testing.T) {
	f := newFixture(t)
	f.stock(t, "wh-a", 20)
	f.stock(t, "wh-b", 10)
	n := f.request(t, "wh-a", 2).Notifications[0]

	acked, err := f.uc.Acknowledge(f.ctx, company, n.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.NotificationAcknowledged, acked.Status)

	_, err = f.uc.Acknowledge(f.ctx, company, n.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	incoming, err := f.uc.List(f.ctx, company, dto.NotificationListRequest{WarehouseID: "wh-b", Direction: "incoming"})
	require.NoError(t, err)
	assert.Len(t, incoming.Items, 1)

	outgoing, err := f.uc.List(f.ctx, company, dto.NotificationListRequest{WarehouseID: "wh-b", Direction: "outgoing"})
	require.NoError(t, err)
	assert.Empty(t, outgoing.Items)

	_, err = f.uc.List(f.ctx, company, dto.NotificationListRequest{Direction: "sideways"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
