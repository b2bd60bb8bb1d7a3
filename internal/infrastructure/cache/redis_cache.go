package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jhoicas/Inventario-pos/internal/application/branch"
	"github.com/jhoicas/Inventario-pos/internal/application/dto"
	"github.com/jhoicas/Inventario-pos/internal/application/pos"
	"github.com/jhoicas/Inventario-pos/internal/domain/entity"
	"github.com/jhoicas/Inventario-pos/pkg/config"
	redis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

var (
	_ pos.IdempotencyStore = (*RedisIdempotencyStore)(nil)
	_ branch.Publisher     = (*RedisPublisher)(nil)
)

const (
	idempotencyPrefix    = "pos:checkout:"
	notificationChannels = "branch:notifications:"
)

// NewClient abre el cliente y verifica la conexión con PING.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// RedisIdempotencyStore respuestas de checkout serializadas en JSON con TTL.
type RedisIdempotencyStore struct {
	client *redis.Client
}

// NewRedisIdempotencyStore construye el store sobre un cliente abierto.
func NewRedisIdempotencyStore(client *redis.Client) *RedisIdempotencyStore {
	return &RedisIdempotencyStore{client: client}
}

func (c *RedisIdempotencyStore) Get(ctx context.Context, key string) (*dto.CheckoutResponse, bool, error) {
	val, err := c.client.Get(ctx, idempotencyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var resp dto.CheckoutResponse
	if err := json.Unmarshal(val, &resp); err != nil {
		return nil, false, err
	}
	return &resp, true, nil
}

func (c *RedisIdempotencyStore) Set(ctx context.Context, key string, value *dto.CheckoutResponse, ttl time.Duration) error {
	if value == nil {
		return nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, idempotencyPrefix+key, payload, ttl).Err()
}

// NotificationEvent mensaje publicado en el canal de la bodega que debe responder.
type NotificationEvent struct {
	Event           string          `json:"event"`
	NotificationID  string          `json:"notification_id"`
	CompanyID       string          `json:"company_id"`
	FromWarehouseID string          `json:"from_warehouse_id"`
	ToWarehouseID   string          `json:"to_warehouse_id"`
	ProductID       string          `json:"product_id"`
	RequestedQty    decimal.Decimal `json:"requested_qty"`
	Status          string          `json:"status"`
	Priority        int             `json:"priority"`
	Urgent          bool            `json:"urgent"`
	IsBackup        bool            `json:"is_backup"`
	At              time.Time       `json:"at"`
}

// Channel canal pub/sub de una bodega.
func Channel(warehouseID string) string {
	return notificationChannels + warehouseID
}

func encodeEvent(event string, n *entity.BranchNotification) ([]byte, error) {
	return json.Marshal(NotificationEvent{
		Event:           event,
		NotificationID:  n.ID,
		CompanyID:       n.CompanyID,
		FromWarehouseID: n.FromWarehouseID,
		ToWarehouseID:   n.ToWarehouseID,
		ProductID:       n.ProductID,
		RequestedQty:    n.RequestedQty,
		Status:          n.Status,
		Priority:        n.Priority,
		Urgent:          n.Urgent,
		IsBackup:        n.IsBackup,
		At:              n.UpdatedAt,
	})
}

// RedisPublisher publica cada cambio en branch:notifications:<to_warehouse_id>.
type RedisPublisher struct {
	client *redis.Client
}

// NewRedisPublisher construye el publicador.
func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{client: client}
}

func (p *RedisPublisher) PublishNotification(ctx context.Context, event string, n *entity.BranchNotification) error {
	payload, err := encodeEvent(event, n)
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, Channel(n.ToWarehouseID), payload).Err()
}
