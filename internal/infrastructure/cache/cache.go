// Package cache adapta Redis para la idempotencia del checkout y la difusión de notificaciones entre sucursales.
// Sin REDIS_ADDR se usan las variantes Noop.
package cache

import (
	"context"
	"time"

	"github.com/jhoicas/Inventario-pos/internal/application/branch"
	"github.com/jhoicas/Inventario-pos/internal/application/dto"
	"github.com/jhoicas/Inventario-pos/internal/application/pos"
	"github.com/jhoicas/Inventario-pos/internal/domain/entity"
)

var (
	_ pos.IdempotencyStore = NoopIdempotencyStore{}
	_ branch.Publisher     = NoopPublisher{}
)

// NoopIdempotencyStore nunca encuentra nada; la réplica cae en la búsqueda por base de datos.
type NoopIdempotencyStore struct{}

func (NoopIdempotencyStore) Get(_ context.Context, _ string) (*dto.CheckoutResponse, bool, error) {
	return nil, false, nil
}

func (NoopIdempotencyStore) Set(_ context.Context, _ string, _ *dto.CheckoutResponse, _ time.Duration) error {
	return nil
}

// NoopPublisher descarta los eventos.
type NoopPublisher struct{}

func (NoopPublisher) PublishNotification(_ context.Context, _ string, _ *entity.BranchNotification) error {
	return nil
}
