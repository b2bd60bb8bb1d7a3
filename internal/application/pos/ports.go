package pos

import (
	"context"
	"time"

	"github.com/jhoicas/Inventario-pos/internal/application/branch"
	"github.com/jhoicas/Inventario-pos/internal/application/dto"
	"github.com/jhoicas/Inventario-pos/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción con repositorios atados a ella.
type TxRunner interface {
	Run(ctx context.Context, fn func(tx repository.Repos) error) error
}

// IdempotencyStore guarda la respuesta de un checkout bajo su llave de idempotencia.
type IdempotencyStore interface {
	Get(ctx context.Context, key string) (*dto.CheckoutResponse, bool, error)
	Set(ctx context.Context, key string, resp *dto.CheckoutResponse, ttl time.Duration) error
}

// StockRequester pide a otras sucursales el faltante local de una venta.
type StockRequester interface {
	RequestStock(ctx context.Context, in branch.RequestStockInput) (*dto.RequestStockResponse, error)
}
