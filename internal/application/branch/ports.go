package branch

import (
	"context"

	"github.com/jhoicas/Inventario-pos/internal/domain/entity"
	"github.com/jhoicas/Inventario-pos/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción con repositorios atados a ella.
type TxRunner interface {
	Run(ctx context.Context, fn func(tx repository.Repos) error) error
}

// Eventos publicados hacia la sucursal destino.
const (
	EventCreated   = "created"
	EventUpdated   = "updated"
	EventResponded = "responded"
	EventEscalated = "escalated"
)

// Publisher difunde cambios de notificaciones (Redis pub/sub o no-op).
type Publisher interface {
	PublishNotification(ctx context.Context, event string, n *entity.BranchNotification) error
}
