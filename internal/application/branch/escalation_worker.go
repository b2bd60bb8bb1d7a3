package branch

import (
	"context"
	"time"

	"github.com/jhoicas/Inventario-pos/internal/domain/entity"
	"github.com/jhoicas/Inventario-pos/internal/domain/repository"
	"github.com/rs/zerolog"
)

const escalationBatch = 100

// EscalationWorker vuelve a publicar las notificaciones urgentes que siguen PENDING
// después de `after` y las marca con EscalatedAt para no repetirlas.
type EscalationWorker struct {
	tx        TxRunner
	repos     repository.Repos
	publisher Publisher
	interval  time.Duration
	after     time.Duration
	log       zerolog.Logger
	now       func() time.Time
}

// NewEscalationWorker construye el worker. Valores no positivos toman 1 minuto y 30 minutos.
func NewEscalationWorker(tx TxRunner, repos repository.Repos, publisher Publisher, interval, after time.Duration, log zerolog.Logger) *EscalationWorker {
	if interval <= 0 {
		interval = time.Minute
	}
	if after <= 0 {
		after = 30 * time.Minute
	}
	return &EscalationWorker{
		tx:        tx,
		repos:     repos,
		publisher: publisher,
		interval:  interval,
		after:     after,
		log:       log,
		now:       time.Now,
	}
}

// Start corre hasta que ctx se cancele.
func (w *EscalationWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.log.Info().Dur("interval", w.interval).Dur("after", w.after).Msg("worker de escalamiento iniciado")
	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("worker de escalamiento detenido")
			return
		case <-ticker.C:
			func() {
				defer func() {
					if r := recover(); r != nil {
						w.log.Error().Interface("panic", r).Msg("panic en escalamiento, se reintenta en el siguiente ciclo")
					}
				}()
				n, err := w.RunOnce(ctx)
				if err != nil {
					w.log.Error().Err(err).Msg("escalamiento de notificaciones")
					return
				}
				if n > 0 {
					w.log.Info().Int("escalated", n).Msg("notificaciones escaladas")
				}
			}()
		}
	}
}

// RunOnce procesa un lote y devuelve cuántas notificaciones escaló.
func (w *EscalationWorker) RunOnce(ctx context.Context) (int, error) {
	now := w.now()
	candidates, err := w.repos.Notifications.ListEscalationCandidates(ctx, now.Add(-w.after), escalationBatch)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, c := range candidates {
		var escalated *entity.BranchNotification
		err := w.tx.Run(ctx, func(tx repository.Repos) error {
			n, err := tx.Notifications.GetForUpdate(ctx, c.ID)
			if err != nil || n == nil {
				return err
			}
			// otra instancia pudo haberla escalado o respondido
			if n.Status != entity.NotificationPending || n.EscalatedAt != nil {
				return nil
			}
			n.EscalatedAt = &now
			n.UpdatedAt = now
			if err := tx.Notifications.Update(ctx, n); err != nil {
				return err
			}
			escalated = n
			return nil
		})
		if err != nil {
			return count, err
		}
		if escalated == nil {
			continue
		}
		count++
		if w.publisher != nil {
			if err := w.publisher.PublishNotification(ctx, EventEscalated, escalated); err != nil {
				w.log.Warn().Err(err).Str("notification_id", escalated.ID).Msg("no se pudo publicar escalamiento")
			}
		}
	}
	return count, nil
}
