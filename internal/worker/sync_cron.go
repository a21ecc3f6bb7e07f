package worker

// sync_cron.go
// Background goroutine that periodically enqueues a reconciliation run, so
// purchases whose stock discount failed at creation time (best-effort) get
// picked up without operator intervention.

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// StartSincronizacionCron launches a goroutine that enqueues a
// reconciliation job every interval. Respects the context for shutdown.
func StartSincronizacionCron(ctx context.Context, dispatcher *Dispatcher, interval time.Duration) {
	if interval <= 0 {
		log.Info().Msg("sync_cron: disabled (interval <= 0)")
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		log.Info().Dur("interval", interval).Msg("sync_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("sync_cron: shutting down")
				return
			case <-ticker.C:
				if err := dispatcher.EnqueueSincronizacion(ctx, SincronizacionJobPayload{Solicitante: "cron"}); err != nil {
					log.Error().Err(err).Msg("sync_cron: failed to enqueue run")
				}
			}
		}
	}()
}
