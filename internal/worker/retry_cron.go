package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"counterpos/internal/infra"
	"counterpos/internal/repository"
)

const (
	retryInterval  = 30 * time.Second
	retryBatchSize = 10
)

// StartRetryCron periodically re-enqueues pending sales whose next
// retry time has passed. The sync worker itself does the pushing; the
// cron only feeds the queue, and stays quiet while the breaker is open.
func StartRetryCron(ctx context.Context, saleRepo repository.SaleRepository, dispatcher *Dispatcher, cb *infra.CircuitBreaker) {
	go func() {
		ticker := time.NewTicker(retryInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("sync retry cron stopped")
				return
			case <-ticker.C:
				processRetries(ctx, saleRepo, dispatcher, cb)
			}
		}
	}()
	log.Info().Dur("interval", retryInterval).Msg("sync retry cron started")
}

func processRetries(ctx context.Context, saleRepo repository.SaleRepository, dispatcher *Dispatcher, cb *infra.CircuitBreaker) {
	if cb.State() == infra.CBOpen {
		log.Debug().Msg("retry cron: circuit open, skipping cycle")
		return
	}

	sales, err := saleRepo.ListPendingSync(ctx, time.Now(), retryBatchSize)
	if err != nil {
		log.Error().Err(err).Msg("retry cron: failed to list pending sales")
		return
	}
	if len(sales) == 0 {
		return
	}

	for _, sale := range sales {
		if err := dispatcher.EnqueueSync(ctx, SyncJobPayload{SaleID: sale.ID.String()}); err != nil {
			log.Error().Err(err).Str("sale_id", sale.ID.String()).Msg("retry cron: enqueue failed")
			continue
		}
	}
	log.Info().Int("count", len(sales)).Msg("retry cron: re-enqueued pending sales")
}
