package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"counterpos/internal/infra"
	"counterpos/internal/model"
	"counterpos/internal/repository"
)

// MaxSyncRetries is the number of sync attempts before a sale job is
// parked on the dead letter queue. The sale itself stays pending in the
// ledger and can be replayed manually.
const MaxSyncRetries = 5

// SyncWorker pushes pending sales to the external sync relay. A sale
// flips to synced only when the relay returns an accepted ack.
type SyncWorker struct {
	saleRepo repository.SaleRepository
	client   *infra.SyncClient
	cb       *infra.CircuitBreaker
	rdb      *redis.Client
}

func NewSyncWorker(saleRepo repository.SaleRepository, client *infra.SyncClient, cb *infra.CircuitBreaker, rdb *redis.Client) *SyncWorker {
	return &SyncWorker{saleRepo: saleRepo, client: client, cb: cb, rdb: rdb}
}

func (w *SyncWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload SyncJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("sync worker: invalid payload")
		return
	}

	saleID, err := uuid.Parse(payload.SaleID)
	if err != nil {
		log.Error().Str("sale_id", payload.SaleID).Msg("sync worker: malformed sale id")
		return
	}

	sale, err := w.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		log.Error().Err(err).Str("sale_id", payload.SaleID).Msg("sync worker: sale not found")
		return
	}
	if sale.SyncStatus == model.SyncSynced {
		return // already acked, nothing to do
	}

	if err := w.push(ctx, sale); err != nil {
		w.recordFailure(ctx, sale, err)
		return
	}

	if err := w.saleRepo.MarkSynced(ctx, sale.ID); err != nil {
		log.Error().Err(err).Str("sale_id", payload.SaleID).Msg("sync worker: failed to mark sale synced")
		return
	}
	log.Info().Str("sale_id", payload.SaleID).Int("receipt", sale.ReceiptNumber).Msg("sale synced")
}

// push sends the sale through the circuit breaker with a short
// in-process retry for transient relay hiccups.
func (w *SyncWorker) push(ctx context.Context, sale *model.Sale) error {
	payload := infra.SyncPayload{
		SaleID:        sale.ID.String(),
		ReceiptNumber: sale.ReceiptNumber,
		OperatorID:    sale.OperatorID.String(),
		Total:         sale.Total.StringFixed(2),
		PaymentMethod: sale.PaymentMethod,
		CreatedAt:     sale.CreatedAt.Format(time.RFC3339),
	}

	return withRetry(3, func() error {
		return w.cb.Execute(func() error {
			ack, err := w.client.Push(ctx, payload)
			if err != nil {
				return err
			}
			if !ack.Accepted {
				return fmt.Errorf("relay rejected sale: %s", ack.Message)
			}
			return nil
		})
	})
}

func (w *SyncWorker) recordFailure(ctx context.Context, sale *model.Sale, cause error) {
	attempts := sale.SyncAttempts + 1
	log.Warn().Err(cause).
		Str("sale_id", sale.ID.String()).
		Int("attempts", attempts).
		Msg("sale sync failed")

	if attempts >= MaxSyncRetries {
		if err := SendToDLQ(ctx, w.rdb, QueueSync, SyncJobPayload{SaleID: sale.ID.String()}, cause.Error()); err != nil {
			log.Error().Err(err).Str("sale_id", sale.ID.String()).Msg("failed to park sync job on DLQ")
		}
	}

	nextRetry := time.Now().Add(retryBackoff(attempts))
	if err := w.saleRepo.RecordSyncFailure(ctx, sale.ID, attempts, nextRetry, cause.Error()); err != nil {
		log.Error().Err(err).Str("sale_id", sale.ID.String()).Msg("failed to record sync failure")
	}
}

// retryBackoff returns the delay before the retry cron picks the sale
// up again: 1m, 2m, 4m, ... capped at 30m.
func retryBackoff(attempts int) time.Duration {
	d := time.Minute
	for i := 1; i < attempts; i++ {
		d *= 2
		if d >= 30*time.Minute {
			return 30 * time.Minute
		}
	}
	return d
}

// withRetry runs fn up to maxAttempts times with exponential backoff
// between attempts (1s, 2s). The first attempt runs immediately.
func withRetry(maxAttempts int, fn func() error) error {
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if attempt < maxAttempts {
			backoff := time.Duration(1<<(attempt-1)) * time.Second
			time.Sleep(backoff)
		}
	}
	return err
}
