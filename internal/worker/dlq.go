package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const DLQPrefix = "dlq:"

// DLQEntry wraps an exhausted job with its failure reason so an
// operator can inspect and replay it.
type DLQEntry struct {
	Queue    string          `json:"queue"`
	Payload  json.RawMessage `json:"payload"`
	Reason   string          `json:"reason"`
	FailedAt time.Time       `json:"failed_at"`
}

// SendToDLQ parks an exhausted job on the queue's dead letter list.
func SendToDLQ(ctx context.Context, rdb *redis.Client, queue string, payload interface{}, reason string) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	entry := DLQEntry{
		Queue:    queue,
		Payload:  data,
		Reason:   reason,
		FailedAt: time.Now().UTC(),
	}
	encoded, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	if err := rdb.LPush(ctx, DLQPrefix+queue, encoded).Err(); err != nil {
		return err
	}
	log.Warn().Str("queue", queue).Str("reason", reason).Msg("job sent to dead letter queue")
	return nil
}

// DLQLength reports how many jobs sit on the queue's dead letter list.
func DLQLength(ctx context.Context, rdb *redis.Client, queue string) (int64, error) {
	return rdb.LLen(ctx, DLQPrefix+queue).Result()
}
