package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const deadLetterPrefix = "dlq:"

// FailedJob is a job that ran out of attempts, as stored in dlq:{queue}.
type FailedJob struct {
	Queue    string    `json:"queue"`
	Job      Job       `json:"job"`
	Reason   string    `json:"reason"`
	Attempts int       `json:"attempts"`
	FailedAt time.Time `json:"failedAt"`
}

// DeadLetters keeps failed jobs in one Redis list per source queue, newest
// first. Without a Redis client failed jobs are logged and discarded.
type DeadLetters struct {
	rdb *redis.Client
	now func() time.Time
}

func NewDeadLetters(rdb *redis.Client) *DeadLetters {
	return &DeadLetters{rdb: rdb, now: time.Now}
}

func (d *DeadLetters) enabled() bool { return d != nil && d.rdb != nil }

// Push records a failed job. Errors are logged only: the job is already lost
// for the live queue either way.
func (d *DeadLetters) Push(ctx context.Context, queue string, job Job, reason string, attempts int) {
	logger := log.With().Str("queue", queue).Str("job_type", job.Type).Str("reason", reason).Int("attempts", attempts).Logger()
	if !d.enabled() {
		logger.Warn().Msg("dlq: no redis, job discarded")
		return
	}
	data, err := json.Marshal(FailedJob{
		Queue:    queue,
		Job:      job,
		Reason:   reason,
		Attempts: attempts,
		FailedAt: d.now().UTC(),
	})
	if err != nil {
		logger.Error().Err(err).Msg("dlq: marshal")
		return
	}
	if err := d.rdb.LPush(ctx, deadLetterPrefix+queue, data).Err(); err != nil {
		logger.Error().Err(err).Msg("dlq: push")
		return
	}
	logger.Warn().Msg("dlq: job moved to dead letter queue")
}

// Len returns how many failed jobs queue has accumulated.
func (d *DeadLetters) Len(ctx context.Context, queue string) (int64, error) {
	if !d.enabled() {
		return 0, nil
	}
	return d.rdb.LLen(ctx, deadLetterPrefix+queue).Result()
}

// List returns up to limit failed jobs of queue, newest first. Entries that no
// longer decode are skipped.
func (d *DeadLetters) List(ctx context.Context, queue string, limit int64) ([]FailedJob, error) {
	if !d.enabled() {
		return []FailedJob{}, nil
	}
	if limit <= 0 {
		limit = 50
	}
	raws, err := d.rdb.LRange(ctx, deadLetterPrefix+queue, 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("dlq: list %s: %w", queue, err)
	}
	out := make([]FailedJob, 0, len(raws))
	for _, raw := range raws {
		var fj FailedJob
		if err := json.Unmarshal([]byte(raw), &fj); err != nil {
			log.Warn().Err(err).Str("queue", queue).Msg("dlq: corrupt entry")
			continue
		}
		out = append(out, fj)
	}
	return out, nil
}

// Requeue moves every failed job of queue back onto the live queue, oldest
// first, and returns how many were moved.
func (d *DeadLetters) Requeue(ctx context.Context, queue string) (int, error) {
	if !d.enabled() {
		return 0, nil
	}
	moved := 0
	for {
		raw, err := d.rdb.RPop(ctx, deadLetterPrefix+queue).Result()
		if err == redis.Nil {
			return moved, nil
		}
		if err != nil {
			return moved, fmt.Errorf("dlq: requeue %s: %w", queue, err)
		}
		var fj FailedJob
		if err := json.Unmarshal([]byte(raw), &fj); err != nil {
			log.Warn().Err(err).Str("queue", queue).Msg("dlq: dropping corrupt entry")
			continue
		}
		encoded, err := json.Marshal(fj.Job)
		if err != nil {
			return moved, err
		}
		if err := d.rdb.LPush(ctx, queue, encoded).Err(); err != nil {
			return moved, fmt.Errorf("dlq: requeue %s: %w", queue, err)
		}
		moved++
	}
}

// PendingLength returns how many jobs wait in queue.
func PendingLength(ctx context.Context, rdb *redis.Client, queue string) (int64, error) {
	if rdb == nil {
		return 0, nil
	}
	return rdb.LLen(ctx, queue).Result()
}
