package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const QueueReminder = "jobs:reminder"

// Job is the generic envelope for all async tasks.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueReminder pushes an overdue reminder email job to Redis.
func (d *Dispatcher) EnqueueReminder(ctx context.Context, payload interface{}) error {
	return d.enqueue(ctx, QueueReminder, "reminder", payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	job := Job{Type: jobType, Payload: data}
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// Handler consumes one decoded job payload.
type Handler interface {
	Process(ctx context.Context, payload json.RawMessage)
}

// StartWorkerPool launches numWorkers goroutines consuming the reminder
// queue. Each goroutine blocks on BRPOP — zero CPU when idle.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, numWorkers int, handler Handler) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, i, handler)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, id int, handler Handler) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop — waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, QueueReminder).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			var job Job
			if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
				log.Error().Str("queue", result[0]).Err(err).Msg("failed to unmarshal job")
				continue
			}
			handler.Process(ctx, job.Payload)
		}
	}
}
