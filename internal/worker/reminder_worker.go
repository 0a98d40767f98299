package worker

// reminder_worker.go
// Processes overdue reminder jobs from QueueReminder: one email per batch of
// overdue issues, sent through the SMTP circuit breaker.

import (
	"context"
	"encoding/json"

	"github.com/rushilbhatia3/FMS/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// ReminderJobPayload is the job envelope sent to QueueReminder.
type ReminderJobPayload struct {
	ToEmail     string  `json:"to_email"`
	Subject     string  `json:"subject"`
	Body        string  `json:"body"`
	MovementIDs []int64 `json:"movement_ids"`
}

// ReminderWorker sends overdue reminder emails. A tripped circuit breaker or
// SMTP failure moves the job to the DLQ instead of blocking the queue.
type ReminderWorker struct {
	mailer *infra.Mailer
	cb     *infra.CircuitBreaker
	rdb    *redis.Client
}

func NewReminderWorker(mailer *infra.Mailer, cb *infra.CircuitBreaker, rdb *redis.Client) *ReminderWorker {
	return &ReminderWorker{mailer: mailer, cb: cb, rdb: rdb}
}

func (w *ReminderWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload ReminderJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("reminder_worker: invalid payload")
		return
	}
	if payload.ToEmail == "" {
		log.Warn().Msg("reminder_worker: empty to_email, skipping")
		return
	}

	err := w.cb.Execute(func() error {
		return w.mailer.Send(payload.ToEmail, payload.Subject, payload.Body)
	})
	if err != nil {
		log.Error().Err(err).Str("to", payload.ToEmail).Msg("reminder_worker: send failed")
		SendToDLQ(ctx, w.rdb, QueueReminder, "reminder", raw, err.Error(), 1)
		return
	}
	log.Info().
		Str("to", payload.ToEmail).
		Int("issues", len(payload.MovementIDs)).
		Msg("reminder_worker: reminder sent")
}
