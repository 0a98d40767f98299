package worker

// overdue_cron.go
// Background goroutine that periodically scans the ledger for overdue issues
// (due date past, holder still outstanding) that have not been notified yet,
// marks them, and enqueues one reminder email per tick. The scan interval
// follows the stored settings, re-read on every pass so an admin change takes
// effect without a restart.

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rushilbhatia3/FMS/internal/repository"

	"github.com/rs/zerolog/log"
)

// minimum wall-clock gap between scans regardless of settings
const overdueTickFloor = time.Minute

// OverdueCronConfig holds all dependencies for the scan goroutine.
type OverdueCronConfig struct {
	Movements  repository.MovementRepository
	Settings   repository.SettingRepository
	Dispatcher *Dispatcher
}

// StartOverdueCron launches the periodic overdue scan. It respects the
// context for graceful shutdown.
func StartOverdueCron(ctx context.Context, cfg OverdueCronConfig) {
	go func() {
		log.Info().Msg("overdue_cron: started")
		for {
			interval := overdueTickFloor
			if s, err := cfg.Settings.Get(ctx); err == nil && s.ReminderFreqMinutes > 0 {
				interval = time.Duration(s.ReminderFreqMinutes) * time.Minute
			}
			select {
			case <-ctx.Done():
				log.Info().Msg("overdue_cron: shutting down")
				return
			case <-time.After(interval):
				scanOverdue(ctx, cfg)
			}
		}
	}()
}

func scanOverdue(ctx context.Context, cfg OverdueCronConfig) {
	setting, err := cfg.Settings.Get(ctx)
	if err != nil {
		log.Error().Err(err).Msg("overdue_cron: cannot load settings")
		return
	}
	if setting.AdminEmail == "" {
		log.Debug().Msg("overdue_cron: no admin email configured, skipping")
		return
	}

	rows, err := cfg.Movements.OverdueIssues(ctx, true, "", nil)
	if err != nil {
		log.Error().Err(err).Msg("overdue_cron: scan failed")
		return
	}
	if len(rows) == 0 {
		return
	}

	ids := make([]int64, len(rows))
	var b strings.Builder
	b.WriteString("The following issued items are past their due date:\n\n")
	for i, r := range rows {
		ids[i] = r.MovementID
		fmt.Fprintf(&b, "- %s (%s) x%d held by %s, due %s",
			r.ItemName, r.ItemSKU, -r.Qty, r.Holder, r.DueAt.Format("2006-01-02"))
		if r.SystemCode != "" {
			fmt.Fprintf(&b, " [%s/%s]", r.SystemCode, r.ShelfLabel)
		}
		b.WriteByte('\n')
	}

	// Claim before enqueueing so a crashed send cannot double-notify; the DLQ
	// keeps the failed job for manual replay.
	if err := cfg.Movements.MarkNotified(ctx, ids); err != nil {
		log.Error().Err(err).Msg("overdue_cron: mark notified failed")
		return
	}

	payload := ReminderJobPayload{
		ToEmail:     setting.AdminEmail,
		Subject:     fmt.Sprintf("Overdue items: %d issue(s) past due", len(rows)),
		Body:        b.String(),
		MovementIDs: ids,
	}
	if err := cfg.Dispatcher.EnqueueReminder(ctx, payload); err != nil {
		log.Error().Err(err).Msg("overdue_cron: enqueue failed")
		return
	}
	log.Info().Int("count", len(rows)).Msg("overdue_cron: reminder enqueued")
}
