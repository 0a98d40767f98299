package main

// Standalone overdue notifier: runs the periodic overdue scan and the
// reminder worker pool without the HTTP server, for deployments that want
// notification delivery isolated from the API process. Point the API at the
// same database and redis and set WORKER_POOL_SIZE to 0 there.

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rushilbhatia3/FMS/internal/config"
	"github.com/rushilbhatia3/FMS/internal/infra"
	"github.com/rushilbhatia3/FMS/internal/repository"
	"github.com/rushilbhatia3/FMS/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mailer := infra.NewMailer(cfg)
	mailCB := infra.NewCircuitBreaker(infra.DefaultCBConfig())
	dispatcher := worker.NewDispatcher(rdb)

	worker.StartWorkerPool(ctx, rdb, cfg.WorkerPoolSize, worker.NewReminderWorker(mailer, mailCB, rdb))
	worker.StartOverdueCron(ctx, worker.OverdueCronConfig{
		Movements:  repository.NewMovementRepository(db),
		Settings:   repository.NewSettingRepository(db),
		Dispatcher: dispatcher,
	})
	log.Info().Msg("notifier running")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("notifier exiting")
}
