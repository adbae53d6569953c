package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/arju-vk/Bug-Tracker/internal/adapters/webhook"
	"github.com/arju-vk/Bug-Tracker/internal/auth"
	"github.com/arju-vk/Bug-Tracker/internal/config"
	httpapi "github.com/arju-vk/Bug-Tracker/internal/http"
	"github.com/arju-vk/Bug-Tracker/internal/jobs"
	"github.com/arju-vk/Bug-Tracker/internal/logger"
	"github.com/arju-vk/Bug-Tracker/internal/repo"
	"github.com/arju-vk/Bug-Tracker/internal/services"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db := repo.MustOpen(ctx, cfg, log)
	defer db.Close()
	repository := repo.NewRepository(db, log)

	// Identity context
	tokens := auth.NewManager(cfg)

	// Notifier (optional)
	var notifier services.MentionNotifier
	if cfg.MentionWebhookURL != "" {
		notifier = webhook.New(cfg, log)
	}

	// Core
	svc := services.New(log, repository, tokens, notifier)

	// HTTP server (Gin)
	router := httpapi.NewRouter(cfg, log, svc, tokens)

	// Cron: orphan comment sweeper
	cron := jobs.NewCron(cfg, log, svc, repository)
	cron.Start()
	defer cron.Stop()

	errCh := make(chan error, 1)
	go func() { errCh <- router.Run(cfg.HTTPAddr) }()
	log.Info().Str("addr", cfg.HTTPAddr).Msg("listening")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		log.Info().Msg("shutting down...")
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("http server error")
		}
	}
}
