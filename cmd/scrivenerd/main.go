package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"scrivener/internal/config"
	"scrivener/internal/daemon"
	"scrivener/internal/logging"
	"scrivener/internal/queue"
	"scrivener/internal/storage"
	"scrivener/internal/workflow"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		log.Fatalf("ensure directories: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	store, err := queue.Open(cfg)
	if err != nil {
		log.Fatalf("open queue store: %v", err)
	}
	defer store.Close()

	blobs, err := storage.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init object storage: %v", err)
	}

	workflowManager := workflow.NewManager(cfg, store, logger)
	registerStages(workflowManager, cfg, store, logger, blobs)

	d, err := daemon.New(cfg, store, logger, workflowManager)
	if err != nil {
		log.Fatalf("create daemon: %v", err)
	}
	defer d.Close()

	if err := d.Start(ctx); err != nil {
		logger.Error("daemon start", logging.Error(err))
		return
	}

	<-ctx.Done()
	logger.Info("scrivenerd shutting down")
	d.Stop()
}
