package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"capstan/internal/config"
	"capstan/internal/daemon"
	"capstan/internal/logging"
	"capstan/internal/queue"
	"capstan/internal/workflow"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		log.Fatalf("prepare directories: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	store, err := queue.Open(cfg)
	if err != nil {
		logger.Error("open queue store", logging.Error(err))
		return
	}
	defer store.Close()

	workflowManager := workflow.NewManager(cfg, store, logger)
	registerStages(workflowManager, cfg, store, logger)
	if err := workflowManager.RunPreflightChecks(ctx, logger); err != nil {
		logger.Error("preflight", logging.Error(err))
		return
	}

	d, err := daemon.New(cfg, store, logger, workflowManager)
	if err != nil {
		logger.Error("create daemon", logging.Error(err))
		return
	}
	defer d.Close()

	if err := d.Start(ctx); err != nil {
		logger.Error("daemon start", logging.Error(err))
		return
	}

	<-ctx.Done()
	logger.Info("capstand shutting down")
}
