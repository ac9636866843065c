package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"capstan/internal/cleaner"
	"capstan/internal/config"
	"capstan/internal/daemon"
	"capstan/internal/fetch"
	"capstan/internal/logging"
	"capstan/internal/merger"
	"capstan/internal/metadata"
	"capstan/internal/queue"
	"capstan/internal/structurer"
	"capstan/internal/workflow"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var drain bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the caption pipeline in the foreground",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipelineProcess(cmd.Context(), ctx, drain)
		},
	}

	cmd.Flags().BoolVar(&drain, "drain", false, "Exit once the queue has no work left")
	return cmd
}

func runPipelineProcess(cmdCtx context.Context, ctx *commandContext, drain bool) error {
	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := ctx.ensureConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	runID := time.Now().UTC().Format("20060102T150405Z")
	logPath := filepath.Join(cfg.Paths.LogDir, fmt.Sprintf("capstan-%s.log", runID))
	logger, err := logging.New(logging.Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: []string{"stdout", logPath},
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	cleanupOldRunLogs(cfg, logger, logPath)

	store, err := queue.Open(cfg)
	if err != nil {
		logger.Error("open queue store", logging.Error(err))
		return err
	}
	defer store.Close()

	manager := workflow.NewManager(cfg, store, logger)
	registerStages(manager, cfg, store, logger)
	if err := manager.RunPreflightChecks(signalCtx, logger); err != nil {
		return err
	}

	d, err := daemon.New(cfg, store, logger, manager)
	if err != nil {
		return fmt.Errorf("create daemon: %w", err)
	}
	defer d.Close()

	if err := d.Start(signalCtx); err != nil {
		return err
	}

	if drain {
		waitForDrain(signalCtx, cfg, store, logger)
	} else {
		<-signalCtx.Done()
	}
	logger.Info("capstan shutting down")
	return nil
}

func registerStages(mgr *workflow.Manager, cfg *config.Config, store *queue.Store, logger *slog.Logger) {
	if mgr == nil || cfg == nil {
		return
	}
	mgr.ConfigureStages(workflow.StageSet{
		Fetcher:    fetch.NewFetcher(cfg, store, logger),
		Merger:     merger.NewStage(cfg, store, logger),
		Cleaner:    cleaner.NewStage(cfg, store, logger),
		Structurer: structurer.NewStage(cfg, store, logger),
		Enricher:   metadata.NewStage(cfg, store, logger),
	})
}

// waitForDrain blocks until every queue item is terminal or the context ends.
func waitForDrain(ctx context.Context, cfg *config.Config, store *queue.Store, logger *slog.Logger) {
	interval := time.Duration(cfg.Workflow.QueuePollInterval) * time.Second
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats, err := store.Stats(ctx)
			if err != nil {
				logger.Warn("drain check failed", logging.Error(err))
				continue
			}
			remaining := 0
			for status, count := range stats {
				switch status {
				case queue.StatusCompleted, queue.StatusFailed, queue.StatusReview:
				default:
					remaining += count
				}
			}
			if remaining == 0 {
				logger.Info("queue drained")
				return
			}
		}
	}
}

func cleanupOldRunLogs(cfg *config.Config, logger *slog.Logger, currentLog string) {
	maxAge := time.Duration(cfg.Logging.RetentionDays) * 24 * time.Hour
	removed, err := logging.CleanupOldLogs(logging.RetentionTarget{
		Dir:     cfg.Paths.LogDir,
		Pattern: "capstan-*.log",
		Exclude: []string{filepath.Base(currentLog)},
	}, maxAge)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warn: log cleanup: %v\n", err)
		return
	}
	if removed > 0 {
		logger.Debug("removed old run logs", logging.Int("count", removed))
	}
}
