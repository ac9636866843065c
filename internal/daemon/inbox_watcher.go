package daemon

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"capstan/internal/capture"
	"capstan/internal/config"
	"capstan/internal/logging"
	"capstan/internal/notifications"
	"capstan/internal/queue"
)

// ingestedSuffix marks captures that have already been processed. Renaming
// keeps the original export next to its episodes without re-triggering.
const ingestedSuffix = ".ingested"

// InboxWatcher polls the inbox directory for new HAR captures and enqueues
// their episodes.
type InboxWatcher struct {
	cfg      *config.Config
	store    *queue.Store
	logger   *slog.Logger
	notifier notifications.Service
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewInboxWatcher constructs a watcher from the workflow configuration.
func NewInboxWatcher(cfg *config.Config, store *queue.Store, logger *slog.Logger) *InboxWatcher {
	interval := time.Duration(cfg.Workflow.InboxScanInterval) * time.Second
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &InboxWatcher{
		cfg:      cfg,
		store:    store,
		logger:   logging.NewComponentLogger(logger, "inbox"),
		notifier: notifications.NewService(cfg),
		interval: interval,
	}
}

// Start begins polling in the background.
func (w *InboxWatcher) Start(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cancel != nil {
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.wg.Add(1)
	go w.run(runCtx)
}

// Stop halts polling and waits for the scan loop to exit.
func (w *InboxWatcher) Stop() {
	w.mu.Lock()
	cancel := w.cancel
	w.cancel = nil
	w.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	w.wg.Wait()
}

func (w *InboxWatcher) run(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.ScanOnce(ctx)
		}
	}
}

// ScanOnce processes every unseen capture currently in the inbox.
func (w *InboxWatcher) ScanOnce(ctx context.Context) {
	dir := strings.TrimSpace(w.cfg.Paths.InboxDir)
	if dir == "" {
		return
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			w.logger.Warn("inbox scan failed", logging.Error(err))
		}
		return
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".har") {
			continue
		}
		select {
		case <-ctx.Done():
			return
		default:
		}
		w.ingest(ctx, filepath.Join(dir, entry.Name()))
	}
}

func (w *InboxWatcher) ingest(ctx context.Context, path string) {
	season := capture.SeasonFromFilename(path, 0)
	if season == 0 {
		// Leave the file alone; the operator can add it with an
		// explicit season instead.
		w.logger.Warn("capture filename carries no season; skipping",
			logging.String("file", filepath.Base(path)))
		return
	}

	result, err := capture.IngestHAR(ctx, w.store, w.logger, path, season, w.cfg.Fetch.Language)
	if err != nil {
		w.logger.Error("capture ingestion failed",
			logging.String("file", filepath.Base(path)),
			logging.Error(err))
		return
	}

	if err := os.Rename(path, path+ingestedSuffix); err != nil {
		w.logger.Warn("could not mark capture as ingested",
			logging.String("file", filepath.Base(path)),
			logging.Error(err))
	}

	w.logger.Info("capture ingested",
		logging.String("file", filepath.Base(path)),
		logging.Int(logging.FieldSeason, season),
		logging.Int("episodes", len(result.Items)),
		logging.Int("skipped", result.Skipped))

	if w.notifier != nil && len(result.Items) > 0 {
		first, last := result.Items[0], result.Items[len(result.Items)-1]
		episodes := first.Label()
		if last.Episode != first.Episode {
			episodes = first.Label() + "-" + last.Label()
		}
		if err := w.notifier.Publish(ctx, notifications.EventCaptureDetected, notifications.Payload{
			"file":    filepath.Base(path),
			"episode": episodes,
		}); err != nil && !errors.Is(err, context.Canceled) {
			w.logger.Debug("capture notification failed", logging.Error(err))
		}
	}
}
