package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"capstan/internal/capture"
	"capstan/internal/config"
	"capstan/internal/logging"
	"capstan/internal/queue"
	"capstan/internal/services"
	"capstan/internal/stage"
)

// Fetcher is the workflow stage that downloads an episode's caption segments.
type Fetcher struct {
	cfg        *config.Config
	store      *queue.Store
	logger     *slog.Logger
	downloader *Downloader
}

// NewFetcher constructs the fetch stage handler.
func NewFetcher(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Fetcher {
	f := &Fetcher{
		cfg:        cfg,
		store:      store,
		downloader: NewDownloader(cfg),
	}
	f.SetLogger(logger)
	return f
}

// SetLogger updates the fetcher's logging destination.
func (f *Fetcher) SetLogger(logger *slog.Logger) {
	f.logger = logging.NewComponentLogger(logger, "fetch")
}

// Prepare validates that the item carries a playlist to download.
func (f *Fetcher) Prepare(ctx context.Context, item *queue.Item) error {
	if strings.TrimSpace(item.PlaylistURL) == "" {
		return services.Wrap(
			services.ErrValidation, "fetch", "prepare",
			"Queue item has no playlist URL; re-add the capture", nil)
	}
	item.InitProgress("Fetching", "Downloading caption segments")
	logging.WithContext(ctx, f.logger).Debug("starting segment fetch",
		logging.String("playlist", item.PlaylistURL))
	return nil
}

// Execute downloads every segment of the item's playlist into staging.
func (f *Fetcher) Execute(ctx context.Context, item *queue.Item) error {
	logger := logging.WithContext(ctx, f.logger)

	body, err := f.downloader.Playlist(ctx, item.PlaylistURL)
	if err != nil {
		return services.Wrap(
			services.ErrUpstream, "fetch", "playlist",
			"Could not fetch caption playlist", err)
	}
	if !capture.HasSubtitleSegments(body) {
		return services.Wrap(
			services.ErrValidation, "fetch", "playlist",
			"Playlist references no caption segments; wrong track captured", nil)
	}

	destDir := item.StagingRoot(f.cfg.Paths.StagingDir)
	report, err := f.downloader.Segments(ctx, item.PlaylistURL, body, destDir)
	if err != nil {
		return services.Wrap(
			services.ErrTransient, "fetch", "segments",
			"Segment download aborted", err)
	}
	if report.Downloaded == 0 {
		return services.Wrap(
			services.ErrUpstream, "fetch", "segments",
			fmt.Sprintf("All %d segments failed to download", report.Total), nil)
	}
	if len(report.Failed) > 0 {
		// Missing segments surface later as capture gaps in the merge.
		logger.Warn("some segments failed to download",
			logging.Int("failed", len(report.Failed)),
			logging.Int("downloaded", report.Downloaded),
			logging.Int("total", report.Total))
	}

	logger.Info("segments fetched",
		logging.Int("downloaded", report.Downloaded),
		logging.Int("total", report.Total),
		logging.String("staging_dir", destDir))

	item.Status = queue.StatusFetched
	item.SetProgressComplete("Fetched",
		fmt.Sprintf("Downloaded %d of %d segments", report.Downloaded, report.Total))
	return nil
}

// HealthCheck verifies the staging directory is available.
func (f *Fetcher) HealthCheck(context.Context) stage.Health {
	if strings.TrimSpace(f.cfg.Paths.StagingDir) == "" {
		return stage.Unhealthy("fetcher", "staging directory not configured")
	}
	return stage.Healthy("fetcher")
}
