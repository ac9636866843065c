package merger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"capstan/internal/config"
	"capstan/internal/logging"
	"capstan/internal/queue"
	"capstan/internal/services"
	"capstan/internal/stage"
	"capstan/internal/textutil"
	"capstan/internal/vtt"
)

// Stage merges an episode's staged caption segments into one transcript file.
type Stage struct {
	cfg    *config.Config
	store  *queue.Store
	logger *slog.Logger
}

// NewStage constructs the merge stage handler.
func NewStage(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Stage {
	s := &Stage{cfg: cfg, store: store}
	s.SetLogger(logger)
	return s
}

// SetLogger updates the stage's logging destination.
func (s *Stage) SetLogger(logger *slog.Logger) {
	s.logger = logging.NewComponentLogger(logger, "merger")
}

// Prepare verifies the staging directory holds downloaded segments.
func (s *Stage) Prepare(ctx context.Context, item *queue.Item) error {
	segments, err := s.segmentFiles(item)
	if err != nil {
		return err
	}
	item.InitProgress("Merging", fmt.Sprintf("Merging %d caption segments", len(segments)))
	logging.WithContext(ctx, s.logger).Debug("starting merge",
		logging.Int("segments", len(segments)))
	return nil
}

// Execute parses the staged segments, merges them, and writes the episode
// transcript under the season's vtt directory.
func (s *Stage) Execute(ctx context.Context, item *queue.Item) error {
	logger := logging.WithContext(ctx, s.logger)

	segmentPaths, err := s.segmentFiles(item)
	if err != nil {
		return err
	}

	documents := make([]vtt.Document, 0, len(segmentPaths))
	for _, path := range segmentPaths {
		doc, err := vtt.ParseFile(path)
		if err != nil {
			return services.Wrap(
				services.ErrValidation, "merge", "parse segment",
				fmt.Sprintf("Could not parse segment %s", filepath.Base(path)), err)
		}
		documents = append(documents, doc)
	}

	result := Merge(documents, Options{GapThreshold: s.cfg.Merge.GapThresholdSeconds})
	for _, gap := range result.Gaps {
		// Advisory: the capture likely missed a segment here.
		logger.Warn("capture gap detected",
			logging.Float64("gap_start", gap.Start),
			logging.Float64("gap_end", gap.End),
			logging.Float64("gap_seconds", gap.Seconds))
	}

	outPath := filepath.Join(
		s.cfg.SeasonRoot(item.Season), "vtt", item.Label()+".vtt")
	if err := vtt.WriteFile(outPath, result.Cues); err != nil {
		return services.Wrap(
			services.ErrTransient, "merge", "write transcript",
			"Could not write merged transcript", err)
	}

	item.MergedFile = outPath
	item.CueCount = len(result.Cues)
	item.MalformedCues = result.Malformed
	item.DuplicateCues = result.Duplicates
	item.CaptureGaps = len(result.Gaps)
	item.Status = queue.StatusMerged
	item.SetProgressComplete("Merged",
		fmt.Sprintf("%d cues (%d duplicates removed)", len(result.Cues), result.Duplicates))

	logger.Info("segments merged",
		logging.Int("cues", len(result.Cues)),
		logging.Int("duplicates", result.Duplicates),
		logging.Int("malformed", result.Malformed),
		logging.Int("gaps", len(result.Gaps)),
		logging.String("merged_file", outPath))

	s.cleanupStaging(logger, item)
	return nil
}

// HealthCheck verifies the data root is writable enough to receive output.
func (s *Stage) HealthCheck(context.Context) stage.Health {
	if strings.TrimSpace(s.cfg.Paths.DataRoot) == "" {
		return stage.Unhealthy("merger", "data root not configured")
	}
	return stage.Healthy("merger")
}

func (s *Stage) segmentFiles(item *queue.Item) ([]string, error) {
	dir := item.StagingRoot(s.cfg.Paths.StagingDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, services.Wrap(
			services.ErrNotFound, "merge", "read staging",
			"Staged segments missing; rerun the fetch stage", err)
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".vtt") {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	if len(paths) == 0 {
		return nil, services.Wrap(
			services.ErrNotFound, "merge", "read staging",
			"Staging directory holds no caption segments", nil)
	}
	sort.Strings(paths)
	return paths, nil
}

// cleanupStaging removes the per-item staging directory once the merged file
// is safely written. Failures are logged, never propagated.
func (s *Stage) cleanupStaging(logger *slog.Logger, item *queue.Item) {
	dir := item.StagingRoot(s.cfg.Paths.StagingDir)
	if dir == "" || dir == s.cfg.Paths.StagingDir {
		return
	}
	// Guard against a misconfigured staging root wiping unrelated files.
	if base := filepath.Base(dir); !strings.HasPrefix(base, textutil.EpisodeKey(item.Season, item.Episode)) {
		return
	}
	if err := os.RemoveAll(dir); err != nil {
		logger.Warn("failed to remove staging directory",
			logging.String("dir", dir), logging.Error(err))
	}
}
