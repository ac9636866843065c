package cleaner

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"capstan/internal/config"
	"capstan/internal/logging"
	"capstan/internal/queue"
	"capstan/internal/services"
	"capstan/internal/stage"
)

// Stage renders the cleaned paragraph and sentence files for an episode.
type Stage struct {
	cfg    *config.Config
	store  *queue.Store
	logger *slog.Logger
}

// NewStage constructs the clean stage handler.
func NewStage(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Stage {
	s := &Stage{cfg: cfg, store: store}
	s.SetLogger(logger)
	return s
}

// SetLogger updates the stage's logging destination.
func (s *Stage) SetLogger(logger *slog.Logger) {
	s.logger = logging.NewComponentLogger(logger, "cleaner")
}

// Prepare verifies the merged transcript exists.
func (s *Stage) Prepare(ctx context.Context, item *queue.Item) error {
	if _, err := stage.LoadMergedCaptions(item); err != nil {
		return err
	}
	item.InitProgress("Cleaning", "Normalizing caption text")
	return nil
}

// Execute cleans the merged cues and writes the paragraph and sentence files.
func (s *Stage) Execute(ctx context.Context, item *queue.Item) error {
	logger := logging.WithContext(ctx, s.logger)

	doc, err := stage.LoadMergedCaptions(item)
	if err != nil {
		return err
	}

	result := Clean(doc.Cues, Options{StripNotes: s.cfg.Clean.StripNotes})

	cleanDir := filepath.Join(s.cfg.SeasonRoot(item.Season), "clean")
	if err := os.MkdirAll(cleanDir, 0o755); err != nil {
		return services.Wrap(
			services.ErrTransient, "clean", "create directory",
			"Could not create clean output directory", err)
	}

	paragraphPath := filepath.Join(cleanDir, item.Label()+".txt")
	if err := os.WriteFile(paragraphPath, []byte(result.Paragraph+"\n"), 0o644); err != nil {
		return services.Wrap(
			services.ErrTransient, "clean", "write paragraph",
			"Could not write paragraph file", err)
	}

	sentencesPath := filepath.Join(cleanDir, item.Label()+".sentences.txt")
	content := strings.Join(result.Sentences, "\n")
	if content != "" {
		content += "\n"
	}
	if err := os.WriteFile(sentencesPath, []byte(content), 0o644); err != nil {
		return services.Wrap(
			services.ErrTransient, "clean", "write sentences",
			"Could not write sentences file", err)
	}

	item.CleanFile = paragraphPath
	item.SentencesFile = sentencesPath
	item.Status = queue.StatusCleaned
	item.SetProgressComplete("Cleaned",
		fmt.Sprintf("%d lines, %d sentences", result.Lines, len(result.Sentences)))

	logger.Info("transcript cleaned",
		logging.Int("lines", result.Lines),
		logging.Int("sentences", len(result.Sentences)),
		logging.Int("dropped_duplicates", result.DroppedDuplicates),
		logging.String("clean_file", paragraphPath))
	return nil
}

// HealthCheck reports readiness of the clean stage.
func (s *Stage) HealthCheck(context.Context) stage.Health {
	if strings.TrimSpace(s.cfg.Paths.DataRoot) == "" {
		return stage.Unhealthy("cleaner", "data root not configured")
	}
	return stage.Healthy("cleaner")
}
