package structurer

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"capstan/internal/config"
	"capstan/internal/logging"
	"capstan/internal/queue"
	"capstan/internal/services"
	"capstan/internal/speakers"
	"capstan/internal/stage"
)

// Stage converts the merged cue stream into structured utterance records.
// It reads the pre-clean transcript so cue timing is untouched by cleanup.
type Stage struct {
	cfg    *config.Config
	store  *queue.Store
	logger *slog.Logger
}

// NewStage constructs the structure stage handler.
func NewStage(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Stage {
	s := &Stage{cfg: cfg, store: store}
	s.SetLogger(logger)
	return s
}

// SetLogger updates the stage's logging destination.
func (s *Stage) SetLogger(logger *slog.Logger) {
	s.logger = logging.NewComponentLogger(logger, "structurer")
}

// Prepare verifies inputs: the merged transcript and, when configured, the
// speaker map.
func (s *Stage) Prepare(ctx context.Context, item *queue.Item) error {
	if _, err := stage.LoadMergedCaptions(item); err != nil {
		return err
	}
	if _, err := s.loadSpeakerMap(); err != nil {
		return err
	}
	item.InitProgress("Structuring", "Extracting speaker utterances")
	return nil
}

// Execute structures the episode and writes its JSONL record file.
func (s *Stage) Execute(ctx context.Context, item *queue.Item) error {
	logger := logging.WithContext(ctx, s.logger)

	doc, err := stage.LoadMergedCaptions(item)
	if err != nil {
		return err
	}
	speakerMap, err := s.loadSpeakerMap()
	if err != nil {
		return err
	}

	result := Build(item.Season, item.Episode, doc.Cues, speakerMap, Options{
		StripNotes:       s.cfg.Structure.StripNotes,
		MergeSameSpeaker: s.cfg.Structure.MergeSameSpeaker,
	})

	outPath := filepath.Join(
		s.cfg.SeasonRoot(item.Season), "structured", item.Label()+".jsonl")
	if err := WriteFile(outPath, result.Utterances); err != nil {
		return services.Wrap(
			services.ErrTransient, "structure", "write records",
			"Could not write structured records", err)
	}

	item.StructuredFile = outPath
	item.UtteranceCount = len(result.Utterances)
	item.SpeakerMisses = result.Misses.Total()
	item.Status = queue.StatusStructured
	item.SetProgressComplete("Structured",
		fmt.Sprintf("%d utterances, %d notes", len(result.Utterances), result.Notes))

	for _, miss := range result.Misses.Counts() {
		logger.Debug("unmapped speaker tag",
			logging.String("speaker", miss.Tag),
			logging.Int("count", miss.Count))
	}
	logger.Info("episode structured",
		logging.Int("utterances", len(result.Utterances)),
		logging.Int("notes", result.Notes),
		logging.Int("speaker_misses", result.Misses.Total()),
		logging.String("structured_file", outPath))
	return nil
}

// HealthCheck verifies the speaker map is loadable when one is configured.
func (s *Stage) HealthCheck(context.Context) stage.Health {
	if _, err := s.loadSpeakerMap(); err != nil {
		return stage.Unhealthy("structurer", err.Error())
	}
	return stage.Healthy("structurer")
}

// loadSpeakerMap reads the configured speaker map. An unset path returns a
// nil map, which passes every tag through unmatched.
func (s *Stage) loadSpeakerMap() (*speakers.Map, error) {
	path := strings.TrimSpace(s.cfg.Speakers.MapPath)
	if path == "" {
		return nil, nil
	}
	m, err := speakers.Load(path)
	if err != nil {
		return nil, services.Wrap(
			services.ErrConfiguration, "structure", "load speaker map",
			fmt.Sprintf("Could not load speaker map %s", path), err)
	}
	return m, nil
}
