package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"capstan/internal/config"
	"capstan/internal/logging"
	"capstan/internal/queue"
	"capstan/internal/services"
	"capstan/internal/stage"
)

// MatchRecord is the metadata join result persisted on the queue item.
type MatchRecord struct {
	Matched         bool   `json:"matched"`
	IsSpecial       bool   `json:"is_special,omitempty"`
	Via             string `json:"via,omitempty"`
	SeasonTitle     string `json:"season_title,omitempty"`
	OverallEpisode  int    `json:"overall_episode,omitempty"`
	Title           string `json:"title,omitempty"`
	OriginalAirDate string `json:"original_air_date,omitempty"`
	Notes           string `json:"notes,omitempty"`
}

// Stage joins an episode onto the metadata table and finishes the pipeline.
type Stage struct {
	cfg    *config.Config
	store  *queue.Store
	logger *slog.Logger
}

// NewStage constructs the enrich stage handler.
func NewStage(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Stage {
	s := &Stage{cfg: cfg, store: store}
	s.SetLogger(logger)
	return s
}

// SetLogger updates the stage's logging destination.
func (s *Stage) SetLogger(logger *slog.Logger) {
	s.logger = logging.NewComponentLogger(logger, "metadata")
}

// Prepare verifies the metadata table loads when one is configured.
func (s *Stage) Prepare(ctx context.Context, item *queue.Item) error {
	if _, err := s.loadTable(); err != nil {
		return err
	}
	item.InitProgress("Enriching", "Joining episode metadata")
	return nil
}

// Execute joins the episode against the metadata table. A join miss is
// tallied and flagged, never fatal; only an empty capture sends the item to
// review.
func (s *Stage) Execute(ctx context.Context, item *queue.Item) error {
	logger := logging.WithContext(ctx, s.logger)

	table, err := s.loadTable()
	if err != nil {
		return err
	}

	record := MatchRecord{}
	if table != nil {
		match := table.MatchEpisode(
			item.Season, item.Episode, item.Title,
			s.cfg.Metadata.TitleSimilarityThreshold)
		if match.Matched {
			episode := match.Episode
			record = MatchRecord{
				Matched:         true,
				IsSpecial:       match.IsSpecial,
				Via:             match.Via,
				SeasonTitle:     episode.SeasonTitle,
				OverallEpisode:  episode.OverallEpisode,
				Title:           episode.Title,
				OriginalAirDate: episode.OriginalAirDate,
				Notes:           episode.Notes,
			}
			if strings.TrimSpace(item.Title) == "" {
				item.Title = episode.Title
			}
		} else {
			logger.Warn("metadata join miss",
				logging.Int(logging.FieldSeason, item.Season),
				logging.Int(logging.FieldEpisode, item.Episode))
		}
	}

	encoded, err := json.Marshal(record)
	if err != nil {
		return services.Wrap(
			services.ErrValidation, "enrich", "encode metadata",
			"Could not encode metadata record", err)
	}
	item.MetadataJSON = string(encoded)
	item.MetadataMatched = record.Matched

	if item.CueCount == 0 {
		item.Status = queue.StatusReview
		item.NeedsReview = true
		item.ReviewReason = "Episode has no cues; capture may be empty"
		item.SetProgressComplete("Review", item.ReviewReason)
		logger.Warn("episode marked for review", logging.String("reason", item.ReviewReason))
		return nil
	}

	item.Status = queue.StatusCompleted
	message := "No metadata match"
	if record.Matched {
		message = fmt.Sprintf("Matched %q via %s", record.Title, record.Via)
	}
	item.SetProgressComplete("Completed", message)

	logger.Info("episode enriched",
		logging.Bool("matched", record.Matched),
		logging.String("via", record.Via),
		logging.String("title", record.Title))
	return nil
}

// HealthCheck verifies the metadata table is loadable when configured.
func (s *Stage) HealthCheck(context.Context) stage.Health {
	if _, err := s.loadTable(); err != nil {
		return stage.Unhealthy("metadata", err.Error())
	}
	return stage.Healthy("metadata")
}

// loadTable reads the configured episode table. An unset path returns a nil
// table; every join then misses without failing the stage.
func (s *Stage) loadTable() (*Table, error) {
	path := strings.TrimSpace(s.cfg.Metadata.EpisodesPath)
	if path == "" {
		return nil, nil
	}
	table, err := Load(path)
	if err != nil {
		return nil, services.Wrap(
			services.ErrConfiguration, "enrich", "load episode table",
			fmt.Sprintf("Could not load episode table %s", path), err)
	}
	return table, nil
}
