package capture

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"capstan/internal/logging"
	"capstan/internal/queue"
)

// IngestResult summarizes one HAR ingestion.
type IngestResult struct {
	// Playlists is the number of m3u8 requests found in the capture.
	Playlists int
	// Items holds the queue items created, in episode order.
	Items []*queue.Item
	// Skipped counts episodes already present in the queue (same playlist
	// UUID), left untouched.
	Skipped int
}

// IngestHAR parses a capture file, selects one playlist per episode, and
// enqueues the episodes in capture order. Episode numbering continues from
// the season's highest queued episode, matching the capture convention of
// playing a season's episodes in order. Already-queued playlists are skipped
// so re-ingesting the same capture is harmless.
func IngestHAR(ctx context.Context, store *queue.Store, logger *slog.Logger, harPath string, season int, language string) (IngestResult, error) {
	var result IngestResult

	playlists, err := ParseHARFile(harPath)
	if err != nil {
		return result, err
	}
	result.Playlists = len(playlists)

	selected := SelectEpisodes(ClassifyAll(playlists, language))
	if len(selected) == 0 {
		return result, fmt.Errorf("capture %s holds no subtitle playlists", filepath.Base(harPath))
	}

	next, err := store.MaxEpisodeForSeason(ctx, season)
	if err != nil {
		return result, fmt.Errorf("find highest queued episode: %w", err)
	}

	for _, candidate := range selected {
		existing, err := store.FindByPlaylistUUID(ctx, candidate.UUID)
		if err != nil {
			return result, fmt.Errorf("check for existing episode: %w", err)
		}
		if existing != nil {
			result.Skipped++
			logger.Debug("playlist already queued",
				logging.String("uuid", candidate.UUID),
				logging.String("episode_key", existing.EpisodeKey()))
			continue
		}

		next++
		item, err := store.NewEpisode(ctx, queue.EpisodeIntake{
			Season:       season,
			Episode:      next,
			PlaylistURL:  candidate.URL,
			PlaylistUUID: candidate.UUID,
			PSID:         candidate.PSID,
			IsSDH:        candidate.IsSDH,
			RequestedAt:  candidate.RequestedAt.UTC(),
			SourceHAR:    harPath,
		})
		if err != nil {
			return result, fmt.Errorf("enqueue episode: %w", err)
		}
		result.Items = append(result.Items, item)
		logger.Info("episode queued",
			logging.String("episode_key", item.EpisodeKey()),
			logging.String("uuid", candidate.UUID),
			logging.Bool("sdh", candidate.IsSDH))
	}
	return result, nil
}
