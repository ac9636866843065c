package queue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// NewEpisode inserts a new item for a selected playlist awaiting fetch.
func (s *Store) NewEpisode(ctx context.Context, intake EpisodeIntake) (*Item, error) {
	if strings.TrimSpace(intake.PlaylistURL) == "" {
		return nil, errors.New("playlist URL is required")
	}
	if intake.Season <= 0 || intake.Episode <= 0 {
		return nil, fmt.Errorf("season and episode must be positive, got S%02dE%02d", intake.Season, intake.Episode)
	}

	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)

	var requestedAt any
	if !intake.RequestedAt.IsZero() {
		requestedAt = intake.RequestedAt.UTC().Format(time.RFC3339Nano)
	}

	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO queue_items (
            season, episode, status, source_har, playlist_url, playlist_uuid,
            psid, is_sdh, requested_at, created_at, updated_at,
            progress_stage, progress_percent, progress_message
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		intake.Season,
		intake.Episode,
		StatusPending,
		nullableString(intake.SourceHAR),
		intake.PlaylistURL,
		nullableString(intake.PlaylistUUID),
		nullableString(intake.PSID),
		boolToInt(intake.IsSDH),
		requestedAt,
		timestamp,
		timestamp,
		nil,
		0.0,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("insert episode: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

// NewMergedFile enqueues an existing merged subtitle file that skips fetch and
// merge and begins at the cleaning stage.
func (s *Store) NewMergedFile(ctx context.Context, season, episode int, path string) (*Item, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("merged file path is required")
	}
	if season <= 0 || episode <= 0 {
		return nil, fmt.Errorf("season and episode must be positive, got S%02dE%02d", season, episode)
	}

	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)
	title := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO queue_items (
            season, episode, title, status, merged_file, created_at, updated_at,
            progress_stage, progress_percent, progress_message
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		season,
		episode,
		title,
		StatusMerged,
		path,
		timestamp,
		timestamp,
		nil,
		0.0,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("insert merged file: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

// GetByID fetches a queue item by identifier.
func (s *Store) GetByID(ctx context.Context, id int64) (*Item, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM queue_items WHERE id = ?`, id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// FindByPlaylistUUID returns the first item matching a playlist UUID.
func (s *Store) FindByPlaylistUUID(ctx context.Context, uuid string) (*Item, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+itemColumns+` FROM queue_items WHERE playlist_uuid = ? ORDER BY id LIMIT 1`,
		uuid,
	)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find by playlist uuid: %w", err)
	}
	return item, nil
}

// MaxEpisodeForSeason returns the highest episode number queued for a season,
// or zero when the season is empty. New captures continue numbering from here.
func (s *Store) MaxEpisodeForSeason(ctx context.Context, season int) (int, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT COALESCE(MAX(episode), 0) FROM queue_items WHERE season = ?`,
		season,
	)
	var max int
	if err := row.Scan(&max); err != nil {
		return 0, fmt.Errorf("max episode for season: %w", err)
	}
	return max, nil
}

// Update persists changes to an existing queue item.
func (s *Store) Update(ctx context.Context, item *Item) error {
	if item == nil {
		return errors.New("item is nil")
	}
	item.UpdatedAt = time.Now().UTC()
	if err := s.execWithoutResultRetry(
		ctx,
		`UPDATE queue_items
         SET season = ?, episode = ?, title = ?, status = ?, source_har = ?,
             playlist_url = ?, playlist_uuid = ?, psid = ?, is_sdh = ?, requested_at = ?,
             merged_file = ?, clean_file = ?, sentences_file = ?, structured_file = ?,
             error_message = ?, updated_at = ?,
             progress_stage = ?, progress_percent = ?, progress_message = ?,
             cue_count = ?, malformed_cues = ?, duplicate_cues = ?, capture_gaps = ?,
             speaker_misses = ?, utterance_count = ?, metadata_json = ?, metadata_matched = ?,
             last_heartbeat = ?, needs_review = ?, review_reason = ?
         WHERE id = ?`,
		item.Season,
		item.Episode,
		nullableString(item.Title),
		item.Status,
		nullableString(item.SourceHAR),
		nullableString(item.PlaylistURL),
		nullableString(item.PlaylistUUID),
		nullableString(item.PSID),
		boolToInt(item.IsSDH),
		nullableTime(item.RequestedAt),
		nullableString(item.MergedFile),
		nullableString(item.CleanFile),
		nullableString(item.SentencesFile),
		nullableString(item.StructuredFile),
		nullableString(item.ErrorMessage),
		item.UpdatedAt.Format(time.RFC3339Nano),
		nullableString(item.ProgressStage),
		item.ProgressPercent,
		nullableString(item.ProgressMessage),
		item.CueCount,
		item.MalformedCues,
		item.DuplicateCues,
		item.CaptureGaps,
		item.SpeakerMisses,
		item.UtteranceCount,
		nullableString(item.MetadataJSON),
		boolToInt(item.MetadataMatched),
		nullableTime(item.LastHeartbeat),
		boolToInt(item.NeedsReview),
		nullableString(item.ReviewReason),
		item.ID,
	); err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

// UpdateProgress persists only the progress fields, leaving the heartbeat and
// everything else untouched.
func (s *Store) UpdateProgress(ctx context.Context, item *Item) error {
	if item == nil {
		return errors.New("item is nil")
	}
	item.UpdatedAt = time.Now().UTC()
	if err := s.execWithoutResultRetry(
		ctx,
		`UPDATE queue_items
         SET progress_stage = ?, progress_percent = ?, progress_message = ?, updated_at = ?
         WHERE id = ?`,
		nullableString(item.ProgressStage),
		item.ProgressPercent,
		nullableString(item.ProgressMessage),
		item.UpdatedAt.Format(time.RFC3339Nano),
		item.ID,
	); err != nil {
		return fmt.Errorf("update progress: %w", err)
	}
	return nil
}

// ItemsByStatus returns items matching a status ordered by creation time.
func (s *Store) ItemsByStatus(ctx context.Context, status Status) ([]*Item, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+itemColumns+` FROM queue_items WHERE status = ? ORDER BY created_at`, status)
	if err != nil {
		return nil, fmt.Errorf("query by status: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// List returns queue items filtered by status set (or all items when no status is provided).
func (s *Store) List(ctx context.Context, statuses ...Status) ([]*Item, error) {
	var (
		rows *sql.Rows
		err  error
	)

	baseQuery := `SELECT ` + itemColumns + ` FROM queue_items`
	orderClause := ` ORDER BY created_at`

	if len(statuses) == 0 {
		rows, err = s.db.QueryContext(ctx, baseQuery+orderClause)
	} else {
		placeholders := makePlaceholders(len(statuses))
		args := make([]any, len(statuses))
		for i, status := range statuses {
			args[i] = status
		}
		query := baseQuery + ` WHERE status IN (` + placeholders + `)` + orderClause
		rows, err = s.db.QueryContext(ctx, query, args...)
	}
	if err != nil {
		return nil, fmt.Errorf("list queue items: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// BySeason returns items for a season ordered by episode number.
func (s *Store) BySeason(ctx context.Context, season int) ([]*Item, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+itemColumns+` FROM queue_items WHERE season = ? ORDER BY episode`,
		season,
	)
	if err != nil {
		return nil, fmt.Errorf("query by season: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// NextForStatuses returns the oldest item matching any of the provided statuses.
func (s *Store) NextForStatuses(ctx context.Context, statuses ...Status) (*Item, error) {
	if len(statuses) == 0 {
		return nil, nil
	}
	placeholders := makePlaceholders(len(statuses))
	args := make([]any, len(statuses))
	for i, status := range statuses {
		args[i] = status
	}

	query := `SELECT ` + itemColumns + ` FROM queue_items WHERE status IN (` + placeholders + `) ORDER BY created_at LIMIT 1`
	row := s.db.QueryRowContext(ctx, query, args...)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

// Remove deletes an item by identifier.
func (s *Store) Remove(ctx context.Context, id int64) (bool, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM queue_items WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// ClearCompleted removes only completed items from the queue.
func (s *Store) ClearCompleted(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM queue_items WHERE status = ?`, StatusCompleted)
	if err != nil {
		return 0, fmt.Errorf("clear completed: %w", err)
	}
	return res.RowsAffected()
}

// Clear removes all items from the queue.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM queue_items`)
	if err != nil {
		return 0, fmt.Errorf("clear queue: %w", err)
	}
	return res.RowsAffected()
}

// ClearFailed removes only failed items from the queue.
func (s *Store) ClearFailed(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM queue_items WHERE status = ?`, StatusFailed)
	if err != nil {
		return 0, fmt.Errorf("clear failed: %w", err)
	}
	return res.RowsAffected()
}
