package queue

import (
	"database/sql"
	"errors"
	"time"
)

const itemColumns = "id, season, episode, title, status, source_har, playlist_url, playlist_uuid, psid, is_sdh, requested_at, merged_file, clean_file, sentences_file, structured_file, error_message, created_at, updated_at, progress_stage, progress_percent, progress_message, cue_count, malformed_cues, duplicate_cues, capture_gaps, speaker_misses, utterance_count, metadata_json, metadata_matched, last_heartbeat, needs_review, review_reason"

func scanItem(scanner interface{ Scan(dest ...any) error }) (*Item, error) {
	var (
		id               int64
		season           int
		episode          int
		title            sql.NullString
		statusStr        string
		sourceHAR        sql.NullString
		playlistURL      sql.NullString
		playlistUUID     sql.NullString
		psid             sql.NullString
		isSDH            sql.NullInt64
		requestedRaw     sql.NullString
		mergedFile       sql.NullString
		cleanFile        sql.NullString
		sentencesFile    sql.NullString
		structuredFile   sql.NullString
		errorMessage     sql.NullString
		createdRaw       sql.NullString
		updatedRaw       sql.NullString
		progressStage    sql.NullString
		progressPercent  sql.NullFloat64
		progressMessage  sql.NullString
		cueCount         sql.NullInt64
		malformedCues    sql.NullInt64
		duplicateCues    sql.NullInt64
		captureGaps      sql.NullInt64
		speakerMisses    sql.NullInt64
		utteranceCount   sql.NullInt64
		metadata         sql.NullString
		metadataMatched  sql.NullInt64
		lastHeartbeatRaw sql.NullString
		needsReview      sql.NullInt64
		reviewReason     sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&season,
		&episode,
		&title,
		&statusStr,
		&sourceHAR,
		&playlistURL,
		&playlistUUID,
		&psid,
		&isSDH,
		&requestedRaw,
		&mergedFile,
		&cleanFile,
		&sentencesFile,
		&structuredFile,
		&errorMessage,
		&createdRaw,
		&updatedRaw,
		&progressStage,
		&progressPercent,
		&progressMessage,
		&cueCount,
		&malformedCues,
		&duplicateCues,
		&captureGaps,
		&speakerMisses,
		&utteranceCount,
		&metadata,
		&metadataMatched,
		&lastHeartbeatRaw,
		&needsReview,
		&reviewReason,
	); err != nil {
		return nil, err
	}

	item := &Item{
		ID:              id,
		Season:          season,
		Episode:         episode,
		Title:           title.String,
		Status:          Status(statusStr),
		SourceHAR:       sourceHAR.String,
		PlaylistURL:     playlistURL.String,
		PlaylistUUID:    playlistUUID.String,
		PSID:            psid.String,
		MergedFile:      mergedFile.String,
		CleanFile:       cleanFile.String,
		SentencesFile:   sentencesFile.String,
		StructuredFile:  structuredFile.String,
		ErrorMessage:    errorMessage.String,
		ProgressStage:   progressStage.String,
		ProgressPercent: progressPercent.Float64,
		ProgressMessage: progressMessage.String,
		CueCount:        int(cueCount.Int64),
		MalformedCues:   int(malformedCues.Int64),
		DuplicateCues:   int(duplicateCues.Int64),
		CaptureGaps:     int(captureGaps.Int64),
		SpeakerMisses:   int(speakerMisses.Int64),
		UtteranceCount:  int(utteranceCount.Int64),
		MetadataJSON:    metadata.String,
	}
	if isSDH.Valid {
		item.IsSDH = isSDH.Int64 != 0
	}
	if metadataMatched.Valid {
		item.MetadataMatched = metadataMatched.Int64 != 0
	}
	if needsReview.Valid {
		item.NeedsReview = needsReview.Int64 != 0
	}
	item.ReviewReason = reviewReason.String

	if created, err := parseTimeString(createdRaw.String); err == nil {
		item.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		item.UpdatedAt = updated
	}
	if requestedRaw.Valid {
		if requested, err := parseTimeString(requestedRaw.String); err == nil {
			item.RequestedAt = &requested
		}
	}
	if lastHeartbeatRaw.Valid {
		if heartbeat, err := parseTimeString(lastHeartbeatRaw.String); err == nil {
			item.LastHeartbeat = &heartbeat
		}
	}
	return item, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	v := value.UTC().Format(time.RFC3339Nano)
	return v
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}
