package metadata

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// IndexRow is one line of a season capture index: which playlist produced
// which episode files.
type IndexRow struct {
	Season         int
	Episode        int
	FileVTT        string
	FileTXT        string
	M3U8           string
	UUID           string
	PSID           string
	RequestedAtUTC string
	IsSDH          bool
}

// EnrichedRow is an IndexRow joined with episode metadata.
type EnrichedRow struct {
	IndexRow
	SeasonTitle       string
	OverallEpisode    string
	Title             string
	OriginalAirDate   string
	USViewersMillions string
	ProductionCode    string
	Notes             string
	MetadataMatched   bool
	IsSpecial         bool
}

var indexHeader = []string{
	"season", "episode", "file_vtt", "file_txt", "m3u8", "uuid", "psid", "requested_at_utc", "is_sdh",
}

var enrichedHeader = append(append([]string{}, indexHeader...),
	"season_title", "overall_episode", "title", "original_air_date",
	"us_viewers_millions", "production_code", "notes", "metadata_matched", "is_special",
)

// Enrich joins index rows against the table, filling enrichment columns and
// the matched flag. Rows that miss keep empty columns.
func Enrich(rows []IndexRow, table *Table, titleThreshold float64) []EnrichedRow {
	out := make([]EnrichedRow, 0, len(rows))
	for _, row := range rows {
		enriched := EnrichedRow{IndexRow: row}
		match := table.MatchEpisode(row.Season, row.Episode, "", titleThreshold)
		if match.Matched {
			episode := match.Episode
			enriched.SeasonTitle = episode.SeasonTitle
			if episode.OverallEpisode >= 0 {
				enriched.OverallEpisode = strconv.Itoa(episode.OverallEpisode)
			}
			enriched.Title = episode.Title
			enriched.OriginalAirDate = episode.OriginalAirDate
			enriched.USViewersMillions = episode.USViewersMillions
			enriched.ProductionCode = episode.ProductionCode
			enriched.Notes = episode.Notes
			enriched.MetadataMatched = true
			enriched.IsSpecial = match.IsSpecial
		}
		out = append(out, enriched)
	}
	return out
}

// WriteIndex writes the plain season index CSV.
func WriteIndex(path string, rows []IndexRow) error {
	return writeCSV(path, indexHeader, len(rows), func(i int) []string {
		return rows[i].record()
	})
}

// WriteEnrichedIndex writes an index CSV with enrichment columns appended.
func WriteEnrichedIndex(path string, rows []EnrichedRow) error {
	return writeCSV(path, enrichedHeader, len(rows), func(i int) []string {
		return rows[i].record()
	})
}

func (r IndexRow) record() []string {
	return []string{
		strconv.Itoa(r.Season),
		strconv.Itoa(r.Episode),
		r.FileVTT,
		r.FileTXT,
		r.M3U8,
		r.UUID,
		r.PSID,
		r.RequestedAtUTC,
		strconv.FormatBool(r.IsSDH),
	}
}

func (r EnrichedRow) record() []string {
	return append(r.IndexRow.record(),
		r.SeasonTitle,
		r.OverallEpisode,
		r.Title,
		r.OriginalAirDate,
		r.USViewersMillions,
		r.ProductionCode,
		r.Notes,
		strconv.FormatBool(r.MetadataMatched),
		strconv.FormatBool(r.IsSpecial),
	)
}

func writeCSV(path string, header []string, n int, record func(int) []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create index directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create index file: %w", err)
	}
	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		file.Close()
		return fmt.Errorf("write index header: %w", err)
	}
	for i := 0; i < n; i++ {
		if err := writer.Write(record(i)); err != nil {
			file.Close()
			return fmt.Errorf("write index row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		file.Close()
		return fmt.Errorf("flush index: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close index: %w", err)
	}
	return nil
}
