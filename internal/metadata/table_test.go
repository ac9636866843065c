package metadata

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleJSON = `[
  {"season": "2", "season_title": "Season 2", "episode_in_season": "1", "overall_episode": "14", "title": "Everyone's Replaceable", "original_air_date": "January 10, 2012", "us_viewers_millions": "1.97", "production_code": "201", "notes": ""},
  {"season": "2", "season_title": "Season 2", "episode_in_season": "2", "overall_episode": "15", "title": "The Battle Begins", "original_air_date": "January 17, 2012", "us_viewers_millions": "2.06", "production_code": "202", "notes": ""},
  {"season": "2", "season_title": "Season 2", "episode_in_season": "", "overall_episode": "26", "title": "Reunion Special", "original_air_date": "May 1, 2012", "us_viewers_millions": "1.50", "production_code": "", "notes": "special"}
]`

func loadSample(t *testing.T) *Table {
	t.Helper()
	table, err := ReadJSON(strings.NewReader(sampleJSON))
	if err != nil {
		t.Fatalf("read json: %v", err)
	}
	return table
}

func TestReadJSON(t *testing.T) {
	table := loadSample(t)
	if table.Len() != 3 {
		t.Fatalf("expected 3 episodes, got %d", table.Len())
	}
	episodes := table.Episodes()
	if episodes[2].EpisodeInSeason != -1 {
		t.Fatalf("special should have no in-season number, got %d", episodes[2].EpisodeInSeason)
	}
	if episodes[1].OverallEpisode != 15 {
		t.Fatalf("unexpected overall number: %d", episodes[1].OverallEpisode)
	}
}

func TestMatchExact(t *testing.T) {
	table := loadSample(t)
	match := table.MatchEpisode(2, 1, "", 0)
	if !match.Matched || match.Via != "exact" {
		t.Fatalf("expected exact match, got %+v", match)
	}
	if match.IsSpecial {
		t.Fatal("exact match must not be flagged special")
	}
	if match.Episode.Title != "Everyone's Replaceable" {
		t.Fatalf("unexpected title %q", match.Episode.Title)
	}
}

func TestMatchOverallFallbackFlagsSpecial(t *testing.T) {
	table := loadSample(t)
	match := table.MatchEpisode(2, 26, "", 0)
	if !match.Matched || match.Via != "overall" {
		t.Fatalf("expected overall fallback, got %+v", match)
	}
	if !match.IsSpecial {
		t.Fatal("fallback match should be flagged special")
	}
	if match.Episode.Title != "Reunion Special" {
		t.Fatalf("unexpected title %q", match.Episode.Title)
	}
}

func TestMatchTitleFallback(t *testing.T) {
	table := loadSample(t)
	match := table.MatchEpisode(2, 99, "the reunion special", 0.5)
	if !match.Matched || match.Via != "title" {
		t.Fatalf("expected title fallback, got %+v", match)
	}
	if !match.IsSpecial {
		t.Fatal("title fallback should be flagged special")
	}
	if match.Score < 0.5 {
		t.Fatalf("score below threshold: %v", match.Score)
	}
}

func TestMatchMissIsNotFatal(t *testing.T) {
	table := loadSample(t)
	match := table.MatchEpisode(9, 9, "", 0)
	if match.Matched || match.Episode != nil {
		t.Fatalf("expected miss, got %+v", match)
	}
}

func TestMatchNilTable(t *testing.T) {
	var table *Table
	if match := table.MatchEpisode(1, 1, "x", 0.5); match.Matched {
		t.Fatal("nil table should never match")
	}
}

func TestReadCSV(t *testing.T) {
	content := "season,episode_in_season,overall_episode,title,original_air_date\n" +
		"1,1,1,The Competition Begins,July 13 2011\n" +
		"1,2,2,Wildly Inappropriate,July 20 2011\n"
	table, err := ReadCSV(strings.NewReader(content))
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if table.Len() != 2 {
		t.Fatalf("expected 2 episodes, got %d", table.Len())
	}
	if match := table.MatchEpisode(1, 2, "", 0); !match.Matched || match.Episode.Title != "Wildly Inappropriate" {
		t.Fatalf("csv join failed: %+v", match)
	}
}

func TestLoadDispatchesOnExtension(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "episodes.json")
	if err := os.WriteFile(jsonPath, []byte(sampleJSON), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	table, err := Load(jsonPath)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if table.Len() != 3 {
		t.Fatalf("expected 3 episodes, got %d", table.Len())
	}

	if _, err := Load(filepath.Join(dir, "episodes.yaml")); err == nil {
		t.Fatal("expected error for unsupported extension")
	}
}

func TestEnrichAndWriteEnrichedIndex(t *testing.T) {
	table := loadSample(t)
	rows := []IndexRow{
		{Season: 2, Episode: 1, FileVTT: "s02/vtt/S02E01.vtt", M3U8: "https://cdn/x.m3u8", UUID: "u1", PSID: "p1", RequestedAtUTC: "2024-03-01T20:00:00Z", IsSDH: true},
		{Season: 2, Episode: 9, FileVTT: "s02/vtt/S02E09.vtt", M3U8: "https://cdn/y.m3u8", UUID: "u2", PSID: "p2", RequestedAtUTC: "2024-03-01T21:00:00Z"},
	}

	enriched := Enrich(rows, table, 0.5)
	if !enriched[0].MetadataMatched {
		t.Fatal("row 0 should match")
	}
	if enriched[0].Title != "Everyone's Replaceable" || enriched[0].OverallEpisode != "14" {
		t.Fatalf("unexpected enrichment: %+v", enriched[0])
	}
	if enriched[1].MetadataMatched {
		t.Fatal("row 1 should miss")
	}
	if enriched[1].Title != "" {
		t.Fatalf("missed row should keep empty columns, got %q", enriched[1].Title)
	}

	path := filepath.Join(t.TempDir(), "s02", "s02_index_enriched.csv")
	if err := WriteEnrichedIndex(path, enriched); err != nil {
		t.Fatalf("write: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer file.Close()
	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(records))
	}
	header := records[0]
	if header[0] != "season" || header[len(header)-2] != "metadata_matched" || header[len(header)-1] != "is_special" {
		t.Fatalf("unexpected header: %v", header)
	}
	if records[1][9] != "Season 2" {
		t.Fatalf("expected season_title column, got %v", records[1])
	}
	if records[2][len(header)-2] != "false" {
		t.Fatalf("expected metadata_matched false, got %v", records[2])
	}
}

func TestWriteIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s01_index.csv")
	rows := []IndexRow{{Season: 1, Episode: 1, FileVTT: "a.vtt", M3U8: "m", UUID: "u", PSID: "p", RequestedAtUTC: "t"}}
	if err := WriteIndex(path, rows); err != nil {
		t.Fatalf("write: %v", err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.HasPrefix(string(content), "season,episode,file_vtt") {
		t.Fatalf("unexpected content: %q", string(content))
	}
}
