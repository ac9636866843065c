package reports

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"capstan/internal/speakers"
	"capstan/internal/structurer"
	"capstan/internal/textutil"
)

var seasonDirPattern = regexp.MustCompile(`^s\d{2}$`)

// StructuredFiles lists structured JSONL files under root, ordered by season
// directory and filename. When seasons is non-empty only those seasons are
// scanned; otherwise every sNN directory is. Seasons without a structured
// subdirectory are skipped.
func StructuredFiles(root string, seasons []int) ([]string, error) {
	var dirs []string
	if len(seasons) > 0 {
		for _, season := range seasons {
			dirs = append(dirs, filepath.Join(root, textutil.SeasonDir(season)))
		}
	} else {
		entries, err := os.ReadDir(root)
		if err != nil {
			return nil, fmt.Errorf("read processed root: %w", err)
		}
		for _, entry := range entries {
			if entry.IsDir() && seasonDirPattern.MatchString(entry.Name()) {
				dirs = append(dirs, filepath.Join(root, entry.Name()))
			}
		}
	}

	var files []string
	for _, dir := range dirs {
		structured := filepath.Join(dir, "structured")
		entries, err := os.ReadDir(structured)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("read structured directory: %w", err)
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if strings.HasSuffix(strings.ToLower(entry.Name()), ".jsonl") {
				files = append(files, filepath.Join(structured, entry.Name()))
			}
		}
	}
	return files, nil
}

// UnmappedSpeakers tallies speaker tags from structured files that the map
// does not resolve. With a nil map every tag is tallied, which approximates
// the report when no mapping has been curated yet.
func UnmappedSpeakers(paths []string, m *speakers.Map) (*speakers.Tally, error) {
	tally := speakers.NewTally()
	for _, path := range paths {
		utterances, err := structurer.ReadFile(path)
		if err != nil {
			return nil, err
		}
		for _, utterance := range utterances {
			tag := utterance.Speaker
			if tag == "" {
				tag = utterance.SpeakerRaw
			}
			tag = strings.ToUpper(strings.TrimSpace(tag))
			if tag == "" {
				continue
			}
			if _, _, matched := m.Resolve(tag); matched {
				continue
			}
			tally.Record(tag)
		}
	}
	return tally, nil
}

// CountRow is one line of the speaker_counts aggregation.
type CountRow struct {
	Season     int
	Episode    int
	Speaker    string
	Role       string
	Utterances int
}

type countKey struct {
	season  int
	episode int
	speaker string
}

// SpeakerCounts aggregates utterance counts per (season, episode, speaker).
// The role column carries the first non-empty role seen for each speaker.
// Records without a season, episode, or speaker are skipped.
func SpeakerCounts(paths []string) ([]CountRow, error) {
	counts := make(map[countKey]int)
	roles := make(map[string]string)

	for _, path := range paths {
		utterances, err := structurer.ReadFile(path)
		if err != nil {
			return nil, err
		}
		for _, utterance := range utterances {
			speaker := utterance.Speaker
			if speaker == "" {
				speaker = utterance.SpeakerRaw
			}
			speaker = strings.ToUpper(strings.TrimSpace(speaker))
			if utterance.Season == 0 || utterance.Episode == 0 || speaker == "" {
				continue
			}
			counts[countKey{utterance.Season, utterance.Episode, speaker}]++
			role := strings.TrimSpace(utterance.SpeakerRole)
			if role != "" {
				if _, seen := roles[speaker]; !seen {
					roles[speaker] = role
				}
			}
		}
	}

	rows := make([]CountRow, 0, len(counts))
	for key, count := range counts {
		rows = append(rows, CountRow{
			Season:     key.season,
			Episode:    key.episode,
			Speaker:    key.speaker,
			Role:       roles[key.speaker],
			Utterances: count,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Season != rows[j].Season {
			return rows[i].Season < rows[j].Season
		}
		if rows[i].Episode != rows[j].Episode {
			return rows[i].Episode < rows[j].Episode
		}
		return rows[i].Speaker < rows[j].Speaker
	})
	return rows, nil
}

// WriteSpeakerCounts writes aggregated rows as CSV, creating parent
// directories as needed.
func WriteSpeakerCounts(path string, rows []CountRow) error {
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, []string{
			strconv.Itoa(row.Season),
			strconv.Itoa(row.Episode),
			row.Speaker,
			row.Role,
			strconv.Itoa(row.Utterances),
		})
	}
	header := []string{"season", "episode", "speaker", "role", "utterance_count"}
	return writeCSV(path, header, records)
}

// WriteSpeakerTally writes unmapped speaker counts as CSV.
func WriteSpeakerTally(path string, counts []speakers.TagCount) error {
	records := make([][]string, 0, len(counts))
	for _, tc := range counts {
		records = append(records, []string{tc.Tag, strconv.Itoa(tc.Count)})
	}
	return writeCSV(path, []string{"speaker", "count"}, records)
}

func writeCSV(path string, header []string, records [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		file.Close()
		return fmt.Errorf("write report header: %w", err)
	}
	if err := writer.WriteAll(records); err != nil {
		file.Close()
		return fmt.Errorf("write report rows: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close report file: %w", err)
	}
	return nil
}
