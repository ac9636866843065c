package metadata

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"capstan/internal/textutil"
)

// Episode is one row of the show's episode table. Numeric identifiers are
// parsed for joining; display values keep their original string form so
// exports echo the source data untouched.
type Episode struct {
	// Season is the season number. Always present.
	Season int
	// EpisodeInSeason is the in-season episode number, -1 for specials
	// that carry no regular number.
	EpisodeInSeason int
	// OverallEpisode is the series-wide episode number, -1 when absent.
	OverallEpisode int

	SeasonTitle       string
	Title             string
	OriginalAirDate   string
	USViewersMillions string
	ProductionCode    string
	Notes             string
}

// DefaultTitleThreshold is the minimum cosine similarity for a title
// fallback match.
const DefaultTitleThreshold = 0.5

type joinKey struct {
	season  int
	episode int
}

// Table indexes episodes for joining.
type Table struct {
	episodes     []Episode
	bySeasonEp   map[joinKey]int
	byOverall    map[int]int
	fingerprints []*textutil.Fingerprint
	idf          map[string]float64
}

// New builds a Table with join indexes and a title similarity corpus.
func New(episodes []Episode) *Table {
	t := &Table{
		episodes:     episodes,
		bySeasonEp:   make(map[joinKey]int),
		byOverall:    make(map[int]int),
		fingerprints: make([]*textutil.Fingerprint, len(episodes)),
	}
	corpus := textutil.NewCorpus()
	for i, episode := range episodes {
		if episode.EpisodeInSeason >= 0 {
			key := joinKey{season: episode.Season, episode: episode.EpisodeInSeason}
			if _, dup := t.bySeasonEp[key]; !dup {
				t.bySeasonEp[key] = i
			}
		}
		if episode.OverallEpisode >= 0 {
			if _, dup := t.byOverall[episode.OverallEpisode]; !dup {
				t.byOverall[episode.OverallEpisode] = i
			}
		}
		fp := textutil.NewFingerprint(episode.Title)
		t.fingerprints[i] = fp
		corpus.Add(fp)
	}
	t.idf = corpus.IDF()
	return t
}

// Load reads an episode table, dispatching on the file extension (.json or
// .csv).
func Load(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open episode table: %w", err)
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return ReadJSON(file)
	case ".csv":
		return ReadCSV(file)
	default:
		return nil, fmt.Errorf("unsupported episode table format %q", filepath.Ext(path))
	}
}

// rawEpisode matches the scraper's JSON output, where every value is a string.
type rawEpisode struct {
	Season            string `json:"season"`
	SeasonTitle       string `json:"season_title"`
	EpisodeInSeason   string `json:"episode_in_season"`
	OverallEpisode    string `json:"overall_episode"`
	Title             string `json:"title"`
	OriginalAirDate   string `json:"original_air_date"`
	USViewersMillions string `json:"us_viewers_millions"`
	ProductionCode    string `json:"production_code"`
	Notes             string `json:"notes"`
}

// ReadJSON parses the scraper's episodes.json array.
func ReadJSON(r io.Reader) (*Table, error) {
	var raw []rawEpisode
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode episode table: %w", err)
	}
	episodes := make([]Episode, 0, len(raw))
	for _, row := range raw {
		episode, ok := row.toEpisode()
		if !ok {
			continue
		}
		episodes = append(episodes, episode)
	}
	return New(episodes), nil
}

// ReadCSV parses an episode table CSV with a header row using the same
// column names as the JSON form.
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return New(nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read episode table header: %w", err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}

	var episodes []Episode
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read episode table row: %w", err)
		}
		cell := func(name string) string {
			idx, ok := columns[name]
			if !ok || idx >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[idx])
		}
		raw := rawEpisode{
			Season:            cell("season"),
			SeasonTitle:       cell("season_title"),
			EpisodeInSeason:   cell("episode_in_season"),
			OverallEpisode:    cell("overall_episode"),
			Title:             cell("title"),
			OriginalAirDate:   cell("original_air_date"),
			USViewersMillions: cell("us_viewers_millions"),
			ProductionCode:    cell("production_code"),
			Notes:             cell("notes"),
		}
		episode, ok := raw.toEpisode()
		if !ok {
			continue
		}
		episodes = append(episodes, episode)
	}
	return New(episodes), nil
}

func (r rawEpisode) toEpisode() (Episode, bool) {
	season, err := strconv.Atoi(strings.TrimSpace(r.Season))
	if err != nil {
		return Episode{}, false
	}
	return Episode{
		Season:            season,
		EpisodeInSeason:   atoiOr(r.EpisodeInSeason, -1),
		OverallEpisode:    atoiOr(r.OverallEpisode, -1),
		SeasonTitle:       r.SeasonTitle,
		Title:             strings.TrimSpace(r.Title),
		OriginalAirDate:   r.OriginalAirDate,
		USViewersMillions: r.USViewersMillions,
		ProductionCode:    r.ProductionCode,
		Notes:             r.Notes,
	}, true
}

func atoiOr(value string, fallback int) int {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}

// Len reports the number of episodes in the table.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.episodes)
}

// Episodes returns the table rows in source order.
func (t *Table) Episodes() []Episode {
	if t == nil {
		return nil
	}
	out := make([]Episode, len(t.episodes))
	copy(out, t.episodes)
	return out
}

// Match is the outcome of joining one captured episode.
type Match struct {
	Episode *Episode
	// Matched reports whether any join path found a row.
	Matched bool
	// IsSpecial is set when the match came through a fallback path,
	// meaning the capture numbering likely points at a special.
	IsSpecial bool
	// Via names the join path: exact, overall, or title.
	Via string
	// Score is the title similarity for Via == "title".
	Score float64
}

// MatchEpisode joins a captured episode onto the table. The exact
// (season, episode) key wins; misses fall back to the overall episode number
// and then to title similarity against titleHint when it is non-empty.
func (t *Table) MatchEpisode(season, episode int, titleHint string, titleThreshold float64) Match {
	if t == nil {
		return Match{}
	}
	if idx, ok := t.bySeasonEp[joinKey{season: season, episode: episode}]; ok {
		return Match{Episode: &t.episodes[idx], Matched: true, Via: "exact"}
	}
	if idx, ok := t.byOverall[episode]; ok {
		return Match{Episode: &t.episodes[idx], Matched: true, IsSpecial: true, Via: "overall"}
	}
	if titleHint != "" {
		if titleThreshold <= 0 {
			titleThreshold = DefaultTitleThreshold
		}
		if idx, score := t.bestTitleMatch(titleHint); idx >= 0 && score >= titleThreshold {
			return Match{Episode: &t.episodes[idx], Matched: true, IsSpecial: true, Via: "title", Score: score}
		}
	}
	return Match{}
}

func (t *Table) bestTitleMatch(title string) (int, float64) {
	query := textutil.NewFingerprint(title).WithIDF(t.idf)
	if query == nil {
		return -1, 0
	}
	bestIdx, bestScore := -1, 0.0
	for i, fp := range t.fingerprints {
		score := textutil.CosineSimilarity(query, fp.WithIDF(t.idf))
		if score > bestScore {
			bestIdx, bestScore = i, score
		}
	}
	return bestIdx, bestScore
}
