package capture

import (
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	langpkg "capstan/internal/language"
)

var (
	// uuidPattern extracts the playlist UUID from the CDN path. The UUID is
	// stable across variants of the same episode.
	uuidPattern = regexp.MustCompile(`/ps01/[^/]+/([0-9a-f-]{36})/r/`)
	// psidPattern extracts the playback session id query token.
	psidPattern = regexp.MustCompile(`~psid=([0-9a-f-]{36})`)

	seasonPattern = regexp.MustCompile(`(?i)s(\d{1,2})`)
)

// Candidate is a playlist annotated with identity and preference signals.
type Candidate struct {
	Playlist
	// UUID identifies the episode across track variants. When the URL
	// carries no UUID a prefix-derived fallback key is used instead.
	UUID string
	// PSID is the playback session id, "nopsid" when absent.
	PSID string
	// IsSDH marks tracks with captions for the deaf and hard of hearing.
	IsSDH bool
	// LanguageHit marks tracks matching the preferred language.
	LanguageHit bool
}

// Classify derives identity and preference signals from a playlist URL.
func Classify(p Playlist, language string) Candidate {
	lower := strings.ToLower(p.URL)

	candidate := Candidate{
		Playlist: p,
		PSID:     "nopsid",
		IsSDH:    strings.Contains(lower, "sdh"),
	}

	if m := uuidPattern.FindStringSubmatch(p.URL); m != nil {
		candidate.UUID = m[1]
	} else {
		candidate.UUID = "nouuid:" + trimPathSegments(p.URL, 3)
	}
	if m := psidPattern.FindStringSubmatch(p.URL); m != nil {
		candidate.PSID = m[1]
	}

	// Track names carry either a 2- or 3-letter code; match both forms.
	if code2 := langpkg.ToISO2(language); code2 != "" {
		forms := []string{code2, langpkg.ToISO3(code2)}
		for _, form := range forms {
			if strings.Contains(lower, "_"+form+"_") || strings.Contains(lower, "/"+form+"_") {
				candidate.LanguageHit = true
				break
			}
		}
	}
	return candidate
}

// ClassifyAll classifies every playlist against the preferred language.
func ClassifyAll(playlists []Playlist, language string) []Candidate {
	out := make([]Candidate, 0, len(playlists))
	for _, p := range playlists {
		out = append(out, Classify(p, language))
	}
	return out
}

// SelectEpisodes picks one candidate per episode and orders the result by
// request time. Within an episode group the preferred language wins, then
// SDH, then the earliest request.
func SelectEpisodes(candidates []Candidate) []Candidate {
	groups := make(map[string][]Candidate)
	order := make([]string, 0)
	for _, candidate := range candidates {
		if _, seen := groups[candidate.UUID]; !seen {
			order = append(order, candidate.UUID)
		}
		groups[candidate.UUID] = append(groups[candidate.UUID], candidate)
	}

	chosen := make([]Candidate, 0, len(groups))
	for _, key := range order {
		group := groups[key]
		sort.SliceStable(group, func(i, j int) bool {
			if group[i].LanguageHit != group[j].LanguageHit {
				return group[i].LanguageHit
			}
			if group[i].IsSDH != group[j].IsSDH {
				return group[i].IsSDH
			}
			if !group[i].RequestedAt.Equal(group[j].RequestedAt) {
				return group[i].RequestedAt.Before(group[j].RequestedAt)
			}
			return group[i].URL < group[j].URL
		})
		chosen = append(chosen, group[0])
	}

	sort.SliceStable(chosen, func(i, j int) bool {
		if !chosen[i].RequestedAt.Equal(chosen[j].RequestedAt) {
			return chosen[i].RequestedAt.Before(chosen[j].RequestedAt)
		}
		return chosen[i].URL < chosen[j].URL
	})
	return chosen
}

// trimPathSegments drops the last n slash-separated segments from a URL,
// yielding a stable prefix for grouping when no UUID is present.
func trimPathSegments(u string, n int) string {
	out := u
	for i := 0; i < n; i++ {
		idx := strings.LastIndex(out, "/")
		if idx < 0 {
			return out
		}
		out = out[:idx]
	}
	return out
}

// SeasonFromFilename infers the season number from a capture filename like
// dance-moms-s03.har. Returns fallback when no sNN token is present.
func SeasonFromFilename(path string, fallback int) int {
	m := seasonPattern.FindStringSubmatch(filepath.Base(path))
	if m == nil {
		return fallback
	}
	season, err := strconv.Atoi(m[1])
	if err != nil {
		return fallback
	}
	return season
}
