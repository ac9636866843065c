package textutil

import (
	"fmt"
	"regexp"
	"strconv"
)

var episodeLabelPattern = regexp.MustCompile(`(?i)^s(\d{2})e(\d{2})$`)

// EpisodeLabel formats the canonical uppercase episode identifier, e.g. S02E05.
func EpisodeLabel(season, episode int) string {
	return fmt.Sprintf("S%02dE%02d", season, episode)
}

// EpisodeKey formats the lowercase form used for database keys and logs.
func EpisodeKey(season, episode int) string {
	return fmt.Sprintf("s%02de%02d", season, episode)
}

// SeasonDir formats the season directory name, e.g. s02.
func SeasonDir(season int) string {
	return fmt.Sprintf("s%02d", season)
}

// ParseEpisodeLabel extracts season and episode numbers from an SxxEyy label
// in either case. Returns false when the label does not match.
func ParseEpisodeLabel(label string) (season, episode int, ok bool) {
	m := episodeLabelPattern.FindStringSubmatch(label)
	if m == nil {
		return 0, 0, false
	}
	season, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, 0, false
	}
	episode, err = strconv.Atoi(m[2])
	if err != nil {
		return 0, 0, false
	}
	return season, episode, true
}
