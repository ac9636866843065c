package queue

import (
	"fmt"
	"path/filepath"
	"strings"

	"capstan/internal/textutil"
)

// EpisodeKey returns the lowercase sNNeNN identifier used in logs and paths.
func (i Item) EpisodeKey() string {
	return textutil.EpisodeKey(i.Season, i.Episode)
}

// Label returns the uppercase SNNENN identifier used in output filenames.
func (i Item) Label() string {
	return textutil.EpisodeLabel(i.Season, i.Episode)
}

// StagingRoot returns the per-item staging directory rooted at base. The
// episode key plus the queue ID keeps concurrent re-fetches of the same
// episode from colliding.
func (i Item) StagingRoot(base string) string {
	base = strings.TrimSpace(base)
	if base == "" {
		return ""
	}
	segment := sanitizeSegment(fmt.Sprintf("%s-%d", i.EpisodeKey(), i.ID))
	return filepath.Join(base, segment)
}

func sanitizeSegment(value string) string {
	value = textutil.SanitizeFileName(value)
	if value == "" {
		return ""
	}
	value = strings.ReplaceAll(value, " ", "-")
	value = strings.Trim(value, "-_")
	if value == "" {
		return "queue"
	}
	return value
}
