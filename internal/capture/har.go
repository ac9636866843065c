package capture

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// Playlist is one subtitle playlist request observed in a capture.
type Playlist struct {
	URL         string
	RequestedAt time.Time
}

type harFile struct {
	Log struct {
		Entries []harEntry `json:"entries"`
	} `json:"log"`
}

type harEntry struct {
	StartedDateTime string `json:"startedDateTime"`
	Request         struct {
		URL string `json:"url"`
	} `json:"request"`
}

// ParseHAR walks a HAR document and returns every .m3u8 request in capture
// order. Entries without a usable timestamp fall back to the current time so
// they sort last among well-formed requests from the same export.
func ParseHAR(r io.Reader) ([]Playlist, error) {
	var har harFile
	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&har); err != nil {
		return nil, fmt.Errorf("decode har: %w", err)
	}

	var playlists []Playlist
	for _, entry := range har.Log.Entries {
		u := entry.Request.URL
		if !strings.HasSuffix(strings.ToLower(u), ".m3u8") {
			continue
		}
		playlists = append(playlists, Playlist{
			URL:         u,
			RequestedAt: parseStartedAt(entry.StartedDateTime),
		})
	}
	return playlists, nil
}

// ParseHARFile parses a HAR export from disk.
func ParseHARFile(path string) ([]Playlist, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open har: %w", err)
	}
	defer file.Close()
	return ParseHAR(file)
}

func parseStartedAt(value string) time.Time {
	if value == "" {
		return time.Now().UTC()
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t
	}
	return time.Now().UTC()
}
