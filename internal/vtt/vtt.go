package vtt

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
)

// Cue is a single subtitle cue with times in seconds from episode start.
type Cue struct {
	Start float64
	End   float64
	Text  string
}

// Document is a parsed VTT file. Malformed counts cue blocks whose timing
// line could not be parsed; those cues are dropped, never fatal.
type Document struct {
	Cues      []Cue
	Malformed int
}

// timingPattern matches the CDN's cue timing shape: two-digit hours and
// three-digit milliseconds, optionally followed by cue settings.
var timingPattern = regexp.MustCompile(`^(\d{2}):(\d{2}):(\d{2})\.(\d{3})\s+-->\s+(\d{2}):(\d{2}):(\d{2})\.(\d{3})`)

// ParseTimestamp converts an HH:MM:SS.mmm timestamp into seconds.
func ParseTimestamp(value string) (float64, error) {
	m := timestampOnlyPattern.FindStringSubmatch(value)
	if m == nil {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	return timestampSeconds(m[1], m[2], m[3], m[4]), nil
}

var timestampOnlyPattern = regexp.MustCompile(`^(\d{2}):(\d{2}):(\d{2})\.(\d{3})$`)

func timestampSeconds(h, m, s, ms string) float64 {
	hours, _ := strconv.Atoi(h)
	minutes, _ := strconv.Atoi(m)
	seconds, _ := strconv.Atoi(s)
	millis, _ := strconv.Atoi(ms)
	return float64(hours)*3600 + float64(minutes)*60 + float64(seconds) + float64(millis)/1000.0
}

// FormatTimestamp renders seconds as HH:MM:SS.mmm.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	millis := int64(math.Round(seconds * 1000))
	h := millis / 3_600_000
	millis -= h * 3_600_000
	m := millis / 60_000
	millis -= m * 60_000
	s := millis / 1000
	millis -= s * 1000
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, millis)
}
