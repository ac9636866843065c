package capture

import (
	"fmt"
	"net/url"
	"strings"
)

// SegmentNames lists the .vtt segment references in an m3u8 playlist body,
// in playlist order. Directive lines and anything that is not a subtitle
// segment are ignored.
func SegmentNames(body string) []string {
	var names []string
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !strings.HasSuffix(line, ".vtt") {
			continue
		}
		names = append(names, line)
	}
	return names
}

// HasSubtitleSegments reports whether the playlist references any .vtt
// segments, distinguishing subtitle playlists from audio and video ones.
func HasSubtitleSegments(body string) bool {
	return len(SegmentNames(body)) > 0
}

// ResolveSegment resolves a segment reference against the playlist URL the
// same way a player would: relative to the playlist's directory.
func ResolveSegment(playlistURL, segment string) (string, error) {
	base := playlistURL
	if idx := strings.LastIndex(base, "/"); idx >= 0 {
		base = base[:idx+1]
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse playlist url: %w", err)
	}
	ref, err := url.Parse(segment)
	if err != nil {
		return "", fmt.Errorf("parse segment reference %q: %w", segment, err)
	}
	return baseURL.ResolveReference(ref).String(), nil
}

// SegmentURLs resolves every segment in the playlist body to an absolute URL.
func SegmentURLs(playlistURL, body string) ([]string, error) {
	names := SegmentNames(body)
	out := make([]string, 0, len(names))
	for _, name := range names {
		resolved, err := ResolveSegment(playlistURL, name)
		if err != nil {
			return nil, err
		}
		out = append(out, resolved)
	}
	return out, nil
}
