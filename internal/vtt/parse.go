package vtt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Parse reads a VTT document, tolerating headers, STYLE and NOTE blocks, cue
// identifiers, and CRLF line endings. Lines that look like cue timings but do
// not parse are counted in Malformed and their text block is skipped.
func Parse(r io.Reader) (Document, error) {
	var doc Document

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return doc, fmt.Errorf("read vtt: %w", err)
	}

	for i := 0; i < len(lines); {
		line := lines[i]
		i++

		if line == "" || strings.HasPrefix(line, "WEBVTT") {
			continue
		}
		if strings.HasPrefix(line, "STYLE") || strings.HasPrefix(line, "NOTE") {
			for i < len(lines) && strings.TrimSpace(lines[i]) != "" {
				i++
			}
			continue
		}

		m := timingPattern.FindStringSubmatch(line)
		if m == nil {
			if strings.Contains(line, "-->") {
				doc.Malformed++
				for i < len(lines) && strings.TrimSpace(lines[i]) != "" {
					i++
				}
			}
			// otherwise a cue identifier or stray line; skip it
			continue
		}

		start := timestampSeconds(m[1], m[2], m[3], m[4])
		end := timestampSeconds(m[5], m[6], m[7], m[8])

		var text []string
		for i < len(lines) && strings.TrimSpace(lines[i]) != "" {
			text = append(text, lines[i])
			i++
		}
		doc.Cues = append(doc.Cues, Cue{
			Start: start,
			End:   end,
			Text:  strings.Join(text, "\n"),
		})
	}
	return doc, nil
}

// ParseString parses an in-memory VTT document.
func ParseString(content string) (Document, error) {
	return Parse(strings.NewReader(content))
}

// ParseFile parses a VTT file from disk.
func ParseFile(path string) (Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return Document{}, fmt.Errorf("open vtt: %w", err)
	}
	defer file.Close()
	return Parse(file)
}
