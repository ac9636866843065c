package vtt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Render writes cues as a WebVTT document with a single header.
func Render(w io.Writer, cues []Cue) error {
	buf := bufio.NewWriter(w)
	if _, err := buf.WriteString("WEBVTT\n\n"); err != nil {
		return err
	}
	for _, cue := range cues {
		if _, err := fmt.Fprintf(buf, "%s --> %s\n%s\n\n", FormatTimestamp(cue.Start), FormatTimestamp(cue.End), cue.Text); err != nil {
			return err
		}
	}
	return buf.Flush()
}

// WriteFile renders cues to path, creating parent directories as needed.
func WriteFile(path string, cues []Cue) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create vtt directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create vtt file: %w", err)
	}
	if err := Render(file, cues); err != nil {
		file.Close()
		return fmt.Errorf("render vtt: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close vtt file: %w", err)
	}
	return nil
}
