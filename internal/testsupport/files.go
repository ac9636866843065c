package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// WriteFile writes content to path, creating parent directories.
func WriteFile(t testing.TB, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteSegment writes a WEBVTT segment file holding the given cue lines.
// Each cue is (start, end, text) with times in whole seconds.
func WriteSegment(t testing.TB, path string, cues ...[3]string) {
	t.Helper()

	var b strings.Builder
	b.WriteString("WEBVTT\n")
	for _, cue := range cues {
		fmt.Fprintf(&b, "\n%s --> %s\n%s\n", cue[0], cue[1], cue[2])
	}
	WriteFile(t, path, b.String())
}
