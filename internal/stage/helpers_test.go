package stage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"capstan/internal/queue"
	"capstan/internal/services"
)

func TestLoadMergedCaptions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "S01E01.vtt")
	content := "WEBVTT\n\n00:00:01.000 --> 00:00:02.500\nHello.\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write vtt: %v", err)
	}

	doc, err := LoadMergedCaptions(&queue.Item{MergedFile: path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Cues) != 1 || doc.Cues[0].Text != "Hello." {
		t.Fatalf("unexpected document: %+v", doc)
	}
}

func TestLoadMergedCaptionsMissingPath(t *testing.T) {
	_, err := LoadMergedCaptions(&queue.Item{})
	if err == nil {
		t.Fatal("expected error for missing path")
	}
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation marker, got %v", err)
	}
}

func TestLoadMergedCaptionsMissingFile(t *testing.T) {
	_, err := LoadMergedCaptions(&queue.Item{MergedFile: filepath.Join(t.TempDir(), "absent.vtt")})
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not-found marker, got %v", err)
	}
}
