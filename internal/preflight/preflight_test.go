package preflight_test

import (
	"context"
	"path/filepath"
	"testing"

	"capstan/internal/preflight"
	"capstan/internal/testsupport"
)

func TestCheckDirectoryAccess(t *testing.T) {
	dir := t.TempDir()

	result := preflight.CheckDirectoryAccess("Data root", dir)
	if !result.Passed {
		t.Fatalf("expected pass for writable directory: %s", result.Detail)
	}

	result = preflight.CheckDirectoryAccess("Data root", filepath.Join(dir, "missing"))
	if result.Passed {
		t.Fatal("expected failure for missing directory")
	}

	file := filepath.Join(dir, "file")
	testsupport.WriteFile(t, file, "x")
	result = preflight.CheckDirectoryAccess("Data root", file)
	if result.Passed {
		t.Fatal("expected failure for regular file")
	}
}

func TestCheckSpeakerMap(t *testing.T) {
	if result := preflight.CheckSpeakerMap(""); !result.Passed {
		t.Fatal("unset map path must pass")
	}

	path := filepath.Join(t.TempDir(), "speakers.csv")
	testsupport.WriteFile(t, path, "speaker,canonical,role,aliases\nHOLLY,Holly Frazier,mom,\n")
	result := preflight.CheckSpeakerMap(path)
	if !result.Passed {
		t.Fatalf("expected pass: %s", result.Detail)
	}

	if result := preflight.CheckSpeakerMap(filepath.Join(t.TempDir(), "missing.csv")); result.Passed {
		t.Fatal("expected failure for missing map")
	}
}

func TestCheckEpisodeTable(t *testing.T) {
	if result := preflight.CheckEpisodeTable(""); !result.Passed {
		t.Fatal("unset table path must pass")
	}

	path := filepath.Join(t.TempDir(), "episodes.csv")
	testsupport.WriteFile(t, path, "season,episode_in_season,overall_episode,title\n1,1,1,Pilot\n")
	result := preflight.CheckEpisodeTable(path)
	if !result.Passed {
		t.Fatalf("expected pass: %s", result.Detail)
	}
}

func TestRunAllChecksConfiguredInputs(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}

	results := preflight.RunAll(context.Background(), cfg)
	if len(results) != 3 {
		t.Fatalf("expected 3 directory checks, got %d", len(results))
	}
	for _, result := range results {
		if !result.Passed {
			t.Fatalf("check %s failed: %s", result.Name, result.Detail)
		}
	}

	cfg.Speakers.MapPath = filepath.Join(cfg.Paths.DataRoot, "speakers.csv")
	testsupport.WriteFile(t, cfg.Speakers.MapPath, "speaker,canonical,role,aliases\nABBY,Abby Lee Miller,instructor,\n")
	results = preflight.RunAll(context.Background(), cfg)
	if len(results) != 4 {
		t.Fatalf("expected speaker map check to join, got %d results", len(results))
	}
}
