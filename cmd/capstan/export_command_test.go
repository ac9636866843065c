package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const exportEpisodesCSV = `season,episode_in_season,overall_episode,season_title,title,original_air_date,us_viewers_millions,production_code,notes
2,1,14,Season 2,Everyone's Replaceable,2012-01-10,2.0,201,
2,2,15,Season 2,The Runaway Mom,2012-01-17,2.1,202,
`

func TestExportIndexEnriched(t *testing.T) {
	env := setupCLITestEnv(t)
	ctx := context.Background()

	episodesPath := filepath.Join(env.baseDir, "episodes.csv")
	if err := os.WriteFile(episodesPath, []byte(exportEpisodesCSV), 0o644); err != nil {
		t.Fatalf("write episode table: %v", err)
	}
	env.cfg.Metadata.EpisodesPath = episodesPath
	writeTestConfig(t, env.configPath, env.cfg)

	for episode := 1; episode <= 2; episode++ {
		vttPath := filepath.Join(env.baseDir, "in.vtt")
		if err := os.WriteFile(vttPath, []byte("WEBVTT\n"), 0o644); err != nil {
			t.Fatalf("write vtt: %v", err)
		}
		if _, err := env.store.NewMergedFile(ctx, 2, episode, vttPath); err != nil {
			t.Fatalf("seed merged item: %v", err)
		}
	}

	stdout, _, err := runCLI(t, []string{"export", "index", "--season", "2", "--enriched"}, env.configPath)
	if err != nil {
		t.Fatalf("export index: %v", err)
	}
	requireContains(t, stdout, "index.csv")
	requireContains(t, stdout, "index_enriched.csv")
	requireContains(t, stdout, "episodes_index_enriched.csv")

	seasonRoot := env.cfg.SeasonRoot(2)
	for _, name := range []string{"index.csv", "index_enriched.csv"} {
		if _, err := os.Stat(filepath.Join(seasonRoot, name)); err != nil {
			t.Fatalf("expected %s: %v", name, err)
		}
	}

	combined, err := os.ReadFile(filepath.Join(env.cfg.Paths.DataRoot, "episodes_index_enriched.csv"))
	if err != nil {
		t.Fatalf("read combined index: %v", err)
	}
	content := string(combined)
	if !strings.Contains(content, "Everyone's Replaceable") {
		t.Fatalf("combined index missing joined title: %s", content)
	}
	if strings.Count(content, "\n") != 3 {
		t.Fatalf("expected header plus two rows, got: %s", content)
	}
}

func TestExportIndexRequiresSeason(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"export", "index"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "--season is required") {
		t.Fatalf("expected season requirement error, got %v", err)
	}
}
