package workflow

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"capstan/internal/cleaner"
	"capstan/internal/logging"
	"capstan/internal/merger"
	"capstan/internal/metadata"
	"capstan/internal/queue"
	"capstan/internal/structurer"
	"capstan/internal/testsupport"
)

// Exercises the real merge → clean → structure → enrich stages over staged
// caption segments, without any network fetch.
func TestPipelineFromStagedSegments(t *testing.T) {
	mapPath := filepath.Join(t.TempDir(), "speakers.csv")
	testsupport.WriteFile(t, mapPath,
		"speaker,canonical,role,aliases\nABBY,Abby Lee Miller,instructor,MISS ABBY\nHOLLY,Holly Frazier,mom,DR. HOLLY\n")
	tablePath := filepath.Join(t.TempDir(), "episodes.csv")
	testsupport.WriteFile(t, tablePath,
		"season,episode_in_season,overall_episode,season_title,title,original_air_date,us_viewers_millions,production_code,notes\n"+
			"2,1,14,Season 2,Everyone's Replaceable,\"January 10, 2012\",1.2,201,\n")

	cfg := testsupport.NewConfig(t,
		testsupport.WithSpeakerMap(mapPath),
		testsupport.WithEpisodeTable(tablePath),
	)
	store := testsupport.MustOpenStore(t, cfg)
	item := testsupport.NewEpisode(t, store, 2, 1)

	// Stage two overlapping segments the way consecutive HLS chunks arrive.
	staging := item.StagingRoot(cfg.Paths.StagingDir)
	testsupport.WriteSegment(t, filepath.Join(staging, "seg_0000.vtt"),
		[3]string{"00:00:01.000", "00:00:03.000", "ABBY: Everyone's replaceable."},
		[3]string{"00:00:03.500", "00:00:05.000", "HOLLY (whispers): Abby is unfair."},
	)
	testsupport.WriteSegment(t, filepath.Join(staging, "seg_0001.vtt"),
		[3]string{"00:00:03.500", "00:00:05.000", "HOLLY (whispers): Abby is unfair."},
		[3]string{"00:00:06.000", "00:00:07.000", "[applause]"},
	)

	item.Status = queue.StatusFetched
	if err := store.Update(context.Background(), item); err != nil {
		t.Fatalf("update item: %v", err)
	}

	logger := logging.NewNop()
	manager := NewManagerWithNotifier(cfg, store, logger, nil)
	manager.ConfigureStages(StageSet{
		Merger:     merger.NewStage(cfg, store, logger),
		Cleaner:    cleaner.NewStage(cfg, store, logger),
		Structurer: structurer.NewStage(cfg, store, logger),
		Enricher:   metadata.NewStage(cfg, store, logger),
	})

	if err := manager.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer manager.Stop()

	final := waitForStatus(t, store, item.ID, queue.StatusCompleted)

	if final.CueCount != 3 {
		t.Fatalf("expected 3 merged cues, got %d", final.CueCount)
	}
	if final.DuplicateCues != 1 {
		t.Fatalf("expected 1 duplicate removed, got %d", final.DuplicateCues)
	}
	if final.UtteranceCount != 3 {
		t.Fatalf("expected 3 utterances, got %d", final.UtteranceCount)
	}
	if !final.MetadataMatched {
		t.Fatal("expected metadata match")
	}
	if final.Title != "Everyone's Replaceable" {
		t.Fatalf("unexpected title %q", final.Title)
	}

	for _, path := range []string{final.MergedFile, final.CleanFile, final.SentencesFile, final.StructuredFile} {
		if path == "" {
			t.Fatal("expected all output paths recorded")
		}
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("missing output %s: %v", path, err)
		}
	}

	paragraph, err := os.ReadFile(final.CleanFile)
	if err != nil {
		t.Fatalf("read paragraph: %v", err)
	}
	if !strings.Contains(string(paragraph), "Everyone's replaceable.") {
		t.Fatalf("paragraph missing dialogue: %q", paragraph)
	}

	utterances, err := structurer.ReadFile(final.StructuredFile)
	if err != nil {
		t.Fatalf("read structured: %v", err)
	}
	if len(utterances) != 3 {
		t.Fatalf("expected 3 structured records, got %d", len(utterances))
	}
	if utterances[1].SpeakerRaw != "HOLLY" || utterances[1].Speaker != "Holly Frazier" {
		t.Fatalf("unexpected speaker resolution: %+v", utterances[1])
	}
	if utterances[1].SpeakerRole != "mom" {
		t.Fatalf("unexpected role %q", utterances[1].SpeakerRole)
	}
	if !utterances[2].IsCaptionNote {
		t.Fatalf("expected [applause] classified as note: %+v", utterances[2])
	}

	// Staging is removed once the merge result is safely on disk.
	if _, err := os.Stat(staging); !os.IsNotExist(err) {
		t.Fatalf("expected staging dir removed, stat err=%v", err)
	}
}
