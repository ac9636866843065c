package queue

import (
	"testing"
	"time"
)

func TestParseStatus(t *testing.T) {
	cases := []struct {
		in   string
		want Status
		ok   bool
	}{
		{"pending", StatusPending, true},
		{" Fetching ", StatusFetching, true},
		{"ENRICHING", StatusEnriching, true},
		{"review", StatusReview, true},
		{"ripping", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := ParseStatus(tc.in)
		if ok != tc.ok {
			t.Fatalf("ParseStatus(%q) ok = %v, want %v", tc.in, ok, tc.ok)
		}
		if ok && got != tc.want {
			t.Fatalf("ParseStatus(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestRollbackCoversEveryProcessingStatus(t *testing.T) {
	covered := make(map[Status]struct{}, len(stageRollbackTransitions))
	for _, transition := range stageRollbackTransitions {
		covered[transition.from] = struct{}{}
	}
	for _, status := range processingOrder {
		if _, ok := covered[status]; !ok {
			t.Fatalf("processing status %s has no rollback transition", status)
		}
	}
}

func TestInitProgressPreservesExistingStage(t *testing.T) {
	item := Item{ProgressStage: "Merge", ProgressPercent: 80, ErrorMessage: "old"}
	item.InitProgress("Clean", "starting")
	if item.ProgressStage != "Merge" {
		t.Fatalf("expected existing stage preserved, got %q", item.ProgressStage)
	}
	if item.ProgressPercent != 0 || item.ErrorMessage != "" {
		t.Fatalf("expected percent and error reset: %+v", item)
	}

	fresh := Item{}
	fresh.InitProgress("Clean", "starting")
	if fresh.ProgressStage != "Clean" || fresh.ProgressMessage != "starting" {
		t.Fatalf("expected stage set when empty: %+v", fresh)
	}
}

func TestSetFailedClearsHeartbeat(t *testing.T) {
	now := time.Now().UTC()
	item := Item{Status: StatusCleaning, LastHeartbeat: &now}
	item.SetFailed("boom")
	if item.Status != StatusFailed || item.LastHeartbeat != nil {
		t.Fatalf("unexpected item after SetFailed: %+v", item)
	}
	if item.ErrorMessage != "boom" || item.ProgressMessage != "boom" {
		t.Fatalf("expected failure message propagated: %+v", item)
	}
}

func TestStagingRoot(t *testing.T) {
	item := Item{ID: 7, Season: 1, Episode: 3}
	got := item.StagingRoot("/tmp/staging")
	if got != "/tmp/staging/s01e03-7" {
		t.Fatalf("unexpected staging root: %s", got)
	}
	if item.StagingRoot("") != "" {
		t.Fatal("expected empty staging root for empty base")
	}
	if item.EpisodeKey() != "s01e03" || item.Label() != "S01E03" {
		t.Fatalf("unexpected identifiers: %s %s", item.EpisodeKey(), item.Label())
	}
}
