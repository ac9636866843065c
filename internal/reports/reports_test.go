package reports

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"capstan/internal/speakers"
	"capstan/internal/structurer"
)

func writeStructured(t *testing.T, root string, season, episode int, utterances []structurer.Utterance) {
	t.Helper()
	name := filepath.Join(root,
		"s"+pad(season), "structured",
		"S"+pad(season)+"E"+pad(episode)+".jsonl")
	if err := structurer.WriteFile(name, utterances); err != nil {
		t.Fatalf("write structured: %v", err)
	}
}

func pad(n int) string {
	if n < 10 {
		return "0" + string(rune('0'+n))
	}
	return string(rune('0'+n/10)) + string(rune('0'+n%10))
}

func TestStructuredFilesWalksSeasons(t *testing.T) {
	root := t.TempDir()
	writeStructured(t, root, 1, 2, []structurer.Utterance{{Season: 1, Episode: 2, Speaker: "ABBY", Text: "hi"}})
	writeStructured(t, root, 1, 1, []structurer.Utterance{{Season: 1, Episode: 1, Speaker: "ABBY", Text: "hi"}})
	writeStructured(t, root, 2, 1, []structurer.Utterance{{Season: 2, Episode: 1, Speaker: "ABBY", Text: "hi"}})

	// Directories and files that must be ignored.
	if err := os.MkdirAll(filepath.Join(root, "notes"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "s01", "structured", "readme.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	files, err := StructuredFiles(root, nil)
	if err != nil {
		t.Fatalf("StructuredFiles: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("expected 3 files, got %d: %v", len(files), files)
	}
	if !strings.HasSuffix(files[0], "S01E01.jsonl") || !strings.HasSuffix(files[2], "S02E01.jsonl") {
		t.Fatalf("unexpected order: %v", files)
	}

	onlyTwo, err := StructuredFiles(root, []int{2})
	if err != nil {
		t.Fatalf("StructuredFiles season 2: %v", err)
	}
	if len(onlyTwo) != 1 || !strings.HasSuffix(onlyTwo[0], "S02E01.jsonl") {
		t.Fatalf("season filter failed: %v", onlyTwo)
	}

	missing, err := StructuredFiles(root, []int{9})
	if err != nil {
		t.Fatalf("missing season should not error: %v", err)
	}
	if len(missing) != 0 {
		t.Fatalf("expected no files for missing season, got %v", missing)
	}
}

func TestUnmappedSpeakersFiltersKnownTags(t *testing.T) {
	root := t.TempDir()
	writeStructured(t, root, 1, 1, []structurer.Utterance{
		{Season: 1, Episode: 1, Speaker: "ABBY", Text: "a"},
		{Season: 1, Episode: 1, Speaker: "RANDI", Text: "b"},
		{Season: 1, Episode: 1, Speaker: "RANDI", Text: "c"},
		{Season: 1, Episode: 1, SpeakerRaw: "crowd", Text: "d"},
		{Season: 1, Episode: 1, Text: "no speaker at all"},
	})

	m := speakers.NewMap([]speakers.Entry{{Canonical: "ABBY", Role: "instructor"}})
	files, err := StructuredFiles(root, nil)
	if err != nil {
		t.Fatal(err)
	}
	tally, err := UnmappedSpeakers(files, m)
	if err != nil {
		t.Fatalf("UnmappedSpeakers: %v", err)
	}
	counts := tally.Counts()
	if len(counts) != 2 {
		t.Fatalf("expected RANDI and CROWD, got %+v", counts)
	}
	if counts[0].Tag != "RANDI" || counts[0].Count != 2 {
		t.Fatalf("unexpected top miss: %+v", counts[0])
	}
	if counts[1].Tag != "CROWD" {
		t.Fatalf("raw fallback not uppercased: %+v", counts[1])
	}
}

func TestUnmappedSpeakersNilMapCountsEverything(t *testing.T) {
	root := t.TempDir()
	writeStructured(t, root, 1, 1, []structurer.Utterance{
		{Season: 1, Episode: 1, Speaker: "ABBY", Text: "a"},
	})
	files, err := StructuredFiles(root, nil)
	if err != nil {
		t.Fatal(err)
	}
	tally, err := UnmappedSpeakers(files, nil)
	if err != nil {
		t.Fatal(err)
	}
	if tally.Total() != 1 {
		t.Fatalf("expected every tag counted, got %d", tally.Total())
	}
}

func TestSpeakerCountsAggregatesAndSorts(t *testing.T) {
	root := t.TempDir()
	role := "instructor"
	writeStructured(t, root, 2, 1, []structurer.Utterance{
		{Season: 2, Episode: 1, Speaker: "ABBY", SpeakerRole: role, Text: "a"},
	})
	writeStructured(t, root, 1, 1, []structurer.Utterance{
		{Season: 1, Episode: 1, Speaker: "ABBY", SpeakerRole: role, Text: "a"},
		{Season: 1, Episode: 1, Speaker: "ABBY", Text: "b"},
		{Season: 1, Episode: 1, Speaker: "MELISSA", SpeakerRole: "mom", Text: "c"},
		{Season: 0, Episode: 1, Speaker: "GHOST", Text: "skipped"},
	})

	files, err := StructuredFiles(root, nil)
	if err != nil {
		t.Fatal(err)
	}
	rows, err := SpeakerCounts(files)
	if err != nil {
		t.Fatalf("SpeakerCounts: %v", err)
	}
	want := []CountRow{
		{Season: 1, Episode: 1, Speaker: "ABBY", Role: "instructor", Utterances: 2},
		{Season: 1, Episode: 1, Speaker: "MELISSA", Role: "mom", Utterances: 1},
		{Season: 2, Episode: 1, Speaker: "ABBY", Role: "instructor", Utterances: 1},
	}
	if len(rows) != len(want) {
		t.Fatalf("expected %d rows, got %d: %+v", len(want), len(rows), rows)
	}
	for i := range want {
		if rows[i] != want[i] {
			t.Fatalf("row %d = %+v, want %+v", i, rows[i], want[i])
		}
	}
}

func TestWriteSpeakerCountsCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", "speaker_counts.csv")
	rows := []CountRow{{Season: 1, Episode: 1, Speaker: "ABBY", Role: "instructor", Utterances: 3}}
	if err := WriteSpeakerCounts(path, rows); err != nil {
		t.Fatalf("WriteSpeakerCounts: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)
	if !strings.HasPrefix(content, "season,episode,speaker,role,utterance_count\n") {
		t.Fatalf("missing header: %q", content)
	}
	if !strings.Contains(content, "1,1,ABBY,instructor,3") {
		t.Fatalf("missing row: %q", content)
	}
}

func TestWriteSpeakerTallyCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "unmapped.csv")
	counts := []speakers.TagCount{{Tag: "RANDI", Count: 4}}
	if err := WriteSpeakerTally(path, counts); err != nil {
		t.Fatalf("WriteSpeakerTally: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "speaker,count\nRANDI,4") {
		t.Fatalf("unexpected content: %q", string(data))
	}
}
