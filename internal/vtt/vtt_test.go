package vtt

import (
	"bytes"
	"math"
	"path/filepath"
	"strings"
	"testing"
)

const sampleDoc = `WEBVTT
X-TIMESTAMP-MAP=MPEGTS:900000,LOCAL:00:00:00.000

00:00:01.000 --> 00:00:02.500
ABBY: Let's go, girls.

cue-7
00:00:02.500 --> 00:00:04.000 align:start position:10%
[applause]

NOTE this block is ignored
with a second line

00:00:04.000 --> 00:00:06.250
MELISSA: She's ready.
I promise.
`

func TestParseBasicDocument(t *testing.T) {
	doc, err := ParseString(sampleDoc)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if doc.Malformed != 0 {
		t.Fatalf("expected no malformed cues, got %d", doc.Malformed)
	}
	if len(doc.Cues) != 3 {
		t.Fatalf("expected 3 cues, got %d", len(doc.Cues))
	}

	first := doc.Cues[0]
	if first.Start != 1.0 || first.End != 2.5 {
		t.Fatalf("unexpected first cue times: %v -> %v", first.Start, first.End)
	}
	if first.Text != "ABBY: Let's go, girls." {
		t.Fatalf("unexpected first cue text: %q", first.Text)
	}

	last := doc.Cues[2]
	if last.Text != "MELISSA: She's ready.\nI promise." {
		t.Fatalf("multi-line cue text not preserved: %q", last.Text)
	}
}

func TestParseCountsMalformedTimings(t *testing.T) {
	content := "WEBVTT\n\n00:00:01.000 --> 00:00:02.000\nfine\n\n0:00:03.0 --> 0:00:04.0\nbroken hours\n\n00:00:05.000 --> 00:00:06.000\nalso fine\n"
	doc, err := ParseString(content)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if doc.Malformed != 1 {
		t.Fatalf("expected 1 malformed cue, got %d", doc.Malformed)
	}
	if len(doc.Cues) != 2 {
		t.Fatalf("expected 2 parsed cues, got %d", len(doc.Cues))
	}
	for _, cue := range doc.Cues {
		if strings.Contains(cue.Text, "broken") {
			t.Fatal("malformed cue text should be skipped")
		}
	}
}

func TestParseHandlesCRLF(t *testing.T) {
	content := "WEBVTT\r\n\r\n00:00:01.000 --> 00:00:02.000\r\nhello\r\n"
	doc, err := ParseString(content)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(doc.Cues) != 1 || doc.Cues[0].Text != "hello" {
		t.Fatalf("unexpected cues: %+v", doc.Cues)
	}
}

func TestFormatTimestamp(t *testing.T) {
	cases := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00:00.000"},
		{1.5, "00:00:01.500"},
		{65.28, "00:01:05.280"},
		{3661.001, "01:01:01.001"},
		{-2, "00:00:00.000"},
	}
	for _, tc := range cases {
		if got := FormatTimestamp(tc.seconds); got != tc.want {
			t.Errorf("FormatTimestamp(%v) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}

func TestParseTimestamp(t *testing.T) {
	got, err := ParseTimestamp("00:01:05.280")
	if err != nil {
		t.Fatalf("parse timestamp: %v", err)
	}
	if math.Abs(got-65.28) > 0.0001 {
		t.Fatalf("got %v, want 65.28", got)
	}
	if _, err := ParseTimestamp("1:05.280"); err == nil {
		t.Fatal("expected error for short timestamp")
	}
}

func TestRenderRoundTrip(t *testing.T) {
	cues := []Cue{
		{Start: 1, End: 2.5, Text: "ABBY: Let's go, girls."},
		{Start: 2.5, End: 4, Text: "[applause]"},
		{Start: 4, End: 6.25, Text: "MELISSA: She's ready.\nI promise."},
	}

	var buf bytes.Buffer
	if err := Render(&buf, cues); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "WEBVTT\n\n") {
		t.Fatalf("missing header: %q", buf.String())
	}

	doc, err := Parse(&buf)
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if len(doc.Cues) != len(cues) {
		t.Fatalf("round trip lost cues: %d != %d", len(doc.Cues), len(cues))
	}
	for i := range cues {
		if doc.Cues[i] != cues[i] {
			t.Errorf("cue %d mismatch: %+v != %+v", i, doc.Cues[i], cues[i])
		}
	}
}

func TestWriteFileCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s01", "vtt", "S01E01.vtt")
	if err := WriteFile(path, []Cue{{Start: 0, End: 1, Text: "hi"}}); err != nil {
		t.Fatalf("write: %v", err)
	}
	doc, err := ParseFile(path)
	if err != nil {
		t.Fatalf("parse file: %v", err)
	}
	if len(doc.Cues) != 1 {
		t.Fatalf("expected 1 cue, got %d", len(doc.Cues))
	}
}
