package cleaner

import (
	"reflect"
	"testing"

	"capstan/internal/vtt"
)

func TestNormalizeText(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"curly quotes", "“It’s fine”", `"It's fine"`},
		{"dashes", "wait – no — stop", "wait - no - stop"},
		{"ellipsis", "well… okay", "well... okay"},
		{"whitespace collapse", "  two\t words \n here ", "two words here"},
		{"styling tags", "<i>whisper</i> and <c.yellow>color</c>", "whisper and color"},
		{"already clean", "nothing to do here.", "nothing to do here."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeText(tc.in); got != tc.want {
				t.Fatalf("NormalizeText(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeTextIdempotent(t *testing.T) {
	inputs := []string{
		"“It’s fine”",
		"plain text already",
		"many   spaces\tand\ttabs",
		"<i>tags</i> … and dashes — here",
	}
	for _, in := range inputs {
		once := NormalizeText(in)
		twice := NormalizeText(once)
		if once != twice {
			t.Fatalf("not idempotent: %q -> %q -> %q", in, once, twice)
		}
	}
}

func TestIsNoteOnly(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"[music]", true},
		{"(cheering)", true},
		{"(SIGHS)", true},
		{"ABBY: let's go", false},
		{"(whispers) she's here", false},
		{"", false},
		{"[dramatic music] (applause)", true},
	}
	for _, tc := range cases {
		if got := IsNoteOnly(tc.in); got != tc.want {
			t.Errorf("IsNoteOnly(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestRemoveNotes(t *testing.T) {
	got := RemoveNotes("She said (whispering) it was over [dramatic music] today")
	want := "She said it was over today"
	if got != want {
		t.Fatalf("RemoveNotes = %q, want %q", got, want)
	}
}

func TestCleanDropsAdjacentDuplicates(t *testing.T) {
	cues := []vtt.Cue{
		{Start: 0, End: 1, Text: "We're going to nationals."},
		{Start: 1, End: 2, Text: "We're going to nationals."},
		{Start: 2, End: 3, Text: "And we will win."},
	}
	result := Clean(cues, Options{})
	if result.DroppedDuplicates != 1 {
		t.Fatalf("expected 1 dropped duplicate, got %d", result.DroppedDuplicates)
	}
	if result.Paragraph != "We're going to nationals. And we will win." {
		t.Fatalf("unexpected paragraph: %q", result.Paragraph)
	}
}

func TestCleanKeepsNotesByDefault(t *testing.T) {
	cues := []vtt.Cue{
		{Start: 0, End: 1, Text: "[applause]"},
		{Start: 1, End: 2, Text: "Thank you."},
	}
	result := Clean(cues, Options{})
	if result.Paragraph != "[applause] Thank you." {
		t.Fatalf("unexpected paragraph: %q", result.Paragraph)
	}
}

func TestCleanStripNotes(t *testing.T) {
	cues := []vtt.Cue{
		{Start: 0, End: 1, Text: "[applause]"},
		{Start: 1, End: 2, Text: "Thank you (smiling) so much."},
	}
	result := Clean(cues, Options{StripNotes: true})
	if result.Paragraph != "Thank you so much." {
		t.Fatalf("unexpected paragraph: %q", result.Paragraph)
	}
	if result.Lines != 1 {
		t.Fatalf("expected 1 surviving line, got %d", result.Lines)
	}
}

func TestCleanIdempotentOnOwnOutput(t *testing.T) {
	cues := []vtt.Cue{
		{Start: 0, End: 1, Text: "<i>“We’re ready,”</i> she said."},
		{Start: 1, End: 2, Text: "Then we danced…"},
	}
	first := Clean(cues, Options{})
	second := Clean([]vtt.Cue{{Start: 0, End: 1, Text: first.Paragraph}}, Options{})
	if first.Paragraph != second.Paragraph {
		t.Fatalf("clean not idempotent: %q != %q", first.Paragraph, second.Paragraph)
	}
}

func TestSplitSentences(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []string
	}{
		{
			"plain sentences",
			"We won. It was great! Right?",
			[]string{"We won.", "It was great!", "Right?"},
		},
		{
			"quote trails sentence",
			`She said "go." Then left.`,
			[]string{`She said "go."`, "Then left."},
		},
		{
			"ellipsis breaks too",
			"Well... okay. Fine.",
			[]string{"Well...", "okay.", "Fine."},
		},
		{
			"no trailing punctuation",
			"We won. And then",
			[]string{"We won.", "And then"},
		},
		{
			"empty",
			"",
			nil,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := SplitSentences(tc.in)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("SplitSentences(%q) = %#v, want %#v", tc.in, got, tc.want)
			}
		})
	}
}
