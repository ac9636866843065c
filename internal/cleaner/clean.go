package cleaner

import (
	"strings"

	"capstan/internal/vtt"
)

// Options tune cleaning behaviour.
type Options struct {
	// StripNotes removes bracketed caption notes from the cleaned text.
	StripNotes bool
}

// Result is the cleaned rendering of one episode.
type Result struct {
	// Paragraph is the full transcript reflowed onto one line.
	Paragraph string
	// Sentences is the paragraph split into one sentence per entry.
	Sentences []string
	// Lines counts the cleaned caption lines that survived filtering.
	Lines int
	// DroppedDuplicates counts adjacent duplicate lines removed.
	DroppedDuplicates int
}

// Clean flattens cues to lines, removes duplicates and markup, and reflows
// the text into a paragraph and sentence list.
func Clean(cues []vtt.Cue, opts Options) Result {
	var result Result

	lines := make([]string, 0, len(cues))
	for _, cue := range cues {
		for _, line := range strings.Split(cue.Text, "\n") {
			line = StripTags(line)
			if strings.TrimSpace(line) == "" {
				continue
			}
			lines = append(lines, line)
		}
	}

	deduped := make([]string, 0, len(lines))
	prev := ""
	for i, line := range lines {
		if i > 0 && line == prev {
			result.DroppedDuplicates++
			continue
		}
		deduped = append(deduped, line)
		prev = line
	}

	cleaned := make([]string, 0, len(deduped))
	for _, line := range deduped {
		text := NormalizeText(line)
		if opts.StripNotes {
			text = RemoveNotes(text)
		}
		if text == "" {
			continue
		}
		cleaned = append(cleaned, text)
	}
	result.Lines = len(cleaned)

	result.Paragraph = NormalizeText(strings.Join(cleaned, " "))
	result.Sentences = SplitSentences(result.Paragraph)
	return result
}

// SplitSentences breaks a paragraph at sentence-final punctuation followed by
// whitespace, keeping an immediately trailing quote with its sentence. It is
// a naive splitter suited to TV dialogue.
func SplitSentences(paragraph string) []string {
	runes := []rune(paragraph)
	var sentences []string
	start := 0

	for i := 0; i < len(runes); i++ {
		switch runes[i] {
		case '.', '!', '?':
		default:
			continue
		}
		// swallow a run of closing punctuation: ..., ?!, quotes
		j := i + 1
		for j < len(runes) && (runes[j] == '.' || runes[j] == '!' || runes[j] == '?') {
			j++
		}
		if j < len(runes) && (runes[j] == '"' || runes[j] == '\'') {
			j++
		}
		if j >= len(runes) || runes[j] == ' ' {
			sentence := strings.TrimSpace(string(runes[start:j]))
			if sentence != "" {
				sentences = append(sentences, sentence)
			}
			for j < len(runes) && runes[j] == ' ' {
				j++
			}
			start = j
			i = j - 1
		} else {
			i = j - 1
		}
	}
	if start < len(runes) {
		if tail := strings.TrimSpace(string(runes[start:])); tail != "" {
			sentences = append(sentences, tail)
		}
	}
	return sentences
}
