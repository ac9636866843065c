package structurer

import (
	"math"
	"regexp"
	"strings"

	"capstan/internal/cleaner"
	"capstan/internal/speakers"
	"capstan/internal/textutil"
	"capstan/internal/vtt"
)

// speakerPattern matches a leading caption speaker tag: shouty caps with an
// optional parenthetical stage direction before the colon.
var speakerPattern = regexp.MustCompile(`^([A-Z][A-Z0-9 &'./-]{1,40})(?:\s*\([^)]*\))?\s*:\s*(.*)$`)

var multiSpacePattern = regexp.MustCompile(`\s+`)

// Options tune utterance construction.
type Options struct {
	// StripNotes drops note-only cues like (cheering) entirely.
	StripNotes bool
	// MergeSameSpeaker joins consecutive utterances carrying the same raw
	// caption tag into one record spanning both cue times.
	MergeSameSpeaker bool
}

// Result carries the structured utterances plus bookkeeping for reports.
type Result struct {
	Utterances []Utterance
	// Misses tallies raw speaker tags that were not in the map.
	Misses *speakers.Tally
	// Notes counts cues classified as caption notes.
	Notes int
}

// Build structures cues into utterances for one episode. Speaker tags are
// resolved through m; a nil map passes every tag through unmatched.
func Build(season, episode int, cues []vtt.Cue, m *speakers.Map, opts Options) Result {
	result := Result{Misses: speakers.NewTally()}
	episodeID := textutil.EpisodeLabel(season, episode)

	for _, cue := range cues {
		joined := cleaner.NormalizeText(strings.ReplaceAll(cue.Text, "\n", " "))
		if joined == "" {
			continue
		}

		isNote := cleaner.IsNoteOnly(joined)
		if isNote {
			result.Notes++
			if opts.StripNotes {
				continue
			}
		}

		speakerRaw, speakerNorm, text := extractSpeaker(joined)

		speaker := ""
		role := ""
		if speakerNorm != "" {
			canonical, resolvedRole, matched := m.Resolve(speakerNorm)
			speaker = canonical
			role = resolvedRole
			if !matched {
				result.Misses.Record(speakerNorm)
			}
		}

		result.Utterances = append(result.Utterances, Utterance{
			Season:        season,
			Episode:       episode,
			EpisodeID:     episodeID,
			Start:         round3(cue.Start),
			End:           round3(cue.End),
			SpeakerRaw:    speakerRaw,
			Speaker:       speaker,
			SpeakerRole:   role,
			Text:          text,
			IsCaptionNote: isNote,
		})
	}

	if opts.MergeSameSpeaker {
		result.Utterances = mergeSameSpeaker(result.Utterances)
	}

	sentenceCursor := 0
	for i := range result.Utterances {
		u := &result.Utterances[i]
		tokens := len(textutil.Words(u.Text))
		u.TokenCount = &tokens
		if u.IsCaptionNote {
			continue
		}
		// Spoken utterances index into the episode's sentence stream;
		// notes stay unindexed since they carry no dialogue.
		idx := sentenceCursor
		u.SentenceIndex = &idx
		sentenceCursor += len(cleaner.SplitSentences(u.Text))
	}
	return result
}

// extractSpeaker splits a leading speaker tag from the cue text. It returns
// the raw tag, the normalized tag (spaces collapsed, " / " folded to "/"),
// and the remaining spoken text. When no tag is present both tag values are
// empty and the full text is returned.
func extractSpeaker(text string) (raw, norm, remainder string) {
	m := speakerPattern.FindStringSubmatch(text)
	if m == nil {
		return "", "", text
	}
	raw = strings.TrimSpace(m[1])
	remainder = strings.TrimSpace(m[2])
	if raw != strings.ToUpper(raw) {
		return "", "", text
	}
	norm = multiSpacePattern.ReplaceAllString(raw, " ")
	norm = strings.ReplaceAll(norm, " / ", "/")
	if remainder == "" {
		remainder = text
	}
	return raw, norm, remainder
}

func mergeSameSpeaker(utterances []Utterance) []Utterance {
	if len(utterances) < 2 {
		return utterances
	}
	merged := make([]Utterance, 0, len(utterances))
	for _, utterance := range utterances {
		if len(merged) > 0 {
			last := &merged[len(merged)-1]
			// Merge on the raw caption tag, not the canonical name:
			// two tags aliasing to one person stay separate records.
			if utterance.SpeakerRaw != "" &&
				utterance.SpeakerRaw == last.SpeakerRaw &&
				!utterance.IsCaptionNote && !last.IsCaptionNote {
				last.Text = strings.TrimSpace(last.Text + " " + utterance.Text)
				last.End = utterance.End
				continue
			}
		}
		merged = append(merged, utterance)
	}
	return merged
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
