package summary

import (
	"fmt"
	"sort"
	"strings"

	"capstan/internal/structurer"
	"capstan/internal/textutil"
)

// Options bound how many entries each statistic keeps.
type Options struct {
	TopKeywords int
	TopBigrams  int
	TopSpeakers int
}

// Default statistic sizes.
const (
	DefaultTopKeywords = 100
	DefaultTopBigrams  = 100
	DefaultTopSpeakers = 50
)

// SpeakerCount pairs a canonical speaker with their utterance count.
type SpeakerCount struct {
	Speaker string `json:"speaker"`
	Count   int    `json:"count"`
}

// TermCount pairs a keyword or bigram with its frequency.
type TermCount struct {
	Term  string `json:"term"`
	Count int    `json:"count"`
}

// SeasonSummary is the aggregate view of one season's transcripts.
type SeasonSummary struct {
	Season           int            `json:"season"`
	Episodes         int            `json:"episodes"`
	Utterances       int            `json:"utterances"`
	TopSpeakers      []SpeakerCount `json:"top_speakers"`
	TopKeywords      []TermCount    `json:"top_keywords"`
	TopBigrams       []TermCount    `json:"top_bigrams"`
	GeneratedSummary string         `json:"generated_summary"`
}

// Build aggregates utterances, typically one season's worth, into a summary.
func Build(season int, utterances []structurer.Utterance, opts Options) SeasonSummary {
	if opts.TopKeywords <= 0 {
		opts.TopKeywords = DefaultTopKeywords
	}
	if opts.TopBigrams <= 0 {
		opts.TopBigrams = DefaultTopBigrams
	}
	if opts.TopSpeakers <= 0 {
		opts.TopSpeakers = DefaultTopSpeakers
	}

	episodes := make(map[int]struct{})
	speakerCounts := make(map[string]int)
	var tokens []string
	counted := 0

	for _, utterance := range utterances {
		episodes[utterance.Episode] = struct{}{}
		text := strings.TrimSpace(utterance.Text)
		if text == "" {
			continue
		}
		counted++

		speaker := utterance.Speaker
		if speaker == "" {
			speaker = utterance.SpeakerRaw
		}
		speaker = strings.ToUpper(strings.TrimSpace(speaker))
		if speaker != "" {
			speakerCounts[speaker]++
		}

		tokens = append(tokens, textutil.FilterStopwords(textutil.Words(text))...)
	}

	keywordCounts := make(map[string]int, len(tokens))
	for _, token := range tokens {
		keywordCounts[token]++
	}
	bigramCounts := make(map[string]int)
	for i := 0; i+1 < len(tokens); i++ {
		bigramCounts[tokens[i]+" "+tokens[i+1]]++
	}

	summary := SeasonSummary{
		Season:      season,
		Episodes:    len(episodes),
		Utterances:  counted,
		TopSpeakers: topSpeakers(speakerCounts, opts.TopSpeakers),
		TopKeywords: topTerms(keywordCounts, opts.TopKeywords),
		TopBigrams:  topTerms(bigramCounts, opts.TopBigrams),
	}
	summary.GeneratedSummary = generatedText(summary)
	return summary
}

func topSpeakers(counts map[string]int, limit int) []SpeakerCount {
	out := make([]SpeakerCount, 0, len(counts))
	for speaker, count := range counts {
		out = append(out, SpeakerCount{Speaker: speaker, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Speaker < out[j].Speaker
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func topTerms(counts map[string]int, limit int) []TermCount {
	out := make([]TermCount, 0, len(counts))
	for term, count := range counts {
		out = append(out, TermCount{Term: term, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Term < out[j].Term
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func generatedText(s SeasonSummary) string {
	speakerParts := make([]string, 0, 5)
	for i, sc := range s.TopSpeakers {
		if i == 5 {
			break
		}
		speakerParts = append(speakerParts, fmt.Sprintf("%s (%d)", textutil.DisplayName(sc.Speaker), sc.Count))
	}
	keywordParts := make([]string, 0, 10)
	for i, tc := range s.TopKeywords {
		if i == 10 {
			break
		}
		keywordParts = append(keywordParts, tc.Term)
	}
	return fmt.Sprintf("Season %d summary: %d episodes, %d utterances. Most active speakers: %s. Prominent keywords: %s.",
		s.Season, s.Episodes, s.Utterances,
		strings.Join(speakerParts, ", "),
		strings.Join(keywordParts, ", "))
}
