package summary

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"capstan/internal/textutil"
)

// WriteJSON writes the summary as indented JSON.
func WriteJSON(path string, s SeasonSummary) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create summaries directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write summary json: %w", err)
	}
	return nil
}

// RenderMarkdown formats the summary as a small report document.
func RenderMarkdown(s SeasonSummary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Season %d summary\n\n", s.Season)
	fmt.Fprintf(&b, "Episodes: %d\n", s.Episodes)
	fmt.Fprintf(&b, "Utterances: %d\n\n", s.Utterances)

	b.WriteString("## Top speakers\n")
	for i, sc := range s.TopSpeakers {
		if i == 10 {
			break
		}
		fmt.Fprintf(&b, "- %s (%d)\n", textutil.DisplayName(sc.Speaker), sc.Count)
	}
	b.WriteString("\n## Top keywords\n")
	b.WriteString(joinTerms(s.TopKeywords, 25))
	b.WriteString("\n\n## Top bigrams\n")
	b.WriteString(joinTerms(s.TopBigrams, 25))
	b.WriteString("\n\n## Generated summary\n")
	b.WriteString(s.GeneratedSummary)
	b.WriteString("\n")

	return b.String()
}

// WriteMarkdown writes the markdown rendering to path.
func WriteMarkdown(path string, s SeasonSummary) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create summaries directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(RenderMarkdown(s)), 0o644); err != nil {
		return fmt.Errorf("write summary markdown: %w", err)
	}
	return nil
}

func joinTerms(terms []TermCount, limit int) string {
	parts := make([]string, 0, limit)
	for i, term := range terms {
		if i == limit {
			break
		}
		parts = append(parts, term.Term)
	}
	return strings.Join(parts, ", ")
}
