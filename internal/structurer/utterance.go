package structurer

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Utterance is one structured caption record, serialized as a JSONL row.
type Utterance struct {
	Season        int     `json:"season"`
	Episode       int     `json:"episode"`
	EpisodeID     string  `json:"episode_id"`
	Start         float64 `json:"start"`
	End           float64 `json:"end"`
	SpeakerRaw    string  `json:"speaker_raw"`
	Speaker       string  `json:"speaker"`
	SpeakerRole   string  `json:"speaker_role"`
	Text          string  `json:"text"`
	IsCaptionNote bool    `json:"is_caption_note"`
	// SentenceIndex is the position of the utterance's first sentence in
	// the episode's spoken-sentence stream; nil for caption notes.
	SentenceIndex *int `json:"sentence_index,omitempty"`
	TokenCount    *int `json:"token_count,omitempty"`
}

// WriteFile writes utterances as JSONL, one record per line, creating parent
// directories as needed.
func WriteFile(path string, utterances []Utterance) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create structured directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create structured file: %w", err)
	}
	writer := bufio.NewWriter(file)
	for _, utterance := range utterances {
		line, err := json.Marshal(utterance)
		if err != nil {
			file.Close()
			return fmt.Errorf("encode utterance: %w", err)
		}
		writer.Write(line)
		writer.WriteByte('\n')
	}
	if err := writer.Flush(); err != nil {
		file.Close()
		return fmt.Errorf("flush structured file: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close structured file: %w", err)
	}
	return nil
}

// ReadFile loads utterances from a JSONL file. Blank and unparseable lines
// are skipped so one corrupt record never hides an episode from reports.
func ReadFile(path string) ([]Utterance, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open structured file: %w", err)
	}
	defer file.Close()

	var out []Utterance
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var utterance Utterance
		if err := json.Unmarshal(line, &utterance); err != nil {
			continue
		}
		out = append(out, utterance)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read structured file: %w", err)
	}
	return out, nil
}
