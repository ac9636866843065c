package stage

import (
	"errors"
	"io/fs"
	"strings"

	"capstan/internal/queue"
	"capstan/internal/services"
	"capstan/internal/vtt"
)

// LoadMergedCaptions parses the merged subtitle file recorded on the item.
// On failure it returns a services error suitable for stage Execute methods.
func LoadMergedCaptions(item *queue.Item) (vtt.Document, error) {
	path := strings.TrimSpace(item.MergedFile)
	if path == "" {
		return vtt.Document{}, services.Wrap(
			services.ErrValidation, "stage", "load captions",
			"Merged subtitle file missing; rerun the merge stage", nil)
	}
	doc, err := vtt.ParseFile(path)
	if err != nil {
		marker := services.ErrValidation
		if errors.Is(err, fs.ErrNotExist) {
			marker = services.ErrNotFound
		}
		return vtt.Document{}, services.Wrap(
			marker, "stage", "load captions",
			"Could not read merged subtitle file", err)
	}
	return doc, nil
}
