package preflight

import (
	"context"

	"capstan/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
// Checks are only run when the corresponding input is configured.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	// Working directories (always checked)
	results = append(results, CheckDirectoryAccess("Data root", cfg.Paths.DataRoot))
	results = append(results, CheckDirectoryAccess("Staging directory", cfg.Paths.StagingDir))
	results = append(results, CheckDirectoryAccess("Inbox directory", cfg.Paths.InboxDir))

	// Reference data (when configured)
	if cfg.Speakers.MapPath != "" {
		results = append(results, CheckSpeakerMap(cfg.Speakers.MapPath))
	}
	if cfg.Metadata.EpisodesPath != "" {
		results = append(results, CheckEpisodeTable(cfg.Metadata.EpisodesPath))
	}

	return results
}
