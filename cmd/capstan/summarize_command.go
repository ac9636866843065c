package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"capstan/internal/config"
	"capstan/internal/queue"
	"capstan/internal/reports"
	"capstan/internal/structurer"
	"capstan/internal/summary"
)

func newSummarizeCommand(ctx *commandContext) *cobra.Command {
	var season int
	var markdown bool

	cmd := &cobra.Command{
		Use:   "summarize",
		Short: "Aggregate a season's structured captions into a summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			if season <= 0 {
				return fmt.Errorf("--season is required")
			}
			return ctx.withStore(func(cfg *config.Config, store *queue.Store) error {
				files, err := reports.StructuredFiles(cfg.Paths.DataRoot, []int{season})
				if err != nil {
					return err
				}
				if len(files) == 0 {
					return fmt.Errorf("season %d has no structured caption files", season)
				}

				var utterances []structurer.Utterance
				for _, file := range files {
					batch, err := structurer.ReadFile(file)
					if err != nil {
						return fmt.Errorf("read %s: %w", filepath.Base(file), err)
					}
					utterances = append(utterances, batch...)
				}

				result := summary.Build(season, utterances, summary.Options{
					TopKeywords: cfg.Summary.TopKeywords,
					TopBigrams:  cfg.Summary.TopBigrams,
					TopSpeakers: cfg.Summary.TopSpeakers,
				})

				seasonRoot := cfg.SeasonRoot(season)
				jsonPath := filepath.Join(seasonRoot, "summaries", "season_summary.json")
				if err := summary.WriteJSON(jsonPath, result); err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Summarized %d episodes, %d utterances\n", result.Episodes, result.Utterances)
				fmt.Fprintf(out, "Wrote %s\n", jsonPath)

				if markdown {
					mdPath := filepath.Join(seasonRoot, "summaries", "season_summary.md")
					if err := summary.WriteMarkdown(mdPath, result); err != nil {
						return err
					}
					fmt.Fprintf(out, "Wrote %s\n", mdPath)
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&season, "season", "s", 0, "Season to summarize")
	cmd.Flags().BoolVar(&markdown, "markdown", false, "Also write a Markdown rendering")
	return cmd
}
