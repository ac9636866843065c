package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"capstan/internal/config"
	"capstan/internal/queue"
	"capstan/internal/reports"
	"capstan/internal/speakers"
)

func newReportCommand(ctx *commandContext) *cobra.Command {
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Generate reports from structured captions",
	}

	reportCmd.AddCommand(newReportUnmappedCommand(ctx))
	reportCmd.AddCommand(newReportSpeakersCommand(ctx))

	return reportCmd
}

func newReportUnmappedCommand(ctx *commandContext) *cobra.Command {
	var seasons []int
	var outPath string
	var limit int

	cmd := &cobra.Command{
		Use:   "unmapped",
		Short: "Tally speaker tags the speaker map does not resolve",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *queue.Store) error {
				files, err := reports.StructuredFiles(cfg.Paths.DataRoot, seasons)
				if err != nil {
					return err
				}
				if len(files) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No structured caption files found")
					return nil
				}

				speakerMap, err := loadSpeakerMap(cfg)
				if err != nil {
					return err
				}

				tally, err := reports.UnmappedSpeakers(files, speakerMap)
				if err != nil {
					return err
				}
				counts := tally.Counts()
				if len(counts) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Every speaker tag resolved")
					return nil
				}

				if outPath != "" {
					if err := reports.WriteSpeakerTally(outPath, counts); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d unmapped tags to %s\n", len(counts), outPath)
					return nil
				}

				shown := counts
				if limit > 0 && len(shown) > limit {
					shown = shown[:limit]
				}
				rows := make([][]string, 0, len(shown))
				for _, count := range shown {
					rows = append(rows, []string{count.Tag, strconv.Itoa(count.Count)})
				}
				table := renderTable([]string{"Speaker tag", "Utterances"}, rows, []columnAlignment{alignLeft, alignRight})
				fmt.Fprintln(cmd.OutOrStdout(), table)
				if len(counts) > len(shown) {
					fmt.Fprintf(cmd.OutOrStdout(), "(%d more; use --out to export all)\n", len(counts)-len(shown))
				}
				return nil
			})
		},
	}

	cmd.Flags().IntSliceVar(&seasons, "season", nil, "Restrict to specific seasons (repeatable)")
	cmd.Flags().StringVar(&outPath, "out", "", "Write the full tally to a CSV file")
	cmd.Flags().IntVar(&limit, "limit", 30, "Rows shown in the terminal table")
	return cmd
}

func newReportSpeakersCommand(ctx *commandContext) *cobra.Command {
	var seasons []int
	var outPath string

	cmd := &cobra.Command{
		Use:   "speakers",
		Short: "Per-episode utterance counts by canonical speaker",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *queue.Store) error {
				files, err := reports.StructuredFiles(cfg.Paths.DataRoot, seasons)
				if err != nil {
					return err
				}
				if len(files) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No structured caption files found")
					return nil
				}

				rows, err := reports.SpeakerCounts(files)
				if err != nil {
					return err
				}

				target := strings.TrimSpace(outPath)
				if target == "" {
					target = filepath.Join(cfg.Paths.DataRoot, "speaker_counts.csv")
				}
				if err := reports.WriteSpeakerCounts(target, rows); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d rows to %s\n", len(rows), target)
				return nil
			})
		},
	}

	cmd.Flags().IntSliceVar(&seasons, "season", nil, "Restrict to specific seasons (repeatable)")
	cmd.Flags().StringVar(&outPath, "out", "", "Destination CSV (defaults to speaker_counts.csv under the data root)")
	return cmd
}

// loadSpeakerMap loads the configured speaker map, or returns nil when none
// is configured so reports fall back to raw tags.
func loadSpeakerMap(cfg *config.Config) (*speakers.Map, error) {
	path := strings.TrimSpace(cfg.Speakers.MapPath)
	if path == "" {
		return nil, nil
	}
	m, err := speakers.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load speaker map: %w", err)
	}
	return m, nil
}
