package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"capstan/internal/config"
	"capstan/internal/metadata"
	"capstan/internal/queue"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export season indexes",
	}

	exportCmd.AddCommand(newExportIndexCommand(ctx))

	return exportCmd
}

func newExportIndexCommand(ctx *commandContext) *cobra.Command {
	var seasons []int
	var enriched bool

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Write season index CSVs from the queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(seasons) == 0 {
				return fmt.Errorf("--season is required")
			}
			return ctx.withStore(func(cfg *config.Config, store *queue.Store) error {
				out := cmd.OutOrStdout()

				var table *metadata.Table
				if enriched {
					path := strings.TrimSpace(cfg.Metadata.EpisodesPath)
					if path == "" {
						return fmt.Errorf("enriched index requires metadata.episodes_path in the configuration")
					}
					loaded, err := metadata.Load(path)
					if err != nil {
						return fmt.Errorf("load episode table: %w", err)
					}
					table = loaded
				}

				var combined []metadata.EnrichedRow
				for _, season := range seasons {
					items, err := store.BySeason(cmd.Context(), season)
					if err != nil {
						return err
					}

					rows := make([]metadata.IndexRow, 0, len(items))
					for _, item := range items {
						if item.MergedFile == "" {
							continue
						}
						rows = append(rows, indexRowFromItem(item))
					}
					if len(rows) == 0 {
						return fmt.Errorf("season %d has no merged episodes to index", season)
					}

					seasonRoot := cfg.SeasonRoot(season)

					indexPath := filepath.Join(seasonRoot, "index.csv")
					if err := metadata.WriteIndex(indexPath, rows); err != nil {
						return err
					}
					fmt.Fprintf(out, "Wrote %d rows to %s\n", len(rows), indexPath)

					if !enriched {
						continue
					}
					enrichedRows := metadata.Enrich(rows, table, cfg.Metadata.TitleSimilarityThreshold)
					enrichedPath := filepath.Join(seasonRoot, "index_enriched.csv")
					if err := metadata.WriteEnrichedIndex(enrichedPath, enrichedRows); err != nil {
						return err
					}
					fmt.Fprintf(out, "Wrote %d rows to %s\n", len(enrichedRows), enrichedPath)
					combined = append(combined, enrichedRows...)
				}

				if enriched {
					combinedPath := filepath.Join(cfg.Paths.DataRoot, "episodes_index_enriched.csv")
					if err := metadata.WriteEnrichedIndex(combinedPath, combined); err != nil {
						return err
					}
					fmt.Fprintf(out, "Wrote %d rows to %s\n", len(combined), combinedPath)
				}
				return nil
			})
		},
	}

	cmd.Flags().IntSliceVarP(&seasons, "season", "s", nil, "Season to export (repeatable)")
	cmd.Flags().BoolVar(&enriched, "enriched", false, "Also write indexes joined with episode metadata")
	return cmd
}

func indexRowFromItem(item *queue.Item) metadata.IndexRow {
	row := metadata.IndexRow{
		Season:  item.Season,
		Episode: item.Episode,
		FileVTT: filepath.Base(item.MergedFile),
		M3U8:    item.PlaylistURL,
		UUID:    item.PlaylistUUID,
		PSID:    item.PSID,
		IsSDH:   item.IsSDH,
	}
	if item.CleanFile != "" {
		row.FileTXT = filepath.Base(item.CleanFile)
	}
	if item.RequestedAt != nil {
		row.RequestedAtUTC = item.RequestedAt.UTC().Format(time.RFC3339)
	}
	return row
}
