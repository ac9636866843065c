package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"capstan/internal/capture"
	"capstan/internal/config"
	"capstan/internal/logging"
	"capstan/internal/queue"
)

func newAddCommand(ctx *commandContext) *cobra.Command {
	var season int
	var episode int

	cmd := &cobra.Command{
		Use:   "add <capture.har | episode.vtt>",
		Short: "Queue episodes from a HAR capture or a pre-merged VTT file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			absPath, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolve path: %w", err)
			}

			info, err := os.Stat(absPath)
			if err != nil {
				if errors.Is(err, os.ErrNotExist) {
					return fmt.Errorf("file does not exist: %s", absPath)
				}
				return fmt.Errorf("inspect file: %w", err)
			}
			if info.IsDir() {
				return fmt.Errorf("%s is a directory", absPath)
			}

			switch strings.ToLower(filepath.Ext(info.Name())) {
			case ".har":
				return ctx.withStore(func(cfg *config.Config, store *queue.Store) error {
					return addCapture(cmd, cfg, store, absPath, season)
				})
			case ".vtt":
				if season <= 0 || episode <= 0 {
					return errors.New("adding a merged VTT requires --season and --episode")
				}
				return ctx.withStore(func(cfg *config.Config, store *queue.Store) error {
					item, err := store.NewMergedFile(cmd.Context(), season, episode, absPath)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Queued %s as item #%d from merged captions (%s)\n",
						item.Label(), item.ID, filepath.Base(absPath))
					return nil
				})
			default:
				return fmt.Errorf("unsupported file extension %q", filepath.Ext(info.Name()))
			}
		},
	}

	cmd.Flags().IntVarP(&season, "season", "s", 0, "Season number (derived from the filename when omitted)")
	cmd.Flags().IntVarP(&episode, "episode", "e", 0, "Episode number (merged VTT only)")
	return cmd
}

func addCapture(cmd *cobra.Command, cfg *config.Config, store *queue.Store, harPath string, season int) error {
	season = capture.SeasonFromFilename(harPath, season)
	if season <= 0 {
		return errors.New("season not found in filename; pass --season")
	}

	result, err := capture.IngestHAR(cmd.Context(), store, logging.NewNop(), harPath, season, cfg.Fetch.Language)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Capture %s: %d playlists, %d episodes queued, %d already known\n",
		filepath.Base(harPath), result.Playlists, len(result.Items), result.Skipped)
	for _, item := range result.Items {
		fmt.Fprintf(out, "  %s  item #%d  sdh=%s\n", item.Label(), item.ID, yesNo(item.IsSDH))
	}
	return nil
}
