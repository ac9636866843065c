package main

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"capstan/internal/config"
	"capstan/internal/queue"
)

func newQueueCommand(ctx *commandContext) *cobra.Command {
	queueCmd := &cobra.Command{
		Use:   "queue",
		Short: "Inspect and manage the episode queue",
	}

	queueCmd.AddCommand(newQueueStatusCommand(ctx))
	queueCmd.AddCommand(newQueueListCommand(ctx))
	queueCmd.AddCommand(newQueueShowCommand(ctx))
	queueCmd.AddCommand(newQueueClearCommand(ctx))
	queueCmd.AddCommand(newQueueResetCommand(ctx))
	queueCmd.AddCommand(newQueueRetryCommand(ctx))
	queueCmd.AddCommand(newQueueRemoveCommand(ctx))
	queueCmd.AddCommand(newQueueHealthCommand(ctx))

	return queueCmd
}

func newQueueStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show queue status summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *queue.Store) error {
				stats, err := store.Stats(cmd.Context())
				if err != nil {
					return err
				}
				rows := buildQueueStatusRows(stats)
				if len(rows) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Queue is empty")
					return nil
				}
				table := renderTable([]string{"Status", "Count"}, rows, []columnAlignment{alignLeft, alignRight})
				fmt.Fprintln(cmd.OutOrStdout(), table)
				return nil
			})
		},
	}
}

// buildQueueStatusRows orders the per-status counts by pipeline position so
// the table reads top to bottom in processing order.
func buildQueueStatusRows(stats map[queue.Status]int) [][]string {
	if len(stats) == 0 {
		return nil
	}
	order := make(map[queue.Status]int, len(queue.AllStatuses()))
	for i, status := range queue.AllStatuses() {
		order[status] = i
	}

	statuses := make([]queue.Status, 0, len(stats))
	for status := range stats {
		statuses = append(statuses, status)
	}
	sort.Slice(statuses, func(i, j int) bool {
		oi, iKnown := order[statuses[i]]
		oj, jKnown := order[statuses[j]]
		if iKnown != jKnown {
			return iKnown
		}
		if oi != oj {
			return oi < oj
		}
		return statuses[i] < statuses[j]
	})

	rows := make([][]string, 0, len(statuses))
	for _, status := range statuses {
		rows = append(rows, []string{string(status), strconv.Itoa(stats[status])})
	}
	return rows
}

func newQueueListCommand(ctx *commandContext) *cobra.Command {
	var listStatuses []string
	var listSeason int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List queued episodes",
		RunE: func(cmd *cobra.Command, args []string) error {
			statuses := make([]queue.Status, 0, len(listStatuses))
			for _, raw := range listStatuses {
				status, ok := queue.ParseStatus(raw)
				if !ok {
					return fmt.Errorf("unknown status %q", raw)
				}
				statuses = append(statuses, status)
			}

			return ctx.withStore(func(cfg *config.Config, store *queue.Store) error {
				var items []*queue.Item
				var err error
				if listSeason > 0 {
					items, err = store.BySeason(cmd.Context(), listSeason)
				} else {
					items, err = store.List(cmd.Context(), statuses...)
				}
				if err != nil {
					return err
				}
				if len(items) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Queue is empty")
					return nil
				}

				rows := make([][]string, 0, len(items))
				for _, item := range items {
					rows = append(rows, []string{
						strconv.FormatInt(item.ID, 10),
						item.Label(),
						itemTitle(item),
						string(item.Status),
						item.CreatedAt.Local().Format("2006-01-02 15:04"),
					})
				}
				table := renderTable(
					[]string{"ID", "Episode", "Title", "Status", "Created"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft},
				)
				fmt.Fprintln(cmd.OutOrStdout(), table)
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVarP(&listStatuses, "status", "s", nil, "Filter by queue status (repeatable)")
	cmd.Flags().IntVar(&listSeason, "season", 0, "Show a single season in episode order")
	return cmd
}

func itemTitle(item *queue.Item) string {
	title := strings.TrimSpace(item.Title)
	if title == "" {
		return "-"
	}
	return title
}

func newQueueShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "show <itemID>",
		Short: "Show one queue item in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid item id %q", args[0])
			}

			return ctx.withStore(func(cfg *config.Config, store *queue.Store) error {
				item, err := store.GetByID(cmd.Context(), id)
				if err != nil {
					return err
				}
				if item == nil {
					return fmt.Errorf("item %d not found", id)
				}
				if jsonOut {
					return writeJSON(cmd, item)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Item #%d %s\n", item.ID, item.Label())
				fmt.Fprintf(out, "  Title:       %s\n", itemTitle(item))
				fmt.Fprintf(out, "  Status:      %s\n", item.Status)
				fmt.Fprintf(out, "  SDH:         %s\n", yesNo(item.IsSDH))
				if item.PlaylistUUID != "" {
					fmt.Fprintf(out, "  Playlist:    %s\n", item.PlaylistUUID)
				}
				if item.MergedFile != "" {
					fmt.Fprintf(out, "  Merged VTT:  %s\n", item.MergedFile)
				}
				if item.CleanFile != "" {
					fmt.Fprintf(out, "  Clean text:  %s\n", item.CleanFile)
				}
				if item.StructuredFile != "" {
					fmt.Fprintf(out, "  Structured:  %s\n", item.StructuredFile)
				}
				if item.CueCount > 0 {
					fmt.Fprintf(out, "  Cues:        %d (%d duplicates, %d malformed, %d gaps)\n",
						item.CueCount, item.DuplicateCues, item.MalformedCues, item.CaptureGaps)
				}
				if item.UtteranceCount > 0 {
					fmt.Fprintf(out, "  Utterances:  %d (%d unmapped speaker tags)\n",
						item.UtteranceCount, item.SpeakerMisses)
				}
				if item.NeedsReview {
					fmt.Fprintf(out, "  Review:      %s\n", item.ReviewReason)
				}
				if item.ErrorMessage != "" {
					fmt.Fprintf(out, "  Error:       %s\n", item.ErrorMessage)
				}
				if item.ProgressStage != "" {
					fmt.Fprintf(out, "  Progress:    %s %.0f%% %s\n",
						item.ProgressStage, item.ProgressPercent, item.ProgressMessage)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the item as JSON")
	return cmd
}

func newQueueClearCommand(ctx *commandContext) *cobra.Command {
	var clearCompleted bool
	var clearFailed bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove queue items",
		RunE: func(cmd *cobra.Command, args []string) error {
			if clearCompleted && clearFailed {
				return errors.New("specify only one of --completed or --failed")
			}
			return ctx.withStore(func(cfg *config.Config, store *queue.Store) error {
				out := cmd.OutOrStdout()
				var removed int64
				var err error
				switch {
				case clearCompleted:
					removed, err = store.ClearCompleted(cmd.Context())
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "Cleared %d completed items\n", removed)
				case clearFailed:
					removed, err = store.ClearFailed(cmd.Context())
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "Cleared %d failed items\n", removed)
				default:
					removed, err = store.Clear(cmd.Context())
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "Cleared %d queue items\n", removed)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&clearCompleted, "completed", false, "Remove only completed items")
	cmd.Flags().BoolVar(&clearFailed, "failed", false, "Remove only failed items")
	return cmd
}

func newQueueResetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reset-stuck",
		Short: "Return in-flight items to their previous stable status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *queue.Store) error {
				updated, err := store.ResetStuckProcessing(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Reset %d items\n", updated)
				return nil
			})
		},
	}
}

func newQueueRetryCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "retry [itemID...]",
		Short: "Retry failed queue items",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int64, 0, len(args))
			for _, arg := range args {
				id, err := strconv.ParseInt(arg, 10, 64)
				if err != nil {
					return fmt.Errorf("invalid item id %q", arg)
				}
				ids = append(ids, id)
			}

			return ctx.withStore(func(cfg *config.Config, store *queue.Store) error {
				out := cmd.OutOrStdout()
				if len(ids) == 0 {
					updated, err := store.RetryFailed(cmd.Context())
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "Retried %d failed items\n", updated)
					return nil
				}

				for _, id := range ids {
					item, err := store.GetByID(cmd.Context(), id)
					if err != nil {
						return err
					}
					if item == nil {
						fmt.Fprintf(out, "Item %d not found\n", id)
						continue
					}
					if item.Status != queue.StatusFailed {
						fmt.Fprintf(out, "Item %d is not in failed state (%s)\n", id, item.Status)
						continue
					}
					updated, err := store.RetryFailed(cmd.Context(), id)
					if err != nil {
						return err
					}
					if updated > 0 {
						fmt.Fprintf(out, "Retrying item %d (%s)\n", id, item.Label())
					} else {
						fmt.Fprintf(out, "Item %d was not updated\n", id)
					}
				}
				return nil
			})
		},
	}
}

func newQueueRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <itemID...>",
		Short: "Remove specific queue items",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int64, 0, len(args))
			for _, arg := range args {
				id, err := strconv.ParseInt(arg, 10, 64)
				if err != nil {
					return fmt.Errorf("invalid item id %q", arg)
				}
				ids = append(ids, id)
			}

			return ctx.withStore(func(cfg *config.Config, store *queue.Store) error {
				out := cmd.OutOrStdout()
				for _, id := range ids {
					removed, err := store.Remove(cmd.Context(), id)
					if err != nil {
						return err
					}
					if removed {
						fmt.Fprintf(out, "Removed item %d\n", id)
					} else {
						fmt.Fprintf(out, "Item %d not found\n", id)
					}
				}
				return nil
			})
		},
	}
}

func newQueueHealthCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check queue database health (schema, integrity, columns)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *queue.Store) error {
				health, err := store.CheckHealth(cmd.Context())
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, health)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Database path: %s\n", health.DBPath)
				fmt.Fprintf(out, "Database exists: %s\n", yesNo(health.DatabaseExists))
				fmt.Fprintf(out, "Readable: %s\n", yesNo(health.DatabaseReadable))
				fmt.Fprintf(out, "Schema version: %s\n", health.SchemaVersion)
				fmt.Fprintf(out, "queue_items table present: %s\n", yesNo(health.TableExists))
				if len(health.ColumnsPresent) > 0 {
					cols := append([]string(nil), health.ColumnsPresent...)
					sort.Strings(cols)
					fmt.Fprintf(out, "Columns: %s\n", strings.Join(cols, ", "))
				}
				if len(health.MissingColumns) > 0 {
					missing := append([]string(nil), health.MissingColumns...)
					sort.Strings(missing)
					fmt.Fprintf(out, "Missing columns: %s\n", strings.Join(missing, ", "))
				} else {
					fmt.Fprintln(out, "Missing columns: none")
				}
				fmt.Fprintf(out, "Integrity check: %s\n", yesNo(health.IntegrityCheck))
				fmt.Fprintf(out, "Total items: %d\n", health.TotalItems)
				if health.Error != "" {
					fmt.Fprintf(out, "Error: %s\n", health.Error)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the report as JSON")
	return cmd
}
