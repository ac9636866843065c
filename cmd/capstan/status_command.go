package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"capstan/internal/config"
	"capstan/internal/language"
	"capstan/internal/preflight"
	"capstan/internal/queue"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show pipeline environment and queue status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *queue.Store) error {
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)

				for _, line := range renderSectionHeader("Environment", colorize) {
					fmt.Fprintln(out, line)
				}
				fmt.Fprintln(out, directoryStatusLine("Data root", cfg.Paths.DataRoot, colorize))
				fmt.Fprintln(out, directoryStatusLine("Staging", cfg.Paths.StagingDir, colorize))
				fmt.Fprintln(out, directoryStatusLine("Logs", cfg.Paths.LogDir, colorize))
				fmt.Fprintln(out, directoryStatusLine("Inbox", cfg.Paths.InboxDir, colorize))
				fmt.Fprintln(out, daemonStatusLine(cfg, colorize))
				fmt.Fprintln(out)

				for _, line := range renderSectionHeader("Inputs", colorize) {
					fmt.Fprintln(out, line)
				}
				fmt.Fprintln(out, renderStatusLine("Language", statusInfo,
					language.DisplayName(cfg.Fetch.Language), colorize))
				fmt.Fprintln(out, speakerMapStatusLine(cfg, colorize))
				fmt.Fprintln(out, episodeTableStatusLine(cfg, colorize))
				fmt.Fprintln(out, notificationsStatusLine(cfg, colorize))
				fmt.Fprintln(out)

				for _, line := range renderSectionHeader("Queue", colorize) {
					fmt.Fprintln(out, line)
				}
				stats, err := store.Stats(cmd.Context())
				if err != nil {
					return err
				}
				rows := buildQueueStatusRows(stats)
				if len(rows) == 0 {
					fmt.Fprintln(out, statusIndent+"Queue is empty")
					return nil
				}
				table := renderTable([]string{"Status", "Count"}, rows, []columnAlignment{alignLeft, alignRight})
				fmt.Fprintln(out, table)
				return nil
			})
		},
	}
}

func directoryStatusLine(label, path string, colorize bool) string {
	result := preflight.CheckDirectoryAccess(label, path)
	if result.Passed {
		return renderStatusLine(label, statusOK, result.Detail, colorize)
	}
	return renderStatusLine(label, statusError, result.Detail, colorize)
}

func speakerMapStatusLine(cfg *config.Config, colorize bool) string {
	path := strings.TrimSpace(cfg.Speakers.MapPath)
	if path == "" {
		return renderStatusLine("Speaker map", statusWarn, "Not configured; raw caption tags pass through", colorize)
	}
	result := preflight.CheckSpeakerMap(path)
	if result.Passed {
		return renderStatusLine("Speaker map", statusOK, result.Detail, colorize)
	}
	return renderStatusLine("Speaker map", statusError, result.Detail, colorize)
}

func episodeTableStatusLine(cfg *config.Config, colorize bool) string {
	path := strings.TrimSpace(cfg.Metadata.EpisodesPath)
	if path == "" {
		return renderStatusLine("Episode table", statusWarn, "Not configured; metadata joining is skipped", colorize)
	}
	result := preflight.CheckEpisodeTable(path)
	if result.Passed {
		return renderStatusLine("Episode table", statusOK, result.Detail, colorize)
	}
	return renderStatusLine("Episode table", statusError, result.Detail, colorize)
}

func notificationsStatusLine(cfg *config.Config, colorize bool) string {
	if strings.TrimSpace(cfg.Notifications.NtfyTopic) == "" {
		return renderStatusLine("Notifications", statusInfo, "Disabled", colorize)
	}
	return renderStatusLine("Notifications", statusOK, "ntfy topic configured", colorize)
}

// daemonStatusLine reports whether a daemon lock file is present. The lock is
// advisory; a stale file after a crash only downgrades the message.
func daemonStatusLine(cfg *config.Config, colorize bool) string {
	lockPath := filepath.Join(cfg.Paths.LogDir, "capstand.lock")
	if _, err := os.Stat(lockPath); err != nil {
		return renderStatusLine("Daemon", statusInfo, "Not running", colorize)
	}
	return renderStatusLine("Daemon", statusOK, "Lock file present", colorize)
}
