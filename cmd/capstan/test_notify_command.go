package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"capstan/internal/notifications"
)

func newTestNotifyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "test-notify",
		Short: "Send a test notification",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if strings.TrimSpace(cfg.Notifications.NtfyTopic) == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "Notifications are disabled; set notifications.ntfy_topic first")
				return nil
			}

			service := notifications.NewService(cfg)
			payload := notifications.Payload{
				"time": time.Now().Format(time.RFC1123),
			}
			if err := service.Publish(cmd.Context(), notifications.EventTest, payload); err != nil {
				return fmt.Errorf("send test notification: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Test notification sent")
			return nil
		},
	}
}
