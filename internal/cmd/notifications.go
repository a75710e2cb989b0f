package cmd

import (
	"github.com/skillshare/cli/pkg/service"
	"github.com/spf13/cobra"
)

var notificationsCmd = &cobra.Command{
	Use:   "notifications",
	Short: "Notification commands",
	Long:  "View and clear likes and comments on your posts",
}

var notificationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List notifications",
	RunE: func(cmd *cobra.Command, args []string) error {
		notifService := service.NewNotificationService(deps)
		return notifService.List(cmd.Context())
	},
}

var notificationsClearCmd = &cobra.Command{
	Use:   "clear [notification-id...]",
	Short: "Clear notifications",
	Long:  "Dismiss the given notifications, or all of them when no id is given",
	RunE: func(cmd *cobra.Command, args []string) error {
		notifService := service.NewNotificationService(deps)
		return notifService.Clear(cmd.Context(), args)
	},
}

func init() {
	notificationsCmd.AddCommand(notificationsListCmd)
	notificationsCmd.AddCommand(notificationsClearCmd)
}
