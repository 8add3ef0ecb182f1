package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/example/lessonbook/internal/ports/primary"
	"github.com/example/lessonbook/internal/wire"
)

var notificationCmd = &cobra.Command{
	Use:     "notification",
	Aliases: []string{"inbox"},
	Short:   "Read your notifications",
}

var notificationListCmd = &cobra.Command{
	Use:   "list",
	Short: "List notifications addressed to you",
	RunE: func(cmd *cobra.Command, args []string) error {
		entity, _ := cmd.Flags().GetString("entity")
		unread, _ := cmd.Flags().GetBool("unread")
		limit, _ := cmd.Flags().GetInt("limit")
		return wire.NotificationAdapter(os.Stdout).List(NewContext(), primary.NotificationFilters{
			EntityID:   entity,
			UnreadOnly: unread,
			Limit:      limit,
		})
	},
}

var notificationReadCmd = &cobra.Command{
	Use:   "read [notification-id]",
	Short: "Mark a notification as read",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.NotificationAdapter(os.Stdout).MarkRead(NewContext(), args[0])
	},
}

var oplogCmd = &cobra.Command{
	Use:   "oplog [entity-id]",
	Short: "Show the operation log of a contract or appointment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.NotificationAdapter(os.Stdout).Operations(NewContext(), args[0])
	},
}

func init() {
	notificationListCmd.Flags().String("entity", "", "Only notifications about this entity")
	notificationListCmd.Flags().Bool("unread", false, "Only unread notifications")
	notificationListCmd.Flags().Int("limit", 50, "Maximum number of notifications")
	notificationCmd.AddCommand(notificationListCmd, notificationReadCmd)
}

// NotificationCmd returns the notification command
func NotificationCmd() *cobra.Command {
	return notificationCmd
}

// OplogCmd returns the oplog command
func OplogCmd() *cobra.Command {
	return oplogCmd
}
