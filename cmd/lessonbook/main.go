package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/lessonbook/internal/cli"
	"github.com/example/lessonbook/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "lessonbook",
		Short:   "lessonbook - lesson contracts and appointment claims",
		Version: version.String(),
		Long: `lessonbook tracks customer contracts as lesson ledgers, completes them
when every available lesson is done, and runs the appointment claim workflow
with in-app notifications.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if cmd.Name() == "init" {
				return
			}
			actor, _ := cmd.Flags().GetString("actor")
			cli.DetectAndStoreActor(actor)
		},
	}
	rootCmd.PersistentFlags().String("actor", "", "Acting user id (overrides LESSONBOOK_ACTOR_ID and config)")

	// Setup
	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.UserCmd())
	rootCmd.AddCommand(cli.PlanCmd())

	// Contracts and lessons
	rootCmd.AddCommand(cli.ContractCmd())
	rootCmd.AddCommand(cli.LessonCmd())

	// Appointments and notifications
	rootCmd.AddCommand(cli.AppointmentCmd())
	rootCmd.AddCommand(cli.NotificationCmd())
	rootCmd.AddCommand(cli.OplogCmd())

	rootCmd.AddCommand(cli.ServeCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
