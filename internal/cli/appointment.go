package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/example/lessonbook/internal/ports/primary"
	"github.com/example/lessonbook/internal/wire"
)

var appointmentCmd = &cobra.Command{
	Use:     "appointment",
	Aliases: []string{"appt"},
	Short:   "Open, assign and claim appointments",
}

var appointmentCreateCmd = &cobra.Command{
	Use:   "create [candidate-name]",
	Short: "Open an appointment and notify workers",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		specialty, _ := cmd.Flags().GetString("specialty")
		contact, _ := cmd.Flags().GetString("contact")
		return wire.AppointmentAdapter(os.Stdout).Create(NewContext(), primary.CreateAppointmentRequest{
			CandidateName: args[0],
			Specialty:     specialty,
			Contact:       contact,
		})
	},
}

var appointmentAssignCmd = &cobra.Command{
	Use:   "assign [appointment-id] [worker-id]",
	Short: "Nominate a worker (administrators)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.AppointmentAdapter(os.Stdout).Assign(NewContext(), args[0], args[1])
	},
}

var appointmentClaimCmd = &cobra.Command{
	Use:   "claim [appointment-id]",
	Short: "Accept an appointment as the current worker",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.AppointmentAdapter(os.Stdout).Claim(NewContext(), args[0])
	},
}

var appointmentDeclineCmd = &cobra.Command{
	Use:   "decline [appointment-id]",
	Short: "Decline a nomination and return it to the open pool",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.AppointmentAdapter(os.Stdout).Decline(NewContext(), args[0])
	},
}

var appointmentShowCmd = &cobra.Command{
	Use:   "show [appointment-id]",
	Short: "Show an appointment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.AppointmentAdapter(os.Stdout).Show(NewContext(), args[0])
	},
}

var appointmentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List appointments",
	RunE: func(cmd *cobra.Command, args []string) error {
		status, _ := cmd.Flags().GetString("status")
		claimedBy, _ := cmd.Flags().GetString("claimed-by")
		return wire.AppointmentAdapter(os.Stdout).List(NewContext(), primary.AppointmentFilters{
			Status:    status,
			ClaimedBy: claimedBy,
		})
	},
}

func init() {
	appointmentCreateCmd.Flags().String("specialty", "", "Requested specialty")
	appointmentCreateCmd.Flags().String("contact", "", "Candidate contact details")
	_ = appointmentCreateCmd.MarkFlagRequired("specialty")

	appointmentListCmd.Flags().String("status", "", "Filter by status (open, assigned, accepted)")
	appointmentListCmd.Flags().String("claimed-by", "", "Filter by claiming worker")

	appointmentCmd.AddCommand(appointmentCreateCmd, appointmentAssignCmd, appointmentClaimCmd,
		appointmentDeclineCmd, appointmentShowCmd, appointmentListCmd)
}

// AppointmentCmd returns the appointment command
func AppointmentCmd() *cobra.Command {
	return appointmentCmd
}
