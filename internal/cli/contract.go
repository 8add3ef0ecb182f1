package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/example/lessonbook/internal/ports/primary"
	"github.com/example/lessonbook/internal/wire"
)

var contractCmd = &cobra.Command{
	Use:   "contract",
	Short: "Manage customer contracts",
	Long:  "Create and update contracts, inspect their lessons, and change status",
}

var contractCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a contract and its lessons (administrators)",
	RunE: func(cmd *cobra.Command, args []string) error {
		worker, _ := cmd.Flags().GetString("worker")
		customer, _ := cmd.Flags().GetString("customer")
		plan, _ := cmd.Flags().GetString("plan")
		note, _ := cmd.Flags().GetString("note")

		return wire.ContractAdapter(os.Stdout).Save(NewContext(), primary.SaveContractRequest{
			WorkerID:   worker,
			CustomerID: customer,
			PlanID:     plan,
			Note:       note,
		})
	},
}

var contractUpdateCmd = &cobra.Command{
	Use:   "update [contract-id]",
	Short: "Update a contract; a plan change regenerates its lessons",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		worker, _ := cmd.Flags().GetString("worker")
		customer, _ := cmd.Flags().GetString("customer")
		plan, _ := cmd.Flags().GetString("plan")
		note, _ := cmd.Flags().GetString("note")

		return wire.ContractAdapter(os.Stdout).Save(NewContext(), primary.SaveContractRequest{
			IsUpdate:   true,
			ContractID: args[0],
			WorkerID:   worker,
			CustomerID: customer,
			PlanID:     plan,
			Note:       note,
		})
	},
}

var contractShowCmd = &cobra.Command{
	Use:   "show [contract-id]",
	Short: "Show a contract with its lessons",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.ContractAdapter(os.Stdout).Show(NewContext(), args[0])
	},
}

var contractEvaluateCmd = &cobra.Command{
	Use:   "evaluate [contract-id]",
	Short: "Run the completion check without changing anything",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.ContractAdapter(os.Stdout).Evaluate(NewContext(), args[0])
	},
}

var contractStatusCmd = &cobra.Command{
	Use:   "status [contract-id] [active|completed|cancelled]",
	Short: "Change a contract's status (administrators)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.ContractAdapter(os.Stdout).SetStatus(NewContext(), args[0], args[1])
	},
}

var contractListCmd = &cobra.Command{
	Use:   "list",
	Short: "List contracts",
	RunE: func(cmd *cobra.Command, args []string) error {
		worker, _ := cmd.Flags().GetString("worker")
		status, _ := cmd.Flags().GetString("status")
		return wire.ContractAdapter(os.Stdout).List(NewContext(), primary.ContractFilters{
			WorkerID: worker,
			Status:   status,
		})
	},
}

func init() {
	for _, c := range []*cobra.Command{contractCreateCmd, contractUpdateCmd} {
		c.Flags().String("worker", "", "Assigned worker id")
		c.Flags().String("customer", "", "Customer id")
		c.Flags().String("plan", "", "Plan id")
		c.Flags().String("note", "", "Free-form note")
	}
	_ = contractCreateCmd.MarkFlagRequired("worker")
	_ = contractCreateCmd.MarkFlagRequired("customer")
	_ = contractCreateCmd.MarkFlagRequired("plan")

	contractListCmd.Flags().String("worker", "", "Filter by worker")
	contractListCmd.Flags().String("status", "", "Filter by status")

	contractCmd.AddCommand(contractCreateCmd, contractUpdateCmd, contractShowCmd,
		contractEvaluateCmd, contractStatusCmd, contractListCmd)
}

// ContractCmd returns the contract command
func ContractCmd() *cobra.Command {
	return contractCmd
}
