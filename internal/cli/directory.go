package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/lessonbook/internal/ports/primary"
	"github.com/example/lessonbook/internal/wire"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage workers and administrators",
}

var userAddCmd = &cobra.Command{
	Use:   "add [id] [name]",
	Short: "Register a user",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		role, _ := cmd.Flags().GetString("role")
		user, err := wire.Get().Users.AddUser(NewContext(), primary.AddUserRequest{
			ID:   args[0],
			Name: args[1],
			Role: role,
		})
		if err != nil {
			return err
		}
		fmt.Printf("✓ Added %s %s (%s)\n", user.Role, user.ID, user.Name)
		return nil
	},
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users",
	RunE: func(cmd *cobra.Command, args []string) error {
		role, _ := cmd.Flags().GetString("role")
		users, err := wire.Get().Users.ListUsers(NewContext(), role)
		if err != nil {
			return err
		}
		if len(users) == 0 {
			fmt.Println("No users found")
			return nil
		}
		for _, u := range users {
			state := ""
			if !u.Active {
				state = " (inactive)"
			}
			fmt.Printf("%-10s %-7s %s%s\n", u.ID, u.Role, u.Name, state)
		}
		return nil
	},
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Manage the plan catalog",
}

var planAddCmd = &cobra.Command{
	Use:   "add [id] [name]",
	Short: "Add a plan",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		lessons, _ := cmd.Flags().GetInt("lessons")
		plan, err := wire.Get().Plans.AddPlan(NewContext(), primary.AddPlanRequest{
			ID:         args[0],
			Name:       args[1],
			TotalUnits: lessons,
		})
		if err != nil {
			return err
		}
		fmt.Printf("✓ Added plan %s: %s (%d lessons)\n", plan.ID, plan.Name, plan.TotalUnits)
		return nil
	},
}

var planListCmd = &cobra.Command{
	Use:   "list",
	Short: "List plans",
	RunE: func(cmd *cobra.Command, args []string) error {
		plans, err := wire.Get().Plans.ListPlans(NewContext())
		if err != nil {
			return err
		}
		if len(plans) == 0 {
			fmt.Println("No plans found")
			return nil
		}
		for _, p := range plans {
			fmt.Printf("%-10s %3d  %s\n", p.ID, p.TotalUnits, p.Name)
		}
		return nil
	},
}

func init() {
	userAddCmd.Flags().String("role", "worker", "Role: worker or admin")
	userListCmd.Flags().String("role", "", "Filter by role")
	userCmd.AddCommand(userAddCmd, userListCmd)

	planAddCmd.Flags().Int("lessons", 0, "Number of lessons in the plan")
	_ = planAddCmd.MarkFlagRequired("lessons")
	planCmd.AddCommand(planAddCmd, planListCmd)
}

// UserCmd returns the user command
func UserCmd() *cobra.Command {
	return userCmd
}

// PlanCmd returns the plan command
func PlanCmd() *cobra.Command {
	return planCmd
}
