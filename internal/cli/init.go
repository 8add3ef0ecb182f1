package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/lessonbook/internal/config"
	"github.com/example/lessonbook/internal/db"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the lessonbook workspace",
		Long: `Write .lessonbook/config.json in the current directory and create the
database with the required schema.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dbPath, _ := cmd.Flags().GetString("db")
			actorID, _ := cmd.Flags().GetString("as")
			seed, _ := cmd.Flags().GetBool("seed")

			wd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to resolve working directory: %w", err)
			}

			cfg := config.Defaults()
			if existing, err := config.LoadConfig(wd); err == nil {
				cfg = existing
			}
			if dbPath != "" {
				cfg.DBPath = dbPath
			}
			if cfg.DBPath == "" {
				cfg.DBPath = config.DefaultDBPath()
			}
			if actorID != "" {
				cfg.ActorID = actorID
			}

			fmt.Printf("Initializing lessonbook database at %s\n", cfg.DBPath)
			database, err := db.Open(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			defer database.Close()
			fmt.Println("✓ Database initialized successfully")

			if seed {
				if err := db.SeedFixtures(database); err != nil {
					return fmt.Errorf("failed to seed fixtures: %w", err)
				}
				fmt.Println("✓ Seeded users USR-ADMIN, USR-001..003 and plans PLAN-4, PLAN-8, PLAN-10")
			}

			if err := config.SaveConfig(wd, cfg); err != nil {
				return err
			}
			fmt.Println("✓ Config written to .lessonbook/config.json")
			fmt.Println()
			fmt.Println("Next steps:")
			fmt.Println("  lessonbook user add USR-ADMIN \"Office Admin\" --role admin")
			fmt.Println("  lessonbook plan add PLAN-10 \"Intensive\" --lessons 10")
			return nil
		},
	}
	cmd.Flags().String("db", "", "Database path (default ~/.lessonbook/lessonbook.db)")
	cmd.Flags().String("as", "", "Default acting user for this workspace")
	cmd.Flags().Bool("seed", false, "Insert development users and plans")
	return cmd
}
