package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/uat/internal/app"
	"github.com/example/uat/internal/config"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the UAT database and config",
		Long: `Create ~/.uat/config.yaml (if missing), the SQLite database and its
schema, and seed the global lookup tables.

Examples:
  uat init
  uat init --test-mode`,
		RunE: func(cmd *cobra.Command, args []string) error {
			testMode, _ := cmd.Flags().GetBool("test-mode")

			dir, err := config.DefaultDir()
			if err != nil {
				return err
			}
			cfg, err := config.Load(dir)
			if err != nil {
				return err
			}
			cfg.TestMode = testMode
			if err := config.Save(dir, cfg); err != nil {
				return err
			}

			if err := app.Context().Initialize(cfg); err != nil {
				return fmt.Errorf("failed to initialize: %w", err)
			}

			fmt.Printf("✓ Initialized database at %s\n", cfg.DBPath)
			fmt.Printf("  Actor: %s\n", cfg.Actor)
			if testMode {
				fmt.Println("  Test mode: existing tables were dropped")
			}
			return nil
		},
	}

	cmd.Flags().Bool("test-mode", false, "drop and recreate all tables")
	return cmd
}
