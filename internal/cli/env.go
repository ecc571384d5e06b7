package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// EnvCmd returns the env command
func EnvCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "env",
		Short: "Manage test environments",
		Long:  `Create, list and delete the environments that scope all test data.`,
	}

	cmd.AddCommand(envCreateCmd())
	cmd.AddCommand(envListCmd())
	cmd.AddCommand(envDeleteCmd())

	return cmd
}

func envCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create [name]",
		Short: "Create a new environment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			description, _ := cmd.Flags().GetString("description")

			appCtx, cfg, err := bootstrap()
			if err != nil {
				return err
			}
			ref, err := referenceService(appCtx)
			if err != nil {
				return err
			}

			env, err := ref.CreateEnvironment(context.Background(), args[0], description, cfg.Actor)
			if err != nil {
				return fmt.Errorf("failed to create environment: %w", err)
			}

			fmt.Printf("✓ Created environment %s (id %d)\n", env.Name, env.ID)
			return nil
		},
	}

	cmd.Flags().String("description", "", "free-text description")
	return cmd
}

func envListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List environments",
		RunE: func(cmd *cobra.Command, args []string) error {
			appCtx, _, err := bootstrap()
			if err != nil {
				return err
			}
			ref, err := referenceService(appCtx)
			if err != nil {
				return err
			}

			envs, err := ref.ListEnvironments(context.Background())
			if err != nil {
				return fmt.Errorf("failed to list environments: %w", err)
			}
			if len(envs) == 0 {
				fmt.Println("No environments found.")
				fmt.Println()
				fmt.Println("Create your first environment:")
				fmt.Println("  uat env create SANDBOX")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tDESCRIPTION\tMODIFIED BY")
			for _, env := range envs {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", env.ID, env.Name, env.Description, env.ModifiedBy)
			}
			w.Flush()
			return nil
		},
	}
}

func envDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [name]",
		Short: "Delete an environment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			appCtx, _, err := bootstrap()
			if err != nil {
				return err
			}
			ref, err := referenceService(appCtx)
			if err != nil {
				return err
			}

			ctx := context.Background()
			env, err := resolveEnvironment(ctx, ref, args[0])
			if err != nil {
				return err
			}

			deleted, err := ref.DeleteEnvironment(ctx, env.ID)
			if err != nil {
				return fmt.Errorf("failed to delete environment (still in use?): %w", err)
			}
			if !deleted {
				return fmt.Errorf("environment %q not found", args[0])
			}
			fmt.Printf("✓ Deleted environment %s\n", args[0])
			return nil
		},
	}
}
