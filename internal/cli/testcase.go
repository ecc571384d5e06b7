package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/uat/internal/ports/primary"
)

// CaseCmd returns the case command
func CaseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "case",
		Short: "Manage test cases and their steps",
		Long:  `Create, list, show and delete test cases, and edit their ordered steps.`,
	}

	cmd.AddCommand(caseCreateCmd())
	cmd.AddCommand(caseListCmd())
	cmd.AddCommand(caseShowCmd())
	cmd.AddCommand(caseDeleteCmd())
	cmd.AddCommand(caseStepCmd())

	return cmd
}

func caseCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create [code]",
		Short: "Create a test case",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			envName, _ := cmd.Flags().GetString("env")
			title, _ := cmd.Flags().GetString("title")
			description, _ := cmd.Flags().GetString("description")

			appCtx, cfg, err := bootstrap()
			if err != nil {
				return err
			}
			ref, err := referenceService(appCtx)
			if err != nil {
				return err
			}
			caseSvc, err := caseService(appCtx)
			if err != nil {
				return err
			}

			ctx := context.Background()
			env, err := resolveEnvironment(ctx, ref, envName)
			if err != nil {
				return err
			}

			created, err := caseSvc.CreateCase(ctx, primary.CreateCaseRequest{
				EnvironmentID: env.ID,
				Code:          args[0],
				Title:         title,
				Description:   description,
				Actor:         cfg.Actor,
			})
			if err != nil {
				return fmt.Errorf("failed to create case: %w", err)
			}

			fmt.Printf("✓ Created case %s (id %d)\n", created.Code, created.ID)
			return nil
		},
	}

	cmd.Flags().String("env", "", "environment name")
	cmd.Flags().String("title", "", "case title")
	cmd.Flags().String("description", "", "free-text description")
	return cmd
}

func caseListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List test cases",
		RunE: func(cmd *cobra.Command, args []string) error {
			envName, _ := cmd.Flags().GetString("env")

			appCtx, _, err := bootstrap()
			if err != nil {
				return err
			}
			ref, err := referenceService(appCtx)
			if err != nil {
				return err
			}
			caseSvc, err := caseService(appCtx)
			if err != nil {
				return err
			}

			ctx := context.Background()
			env, err := resolveEnvironment(ctx, ref, envName)
			if err != nil {
				return err
			}

			cases, err := caseSvc.ListCases(ctx, env.ID)
			if err != nil {
				return fmt.Errorf("failed to list cases: %w", err)
			}
			if len(cases) == 0 {
				fmt.Println("No cases found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "ID\tCODE\tTITLE\tSTEPS\tSYSTEMS")
			for _, c := range cases {
				fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n",
					c.ID, c.Code, c.Title, len(c.Steps), lookupNames(c.Systems))
			}
			w.Flush()
			return nil
		},
	}

	cmd.Flags().String("env", "", "environment name")
	return cmd
}

func caseShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [code]",
		Short: "Show a case with its steps",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			envName, _ := cmd.Flags().GetString("env")

			appCtx, _, err := bootstrap()
			if err != nil {
				return err
			}
			ref, err := referenceService(appCtx)
			if err != nil {
				return err
			}
			caseSvc, err := caseService(appCtx)
			if err != nil {
				return err
			}

			ctx := context.Background()
			env, err := resolveEnvironment(ctx, ref, envName)
			if err != nil {
				return err
			}

			c, err := caseSvc.GetCase(ctx, env.ID, args[0])
			if err != nil {
				return err
			}
			if c == nil {
				return fmt.Errorf("case %q not found", args[0])
			}

			fmt.Printf("Case: %s (id %d)\n", c.Code, c.ID)
			fmt.Printf("Title: %s\n", c.Title)
			if c.Description.Valid {
				fmt.Printf("Description: %s\n", c.Description.String)
			}
			fmt.Printf("Systems: %s\n", lookupNames(c.Systems))
			fmt.Println("Steps:")
			for _, step := range c.Steps {
				fmt.Printf("  %d. %s\n", step.Position, step.Action)
				fmt.Printf("     Expected: %s\n", step.ExpectedResult)
			}
			return nil
		},
	}

	cmd.Flags().String("env", "", "environment name")
	return cmd
}

func caseDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete [code]",
		Short: "Delete a case and its steps",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			envName, _ := cmd.Flags().GetString("env")

			appCtx, _, err := bootstrap()
			if err != nil {
				return err
			}
			ref, err := referenceService(appCtx)
			if err != nil {
				return err
			}
			caseSvc, err := caseService(appCtx)
			if err != nil {
				return err
			}

			ctx := context.Background()
			env, err := resolveEnvironment(ctx, ref, envName)
			if err != nil {
				return err
			}
			c, err := caseSvc.GetCase(ctx, env.ID, args[0])
			if err != nil {
				return err
			}
			if c == nil {
				return fmt.Errorf("case %q not found", args[0])
			}

			if _, err := caseSvc.DeleteCase(ctx, c.ID); err != nil {
				return fmt.Errorf("failed to delete case (assigned to a block?): %w", err)
			}
			fmt.Printf("✓ Deleted case %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().String("env", "", "environment name")
	return cmd
}

func caseStepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "step",
		Short: "Edit a case's steps",
	}
	cmd.AddCommand(caseStepAddCmd())
	cmd.AddCommand(caseStepRemoveCmd())
	return cmd
}

func caseStepAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add [case-code]",
		Short: "Append a step to a case",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			envName, _ := cmd.Flags().GetString("env")
			action, _ := cmd.Flags().GetString("action")
			expected, _ := cmd.Flags().GetString("expected")
			requirements, _ := cmd.Flags().GetInt64Slice("requirement")

			appCtx, cfg, err := bootstrap()
			if err != nil {
				return err
			}
			ref, err := referenceService(appCtx)
			if err != nil {
				return err
			}
			caseSvc, err := caseService(appCtx)
			if err != nil {
				return err
			}

			ctx := context.Background()
			env, err := resolveEnvironment(ctx, ref, envName)
			if err != nil {
				return err
			}
			c, err := caseSvc.GetCase(ctx, env.ID, args[0])
			if err != nil {
				return err
			}
			if c == nil {
				return fmt.Errorf("case %q not found", args[0])
			}

			step, err := caseSvc.AddStep(ctx, primary.AddStepRequest{
				CaseID:         c.ID,
				Action:         action,
				ExpectedResult: expected,
				RequirementIDs: requirements,
				Actor:          cfg.Actor,
			})
			if err != nil {
				return fmt.Errorf("failed to add step: %w", err)
			}

			fmt.Printf("✓ Added step %d to case %s\n", step.Position, args[0])
			return nil
		},
	}

	cmd.Flags().String("env", "", "environment name")
	cmd.Flags().String("action", "", "what the tester does")
	cmd.Flags().String("expected", "", "expected result")
	cmd.Flags().Int64Slice("requirement", nil, "covered requirement id (repeatable)")
	return cmd
}

func caseStepRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove [step-id]",
		Short: "Remove a step",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stepID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid step id %q", args[0])
			}

			appCtx, _, err := bootstrap()
			if err != nil {
				return err
			}
			caseSvc, err := caseService(appCtx)
			if err != nil {
				return err
			}

			deleted, err := caseSvc.RemoveStep(context.Background(), stepID)
			if err != nil {
				return fmt.Errorf("failed to remove step (already executed?): %w", err)
			}
			if !deleted {
				return fmt.Errorf("step %d not found", stepID)
			}
			fmt.Printf("✓ Removed step %d\n", stepID)
			return nil
		},
	}
}
