package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/uat/internal/models"
	"github.com/example/uat/internal/ports/primary"
)

// RequirementCmd returns the requirement command
func RequirementCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "requirement",
		Short: "Manage regulatory requirements",
		Long:  `Create, list, show and delete requirements and their system/section coverage.`,
	}

	cmd.AddCommand(requirementCreateCmd())
	cmd.AddCommand(requirementListCmd())
	cmd.AddCommand(requirementShowCmd())
	cmd.AddCommand(requirementDeleteCmd())

	return cmd
}

func requirementCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create [code]",
		Short: "Create a requirement",
		Long: `Create a requirement. Systems and sections are given by name and created
when absent; at least one of each is required.

Examples:
  uat requirement create REQ-001 --env SANDBOX --definition "USSP rejects overlapping plans" --system USSP --section "Flight planning"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			envName, _ := cmd.Flags().GetString("env")
			definition, _ := cmd.Flags().GetString("definition")
			systems, _ := cmd.Flags().GetStringSlice("system")
			sections, _ := cmd.Flags().GetStringSlice("section")

			appCtx, cfg, err := bootstrap()
			if err != nil {
				return err
			}
			ref, err := referenceService(appCtx)
			if err != nil {
				return err
			}
			reqSvc, err := requirementService(appCtx)
			if err != nil {
				return err
			}

			ctx := context.Background()
			env, err := resolveEnvironment(ctx, ref, envName)
			if err != nil {
				return err
			}

			var systemIDs []int64
			for _, name := range systems {
				system, _, err := ref.EnsureSystem(ctx, name, cfg.Actor)
				if err != nil {
					return err
				}
				systemIDs = append(systemIDs, system.ID)
			}
			var sectionIDs []int64
			for _, name := range sections {
				section, _, err := ref.EnsureSection(ctx, name, cfg.Actor)
				if err != nil {
					return err
				}
				sectionIDs = append(sectionIDs, section.ID)
			}

			created, err := reqSvc.CreateRequirement(ctx, primary.CreateRequirementRequest{
				EnvironmentID: env.ID,
				Code:          args[0],
				Definition:    definition,
				SystemIDs:     systemIDs,
				SectionIDs:    sectionIDs,
				Actor:         cfg.Actor,
			})
			if err != nil {
				return fmt.Errorf("failed to create requirement: %w", err)
			}

			fmt.Printf("✓ Created requirement %s (id %d)\n", created.Code, created.ID)
			return nil
		},
	}

	cmd.Flags().String("env", "", "environment name")
	cmd.Flags().String("definition", "", "requirement text")
	cmd.Flags().StringSlice("system", nil, "system name (repeatable)")
	cmd.Flags().StringSlice("section", nil, "regulation section name (repeatable)")
	return cmd
}

func requirementListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List requirements",
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
			reqSvc, err := requirementService(appCtx)
			if err != nil {
				return err
			}

			ctx := context.Background()
			env, err := resolveEnvironment(ctx, ref, envName)
			if err != nil {
				return err
			}

			requirements, err := reqSvc.ListRequirements(ctx, env.ID)
			if err != nil {
				return fmt.Errorf("failed to list requirements: %w", err)
			}
			if len(requirements) == 0 {
				fmt.Println("No requirements found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "ID\tCODE\tSYSTEMS\tSECTIONS\tBUGS")
			for _, r := range requirements {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\n",
					r.ID, r.Code, lookupNames(r.Systems), sectionNames(r.Sections), len(r.Bugs))
			}
			w.Flush()
			return nil
		},
	}

	cmd.Flags().String("env", "", "environment name")
	return cmd
}

func requirementShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [code]",
		Short: "Show requirement details",
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
			reqSvc, err := requirementService(appCtx)
			if err != nil {
				return err
			}

			ctx := context.Background()
			env, err := resolveEnvironment(ctx, ref, envName)
			if err != nil {
				return err
			}

			r, err := reqSvc.GetRequirement(ctx, env.ID, args[0])
			if err != nil {
				return err
			}
			if r == nil {
				return fmt.Errorf("requirement %q not found", args[0])
			}

			fmt.Printf("Requirement: %s (id %d)\n", r.Code, r.ID)
			fmt.Printf("Definition: %s\n", r.Definition)
			fmt.Printf("Systems: %s\n", lookupNames(r.Systems))
			fmt.Printf("Sections: %s\n", sectionNames(r.Sections))
			fmt.Printf("Covered by %d step(s)\n", len(r.Steps))
			for _, bug := range r.Bugs {
				fmt.Printf("  Bug %d [%s/%s]: %s\n", bug.ID, bug.Severity, bug.Status, bug.Title)
			}
			return nil
		},
	}

	cmd.Flags().String("env", "", "environment name")
	return cmd
}

func requirementDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete [code]",
		Short: "Delete a requirement",
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
			reqSvc, err := requirementService(appCtx)
			if err != nil {
				return err
			}

			ctx := context.Background()
			env, err := resolveEnvironment(ctx, ref, envName)
			if err != nil {
				return err
			}
			r, err := reqSvc.GetRequirement(ctx, env.ID, args[0])
			if err != nil {
				return err
			}
			if r == nil {
				return fmt.Errorf("requirement %q not found", args[0])
			}

			if _, err := reqSvc.DeleteRequirement(ctx, r.ID); err != nil {
				return fmt.Errorf("failed to delete requirement: %w", err)
			}
			fmt.Printf("✓ Deleted requirement %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().String("env", "", "environment name")
	return cmd
}

func lookupNames(systems []*models.System) string {
	names := make([]string, 0, len(systems))
	for _, s := range systems {
		names = append(names, s.Name)
	}
	return strings.Join(names, ", ")
}

func sectionNames(sections []*models.Section) string {
	names := make([]string, 0, len(sections))
	for _, s := range sections {
		names = append(names, s.Name)
	}
	return strings.Join(names, ", ")
}
