package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// StatusCmd returns the status command
func StatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show an overview of one environment",
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
			caseSvc, err := caseService(appCtx)
			if err != nil {
				return err
			}
			campSvc, err := campaignService(appCtx)
			if err != nil {
				return err
			}
			bugSvc, err := bugService(appCtx)
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
				return err
			}
			cases, err := caseSvc.ListCases(ctx, env.ID)
			if err != nil {
				return err
			}
			campaigns, err := campSvc.ListCampaigns(ctx, env.ID)
			if err != nil {
				return err
			}
			runs, err := campSvc.ListRuns(ctx, env.ID)
			if err != nil {
				return err
			}
			bugs, err := bugSvc.ListBugs(ctx, env.ID)
			if err != nil {
				return err
			}

			openBugs := 0
			for _, b := range bugs {
				if b.Status != "CLOSED" {
					openBugs++
				}
			}
			running := 0
			for _, c := range campaigns {
				if c.Status == "RUNNING" {
					running++
				}
			}

			fmt.Printf("Environment: %s\n", env.Name)
			fmt.Printf("  Requirements: %d\n", len(requirements))
			fmt.Printf("  Cases:        %d\n", len(cases))
			fmt.Printf("  Campaigns:    %d (%d running)\n", len(campaigns), running)
			fmt.Printf("  Runs:         %d\n", len(runs))
			fmt.Printf("  Bugs:         %d (%d open)\n", len(bugs), openBugs)
			return nil
		},
	}

	cmd.Flags().String("env", "", "environment name")
	return cmd
}
