package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/uat/internal/models"
	"github.com/example/uat/internal/ports/primary"
)

// CampaignCmd returns the campaign command
func CampaignCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "campaign",
		Short: "Manage campaigns and their runs",
		Long: `Create campaigns from blocks of cases, move them through their lifecycle
(DRAFT, RUNNING, FINISHED, CANCELLED) and execute runs against them.`,
	}

	cmd.AddCommand(campaignCreateCmd())
	cmd.AddCommand(campaignListCmd())
	cmd.AddCommand(campaignShowCmd())
	cmd.AddCommand(campaignTransitionCmd())
	cmd.AddCommand(campaignBlockCmd())
	cmd.AddCommand(campaignRunCmd())

	return cmd
}

func campaignCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create [code]",
		Short: "Create a campaign (starts in DRAFT)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			envName, _ := cmd.Flags().GetString("env")
			title, _ := cmd.Flags().GetString("title")
			systemID, _ := cmd.Flags().GetInt64("system")
			blockIDs, _ := cmd.Flags().GetInt64Slice("block")

			appCtx, cfg, err := bootstrap()
			if err != nil {
				return err
			}
			ref, err := referenceService(appCtx)
			if err != nil {
				return err
			}
			campSvc, err := campaignService(appCtx)
			if err != nil {
				return err
			}

			ctx := context.Background()
			env, err := resolveEnvironment(ctx, ref, envName)
			if err != nil {
				return err
			}

			created, err := campSvc.CreateCampaign(ctx, primary.CreateCampaignRequest{
				EnvironmentID: env.ID,
				SystemID:      systemID,
				Code:          args[0],
				Title:         title,
				BlockIDs:      blockIDs,
				Actor:         cfg.Actor,
			})
			if err != nil {
				return fmt.Errorf("failed to create campaign: %w", err)
			}

			fmt.Printf("✓ Created campaign %s (id %d, status %s)\n", created.Code, created.ID, created.Status)
			return nil
		},
	}

	cmd.Flags().String("env", "", "environment name")
	cmd.Flags().String("title", "", "campaign title")
	cmd.Flags().Int64("system", 0, "system id under test")
	cmd.Flags().Int64Slice("block", nil, "block id (repeatable)")
	return cmd
}

func campaignListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List campaigns",
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
			campSvc, err := campaignService(appCtx)
			if err != nil {
				return err
			}

			ctx := context.Background()
			env, err := resolveEnvironment(ctx, ref, envName)
			if err != nil {
				return err
			}

			campaigns, err := campSvc.ListCampaigns(ctx, env.ID)
			if err != nil {
				return fmt.Errorf("failed to list campaigns: %w", err)
			}
			if len(campaigns) == 0 {
				fmt.Println("No campaigns found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "ID\tCODE\tTITLE\tSTATUS\tBLOCKS")
			for _, c := range campaigns {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\n",
					c.ID, c.Code, c.Title, statusColor(c.Status), len(c.Blocks))
			}
			w.Flush()
			return nil
		},
	}

	cmd.Flags().String("env", "", "environment name")
	return cmd
}

func campaignShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [code]",
		Short: "Show a campaign with its blocks and cases",
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
			campSvc, err := campaignService(appCtx)
			if err != nil {
				return err
			}

			ctx := context.Background()
			env, err := resolveEnvironment(ctx, ref, envName)
			if err != nil {
				return err
			}

			c, err := campSvc.GetCampaign(ctx, env.ID, args[0])
			if err != nil {
				return err
			}
			if c == nil {
				return fmt.Errorf("campaign %q not found", args[0])
			}

			fmt.Printf("Campaign: %s (id %d)\n", c.Code, c.ID)
			fmt.Printf("Title: %s\n", c.Title)
			fmt.Printf("Status: %s\n", statusColor(c.Status))
			for _, block := range c.Blocks {
				fmt.Printf("  Block %s (%d cases)\n", block.Name, len(block.Cases))
				for _, bc := range block.Cases {
					fmt.Printf("    %s: %s\n", bc.Code, bc.Title)
				}
			}
			return nil
		},
	}

	cmd.Flags().String("env", "", "environment name")
	return cmd
}

func campaignTransitionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transition [code] [status]",
		Short: "Move a campaign to a new status",
		Long: `Move a campaign along its lifecycle. Legal moves:
  DRAFT   → RUNNING, CANCELLED
  RUNNING → FINISHED, CANCELLED`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			envName, _ := cmd.Flags().GetString("env")

			appCtx, cfg, err := bootstrap()
			if err != nil {
				return err
			}
			ref, err := referenceService(appCtx)
			if err != nil {
				return err
			}
			campSvc, err := campaignService(appCtx)
			if err != nil {
				return err
			}

			ctx := context.Background()
			env, err := resolveEnvironment(ctx, ref, envName)
			if err != nil {
				return err
			}
			c, err := campSvc.GetCampaign(ctx, env.ID, args[0])
			if err != nil {
				return err
			}
			if c == nil {
				return fmt.Errorf("campaign %q not found", args[0])
			}

			updated, err := campSvc.TransitionStatus(ctx, c.ID, args[1], cfg.Actor)
			if err != nil {
				return err
			}
			fmt.Printf("✓ Campaign %s is now %s\n", updated.Code, statusColor(updated.Status))
			return nil
		},
	}

	cmd.Flags().String("env", "", "environment name")
	return cmd
}

func campaignBlockCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "block",
		Short: "Manage blocks of cases",
	}
	cmd.AddCommand(campaignBlockCreateCmd())
	cmd.AddCommand(campaignBlockListCmd())
	return cmd
}

func campaignBlockCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create [name]",
		Short: "Create a block",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			envName, _ := cmd.Flags().GetString("env")
			systemID, _ := cmd.Flags().GetInt64("system")
			caseIDs, _ := cmd.Flags().GetInt64Slice("case")

			appCtx, cfg, err := bootstrap()
			if err != nil {
				return err
			}
			ref, err := referenceService(appCtx)
			if err != nil {
				return err
			}
			campSvc, err := campaignService(appCtx)
			if err != nil {
				return err
			}

			ctx := context.Background()
			env, err := resolveEnvironment(ctx, ref, envName)
			if err != nil {
				return err
			}

			block, err := campSvc.CreateBlock(ctx, primary.CreateBlockRequest{
				EnvironmentID: env.ID,
				SystemID:      systemID,
				Name:          args[0],
				CaseIDs:       caseIDs,
				Actor:         cfg.Actor,
			})
			if err != nil {
				return fmt.Errorf("failed to create block: %w", err)
			}
			fmt.Printf("✓ Created block %s (id %d)\n", block.Name, block.ID)
			return nil
		},
	}

	cmd.Flags().String("env", "", "environment name")
	cmd.Flags().Int64("system", 0, "system id")
	cmd.Flags().Int64Slice("case", nil, "case id (repeatable)")
	return cmd
}

func campaignBlockListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List blocks",
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
			campSvc, err := campaignService(appCtx)
			if err != nil {
				return err
			}

			ctx := context.Background()
			env, err := resolveEnvironment(ctx, ref, envName)
			if err != nil {
				return err
			}

			blocks, err := campSvc.ListBlocks(ctx, env.ID)
			if err != nil {
				return fmt.Errorf("failed to list blocks: %w", err)
			}
			if len(blocks) == 0 {
				fmt.Println("No blocks found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tSYSTEM")
			for _, b := range blocks {
				fmt.Fprintf(w, "%d\t%s\t%d\n", b.ID, b.Name, b.SystemID)
			}
			w.Flush()
			return nil
		},
	}

	cmd.Flags().String("env", "", "environment name")
	return cmd
}

func campaignRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute campaign runs",
	}
	cmd.AddCommand(campaignRunStartCmd())
	cmd.AddCommand(campaignRunShowCmd())
	cmd.AddCommand(campaignRunRecordCmd())
	cmd.AddCommand(campaignRunFinishCmd())
	return cmd
}

func campaignRunStartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start [campaign-code]",
		Short: "Start a run (snapshots the campaign's cases and steps)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			envName, _ := cmd.Flags().GetString("env")
			notes, _ := cmd.Flags().GetString("notes")

			appCtx, cfg, err := bootstrap()
			if err != nil {
				return err
			}
			ref, err := referenceService(appCtx)
			if err != nil {
				return err
			}
			campSvc, err := campaignService(appCtx)
			if err != nil {
				return err
			}

			ctx := context.Background()
			env, err := resolveEnvironment(ctx, ref, envName)
			if err != nil {
				return err
			}
			c, err := campSvc.GetCampaign(ctx, env.ID, args[0])
			if err != nil {
				return err
			}
			if c == nil {
				return fmt.Errorf("campaign %q not found", args[0])
			}

			run, err := campSvc.StartRun(ctx, c.ID, notes, cfg.Actor)
			if err != nil {
				return err
			}
			fmt.Printf("✓ Started run %d for campaign %s (%d case runs)\n", run.ID, args[0], len(run.CaseRuns))
			return nil
		},
	}

	cmd.Flags().String("env", "", "environment name")
	cmd.Flags().String("notes", "", "run notes")
	return cmd
}

func campaignRunShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [run-id]",
		Short: "Show a run with its recorded results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid run id %q", args[0])
			}

			appCtx, _, err := bootstrap()
			if err != nil {
				return err
			}
			campSvc, err := campaignService(appCtx)
			if err != nil {
				return err
			}

			run, err := campSvc.GetRun(context.Background(), runID)
			if err != nil {
				return err
			}
			if run == nil {
				return fmt.Errorf("run %d not found", runID)
			}

			fmt.Printf("Run %d, status %s\n", run.ID, statusColor(run.Status))
			if run.Notes.Valid {
				fmt.Printf("Notes: %s\n", run.Notes.String)
			}
			for _, cr := range run.CaseRuns {
				result := "pending"
				if cr.Result.Valid {
					result = cr.Result.String
				}
				caseCode := fmt.Sprintf("case %d", cr.CaseID)
				if cr.Case != nil {
					caseCode = cr.Case.Code
				}
				fmt.Printf("  [%d] %s: %s\n", cr.ID, caseCode, resultColor(result))
				for _, sr := range cr.StepRuns {
					stepResult := "pending"
					if sr.Result.Valid {
						stepResult = sr.Result.String
					}
					fmt.Printf("    step run %d: %s\n", sr.ID, resultColor(stepResult))
				}
			}
			return nil
		},
	}
}

func campaignRunRecordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record [step-run-id] [result]",
		Short: "Record a step result (PASS, FAIL, BLOCKED, SKIPPED)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			stepRunID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid step run id %q", args[0])
			}
			comment, _ := cmd.Flags().GetString("comment")

			appCtx, cfg, err := bootstrap()
			if err != nil {
				return err
			}
			campSvc, err := campaignService(appCtx)
			if err != nil {
				return err
			}

			stepRun, err := campSvc.RecordStepResult(context.Background(), primary.RecordStepResultRequest{
				StepRunID: stepRunID,
				Result:    args[1],
				Comment:   comment,
				Actor:     cfg.Actor,
			})
			if err != nil {
				return err
			}
			fmt.Printf("✓ Recorded %s for step run %d\n", resultColor(stepRun.Result.String), stepRun.ID)
			return nil
		},
	}

	cmd.Flags().String("comment", "", "result comment")
	return cmd
}

func campaignRunFinishCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "finish [run-id] [status]",
		Short: "Close a run",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			runID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid run id %q", args[0])
			}

			appCtx, cfg, err := bootstrap()
			if err != nil {
				return err
			}
			campSvc, err := campaignService(appCtx)
			if err != nil {
				return err
			}

			run, err := campSvc.FinishRun(context.Background(), runID, args[1], cfg.Actor)
			if err != nil {
				return err
			}
			fmt.Printf("✓ Run %d finished with status %s\n", run.ID, statusColor(run.Status))
			return nil
		},
	}

	return cmd
}

func statusColor(status string) string {
	switch status {
	case models.CampaignRunning:
		return color.New(color.FgYellow).Sprint(status)
	case models.CampaignFinished:
		return color.New(color.FgGreen).Sprint(status)
	case models.CampaignCancelled:
		return color.New(color.FgRed).Sprint(status)
	default:
		return status
	}
}

func resultColor(result string) string {
	switch result {
	case models.RunPass:
		return color.New(color.FgGreen).Sprint(result)
	case models.RunFail:
		return color.New(color.FgRed).Sprint(result)
	case models.RunBlocked, models.RunSkipped:
		return color.New(color.FgYellow).Sprint(result)
	default:
		return result
	}
}
