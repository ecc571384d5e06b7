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

// BugCmd returns the bug command
func BugCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bug",
		Short: "Manage bugs",
		Long:  `Report bugs against systems, link affected requirements, attach evidence and inspect the change log.`,
	}

	cmd.AddCommand(bugReportCmd())
	cmd.AddCommand(bugListCmd())
	cmd.AddCommand(bugShowCmd())
	cmd.AddCommand(bugUpdateCmd())
	cmd.AddCommand(bugLinkCmd())
	cmd.AddCommand(bugAttachCmd())
	cmd.AddCommand(bugHistoryCmd())

	return cmd
}

func bugReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report [title]",
		Short: "Report a bug",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			envName, _ := cmd.Flags().GetString("env")
			systemID, _ := cmd.Flags().GetInt64("system")
			severity, _ := cmd.Flags().GetString("severity")
			description, _ := cmd.Flags().GetString("description")
			requirements, _ := cmd.Flags().GetInt64Slice("requirement")

			appCtx, cfg, err := bootstrap()
			if err != nil {
				return err
			}
			ref, err := referenceService(appCtx)
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

			bug, err := bugSvc.ReportBug(ctx, primary.ReportBugRequest{
				EnvironmentID:  env.ID,
				SystemID:       systemID,
				Title:          args[0],
				Description:    description,
				Severity:       severity,
				RequirementIDs: requirements,
				Actor:          cfg.Actor,
			})
			if err != nil {
				return fmt.Errorf("failed to report bug: %w", err)
			}

			fmt.Printf("✓ Reported bug %d [%s]: %s\n", bug.ID, bug.Severity, bug.Title)
			return nil
		},
	}

	cmd.Flags().String("env", "", "environment name")
	cmd.Flags().Int64("system", 0, "affected system id")
	cmd.Flags().String("severity", "", "LOW, MEDIUM, HIGH or CRITICAL (default MEDIUM)")
	cmd.Flags().String("description", "", "free-text description")
	cmd.Flags().Int64Slice("requirement", nil, "affected requirement id (repeatable)")
	return cmd
}

func bugListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List bugs",
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
			bugSvc, err := bugService(appCtx)
			if err != nil {
				return err
			}

			ctx := context.Background()
			env, err := resolveEnvironment(ctx, ref, envName)
			if err != nil {
				return err
			}

			bugs, err := bugSvc.ListBugs(ctx, env.ID)
			if err != nil {
				return fmt.Errorf("failed to list bugs: %w", err)
			}
			if len(bugs) == 0 {
				fmt.Println("No bugs found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "ID\tSEVERITY\tSTATUS\tTITLE\tREQUIREMENTS")
			for _, b := range bugs {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\n",
					b.ID, b.Severity, b.Status, b.Title, len(b.Requirements))
			}
			w.Flush()
			return nil
		},
	}

	cmd.Flags().String("env", "", "environment name")
	return cmd
}

func bugShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [bug-id]",
		Short: "Show bug details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bugID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid bug id %q", args[0])
			}

			appCtx, _, err := bootstrap()
			if err != nil {
				return err
			}
			bugSvc, err := bugService(appCtx)
			if err != nil {
				return err
			}

			bug, err := bugSvc.GetBug(context.Background(), bugID)
			if err != nil {
				return err
			}
			if bug == nil {
				return fmt.Errorf("bug %d not found", bugID)
			}

			fmt.Printf("Bug %d [%s/%s]: %s\n", bug.ID, bug.Severity, bug.Status, bug.Title)
			if bug.Description.Valid {
				fmt.Printf("Description: %s\n", bug.Description.String)
			}
			if bug.System != nil {
				fmt.Printf("System: %s\n", bug.System.Name)
			}
			if bug.CampaignRunID.Valid {
				fmt.Printf("Found in run: %d\n", bug.CampaignRunID.Int64)
			}
			for _, r := range bug.Requirements {
				fmt.Printf("  Affects %s\n", r.Code)
			}
			for _, f := range bug.Files {
				fmt.Printf("  Attachment: %s (%s)\n", f.Filename, f.Path)
			}
			return nil
		},
	}
}

func bugUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update [bug-id]",
		Short: "Update a bug (each change lands in its history)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bugID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid bug id %q", args[0])
			}

			appCtx, cfg, err := bootstrap()
			if err != nil {
				return err
			}
			bugSvc, err := bugService(appCtx)
			if err != nil {
				return err
			}

			req := primary.UpdateBugRequest{BugID: bugID, Actor: cfg.Actor}
			if cmd.Flags().Changed("severity") {
				v, _ := cmd.Flags().GetString("severity")
				req.Severity = &v
			}
			if cmd.Flags().Changed("status") {
				v, _ := cmd.Flags().GetString("status")
				req.Status = &v
			}
			if cmd.Flags().Changed("title") {
				v, _ := cmd.Flags().GetString("title")
				req.Title = &v
			}

			bug, err := bugSvc.UpdateBug(context.Background(), req)
			if err != nil {
				return fmt.Errorf("failed to update bug: %w", err)
			}
			fmt.Printf("✓ Updated bug %d [%s/%s]\n", bug.ID, bug.Severity, bug.Status)
			return nil
		},
	}

	cmd.Flags().String("severity", "", "new severity")
	cmd.Flags().String("status", "", "new status")
	cmd.Flags().String("title", "", "new title")
	return cmd
}

func bugLinkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "link [bug-id] [requirement-id]",
		Short: "Link an affected requirement",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			unlink, _ := cmd.Flags().GetBool("remove")

			bugID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid bug id %q", args[0])
			}
			reqID, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid requirement id %q", args[1])
			}

			appCtx, cfg, err := bootstrap()
			if err != nil {
				return err
			}
			bugSvc, err := bugService(appCtx)
			if err != nil {
				return err
			}

			ctx := context.Background()
			if unlink {
				if _, err := bugSvc.UnlinkRequirement(ctx, bugID, reqID, cfg.Actor); err != nil {
					return err
				}
				fmt.Printf("✓ Unlinked requirement %d from bug %d\n", reqID, bugID)
				return nil
			}
			if _, err := bugSvc.LinkRequirement(ctx, bugID, reqID, cfg.Actor); err != nil {
				return err
			}
			fmt.Printf("✓ Linked requirement %d to bug %d\n", reqID, bugID)
			return nil
		},
	}

	cmd.Flags().Bool("remove", false, "unlink instead of link")
	return cmd
}

func bugAttachCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attach [bug-id] [path]",
		Short: "Attach an evidence file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			bugID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid bug id %q", args[0])
			}
			path := args[1]

			info, err := os.Stat(path)
			if err != nil {
				return fmt.Errorf("cannot read %s: %w", path, err)
			}

			appCtx, cfg, err := bootstrap()
			if err != nil {
				return err
			}
			bugSvc, err := bugService(appCtx)
			if err != nil {
				return err
			}

			bug, err := bugSvc.AttachFile(context.Background(), primary.AttachFileRequest{
				BugID:     bugID,
				Filename:  info.Name(),
				Path:      path,
				SizeBytes: info.Size(),
				Actor:     cfg.Actor,
			})
			if err != nil {
				return fmt.Errorf("failed to attach file: %w", err)
			}
			fmt.Printf("✓ Attached %s to bug %d (%d attachments)\n", info.Name(), bug.ID, len(bug.Files))
			return nil
		},
	}

	return cmd
}

func bugHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history [bug-id]",
		Short: "Show a bug's change log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bugID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid bug id %q", args[0])
			}

			appCtx, _, err := bootstrap()
			if err != nil {
				return err
			}
			bugSvc, err := bugService(appCtx)
			if err != nil {
				return err
			}

			history, err := bugSvc.GetHistory(context.Background(), bugID)
			if err != nil {
				return err
			}
			if len(history) == 0 {
				fmt.Println("No history.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "WHEN\tACTOR\tCHANGE")
			for _, entry := range history {
				fmt.Fprintf(w, "%s\t%s\t%s\n",
					entry.CreatedAt.Format("2006-01-02 15:04"), entry.Actor, entry.Summary)
			}
			w.Flush()
			return nil
		},
	}
}
