package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/uat/internal/cli"
	"github.com/example/uat/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "uat",
		Short:   "UAT - campaign management for U-Space acceptance testing",
		Version: version.String(),
		Long: `UAT manages the test inventory of a U-Space acceptance campaign:
requirements, test cases, campaigns, execution runs and bugs, scoped to
named environments.`,
	}

	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.EnvCmd())
	rootCmd.AddCommand(cli.RequirementCmd())
	rootCmd.AddCommand(cli.CaseCmd())
	rootCmd.AddCommand(cli.CampaignCmd())
	rootCmd.AddCommand(cli.BugCmd())
	rootCmd.AddCommand(cli.ZoneCmd())
	rootCmd.AddCommand(cli.OperatorCmd())
	rootCmd.AddCommand(cli.StatusCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
