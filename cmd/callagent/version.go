package main

import (
	"fmt"

	"github.com/kasimali67/ai-call-agent/internal/buildinfo"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of callagent",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (commit %s", buildinfo.AppName, buildinfo.Version, buildinfo.Commit)
		if buildinfo.Date != "" {
			fmt.Fprintf(cmd.OutOrStdout(), ", built %s", buildinfo.Date)
		}
		fmt.Fprintln(cmd.OutOrStdout(), ")")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
