package main

import (
	"errors"
	"os"

	"github.com/kasimali67/ai-call-agent/internal/cli"
	"github.com/kasimali67/ai-call-agent/internal/config"
	"github.com/kasimali67/ai-call-agent/internal/presentation/tui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage live call records",
	Long: `List, inspect, and remove the call records of a shared (redis) session backend.
The memory backend lives inside the serving process and cannot be reached from here.`,
}

var sessionLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all live calls",
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := openSharedBackend(cmd)
		if err != nil {
			return err
		}
		defer backend.Close()
		return cli.ListSessions(cmd.Context(), cmd.OutOrStdout(), backend.Store)
	},
}

var sessionInspectCmd = &cobra.Command{
	Use:   "inspect <call-sid>",
	Short: "Inspect the state of a call",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := openSharedBackend(cmd)
		if err != nil {
			return err
		}
		defer backend.Close()

		format, _ := cmd.Flags().GetString("format")
		var render func(string) (string, error)
		if term.IsTerminal(int(os.Stdout.Fd())) {
			render = tui.NewRenderer()
		}
		return cli.InspectSession(cmd.Context(), cmd.OutOrStdout(), backend.Store, args[0], format, render)
	},
}

var sessionRmCmd = &cobra.Command{
	Use:   "rm [call-sid]...",
	Short: "Remove one or more calls",
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")
		if !all && len(args) == 0 {
			return errors.New("name at least one call or pass --all")
		}

		backend, err := openSharedBackend(cmd)
		if err != nil {
			return err
		}
		defer backend.Close()
		return cli.RemoveSessions(cmd.Context(), cmd.OutOrStdout(), backend.Store, args, all)
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionLsCmd)
	sessionCmd.AddCommand(sessionInspectCmd)
	sessionCmd.AddCommand(sessionRmCmd)

	sessionInspectCmd.Flags().StringP("format", "f", cli.FormatMarkdown, "Output format: markdown, json or graph")
	sessionRmCmd.Flags().Bool("all", false, "Remove every live call")
}

func openSharedBackend(cmd *cobra.Command) (*cli.Backend, error) {
	cfg, logger, err := loadConfig(cmd, false)
	if err != nil {
		return nil, err
	}
	if cfg.Session.Backend != config.BackendRedis {
		return nil, errors.New("session commands need session.backend=redis (SESSION_BACKEND=redis)")
	}
	return cli.OpenBackend(cmd.Context(), cfg.Session, logger, nil)
}
