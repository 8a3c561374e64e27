package main

import (
	"context"
	"os"

	"github.com/google/uuid"
	callagent "github.com/kasimali67/ai-call-agent"
	"github.com/kasimali67/ai-call-agent/internal/buildinfo"
	"github.com/kasimali67/ai-call-agent/internal/cli"
	"github.com/kasimali67/ai-call-agent/internal/logging"
	"github.com/kasimali67/ai-call-agent/internal/presentation/tui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Talk to the booking script from the terminal",
	Long: `Plays a call on stdin/stdout. Each line is one speech result and an empty line is silence.
The configured session backend is used, so a redis backend shows the call to 'session ls'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd, false)
		if err != nil {
			return err
		}

		callID, _ := cmd.Flags().GetString("call-sid")
		if callID == "" {
			callID = "SIM" + uuid.NewString()
		}

		sigCtx := cli.NewSignalContext(context.Background())
		defer sigCtx.Cancel()

		backend, err := cli.OpenBackend(sigCtx, cfg.Session, logger, nil)
		if err != nil {
			return err
		}
		defer backend.Close()

		agent := callagent.New(backend.Sessions, callagent.WithLogger(logging.Component(logger, "agent")))

		if term.IsTerminal(int(os.Stdout.Fd())) {
			tui.PrintBanner(cmd.OutOrStdout(), buildinfo.Version)
		}
		return cli.Simulate(sigCtx, agent, callID, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().String("call-sid", "", "Call id to use (random by default)")
}
