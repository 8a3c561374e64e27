package main

import (
	"context"

	"github.com/kasimali67/ai-call-agent/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the voice webhook server",
	Long: `Starts the HTTP server Twilio calls on /incoming-call, /gather-response and /call-status.
TWILIO_ACCOUNT_SID and TWILIO_AUTH_TOKEN are required.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd, true)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.HTTP.Port, _ = cmd.Flags().GetInt("port")
		}

		sigCtx := cli.NewSignalContext(context.Background())
		defer sigCtx.Cancel()

		if err := cli.Serve(sigCtx, cfg, logger); err != nil {
			return err
		}
		if sig := sigCtx.Signal(); sig != nil {
			logger.Info("stopped by signal", "signal", sig.String())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 0, "Port to listen on (overrides PORT)")
}
