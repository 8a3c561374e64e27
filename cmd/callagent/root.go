package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/kasimali67/ai-call-agent/internal/cli"
	"github.com/kasimali67/ai-call-agent/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "callagent",
	Short: "callagent answers phone calls and books hotel rooms",
	Long: `callagent is a voice-call dialogue controller driven by Twilio webhooks.
It walks each caller through a fixed booking script: location, dates, room type, confirmation.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("config", "c", os.Getenv("CALLAGENT_CONFIG"), "Path to a YAML config file (env CALLAGENT_CONFIG)")
	rootCmd.PersistentFlags().String("log-level", "", "Override the configured log level (debug, info, warn, error)")
}

// loadConfig reads the config file named by --config and the environment.
// Without secrets, Twilio credentials are not required.
func loadConfig(cmd *cobra.Command, secrets bool) (*config.Config, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	levelOverride, _ := cmd.Flags().GetString("log-level")

	load := config.Load
	if !secrets {
		load = config.LoadWithoutSecrets
	}
	cfg, err := load(path)
	if err != nil {
		return nil, nil, err
	}

	logger, err := cli.NewLogger(cfg.Logging, levelOverride, os.Stderr)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}
