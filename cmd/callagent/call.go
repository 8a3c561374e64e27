package main

import (
	"github.com/kasimali67/ai-call-agent/internal/cli"
	"github.com/kasimali67/ai-call-agent/internal/twilio"
	"github.com/spf13/cobra"
)

var callCmd = &cobra.Command{
	Use:   "call",
	Short: "Query or control calls through the Twilio API",
}

var callGetCmd = &cobra.Command{
	Use:   "get <call-sid>",
	Short: "Show a call as Twilio sees it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := twilioClient(cmd)
		if err != nil {
			return err
		}
		return cli.ShowCall(cmd.Context(), cmd.OutOrStdout(), client, args[0])
	},
}

var callHangupCmd = &cobra.Command{
	Use:   "hangup <call-sid>",
	Short: "End a live call",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := twilioClient(cmd)
		if err != nil {
			return err
		}
		return cli.HangupCall(cmd.Context(), cmd.OutOrStdout(), client, args[0])
	},
}

func init() {
	rootCmd.AddCommand(callCmd)
	callCmd.AddCommand(callGetCmd)
	callCmd.AddCommand(callHangupCmd)
}

func twilioClient(cmd *cobra.Command) (*twilio.Client, error) {
	cfg, _, err := loadConfig(cmd, true)
	if err != nil {
		return nil, err
	}
	return twilio.New(twilio.Config{
		AccountSID: cfg.Twilio.AccountSID,
		AuthToken:  cfg.Twilio.AuthToken,
		BaseURL:    cfg.Twilio.APIBaseURL,
	})
}
