package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/kasimali67/ai-call-agent/internal/twilio"
)

// CallAPI is the part of the Twilio REST client the call commands use.
type CallAPI interface {
	GetCall(ctx context.Context, callSID string) (*twilio.Call, error)
	HangupCall(ctx context.Context, callSID string) (*twilio.Call, error)
}

// ShowCall prints the provider's view of a call.
func ShowCall(ctx context.Context, w io.Writer, api CallAPI, callSID string) error {
	call, err := api.GetCall(ctx, callSID)
	if err != nil {
		if twilio.IsNotFound(err) {
			return fmt.Errorf("call %q not found at provider", callSID)
		}
		return fmt.Errorf("failed to fetch call: %w", err)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, row := range [][2]string{
		{"SID", call.SID},
		{"Status", call.Status},
		{"Direction", call.Direction},
		{"From", call.From},
		{"To", call.To},
		{"Started", call.StartTime},
		{"Ended", call.EndTime},
		{"Duration", call.Duration},
	} {
		if row[1] == "" {
			continue
		}
		fmt.Fprintf(tw, "%s:\t%s\n", row[0], row[1])
	}
	return tw.Flush()
}

// HangupCall asks the provider to end a live call.
func HangupCall(ctx context.Context, w io.Writer, api CallAPI, callSID string) error {
	call, err := api.HangupCall(ctx, callSID)
	if err != nil {
		return fmt.Errorf("failed to hang up call: %w", err)
	}
	printSystemMessage(w, "Call '%s' is now %s.", call.SID, call.Status)
	return nil
}
