package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"

	callagent "github.com/kasimali67/ai-call-agent"
	"github.com/kasimali67/ai-call-agent/internal/presentation/tui"
	httpadapter "github.com/kasimali67/ai-call-agent/pkg/adapters/http"
	"github.com/kasimali67/ai-call-agent/pkg/dialogue"
	"github.com/kasimali67/ai-call-agent/pkg/domain"
)

// QuitCommand hangs up a simulated call.
const QuitCommand = "/quit"

// Simulate plays a call against agent on a terminal. Each input line is one
// speech result; an empty line is silence. The spoken lines follow the same
// order as the voice webhooks.
func Simulate(ctx context.Context, agent *callagent.Agent, callID string, in io.Reader, out io.Writer) error {
	p := tui.NewPalette(out)
	speak := func(s string) {
		fmt.Fprintln(out, p.Agent("agent: "+s))
	}

	if _, err := agent.StartCall(ctx, callID); err != nil {
		return err
	}
	fmt.Fprintln(out, p.System(fmt.Sprintf(">>> Call '%s' connected. Type %s to hang up.", callID, QuitCommand)))
	speak(dialogue.Greeting)
	speak(dialogue.PromptLocation)

	scanner := bufio.NewScanner(NewInterruptibleReader(in, ctx.Done()))
	for {
		fmt.Fprint(out, p.Caller("> "))
		if !scanner.Scan() {
			fmt.Fprintln(out)
			if err := scanner.Err(); err != nil && !isInterrupted(err) {
				return fmt.Errorf("input error: %w", err)
			}
			return endSimulation(ctx, agent, callID, domain.CallStatusCanceled, out, p)
		}

		line := scanner.Text()
		if line == QuitCommand {
			return endSimulation(ctx, agent, callID, domain.CallStatusCompleted, out, p)
		}

		utterance, err := httpadapter.SanitizeInput(line, 0)
		if err != nil {
			utterance = ""
		}

		turn, err := agent.Respond(ctx, callID, utterance)
		if err != nil {
			return err
		}
		speak(turn.Prompt)

		if turn.Done() {
			speak(dialogue.Goodbye)
			return endSimulation(ctx, agent, callID, domain.CallStatusCompleted, out, p)
		}
		speak(dialogue.FollowUp(turn.State.Step))
	}
}

func endSimulation(ctx context.Context, agent *callagent.Agent, callID, status string, out io.Writer, p tui.Palette) error {
	if err := agent.EndCall(context.WithoutCancel(ctx), callID, status); err != nil {
		return err
	}
	fmt.Fprintln(out, p.System(fmt.Sprintf(">>> Call '%s' %s.", callID, status)))
	return nil
}
