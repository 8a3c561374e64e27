/*
Package callagent is a voice-call dialogue controller for scripted hotel bookings.

A telephony provider (Twilio) posts a webhook whenever a call starts or a caller's
speech has been transcribed. The Agent looks up the call's ConversationState, runs
the dialogue transition and stores the result, returning the prompt the provider
should speak next.

# Architecture

  - pkg/dialogue: the pure transition function (utterance, state) -> (prompt, next state).
  - pkg/session: the call session store, serializing every operation per call ID.
  - pkg/adapters: storage backends (memory, Redis) and the HTTP webhook router.
  - pkg/twiml: markup rendering for the provider.

# Usage

	store := memory.NewStore(memory.WithTTL(2 * time.Hour))
	agent := callagent.New(session.NewManager(store))

	_, _ = agent.StartCall(ctx, "CA123")
	turn, err := agent.Respond(ctx, "CA123", "Paris")
	if err != nil {
		return err
	}
	fmt.Println(turn.Prompt) // Great! What dates would you like to book for in Paris? ...

The callagent binary (cmd/callagent) wires the Agent to an HTTP server.
*/
package callagent
