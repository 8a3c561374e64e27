package callagent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kasimali67/ai-call-agent/internal/logging"
	"github.com/kasimali67/ai-call-agent/pkg/dialogue"
	"github.com/kasimali67/ai-call-agent/pkg/domain"
	"github.com/kasimali67/ai-call-agent/pkg/session"
)

// Turn is the outcome of one processed utterance.
type Turn struct {
	CallID    string
	Utterance string
	Prompt    string
	Previous  domain.ConversationState
	State     domain.ConversationState
}

// Done reports whether the booking is complete and the call can end.
func (t Turn) Done() bool {
	return t.State.Booked()
}

// Restarted reports whether the caller declined at confirmation and the script started over.
func (t Turn) Restarted() bool {
	return t.Previous.Step == domain.StepConfirm && t.State.Step == domain.StepAskLocation
}

// Agent drives the booking script for every call it is told about.
// It is safe for concurrent use; per-call serialization is delegated to the session manager.
type Agent struct {
	sessions *session.Manager
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
	now      func() time.Time
}

// Option defines a functional option for configuring the Agent.
type Option func(*Agent)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(a *Agent) {
		a.hooks = a.hooks.Merge(hooks)
	}
}

// WithLogger sets a custom structured logger for the agent.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Agent) {
		a.logger = logger
	}
}

// WithClock replaces time.Now for event timestamps.
func WithClock(now func() time.Time) Option {
	return func(a *Agent) {
		a.now = now
	}
}

// New creates an Agent on top of sessions.
func New(sessions *session.Manager, opts ...Option) *Agent {
	a := &Agent{
		sessions: sessions,
		logger:   logging.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Sessions returns the underlying session manager.
func (a *Agent) Sessions() *session.Manager {
	return a.sessions
}

// StartCall handles the call-start notification: the record is created if missing.
// No prompt is computed here; the opening lines belong to the transport.
// An empty call ID is tolerated and yields an unsaved fresh record.
func (a *Agent) StartCall(ctx context.Context, callID string) (domain.ConversationState, error) {
	if callID == "" {
		a.logger.Warn("call started without call id")
		return domain.NewConversation(), nil
	}

	state, err := a.sessions.GetOrCreate(ctx, callID)
	if err != nil {
		return domain.ConversationState{}, fmt.Errorf("start call %s: %w", callID, err)
	}

	a.logger.Info("call initiated", "call_sid", callID, "step", state.Step.String())
	if a.hooks.OnCallStart != nil {
		a.hooks.OnCallStart(ctx, &domain.CallEvent{EventBase: a.event(domain.EventCallStart, callID)})
	}
	return state, nil
}

// Respond handles a speech-result notification: load or create, transition, store.
// Without a call ID the transition runs against a fresh record that is not persisted,
// so anonymous requests never share state.
func (a *Agent) Respond(ctx context.Context, callID, utterance string) (Turn, error) {
	turn := Turn{CallID: callID, Utterance: utterance}

	step := func(s domain.ConversationState) domain.ConversationState {
		var next domain.ConversationState
		turn.Prompt, next = dialogue.Transition(utterance, s)
		return next
	}

	if callID == "" {
		a.logger.Warn("speech result without call id, state will not be kept")
		turn.Previous = domain.NewConversation()
		turn.State = step(turn.Previous)
	} else {
		var err error
		turn.Previous, turn.State, err = a.sessions.Update(ctx, callID, step)
		if err != nil {
			return Turn{}, fmt.Errorf("respond to call %s: %w", callID, err)
		}
	}

	a.logger.Info("gathered speech",
		"call_sid", callID,
		"utterance", utterance,
		"from", turn.Previous.Step.String(),
		"to", turn.State.Step.String(),
	)
	a.emitTurn(ctx, turn)
	return turn, nil
}

// EndCall evicts the call's record when status reports the call is over.
// Non-terminal statuses are ignored.
func (a *Agent) EndCall(ctx context.Context, callID, status string) error {
	if !domain.CallEnded(status) {
		a.logger.Debug("call status ignored", "call_sid", callID, "status", status)
		return nil
	}
	if callID == "" {
		return domain.ErrEmptyCallID
	}

	if err := a.sessions.Delete(ctx, callID); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		return fmt.Errorf("end call %s: %w", callID, err)
	}

	a.logger.Info("call ended", "call_sid", callID, "status", status)
	if a.hooks.OnCallEnd != nil {
		a.hooks.OnCallEnd(ctx, &domain.CallEvent{EventBase: a.event(domain.EventCallEnd, callID), Status: status})
	}
	return nil
}

func (a *Agent) event(t domain.EventType, callID string) domain.EventBase {
	return domain.EventBase{Timestamp: a.now(), Type: t, CallID: callID}
}

func (a *Agent) emitTurn(ctx context.Context, turn Turn) {
	ev := &domain.TurnEvent{
		EventBase: a.event(domain.EventTurn, turn.CallID),
		Utterance: turn.Utterance,
		From:      turn.Previous.Step,
		To:        turn.State.Step,
		Prompt:    turn.Prompt,
	}
	if a.hooks.OnTurn != nil {
		a.hooks.OnTurn(ctx, ev)
	}

	switch {
	case turn.Done() && !turn.Previous.Booked():
		if a.hooks.OnBooked != nil {
			booked := *ev
			booked.Type = domain.EventBooked
			a.hooks.OnBooked(ctx, &booked)
		}
		a.logger.Info("booking confirmed",
			"call_sid", turn.CallID,
			"location", turn.State.Location,
			"dates", turn.State.Dates,
			"room_type", turn.State.RoomType,
		)
	case turn.Restarted():
		if a.hooks.OnRestart != nil {
			restart := *ev
			restart.Type = domain.EventRestart
			a.hooks.OnRestart(ctx, &restart)
		}
	}
}
