package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventCallStart EventType = "call_start"
	EventTurn      EventType = "turn"
	EventBooked    EventType = "booked"
	EventRestart   EventType = "restart"
	EventCallEnd   EventType = "call_end"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	CallID    string    `json:"call_id"`
}

// CallEvent marks the beginning or the end of a call.
type CallEvent struct {
	EventBase
	// Status is the provider call status (only set on call end).
	Status string `json:"status,omitempty"`
}

// TurnEvent describes one utterance processed by the dialogue engine.
type TurnEvent struct {
	EventBase
	Utterance string `json:"utterance"`
	From      Step   `json:"from"`
	To        Step   `json:"to"`
	Prompt    string `json:"prompt"`
}

// LifecycleHooks defines callbacks for agent observability.
// Every field is optional.
type LifecycleHooks struct {
	OnCallStart func(context.Context, *CallEvent)
	OnTurn      func(context.Context, *TurnEvent)
	OnBooked    func(context.Context, *TurnEvent)
	OnRestart   func(context.Context, *TurnEvent)
	OnCallEnd   func(context.Context, *CallEvent)
}

// Merge returns hooks that fire h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnCallStart: chainCall(h.OnCallStart, other.OnCallStart),
		OnTurn:      chainTurn(h.OnTurn, other.OnTurn),
		OnBooked:    chainTurn(h.OnBooked, other.OnBooked),
		OnRestart:   chainTurn(h.OnRestart, other.OnRestart),
		OnCallEnd:   chainCall(h.OnCallEnd, other.OnCallEnd),
	}
}

func chainCall(a, b func(context.Context, *CallEvent)) func(context.Context, *CallEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *CallEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}

func chainTurn(a, b func(context.Context, *TurnEvent)) func(context.Context, *TurnEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *TurnEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}
