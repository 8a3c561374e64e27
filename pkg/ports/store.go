package ports

import (
	"context"

	"github.com/kasimali67/ai-call-agent/pkg/domain"
)

// CallStore defines the interface for keeping conversation state between webhooks.
// Each call ID owns exactly one record.
type CallStore interface {
	// Save replaces the state for a given call ID.
	Save(ctx context.Context, callID string, state domain.ConversationState) error

	// Load retrieves the state for a given call ID.
	// Returns domain.ErrSessionNotFound if the call is unknown.
	Load(ctx context.Context, callID string) (domain.ConversationState, error)

	// Delete removes the state for a given call ID. Deleting an unknown call is not an error.
	Delete(ctx context.Context, callID string) error

	// List returns the IDs of every stored call.
	List(ctx context.Context) ([]string, error)
}
