package middleware_test

import (
	"context"
	"errors"

	"github.com/kasimali67/ai-call-agent/pkg/domain"
	"github.com/kasimali67/ai-call-agent/pkg/ports"
)

// MockStore is a simple map-based store for testing middleware.
type MockStore struct {
	data map[string]domain.ConversationState
	err  error
}

func NewMockStore() *MockStore {
	return &MockStore{
		data: make(map[string]domain.ConversationState),
	}
}

func (s *MockStore) Save(ctx context.Context, callID string, state domain.ConversationState) error {
	if s.err != nil {
		return s.err
	}
	s.data[callID] = state
	return nil
}

func (s *MockStore) Load(ctx context.Context, callID string) (domain.ConversationState, error) {
	if s.err != nil {
		return domain.ConversationState{}, s.err
	}
	state, ok := s.data[callID]
	if !ok {
		return domain.ConversationState{}, domain.ErrSessionNotFound
	}
	return state, nil
}

func (s *MockStore) Delete(ctx context.Context, callID string) error {
	delete(s.data, callID)
	return nil
}

func (s *MockStore) List(ctx context.Context) ([]string, error) {
	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	return ids, nil
}

var errBackend = errors.New("backend down")

var _ ports.CallStore = (*MockStore)(nil)
