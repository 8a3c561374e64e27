package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/kasimali67/ai-call-agent/pkg/domain"
)

type entry struct {
	state     domain.ConversationState
	touchedAt time.Time
}

// Store implements ports.CallStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]entry
	mu   sync.RWMutex

	ttl time.Duration
	now func() time.Time
}

// Option configures the Store.
type Option func(*Store)

// WithTTL evicts records that were not saved for longer than ttl.
// Zero keeps records for the life of the process.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates a new in-memory store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		data: make(map[string]entry),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save stores the state in memory and refreshes its idle timer.
func (s *Store) Save(ctx context.Context, callID string, state domain.ConversationState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[callID] = entry{state: state, touchedAt: s.now()}
	return nil
}

// Load retrieves the state from memory. Expired records are reported as missing.
func (s *Store) Load(ctx context.Context, callID string) (domain.ConversationState, error) {
	s.mu.RLock()
	e, ok := s.data[callID]
	s.mu.RUnlock()

	if !ok {
		return domain.ConversationState{}, domain.ErrSessionNotFound
	}
	if s.expired(e, s.now()) {
		s.mu.Lock()
		if cur, ok := s.data[callID]; ok && s.expired(cur, s.now()) {
			delete(s.data, callID)
		}
		s.mu.Unlock()
		return domain.ConversationState{}, domain.ErrSessionNotFound
	}
	return e.state, nil
}

// Delete removes the state.
func (s *Store) Delete(ctx context.Context, callID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, callID)
	return nil
}

// List returns the live call IDs in lexical order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	calls := make([]string, 0, len(s.data))
	for id, e := range s.data {
		if !s.expired(e, now) {
			calls = append(calls, id)
		}
	}
	sort.Strings(calls)
	return calls, nil
}

// Prune removes every expired record and returns how many were dropped.
func (s *Store) Prune() int {
	if s.ttl <= 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, e := range s.data {
		if s.expired(e, now) {
			delete(s.data, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of records held, expired or not.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// Janitor calls Prune every interval until ctx is done.
// onPrune, if set, receives the number of records removed by each sweep.
func (s *Store) Janitor(ctx context.Context, interval time.Duration, onPrune func(int)) {
	if s.ttl <= 0 || interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n := s.Prune()
			if onPrune != nil {
				onPrune(n)
			}
		}
	}
}

func (s *Store) expired(e entry, now time.Time) bool {
	return s.ttl > 0 && now.Sub(e.touchedAt) > s.ttl
}
