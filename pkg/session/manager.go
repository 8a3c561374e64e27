package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/kasimali67/ai-call-agent/internal/logging"
	"github.com/kasimali67/ai-call-agent/pkg/domain"
	"github.com/kasimali67/ai-call-agent/pkg/ports"
)

// DefaultLockTTL bounds how long a crashed replica can hold a call's distributed lock.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates call state access, ensuring safe concurrent operations.
// It uses Reference Counting to garbage collect unused locks.
type Manager struct {
	store ports.CallStore

	mu    sync.Mutex            // Global lock for the map
	locks map[string]*lockEntry // Map of active locks

	locker  ports.DistributedLocker // Optional distributed locker
	lockTTL time.Duration
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL overrides DefaultLockTTL.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.lockTTL = ttl
		}
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a new Manager backed by store.
func NewManager(store ports.CallStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(callID) after unlocking.
func (m *Manager) acquire(callID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[callID]
	if !exists {
		entry = &lockEntry{}
		m.locks[callID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(callID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[callID]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, callID)
	}
}

// GetOrCreate returns the record for callID, creating and storing a fresh one
// if the call has not been seen before. It never reports a missing record.
func (m *Manager) GetOrCreate(ctx context.Context, callID string) (domain.ConversationState, error) {
	var state domain.ConversationState
	err := m.WithLock(ctx, callID, func(ctx context.Context) error {
		var err error
		state, _, err = m.loadOrCreate(ctx, callID)
		return err
	})
	return state, err
}

// Put replaces the record for callID unconditionally.
func (m *Manager) Put(ctx context.Context, callID string, state domain.ConversationState) error {
	return m.WithLock(ctx, callID, func(ctx context.Context) error {
		if err := m.store.Save(ctx, callID, state); err != nil {
			return fmt.Errorf("failed to save call %s: %w", callID, err)
		}
		return nil
	})
}

// Update performs get-or-create, fn and put as one atomic step for callID.
// It returns the record before and after fn was applied.
func (m *Manager) Update(ctx context.Context, callID string, fn func(domain.ConversationState) domain.ConversationState) (before, after domain.ConversationState, err error) {
	err = m.WithLock(ctx, callID, func(ctx context.Context) error {
		var lerr error
		before, _, lerr = m.loadOrCreate(ctx, callID)
		if lerr != nil {
			return lerr
		}

		after = fn(before)
		if serr := m.store.Save(ctx, callID, after); serr != nil {
			return fmt.Errorf("failed to save call %s: %w", callID, serr)
		}
		return nil
	})
	return before, after, err
}

// Load retrieves an existing record without creating one.
func (m *Manager) Load(ctx context.Context, callID string) (domain.ConversationState, error) {
	var state domain.ConversationState
	err := m.WithLock(ctx, callID, func(ctx context.Context) error {
		var err error
		state, err = m.store.Load(ctx, callID)
		return err
	})
	return state, err
}

// Delete evicts the record for callID.
func (m *Manager) Delete(ctx context.Context, callID string) error {
	return m.WithLock(ctx, callID, func(ctx context.Context) error {
		return m.store.Delete(ctx, callID)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying call store.
func (m *Manager) Store() ports.CallStore {
	return m.store
}

// loadOrCreate must be called with the call lock held.
func (m *Manager) loadOrCreate(ctx context.Context, callID string) (domain.ConversationState, bool, error) {
	state, err := m.store.Load(ctx, callID)
	if err == nil {
		return state, false, nil
	}
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
	case errors.Is(err, domain.ErrCorruptState):
		m.logger.Warn("unreadable call state, starting over", "call_sid", callID, "err", err)
	default:
		return domain.ConversationState{}, false, fmt.Errorf("failed to check call existence: %w", err)
	}

	state = domain.NewConversation()
	if err := m.store.Save(ctx, callID, state); err != nil {
		return domain.ConversationState{}, false, fmt.Errorf("failed to initialize call: %w", err)
	}
	m.logger.Debug("call state created", "call_sid", callID)
	return state, true, nil
}

// WithLock executes a function while holding the lock for the call.
func (m *Manager) WithLock(ctx context.Context, callID string, fn func(context.Context) error) error {
	if callID == "" {
		return domain.ErrEmptyCallID
	}

	entry := m.acquire(callID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(callID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, "call:"+callID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			// The request context may already be cancelled; release must still be attempted.
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"call_sid", callID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
