package session_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/kasimali67/ai-call-agent/pkg/dialogue"
	"github.com/kasimali67/ai-call-agent/pkg/domain"
	"github.com/kasimali67/ai-call-agent/pkg/ports"
	"github.com/kasimali67/ai-call-agent/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// SlowStore simulates latency to provoke race conditions if locking is missing.
type SlowStore struct {
	data  map[string]domain.ConversationState
	saves int
	mu    sync.Mutex
}

func (s *SlowStore) Save(ctx context.Context, callID string, state domain.ConversationState) error {
	time.Sleep(10 * time.Millisecond) // Simulate IO
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		s.data = make(map[string]domain.ConversationState)
	}
	s.data[callID] = state
	s.saves++
	return nil
}

func (s *SlowStore) Load(ctx context.Context, callID string) (domain.ConversationState, error) {
	time.Sleep(10 * time.Millisecond) // Simulate IO
	s.mu.Lock()
	defer s.mu.Unlock()

	if state, ok := s.data[callID]; ok {
		return state, nil
	}
	return domain.ConversationState{}, domain.ErrSessionNotFound
}

func (s *SlowStore) Delete(ctx context.Context, callID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, callID)
	return nil
}

func (s *SlowStore) List(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	return ids, nil
}

func TestManager_GetOrCreate(t *testing.T) {
	store := &SlowStore{}
	manager := session.NewManager(store)
	ctx := context.Background()

	state, err := manager.GetOrCreate(ctx, "CA1")
	require.NoError(t, err)
	assert.Equal(t, domain.NewConversation(), state)

	require.NoError(t, manager.Put(ctx, "CA1", domain.ConversationState{Step: domain.StepAskDates, Location: "Paris"}))

	state, err = manager.GetOrCreate(ctx, "CA1")
	require.NoError(t, err)
	assert.Equal(t, "Paris", state.Location, "existing record must be returned untouched")
}

func TestManager_GetOrCreate_Atomic(t *testing.T) {
	store := &SlowStore{}
	manager := session.NewManager(store)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			state, err := manager.GetOrCreate(ctx, "atomic-init")
			assert.NoError(t, err)
			assert.Equal(t, domain.StepAskLocation, state.Step)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, store.saves, "the record must be created exactly once")
}

func TestManager_Put_Replaces(t *testing.T) {
	store := &SlowStore{}
	manager := session.NewManager(store)
	ctx := context.Background()

	require.NoError(t, manager.Put(ctx, "CA1", domain.ConversationState{Step: domain.StepConfirm, Location: "Paris", Dates: "X", RoomType: "suite"}))
	require.NoError(t, manager.Put(ctx, "CA1", domain.NewConversation()))

	state, err := manager.Load(ctx, "CA1")
	require.NoError(t, err)
	assert.Equal(t, domain.NewConversation(), state)
}

func TestManager_Update_NoLostUpdates(t *testing.T) {
	store := &SlowStore{}
	manager := session.NewManager(store)
	ctx := context.Background()
	id := "race-test"

	var wg sync.WaitGroup
	concurrentWrites := 10

	for i := 0; i < concurrentWrites; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := manager.Update(ctx, id, func(s domain.ConversationState) domain.ConversationState {
				s.Location += "x"
				return s
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	state, err := manager.Load(ctx, id)
	require.NoError(t, err)
	assert.Len(t, state.Location, concurrentWrites, "every read-modify-write must observe the previous one")
}

func TestManager_Update_DrivesDialogue(t *testing.T) {
	manager := session.NewManager(&SlowStore{})
	ctx := context.Background()

	turn := func(callID, utterance string) (string, domain.ConversationState) {
		var prompt string
		_, after, err := manager.Update(ctx, callID, func(s domain.ConversationState) domain.ConversationState {
			var next domain.ConversationState
			prompt, next = dialogue.Transition(utterance, s)
			return next
		})
		require.NoError(t, err)
		return prompt, after
	}

	_, a := turn("CA-A", "Paris")
	_, b := turn("CA-B", "Tokyo")
	_, a = turn("CA-A", "June")

	assert.Equal(t, domain.ConversationState{Step: domain.StepAskRoomType, Location: "Paris", Dates: "June"}, a)
	assert.Equal(t, domain.ConversationState{Step: domain.StepAskDates, Location: "Tokyo"}, b)
}

func TestManager_EmptyCallID(t *testing.T) {
	manager := session.NewManager(&SlowStore{})
	ctx := context.Background()

	_, err := manager.GetOrCreate(ctx, "")
	assert.ErrorIs(t, err, domain.ErrEmptyCallID)
	assert.ErrorIs(t, manager.Put(ctx, "", domain.NewConversation()), domain.ErrEmptyCallID)
}

func TestManager_Delete(t *testing.T) {
	store := &SlowStore{}
	manager := session.NewManager(store)
	ctx := context.Background()

	_, err := manager.GetOrCreate(ctx, "CA1")
	require.NoError(t, err)
	require.NoError(t, manager.Delete(ctx, "CA1"))

	_, err = manager.Load(ctx, "CA1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	ids, err := manager.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

type recordingLocker struct {
	mu      sync.Mutex
	keys    []string
	unlocks int
	err     error
}

func (l *recordingLocker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	if l.err != nil {
		return nil, l.err
	}
	l.mu.Lock()
	l.keys = append(l.keys, key)
	l.mu.Unlock()
	return func(context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.unlocks++
		return nil
	}, nil
}

func TestManager_DistributedLocker(t *testing.T) {
	locker := &recordingLocker{}
	manager := session.NewManager(&SlowStore{}, session.WithLocker(locker))
	ctx := context.Background()

	_, err := manager.GetOrCreate(ctx, "CA1")
	require.NoError(t, err)

	assert.Equal(t, []string{"call:CA1"}, locker.keys)
	assert.Equal(t, 1, locker.unlocks)
}

func TestManager_DistributedLocker_Failure(t *testing.T) {
	locker := &recordingLocker{err: errors.New("redis down")}
	store := &SlowStore{}
	manager := session.NewManager(store, session.WithLocker(locker))

	_, err := manager.GetOrCreate(context.Background(), "CA1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis down")
	assert.Zero(t, store.saves, "nothing may be written without the lock")
}

// loadErrStore fails every Load with err and records saves.
type loadErrStore struct {
	SlowStore
	err error
}

func (s *loadErrStore) Load(ctx context.Context, callID string) (domain.ConversationState, error) {
	return domain.ConversationState{}, s.err
}

func TestManager_CorruptStateStartsOver(t *testing.T) {
	store := &loadErrStore{err: fmt.Errorf("%w: bad json", domain.ErrCorruptState)}
	manager := session.NewManager(store)

	before, after, err := manager.Update(context.Background(), "CA1", func(s domain.ConversationState) domain.ConversationState {
		_, next := dialogue.Transition("Paris", s)
		return next
	})
	require.NoError(t, err)
	assert.Equal(t, domain.NewConversation(), before)
	assert.Equal(t, domain.StepAskDates, after.Step)
	assert.Equal(t, "Paris", store.data["CA1"].Location)
}

func TestManager_LoadFailurePropagates(t *testing.T) {
	store := &loadErrStore{err: errors.New("connection refused")}
	manager := session.NewManager(store)

	_, err := manager.GetOrCreate(context.Background(), "CA1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrCorruptState)
	assert.Zero(t, store.saves)
}
