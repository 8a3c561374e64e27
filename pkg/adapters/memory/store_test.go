package memory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/kasimali67/ai-call-agent/pkg/adapters/memory"
	"github.com/kasimali67/ai-call-agent/pkg/domain"
	"github.com/kasimali67/ai-call-agent/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunCallStoreContract(t, store)
}

func TestMemoryStore_Contract_WithTTL(t *testing.T) {
	store := memory.NewStore(memory.WithTTL(time.Hour))
	ports.RunCallStoreContract(t, store)
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestMemoryStore_TTL_Expiration(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	store := memory.NewStore(memory.WithTTL(time.Minute), memory.WithClock(clock.Now))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "CA1", domain.NewConversation()))

	clock.Advance(30 * time.Second)
	_, err := store.Load(ctx, "CA1")
	require.NoError(t, err, "record is still within its TTL")

	// A save refreshes the idle timer.
	require.NoError(t, store.Save(ctx, "CA1", domain.ConversationState{Step: domain.StepAskDates, Location: "Paris"}))
	clock.Advance(45 * time.Second)
	_, err = store.Load(ctx, "CA1")
	require.NoError(t, err)

	clock.Advance(time.Minute)
	_, err = store.Load(ctx, "CA1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.Zero(t, store.Len(), "expired record is dropped lazily on read")
}

func TestMemoryStore_Prune(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	store := memory.NewStore(memory.WithTTL(time.Minute), memory.WithClock(clock.Now))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "old", domain.NewConversation()))
	clock.Advance(2 * time.Minute)
	require.NoError(t, store.Save(ctx, "fresh", domain.NewConversation()))

	calls, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"fresh"}, calls)

	assert.Equal(t, 1, store.Prune())
	assert.Equal(t, 1, store.Len())
}

func TestMemoryStore_NoTTL_KeepsForever(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	store := memory.NewStore(memory.WithClock(clock.Now))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "CA1", domain.NewConversation()))
	clock.Advance(24 * 365 * time.Hour)

	_, err := store.Load(ctx, "CA1")
	assert.NoError(t, err)
	assert.Zero(t, store.Prune())
}

func TestMemoryStore_Janitor(t *testing.T) {
	store := memory.NewStore(memory.WithTTL(time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, store.Save(ctx, "CA1", domain.NewConversation()))

	var total int
	var mu sync.Mutex
	go store.Janitor(ctx, 5*time.Millisecond, func(n int) {
		mu.Lock()
		total += n
		mu.Unlock()
	})

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return total == 1
	}, time.Second, 5*time.Millisecond)
	assert.Zero(t, store.Len())
}
