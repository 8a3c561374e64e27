package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/kasimali67/ai-call-agent/pkg/adapters/redis"
	"github.com/kasimali67/ai-call-agent/pkg/domain"
	"github.com/kasimali67/ai-call-agent/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := newClient(t)

	store := redis.NewFromClient(client)
	ports.RunCallStoreContract(t, store)
}

func TestRedisStore_Contract_WithTTL(t *testing.T) {
	_, client := newClient(t)

	store := redis.NewFromClient(client, redis.WithTTL(time.Hour))
	ports.RunCallStoreContract(t, store)
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, client := newClient(t)

	now := time.Now()
	clock := func() time.Time { return now }

	store := redis.NewFromClient(client, redis.WithTTL(time.Second), redis.WithClock(clock))
	ctx := context.Background()
	callID := "CA-ttl"

	err := store.Save(ctx, callID, domain.ConversationState{Step: domain.StepAskDates, Location: "Paris"})
	require.NoError(t, err)

	calls, err := store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, calls, callID)

	// Expire the key in Redis and move the index clock past its score.
	mr.FastForward(2 * time.Second)
	now = now.Add(2 * time.Second)

	_, err = store.Load(ctx, callID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	calls, err = store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, calls)
}

func TestRedisStore_SaveSlidesTTL(t *testing.T) {
	mr, client := newClient(t)

	store := redis.NewFromClient(client, redis.WithTTL(10*time.Second))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "CA1", domain.NewConversation()))
	mr.FastForward(8 * time.Second)
	require.NoError(t, store.Save(ctx, "CA1", domain.ConversationState{Step: domain.StepAskDates, Location: "Paris"}))
	mr.FastForward(8 * time.Second)

	state, err := store.Load(ctx, "CA1")
	require.NoError(t, err)
	assert.Equal(t, "Paris", state.Location)
	assert.Equal(t, 2*time.Second, mr.TTL("callagent:call:CA1"))
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, client := newClient(t)

	store := redis.NewFromClient(client, redis.WithPrefix("custom:app:"))
	ctx := context.Background()
	callID := "CA-prefix"

	err := store.Save(ctx, callID, domain.NewConversation())
	require.NoError(t, err)

	assert.True(t, mr.Exists("custom:app:CA-prefix"), "Expected key with custom prefix to exist")
	assert.True(t, mr.Exists("custom:app:_index"), "Expected index with custom prefix to exist")

	raw, err := mr.Get("custom:app:CA-prefix")
	require.NoError(t, err)
	assert.JSONEq(t, `{"step":"ask_location"}`, raw)

	list, err := store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, list, callID)
}

func TestRedisStore_CorruptRecord(t *testing.T) {
	mr, client := newClient(t)
	store := redis.NewFromClient(client)

	require.NoError(t, mr.Set("callagent:call:CA-bad", "{not json"))

	_, err := store.Load(context.Background(), "CA-bad")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCorruptState)
	assert.NotErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestRedisStore_Unavailable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()

	store := redis.NewFromClient(client)
	mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err = store.Save(ctx, "CA1", domain.NewConversation())
	assert.Error(t, err)
	assert.Error(t, store.Ping(ctx))

	_, err = store.Load(ctx, "CA1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrCorruptState)
}
