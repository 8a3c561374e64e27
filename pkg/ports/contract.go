package ports

import (
	"context"
	"testing"
	"time"

	"github.com/kasimali67/ai-call-agent/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunCallStoreContract runs a suite of tests to verify that a CallStore implementation
// adheres to the defined interface contract.
func RunCallStoreContract(t *testing.T, store CallStore) {
	ctx := context.Background()
	callID := "CA-contract-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		state := domain.ConversationState{
			Step:     domain.StepAskRoomType,
			Location: "Paris",
			Dates:    "June 1 to June 5",
		}

		err := store.Save(ctx, callID, state)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, callID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, state, loaded)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+callID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, callID, domain.ConversationState{Step: domain.StepConfirm, Location: "Rome", Dates: "X", RoomType: "double"}))
		require.NoError(t, store.Save(ctx, callID, domain.NewConversation()))

		loaded, err := store.Load(ctx, callID)
		require.NoError(t, err)
		assert.Equal(t, domain.NewConversation(), loaded, "Save must replace the record, not merge it")
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, callID, domain.NewConversation()))

		err := store.Delete(ctx, callID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, callID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")

		assert.NoError(t, store.Delete(ctx, callID), "Deleting twice should not fail")
	})

	t.Run("List", func(t *testing.T) {
		id1 := callID + "-1"
		id2 := callID + "-2"
		_ = store.Save(ctx, id1, domain.NewConversation())
		_ = store.Save(ctx, id2, domain.NewConversation())

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		calls, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, calls, id1)
		assert.Contains(t, calls, id2)
	})

	t.Run("Isolation", func(t *testing.T) {
		a := callID + "-a"
		b := callID + "-b"
		defer func() {
			_ = store.Delete(ctx, a)
			_ = store.Delete(ctx, b)
		}()

		require.NoError(t, store.Save(ctx, a, domain.ConversationState{Step: domain.StepAskDates, Location: "Paris"}))
		require.NoError(t, store.Save(ctx, b, domain.ConversationState{Step: domain.StepAskDates, Location: "Tokyo"}))

		gotA, err := store.Load(ctx, a)
		require.NoError(t, err)
		gotB, err := store.Load(ctx, b)
		require.NoError(t, err)

		assert.Equal(t, "Paris", gotA.Location)
		assert.Equal(t, "Tokyo", gotB.Location)

		require.NoError(t, store.Delete(ctx, a))
		_, err = store.Load(ctx, b)
		assert.NoError(t, err, "deleting one call must not affect another")
	})
}
