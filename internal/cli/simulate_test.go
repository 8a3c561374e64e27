package cli_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	callagent "github.com/kasimali67/ai-call-agent"
	"github.com/kasimali67/ai-call-agent/internal/cli"
	"github.com/kasimali67/ai-call-agent/pkg/adapters/memory"
	"github.com/kasimali67/ai-call-agent/pkg/dialogue"
	"github.com/kasimali67/ai-call-agent/pkg/domain"
	"github.com/kasimali67/ai-call-agent/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func simulate(t *testing.T, input string) (string, *memory.Store, []string) {
	t.Helper()
	store := memory.NewStore()
	var ended []string
	agent := callagent.New(session.NewManager(store), callagent.WithLifecycleHooks(domain.LifecycleHooks{
		OnCallEnd: func(_ context.Context, e *domain.CallEvent) { ended = append(ended, e.Status) },
	}))

	var out bytes.Buffer
	require.NoError(t, cli.Simulate(context.Background(), agent, "SIM1", strings.NewReader(input), &out))
	return out.String(), store, ended
}

func TestSimulate_Booking(t *testing.T) {
	out, store, ended := simulate(t, "Paris\n\nMay 1 to May 3\ndouble\nyes\n")

	for _, want := range []string{
		"agent: " + dialogue.Greeting,
		"agent: " + dialogue.PromptLocation,
		"in Paris?",
		"agent: " + dialogue.PromptDates,
		"agent: " + dialogue.ReplyBooked,
		"agent: " + dialogue.Goodbye,
		">>> Call 'SIM1' completed.",
	} {
		assert.Contains(t, out, want)
	}
	assert.Zero(t, store.Len(), "finished calls are evicted")
	assert.Equal(t, []string{domain.CallStatusCompleted}, ended)
}

func TestSimulate_Quit(t *testing.T) {
	out, store, ended := simulate(t, "Paris\n/quit\nnever read\n")

	assert.Contains(t, out, ">>> Call 'SIM1' completed.")
	assert.NotContains(t, out, dialogue.ReplyRoomType)
	assert.Zero(t, store.Len())
	assert.Equal(t, []string{domain.CallStatusCompleted}, ended)
}

func TestSimulate_EOF(t *testing.T) {
	out, store, ended := simulate(t, "Paris")

	assert.Contains(t, out, "in Paris?")
	assert.Contains(t, out, ">>> Call 'SIM1' canceled.")
	assert.Zero(t, store.Len())
	assert.Equal(t, []string{domain.CallStatusCanceled}, ended)
}
