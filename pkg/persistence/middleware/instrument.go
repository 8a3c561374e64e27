package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/kasimali67/ai-call-agent/pkg/domain"
	"github.com/kasimali67/ai-call-agent/pkg/ports"
)

// Store operation names reported to an Observer.
const (
	OpSave   = "save"
	OpLoad   = "load"
	OpDelete = "delete"
	OpList   = "list"
)

// Observer receives the outcome of every store operation.
// A miss on Load (domain.ErrSessionNotFound) is reported with a nil error.
type Observer interface {
	ObserveStoreOp(op string, elapsed time.Duration, err error)
}

type instrumentMiddleware struct {
	next ports.CallStore
	obs  Observer
	now  func() time.Time
}

// NewInstrumentMiddleware reports the latency and errors of each operation to obs.
func NewInstrumentMiddleware(obs Observer) Middleware {
	return func(next ports.CallStore) ports.CallStore {
		return &instrumentMiddleware{next: next, obs: obs, now: time.Now}
	}
}

func (m *instrumentMiddleware) observe(op string, start time.Time, err error) {
	if errors.Is(err, domain.ErrSessionNotFound) {
		err = nil
	}
	m.obs.ObserveStoreOp(op, m.now().Sub(start), err)
}

func (m *instrumentMiddleware) Save(ctx context.Context, callID string, state domain.ConversationState) error {
	start := m.now()
	err := m.next.Save(ctx, callID, state)
	m.observe(OpSave, start, err)
	return err
}

func (m *instrumentMiddleware) Load(ctx context.Context, callID string) (domain.ConversationState, error) {
	start := m.now()
	state, err := m.next.Load(ctx, callID)
	m.observe(OpLoad, start, err)
	return state, err
}

func (m *instrumentMiddleware) Delete(ctx context.Context, callID string) error {
	start := m.now()
	err := m.next.Delete(ctx, callID)
	m.observe(OpDelete, start, err)
	return err
}

func (m *instrumentMiddleware) List(ctx context.Context) ([]string, error) {
	start := m.now()
	ids, err := m.next.List(ctx)
	m.observe(OpList, start, err)
	return ids, err
}
