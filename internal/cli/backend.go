package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kasimali67/ai-call-agent/internal/config"
	"github.com/kasimali67/ai-call-agent/internal/logging"
	"github.com/kasimali67/ai-call-agent/pkg/adapters/memory"
	"github.com/kasimali67/ai-call-agent/pkg/adapters/redis"
	"github.com/kasimali67/ai-call-agent/pkg/persistence/middleware"
	"github.com/kasimali67/ai-call-agent/pkg/ports"
	"github.com/kasimali67/ai-call-agent/pkg/session"
)

// Backend bundles the call store selected by configuration and its session manager.
type Backend struct {
	// Store is the decorated store: instrumentation, then encryption, then the backend.
	Store    ports.CallStore
	Sessions *session.Manager

	memory *memory.Store
	redis  *redis.Store
}

// OpenBackend builds the store described by cfg. obs may be nil.
// A redis backend is pinged before it is returned and gets a distributed locker.
func OpenBackend(ctx context.Context, cfg config.SessionConfig, logger *slog.Logger, obs middleware.Observer) (*Backend, error) {
	b := &Backend{}
	var (
		base ports.CallStore
		opts []session.Option
	)

	switch cfg.Backend {
	case config.BackendRedis:
		rs := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB,
			redis.WithTTL(cfg.TTL),
			redis.WithPrefix(cfg.RedisPrefix),
		)
		if err := rs.Ping(ctx); err != nil {
			_ = rs.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		b.redis = rs
		base = rs
		opts = append(opts, session.WithLocker(redis.NewLocker(rs.Client(), "")))
	case config.BackendMemory, "":
		b.memory = memory.NewStore(memory.WithTTL(cfg.TTL))
		base = b.memory
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.Backend)
	}

	var mws []middleware.Middleware
	if obs != nil {
		mws = append(mws, middleware.NewInstrumentMiddleware(obs))
	}
	if cfg.Encrypted() {
		active, fallback, err := cfg.Keys()
		if err != nil {
			b.Close()
			return nil, err
		}
		enc, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
			ActiveKey:    active,
			FallbackKeys: fallback,
		})
		if err != nil {
			b.Close()
			return nil, err
		}
		mws = append(mws, enc)
	}

	b.Store = middleware.Chain(base, mws...)
	opts = append(opts, session.WithLogger(logging.Component(logger, "session")))
	b.Sessions = session.NewManager(b.Store, opts...)
	return b, nil
}

// Janitor evicts idle records of the memory backend every interval until ctx is done.
// Redis expires records itself, so this is a no-op there.
func (b *Backend) Janitor(ctx context.Context, interval time.Duration, onPrune func(int)) {
	if b.memory == nil {
		return
	}
	b.memory.Janitor(ctx, interval, onPrune)
}

// Close releases the backend connection.
func (b *Backend) Close() {
	if b.redis != nil {
		_ = b.redis.Close()
	}
}
