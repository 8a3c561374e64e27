package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	callagent "github.com/kasimali67/ai-call-agent"
	"github.com/kasimali67/ai-call-agent/internal/config"
	"github.com/kasimali67/ai-call-agent/internal/logging"
	"github.com/kasimali67/ai-call-agent/internal/metrics"
	"github.com/kasimali67/ai-call-agent/internal/twilio"
	httpadapter "github.com/kasimali67/ai-call-agent/pkg/adapters/http"
)

// NewHandler wires the agent and the webhook routes described by cfg.
func NewHandler(cfg *config.Config, backend *Backend, logger *slog.Logger, m *metrics.Metrics) http.Handler {
	hooks := m.Hooks()
	if logger.Enabled(context.Background(), slog.LevelDebug) {
		hooks = hooks.Merge(createDebugHooks(logging.Component(logger, "hooks")))
	}

	agent := callagent.New(backend.Sessions,
		callagent.WithLogger(logging.Component(logger, "agent")),
		callagent.WithLifecycleHooks(hooks),
	)

	opts := []httpadapter.Option{
		httpadapter.WithLogger(logging.Component(logger, "http")),
		httpadapter.WithObserver(m),
		httpadapter.WithMetricsHandler(m.Handler()),
		httpadapter.WithVoice(cfg.Twilio.Voice),
		httpadapter.WithGatherTimeout(cfg.Twilio.GatherTimeout),
		httpadapter.WithSpeechTimeout(cfg.Twilio.SpeechTimeout),
		httpadapter.WithLanguage(cfg.Twilio.Language),
		httpadapter.WithRateLimit(cfg.RateLimit.PerSecond, cfg.RateLimit.Burst),
	}
	if cfg.Twilio.ValidateSignature {
		opts = append(opts, httpadapter.WithSignatureValidation(
			twilio.NewRequestValidator(cfg.Twilio.AuthToken),
			cfg.HTTP.PublicURL,
		))
	}
	return httpadapter.NewHandler(agent, opts...)
}

// Serve runs the webhook server until ctx is cancelled, then shuts it down gracefully.
func Serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	m := metrics.New(nil)

	backend, err := OpenBackend(ctx, cfg.Session, logger, m)
	if err != nil {
		return err
	}
	defer backend.Close()

	janitorCtx, stopJanitor := context.WithCancel(ctx)
	defer stopJanitor()
	go backend.Janitor(janitorCtx, cfg.Session.PruneInterval, func(n int) {
		m.ObservePruned(n)
		if n > 0 {
			logger.Info("pruned idle calls", "count", n)
		}
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           NewHandler(cfg, backend, logger, m),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server",
			"addr", srv.Addr,
			"backend", cfg.Session.Backend,
			"session_ttl", cfg.Session.TTL,
			"signature_validation", cfg.Twilio.ValidateSignature,
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		logger.Info("start shutdown")

		// Give outstanding requests a deadline for completion.
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.HTTP.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("graceful shutdown did not complete", "timeout", cfg.HTTP.ShutdownTimeout, "err", err)
			if err := srv.Close(); err != nil {
				return fmt.Errorf("failed to close server: %w", err)
			}
		}
		logger.Info("server stopped gracefully")
		return nil
	}
}
