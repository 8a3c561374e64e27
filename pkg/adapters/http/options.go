package http

import (
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// DefaultGatherTimeout is the number of seconds Twilio listens for speech.
const DefaultGatherTimeout = 5

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithObserver reports request durations and limiter rejections.
func WithObserver(obs Observer) Option {
	return func(s *Server) {
		s.observer = obs
	}
}

// WithMetricsHandler mounts h on GET /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metricsHandler = h
	}
}

// WithSignatureValidation rejects voice webhooks whose signature does not match.
// publicURL is the base URL the provider was configured with.
func WithSignatureValidation(v SignatureValidator, publicURL string) Option {
	return func(s *Server) {
		s.validator = v
		s.publicURL = strings.TrimRight(publicURL, "/")
	}
}

// WithRateLimit bounds voice webhooks per call. A non-positive perSecond disables it.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(s *Server) {
		if perSecond <= 0 {
			s.limiter = nil
			return
		}
		s.limiter = newCallLimiter(perSecond, burst, defaultLimiterIdle, time.Now)
	}
}

// WithVoice sets the Say voice.
func WithVoice(voice string) Option {
	return func(s *Server) {
		if voice != "" {
			s.voice = voice
		}
	}
}

// WithGatherTimeout sets how many seconds each Gather listens.
func WithGatherTimeout(seconds int) Option {
	return func(s *Server) {
		if seconds > 0 {
			s.gatherTimeout = seconds
		}
	}
}

// WithSpeechTimeout sets the Gather speechTimeout attribute, e.g. "auto" or a
// number of seconds. Empty leaves Twilio's default.
func WithSpeechTimeout(timeout string) Option {
	return func(s *Server) {
		s.speechTimeout = timeout
	}
}

// WithLanguage sets the recognition language of each Gather, e.g. "en-US".
func WithLanguage(language string) Option {
	return func(s *Server) {
		s.language = language
	}
}

// WithMaxInputSize bounds the accepted speech result in bytes.
func WithMaxInputSize(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxInputSize = n
		}
	}
}

// WithBuildInfo overrides the version reported by GET /info.
func WithBuildInfo(version, commit string) Option {
	return func(s *Server) {
		s.version = version
		s.commit = commit
	}
}
