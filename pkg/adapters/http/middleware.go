package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/kasimali67/ai-call-agent/internal/twilio"
)

// logRequests logs each request once it completes and reports it to the observer.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		elapsed := time.Since(start)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}

		s.logger.Info("request",
			"method", r.Method,
			"route", route,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", elapsed,
			"remote", r.RemoteAddr,
			"request_id", middleware.GetReqID(r.Context()),
		)
		if s.observer != nil {
			s.observer.ObserveRequest(route, status, elapsed)
		}
	})
}

// rateLimit holds back webhooks arriving faster than the per-call budget.
// Requests without a CallSid share a budget per remote address.
// A throttled call webhook still gets TwiML so the call stays up; the
// status callback gets 429.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := s.form(r).Get("CallSid")
		if key == "" {
			key = "addr:" + r.RemoteAddr
		}

		if !s.limiter.Allow(key) {
			s.logger.Warn("rate limited", "key", key, "path", r.URL.Path)
			if s.observer != nil {
				s.observer.ObserveRateLimited()
			}
			if r.URL.Path == PathCallStatus {
				w.Header().Set("Retry-After", "1")
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}
			s.apologize(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// verifySignature rejects webhooks not signed with the account's auth token.
func (s *Server) verifySignature(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.form(r)

		params := r.PostForm
		if r.Method != http.MethodPost {
			params = nil
		}
		fullURL := s.publicURL + r.URL.RequestURI()

		if !s.validator.Validate(fullURL, params, r.Header.Get(twilio.SignatureHeader)) {
			s.logger.Warn("invalid webhook signature", "path", r.URL.Path, "remote", r.RemoteAddr)
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
