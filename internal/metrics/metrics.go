// Package metrics exposes prometheus collectors for calls, turns and the session store.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/kasimali67/ai-call-agent/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "callagent"

// Metrics holds the service collectors, registered on a single registry.
type Metrics struct {
	registry *prometheus.Registry

	CallsStarted   prometheus.Counter
	CallsEnded     *prometheus.CounterVec
	Turns          *prometheus.CounterVec
	Bookings       prometheus.Counter
	Restarts       prometheus.Counter
	StoreDuration  *prometheus.HistogramVec
	StoreErrors    *prometheus.CounterVec
	SessionsPruned prometheus.Counter
	HTTPDuration   *prometheus.HistogramVec
	RateLimited    prometheus.Counter
}

// New creates the collectors and registers them on reg.
// A nil reg gets a fresh registry with the Go and process collectors.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	m := &Metrics{
		registry: reg,
		CallsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calls_started_total",
			Help:      "Total number of calls answered.",
		}),
		CallsEnded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calls_ended_total",
			Help:      "Total number of calls that reached a terminal status.",
		}, []string{"status"}),
		Turns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "turns_total",
			Help:      "Total number of utterances processed, by step transition.",
		}, []string{"from", "to"}),
		Bookings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_total",
			Help:      "Total number of confirmed bookings.",
		}),
		Restarts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "restarts_total",
			Help:      "Total number of declined confirmations.",
		}),
		StoreDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_operation_duration_seconds",
			Help:      "Duration of session store operations.",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"op"}),
		StoreErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_errors_total",
			Help:      "Total number of failed session store operations.",
		}, []string{"op"}),
		SessionsPruned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_pruned_total",
			Help:      "Total number of idle call records evicted.",
		}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of webhook requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "code"}),
		RateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Total number of webhook requests rejected by the per-call limiter.",
		}),
	}

	reg.MustRegister(
		m.CallsStarted, m.CallsEnded, m.Turns, m.Bookings, m.Restarts,
		m.StoreDuration, m.StoreErrors, m.SessionsPruned, m.HTTPDuration, m.RateLimited,
	)
	return m
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Hooks returns lifecycle hooks that record call and turn counters.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnCallStart: func(_ context.Context, _ *domain.CallEvent) {
			m.CallsStarted.Inc()
		},
		OnTurn: func(_ context.Context, e *domain.TurnEvent) {
			m.Turns.WithLabelValues(e.From.String(), e.To.String()).Inc()
		},
		OnBooked: func(_ context.Context, _ *domain.TurnEvent) {
			m.Bookings.Inc()
		},
		OnRestart: func(_ context.Context, _ *domain.TurnEvent) {
			m.Restarts.Inc()
		},
		OnCallEnd: func(_ context.Context, e *domain.CallEvent) {
			m.CallsEnded.WithLabelValues(e.Status).Inc()
		},
	}
}

// ObserveStoreOp records one session store operation.
func (m *Metrics) ObserveStoreOp(op string, elapsed time.Duration, err error) {
	m.StoreDuration.WithLabelValues(op).Observe(elapsed.Seconds())
	if err != nil {
		m.StoreErrors.WithLabelValues(op).Inc()
	}
}

// ObserveRequest records one webhook request.
func (m *Metrics) ObserveRequest(route string, code int, elapsed time.Duration) {
	m.HTTPDuration.WithLabelValues(route, strconv.Itoa(code)).Observe(elapsed.Seconds())
}

// ObserveRateLimited counts a rejected request.
func (m *Metrics) ObserveRateLimited() {
	m.RateLimited.Inc()
}

// ObservePruned adds n evicted records.
func (m *Metrics) ObservePruned(n int) {
	m.SessionsPruned.Add(float64(n))
}
