package cli_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/kasimali67/ai-call-agent/internal/cli"
	"github.com/kasimali67/ai-call-agent/internal/config"
	"github.com/kasimali67/ai-call-agent/internal/logging"
	"github.com/kasimali67/ai-call-agent/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{Twilio: config.TwilioConfig{AccountSID: "AC1", AuthToken: "tok"}}
	require.NoError(t, config.Normalize(cfg))
	return cfg
}

func post(h http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestNewHandler_WiresMetrics(t *testing.T) {
	cfg := testConfig(t)
	m := metrics.New(prometheus.NewRegistry())
	b, err := cli.OpenBackend(context.Background(), cfg.Session, logging.NewNop(), m)
	require.NoError(t, err)

	h := cli.NewHandler(cfg, b, logging.NewNop(), m)

	rec := post(h, "/incoming-call", url.Values{"CallSid": {"CA1"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `voice="alice"`)

	rec = post(h, "/gather-response", url.Values{"CallSid": {"CA1"}, "SpeechResult": {"Paris"}})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "callagent_calls_started_total 1")
	assert.Contains(t, body, `callagent_turns_total{from="ask_location",to="ask_dates"} 1`)
	assert.Contains(t, body, `callagent_store_operation_duration_seconds_count{op="save"}`)
}

func TestNewHandler_SignatureValidation(t *testing.T) {
	cfg := testConfig(t)
	cfg.Twilio.ValidateSignature = true
	cfg.HTTP.PublicURL = "https://voice.example.com"

	m := metrics.New(prometheus.NewRegistry())
	b, err := cli.OpenBackend(context.Background(), cfg.Session, logging.NewNop(), m)
	require.NoError(t, err)

	h := cli.NewHandler(cfg, b, logging.NewNop(), m)
	rec := post(h, "/incoming-call", url.Values{"CallSid": {"CA1"}})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
