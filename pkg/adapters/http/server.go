package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	callagent "github.com/kasimali67/ai-call-agent"
	"github.com/kasimali67/ai-call-agent/internal/buildinfo"
	"github.com/kasimali67/ai-call-agent/internal/logging"
	"github.com/kasimali67/ai-call-agent/pkg/dialogue"
	"github.com/kasimali67/ai-call-agent/pkg/domain"
	"github.com/kasimali67/ai-call-agent/pkg/twiml"
)

// Webhook paths registered with Twilio.
const (
	PathIncomingCall   = "/incoming-call"
	PathGatherResponse = "/gather-response"
	PathCallStatus     = "/call-status"
)

// IndexMessage is returned by GET /.
const IndexMessage = "AI Voice Assistant with conversation flow is running!"

// Agent is the call controller the webhooks drive.
type Agent interface {
	StartCall(ctx context.Context, callID string) (domain.ConversationState, error)
	Respond(ctx context.Context, callID, utterance string) (callagent.Turn, error)
	EndCall(ctx context.Context, callID, status string) error
}

// Observer receives request and limiter outcomes, typically for metrics.
type Observer interface {
	ObserveRequest(route string, code int, elapsed time.Duration)
	ObserveRateLimited()
}

// SignatureValidator checks the provider signature of a webhook.
type SignatureValidator interface {
	Validate(fullURL string, params url.Values, signature string) bool
}

// Server serves the voice webhooks and the operational endpoints.
type Server struct {
	agent          Agent
	logger         *slog.Logger
	observer       Observer
	metricsHandler http.Handler
	validator      SignatureValidator
	publicURL      string
	limiter        *callLimiter
	voice          string
	gatherTimeout  int
	speechTimeout  string
	language       string
	maxInputSize   int
	version        string
	commit         string
}

// NewServer creates a Server for agent.
func NewServer(agent Agent, opts ...Option) *Server {
	s := &Server{
		agent:         agent,
		logger:        logging.NewNop(),
		voice:         twiml.VoiceAlice,
		gatherTimeout: DefaultGatherTimeout,
		maxInputSize:  DefaultMaxInputSize,
		version:       buildinfo.Version,
		commit:        buildinfo.Commit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewHandler creates the HTTP handler for agent.
func NewHandler(agent Agent, opts ...Option) http.Handler {
	return NewServer(agent, opts...).Routes()
}

// Routes builds the chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/", s.GetIndex)
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	if s.metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", s.metricsHandler)
	}

	r.Group(func(r chi.Router) {
		if s.limiter != nil {
			r.Use(s.rateLimit)
		}
		if s.validator != nil {
			r.Use(s.verifySignature)
		}
		r.Get(PathIncomingCall, s.IncomingCall)
		r.Post(PathIncomingCall, s.IncomingCall)
		r.Post(PathGatherResponse, s.GatherResponse)
		r.Post(PathCallStatus, s.CallStatus)
	})

	return r
}

// GetIndex handles GET /.
func (s *Server) GetIndex(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{"message": IndexMessage})
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{
		"app":     buildinfo.AppName,
		"version": s.version,
		"commit":  s.commit,
	})
}

// IncomingCall answers a new call: greet, ask for the location, listen.
func (s *Server) IncomingCall(w http.ResponseWriter, r *http.Request) {
	form := s.form(r)
	callID := form.Get("CallSid")

	// The record is created again on the first answer if this fails.
	if _, err := s.agent.StartCall(r.Context(), callID); err != nil {
		s.logger.Error("failed to start call", "call_sid", callID, "err", err)
	}

	resp := twiml.NewResponse().
		Say(dialogue.Greeting, s.voice).
		Gather(s.gather().Say(dialogue.PromptLocation, s.voice)).
		Say(dialogue.NoInput, s.voice)
	s.writeTwiML(w, resp)
}

// GatherResponse advances the call's script with the recognized speech.
func (s *Server) GatherResponse(w http.ResponseWriter, r *http.Request) {
	form := s.form(r)
	callID := form.Get("CallSid")

	utterance, err := SanitizeInput(form.Get("SpeechResult"), s.maxInputSize)
	if err != nil {
		s.logger.Warn("speech result rejected", "call_sid", callID, "err", err, "size", len(form.Get("SpeechResult")))
		utterance = ""
	}

	turn, err := s.agent.Respond(r.Context(), callID, utterance)
	if err != nil {
		s.logger.Error("failed to process speech", "call_sid", callID, "err", err)
		s.apologize(w)
		return
	}

	resp := twiml.NewResponse().Say(turn.Prompt, s.voice)
	if turn.Done() {
		resp.Say(dialogue.Goodbye, s.voice).Hangup()
	} else {
		resp.Gather(s.gather().Say(dialogue.FollowUp(turn.State.Step), s.voice))
	}
	s.writeTwiML(w, resp)
}

// CallStatus receives status callbacks and evicts finished calls.
func (s *Server) CallStatus(w http.ResponseWriter, r *http.Request) {
	form := s.form(r)
	callID := form.Get("CallSid")
	status := form.Get("CallStatus")

	if err := s.agent.EndCall(r.Context(), callID, status); err != nil {
		s.logger.Error("failed to end call", "call_sid", callID, "status", status, "err", err)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) gather() *twiml.GatherElement {
	return &twiml.GatherElement{
		Input:         twiml.InputSpeech,
		Action:        PathGatherResponse,
		Timeout:       s.gatherTimeout,
		SpeechTimeout: s.speechTimeout,
		Language:      s.language,
	}
}

// apologize asks the caller to repeat without touching the call's record.
func (s *Server) apologize(w http.ResponseWriter) {
	resp := twiml.NewResponse().
		Say(dialogue.ReplyNotUnderstood, s.voice).
		Gather(s.gather().Say(dialogue.FollowUpContinue, s.voice))
	s.writeTwiML(w, resp)
}

// form parses the request form. A malformed body is logged and yields no fields.
func (s *Server) form(r *http.Request) url.Values {
	if err := r.ParseForm(); err != nil {
		s.logger.Warn("failed to parse form", "path", r.URL.Path, "err", err, "request_id", middleware.GetReqID(r.Context()))
		return url.Values{}
	}
	return r.Form
}

func (s *Server) writeTwiML(w http.ResponseWriter, resp *twiml.Response) {
	body, err := resp.Render()
	if err != nil {
		http.Error(w, "failed to render response", http.StatusInternalServerError)
		s.logger.Error("failed to render twiml", "err", err)
		return
	}
	w.Header().Set("Content-Type", twiml.ContentType)
	if _, err := w.Write([]byte(body)); err != nil {
		s.logger.Debug("twiml write failed", "err", err)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}
