// Package http exposes assessment sessions over a REST API with server-sent
// state diffs, described by an embedded OpenAPI document.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/maturity"
	"github.com/aretw0/maturity/internal/logging"
	"github.com/aretw0/maturity/internal/presentation/graph"
	"github.com/aretw0/maturity/pkg/domain"
	"github.com/aretw0/maturity/pkg/ports"
	"github.com/aretw0/maturity/pkg/report"
	"github.com/aretw0/maturity/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Engine is the navigator surface the server drives.
type Engine interface {
	ports.Navigator
	Restart(ctx context.Context, state *domain.State) (*domain.State, error)
	Watch(ctx context.Context) (<-chan struct{}, error)
}

// Server implements ServerInterface.
type Server struct {
	Engine   Engine
	Sessions *session.Manager
	Streams  *StreamManager
	logger   *slog.Logger
	now      func() time.Time
}

var _ ServerInterface = (*Server)(nil)

type config struct {
	logger         *slog.Logger
	gatherer       prometheus.Gatherer
	sessionOptions []session.Option
}

// Option configures the handler.
type Option func(*config)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithMetrics serves gatherer on /metrics.
func WithMetrics(gatherer prometheus.Gatherer) Option {
	return func(c *config) {
		c.gatherer = gatherer
	}
}

// WithSessionOptions forwards options (locker, lock TTL) to the session manager.
func WithSessionOptions(opts ...session.Option) Option {
	return func(c *config) {
		c.sessionOptions = append(c.sessionOptions, opts...)
	}
}

// NewServer wires a session manager over store whose changes are streamed as diffs.
func NewServer(engine Engine, store ports.StateStore, opts ...Option) *Server {
	cfg := config{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return newServer(engine, store, cfg)
}

func newServer(engine Engine, store ports.StateStore, cfg config) *Server {
	s := &Server{
		Engine:  engine,
		Streams: NewStreamManager(cfg.logger),
		logger:  cfg.logger,
		now:     time.Now,
	}
	sessionOpts := append([]session.Option{
		session.WithLogger(cfg.logger),
		session.WithChangeHook(s.broadcast),
	}, cfg.sessionOptions...)
	s.Sessions = session.NewManager(store, sessionOpts...)
	return s
}

// NewHandler creates the HTTP handler for the engine, backed by store.
func NewHandler(engine Engine, store ports.StateStore, opts ...Option) (http.Handler, error) {
	cfg := config{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}
	server := newServer(engine, store, cfg)

	doc, err := GetSwagger()
	if err != nil {
		return nil, err
	}
	validate, err := requestValidator(doc, func(w http.ResponseWriter, r *http.Request, status int, err error) {
		server.logger.Warn("request rejected", "method", r.Method, "path", r.URL.Path, "err", err)
		writeJSON(w, status, ErrorResponse{Error: err.Error()})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build request validator: %w", err)
	}

	r := chi.NewRouter()
	r.Use(enableCORS)
	r.Use(validate)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		spec, _ := rawSpec()
		w.Header().Set("Content-Type", "text/yaml")
		_, _ = w.Write(spec)
	})
	if cfg.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.gatherer, promhttp.HandlerOpts{}))
	}

	return HandlerFromMux(server, r, func(w http.ResponseWriter, _ *http.Request, err error) {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}), nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// broadcast streams the diff of a committed session change.
func (s *Server) broadcast(_ context.Context, old, new *domain.State) {
	if new == nil {
		if old != nil {
			s.Streams.Broadcast(old.SessionID, fmt.Sprintf(`{"session_id":%q,"deleted":true}`, old.SessionID))
		}
		return
	}
	diff := domain.Diff(old, new)
	if diff == nil || diff.IsEmpty() {
		return
	}
	bytes, err := json.Marshal(diff)
	if err != nil {
		s.logger.Error("diff encode failed", "session_id", new.SessionID, "err", err)
		return
	}
	s.Streams.Broadcast(new.SessionID, string(bytes))
}

// -- Helpers --

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnknownQuestion), errors.Is(err, domain.ErrUnknownOption):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotCurrentQuestion),
		errors.Is(err, domain.ErrNoAnswer),
		errors.Is(err, domain.ErrSessionCompleted):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

func (s *Server) respond(w http.ResponseWriter, r *http.Request, status int, state *domain.State, atStart *bool) {
	view, err := s.Engine.View(r.Context(), state)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, status, SessionResponse{State: state, View: view, AtStart: atStart})
}

// -- Handlers --

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if swagger, err := GetSwagger(); err == nil && swagger.Info != nil {
		apiVersion = swagger.Info.Version
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"app":         "maturity-http",
		"version":     maturity.Version,
		"api_version": apiVersion,
	})
}

// GetQuestionnaire handles the GET /questionnaire request.
func (s *Server) GetQuestionnaire(w http.ResponseWriter, r *http.Request) {
	q, err := s.Engine.Inspect()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

// GetQuestionnaireGraph handles the GET /questionnaire/graph request.
func (s *Server) GetQuestionnaireGraph(w http.ResponseWriter, r *http.Request) {
	s.writeGraph(w, r, nil)
}

// GetSessionGraph handles the GET /sessions/{sessionId}/graph request.
func (s *Server) GetSessionGraph(w http.ResponseWriter, r *http.Request, sessionId string) {
	state, err := s.Sessions.Load(r.Context(), sessionId)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeGraph(w, r, graph.OverlayFromState(state))
}

func (s *Server) writeGraph(w http.ResponseWriter, r *http.Request, overlay *graph.GraphOverlay) {
	q, err := s.Engine.Inspect()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(graph.GenerateMermaid(q, overlay)))
}

// ListSessions handles the GET /sessions request.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Sessions.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, ids)
}

// CreateSession handles the POST /sessions request.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	var body CreateSessionRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
			return
		}
	}
	id := ""
	if body.SessionID != nil {
		id = *body.SessionID
	}

	state, err := s.Engine.Start(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.Sessions.Create(r.Context(), state); err != nil {
		writeJSON(w, http.StatusConflict, ErrorResponse{Error: err.Error()})
		return
	}
	s.respond(w, r, http.StatusCreated, state, nil)
}

// GetSession handles the GET /sessions/{sessionId} request.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request, sessionId string) {
	state, err := s.Sessions.Load(r.Context(), sessionId)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, state, nil)
}

// DeleteSession handles the DELETE /sessions/{sessionId} request.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request, sessionId string) {
	if err := s.Sessions.Delete(r.Context(), sessionId); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RecordAnswer handles the POST /sessions/{sessionId}/answer request.
func (s *Server) RecordAnswer(w http.ResponseWriter, r *http.Request, sessionId string) {
	var body AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	s.update(w, r, sessionId, func(state *domain.State) (*domain.State, error) {
		return s.Engine.RecordAnswer(r.Context(), state, domain.QuestionID(body.QuestionID), domain.OptionID(body.OptionID))
	})
}

// Advance handles the POST /sessions/{sessionId}/advance request.
func (s *Server) Advance(w http.ResponseWriter, r *http.Request, sessionId string) {
	s.update(w, r, sessionId, func(state *domain.State) (*domain.State, error) {
		return s.Engine.Advance(r.Context(), state)
	})
}

// GoBack handles the POST /sessions/{sessionId}/back request.
func (s *Server) GoBack(w http.ResponseWriter, r *http.Request, sessionId string) {
	var atStart bool
	next, err := s.Sessions.Update(r.Context(), sessionId, func(state *domain.State) (*domain.State, error) {
		next, start, err := s.Engine.GoBack(r.Context(), state)
		atStart = start
		return next, err
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, next, &atStart)
}

// Restart handles the POST /sessions/{sessionId}/restart request.
func (s *Server) Restart(w http.ResponseWriter, r *http.Request, sessionId string) {
	s.update(w, r, sessionId, func(state *domain.State) (*domain.State, error) {
		return s.Engine.Restart(r.Context(), state)
	})
}

func (s *Server) update(w http.ResponseWriter, r *http.Request, sessionId string, fn func(*domain.State) (*domain.State, error)) {
	next, err := s.Sessions.Update(r.Context(), sessionId, fn)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, next, nil)
}

// GetResults handles the GET /sessions/{sessionId}/results request.
func (s *Server) GetResults(w http.ResponseWriter, r *http.Request, sessionId string, params GetResultsParams) {
	state, err := s.Sessions.Load(r.Context(), sessionId)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	results, err := s.Engine.Results(r.Context(), state)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	format := "json"
	if params.Format != nil {
		format = *params.Format
	}
	opts := report.Options{GeneratedAt: s.now()}
	if q, err := s.Engine.Inspect(); err == nil {
		opts.Title = q.Metadata.Title
	}

	switch format {
	case "text":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_ = report.WriteText(w, results, opts)
	case "markdown":
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		_, _ = w.Write([]byte(report.Markdown(results, opts)))
	default:
		writeJSON(w, http.StatusOK, results)
	}
}

// SubscribeEvents handles the GET /events request (SSE).
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request, params SubscribeEventsParams) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "streaming not supported"})
		return
	}

	// Global Hot Reload (No Session)
	if params.SessionId == nil {
		events, err := s.Engine.Watch(r.Context())
		if err != nil {
			writeJSON(w, http.StatusNotImplemented, ErrorResponse{Error: err.Error()})
			return
		}
		startStream(w, flusher)
		for {
			select {
			case <-r.Context().Done():
				return
			case _, ok := <-events:
				if !ok {
					return
				}
				fmt.Fprintf(w, "event: reload\ndata: reload\n\n")
				flusher.Flush()
			}
		}
	}

	// Session-based Subscription (State Diff)
	sessionID := *params.SessionId
	ch, cancel := s.Streams.Subscribe(sessionID)
	defer cancel()

	startStream(w, flusher)
	s.logger.Debug("SSE: subscribed", "session_id", sessionID)

	var watch []string
	if params.Watch != nil {
		for _, field := range strings.Split(*params.Watch, ",") {
			if field = strings.TrimSpace(field); field != "" {
				watch = append(watch, field)
			}
		}
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if len(watch) > 0 && !matches(msg, watch) {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func startStream(w http.ResponseWriter, flusher http.Flusher) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()
}

// matches reports whether a diff message touches one of the watched fields.
// Messages that are not diffs (deletions) always pass.
func matches(msg string, watch []string) bool {
	var diff domain.StateDiff
	if err := json.Unmarshal([]byte(msg), &diff); err != nil || diff.IsEmpty() {
		return true
	}
	for _, field := range watch {
		switch field {
		case "current":
			if diff.CurrentQuestionID != nil {
				return true
			}
		case "status":
			if diff.Status != nil {
				return true
			}
		case "answers":
			if len(diff.Answers) > 0 {
				return true
			}
		case "history":
			if diff.History != nil {
				return true
			}
		}
	}
	return false
}
