// Package mcp exposes assessment sessions as Model Context Protocol tools so
// an assistant can walk a respondent through the questionnaire.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/maturity"
	"github.com/aretw0/maturity/internal/logging"
	"github.com/aretw0/maturity/internal/presentation/graph"
	"github.com/aretw0/maturity/pkg/domain"
	"github.com/aretw0/maturity/pkg/ports"
	"github.com/aretw0/maturity/pkg/report"
	"github.com/aretw0/maturity/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	questionnaireURI = "maturity://questionnaire"
	graphURI         = "maturity://graph"
)

// SessionResponse aligns with the HTTP API and provides a unified structure across adapters.
type SessionResponse struct {
	State   *domain.State `json:"state" jsonschema_description:"The raw session state"`
	View    *domain.View  `json:"view" jsonschema_description:"The current question and available options"`
	AtStart bool          `json:"at_start,omitempty" jsonschema_description:"Set by go_back when already on the entry question"`
}

type startArgs struct {
	SessionID string `json:"session_id,omitempty"`
}

type sessionArgs struct {
	SessionID string `json:"session_id"`
}

type answerArgs struct {
	SessionID  string `json:"session_id"`
	QuestionID string `json:"question_id"`
	OptionID   string `json:"option_id"`
}

// Engine defines the interface required by the MCP server.
type Engine interface {
	ports.Navigator
	Restart(ctx context.Context, state *domain.State) (*domain.State, error)
}

// Server wraps the engine and exposes it as an MCP Server.
type Server struct {
	engine    Engine
	sessions  *session.Manager
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// Option configures the server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance keeping sessions in store.
func NewServer(engine Engine, store ports.StateStore, opts ...Option) *Server {
	s := &Server{
		engine: engine,
		logger: logging.NewNop(),
		mcpServer: server.NewMCPServer("maturity-mcp", maturity.Version,
			server.WithToolCapabilities(false),
			server.WithResourceCapabilities(false, false),
		),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.sessions = session.NewManager(store, session.WithLogger(s.logger))
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	sessionID := mcp.WithString("session_id", mcp.Required(), mcp.Description("Session identifier returned by start_session"))

	s.mcpServer.AddTool(mcp.NewTool("start_session",
		mcp.WithDescription("Start an assessment session positioned on the entry question."),
		mcp.WithString("session_id", mcp.Description("Optional identifier; generated when omitted")),
		mcp.WithOutputSchema[SessionResponse](),
	), mcp.NewStructuredToolHandler(s.handleStart))

	s.mcpServer.AddTool(mcp.NewTool("answer_question",
		mcp.WithDescription("Select an option for the current question."),
		sessionID,
		mcp.WithString("question_id", mcp.Required(), mcp.Description("Must be the current question")),
		mcp.WithString("option_id", mcp.Required(), mcp.Description("One of the question's option ids")),
		mcp.WithOutputSchema[SessionResponse](),
	), mcp.NewStructuredToolHandler(s.handleAnswer))

	s.mcpServer.AddTool(mcp.NewTool("advance",
		mcp.WithDescription("Move past the answered current question. A terminal option completes the session."),
		sessionID,
		mcp.WithOutputSchema[SessionResponse](),
	), mcp.NewStructuredToolHandler(s.step(s.engine.Advance)))

	s.mcpServer.AddTool(mcp.NewTool("go_back",
		mcp.WithDescription("Return to the previous question, discarding the current answer."),
		sessionID,
		mcp.WithOutputSchema[SessionResponse](),
	), mcp.NewStructuredToolHandler(s.handleBack))

	s.mcpServer.AddTool(mcp.NewTool("restart_session",
		mcp.WithDescription("Discard every answer and return to the entry question."),
		sessionID,
		mcp.WithOutputSchema[SessionResponse](),
	), mcp.NewStructuredToolHandler(s.step(s.engine.Restart)))

	s.mcpServer.AddTool(mcp.NewTool("view_session",
		mcp.WithDescription("Render the current question of a session."),
		sessionID,
		mcp.WithOutputSchema[SessionResponse](),
	), mcp.NewStructuredToolHandler(s.handleView))

	s.mcpServer.AddTool(mcp.NewTool("get_results",
		mcp.WithDescription("Score the answers of a session: pillar levels, global level, reliability and recommendations."),
		sessionID,
		mcp.WithString("format", mcp.Enum("json", "text", "markdown"), mcp.Description("Output format (default json)")),
	), s.handleResults)

	s.mcpServer.AddTool(mcp.NewTool("get_questionnaire",
		mcp.WithDescription("Get the full questionnaire definition for introspection."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		q, err := s.engine.Inspect()
		if err != nil {
			return mcp.NewToolResultErrorFromErr("inspect failed", err), nil
		}
		return mcp.NewToolResultJSON(q)
	})
}

func (s *Server) respond(ctx context.Context, state *domain.State) (SessionResponse, error) {
	view, err := s.engine.View(ctx, state)
	if err != nil {
		return SessionResponse{}, err
	}
	return SessionResponse{State: state, View: view}, nil
}

func (s *Server) handleStart(ctx context.Context, _ mcp.CallToolRequest, args startArgs) (SessionResponse, error) {
	state, err := s.engine.Start(ctx, args.SessionID)
	if err != nil {
		return SessionResponse{}, err
	}
	if err := s.sessions.Create(ctx, state); err != nil {
		return SessionResponse{}, err
	}
	s.logger.Debug("MCP: session started", "session_id", state.SessionID)
	return s.respond(ctx, state)
}

func (s *Server) handleAnswer(ctx context.Context, _ mcp.CallToolRequest, args answerArgs) (SessionResponse, error) {
	next, err := s.sessions.Update(ctx, args.SessionID, func(state *domain.State) (*domain.State, error) {
		return s.engine.RecordAnswer(ctx, state, domain.QuestionID(args.QuestionID), domain.OptionID(args.OptionID))
	})
	if err != nil {
		s.logger.Warn("MCP: answer rejected", "session_id", args.SessionID, "err", err)
		return SessionResponse{}, err
	}
	return s.respond(ctx, next)
}

func (s *Server) step(fn func(context.Context, *domain.State) (*domain.State, error)) mcp.StructuredToolHandlerFunc[sessionArgs, SessionResponse] {
	return func(ctx context.Context, _ mcp.CallToolRequest, args sessionArgs) (SessionResponse, error) {
		next, err := s.sessions.Update(ctx, args.SessionID, func(state *domain.State) (*domain.State, error) {
			return fn(ctx, state)
		})
		if err != nil {
			return SessionResponse{}, err
		}
		return s.respond(ctx, next)
	}
}

func (s *Server) handleBack(ctx context.Context, _ mcp.CallToolRequest, args sessionArgs) (SessionResponse, error) {
	var atStart bool
	next, err := s.sessions.Update(ctx, args.SessionID, func(state *domain.State) (*domain.State, error) {
		next, start, err := s.engine.GoBack(ctx, state)
		atStart = start
		return next, err
	})
	if err != nil {
		return SessionResponse{}, err
	}
	resp, err := s.respond(ctx, next)
	resp.AtStart = atStart
	return resp, err
}

func (s *Server) handleView(ctx context.Context, _ mcp.CallToolRequest, args sessionArgs) (SessionResponse, error) {
	state, err := s.sessions.Load(ctx, args.SessionID)
	if err != nil {
		return SessionResponse{}, err
	}
	return s.respond(ctx, state)
}

func (s *Server) handleResults(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	state, err := s.sessions.Load(ctx, id)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("load failed", err), nil
	}
	results, err := s.engine.Results(ctx, state)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("scoring failed", err), nil
	}

	opts := report.Options{GeneratedAt: time.Now()}
	if q, err := s.engine.Inspect(); err == nil {
		opts.Title = q.Metadata.Title
	}

	switch format := request.GetString("format", "json"); format {
	case "text":
		return mcp.NewToolResultText(report.Text(results, opts)), nil
	case "markdown":
		return mcp.NewToolResultText(report.Markdown(results, opts)), nil
	case "json":
		return mcp.NewToolResultJSON(results)
	default:
		return mcp.NewToolResultErrorf("unsupported format %q", format), nil
	}
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(questionnaireURI, "Current Questionnaire",
		mcp.WithResourceDescription("Pillars, questions and scoring rules of the loaded questionnaire"),
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		q, err := s.engine.Inspect()
		if err != nil {
			return nil, fmt.Errorf("failed to inspect questionnaire: %w", err)
		}
		jsonBytes, err := json.Marshal(q)
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      questionnaireURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})

	s.mcpServer.AddResource(mcp.NewResource(graphURI, "Questionnaire Flowchart",
		mcp.WithResourceDescription("Mermaid flowchart of the question branches"),
		mcp.WithMIMEType("text/vnd.mermaid"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		q, err := s.engine.Inspect()
		if err != nil {
			return nil, fmt.Errorf("failed to inspect questionnaire: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      graphURI,
				MIMEType: "text/vnd.mermaid",
				Text:     graph.GenerateMermaid(q, nil),
			},
		}, nil
	})
}
