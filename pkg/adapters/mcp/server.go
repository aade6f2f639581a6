// Package mcp exposes the catalog and runner sessions as Model Context Protocol tools.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/roomread/internal/logging"
	"github.com/aretw0/roomread/internal/runtime"
	"github.com/aretw0/roomread/pkg/catalog"
	"github.com/aretw0/roomread/pkg/domain"
	"github.com/aretw0/roomread/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mitchellh/mapstructure"
)

// CatalogURI is the resource holding countries, categories and tiers.
const CatalogURI = "roomread://catalog"

// SessionResponse aligns with the HTTP session payload.
type SessionResponse struct {
	runtime.View
	Outcome *runtime.Outcome `json:"outcome,omitempty" jsonschema_description:"Result of the last selection"`
}

// CatalogResponse lists everything a session can be started for.
type CatalogResponse struct {
	Countries  []catalog.Country  `json:"countries"`
	Categories []catalog.Category `json:"categories"`
	Tiers      []catalog.Tier     `json:"tiers"`
}

type startArgs struct {
	Country   string `mapstructure:"country"`
	Category  string `mapstructure:"category"`
	Mode      string `mapstructure:"mode"`
	Tier      string `mapstructure:"tier"`
	Completed string `mapstructure:"completed"`
}

type selectArgs struct {
	SessionID string `mapstructure:"session_id"`
	Option    *int   `mapstructure:"option"`
}

type sessionArgs struct {
	SessionID string `mapstructure:"session_id"`
}

// Server exposes a session manager as an MCP server.
type Server struct {
	sessions  *session.Manager
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(sessions *session.Manager, version string, opts ...Option) *Server {
	s := &Server{
		sessions:  sessions,
		mcpServer: server.NewMCPServer("roomread-mcp", version),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
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

// ServeSSE serves the SSE transport on addr until ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

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
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_countries",
		mcp.WithDescription("List the countries, categories and lesson tiers with published content."),
		mcp.WithOutputSchema[CatalogResponse](),
	), mcp.NewStructuredToolHandler(s.handleListCountries))

	s.mcpServer.AddTool(mcp.NewTool("start_session",
		mcp.WithDescription("Start a quiz or lesson for a country and category. Returns the first step."),
		mcp.WithString("country", mcp.Required(), mcp.Description("Country slug, e.g. france")),
		mcp.WithString("category", mcp.Required(), mcp.Description("Category slug, e.g. dining-etiquette")),
		mcp.WithString("mode", mcp.Description("quiz (default) or lesson"), mcp.Enum(string(domain.ModeQuiz), string(domain.ModeLesson))),
		mcp.WithString("tier", mcp.Description("Lesson tier (defaults to beginner)")),
		mcp.WithString("completed", mcp.Description("Comma separated slugs of categories already completed")),
		mcp.WithOutputSchema[SessionResponse](),
	), mcp.NewStructuredToolHandler(s.handleStart))

	s.mcpServer.AddTool(mcp.NewTool("select_option",
		mcp.WithDescription("Answer the current question of a session."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID returned by start_session")),
		mcp.WithNumber("option", mcp.Required(), mcp.Description("Zero based option index")),
		mcp.WithOutputSchema[SessionResponse](),
	), mcp.NewStructuredToolHandler(s.handleSelect))

	s.mcpServer.AddTool(mcp.NewTool("advance",
		mcp.WithDescription("Move past the current step once it allows it."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID returned by start_session")),
		mcp.WithOutputSchema[SessionResponse](),
	), mcp.NewStructuredToolHandler(s.handleAdvance))

	s.mcpServer.AddTool(mcp.NewTool("get_session",
		mcp.WithDescription("Show the current step of a session."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID returned by start_session")),
		mcp.WithOutputSchema[SessionResponse](),
	), mcp.NewStructuredToolHandler(s.handleGet))
}

// decodeArgs decodes loosely typed tool arguments. JSON numbers arrive as float64.
func decodeArgs(args map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(args); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

func (s *Server) respond(state *domain.RunnerState, outcome *runtime.Outcome) SessionResponse {
	return SessionResponse{View: s.sessions.Engine().View(state), Outcome: outcome}
}

func (s *Server) handleListCountries(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (CatalogResponse, error) {
	return catalogResponse(), nil
}

func (s *Server) handleStart(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (SessionResponse, error) {
	var in startArgs
	if err := decodeArgs(args, &in); err != nil {
		return SessionResponse{}, err
	}
	if in.Country == "" || in.Category == "" {
		return SessionResponse{}, fmt.Errorf("country and category are required")
	}
	mode, err := domain.ParseMode(in.Mode)
	if err != nil {
		return SessionResponse{}, err
	}

	key := domain.ContentKey{Country: in.Country, Category: in.Category, Mode: mode, Tier: in.Tier}
	state, err := s.sessions.StartAndWait(ctx, "", key, in.Completed)
	if err != nil {
		return SessionResponse{}, fmt.Errorf("start failed: %w", err)
	}
	s.logger.DebugContext(ctx, "MCP session started", "session_id", state.SessionID, "phase", state.Phase)
	return s.respond(state, nil), nil
}

func (s *Server) handleSelect(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (SessionResponse, error) {
	var in selectArgs
	if err := decodeArgs(args, &in); err != nil {
		return SessionResponse{}, err
	}
	if in.Option == nil {
		return SessionResponse{}, fmt.Errorf("option is required")
	}
	state, outcome, err := s.sessions.Select(ctx, in.SessionID, *in.Option)
	if err != nil {
		return SessionResponse{}, fmt.Errorf("select failed: %w", err)
	}
	return s.respond(state, &outcome), nil
}

func (s *Server) handleAdvance(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (SessionResponse, error) {
	var in sessionArgs
	if err := decodeArgs(args, &in); err != nil {
		return SessionResponse{}, err
	}
	state, err := s.sessions.Advance(ctx, in.SessionID)
	if err != nil {
		return SessionResponse{}, fmt.Errorf("advance failed: %w", err)
	}
	return s.respond(state, nil), nil
}

func (s *Server) handleGet(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (SessionResponse, error) {
	var in sessionArgs
	if err := decodeArgs(args, &in); err != nil {
		return SessionResponse{}, err
	}
	state, err := s.sessions.Get(ctx, in.SessionID)
	if err != nil {
		return SessionResponse{}, fmt.Errorf("get failed: %w", err)
	}
	return s.respond(state, nil), nil
}

func catalogResponse() CatalogResponse {
	return CatalogResponse{
		Countries:  catalog.Countries(),
		Categories: catalog.Categories(),
		Tiers:      catalog.Tiers(),
	}
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(CatalogURI, "Roomread catalog",
		mcp.WithMIMEType("application/json"),
	), s.readCatalog)
}

func (s *Server) readCatalog(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(catalogResponse())
	if err != nil {
		return nil, fmt.Errorf("failed to encode catalog: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      CatalogURI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
