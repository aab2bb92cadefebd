package mcp

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/tauribridge"
	"github.com/aretw0/tauribridge/internal/logging"
	httpadapter "github.com/aretw0/tauribridge/pkg/adapters/http"
	"github.com/aretw0/tauribridge/pkg/commands"
	"github.com/aretw0/tauribridge/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// StatusURI is the resource describing the current session.
const StatusURI = "tauri-status://current"

// Bridge is what the MCP server needs from the automation core.
type Bridge interface {
	Commands() []commands.Descriptor
	Call(ctx context.Context, name string, args map[string]any) domain.Result
	Status() string
	Health() domain.Health
}

// Server exposes a Bridge as an MCP server.
type Server struct {
	bridge    Bridge
	mcpServer *server.MCPServer
	logger    *slog.Logger
	onPanic   func(err error)
	metrics   http.Handler
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithPanicHandler is called when a tool handler panics outside the executor.
// The caller still receives a failed tool result.
func WithPanicHandler(fn func(err error)) Option {
	return func(s *Server) { s.onPanic = fn }
}

// WithMetricsHandler mounts h on /metrics of the SSE listener.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) { s.metrics = h }
}

// NewServer creates an MCP server with one tool per command.
func NewServer(bridge Bridge, opts ...Option) *Server {
	s := &Server{
		bridge: bridge,
		logger: logging.NewNop(),
		mcpServer: server.NewMCPServer("tauri-mcp", strings.TrimSpace(tauribridge.Version),
			server.WithToolCapabilities(false),
			server.WithResourceCapabilities(false, false),
		),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio serves JSON-RPC over in/out until ctx is done or in reaches EOF.
func (s *Server) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.mcpServer)
	stdio.SetErrorLogger(slog.NewLogLogger(s.logger.Handler(), slog.LevelError))
	err := stdio.Listen(ctx, in, out)
	if err != nil && (ctx.Err() != nil || errors.Is(err, io.EOF)) {
		return nil
	}
	return err
}

// Handler returns the SSE transport mounted on the operator router.
func (s *Server) Handler(baseURL string) http.Handler {
	sse := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))
	opts := []httpadapter.Option{httpadapter.WithLogger(s.logger)}
	if s.metrics != nil {
		opts = append(opts, httpadapter.WithMetrics(s.metrics))
	}
	r := httpadapter.NewRouter(s.bridge.Health, opts...)
	r.Handle("/sse", sse.SSEHandler())
	r.Handle("/message", sse.MessageHandler())
	return r
}

// ServeSSE serves the SSE transport on port until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int, baseURL string) error {
	if baseURL == "" {
		baseURL = fmt.Sprintf("http://localhost:%d", port)
	}
	return httpadapter.Serve(ctx, fmt.Sprintf(":%d", port), s.Handler(baseURL), s.logger)
}

func (s *Server) registerTools() {
	for _, d := range s.bridge.Commands() {
		s.mcpServer.AddTool(Tool(d), s.handler(d.Name))
	}
}

// Tool converts a command descriptor into an MCP tool definition.
func Tool(d commands.Descriptor) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(d.Description)}
	var loose []commands.Param
	for _, p := range d.Params {
		props := []mcp.PropertyOption{mcp.Description(p.Description)}
		if p.Required {
			props = append(props, mcp.Required())
		}
		if len(p.Enum) > 0 {
			props = append(props, mcp.Enum(p.Enum...))
		}
		switch p.Type {
		case commands.TypeNumber:
			opts = append(opts, mcp.WithNumber(p.Name, props...))
		case commands.TypeArray:
			opts = append(opts, mcp.WithArray(p.Name, props...))
		case commands.TypeAny:
			opts = append(opts, mcp.WithString(p.Name, props...))
			loose = append(loose, p)
		default:
			opts = append(opts, mcp.WithString(p.Name, props...))
		}
	}

	tool := mcp.NewTool(d.Name, opts...)
	for _, p := range loose {
		tool.InputSchema.Properties[p.Name] = map[string]any{
			"type":        []string{"number", "string"},
			"description": p.Description,
		}
	}
	return tool
}

func (s *Server) handler(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (res *mcp.CallToolResult, err error) {
		defer func() {
			if r := recover(); r != nil {
				perr := fmt.Errorf("tool %s: panic: %v", name, r)
				s.logger.Error("tool handler panicked", "tool", name, "err", perr)
				if s.onPanic != nil {
					s.onPanic(perr)
				}
				res, err = mcp.NewToolResultError(perr.Error()), nil
			}
		}()

		args := req.GetArguments()
		if args == nil {
			args = map[string]any{}
		}
		return ToolResult(s.bridge.Call(ctx, name, args)), nil
	}
}

// ToolResult converts a command result into an MCP tool result.
// Failures are tool results with isError set, never protocol errors.
func ToolResult(r domain.Result) *mcp.CallToolResult {
	switch {
	case r.IsError:
		return mcp.NewToolResultError(r.Message)
	case len(r.Image) > 0:
		return mcp.NewToolResultImage(r.Text, base64.StdEncoding.EncodeToString(r.Image), "image/png")
	default:
		return mcp.NewToolResultText(r.Text)
	}
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(StatusURI, "Current Tauri session status",
		mcp.WithResourceDescription("Reports whether a Tauri session is active"),
		mcp.WithMIMEType("text/plain"),
	), s.readStatus)
}

func (s *Server) readStatus(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      StatusURI,
			MIMEType: "text/plain",
			Text:     s.bridge.Status(),
		},
	}, nil
}
