// Package mcpserver exposes the board to MCP clients such as coding
// assistants. Each tool call first syncs with the store so edits made by
// the CLI or another window are visible.
package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/alexanderramin/orbit/internal/layout"
	"github.com/alexanderramin/orbit/internal/logging"
	"github.com/alexanderramin/orbit/internal/service"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverName = "orbit"

// Server is an MCP server backed by a BoardService.
type Server struct {
	board    service.BoardService
	viewport layout.Viewport
	strategy layout.Strategy
	logger   *slog.Logger
	mcp      *mcp.Server
}

// Option configures a Server.
type Option func(*Server)

// WithViewport sets the canvas used by layout_board.
func WithViewport(vp layout.Viewport) Option {
	return func(s *Server) { s.viewport = vp.Sanitize() }
}

// WithStrategy sets the layout used when layout_board names none.
func WithStrategy(st layout.Strategy) Option {
	return func(s *Server) {
		if st != nil {
			s.strategy = st
		}
	}
}

// WithLogger sets the logger for sync failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// New registers every board tool on a fresh MCP server.
func New(board service.BoardService, version string, opts ...Option) *Server {
	s := &Server{
		board:    board,
		viewport: layout.Viewport{}.Sanitize(),
		strategy: layout.Ring{},
		logger:   logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.mcp = mcp.NewServer(&mcp.Implementation{Name: serverName, Version: version}, nil)
	s.registerTools()
	return s
}

// Serve runs the server over stdio until ctx is cancelled or the client
// disconnects.
func (s *Server) Serve(ctx context.Context) error {
	return s.ServeTransport(ctx, &mcp.StdioTransport{})
}

// ServeTransport runs the server over the given transport.
func (s *Server) ServeTransport(ctx context.Context, transport mcp.Transport) error {
	err := s.mcp.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		err = nil
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return s.board.Flush(context.WithoutCancel(ctx))
}

// sync picks up external writes. A failed sync is logged and the call goes
// ahead against the board already in memory.
func (s *Server) sync(ctx context.Context) {
	if _, err := s.board.Sync(ctx); err != nil {
		s.logger.Warn("mcp sync failed", "error", err)
	}
}
