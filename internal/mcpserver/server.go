// Package mcpserver exposes a live plan to agents as MCP tools served over
// SSE/HTTP.
package mcpserver

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/papapumpkin/manpower/internal/reconcile"
	"github.com/papapumpkin/manpower/internal/workspace"
)

// Version is the MCP server version, matching the manpower module.
const Version = "0.1.0"

// Config holds optional configuration for the Server.
type Config struct {
	// OnChange is called after every successful set_cell, outside the
	// workspace lock. The CLI uses it to persist the plan.
	OnChange func(reconcile.Result)
}

// Server is the in-process manpower MCP server.
type Server struct {
	ws       *workspace.Workspace
	mcp      *mcp.Server
	port     int
	srv      *http.Server
	ln       net.Listener
	onChange func(reconcile.Result)
}

// NewServer creates an MCP server over ws. Pass nil for cfg to use the
// default configuration.
func NewServer(ws *workspace.Workspace, port int, cfg *Config) *Server {
	s := &Server{
		ws: ws,
		mcp: mcp.NewServer(
			&mcp.Implementation{
				Name:    "manpower",
				Version: Version,
			},
			nil,
		),
		port: port,
	}
	if cfg != nil {
		s.onChange = cfg.OnChange
	}

	s.registerCellTools()
	s.registerStatsTools()
	s.registerViewTools()
	return s
}

// Start begins serving over SSE/HTTP on the configured port. It returns once
// the listener is bound.
func (s *Server) Start(_ context.Context) error {
	handler := mcp.NewSSEHandler(func(_ *http.Request) *mcp.Server {
		return s.mcp
	}, nil)

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return fmt.Errorf("mcpserver: listen on port %d: %w", s.port, err)
	}
	s.ln = ln
	s.srv = &http.Server{Handler: handler}

	go func() {
		if err := s.srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			fmt.Fprintf(os.Stderr, "mcpserver: serve error: %v\n", err)
		}
	}()
	return nil
}

// Addr returns the listener address, useful for tests with port 0.
func (s *Server) Addr() net.Addr {
	if s.ln != nil {
		return s.ln.Addr()
	}
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}
