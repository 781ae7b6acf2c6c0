package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/bobmcallan/grocy-mcp/internal/common"
	"github.com/bobmcallan/grocy-mcp/internal/config"
)

// Server manages the HTTP server and routes.
type Server struct {
	config *config.Config
	mcp    http.Handler
	router *http.ServeMux
	server *http.Server
	logger *common.Logger
}

// New creates the HTTP server that carries the MCP endpoint.
func New(cfg *config.Config, mcpHandler http.Handler, logger *common.Logger) *Server {
	s := &Server{
		config: cfg,
		mcp:    mcpHandler,
		logger: logger,
	}

	s.router = s.setupRoutes()

	s.server = &http.Server{
		Addr:        cfg.Address(),
		Handler:     s.withMiddleware(s.router),
		ReadTimeout: 30 * time.Second,
		// Must exceed grocy.RequestTimeout.
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.Info().
		Str("address", s.server.Addr).
		Str("url", fmt.Sprintf("http://%s/mcp", s.server.Addr)).
		Msg("HTTP server starting")

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("shutting down HTTP server")

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.logger.Info().Msg("HTTP server stopped")
	return nil
}

// Handler returns the HTTP handler for testing.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}
