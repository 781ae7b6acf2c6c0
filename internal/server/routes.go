package server

import (
	"encoding/json"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bobmcallan/grocy-mcp/internal/common"
)

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// MCP endpoint (streamable HTTP)
	if s.mcp != nil {
		mux.Handle("/mcp", s.mcp)
	}

	if s.config.Telemetry.MetricsEnabled {
		mux.Handle("/metrics", promhttp.Handler())
	}

	// API routes
	mux.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		RouteByMethod(w, r, MethodRouter{http.MethodGet: s.handleHealth})
	})
	mux.HandleFunc("/api/version", func(w http.ResponseWriter, r *http.Request) {
		RouteByMethod(w, r, MethodRouter{http.MethodGet: s.handleVersion})
	})

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.handleNotFound)

	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"name":       s.config.Server.Name,
		"version":    common.GetVersion(),
		"build":      common.Build,
		"git_commit": common.GitCommit,
		"grocy_url":  s.config.Grocy.BaseURL,
	})
}

// handleNotFound returns a JSON 404 for unmatched API routes.
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]string{
		"error":   "Not Found",
		"message": "The requested endpoint does not exist",
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
