// Package api serves read-only observation of a running simulation over HTTP.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/talgya/schelling/internal/collect"
)

// Status is a point-in-time view of the simulation.
type Status struct {
	RunID      string  `json:"run_id"`
	Tick       int     `json:"tick"`
	Happy      int     `json:"happy"`
	Similarity float64 `json:"similarity"`
	Running    bool    `json:"running"`
	Agents     int     `json:"agents"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Seed       int64   `json:"seed"`
}

// Server exposes the run loop's state through caller-provided accessors, so
// the HTTP side never reaches into the model while a tick is in flight.
type Server struct {
	Port    int
	Status  func() Status
	Metrics func() []collect.ModelRow
}

// Start begins serving in a goroutine.
func (s *Server) Start() {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/metrics", s.handleMetrics)

	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr)

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Status())
}

// handleMetrics returns the model-level snapshot log, optionally limited to
// the most recent N rows via ?limit=N.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	rows := s.Metrics()

	if l := r.URL.Query().Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n <= 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		if len(rows) > n {
			rows = rows[len(rows)-n:]
		}
	}

	writeJSON(w, rows)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}
