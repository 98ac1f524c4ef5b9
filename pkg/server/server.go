package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/ranklesystem/buzztrack/internal/scan"
	"github.com/ranklesystem/buzztrack/internal/store"
)

// Server provides the HTTP API.
type Server struct {
	store  store.Store
	runner *scan.Runner
	port   int
}

// New creates a new HTTP server.
func New(s store.Store, runner *scan.Runner, port int) *Server {
	if port == 0 {
		port = 8080
	}
	return &Server{
		store:  s,
		runner: runner,
		port:   port,
	}
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/v1/results", s.handleResults)
	mux.HandleFunc("/api/v1/runs", s.handleRuns)
	mux.HandleFunc("/api/v1/prospects", s.handleProspects)
	mux.HandleFunc("/api/v1/scan", s.handleScan)

	addr := fmt.Sprintf(":%d", s.port)
	fmt.Printf("buzztrack server listening on %s\n", addr)
	return http.ListenAndServe(addr, mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var (
		run     *store.Run
		results any
		err     error
	)
	if id := r.URL.Query().Get("run"); id != "" {
		run, results, err = s.store.GetRun(r.Context(), id)
	} else {
		run, results, err = s.store.LatestRun(r.Context())
	}
	if err != nil {
		if errors.Is(err, store.ErrNoRuns) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "no scan runs yet"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"run":     run,
		"results": results,
	})
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	runs, err := s.store.ListRuns(r.Context(), 20)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data":  runs,
		"count": len(runs),
	})
}

func (s *Server) handleProspects(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	prospects := s.runner.Prospects()
	writeJSON(w, http.StatusOK, map[string]any{
		"data":  prospects,
		"count": len(prospects),
	})
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	run, results, err := s.runner.Scan(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"run":    run,
		"scored": len(results),
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
