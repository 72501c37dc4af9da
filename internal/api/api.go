// Package api exposes a small read-only HTTP surface over the alignment
// engine: submit a batch of runs for alignment and fetch a previously
// computed result by run ID. It is outer-layer scaffolding, not part of
// the core computation (spec.md §6) — the engine itself has no knowledge
// this package exists.
package api

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/pipeops/ili-alignment/internal/config"
	"github.com/pipeops/ili-alignment/internal/engine"
	"github.com/pipeops/ili-alignment/internal/model"
)

// Store keeps computed EngineResults in memory, keyed by run ID. The
// engine itself persists nothing (spec.md Non-goals); any persistence
// beyond process lifetime is the caller's concern, not this package's.
type Store struct {
	mu      sync.RWMutex
	results map[string]model.EngineResult
}

// NewStore returns an empty in-memory result store.
func NewStore() *Store {
	return &Store{results: make(map[string]model.EngineResult)}
}

func (s *Store) put(result model.EngineResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[result.RunID] = result
}

func (s *Store) get(runID string) (model.EngineResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result, ok := s.results[runID]
	return result, ok
}

// alignRequest is the JSON body POST /align expects: one raw row table per
// run, plus a parallel year for each.
type alignRequest struct {
	Runs  [][]model.RawRow `json:"runs"`
	Years []int            `json:"years"`
}

// Router builds the chi router serving the review API: GET /health,
// POST /align (run the engine over a submitted batch), and
// GET /runs/{id} (fetch a previously computed result).
func Router(store *Store, cfg config.EngineConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/health", handleHealth)
	r.Post("/align", handleAlign(store, cfg))
	r.Get("/runs/{id}", handleGetRun(store))

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func handleAlign(store *Store, cfg config.EngineConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req alignRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}

		result, err := engine.Run(req.Runs, req.Years, cfg)
		if err != nil {
			zap.L().Warn("align request rejected", zap.Error(err))
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}

		store.put(result)
		writeJSON(w, http.StatusOK, result)
	}
}

func handleGetRun(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		result, ok := store.get(id)
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "run not found"})
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
