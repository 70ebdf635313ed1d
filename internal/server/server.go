// Package server is the record API the onboarding flow syncs to.
//
//	POST /api/users       store or merge a flattened user record
//	GET  /api/users/{id}  fetch a stored record
//	GET  /healthz         liveness and database check
//	GET  /metrics         Prometheus metrics
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/nutragenie/nutragenie/internal/metrics"
	"github.com/nutragenie/nutragenie/internal/remote"
)

// maxRequestBodySize limits POST bodies.
const maxRequestBodySize = 1 << 20

// ErrorResponse is the JSON body of every error reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Server serves the record API.
type Server struct {
	repo    *Repository
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// New returns a server over repo. m and logger may be nil.
func New(repo *Repository, m *metrics.Metrics, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{repo: repo, metrics: m, logger: logger}
}

// RegisterHTTPHandlers adds the API routes to mux.
func (s *Server) RegisterHTTPHandlers(mux *http.ServeMux) {
	mux.HandleFunc("POST "+remote.UsersPath, s.counted("POST /api/users", s.handleCreate))
	mux.HandleFunc("GET "+remote.UsersPath+"/{id}", s.counted("GET /api/users/{id}", s.handleGet))
	mux.HandleFunc("GET /healthz", s.counted("GET /healthz", s.handleHealth))
	mux.Handle("GET /metrics", s.metrics.Handler())
}

// Handler returns a mux with every route registered.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterHTTPHandlers(mux)
	return mux
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("record API listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("record API shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// statusRecorder counts the response when its status line is written.
type statusRecorder struct {
	http.ResponseWriter
	route   string
	metrics *metrics.Metrics
	wrote   bool
}

func (r *statusRecorder) WriteHeader(code int) {
	if !r.wrote {
		r.wrote = true
		r.metrics.Request(r.route, code)
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if !r.wrote {
		r.WriteHeader(http.StatusOK)
	}
	return r.ResponseWriter.Write(b)
}

func (s *Server) counted(route string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h(&statusRecorder{ResponseWriter: w, route: route, metrics: s.metrics}, r)
	}
}

// ----------------------------------------------------------------------------
// POST /api/users
// ----------------------------------------------------------------------------

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

	var rec remote.Record
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}

	stored, created, err := s.repo.Upsert(r.Context(), rec)
	if errors.Is(err, ErrInvalidID) {
		writeJSONError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}
	if err != nil {
		s.logger.Error("store record failed", "id", rec.ID, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "store_failed", "could not store record")
		return
	}

	if n, err := s.repo.Count(r.Context()); err == nil {
		s.metrics.SetRecords(n)
	}
	s.logger.Debug("record stored", "id", stored.ID, "created", created, "fields", len(stored.Fields))

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, stored)
}

// ----------------------------------------------------------------------------
// GET /api/users/{id}
// ----------------------------------------------------------------------------

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	rec, err := s.repo.Get(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		writeJSONError(w, http.StatusNotFound, "not_found", "no record with id "+id)
		return
	}
	if err != nil {
		s.logger.Error("load record failed", "id", id, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "load_failed", "could not load record")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// ----------------------------------------------------------------------------
// GET /healthz
// ----------------------------------------------------------------------------

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.Ping(r.Context()); err != nil {
		writeJSONError(w, http.StatusServiceUnavailable, "db_unavailable", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: message})
}
