// Package server exposes entity state over HTTP: health, Prometheus
// metrics, and read-only entity endpoints.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hveem/calwatch/logging"
	"github.com/hveem/calwatch/sensor"
)

const (
	readTimeout  = 10 * time.Second
	writeTimeout = 10 * time.Second
	idleTimeout  = 60 * time.Second
)

// Server serves entity state. State is read-only over HTTP; mutation
// happens only through the poll loop.
type Server struct {
	entities []*sensor.Entity
	logger   *slog.Logger
	metrics  *Metrics
}

// New creates a Server over the given entities.
func New(entities []*sensor.Entity, logger *slog.Logger, metrics *Metrics) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{entities: entities, logger: logger, metrics: metrics}
}

// Router builds the HTTP handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/entities", s.handleListEntities)
	r.Get("/entities/{id}", s.handleGetEntity)
	return r
}

// HTTPServer wraps the router in an http.Server bound to addr.
func (s *Server) HTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      s.Router(),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleListEntities(w http.ResponseWriter, _ *http.Request) {
	snaps := make([]sensor.Snapshot, 0, len(s.entities))
	for _, e := range s.entities {
		snaps = append(snaps, e.Snapshot())
	}
	if s.metrics != nil {
		s.metrics.EventsServed.Inc()
	}
	s.writeJSON(w, snaps)
}

func (s *Server) handleGetEntity(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	for _, e := range s.entities {
		if e.ID() == id {
			if s.metrics != nil {
				s.metrics.EventsServed.Inc()
			}
			s.writeJSON(w, e.Snapshot())
			return
		}
	}
	http.Error(w, "unknown entity", http.StatusNotFound)
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("writing response", logging.Err(err))
	}
}
