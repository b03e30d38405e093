package api

import (
	"net/http"

	"github.com/vytor/wildcards/internal/logger"
)

// handleHealth is the liveness check - always returns 200 OK.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// handleReady returns 200 when the database answers and every store takes a
// write, 503 otherwise.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.Ready != nil {
		if err := s.Ready(r.Context()); err != nil {
			logger.FromContext(r.Context()).Warn("readiness check failed - database: %v", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("Database unavailable"))
			return
		}
	}

	for name, store := range s.Stores {
		if !store.Available(r.Context()) {
			logger.FromContext(r.Context()).Warn("readiness check failed - %s store", name)
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("Storage unavailable"))
			return
		}
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Ready"))
}
