package api

import (
	"net/http"

	"github.com/vytor/wildcards/internal/errors"
	"github.com/vytor/wildcards/internal/logger"
)

func (s *Server) handleReloadDatasets(w http.ResponseWriter, r *http.Request) {
	if err := s.Jobs.EnqueueDatasetReload(); err != nil {
		handleError(w, r, errors.NewUnavailableError(err))
		return
	}

	logger.FromContext(r.Context()).Info("dataset reload queued")
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}

func (s *Server) handleSweepVisitors(w http.ResponseWriter, r *http.Request) {
	if err := s.Jobs.EnqueueVisitorSweep(); err != nil {
		handleError(w, r, errors.NewUnavailableError(err))
		return
	}

	logger.FromContext(r.Context()).Info("visitor sweep queued")
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}
