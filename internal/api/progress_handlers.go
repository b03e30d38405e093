package api

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/vytor/wildcards/internal/errors"
	"github.com/vytor/wildcards/internal/logger"
	"github.com/vytor/wildcards/internal/storage"
)

const maxImportSize = 1 << 20

func (s *Server) handleExportProgress(w http.ResponseWriter, r *http.Request) {
	data, err := controllerFromContext(r.Context()).ExportProgress(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", storage.ExportFilename(s.now())))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// handleImportProgress accepts the progress file either as the "file" field
// of a multipart form or as a raw JSON body.
func (s *Server) handleImportProgress(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	r.Body = http.MaxBytesReader(w, r.Body, maxImportSize)

	data, err := readImport(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	n, err := controllerFromContext(r.Context()).ImportProgress(r.Context(), data)
	if err != nil {
		handleError(w, r, err)
		return
	}

	log.Info("progress imported: %d cards", n)
	s.done(w, r, map[string]int{"imported": n})
}

func readImport(r *http.Request) ([]byte, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, _, err := r.FormFile("file")
		if err != nil {
			return nil, errors.NewBadRequestError("missing progress file")
		}
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			return nil, errors.NewBadRequestError("unreadable progress file")
		}
		return data, nil
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, errors.NewBadRequestError("unreadable progress file")
	}
	return data, nil
}
