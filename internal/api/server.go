package api

import (
	"context"
	"encoding/json"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/vytor/wildcards/internal/app"
	"github.com/vytor/wildcards/internal/jobs"
	"github.com/vytor/wildcards/internal/logger"
	"github.com/vytor/wildcards/internal/storage"
)

// Visitors hands out the controller of a visitor id.
type Visitors interface {
	Get(ctx context.Context, visitorID string) *app.Controller
}

type Server struct {
	Visitors       Visitors
	Jobs           jobs.JobQueue
	Templates      *template.Template
	Static         fs.FS
	Ready          func(context.Context) error
	// Stores are write-checked by /readyz, keyed by the name reported on failure.
	Stores         map[string]*storage.Adapter
	RequestTimeout time.Duration
	SecureCookies  bool
	Now            func() time.Time
}

type pageData map[string]any

func (s *Server) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data pageData) {
	if data == nil {
		data = pageData{}
	}

	log := logger.FromContext(r.Context())
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.Templates.ExecuteTemplate(w, name, data); err != nil {
		log.Error("failed to render template %s: %v", name, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// wantsJSON reports whether the client asked for a JSON response.
func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// done answers a state-changing request: payload as JSON for API clients,
// a redirect back to the page otherwise.
func (s *Server) done(w http.ResponseWriter, r *http.Request, payload any) {
	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, payload)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
