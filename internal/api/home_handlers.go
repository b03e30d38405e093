package api

import (
	"net/http"

	"github.com/vytor/wildcards/internal/logger"
	"github.com/vytor/wildcards/internal/models"
)

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	c := controllerFromContext(r.Context())

	if q := r.URL.Query(); q.Has("q") {
		c.Search(q.Get("q"))
	}

	page, err := c.Page(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}

	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, page)
		return
	}

	name := "pages/flashcards.html"
	if page.Mode == models.ModeQCM {
		name = "pages/quiz.html"
	}
	log.Debug("rendering %s", name)
	s.render(w, r, name, pageData{"page": page})
}
