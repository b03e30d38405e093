package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/wildcards/internal/errors"
	"github.com/vytor/wildcards/internal/logger"
	"github.com/vytor/wildcards/internal/models"
	"github.com/vytor/wildcards/internal/validator"
)

func (s *Server) handleSelectFormation(w http.ResponseWriter, r *http.Request) {
	formation := r.FormValue("formation")
	if fields := validator.Var("formation", formation, "required,max=100"); len(fields) > 0 {
		handleError(w, r, errors.NewFieldsError(fields))
		return
	}

	c := controllerFromContext(r.Context())
	c.SelectFormation(formation)
	logger.FromContext(r.Context()).Debug("formation filter set to %s", formation)
	s.done(w, r, map[string]string{"formation": formation, "category": models.AllFilter})
}

func (s *Server) handleSelectCategory(w http.ResponseWriter, r *http.Request) {
	category := r.FormValue("category")
	if fields := validator.Var("category", category, "required,max=100"); len(fields) > 0 {
		handleError(w, r, errors.NewFieldsError(fields))
		return
	}

	c := controllerFromContext(r.Context())
	c.SelectCategory(category)
	logger.FromContext(r.Context()).Debug("category filter set to %s", category)
	s.done(w, r, map[string]string{"category": category})
}

func (s *Server) handleRevealCard(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	stats, err := controllerFromContext(r.Context()).Reveal(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}

	logger.FromContext(r.Context()).WithField("card_id", id).Debug("card revealed")
	s.done(w, r, stats)
}

func (s *Server) handleUnrevealCard(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	stats, err := controllerFromContext(r.Context()).Unreveal(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}

	logger.FromContext(r.Context()).WithField("card_id", id).Debug("card hidden")
	s.done(w, r, stats)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	c := controllerFromContext(r.Context())
	c.RequestReset(r.Context())
	msg, _ := c.PendingDialog()
	s.done(w, r, map[string]string{"dialog": msg})
}

func (s *Server) handleRevealAll(w http.ResponseWriter, r *http.Request) {
	c := controllerFromContext(r.Context())
	n := c.RequestRevealAllVisible(r.Context())
	logger.FromContext(r.Context()).Debug("reveal all requested for %d cards", n)

	payload := map[string]any{"count": n}
	if msg, ok := c.PendingDialog(); ok {
		payload["dialog"] = msg
	}
	s.done(w, r, payload)
}

func (s *Server) handleDialogConfirm(w http.ResponseWriter, r *http.Request) {
	resolved := controllerFromContext(r.Context()).Confirm()
	s.done(w, r, map[string]bool{"resolved": resolved})
}

func (s *Server) handleDialogCancel(w http.ResponseWriter, r *http.Request) {
	resolved := controllerFromContext(r.Context()).Cancel()
	s.done(w, r, map[string]bool{"resolved": resolved})
}

func (s *Server) handleToggleTheme(w http.ResponseWriter, r *http.Request) {
	theme := controllerFromContext(r.Context()).ToggleTheme(r.Context())
	s.done(w, r, map[string]models.Theme{"theme": theme})
}

func (s *Server) handleRandomCard(w http.ResponseWriter, r *http.Request) {
	card := controllerFromContext(r.Context()).DrawRandomCard()
	if card == nil {
		if wantsJSON(r) {
			handleError(w, r, errors.NewNotFoundError("card", "random"))
			return
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	s.done(w, r, map[string]any{
		"id":        card.ID,
		"formation": card.Identity.Formation,
		"category":  card.Identity.Category,
		"question":  card.Question,
		"answer":    card.Answer,
	})
}

func (s *Server) handleRandomAnswer(w http.ResponseWriter, r *http.Request) {
	shown := controllerFromContext(r.Context()).ShowRandomAnswer()
	s.done(w, r, map[string]bool{"shown": shown})
}

func (s *Server) handleRandomClose(w http.ResponseWriter, r *http.Request) {
	controllerFromContext(r.Context()).CloseRandom()
	s.done(w, r, map[string]bool{"closed": true})
}

func (s *Server) handleSwitchMode(w http.ResponseWriter, r *http.Request) {
	mode, ok := models.ParseMode(r.FormValue("mode"))
	if !ok {
		handleError(w, r, errors.NewValidationError("mode", "mode must be flashcards or qcm"))
		return
	}

	controllerFromContext(r.Context()).SwitchMode(r.Context(), mode)
	logger.FromContext(r.Context()).Debug("mode switched to %s", mode)
	s.done(w, r, map[string]models.Mode{"mode": mode})
}
