package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)
	if s.RequestTimeout > 0 {
		r.Use(timeoutMiddleware(s.RequestTimeout))
	}

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	if s.Static != nil {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(s.Static))))
	}

	r.Route("/admin", func(r chi.Router) {
		r.Post("/datasets/reload", s.handleReloadDatasets)
		r.Post("/visitors/sweep", s.handleSweepVisitors)
	})

	r.Group(func(r chi.Router) {
		r.Use(s.visitorMiddleware)

		r.Get("/", s.handleHome)
		r.Post("/filters/formation", s.handleSelectFormation)
		r.Post("/filters/category", s.handleSelectCategory)
		r.Post("/cards/{id}/reveal", s.handleRevealCard)
		r.Post("/cards/{id}/unreveal", s.handleUnrevealCard)
		r.Post("/reset", s.handleReset)
		r.Post("/reveal-all", s.handleRevealAll)
		r.Post("/dialog/confirm", s.handleDialogConfirm)
		r.Post("/dialog/cancel", s.handleDialogCancel)
		r.Post("/theme", s.handleToggleTheme)
		r.Get("/random", s.handleRandomCard)
		r.Post("/random/answer", s.handleRandomAnswer)
		r.Post("/random/close", s.handleRandomClose)
		r.Post("/mode", s.handleSwitchMode)

		r.Post("/quiz/start", s.handleStartQuiz)
		r.Post("/quiz/answer", s.handleAnswerQuiz)
		r.Post("/quiz/next", s.handleNextQuestion)
		r.Post("/quiz/previous", s.handlePreviousQuestion)
		r.Post("/quiz/results", s.handleQuizResults)
		r.Post("/quiz/restart", s.handleRestartQuiz)

		r.Get("/progress/export", s.handleExportProgress)
		r.Post("/progress/import", s.handleImportProgress)
	})

	return r
}
