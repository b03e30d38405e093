package api

import (
	"net/http"
	"strconv"

	"github.com/vytor/wildcards/internal/errors"
	"github.com/vytor/wildcards/internal/logger"
	"github.com/vytor/wildcards/internal/quiz"
	"github.com/vytor/wildcards/internal/validator"
)

type quizStartForm struct {
	Count int `form:"count" validate:"required,min=1,max=50"`
}

type quizAnswerForm struct {
	Question int `form:"question" validate:"min=0"`
	Option   int `form:"option" validate:"min=0"`
}

// formInt reads an integer form field; a missing or non-numeric value is a
// validation error on that field.
func formInt(r *http.Request, field string) (int, error) {
	v, err := strconv.Atoi(r.FormValue(field))
	if err != nil {
		return 0, errors.NewValidationError(field, field+" must be a number")
	}
	return v, nil
}

func (s *Server) handleStartQuiz(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	count, err := formInt(r, "count")
	if err != nil {
		handleError(w, r, err)
		return
	}
	form := quizStartForm{Count: count}
	if fields := validator.Struct(form); len(fields) > 0 {
		handleError(w, r, errors.NewFieldsError(fields))
		return
	}

	if err := controllerFromContext(r.Context()).StartQuiz(r.Context(), form.Count); err != nil {
		handleError(w, r, err)
		return
	}

	log.Info("quiz started with %d questions", form.Count)
	s.done(w, r, map[string]any{"phase": quiz.PhaseInProgress.String(), "requested": form.Count})
}

func (s *Server) handleAnswerQuiz(w http.ResponseWriter, r *http.Request) {
	var form quizAnswerForm
	var err error
	if form.Question, err = formInt(r, "question"); err != nil {
		handleError(w, r, err)
		return
	}
	if form.Option, err = formInt(r, "option"); err != nil {
		handleError(w, r, err)
		return
	}
	if fields := validator.Struct(form); len(fields) > 0 {
		handleError(w, r, errors.NewFieldsError(fields))
		return
	}

	result, err := controllerFromContext(r.Context()).Answer(r.Context(), form.Question, form.Option)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if result == nil {
		logger.FromContext(r.Context()).Debug("question %d already answered", form.Question)
		s.done(w, r, map[string]bool{"alreadyAnswered": true})
		return
	}
	s.done(w, r, result)
}

func (s *Server) handleNextQuestion(w http.ResponseWriter, r *http.Request) {
	q := controllerFromContext(r.Context()).NextQuestion(r.Context())
	s.done(w, r, map[string]any{"question": q})
}

func (s *Server) handlePreviousQuestion(w http.ResponseWriter, r *http.Request) {
	q := controllerFromContext(r.Context()).PreviousQuestion(r.Context())
	s.done(w, r, map[string]any{"question": q})
}

func (s *Server) handleQuizResults(w http.ResponseWriter, r *http.Request) {
	complete := controllerFromContext(r.Context()).ShowResults(r.Context())
	s.done(w, r, map[string]bool{"complete": complete})
}

func (s *Server) handleRestartQuiz(w http.ResponseWriter, r *http.Request) {
	controllerFromContext(r.Context()).RestartQuiz(r.Context())
	s.done(w, r, map[string]string{"phase": quiz.PhaseSetup.String()})
}
