package app

import (
	"context"
	stderrors "errors"

	"github.com/vytor/wildcards/internal/filter"
	"github.com/vytor/wildcards/internal/models"
	"github.com/vytor/wildcards/internal/quiz"
	"github.com/vytor/wildcards/internal/render"
)

// DefaultQuizCount is the preselected quiz length.
const DefaultQuizCount = 10

var formationIcons = map[string]string{
	models.AllFilter: "📚",
	"CDA":            "💻",
	"DWWM":           "🌐",
}

// FormationButton is one entry of the formation bar.
type FormationButton struct {
	Name   string
	Icon   string
	Label  string
	Active bool
}

// QuizPage is what the quiz screen shows for the current phase.
type QuizPage struct {
	Phase quiz.Phase

	// setup
	Available    int
	Choices      []int
	DefaultCount int
	Formations   []FormationButton
	Categories   []models.CategoryButton

	// in progress
	Question   *models.QuizQuestion
	Number     int
	Total      int
	Score      int
	Answered   int
	Progress   float64
	IsFirst    bool
	IsLast     bool
	CanAdvance bool

	// complete
	Stats *models.QuizStats
	Grade models.Grade
}

// Page is everything the visitor's screen shows.
type Page struct {
	Mode          models.Mode
	Theme         models.Theme
	Formation     string
	Category      string
	Search        string
	Formations    []FormationButton
	Cards         *render.View
	Quiz          *QuizPage
	Dialog        string
	DialogPending bool
	Random        *RandomDraw
}

// Page renders the flashcards when they are shown and assembles the screen.
func (c *Controller) Page(ctx context.Context) (*Page, error) {
	c.mu.Lock()
	mode := c.state.CurrentMode
	c.mu.Unlock()

	var view *render.View
	if mode == models.ModeFlashcards {
		v, err := c.Render(ctx)
		switch {
		case err == nil:
			view = v
		case stderrors.Is(err, render.ErrSuperseded):
		default:
			return nil, err
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	p := &Page{
		Mode:      c.state.CurrentMode,
		Theme:     c.state.Theme,
		Formation: c.state.CurrentFormation,
		Category:  c.state.CurrentCategory,
		Search:    c.state.SearchTerm,
	}
	p.Dialog, p.DialogPending = c.dialog.Pending()
	if c.random != nil {
		draw := *c.random
		p.Random = &draw
	}

	if p.Mode == models.ModeQCM {
		p.Quiz = c.quizPage(ctx)
		p.Formations = p.Quiz.Formations
		return p, nil
	}

	if view == nil {
		view = c.currentView()
	}
	p.Cards = view
	p.Formations = formationButtons(c.state.QuestionsData.FormationNames(), c.state.CurrentFormation)
	return p, nil
}

func (c *Controller) quizPage(ctx context.Context) *QuizPage {
	qp := &QuizPage{Phase: c.quiz.Phase()}

	switch qp.Phase {
	case quiz.PhaseSetup:
		corpus := c.quiz.Corpus(ctx)
		var names []string
		for _, f := range corpus.Formations {
			names = append(names, f.Name)
		}
		qp.Formations = formationButtons(names, c.state.CurrentFormation)
		qp.Categories = filter.CategoryButtons(
			filter.AvailableQCMCategories(corpus, c.state.CurrentFormation), c.state.CurrentCategory)
		qp.Available = c.quiz.Available(ctx, c.state.CurrentFormation, c.state.CurrentCategory)
		qp.Choices = quiz.CountChoices(qp.Available)
		qp.DefaultCount = DefaultQuizCount

	case quiz.PhaseInProgress:
		qp.Question = c.quiz.Current()
		qp.Total = len(c.quiz.Questions())
		qp.Number = c.quiz.CurrentIndex() + 1
		qp.Score = c.quiz.Score()
		qp.Answered = c.quiz.AnsweredCount()
		if qp.Total > 0 {
			qp.Progress = float64(qp.Number) / float64(qp.Total) * 100
		}
		qp.IsFirst = c.quiz.CurrentIndex() == 0
		qp.IsLast = c.quiz.IsLast()
		qp.CanAdvance = qp.Question != nil && qp.Question.Answered()

	case quiz.PhaseComplete:
		qp.Stats = c.quiz.Stats()
		if qp.Stats != nil {
			qp.Grade = models.GradeFor(qp.Stats.Percentage)
		}
	}
	return qp
}

func formationButtons(names []string, current string) []FormationButton {
	buttons := make([]FormationButton, 0, len(names)+1)
	for _, name := range append([]string{models.AllFilter}, names...) {
		icon, ok := formationIcons[name]
		if !ok {
			icon = "🎓"
		}
		label := name
		if name == models.AllFilter {
			label = "Toutes"
		}
		buttons = append(buttons, FormationButton{Name: name, Icon: icon, Label: label, Active: name == current})
	}
	return buttons
}
