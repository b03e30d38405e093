package quiz

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/vytor/wildcards/internal/errors"
	"github.com/vytor/wildcards/internal/filter"
	"github.com/vytor/wildcards/internal/logger"
	"github.com/vytor/wildcards/internal/models"
	"github.com/vytor/wildcards/internal/storage"
)

// Phase is the quiz lifecycle step.
type Phase int

const (
	PhaseSetup Phase = iota
	PhaseInProgress
	PhaseComplete
)

func (p Phase) String() string {
	switch p {
	case PhaseInProgress:
		return "in_progress"
	case PhaseComplete:
		return "complete"
	default:
		return "setup"
	}
}

// MaxQuestions caps the "max" count choice of the setup screen.
const MaxQuestions = 50

// CorpusSource supplies the quiz corpus.
type CorpusSource interface {
	LoadQCMData(ctx context.Context) *models.QCMDataset
}

// Store persists the quiz progress snapshot.
type Store interface {
	Save(ctx context.Context, key string, value any) bool
	Load(ctx context.Context, key string, dst any) bool
	Remove(ctx context.Context, key string) bool
}

// Engine runs one quiz at a time. It is not safe for concurrent use.
type Engine struct {
	source CorpusSource
	store  Store
	rng    *rand.Rand
	now    func() time.Time

	corpus  *models.QCMDataset
	session *models.QuizSession
	phase   Phase
}

type Option func(*Engine)

// WithRand makes shuffles deterministic.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) { e.rng = r }
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func New(source CorpusSource, store Store, opts ...Option) *Engine {
	e := &Engine{
		source: source,
		store:  store,
		rng:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Phase() Phase {
	return e.phase
}

// Corpus returns the quiz corpus, loading it on first use. A fallback
// corpus is served but not kept, so the next call tries the source again.
func (e *Engine) Corpus(ctx context.Context) *models.QCMDataset {
	if e.corpus != nil {
		return e.corpus
	}
	corpus := e.source.LoadQCMData(ctx)
	if corpus != nil && !corpus.Fallback {
		e.corpus = corpus
	}
	return corpus
}

// SetCorpus replaces the cached corpus. The running quiz is kept.
func (e *Engine) SetCorpus(corpus *models.QCMDataset) {
	e.corpus = corpus
}

// Available counts the questions passing the filters.
func (e *Engine) Available(ctx context.Context, formation, category string) int {
	return len(filter.QCMPool(e.Corpus(ctx), formation, category))
}

// CountChoices lists the quiz lengths offered for a pool of available
// questions: 5, 10, 15, 20 and, past 20, min(available, MaxQuestions).
func CountChoices(available int) []int {
	choices := []int{5, 10, 15, 20}
	if available > 20 {
		choices = append(choices, min(available, MaxQuestions))
	}
	return choices
}

// Generate starts a new quiz of at most n questions drawn from the filtered
// pool, discarding any previous one.
func (e *Engine) Generate(ctx context.Context, n int, formation, category string) ([]models.QuizQuestion, error) {
	log := logger.FromContext(ctx).WithPrefix("quiz")
	if n < 1 {
		return nil, errors.NewValidationError("count", "must be at least 1")
	}

	pool := filter.QCMPool(e.Corpus(ctx), formation, category)
	if len(pool) == 0 {
		log.Warn("no quiz questions for formation=%s category=%s", formation, category)
		return nil, errors.NewNoQuestionsError()
	}

	shuffle(e.rng, pool)
	selected := pool[:min(n, len(pool))]

	questions := make([]models.QuizQuestion, 0, len(selected))
	for i, q := range selected {
		questions = append(questions, e.buildQuestion(i, q))
	}

	e.session = &models.QuizSession{Questions: questions, AnsweredIDs: []int{}}
	e.phase = PhaseInProgress
	e.save(ctx)

	log.Info("quiz generated: %d questions (pool %d, requested %d)", len(questions), len(pool), n)
	return e.Questions(), nil
}

// buildQuestion shuffles the options of q and moves the correct indexes along.
func (e *Engine) buildQuestion(id int, q models.PoolQuestion) models.QuizQuestion {
	perm := make([]int, len(q.Options))
	for i := range perm {
		perm[i] = i
	}
	shuffle(e.rng, perm)

	options := make([]string, len(perm))
	newPos := make([]int, len(perm))
	for pos, old := range perm {
		options[pos] = q.Options[old]
		newPos[old] = pos
	}

	correct := make([]int, 0, len(q.CorrectAnswers))
	for _, old := range q.CorrectAnswers {
		if old >= 0 && old < len(newPos) {
			correct = append(correct, newPos[old])
		}
	}
	first := -1
	if len(correct) > 0 {
		first = correct[0]
	}

	return models.QuizQuestion{
		ID:             id,
		Question:       q.Question,
		Options:        options,
		CorrectIndex:   first,
		CorrectIndexes: correct,
		Explanation:    q.Explanation,
		Formation:      q.Formation,
		Category:       q.Category,
	}
}

// Answer records selected for question id. It returns nil, nil when the
// question was already answered.
func (e *Engine) Answer(ctx context.Context, id, selected int) (*models.AnswerResult, error) {
	if e.session == nil {
		return nil, errors.NewBadRequestError("no quiz in progress")
	}
	q := e.question(id)
	if q == nil {
		return nil, errors.NewNotFoundError("question", id)
	}
	if q.Answered() {
		return nil, nil
	}
	if selected < 0 || selected >= len(q.Options) {
		return nil, errors.NewValidationError("option", fmt.Sprintf("must be between 0 and %d", len(q.Options)-1))
	}

	correct := slices.Contains(q.CorrectIndexes, selected)
	q.UserAnswer = &selected
	q.IsCorrect = &correct
	if correct {
		e.session.Score++
	}
	e.session.AnsweredIDs = append(e.session.AnsweredIDs, id)
	e.save(ctx)

	return &models.AnswerResult{
		IsCorrect:     correct,
		CorrectIndex:  q.CorrectIndex,
		CorrectAnswer: q.OptionText(q.CorrectIndex),
		Explanation:   q.Explanation,
	}, nil
}

// Next moves forward; nil at the last question.
func (e *Engine) Next(ctx context.Context) *models.QuizQuestion {
	if e.session == nil || e.session.CurrentIndex >= len(e.session.Questions)-1 {
		return nil
	}
	e.session.CurrentIndex++
	e.save(ctx)
	return e.Current()
}

// Previous moves back; nil at the first question.
func (e *Engine) Previous(ctx context.Context) *models.QuizQuestion {
	if e.session == nil || e.session.CurrentIndex <= 0 {
		return nil
	}
	e.session.CurrentIndex--
	e.save(ctx)
	return e.Current()
}

// Current returns a copy of the question at the navigation index.
func (e *Engine) Current() *models.QuizQuestion {
	if e.session == nil || len(e.session.Questions) == 0 {
		return nil
	}
	q := e.session.Questions[e.session.CurrentIndex]
	return &q
}

// CurrentIndex is the navigation index, 0 without a quiz.
func (e *Engine) CurrentIndex() int {
	if e.session == nil {
		return 0
	}
	return e.session.CurrentIndex
}

// Questions returns a copy of the quiz questions.
func (e *Engine) Questions() []models.QuizQuestion {
	if e.session == nil {
		return nil
	}
	out := make([]models.QuizQuestion, len(e.session.Questions))
	copy(out, e.session.Questions)
	return out
}

func (e *Engine) Score() int {
	if e.session == nil {
		return 0
	}
	return e.session.Score
}

func (e *Engine) AnsweredCount() int {
	if e.session == nil {
		return 0
	}
	return len(e.session.AnsweredIDs)
}

// IsComplete holds once every question is answered, wherever the index is.
func (e *Engine) IsComplete() bool {
	return e.session != nil && len(e.session.AnsweredIDs) == len(e.session.Questions)
}

// IsLast reports whether the index sits on the final question.
func (e *Engine) IsLast() bool {
	return e.session != nil && e.session.CurrentIndex == len(e.session.Questions)-1
}

// ShowResults moves to the results phase when positioned on the final
// question of a completed quiz. It reports whether the move happened.
func (e *Engine) ShowResults() bool {
	if !e.IsLast() || !e.IsComplete() {
		return false
	}
	e.phase = PhaseComplete
	return true
}

// Stats summarizes the quiz, nil without one.
func (e *Engine) Stats() *models.QuizStats {
	if e.session == nil || len(e.session.Questions) == 0 {
		return nil
	}
	total := len(e.session.Questions)
	correct := e.session.Score
	stats := &models.QuizStats{
		Total:      total,
		Correct:    correct,
		Incorrect:  total - correct,
		Percentage: int(math.Round(float64(correct) / float64(total) * 100)),
		Details:    make([]models.QuizDetail, 0, total),
	}
	for _, q := range e.session.Questions {
		d := models.QuizDetail{
			Question:      q.Question,
			CorrectAnswer: q.OptionText(q.CorrectIndex),
		}
		if q.UserAnswer != nil {
			d.UserAnswer = q.OptionText(*q.UserAnswer)
		}
		if q.IsCorrect != nil {
			d.IsCorrect = *q.IsCorrect
		}
		stats.Details = append(stats.Details, d)
	}
	return stats
}

// Restore reloads saved progress. Sessions that do not hold together are
// dropped and the engine stays in setup.
func (e *Engine) Restore(ctx context.Context) bool {
	var saved models.QuizSession
	if !e.store.Load(ctx, storage.QuizProgressKey, &saved) {
		return false
	}
	if !normalize(&saved) {
		logger.FromContext(ctx).WithPrefix("quiz").Warn("discarding inconsistent saved quiz")
		e.store.Remove(ctx, storage.QuizProgressKey)
		return false
	}
	e.session = &saved
	e.phase = PhaseInProgress
	return true
}

// Reset discards the quiz and its saved progress.
func (e *Engine) Reset(ctx context.Context) {
	e.session = nil
	e.phase = PhaseSetup
	e.store.Remove(ctx, storage.QuizProgressKey)
}

func (e *Engine) question(id int) *models.QuizQuestion {
	for i := range e.session.Questions {
		if e.session.Questions[i].ID == id {
			return &e.session.Questions[i]
		}
	}
	return nil
}

func (e *Engine) save(ctx context.Context) {
	if e.session == nil {
		return
	}
	e.session.SavedAt = e.now()
	e.store.Save(ctx, storage.QuizProgressKey, e.session)
}

// normalize rebuilds score and answered ids from the questions and clamps
// the index. It reports false for an empty quiz.
func normalize(s *models.QuizSession) bool {
	if len(s.Questions) == 0 {
		return false
	}
	s.Score = 0
	s.AnsweredIDs = []int{}
	for _, q := range s.Questions {
		if q.UserAnswer == nil {
			continue
		}
		s.AnsweredIDs = append(s.AnsweredIDs, q.ID)
		if q.IsCorrect != nil && *q.IsCorrect {
			s.Score++
		}
	}
	s.CurrentIndex = max(0, min(s.CurrentIndex, len(s.Questions)-1))
	return true
}

// shuffle is a Fisher–Yates shuffle.
func shuffle[T any](r *rand.Rand, s []T) {
	for i := len(s) - 1; i > 0; i-- {
		j := r.IntN(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}
