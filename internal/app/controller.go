package app

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/vytor/wildcards/internal/dialog"
	"github.com/vytor/wildcards/internal/errors"
	"github.com/vytor/wildcards/internal/filter"
	"github.com/vytor/wildcards/internal/logger"
	"github.com/vytor/wildcards/internal/models"
	"github.com/vytor/wildcards/internal/quiz"
	"github.com/vytor/wildcards/internal/render"
	"github.com/vytor/wildcards/internal/state"
	"github.com/vytor/wildcards/internal/storage"
)

// Dialog wording.
const (
	ResetConfirmMessage     = "Êtes-vous sûr de vouloir réinitialiser toutes les cartes révélées ?"
	RevealAllConfirmMessage = "Révéler toutes les %d cartes visibles ?"
	NoRandomCardMessage     = "Aucune carte disponible pour le tirage au sort."
)

// Corpora supplies both datasets.
type Corpora interface {
	LoadQuestionsData(ctx context.Context) *models.Dataset
	LoadQCMData(ctx context.Context) *models.QCMDataset
}

// RandomDraw is the card picked by DrawRandomCard, shown until closed.
type RandomDraw struct {
	Card       models.Card
	ShowAnswer bool
}

// Controller owns the state of one visitor and serializes its mutations.
type Controller struct {
	mu        sync.Mutex
	visitorID string

	state    *state.AppState
	local    *storage.Adapter
	session  *storage.Adapter
	renderer *render.Renderer
	dialog   *dialog.Dialog
	quiz     *quiz.Engine
	rng      *rand.Rand

	view   *render.View
	random *RandomDraw
}

// NewController builds the controller of visitorID and restores its theme,
// revealed cards and any saved quiz.
func NewController(ctx context.Context, visitorID string, corpora Corpora, local, session *storage.Adapter, opts Options) *Controller {
	log := logger.FromContext(ctx).WithPrefix("app").WithField("visitor", visitorID)

	var rng *rand.Rand
	if opts.NewRand != nil {
		rng = opts.NewRand()
	} else {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	quizOpts := []quiz.Option{quiz.WithRand(rng)}

	c := &Controller{
		visitorID: visitorID,
		state:     state.New(corpora.LoadQuestionsData(ctx)),
		local:     local,
		session:   session,
		renderer:  render.New(opts.RenderDelay),
		dialog:    dialog.New(),
		quiz:      quiz.New(corpora, session, quizOpts...),
		rng:       rng,
	}

	var theme models.Theme
	if local.Load(ctx, storage.ThemeKey, &theme) && (theme == models.ThemeLight || theme == models.ThemeDark) {
		c.state.Theme = theme
	}
	c.loadRevealed(ctx)

	if c.quiz.Restore(ctx) {
		c.state.CurrentMode = models.ModeQCM
		log.Debug("resumed saved quiz")
	}
	return c
}

func (c *Controller) VisitorID() string {
	return c.visitorID
}

// Snapshot implements render.Source.
func (c *Controller) Snapshot() state.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Snapshot()
}

// Render runs a render pass and keeps its view unless a newer pass started.
func (c *Controller) Render(ctx context.Context) (*render.View, error) {
	v, err := c.renderer.Render(ctx, c)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.renderer.IsCurrent(v.Generation) {
		return nil, render.ErrSuperseded
	}
	c.view = v
	c.state.QuestionCounter = v.NextNumber
	return v, nil
}

// SelectFormation switches the formation filter; the category goes back to "all".
func (c *Controller) SelectFormation(formation string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.SetFormation(formation)
	c.invalidate()
	c.random = nil
}

func (c *Controller) SelectCategory(category string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.SetCategory(category)
	c.invalidate()
	c.random = nil
}

// Search sets the visibility filter applied on top of the rendered cards.
func (c *Controller) Search(term string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.SearchTerm = term
	if c.view != nil {
		c.view.Search = term
		c.view.VisibleCount = filter.Search(c.view.Cards, term)
	}
}

// Reveal marks the card id as seen and persists the revealed record. A card
// already revealed is left alone.
func (c *Controller) Reveal(ctx context.Context, id string) (models.CardStats, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	card, err := c.renderedCard(id)
	if err != nil {
		return models.CardStats{}, err
	}
	if c.random != nil && c.random.Card.ID == id {
		c.random = nil
	}
	if c.state.IsRevealed(card.Identity) {
		return c.stats(), nil
	}

	c.state.Reveal(card.Identity)
	c.setCardFlag(card.Identity, true)
	c.persistRevealed(ctx)
	return c.stats(), nil
}

// Unreveal collapses the card id and persists the revealed record.
func (c *Controller) Unreveal(ctx context.Context, id string) (models.CardStats, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	card, err := c.renderedCard(id)
	if err != nil {
		return models.CardStats{}, err
	}
	if !c.state.Unreveal(card.Identity) {
		return c.stats(), nil
	}
	c.setCardFlag(card.Identity, false)
	c.persistRevealed(ctx)
	return c.stats(), nil
}

// RequestReset asks for confirmation before forgetting every revealed card.
func (c *Controller) RequestReset(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	bg := context.WithoutCancel(ctx)
	c.dialog.Show(ResetConfirmMessage, func(confirmed bool) {
		if !confirmed {
			return
		}
		c.state.ClearRevealed()
		c.local.Remove(bg, storage.RevealedCardsKey)
		if c.view != nil {
			for i := range c.view.Cards {
				c.view.Cards[i].Revealed = false
			}
			c.view.RecomputeStats()
		}
		logger.FromContext(bg).WithPrefix("app").Info("revealed cards reset")
	})
}

// RequestRevealAllVisible asks for confirmation before revealing every card
// that is rendered, not hidden by the search and not yet revealed. It
// returns how many cards are concerned; with none, no question is asked.
func (c *Controller) RequestRevealAllVisible(ctx context.Context) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	var targets []models.CardIdentity
	for _, card := range c.currentView().Cards {
		if !card.Hidden && !card.Revealed {
			targets = append(targets, card.Identity)
		}
	}
	if len(targets) == 0 {
		return 0
	}

	bg := context.WithoutCancel(ctx)
	c.dialog.Show(fmt.Sprintf(RevealAllConfirmMessage, len(targets)), func(confirmed bool) {
		if !confirmed {
			return
		}
		for _, id := range targets {
			if c.state.Reveal(id) {
				c.setCardFlag(id, true)
			}
		}
		c.persistRevealed(bg)
	})
	return len(targets)
}

// Confirm answers the pending dialog with yes.
func (c *Controller) Confirm() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dialog.Resolve(true)
}

// Cancel answers the pending dialog with no.
func (c *Controller) Cancel() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dialog.Resolve(false)
}

// PendingDialog returns the question awaiting an answer, if any.
func (c *Controller) PendingDialog() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dialog.Pending()
}

// ToggleTheme flips and persists the theme.
func (c *Controller) ToggleTheme(ctx context.Context) models.Theme {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Theme = c.state.Theme.Toggle()
	c.local.Save(ctx, storage.ThemeKey, c.state.Theme)
	return c.state.Theme
}

// DrawRandomCard picks one card among those not hidden by the search. With
// none available, an informational dialog is shown and nil is returned.
func (c *Controller) DrawRandomCard() *models.Card {
	c.mu.Lock()
	defer c.mu.Unlock()

	var candidates []models.Card
	for _, card := range c.currentView().Cards {
		if !card.Hidden {
			candidates = append(candidates, card)
		}
	}
	if len(candidates) == 0 {
		c.random = nil
		c.dialog.Show(NoRandomCardMessage, func(bool) {})
		return nil
	}

	picked := candidates[c.rng.IntN(len(candidates))]
	c.random = &RandomDraw{Card: picked}
	return &picked
}

// ShowRandomAnswer uncovers the answer of the drawn card.
func (c *Controller) ShowRandomAnswer() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.random == nil {
		return false
	}
	c.random.ShowAnswer = true
	return true
}

func (c *Controller) CloseRandom() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.random = nil
}

// SwitchMode changes the study mode. Leaving the quiz discards it.
func (c *Controller) SwitchMode(ctx context.Context, mode models.Mode) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if mode == c.state.CurrentMode {
		return
	}
	c.state.CurrentMode = mode
	c.random = nil
	if mode == models.ModeFlashcards {
		c.quiz.Reset(ctx)
	}
}

// StartQuiz draws a new quiz of n questions under the current filters.
func (c *Controller) StartQuiz(ctx context.Context, n int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.CurrentMode = models.ModeQCM
	_, err := c.quiz.Generate(ctx, n, c.state.CurrentFormation, c.state.CurrentCategory)
	return err
}

// Answer records the option chosen for question id; nil for a question
// already answered.
func (c *Controller) Answer(ctx context.Context, id, option int) (*models.AnswerResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.quiz.Answer(ctx, id, option)
}

func (c *Controller) NextQuestion(ctx context.Context) *models.QuizQuestion {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.quiz.Next(ctx)
}

func (c *Controller) PreviousQuestion(ctx context.Context) *models.QuizQuestion {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.quiz.Previous(ctx)
}

// ShowResults moves to the results screen, or to the next question when the
// quiz cannot end yet.
func (c *Controller) ShowResults(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.quiz.ShowResults() {
		return true
	}
	c.quiz.Next(ctx)
	return false
}

// RestartQuiz drops the quiz and goes back to the setup screen.
func (c *Controller) RestartQuiz(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.quiz.Reset(ctx)
	c.state.CurrentMode = models.ModeQCM
}

// ExportProgress returns the stored revealed record for download.
func (c *Controller) ExportProgress(ctx context.Context) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.local.ExportRevealed(ctx)
}

// ImportProgress overwrites the revealed record with data and reloads the
// revealed set from storage. Rejected content changes nothing.
func (c *Controller) ImportProgress(ctx context.Context, data []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	records, err := c.local.ImportRevealed(ctx, data)
	if err != nil {
		return 0, err
	}
	c.loadRevealed(ctx)
	c.invalidate()
	logger.FromContext(ctx).WithPrefix("app").Info("imported %d revealed cards", len(records))
	return len(records), nil
}

// SetDataset swaps both corpora, as after a reload.
func (c *Controller) SetDataset(questions *models.Dataset, qcm *models.QCMDataset) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.SetDataset(questions)
	c.quiz.SetCorpus(qcm)
	c.invalidate()
	c.random = nil
}

// invalidate drops the cached view and any render pass already past its
// snapshot. Callers hold c.mu.
func (c *Controller) invalidate() {
	c.view = nil
	c.renderer.Invalidate()
}

// Stats returns the statistics of the last render pass.
func (c *Controller) Stats() models.CardStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats()
}

// RevealedRecords returns the revealed identities in reveal order.
func (c *Controller) RevealedRecords() []models.CardIdentity {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.RevealedRecords()
}

func (c *Controller) loadRevealed(ctx context.Context) {
	var records []models.CardIdentity
	if c.local.Load(ctx, storage.RevealedCardsKey, &records) {
		c.state.ReplaceRevealed(records)
		return
	}
	c.state.ClearRevealed()
}

func (c *Controller) persistRevealed(ctx context.Context) {
	if !c.local.Save(ctx, storage.RevealedCardsKey, c.state.RevealedRecords()) {
		logger.FromContext(ctx).WithPrefix("app").WithField("visitor", c.visitorID).
			Warn("revealed cards not persisted")
	}
}

// renderedCard resolves id and checks that it passes the current filters.
func (c *Controller) renderedCard(id string) (models.Card, error) {
	card, ok := render.Locate(c.state.QuestionsData, id)
	if !ok || !filter.Matches(card.Identity.Formation, card.Identity.Category, c.state.CurrentFormation, c.state.CurrentCategory) {
		return models.Card{}, errors.NewNotFoundError("card", id)
	}
	return card, nil
}

// setCardFlag mirrors the revealed set onto the last view.
func (c *Controller) setCardFlag(id models.CardIdentity, revealed bool) {
	if c.view == nil {
		return
	}
	for i := range c.view.Cards {
		if c.view.Cards[i].Identity == id {
			c.view.Cards[i].Revealed = revealed
		}
	}
	c.view.RecomputeStats()
}

// currentView returns the last view, building one without delay when no
// pass has completed since the last invalidation.
func (c *Controller) currentView() *render.View {
	if c.view == nil {
		c.view = render.Build(c.state.Snapshot())
		c.view.Generation = c.renderer.Generation()
	}
	return c.view
}

func (c *Controller) stats() models.CardStats {
	return c.currentView().Stats
}
