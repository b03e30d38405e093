package render

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/vytor/wildcards/internal/filter"
	"github.com/vytor/wildcards/internal/models"
	"github.com/vytor/wildcards/internal/state"
)

// ErrSuperseded is returned by Render when a newer pass started while this
// one was waiting.
var ErrSuperseded = errors.New("render superseded by a newer pass")

// EmptyDatasetMessage is shown instead of cards when there is nothing to render.
const EmptyDatasetMessage = "Erreur lors du chargement des données"

// View is the outcome of one render pass.
type View struct {
	Generation   uint64
	Formation    string
	Category     string
	Search       string
	Cards        []models.Card
	Buttons      []models.CategoryButton
	Stats        models.CardStats
	VisibleCount int
	// NextNumber is the counter value after the last emitted card.
	NextNumber int
	Error      string
}

// Empty reports whether the pass produced no card.
func (v *View) Empty() bool {
	return len(v.Cards) == 0
}

// Card returns the rendered card with the given id.
func (v *View) Card(id string) (*models.Card, bool) {
	for i := range v.Cards {
		if v.Cards[i].ID == id {
			return &v.Cards[i], true
		}
	}
	return nil, false
}

// RecomputeStats refreshes the statistics after card flags changed.
func (v *View) RecomputeStats() {
	revealed := 0
	for _, c := range v.Cards {
		if c.Revealed {
			revealed++
		}
	}
	v.Stats = models.NewCardStats(len(v.Cards), revealed)
}

// CardID is the stable identifier of the qi-th question of the ci-th
// category of the fi-th formation.
func CardID(fi, ci, qi int) string {
	return fmt.Sprintf("f%d-c%d-q%d", fi, ci, qi)
}

// ParseCardID reverses CardID.
func ParseCardID(id string) (fi, ci, qi int, ok bool) {
	n, err := fmt.Sscanf(id, "f%d-c%d-q%d", &fi, &ci, &qi)
	if err != nil || n != 3 || fi < 0 || ci < 0 || qi < 0 || CardID(fi, ci, qi) != id {
		return 0, 0, 0, false
	}
	return fi, ci, qi, true
}

// Locate resolves a card id against data.
func Locate(data *models.Dataset, id string) (models.Card, bool) {
	fi, ci, qi, ok := ParseCardID(id)
	if !ok || data == nil || fi >= len(data.Formations) {
		return models.Card{}, false
	}
	f := data.Formations[fi]
	if ci >= len(f.Categories) {
		return models.Card{}, false
	}
	c := f.Categories[ci]
	if qi >= len(c.Questions) {
		return models.Card{}, false
	}
	return newCard(id, f.Name, c.Name, c.Questions[qi]), true
}

func newCard(id, formation, category string, q models.QuestionRecord) models.Card {
	question := q.QuestionText(category)
	return models.Card{
		ID:       id,
		Identity: models.CardIdentity{Formation: formation, Category: category, QuestionText: question},
		Question: question,
		Answer:   q.AnswerText(),
	}
}

// Build projects a snapshot into a view: cards in dataset order filtered by
// formation then category, numbered from 1, reveal flags taken from the
// snapshot, category buttons and statistics. The search term only toggles
// Hidden on the cards already included.
func Build(snap state.Snapshot) *View {
	v := &View{
		Formation:  snap.Formation,
		Category:   snap.Category,
		Search:     snap.Search,
		NextNumber: 1,
	}
	if snap.Data.IsEmpty() {
		v.Error = EmptyDatasetMessage
		return v
	}

	counter := 1
	for fi, f := range snap.Data.Formations {
		if snap.Formation != models.AllFilter && f.Name != snap.Formation {
			continue
		}
		for ci, c := range f.Categories {
			if snap.Category != models.AllFilter && c.Name != snap.Category {
				continue
			}
			for qi, q := range c.Questions {
				card := newCard(CardID(fi, ci, qi), f.Name, c.Name, q)
				card.Number = counter
				counter++
				_, card.Revealed = snap.Revealed[card.Identity]
				v.Cards = append(v.Cards, card)
			}
		}
	}
	v.NextNumber = counter

	v.Buttons = filter.CategoryButtons(filter.AvailableCategories(snap.Data, snap.Formation), snap.Category)
	v.VisibleCount = filter.Search(v.Cards, snap.Search)
	v.RecomputeStats()
	return v
}

// Source supplies the state a render pass projects.
type Source interface {
	Snapshot() state.Snapshot
}

// Renderer runs render passes. Each pass takes a generation number; a pass
// that is overtaken while waiting out the loading delay is dropped.
type Renderer struct {
	delay     time.Duration
	onLoading func(generation uint64)
	gen       atomic.Uint64
}

type Option func(*Renderer)

// WithLoadingObserver registers fn to be told when a pass shows its loading
// placeholder.
func WithLoadingObserver(fn func(generation uint64)) Option {
	return func(r *Renderer) { r.onLoading = fn }
}

func New(delay time.Duration, opts ...Option) *Renderer {
	r := &Renderer{delay: delay}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Generation returns the number of the latest pass started.
func (r *Renderer) Generation() uint64 {
	return r.gen.Load()
}

// IsCurrent reports whether generation is still the latest pass.
func (r *Renderer) IsCurrent(generation uint64) bool {
	return r.gen.Load() == generation
}

// Invalidate retires every pass in flight without starting a new one. Call
// it when the state a pass may already have read changes under it.
func (r *Renderer) Invalidate() {
	r.gen.Add(1)
}

// Render starts a pass, waits the loading delay and builds the view from a
// snapshot taken after the wait.
func (r *Renderer) Render(ctx context.Context, src Source) (*View, error) {
	gen := r.gen.Add(1)
	if r.onLoading != nil {
		r.onLoading(gen)
	}

	if r.delay > 0 {
		timer := time.NewTimer(r.delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if !r.IsCurrent(gen) {
		return nil, ErrSuperseded
	}
	v := Build(src.Snapshot())
	v.Generation = gen
	return v, nil
}
