package state

import (
	"github.com/vytor/wildcards/internal/models"
)

// AppState is the single mutable source of truth of one visitor. It is not
// safe for concurrent use; the owning controller serializes access.
type AppState struct {
	QuestionsData    *models.Dataset
	QCMData          *models.QCMDataset
	CurrentFormation string
	CurrentCategory  string
	SearchTerm       string
	// QuestionCounter is the next display number of the last render pass.
	QuestionCounter int
	CurrentMode     models.Mode
	Theme           models.Theme

	revealed revealedSet
}

// New returns the first-run state: every filter on "all", flashcard mode,
// light theme.
func New(data *models.Dataset) *AppState {
	return &AppState{
		QuestionsData:    data,
		CurrentFormation: models.AllFilter,
		CurrentCategory:  models.AllFilter,
		QuestionCounter:  1,
		CurrentMode:      models.ModeFlashcards,
		Theme:            models.ThemeLight,
		revealed:         newRevealedSet(),
	}
}

// SetFormation changes the formation filter and resets the category to "all".
func (s *AppState) SetFormation(formation string) {
	if formation == "" {
		formation = models.AllFilter
	}
	s.CurrentFormation = formation
	s.CurrentCategory = models.AllFilter
}

// SetCategory changes the category filter only.
func (s *AppState) SetCategory(category string) {
	if category == "" {
		category = models.AllFilter
	}
	s.CurrentCategory = category
}

// SetDataset swaps the flashcard corpus. Filters and reveal state are kept.
func (s *AppState) SetDataset(data *models.Dataset) {
	s.QuestionsData = data
}

// Reveal records id. It reports false when id was already revealed.
func (s *AppState) Reveal(id models.CardIdentity) bool {
	return s.revealed.add(id)
}

// Unreveal forgets id. It reports false when id was not revealed.
func (s *AppState) Unreveal(id models.CardIdentity) bool {
	return s.revealed.remove(id)
}

func (s *AppState) IsRevealed(id models.CardIdentity) bool {
	return s.revealed.has(id)
}

func (s *AppState) RevealedCount() int {
	return len(s.revealed.order)
}

// RevealedRecords returns the revealed identities in reveal order, as persisted.
func (s *AppState) RevealedRecords() []models.CardIdentity {
	out := make([]models.CardIdentity, len(s.revealed.order))
	copy(out, s.revealed.order)
	return out
}

// ReplaceRevealed discards the revealed set and loads records in order.
// Duplicates collapse to their first occurrence.
func (s *AppState) ReplaceRevealed(records []models.CardIdentity) {
	s.revealed = newRevealedSet()
	for _, r := range records {
		s.revealed.add(r)
	}
}

// ClearRevealed empties the revealed set.
func (s *AppState) ClearRevealed() {
	s.revealed = newRevealedSet()
}

// Snapshot is a read-only copy of the state consumed by a render pass.
type Snapshot struct {
	Data      *models.Dataset
	Formation string
	Category  string
	Search    string
	Revealed  map[models.CardIdentity]struct{}
}

// Snapshot copies everything a render pass needs. The dataset itself is
// shared; it is never mutated after load.
func (s *AppState) Snapshot() Snapshot {
	revealed := make(map[models.CardIdentity]struct{}, len(s.revealed.order))
	for _, id := range s.revealed.order {
		revealed[id] = struct{}{}
	}
	return Snapshot{
		Data:      s.QuestionsData,
		Formation: s.CurrentFormation,
		Category:  s.CurrentCategory,
		Search:    s.SearchTerm,
		Revealed:  revealed,
	}
}

type revealedSet struct {
	order []models.CardIdentity
	index map[models.CardIdentity]struct{}
}

func newRevealedSet() revealedSet {
	return revealedSet{index: map[models.CardIdentity]struct{}{}}
}

func (r *revealedSet) has(id models.CardIdentity) bool {
	_, ok := r.index[id]
	return ok
}

func (r *revealedSet) add(id models.CardIdentity) bool {
	if r.has(id) {
		return false
	}
	r.index[id] = struct{}{}
	r.order = append(r.order, id)
	return true
}

func (r *revealedSet) remove(id models.CardIdentity) bool {
	if !r.has(id) {
		return false
	}
	delete(r.index, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}
