package state_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vytor/wildcards/internal/models"
	"github.com/vytor/wildcards/internal/state"
	"github.com/vytor/wildcards/internal/testutil"
)

func id(f, c, q string) models.CardIdentity {
	return models.CardIdentity{Formation: f, Category: c, QuestionText: q}
}

func TestNew_Defaults(t *testing.T) {
	s := state.New(testutil.SampleDataset())

	assert.Equal(t, models.AllFilter, s.CurrentFormation)
	assert.Equal(t, models.AllFilter, s.CurrentCategory)
	assert.Equal(t, models.ModeFlashcards, s.CurrentMode)
	assert.Equal(t, models.ThemeLight, s.Theme)
	assert.Equal(t, 1, s.QuestionCounter)
	assert.Zero(t, s.RevealedCount())
}

func TestSetFormation_ResetsCategory(t *testing.T) {
	for _, prior := range []string{"all", "frontend", "security", "unknown"} {
		s := state.New(testutil.SampleDataset())
		s.SetCategory(prior)

		s.SetFormation("DWWM")

		assert.Equal(t, "DWWM", s.CurrentFormation)
		assert.Equal(t, models.AllFilter, s.CurrentCategory, "prior category %q", prior)
	}
}

func TestSetCategory_KeepsFormation(t *testing.T) {
	s := state.New(nil)
	s.SetFormation("CDA")
	s.SetCategory("security")

	assert.Equal(t, "CDA", s.CurrentFormation)
	assert.Equal(t, "security", s.CurrentCategory)

	s.SetCategory("")
	assert.Equal(t, models.AllFilter, s.CurrentCategory)
}

func TestRevealIsIdempotent(t *testing.T) {
	s := state.New(nil)

	assert.True(t, s.Reveal(id("CDA", "frontend", "Q1")))
	assert.False(t, s.Reveal(id("CDA", "frontend", "Q1")))
	assert.Equal(t, 1, s.RevealedCount())
}

func TestRevealedRecords_KeepRevealOrder(t *testing.T) {
	s := state.New(nil)
	s.Reveal(id("B", "x", "2"))
	s.Reveal(id("A", "x", "1"))
	s.Reveal(id("C", "x", "3"))

	assert.True(t, s.Unreveal(id("A", "x", "1")))
	assert.False(t, s.Unreveal(id("A", "x", "1")))

	assert.Equal(t, []models.CardIdentity{id("B", "x", "2"), id("C", "x", "3")}, s.RevealedRecords())
}

func TestReplaceRevealed_CollapsesDuplicates(t *testing.T) {
	s := state.New(nil)
	s.Reveal(id("old", "x", "q"))

	s.ReplaceRevealed([]models.CardIdentity{id("A", "x", "1"), id("A", "x", "1"), id("B", "y", "2")})

	assert.False(t, s.IsRevealed(id("old", "x", "q")))
	assert.Equal(t, 2, s.RevealedCount())

	s.ClearRevealed()
	assert.Empty(t, s.RevealedRecords())
}

func TestSnapshot_IsDetached(t *testing.T) {
	s := state.New(testutil.SampleDataset())
	s.SetFormation("CDA")
	s.SearchTerm = "dom"
	s.Reveal(id("CDA", "frontend", "Q1"))

	snap := s.Snapshot()
	s.Reveal(id("CDA", "frontend", "Q2"))
	s.SetFormation("DWWM")

	assert.Equal(t, "CDA", snap.Formation)
	assert.Equal(t, "dom", snap.Search)
	assert.Len(t, snap.Revealed, 1)
	assert.Contains(t, snap.Revealed, id("CDA", "frontend", "Q1"))
}
