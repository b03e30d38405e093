package filter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/wildcards/internal/filter"
	"github.com/vytor/wildcards/internal/models"
	"github.com/vytor/wildcards/internal/testutil"
)

func keys(s filter.Set) []string {
	out := []string{}
	for _, def := range filter.Catalog {
		if s.Has(def.Key) {
			out = append(out, def.Key)
		}
	}
	return out
}

func TestAvailableCategories(t *testing.T) {
	data := testutil.SampleDataset()

	tests := []struct {
		name      string
		formation string
		want      []string
	}{
		{name: "union for all", formation: models.AllFilter, want: []string{"frontend", "security", "tools"}},
		{name: "own keys", formation: "CDA", want: []string{"frontend", "security"}},
		{name: "other formation", formation: "DWWM", want: []string{"frontend", "tools"}},
		{name: "absent formation", formation: "TSSR", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := filter.AvailableCategories(data, tt.formation)
			assert.Equal(t, tt.want, keys(got))
			assert.Len(t, got, len(tt.want))
		})
	}
}

func TestAvailableCategories_NilDataset(t *testing.T) {
	assert.Empty(t, filter.AvailableCategories(nil, "CDA"))
	assert.Empty(t, filter.AvailableQCMCategories(nil, models.AllFilter))
}

func TestAvailableQCMCategories(t *testing.T) {
	got := filter.AvailableQCMCategories(testutil.SampleQCM(), "CDA")
	assert.Equal(t, []string{"frontend", "database"}, keys(got))
}

func TestCategoryButtons_CatalogOrder(t *testing.T) {
	available := filter.Set{"tools": {}, "frontend": {}, "unlisted": {}, "security": {}}

	buttons := filter.CategoryButtons(available, "security")

	var got []string
	for _, b := range buttons {
		got = append(got, b.Key)
	}
	assert.Equal(t, []string{"all", "frontend", "security", "tools"}, got)
	assert.True(t, buttons[2].Active)
	assert.False(t, buttons[0].Active)
	assert.Equal(t, "🔒", buttons[2].Icon)
	assert.Equal(t, "Sécurité", buttons[2].Label)
}

func TestCategoryButtons_EmptyAvailable(t *testing.T) {
	buttons := filter.CategoryButtons(filter.Set{}, models.AllFilter)
	require.Len(t, buttons, 1)
	assert.Equal(t, models.AllFilter, buttons[0].Key)
	assert.True(t, buttons[0].Active)
}

func TestSearch(t *testing.T) {
	cards := []models.Card{
		{Question: "Qu'est-ce que le DOM ?", Answer: "Document Object Model"},
		{Question: "Qu'est-ce que CSS ?", Answer: "Feuilles de STYLE"},
		{Question: "À quoi sert Git ?", Answer: "Gestion de versions"},
	}

	assert.Equal(t, 1, filter.Search(cards, "dom"))
	assert.False(t, cards[0].Hidden)
	assert.True(t, cards[1].Hidden)
	assert.True(t, cards[2].Hidden)

	assert.Equal(t, 1, filter.Search(cards, "style"), "answer text matches too")
	assert.False(t, cards[1].Hidden)

	assert.Equal(t, 1, filter.Search(cards, "À QUOI"), "case folding covers accented letters")
	assert.False(t, cards[2].Hidden)

	assert.Equal(t, 3, filter.Search(cards, ""))
	for _, c := range cards {
		assert.False(t, c.Hidden)
	}
}

func TestSearch_KeepsSurroundingSpaces(t *testing.T) {
	cards := []models.Card{
		{Question: "Qu'est-ce que le DOM ?", Answer: "Document Object Model"},
		{Question: "Quel outil ?", Answer: "Git"},
	}

	assert.Equal(t, 1, filter.Search(cards, " dom"))
	assert.False(t, cards[0].Hidden)
	assert.True(t, cards[1].Hidden)

	assert.Equal(t, 0, filter.Search(cards, "  "))
	assert.Equal(t, 2, filter.Search(cards, " "))
}

func TestMatches(t *testing.T) {
	assert.True(t, filter.Matches("CDA", "frontend", "all", "all"))
	assert.True(t, filter.Matches("CDA", "frontend", "CDA", "frontend"))
	assert.False(t, filter.Matches("DWWM", "frontend", "CDA", "all"))
	assert.False(t, filter.Matches("CDA", "security", "all", "frontend"))
}

func TestQCMPool(t *testing.T) {
	data := testutil.SampleQCM()

	assert.Len(t, filter.QCMPool(data, "all", "all"), 4)
	assert.Len(t, filter.QCMPool(data, "all", "frontend"), 3)

	pool := filter.QCMPool(data, "CDA", "database")
	require.Len(t, pool, 1)
	assert.Equal(t, "CDA", pool[0].Formation)
	assert.Equal(t, "database", pool[0].Category)
	assert.Equal(t, "Clause de filtrage SQL ?", pool[0].Question)

	assert.Empty(t, filter.QCMPool(data, "DWWM", "database"))
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Base de données", filter.Label("database"))
	assert.Equal(t, "custom", filter.Label("custom"))
}
