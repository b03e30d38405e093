package filter

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/vytor/wildcards/internal/models"
)

// Set is a set of category keys.
type Set map[string]struct{}

func (s Set) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// AvailableCategories returns the categories reachable under formation: the
// union over every formation for "all", the formation's own keys otherwise,
// and an empty set for an unknown formation.
func AvailableCategories(data *models.Dataset, formation string) Set {
	out := Set{}
	if data == nil {
		return out
	}
	for _, f := range data.Formations {
		if formation != models.AllFilter && f.Name != formation {
			continue
		}
		for _, c := range f.Categories {
			out[c.Name] = struct{}{}
		}
	}
	return out
}

// AvailableQCMCategories is AvailableCategories over the quiz corpus.
func AvailableQCMCategories(data *models.QCMDataset, formation string) Set {
	out := Set{}
	if data == nil {
		return out
	}
	for _, f := range data.Formations {
		if formation != models.AllFilter && f.Name != formation {
			continue
		}
		for _, c := range f.Categories {
			out[c.Name] = struct{}{}
		}
	}
	return out
}

// CategoryButtons lists the catalog entries that are "all" or available, in
// catalog order, marking current as active.
func CategoryButtons(available Set, current string) []models.CategoryButton {
	buttons := make([]models.CategoryButton, 0, len(Catalog))
	for _, def := range Catalog {
		if def.Key != models.AllFilter && !available.Has(def.Key) {
			continue
		}
		buttons = append(buttons, models.CategoryButton{
			Key:    def.Key,
			Icon:   def.Icon,
			Label:  def.Label,
			Active: def.Key == current,
		})
	}
	return buttons
}

// Matches reports whether formation/category pass the current filters.
func Matches(formation, category, currentFormation, currentCategory string) bool {
	if currentFormation != models.AllFilter && formation != currentFormation {
		return false
	}
	return currentCategory == models.AllFilter || category == currentCategory
}

// Search sets Hidden on every card whose question and answer both miss term.
// Matching is a case-folded substring test on the term as typed, surrounding
// spaces included; an empty term shows every card. It returns the number of cards left visible.
func Search(cards []models.Card, term string) int {
	folder := cases.Fold()
	needle := folder.String(term)

	visible := 0
	for i := range cards {
		c := &cards[i]
		c.Hidden = needle != "" &&
			!strings.Contains(folder.String(c.Question), needle) &&
			!strings.Contains(folder.String(c.Answer), needle)
		if !c.Hidden {
			visible++
		}
	}
	return visible
}

// QCMPool flattens the quiz corpus into the questions passing the filters,
// in corpus order.
func QCMPool(data *models.QCMDataset, formation, category string) []models.PoolQuestion {
	if data == nil {
		return nil
	}
	var pool []models.PoolQuestion
	for _, f := range data.Formations {
		for _, c := range f.Categories {
			if !Matches(f.Name, c.Name, formation, category) {
				continue
			}
			for _, q := range c.Questions {
				pool = append(pool, models.PoolQuestion{QCMRecord: q, Formation: f.Name, Category: c.Name})
			}
		}
	}
	return pool
}
