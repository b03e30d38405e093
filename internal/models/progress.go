package models

// CardIdentity correlates a rendered card with its persisted reveal record.
// Identical question text within one formation/category collapses to one identity.
type CardIdentity struct {
	Formation    string `json:"formation" validate:"required"`
	Category     string `json:"category" validate:"required"`
	QuestionText string `json:"questionText" validate:"required"`
}

// Mode is the active study mode.
type Mode string

const (
	ModeFlashcards Mode = "flashcards"
	ModeQCM        Mode = "qcm"
)

// ParseMode maps a form value to a Mode.
func ParseMode(s string) (Mode, bool) {
	switch Mode(s) {
	case ModeFlashcards:
		return ModeFlashcards, true
	case ModeQCM:
		return ModeQCM, true
	}
	return "", false
}

// Theme is the persisted colour scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// CardStats summarizes reveal progress over the rendered cards.
type CardStats struct {
	Total      int     `json:"total"`
	Revealed   int     `json:"revealed"`
	Percentage float64 `json:"percentage"`
}

// NewCardStats computes the percentage, 0 when there are no cards.
func NewCardStats(total, revealed int) CardStats {
	s := CardStats{Total: total, Revealed: revealed}
	if total > 0 {
		s.Percentage = float64(revealed) / float64(total) * 100
	}
	return s
}
