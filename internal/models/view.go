package models

// Card is one rendered flashcard.
type Card struct {
	ID       string       // stable per dataset position, used in URLs
	Number   int          // display number of the render pass
	Identity CardIdentity
	Question string
	Answer   string
	Revealed bool
	Hidden   bool // excluded by the search term
}

// CategoryButton is one entry of the category filter bar.
type CategoryButton struct {
	Key    string
	Icon   string
	Label  string
	Active bool
}
