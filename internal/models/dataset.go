package models

import "fmt"

// AllFilter is the catch-all value for formation and category filters.
const AllFilter = "all"

// QuestionRecord is one flashcard as found in the dataset file. Both fields
// may be missing at the source.
type QuestionRecord struct {
	Question *string `json:"question,omitempty"`
	Answer   *string `json:"answer,omitempty"`
}

// QuestionText returns the question, or the generated placeholder for the category.
func (q QuestionRecord) QuestionText(category string) string {
	if q.Question != nil && *q.Question != "" {
		return *q.Question
	}
	return fmt.Sprintf("Question de %s", category)
}

// AnswerText returns the answer, or the fixed placeholder.
func (q QuestionRecord) AnswerText() string {
	if q.Answer != nil && *q.Answer != "" {
		return *q.Answer
	}
	return "Réponse non disponible"
}

// Category is an ordered group of questions inside a formation.
type Category struct {
	Name      string
	Questions []QuestionRecord
}

// Formation is a course track holding categories in source order.
type Formation struct {
	Name       string
	Categories []Category
}

// Dataset is the flashcard corpus. Formation and category order is the
// insertion order of the source document.
type Dataset struct {
	Formations []Formation
}

// IsEmpty reports whether the dataset has no formation at all.
func (d *Dataset) IsEmpty() bool {
	return d == nil || len(d.Formations) == 0
}

// Formation returns the named formation, or nil when absent.
func (d *Dataset) Formation(name string) *Formation {
	if d == nil {
		return nil
	}
	for i := range d.Formations {
		if d.Formations[i].Name == name {
			return &d.Formations[i]
		}
	}
	return nil
}

// FormationNames lists formation names in source order.
func (d *Dataset) FormationNames() []string {
	if d == nil {
		return nil
	}
	names := make([]string, 0, len(d.Formations))
	for _, f := range d.Formations {
		names = append(names, f.Name)
	}
	return names
}

// QCMRecord is one multiple-choice question from the quiz corpus.
type QCMRecord struct {
	Question       string   `json:"question"`
	Options        []string `json:"options"`
	CorrectAnswers []int    `json:"correctAnswers"`
	Explanation    string   `json:"explanation"`
}

// QCMCategory groups quiz questions.
type QCMCategory struct {
	Name      string
	Questions []QCMRecord
}

// QCMFormation is a course track of the quiz corpus.
type QCMFormation struct {
	Name       string
	Categories []QCMCategory
}

// QCMDataset is the quiz corpus, ordered like Dataset.
type QCMDataset struct {
	Formations []QCMFormation
	// Fallback marks the placeholder served when the corpus failed to load.
	Fallback bool
}

// IsEmpty reports whether the quiz corpus has no formation at all.
func (d *QCMDataset) IsEmpty() bool {
	return d == nil || len(d.Formations) == 0
}

// PoolQuestion is a quiz question tagged with where it came from.
type PoolQuestion struct {
	QCMRecord
	Formation string
	Category  string
}
