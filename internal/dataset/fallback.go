package dataset

import "github.com/vytor/wildcards/internal/models"

// Fallback placement and wording.
const (
	FallbackFormation = "CDA"
	FallbackCategory  = "frontend"
	FallbackQuestion  = "Erreur de chargement"
	FallbackAnswer    = "Une erreur s'est produite lors du chargement des données."
	FallbackQCMAnswer = "Une erreur s'est produite lors du chargement des données QCM."
)

// FallbackDataset is served when the flashcard corpus cannot be loaded.
func FallbackDataset() *models.Dataset {
	question, answer := FallbackQuestion, FallbackAnswer
	return &models.Dataset{Formations: []models.Formation{{
		Name: FallbackFormation,
		Categories: []models.Category{{
			Name:      FallbackCategory,
			Questions: []models.QuestionRecord{{Question: &question, Answer: &answer}},
		}},
	}}}
}

// FallbackQCM is served when the quiz corpus cannot be loaded.
func FallbackQCM() *models.QCMDataset {
	return &models.QCMDataset{Fallback: true, Formations: []models.QCMFormation{{
		Name: FallbackFormation,
		Categories: []models.QCMCategory{{
			Name: FallbackCategory,
			Questions: []models.QCMRecord{{
				Question:       FallbackQuestion,
				Options:        []string{"Erreur", "Erreur", "Erreur", "Erreur"},
				CorrectAnswers: []int{0},
				Explanation:    FallbackQCMAnswer,
			}},
		}},
	}}}
}
