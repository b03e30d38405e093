package testutil

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"github.com/vytor/wildcards/internal/db"
	"github.com/vytor/wildcards/internal/models"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
func NewTestDB(t *testing.T) *sql.DB {
	sqlDB, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// one connection, otherwise each conn gets its own empty :memory: database
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(context.Background(), sqlDB), "failed to apply migrations")
	return sqlDB
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}

func strPtr(s string) *string { return &s }

// Card builds a QuestionRecord with both fields set.
func Card(question, answer string) models.QuestionRecord {
	return models.QuestionRecord{Question: strPtr(question), Answer: strPtr(answer)}
}

// SampleDataset has two formations sharing a category, in a fixed order.
func SampleDataset() *models.Dataset {
	return &models.Dataset{Formations: []models.Formation{
		{Name: "CDA", Categories: []models.Category{
			{Name: "frontend", Questions: []models.QuestionRecord{
				Card("Qu'est-ce que le DOM ?", "Document Object Model"),
				Card("Qu'est-ce que React ?", "Une bibliothèque UI"),
			}},
			{Name: "security", Questions: []models.QuestionRecord{
				Card("Qu'est-ce qu'une injection SQL ?", "Une faille d'injection"),
			}},
		}},
		{Name: "DWWM", Categories: []models.Category{
			{Name: "frontend", Questions: []models.QuestionRecord{
				Card("Qu'est-ce que CSS ?", "Feuilles de style"),
			}},
			{Name: "tools", Questions: []models.QuestionRecord{
				Card("À quoi sert Git ?", "Gestion de versions"),
			}},
		}},
	}}
}

// SampleQCM has four questions across two formations; one is multi-answer.
func SampleQCM() *models.QCMDataset {
	return &models.QCMDataset{Formations: []models.QCMFormation{
		{Name: "CDA", Categories: []models.QCMCategory{
			{Name: "frontend", Questions: []models.QCMRecord{
				{Question: "Quel hook gère l'état ?", Options: []string{"useState", "useMemo", "useRef", "useId"}, CorrectAnswers: []int{0}, Explanation: "useState stocke l'état."},
				{Question: "Langages du navigateur ?", Options: []string{"HTML", "COBOL", "CSS", "Fortran"}, CorrectAnswers: []int{0, 2}, Explanation: "HTML et CSS."},
			}},
			{Name: "database", Questions: []models.QCMRecord{
				{Question: "Clause de filtrage SQL ?", Options: []string{"ORDER BY", "WHERE", "GROUP BY"}, CorrectAnswers: []int{1}, Explanation: "WHERE filtre les lignes."},
			}},
		}},
		{Name: "DWWM", Categories: []models.QCMCategory{
			{Name: "frontend", Questions: []models.QCMRecord{
				{Question: "Balise de lien ?", Options: []string{"<a>", "<p>", "<div>"}, CorrectAnswers: []int{0}, Explanation: "<a> crée un lien."},
			}},
		}},
	}}
}
