package models

import (
	"slices"
	"time"
)

type QuizQuestion struct {
	ID             int      `json:"id"`
	Question       string   `json:"question"`
	Options        []string `json:"options"`
	CorrectIndex   int      `json:"correctIndex"`   // first of CorrectIndexes
	CorrectIndexes []int    `json:"correctIndexes"` // positions after the option shuffle
	Explanation    string   `json:"explanation"`
	Formation      string   `json:"formation"`
	Category       string   `json:"category"`
	UserAnswer     *int     `json:"userAnswer"`
	IsCorrect      *bool    `json:"isCorrect"`
}

// Answered reports whether the user already picked an option.
func (q QuizQuestion) Answered() bool {
	return q.UserAnswer != nil
}

// Selected reports whether idx is the option the user picked.
func (q QuizQuestion) Selected(idx int) bool {
	return q.UserAnswer != nil && *q.UserAnswer == idx
}

// Correct reports whether the recorded answer was right.
func (q QuizQuestion) Correct() bool {
	return q.IsCorrect != nil && *q.IsCorrect
}

// IsCorrectOption reports whether idx is one of the accepted options.
func (q QuizQuestion) IsCorrectOption(idx int) bool {
	return slices.Contains(q.CorrectIndexes, idx)
}

// OptionText returns the option at idx, or "" when out of range.
func (q QuizQuestion) OptionText(idx int) string {
	if idx < 0 || idx >= len(q.Options) {
		return ""
	}
	return q.Options[idx]
}

// QuizSession is the persisted quiz progress snapshot.
type QuizSession struct {
	Questions    []QuizQuestion `json:"currentQuiz"`
	CurrentIndex int            `json:"currentQuestionIndex"`
	Score        int            `json:"score"`
	AnsweredIDs  []int          `json:"answeredQuestions"`
	SavedAt      time.Time      `json:"timestamp"`
}

// AnswerResult is the immediate feedback for an answered question.
type AnswerResult struct {
	IsCorrect     bool   `json:"isCorrect"`
	CorrectIndex  int    `json:"correctIndex"`
	CorrectAnswer string `json:"correctAnswer"`
	Explanation   string `json:"explanation"`
}

type QuizDetail struct {
	Question      string `json:"question"`
	UserAnswer    string `json:"userAnswer"`
	CorrectAnswer string `json:"correctAnswer"`
	IsCorrect     bool   `json:"isCorrect"`
}

type QuizStats struct {
	Total      int          `json:"total"`
	Correct    int          `json:"correct"`
	Incorrect  int          `json:"incorrect"`
	Percentage int          `json:"percentage"`
	Details    []QuizDetail `json:"details"`
}

// Grade is the results banner chosen from the score percentage.
type Grade struct {
	Text  string
	Emoji string
	Class string
}

// GradeFor maps a percentage to its results banner.
func GradeFor(percentage int) Grade {
	switch {
	case percentage >= 90:
		return Grade{Text: "Excellent !", Emoji: "🌟", Class: "excellent"}
	case percentage >= 70:
		return Grade{Text: "Très bien !", Emoji: "🎉", Class: "good"}
	case percentage >= 50:
		return Grade{Text: "Bien !", Emoji: "👍", Class: "ok"}
	default:
		return Grade{Text: "Continuez à vous entraîner", Emoji: "💪", Class: "retry"}
	}
}
