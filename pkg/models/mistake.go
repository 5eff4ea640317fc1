package models

import (
	"strings"
	"time"
)

// ErrorType classifies what went wrong in an incorrect answer.
type ErrorType string

const (
	ErrorAccent   ErrorType = "accent"
	ErrorSpelling ErrorType = "spelling"
	ErrorGender   ErrorType = "gender"
	ErrorWrong    ErrorType = "wrong"
)

// MistakeRecord is an immutable log entry for one incorrect answer.
// Records are append-only and consumed in rolling windows by the analyzers.
type MistakeRecord struct {
	ID            int64     `json:"id" db:"id"`
	CardID        int64     `json:"card_id" db:"card_id"`
	Direction     Direction `json:"direction" db:"direction"`
	ErrorType     ErrorType `json:"error_type" db:"error_type"`
	UserAnswer    string    `json:"user_answer" db:"user_answer"`
	CorrectAnswer string    `json:"correct_answer" db:"correct_answer"`
	Timestamp     time.Time `json:"timestamp" db:"timestamp"`
}

// ConfusionPair records two answers that have been mutually mistaken for
// each other. Pairs are derived from mistake history on each analysis pass,
// never stored as independent truth.
type ConfusionPair struct {
	AnswerA  string    `json:"answer_a"`
	AnswerB  string    `json:"answer_b"`
	Count    int       `json:"count"`
	LastSeen time.Time `json:"last_seen"`
}

// Involves reports whether the given normalized answer is one of the pair.
func (c *ConfusionPair) Involves(answer string) bool {
	return c.AnswerA == answer || c.AnswerB == answer
}

// NormalizeAnswer canonicalizes an answer string for confusion matching.
func NormalizeAnswer(answer string) string {
	return strings.ToLower(strings.TrimSpace(answer))
}
