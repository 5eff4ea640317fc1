package models

import "time"

// Direction indicates which side of a card is prompted.
type Direction string

const (
	// DirectionForward prompts with the term and expects the translation
	DirectionForward Direction = "forward"
	// DirectionReverse prompts with the translation and expects the term
	DirectionReverse Direction = "reverse"
)

// Flashcard represents a vocabulary item to be learned
type Flashcard struct {
	ID            int64     `json:"id" db:"id"`
	Term          string    `json:"term" db:"term"`
	Translation   string    `json:"translation" db:"translation"`
	Category      string    `json:"category" db:"category"`
	Example       string    `json:"example" db:"example"`
	Pronunciation string    `json:"pronunciation" db:"pronunciation"` // Optional: URL to audio pronunciation
	Difficulty    int       `json:"difficulty" db:"difficulty"`       // 1-5 scale of difficulty
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}
