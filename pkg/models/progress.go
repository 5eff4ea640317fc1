package models

import (
	"fmt"
	"time"
)

// Default SM-2 state for a card that has never been reviewed.
const (
	DefaultEaseFactor = 2.5
	MinEaseFactor     = 1.3
	MaxIntervalDays   = 365
	MaxMasteryLevel   = 4
)

// CardProgress tracks a learner's progress with one card in one direction
// using the SM-2 algorithm. Exactly one record exists per (card, direction).
type CardProgress struct {
	ID                 int64      `json:"id" db:"id"`
	CardID             int64      `json:"card_id" db:"card_id"`
	Direction          Direction  `json:"direction" db:"direction"`
	EaseFactor         float64    `json:"ease_factor" db:"ease_factor"` // SM-2 EF parameter, never below 1.3
	Interval           int        `json:"interval" db:"interval"`       // Current interval in days
	Repetitions        int        `json:"repetitions" db:"repetitions"` // Successful repetitions since last failure
	NextReviewDate     time.Time  `json:"next_review_date" db:"next_review_date"`
	LastReviewDate     *time.Time `json:"last_review_date" db:"last_review_date"`
	TotalReviews       int        `json:"total_reviews" db:"total_reviews"`
	CorrectReviews     int        `json:"correct_reviews" db:"correct_reviews"`
	LastQuality        int        `json:"last_quality" db:"last_quality"`               // 0-5 rating of last recall
	MasteryLevel       int        `json:"mastery_level" db:"mastery_level"`             // 0-4 modality unlock gate
	ConsecutiveCorrect int        `json:"consecutive_correct" db:"consecutive_correct"` // Resets on failure and on level-up
	CreatedAt          time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at" db:"updated_at"`
}

// NewCardProgress returns the default progress for a card's first exposure.
func NewCardProgress(cardID int64, direction Direction) CardProgress {
	now := time.Now()
	return CardProgress{
		CardID:         cardID,
		Direction:      direction,
		EaseFactor:     DefaultEaseFactor,
		Interval:       0,
		Repetitions:    0,
		NextReviewDate: now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Key identifies the (card, direction) pair this record belongs to.
func (p *CardProgress) Key() string {
	return ProgressKey(p.CardID, p.Direction)
}

// ProgressKey builds the canonical lookup key for a card+direction pair.
func ProgressKey(cardID int64, direction Direction) string {
	return fmt.Sprintf("%d:%s", cardID, direction)
}

// Accuracy returns the lifetime share of correct reviews, 0 when unreviewed.
func (p *CardProgress) Accuracy() float64 {
	if p.TotalReviews == 0 {
		return 0
	}
	return float64(p.CorrectReviews) / float64(p.TotalReviews)
}
