package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/vocabengine/pkg/models"
)

// ProgressRepository handles database operations for card progress
type ProgressRepository struct{}

// NewProgressRepository creates a new repository instance
func NewProgressRepository() *ProgressRepository {
	return &ProgressRepository{}
}

// Get returns progress for a card+direction pair, or the default record for
// a first exposure when none exists yet.
func (r *ProgressRepository) Get(cardID int64, direction models.Direction) (models.CardProgress, error) {
	var progress models.CardProgress
	err := DB.Get(&progress,
		"SELECT * FROM card_progress WHERE card_id = $1 AND direction = $2",
		cardID, direction)
	if errors.Is(err, sql.ErrNoRows) {
		return models.NewCardProgress(cardID, direction), nil
	}
	if err != nil {
		return models.CardProgress{}, fmt.Errorf("failed to get card progress: %v", err)
	}
	return progress, nil
}

// GetAll returns every progress record keyed by card+direction
func (r *ProgressRepository) GetAll() (map[string]models.CardProgress, error) {
	var records []models.CardProgress
	err := DB.Select(&records, "SELECT * FROM card_progress")
	if err != nil {
		return nil, fmt.Errorf("failed to get progress records: %v", err)
	}
	out := make(map[string]models.CardProgress, len(records))
	for _, p := range records {
		out[p.Key()] = p
	}
	return out, nil
}

// GetDue returns progress records due for review at the given time
func (r *ProgressRepository) GetDue(now time.Time) ([]models.CardProgress, error) {
	var records []models.CardProgress
	err := DB.Select(&records, `
		SELECT * FROM card_progress
		WHERE next_review_date <= $1
		ORDER BY next_review_date ASC
	`, now)
	if err != nil {
		return nil, fmt.Errorf("failed to get due cards: %v", err)
	}
	return records, nil
}

// CountDue returns how many cards are due at the given time
func (r *ProgressRepository) CountDue(now time.Time) (int, error) {
	var count int
	err := DB.Get(&count,
		"SELECT COUNT(*) FROM card_progress WHERE next_review_date <= $1", now)
	if err != nil {
		return 0, fmt.Errorf("failed to count due cards: %v", err)
	}
	return count, nil
}

// Upsert creates or replaces the progress record for its card+direction pair
func (r *ProgressRepository) Upsert(progress *models.CardProgress) error {
	_, err := DB.Exec(`
		INSERT INTO card_progress (
			card_id, direction, ease_factor, interval, repetitions,
			next_review_date, last_review_date, total_reviews, correct_reviews,
			last_quality, mastery_level, consecutive_correct, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, CURRENT_TIMESTAMP)
		ON CONFLICT (card_id, direction) DO UPDATE SET
			ease_factor = EXCLUDED.ease_factor,
			interval = EXCLUDED.interval,
			repetitions = EXCLUDED.repetitions,
			next_review_date = EXCLUDED.next_review_date,
			last_review_date = EXCLUDED.last_review_date,
			total_reviews = EXCLUDED.total_reviews,
			correct_reviews = EXCLUDED.correct_reviews,
			last_quality = EXCLUDED.last_quality,
			mastery_level = EXCLUDED.mastery_level,
			consecutive_correct = EXCLUDED.consecutive_correct,
			updated_at = CURRENT_TIMESTAMP`,
		progress.CardID,
		progress.Direction,
		progress.EaseFactor,
		progress.Interval,
		progress.Repetitions,
		progress.NextReviewDate,
		progress.LastReviewDate,
		progress.TotalReviews,
		progress.CorrectReviews,
		progress.LastQuality,
		progress.MasteryLevel,
		progress.ConsecutiveCorrect,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert card progress: %v", err)
	}
	return nil
}

// CategoryEaseStats returns the average ease factor per category plus the
// global min and max, for the smart scheduling category factor.
func (r *ProgressRepository) CategoryEaseStats() (map[string]float64, float64, float64, error) {
	rows, err := DB.Queryx(`
		SELECT c.category, AVG(p.ease_factor) AS avg_ease
		FROM card_progress p
		JOIN cards c ON c.id = p.card_id
		WHERE p.total_reviews > 0
		GROUP BY c.category
	`)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to get category ease stats: %v", err)
	}
	defer rows.Close()

	stats := make(map[string]float64)
	minEase, maxEase := 0.0, 0.0
	first := true
	for rows.Next() {
		var category string
		var avg float64
		if err := rows.Scan(&category, &avg); err != nil {
			return nil, 0, 0, err
		}
		stats[category] = avg
		if first || avg < minEase {
			minEase = avg
		}
		if first || avg > maxEase {
			maxEase = avg
		}
		first = false
	}
	return stats, minEase, maxEase, rows.Err()
}
