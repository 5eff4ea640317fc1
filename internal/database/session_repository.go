package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/vocabengine/pkg/models"
)

// SessionRepository handles the append-only session performance log
type SessionRepository struct{}

// NewSessionRepository creates a new repository instance
func NewSessionRepository() *SessionRepository {
	return &SessionRepository{}
}

// Add appends a completed session record
func (r *SessionRepository) Add(session *models.SessionPerformanceRecord) error {
	_, err := DB.Exec(`
		INSERT INTO sessions (mode, accuracy, average_response_ms, cards_reviewed, average_quality, time_of_day, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		session.Mode,
		session.Accuracy,
		session.AverageResponseMs,
		session.CardsReviewed,
		session.AverageQuality,
		session.TimeOfDay,
		session.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to add session: %v", err)
	}
	return nil
}

// Recent returns the newest n sessions, most recent first
func (r *SessionRepository) Recent(limit int) ([]models.SessionPerformanceRecord, error) {
	var records []models.SessionPerformanceRecord
	err := DB.Select(&records,
		"SELECT * FROM sessions ORDER BY timestamp DESC LIMIT $1", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent sessions: %v", err)
	}
	return records, nil
}

// All returns the complete session history, oldest first
func (r *SessionRepository) All() ([]models.SessionPerformanceRecord, error) {
	var records []models.SessionPerformanceRecord
	err := DB.Select(&records, "SELECT * FROM sessions ORDER BY timestamp ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to get sessions: %v", err)
	}
	return records, nil
}

// BucketAccuracy returns card-weighted accuracy per time-of-day bucket
func (r *SessionRepository) BucketAccuracy() (map[models.TimeOfDay]float64, error) {
	rows, err := DB.Queryx(`
		SELECT time_of_day,
		       SUM(accuracy * cards_reviewed) / SUM(cards_reviewed) AS accuracy
		FROM sessions
		WHERE cards_reviewed > 0
		GROUP BY time_of_day
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get bucket accuracy: %v", err)
	}
	defer rows.Close()

	out := make(map[models.TimeOfDay]float64)
	for rows.Next() {
		var bucket models.TimeOfDay
		var accuracy float64
		if err := rows.Scan(&bucket, &accuracy); err != nil {
			return nil, err
		}
		out[bucket] = accuracy
	}
	return out, rows.Err()
}

// StreakRepository handles the single-row streak state
type StreakRepository struct{}

// NewStreakRepository creates a new repository instance
func NewStreakRepository() *StreakRepository {
	return &StreakRepository{}
}

// Get returns the streak state, zero-valued when never saved
func (r *StreakRepository) Get() (models.StreakState, error) {
	var streak models.StreakState
	err := DB.Get(&streak,
		"SELECT current_streak, longest_streak, perfect_streak, last_study_date FROM streak WHERE id = 1")
	if errors.Is(err, sql.ErrNoRows) {
		return models.StreakState{}, nil
	}
	if err != nil {
		return models.StreakState{}, fmt.Errorf("failed to get streak: %v", err)
	}
	return streak, nil
}

// Save upserts the streak state
func (r *StreakRepository) Save(streak *models.StreakState) error {
	_, err := DB.Exec(`
		INSERT INTO streak (id, current_streak, longest_streak, perfect_streak, last_study_date)
		VALUES (1, $1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			current_streak = EXCLUDED.current_streak,
			longest_streak = EXCLUDED.longest_streak,
			perfect_streak = EXCLUDED.perfect_streak,
			last_study_date = EXCLUDED.last_study_date`,
		streak.CurrentStreak,
		streak.LongestStreak,
		streak.PerfectStreak,
		streak.LastStudyDate,
	)
	if err != nil {
		return fmt.Errorf("failed to save streak: %v", err)
	}
	return nil
}
