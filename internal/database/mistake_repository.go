package database

import (
	"fmt"
	"time"

	"github.com/example/vocabengine/pkg/models"
)

// MistakeRepository handles the append-only mistake log
type MistakeRepository struct{}

// NewMistakeRepository creates a new repository instance
func NewMistakeRepository() *MistakeRepository {
	return &MistakeRepository{}
}

// Add appends a mistake record to the log
func (r *MistakeRepository) Add(mistake *models.MistakeRecord) error {
	_, err := DB.Exec(`
		INSERT INTO mistakes (card_id, direction, error_type, user_answer, correct_answer, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		mistake.CardID,
		mistake.Direction,
		mistake.ErrorType,
		mistake.UserAnswer,
		mistake.CorrectAnswer,
		mistake.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to add mistake: %v", err)
	}
	return nil
}

// Recent returns the newest n mistakes, most recent first
func (r *MistakeRepository) Recent(limit int) ([]models.MistakeRecord, error) {
	var records []models.MistakeRecord
	err := DB.Select(&records,
		"SELECT * FROM mistakes ORDER BY timestamp DESC LIMIT $1", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent mistakes: %v", err)
	}
	return records, nil
}

// Since returns all mistakes at or after the cutoff
func (r *MistakeRepository) Since(cutoff time.Time) ([]models.MistakeRecord, error) {
	var records []models.MistakeRecord
	err := DB.Select(&records,
		"SELECT * FROM mistakes WHERE timestamp >= $1 ORDER BY timestamp ASC", cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to get mistakes since %s: %v", cutoff.Format(time.RFC3339), err)
	}
	return records, nil
}
