package models

import "time"

// StudyMode represents a practice modality.
type StudyMode string

const (
	ModeFlashcards     StudyMode = "flashcards"
	ModeMultipleChoice StudyMode = "multiple_choice"
	ModeTyping         StudyMode = "typing"
	ModeListening      StudyMode = "listening"
	ModeReading        StudyMode = "reading"
	ModeMixed          StudyMode = "mixed"
)

// TimeOfDay buckets the clock into four coarse performance windows.
type TimeOfDay string

const (
	Morning   TimeOfDay = "morning"   // 05:00-11:59
	Afternoon TimeOfDay = "afternoon" // 12:00-16:59
	Evening   TimeOfDay = "evening"   // 17:00-21:59
	Night     TimeOfDay = "night"     // 22:00-04:59
)

// BucketFor returns the time-of-day bucket for a local timestamp.
func BucketFor(t time.Time) TimeOfDay {
	switch h := t.Hour(); {
	case h >= 5 && h < 12:
		return Morning
	case h >= 12 && h < 17:
		return Afternoon
	case h >= 17 && h < 22:
		return Evening
	default:
		return Night
	}
}

// SessionPerformanceRecord summarizes one completed study session.
// Append-only input to the difficulty adjuster and the style classifier.
type SessionPerformanceRecord struct {
	ID                int64     `json:"id" db:"id"`
	Mode              StudyMode `json:"mode" db:"mode"`
	Accuracy          float64   `json:"accuracy" db:"accuracy"` // 0.0-1.0
	AverageResponseMs float64   `json:"average_response_ms" db:"average_response_ms"`
	CardsReviewed     int       `json:"cards_reviewed" db:"cards_reviewed"`
	AverageQuality    float64   `json:"average_quality" db:"average_quality"` // 0-5
	TimeOfDay         TimeOfDay `json:"time_of_day" db:"time_of_day"`
	Timestamp         time.Time `json:"timestamp" db:"timestamp"`
}

// StreakState tracks consecutive study days and consecutive perfect sessions.
type StreakState struct {
	CurrentStreak int        `json:"current_streak" db:"current_streak"` // Consecutive days studied
	LongestStreak int        `json:"longest_streak" db:"longest_streak"`
	PerfectStreak int        `json:"perfect_streak" db:"perfect_streak"` // Consecutive sessions at 100% accuracy
	LastStudyDate *time.Time `json:"last_study_date" db:"last_study_date"`
}

// StudiedToday reports whether the streak has already been exercised today.
func (s *StreakState) StudiedToday(now time.Time) bool {
	if s.LastStudyDate == nil {
		return false
	}
	y1, m1, d1 := s.LastStudyDate.Date()
	y2, m2, d2 := now.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
