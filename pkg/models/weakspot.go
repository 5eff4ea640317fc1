package models

import "time"

// WeakSpotType identifies which detector produced a weak spot.
type WeakSpotType string

const (
	WeakSpotCategory  WeakSpotType = "category"
	WeakSpotErrorType WeakSpotType = "error_type"
	WeakSpotTimeBased WeakSpotType = "time_based"
	WeakSpotConfusion WeakSpotType = "confusion_pair"
)

// Severity grades how urgent a weak spot is.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// WeakSpot is a detected, scored problem area. Weak spots are regenerated
// wholesale on each analysis pass and never mutated in place.
type WeakSpot struct {
	ID              string       `json:"id"`
	Type            WeakSpotType `json:"type"`
	Target          string       `json:"target"` // Category name, error type, time bucket or "a / b" pair
	Severity        Severity     `json:"severity"`
	Score           float64      `json:"score"` // 0-100
	AffectedCardIDs []int64      `json:"affected_card_ids"`
	DetectedAt      time.Time    `json:"detected_at"`
}
