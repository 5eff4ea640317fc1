package models

import "time"

// LearningStyle is one of the four classic style buckets.
type LearningStyle string

const (
	StyleVisual      LearningStyle = "visual"
	StyleAuditory    LearningStyle = "auditory"
	StyleKinesthetic LearningStyle = "kinesthetic"
	StyleReading     LearningStyle = "reading"
)

// ModeEffectiveness aggregates how well one study modality works for the
// learner.
type ModeEffectiveness struct {
	Sessions      int     `json:"sessions"`
	Accuracy      float64 `json:"accuracy"`       // 0.0-1.0
	Retention     float64 `json:"retention"`      // 0-100 estimated retention proxy
	AvgResponseMs float64 `json:"avg_response_ms"`
	AvgQuality    float64 `json:"avg_quality"`   // 0-5
	Effectiveness float64 `json:"effectiveness"` // 0-100 composite
}

// LearningStyleProfile is the inferred style of the learner. The profile is
// recomputed wholesale on each detection pass, never incrementally patched.
type LearningStyleProfile struct {
	PrimaryStyle      LearningStyle                   `json:"primary_style"`   // Empty until enough data
	SecondaryStyle    LearningStyle                   `json:"secondary_style"` // Empty unless clearly relevant
	StyleScores       map[LearningStyle]float64       `json:"style_scores"`    // style -> 0-100
	ModeEffectiveness map[StudyMode]ModeEffectiveness `json:"mode_effectiveness"`
	ConfidenceLevel   float64                         `json:"confidence_level"` // 0-100, grows with sample size
	DetectedAt        time.Time                       `json:"detected_at"`
}
