package models

import "time"

// Trend describes the recent direction of the global difficulty level.
type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// TriggerMetrics captures the measurements that caused an adjustment.
type TriggerMetrics struct {
	RollingAccuracy float64 `json:"rolling_accuracy"`
	AvgResponseMs   float64 `json:"avg_response_ms"`
	PerfectStreak   int     `json:"perfect_streak"`
}

// DifficultyAdjustment is one recorded change of the global level.
type DifficultyAdjustment struct {
	PreviousLevel int            `json:"previous_level"`
	NewLevel      int            `json:"new_level"`
	Reason        string         `json:"reason"`
	Metrics       TriggerMetrics `json:"metrics"`
	Timestamp     time.Time      `json:"timestamp"`
}

// DifficultyProfile is the learner's global difficulty state. Only the
// difficulty adjuster changes it; history is capped to bound memory.
type DifficultyProfile struct {
	GlobalLevel    int                    `json:"global_level"` // Bounded [MinLevel, MaxLevel]
	RecentTrend    Trend                  `json:"recent_trend"`
	LastAdjustment time.Time              `json:"last_adjustment"`
	History        []DifficultyAdjustment `json:"history"`
}

// NewDifficultyProfile returns the starting profile at the given level.
func NewDifficultyProfile(level int) DifficultyProfile {
	return DifficultyProfile{
		GlobalLevel: level,
		RecentTrend: TrendStable,
	}
}
