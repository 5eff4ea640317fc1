// Package difficulty maintains the learner's global difficulty level. The
// level moves at most one step per adjustment, driven by a recency-weighted
// rolling accuracy over the latest sessions and smoothed so a single
// unlucky or lucky session cannot make it oscillate.
package difficulty

import (
	"math"
	"sort"
	"time"

	"github.com/example/vocabengine/pkg/models"
)

// Adjustment reasons recorded in the profile history.
const (
	ReasonExcellent    = "excellent performance"
	ReasonStrongStreak = "strong streak"
	ReasonImproveFlow  = "adjusting to improve flow"
	ReasonReinforce    = "reinforce basics"
)

// Config holds the adjustment thresholds
type Config struct {
	// Sessions required before any adjustment happens
	MinSessions int
	// Rolling window size
	Window int
	// Accuracy thresholds for the decision table
	HighAccuracy   float64
	StrongAccuracy float64
	LowAccuracy    float64
	SlowAccuracy   float64
	// Response-time thresholds in milliseconds
	FastResponseMs float64
	SlowResponseMs float64
	// Perfect-streak thresholds
	StreakHigh      int
	StreakSecondary int
	// Smoothing factor applied to the proposed level
	Smoothing float64
	// Level bounds
	MinLevel int
	MaxLevel int
	// Maximum adjustment records kept in the profile
	HistoryCap int
}

// DefaultConfig returns the default adjustment configuration
func DefaultConfig() Config {
	return Config{
		MinSessions:     5,
		Window:          10,
		HighAccuracy:    0.9,
		StrongAccuracy:  0.85,
		LowAccuracy:     0.6,
		SlowAccuracy:    0.75,
		FastResponseMs:  3000,
		SlowResponseMs:  8000,
		StreakHigh:      5,
		StreakSecondary: 3,
		Smoothing:       0.6,
		MinLevel:        1,
		MaxLevel:        10,
		HistoryCap:      50,
	}
}

// Adjuster computes difficulty level changes
type Adjuster struct {
	config Config
}

// New creates an adjuster with the given configuration
func New(config Config) *Adjuster {
	return &Adjuster{config: config}
}

// Adjust evaluates the recent sessions and returns the updated profile.
// With fewer than MinSessions sessions the input is returned unchanged, and
// sessions already reflected in the last adjustment carry no new signal:
// re-running over unchanged history never moves the level again. The input
// profile is not mutated.
func (a *Adjuster) Adjust(profile models.DifficultyProfile, sessions []models.SessionPerformanceRecord, perfectStreak int, now time.Time) models.DifficultyProfile {
	if len(sessions) < a.config.MinSessions {
		return profile
	}
	if !profile.LastAdjustment.IsZero() && !newestSessionTime(sessions).After(profile.LastAdjustment) {
		return profile
	}

	window := recentWindow(sessions, a.config.Window)
	accuracy := rollingAccuracy(window)
	avgResponse := averageResponseMs(window)

	proposed, reason := a.propose(profile.GlobalLevel, accuracy, avgResponse, perfectStreak)

	// Smooth toward the proposal so one session cannot whipsaw the level
	smoothed := int(math.Round(float64(profile.GlobalLevel)*(1-a.config.Smoothing) + float64(proposed)*a.config.Smoothing))
	if smoothed < a.config.MinLevel {
		smoothed = a.config.MinLevel
	}
	if smoothed > a.config.MaxLevel {
		smoothed = a.config.MaxLevel
	}

	updated := profile
	updated.History = append([]models.DifficultyAdjustment(nil), profile.History...)

	switch {
	case smoothed > profile.GlobalLevel:
		updated.RecentTrend = models.TrendUp
	case smoothed < profile.GlobalLevel:
		updated.RecentTrend = models.TrendDown
	default:
		updated.RecentTrend = models.TrendStable
	}

	if smoothed != profile.GlobalLevel {
		updated.History = append(updated.History, models.DifficultyAdjustment{
			PreviousLevel: profile.GlobalLevel,
			NewLevel:      smoothed,
			Reason:        reason,
			Metrics: models.TriggerMetrics{
				RollingAccuracy: accuracy,
				AvgResponseMs:   avgResponse,
				PerfectStreak:   perfectStreak,
			},
			Timestamp: now,
		})
		if len(updated.History) > a.config.HistoryCap {
			updated.History = updated.History[len(updated.History)-a.config.HistoryCap:]
		}
		updated.GlobalLevel = smoothed
		updated.LastAdjustment = now
	}

	return updated
}

// propose applies the decision table in priority order, first match wins.
func (a *Adjuster) propose(current int, accuracy, avgResponseMs float64, perfectStreak int) (int, string) {
	switch {
	case accuracy > a.config.HighAccuracy && avgResponseMs <= a.config.FastResponseMs && perfectStreak >= a.config.StreakHigh:
		return current + 1, ReasonExcellent
	case accuracy >= a.config.StrongAccuracy && perfectStreak >= a.config.StreakSecondary:
		return current + 1, ReasonStrongStreak
	case accuracy < a.config.LowAccuracy:
		return current - 1, ReasonImproveFlow
	case avgResponseMs >= a.config.SlowResponseMs && accuracy < a.config.SlowAccuracy:
		return current - 1, ReasonReinforce
	default:
		return current, ""
	}
}

func newestSessionTime(sessions []models.SessionPerformanceRecord) time.Time {
	var newest time.Time
	for _, s := range sessions {
		if s.Timestamp.After(newest) {
			newest = s.Timestamp
		}
	}
	return newest
}

// recentWindow returns the newest n sessions in chronological order.
func recentWindow(sessions []models.SessionPerformanceRecord, n int) []models.SessionPerformanceRecord {
	sorted := make([]models.SessionPerformanceRecord, len(sessions))
	copy(sorted, sessions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})
	if len(sorted) > n {
		sorted = sorted[len(sorted)-n:]
	}
	return sorted
}

// rollingAccuracy weights sessions linearly, most recent highest.
func rollingAccuracy(window []models.SessionPerformanceRecord) float64 {
	if len(window) == 0 {
		return 0
	}
	var sum, weights float64
	for i, s := range window {
		w := float64(i + 1)
		sum += s.Accuracy * w
		weights += w
	}
	return sum / weights
}

func averageResponseMs(window []models.SessionPerformanceRecord) float64 {
	if len(window) == 0 {
		return 0
	}
	var sum float64
	for _, s := range window {
		sum += s.AverageResponseMs
	}
	return sum / float64(len(window))
}
