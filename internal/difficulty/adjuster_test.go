package difficulty

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/vocabengine/pkg/models"
)

var now = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

// sessionsWith builds n sessions with uniform accuracy and response time,
// newest last.
func sessionsWith(n int, accuracy, responseMs float64) []models.SessionPerformanceRecord {
	var out []models.SessionPerformanceRecord
	for i := 0; i < n; i++ {
		out = append(out, models.SessionPerformanceRecord{
			Accuracy:          accuracy,
			AverageResponseMs: responseMs,
			CardsReviewed:     10,
			Timestamp:         now.Add(time.Duration(i-n) * time.Hour),
		})
	}
	return out
}

func TestAdjustColdStart(t *testing.T) {
	a := New(DefaultConfig())

	profile := models.NewDifficultyProfile(5)
	got := a.Adjust(profile, sessionsWith(4, 0.2, 9000), 0, now)
	assert.Equal(t, profile, got, "below minimum session count the profile is untouched")
}

func TestAdjustExcellentPerformance(t *testing.T) {
	a := New(DefaultConfig())

	profile := models.NewDifficultyProfile(5)
	got := a.Adjust(profile, sessionsWith(8, 0.95, 2000), 6, now)

	assert.Equal(t, 6, got.GlobalLevel)
	assert.Equal(t, models.TrendUp, got.RecentTrend)
	assert.Equal(t, now, got.LastAdjustment)
	require.Len(t, got.History, 1)
	assert.Equal(t, ReasonExcellent, got.History[0].Reason)
	assert.Equal(t, 5, got.History[0].PreviousLevel)
	assert.Equal(t, 6, got.History[0].NewLevel)
	assert.Equal(t, 6, got.History[0].Metrics.PerfectStreak)
	assert.Greater(t, got.History[0].Metrics.RollingAccuracy, 0.9)
}

func TestAdjustStrongStreak(t *testing.T) {
	a := New(DefaultConfig())

	// High accuracy but slow responses: rule 1 fails, rule 2 fires
	got := a.Adjust(models.NewDifficultyProfile(4), sessionsWith(8, 0.88, 6000), 3, now)
	assert.Equal(t, 5, got.GlobalLevel)
	require.Len(t, got.History, 1)
	assert.Equal(t, ReasonStrongStreak, got.History[0].Reason)
}

func TestAdjustLowAccuracyDecreases(t *testing.T) {
	a := New(DefaultConfig())

	got := a.Adjust(models.NewDifficultyProfile(5), sessionsWith(8, 0.5, 4000), 0, now)
	assert.Equal(t, 4, got.GlobalLevel)
	assert.Equal(t, models.TrendDown, got.RecentTrend)
	require.Len(t, got.History, 1)
	assert.Equal(t, ReasonImproveFlow, got.History[0].Reason)
}

func TestAdjustSlowAndMediocreDecreases(t *testing.T) {
	a := New(DefaultConfig())

	// Accuracy above the low threshold but slow responses
	got := a.Adjust(models.NewDifficultyProfile(5), sessionsWith(8, 0.7, 9000), 0, now)
	assert.Equal(t, 4, got.GlobalLevel)
	require.Len(t, got.History, 1)
	assert.Equal(t, ReasonReinforce, got.History[0].Reason)
}

func TestAdjustStablePerformanceUnchanged(t *testing.T) {
	a := New(DefaultConfig())

	profile := models.NewDifficultyProfile(5)
	got := a.Adjust(profile, sessionsWith(8, 0.8, 5000), 0, now)
	assert.Equal(t, 5, got.GlobalLevel)
	assert.Equal(t, models.TrendStable, got.RecentTrend)
	assert.Empty(t, got.History, "no record is appended when the level holds")
}

func TestAdjustRespectsLevelBounds(t *testing.T) {
	a := New(DefaultConfig())

	top := a.Adjust(models.NewDifficultyProfile(10), sessionsWith(8, 0.95, 2000), 8, now)
	assert.Equal(t, 10, top.GlobalLevel)

	bottom := a.Adjust(models.NewDifficultyProfile(1), sessionsWith(8, 0.2, 9000), 0, now)
	assert.Equal(t, 1, bottom.GlobalLevel)
}

func TestAdjustNeverMovesMoreThanOneStep(t *testing.T) {
	a := New(DefaultConfig())

	cases := [][]models.SessionPerformanceRecord{
		sessionsWith(10, 1.0, 1000),
		sessionsWith(10, 0.0, 20000),
		sessionsWith(10, 0.62, 7000),
	}
	for _, sessions := range cases {
		for level := 1; level <= 10; level++ {
			got := a.Adjust(models.NewDifficultyProfile(level), sessions, 10, now)
			diff := got.GlobalLevel - level
			if diff < 0 {
				diff = -diff
			}
			assert.LessOrEqual(t, diff, 1)
		}
	}
}

func TestAdjustDoesNotRecountOldSessions(t *testing.T) {
	a := New(DefaultConfig())

	// Strong history that proposes a raise, then repeated passes with no
	// new sessions: the level moves once and holds
	sessions := sessionsWith(8, 0.95, 2000)
	profile := models.NewDifficultyProfile(5)
	for i := 0; i < 5; i++ {
		profile = a.Adjust(profile, sessions, 6, now.Add(time.Duration(i)*time.Hour))
	}

	assert.Equal(t, 6, profile.GlobalLevel, "unchanged history must not keep raising the level")
	assert.Len(t, profile.History, 1)

	// A session newer than the last adjustment re-arms the adjuster
	fresh := append(sessions, models.SessionPerformanceRecord{
		Accuracy:          0.95,
		AverageResponseMs: 2000,
		CardsReviewed:     10,
		Timestamp:         now.Add(6 * time.Hour),
	})
	profile = a.Adjust(profile, fresh, 6, now.Add(7*time.Hour))
	assert.Equal(t, 7, profile.GlobalLevel)
}

func TestAdjustHistoryIsCapped(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HistoryCap = 3
	a := New(cfg)

	profile := models.NewDifficultyProfile(10)
	for i := 0; i < 6; i++ {
		profile = a.Adjust(profile, sessionsWith(8, 0.3, 9000), 0, now.Add(time.Duration(i)*time.Hour))
		// Bounce back up so every pass produces a change
		profile.GlobalLevel = 10
	}
	assert.LessOrEqual(t, len(profile.History), 3)
}

func TestAdjustDoesNotMutateInput(t *testing.T) {
	a := New(DefaultConfig())

	profile := models.NewDifficultyProfile(5)
	profile.History = []models.DifficultyAdjustment{{PreviousLevel: 4, NewLevel: 5}}

	_ = a.Adjust(profile, sessionsWith(8, 0.95, 2000), 6, now)
	assert.Equal(t, 5, profile.GlobalLevel)
	assert.Len(t, profile.History, 1)
}

func TestRollingAccuracyWeightsRecency(t *testing.T) {
	old := models.SessionPerformanceRecord{Accuracy: 0.2, Timestamp: now.Add(-2 * time.Hour)}
	recent := models.SessionPerformanceRecord{Accuracy: 1.0, Timestamp: now.Add(-1 * time.Hour)}

	acc := rollingAccuracy([]models.SessionPerformanceRecord{old, recent})
	// Weighted (0.2*1 + 1.0*2) / 3
	assert.InDelta(t, 0.7333, acc, 0.001)
	assert.Greater(t, acc, 0.6, "recent session dominates the plain mean")
}
