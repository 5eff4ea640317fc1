package spaced_repetition

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/vocabengine/pkg/models"
)

var testNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

func newProgress() models.CardProgress {
	return models.NewCardProgress(1, models.DirectionForward)
}

func TestScheduleFirstReviews(t *testing.T) {
	sm := NewSM2()

	// First successful review
	p := sm.Schedule(newProgress(), 4, testNow)
	assert.Equal(t, 1, p.Interval)
	assert.Equal(t, 1, p.Repetitions)
	assert.GreaterOrEqual(t, p.EaseFactor, 2.5)
	assert.Equal(t, 1, p.TotalReviews)
	assert.Equal(t, 1, p.CorrectReviews)
	assert.Equal(t, testNow.AddDate(0, 0, 1), p.NextReviewDate)

	// Second successful review
	p = sm.Schedule(p, 4, testNow.AddDate(0, 0, 1))
	assert.Equal(t, 6, p.Interval)
	assert.Equal(t, 2, p.Repetitions)

	// Third review uses interval * ease
	p = sm.Schedule(p, 5, testNow.AddDate(0, 0, 7))
	assert.InDelta(t, 2.6, p.EaseFactor, 0.001)
	assert.Equal(t, 16, p.Interval) // round(6 * 2.6)
	assert.Equal(t, 3, p.Repetitions)
}

func TestScheduleFailureResets(t *testing.T) {
	sm := NewSM2()

	p := newProgress()
	p.Repetitions = 5
	p.Interval = 300
	p.EaseFactor = 2.5

	p = sm.Schedule(p, 2, testNow)
	assert.Equal(t, 0, p.Repetitions)
	assert.Equal(t, 1, p.Interval)
	assert.Equal(t, 0, p.CorrectReviews)
	assert.Equal(t, 1, p.TotalReviews)
	assert.InDelta(t, 2.18, p.EaseFactor, 0.001)
}

func TestScheduleBounds(t *testing.T) {
	sm := NewSM2()

	t.Run("ease factor never drops below minimum", func(t *testing.T) {
		p := newProgress()
		for i := 0; i < 20; i++ {
			p = sm.Schedule(p, 0, testNow)
			assert.GreaterOrEqual(t, p.EaseFactor, models.MinEaseFactor)
		}
	})

	t.Run("interval never exceeds the cap", func(t *testing.T) {
		p := newProgress()
		for i := 0; i < 30; i++ {
			p = sm.Schedule(p, 5, testNow)
			assert.LessOrEqual(t, p.Interval, models.MaxIntervalDays)
			assert.GreaterOrEqual(t, p.Interval, 1)
		}
		assert.Equal(t, models.MaxIntervalDays, p.Interval)
	})

	t.Run("correct reviews never exceed total", func(t *testing.T) {
		p := newProgress()
		for i, q := range []int{5, 1, 4, 0, 3, 2, 5, 5} {
			p = sm.Schedule(p, q, testNow.AddDate(0, 0, i))
			assert.LessOrEqual(t, p.CorrectReviews, p.TotalReviews)
		}
	})
}

func TestScheduleInvalidQualityDefaultsToNeutralPass(t *testing.T) {
	sm := NewSM2()

	for _, q := range []int{-1, 6, 42} {
		p := sm.Schedule(newProgress(), q, testNow)
		assert.Equal(t, 3, p.LastQuality, "quality %d should coerce to 3", q)
		assert.Equal(t, 1, p.Repetitions)
		assert.Equal(t, 1, p.CorrectReviews)
	}
}

func TestScheduleDeterministic(t *testing.T) {
	sm := NewSM2()

	p := newProgress()
	p.Repetitions = 3
	p.Interval = 14
	p.EaseFactor = 2.1

	a := sm.Schedule(p, 4, testNow)
	b := sm.Schedule(p, 4, testNow)
	assert.Equal(t, a, b)

	// Input snapshot is untouched
	assert.Equal(t, 3, p.Repetitions)
	assert.Equal(t, 14, p.Interval)
}

func TestMasteryAdvancement(t *testing.T) {
	sm := NewSM2()

	t.Run("three consecutive successes advance one level", func(t *testing.T) {
		p := newProgress()
		p = sm.Schedule(p, 4, testNow)
		p = sm.Schedule(p, 3, testNow)
		assert.Equal(t, 0, p.MasteryLevel)
		assert.Equal(t, 2, p.ConsecutiveCorrect)

		p = sm.Schedule(p, 5, testNow)
		assert.Equal(t, 1, p.MasteryLevel)
		assert.Equal(t, 0, p.ConsecutiveCorrect, "counter resets on level-up")
	})

	t.Run("failure resets counter but never demotes", func(t *testing.T) {
		p := newProgress()
		p.MasteryLevel = 3
		p.ConsecutiveCorrect = 2

		p = sm.Schedule(p, 1, testNow)
		assert.Equal(t, 3, p.MasteryLevel)
		assert.Equal(t, 0, p.ConsecutiveCorrect)
	})

	t.Run("level caps at four", func(t *testing.T) {
		p := newProgress()
		for i := 0; i < 30; i++ {
			p = sm.Schedule(p, 5, testNow)
		}
		assert.Equal(t, models.MaxMasteryLevel, p.MasteryLevel)
	})

	t.Run("level is monotonically non-decreasing", func(t *testing.T) {
		p := newProgress()
		prev := 0
		for i, q := range []int{5, 5, 5, 0, 4, 4, 4, 1, 2, 5, 5, 5, 0, 5} {
			p = sm.Schedule(p, q, testNow.AddDate(0, 0, i))
			assert.GreaterOrEqual(t, p.MasteryLevel, prev)
			prev = p.MasteryLevel
		}
	})
}

func TestDueCards(t *testing.T) {
	sm := NewSM2()

	fresh := newProgress() // never reviewed, due immediately
	fresh.CardID = 1

	hard := newProgress()
	hard.CardID = 2
	hard.TotalReviews = 4
	hard.EaseFactor = 1.4
	hard.NextReviewDate = testNow.AddDate(0, 0, -2)

	easy := newProgress()
	easy.CardID = 3
	easy.TotalReviews = 4
	easy.EaseFactor = 2.8
	easy.NextReviewDate = testNow.AddDate(0, 0, -5)

	future := newProgress()
	future.CardID = 4
	future.NextReviewDate = testNow.AddDate(0, 0, 3)

	due := sm.DueCards([]models.CardProgress{easy, future, hard, fresh}, testNow, 0)
	require.Len(t, due, 3)
	assert.Equal(t, int64(1), due[0].CardID, "never-reviewed first")
	assert.Equal(t, int64(2), due[1].CardID, "then lowest ease")
	assert.Equal(t, int64(3), due[2].CardID)

	limited := sm.DueCards([]models.CardProgress{easy, hard, fresh}, testNow, 2)
	assert.Len(t, limited, 2)
}

func TestIsMastered(t *testing.T) {
	sm := NewSM2()

	p := newProgress()
	p.Repetitions = 5
	p.LastQuality = 4
	p.Interval = 30
	assert.True(t, sm.IsMastered(&p))

	p.Interval = 20
	assert.False(t, sm.IsMastered(&p))
}
