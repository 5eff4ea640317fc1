package spaced_repetition

import (
	"math"
	"sort"
	"time"

	"github.com/example/vocabengine/pkg/models"
)

// SM2 implements the SuperMemo-2 algorithm for spaced repetition
type SM2 struct {
	// Answers at or above this quality count as successful
	PassThreshold int
	// Maximum repetition interval in days
	MaxInterval int
	// Minimum easiness factor
	MinEase float64
	// Consecutive successes required to advance a mastery level
	MasteryStep int
}

// NewSM2 creates a new SM2 instance with default settings
func NewSM2() *SM2 {
	return &SM2{
		PassThreshold: 3,
		MaxInterval:   models.MaxIntervalDays,
		MinEase:       models.MinEaseFactor,
		MasteryStep:   3,
	}
}

// QualityResponse represents the quality of response in SM-2
type QualityResponse int

const (
	// Complete blackout, unable to recall
	QualityBlackout QualityResponse = 0
	// Incorrect response but remembered upon seeing the correct answer
	QualityIncorrect QualityResponse = 1
	// Incorrect response but the correct answer felt familiar
	QualityIncorrectFamiliar QualityResponse = 2
	// Correct response but required significant effort
	QualityCorrectDifficult QualityResponse = 3
	// Correct response after some hesitation
	QualityCorrectHesitation QualityResponse = 4
	// Perfect response with no hesitation
	QualityPerfect QualityResponse = 5
)

// clampQuality coerces out-of-range ratings to a neutral pass. Scheduling
// must stay total over whatever upstream validators emit.
func clampQuality(quality int) QualityResponse {
	if quality < 0 || quality > 5 {
		return QualityCorrectDifficult
	}
	return QualityResponse(quality)
}

// Schedule applies the SM-2 algorithm to a progress snapshot and returns the
// updated snapshot. The input is never mutated; identical inputs always
// produce identical outputs, so callers can run what-if previews safely.
func (sm *SM2) Schedule(progress models.CardProgress, quality int, now time.Time) models.CardProgress {
	q := clampQuality(quality)

	progress.LastQuality = int(q)
	progress.TotalReviews++

	// Update the easiness factor
	newEF := progress.EaseFactor + (0.1 - (5.0-float64(q))*(0.08+(5.0-float64(q))*0.02))
	if newEF < sm.MinEase {
		newEF = sm.MinEase
	}
	progress.EaseFactor = newEF

	if int(q) >= sm.PassThreshold {
		// Correct response
		progress.CorrectReviews++

		var nextInterval int
		switch progress.Repetitions {
		case 0:
			nextInterval = 1
		case 1:
			nextInterval = 6
		default:
			nextInterval = int(math.Round(float64(progress.Interval) * newEF))
		}

		if nextInterval > sm.MaxInterval {
			nextInterval = sm.MaxInterval
		}
		if nextInterval < 1 {
			nextInterval = 1
		}

		progress.Interval = nextInterval
		progress.Repetitions++
	} else {
		// Incorrect response - card re-enters short-term rotation
		progress.Repetitions = 0
		progress.Interval = 1
	}

	progress.MasteryLevel, progress.ConsecutiveCorrect =
		sm.advanceMastery(progress.MasteryLevel, progress.ConsecutiveCorrect, q)

	progress.LastReviewDate = &now
	progress.NextReviewDate = now.AddDate(0, 0, progress.Interval)
	progress.UpdatedAt = now

	return progress
}

// advanceMastery moves the 0-4 mastery gate. Three consecutive qualifying
// successes advance one level and reset the counter; a failure resets the
// counter but never demotes the level.
func (sm *SM2) advanceMastery(level, consecutive int, q QualityResponse) (int, int) {
	if int(q) < sm.PassThreshold {
		return level, 0
	}

	consecutive++
	if consecutive >= sm.MasteryStep {
		if level < models.MaxMasteryLevel {
			level++
		}
		return level, 0
	}
	return level, consecutive
}

// DueCards filters and prioritizes progress records due for review.
// Priority: never-reviewed cards first, then lowest easiness factor
// (hardest cards), then most overdue.
func (sm *SM2) DueCards(progress []models.CardProgress, now time.Time, limit int) []models.CardProgress {
	var due []models.CardProgress
	for _, p := range progress {
		if !p.NextReviewDate.After(now) {
			due = append(due, p)
		}
	}

	sort.SliceStable(due, func(i, j int) bool {
		if (due[i].TotalReviews == 0) != (due[j].TotalReviews == 0) {
			return due[i].TotalReviews == 0
		}
		if due[i].EaseFactor != due[j].EaseFactor {
			return due[i].EaseFactor < due[j].EaseFactor
		}
		return due[i].NextReviewDate.Before(due[j].NextReviewDate)
	})

	if limit > 0 && len(due) > limit {
		return due[:limit]
	}
	return due
}

// IsMastered determines if a card is considered fully learned: reviewed at
// least 5 times, last recall solid, and spaced at a month or more.
func (sm *SM2) IsMastered(progress *models.CardProgress) bool {
	return progress.Repetitions >= 5 &&
		progress.LastQuality >= int(QualityCorrectHesitation) &&
		progress.Interval >= 30
}
