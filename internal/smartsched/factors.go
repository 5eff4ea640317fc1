// Package smartsched adjusts SM-2 base intervals with contextual factors:
// time-of-day fit, category difficulty, mistake recency, interference
// between confusable answers, and session fatigue. Each factor is computed
// independently and clamped to its own range, then all five are composed
// multiplicatively over the base interval.
package smartsched

import (
	"math"
	"time"

	"github.com/example/vocabengine/pkg/models"
)

// Config holds the bounds and penalties for the five factors
type Config struct {
	// Time-of-day factor range
	TimeOfDayMin float64
	TimeOfDayMax float64
	// Category difficulty factor range
	CategoryMin float64
	CategoryMax float64
	// Shrink per recent mistake on the card, and the floor for the factor
	MistakePenalty float64
	MistakeFloor   float64
	// Window in which mistakes count as recent
	MistakeWindow time.Duration
	// Fixed factor applied when the answer is part of a confusion pair
	InterferencePenalty float64
	// Cards per session before fatigue compensation starts
	FatigueThreshold int
	// Shrink per card over the threshold, and the floor for the factor
	FatiguePenaltyPerCard float64
	FatigueFloor          float64
}

// DefaultConfig returns the default smart scheduling configuration
func DefaultConfig() Config {
	return Config{
		TimeOfDayMin:          0.8,
		TimeOfDayMax:          1.2,
		CategoryMin:           0.85,
		CategoryMax:           1.15,
		MistakePenalty:        0.1,
		MistakeFloor:          0.7,
		MistakeWindow:         7 * 24 * time.Hour,
		InterferencePenalty:   0.85,
		FatigueThreshold:      20,
		FatiguePenaltyPerCard: 0.02,
		FatigueFloor:          0.8,
	}
}

// Context carries the aggregate snapshots the factors are computed from.
// Slightly stale aggregates are acceptable; the caller refreshes them on
// its own schedule.
type Context struct {
	Now time.Time
	// Historical accuracy per time-of-day bucket, 0.0-1.0
	BucketAccuracy map[models.TimeOfDay]float64
	// Average easiness factor per category
	CategoryAvgEase map[string]float64
	// Ease range across all categories, for relative placement
	GlobalMinEase float64
	GlobalMaxEase float64
	// Recent mistake log (all cards; filtered per card here)
	Mistakes []models.MistakeRecord
	// Currently known confusion pairs
	ConfusionPairs []models.ConfusionPair
	// Cards already answered in the running session
	SessionCardCount int
}

// Factors is the set of five independent interval multipliers
type Factors struct {
	TimeOfDay      float64
	Category       float64
	MistakeRecency float64
	Interference   float64
	Fatigue        float64
}

// Apply composes the factors over an SM-2 base interval. The result is
// always at least one day.
func (f Factors) Apply(baseInterval int) int {
	adjusted := float64(baseInterval) * f.TimeOfDay * f.Category * f.MistakeRecency * f.Interference * f.Fatigue
	final := int(math.Round(adjusted))
	if final < 1 {
		final = 1
	}
	return final
}

// Scheduler computes smart scheduling factors
type Scheduler struct {
	config Config
}

// New creates a scheduler with the given configuration
func New(config Config) *Scheduler {
	return &Scheduler{config: config}
}

// ComputeFactors evaluates all five factors for one card. The factors have
// no ordering dependency and can be computed in isolation.
func (s *Scheduler) ComputeFactors(card models.Flashcard, progress models.CardProgress, ctx Context) Factors {
	return Factors{
		TimeOfDay:      s.TimeOfDayFactor(ctx),
		Category:       s.CategoryFactor(card.Category, ctx),
		MistakeRecency: s.MistakeRecencyFactor(card.ID, ctx),
		Interference:   s.InterferenceFactor(card.Translation, ctx),
		Fatigue:        s.FatigueFactor(ctx.SessionCardCount),
	}
}

// TimeOfDayFactor maps the ratio of current-bucket accuracy to best-bucket
// accuracy into [TimeOfDayMin, TimeOfDayMax]. Learners reviewing in their
// strong hours get longer intervals.
func (s *Scheduler) TimeOfDayFactor(ctx Context) float64 {
	if len(ctx.BucketAccuracy) == 0 {
		return 1.0
	}

	best := 0.0
	for _, acc := range ctx.BucketAccuracy {
		if acc > best {
			best = acc
		}
	}
	if best <= 0 {
		return 1.0
	}

	current, ok := ctx.BucketAccuracy[models.BucketFor(ctx.Now)]
	if !ok {
		return 1.0
	}

	ratio := current / best
	return s.config.TimeOfDayMin + ratio*(s.config.TimeOfDayMax-s.config.TimeOfDayMin)
}

// CategoryFactor places the category's average ease within the global ease
// range. Harder categories (low ease) shrink the interval for more frequent
// review; easier ones extend it.
func (s *Scheduler) CategoryFactor(category string, ctx Context) float64 {
	avgEase, ok := ctx.CategoryAvgEase[category]
	if !ok {
		return 1.0
	}

	span := ctx.GlobalMaxEase - ctx.GlobalMinEase
	if span <= 0 {
		return 1.0
	}

	rel := (avgEase - ctx.GlobalMinEase) / span
	if rel < 0 {
		rel = 0
	}
	if rel > 1 {
		rel = 1
	}
	return s.config.CategoryMin + rel*(s.config.CategoryMax-s.config.CategoryMin)
}

// MistakeRecencyFactor shrinks the interval by a fixed penalty per recent
// mistake on this specific card, floored at the configured maximum penalty.
func (s *Scheduler) MistakeRecencyFactor(cardID int64, ctx Context) float64 {
	cutoff := ctx.Now.Add(-s.config.MistakeWindow)

	count := 0
	for _, m := range ctx.Mistakes {
		if m.CardID == cardID && m.Timestamp.After(cutoff) {
			count++
		}
	}

	factor := 1.0 - s.config.MistakePenalty*float64(count)
	if factor < s.config.MistakeFloor {
		factor = s.config.MistakeFloor
	}
	return factor
}

// InterferenceFactor applies a fixed shrink when the card's answer
// participates in a known confusion pair. Confusable items need tighter
// spacing to build discrimination.
func (s *Scheduler) InterferenceFactor(answer string, ctx Context) float64 {
	normalized := models.NormalizeAnswer(answer)
	for i := range ctx.ConfusionPairs {
		if ctx.ConfusionPairs[i].Involves(normalized) {
			return s.config.InterferencePenalty
		}
	}
	return 1.0
}

// FatigueFactor applies a growing shrink per card over the session
// threshold, floored at the configured maximum penalty. Late-session items
// get reviewed sooner to compensate for degraded encoding under fatigue.
func (s *Scheduler) FatigueFactor(sessionCardCount int) float64 {
	over := sessionCardCount - s.config.FatigueThreshold
	if over <= 0 {
		return 1.0
	}

	factor := 1.0 - s.config.FatiguePenaltyPerCard*float64(over)
	if factor < s.config.FatigueFloor {
		factor = s.config.FatigueFloor
	}
	return factor
}
