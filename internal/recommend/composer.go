// Package recommend turns the learner's aggregate state into a daily study
// plan and a concrete session composition. Every recommendation carries a
// human-readable reason; the reasons are the audit trail for why an entry
// exists. All ratios are deterministic functions of the learner state.
package recommend

import (
	"fmt"
	"math"
	"time"

	"github.com/example/vocabengine/pkg/models"
)

// Config holds composition tunables
type Config struct {
	// Maximum entries in the daily plan
	MaxRecommendations int
	// Streak length that triggers the protection nudge
	StreakThreshold int
	// Daily goal in cards when the caller has no explicit preference
	DefaultDailyGoal int
	// Seconds of study estimated per card
	SecondsPerCard int
	// Fixed share of a session devoted to weak-spot cards
	WeaknessRatio float64
}

// DefaultConfig returns the default composer configuration
func DefaultConfig() Config {
	return Config{
		MaxRecommendations: 5,
		StreakThreshold:    7,
		DefaultDailyGoal:   20,
		SecondsPerCard:     30,
		WeaknessRatio:      0.2,
	}
}

// State is the snapshot the composer plans from
type State struct {
	Now               time.Time
	Streak            models.StreakState
	WeakSpots         []models.WeakSpot
	Difficulty        models.DifficultyProfile
	Style             models.LearningStyleProfile
	DueCards          int
	NewCardsAvailable int
	DailyGoal         int
}

// primaryMode picks the representative study mode for a style.
var primaryMode = map[models.LearningStyle]models.StudyMode{
	models.StyleVisual:      models.ModeFlashcards,
	models.StyleAuditory:    models.ModeListening,
	models.StyleKinesthetic: models.ModeTyping,
	models.StyleReading:     models.ModeReading,
}

// Composer builds daily plans and session mixes
type Composer struct {
	config Config
}

// New creates a composer with the given configuration
func New(config Config) *Composer {
	return &Composer{config: config}
}

// DailyRecommendations produces the priority-ordered daily plan. Lower
// priority number means higher urgency.
func (c *Composer) DailyRecommendations(state State) []models.Recommendation {
	goal := state.DailyGoal
	if goal <= 0 {
		goal = c.config.DefaultDailyGoal
	}

	var recs []models.Recommendation

	// 1. Streak protection: a long active streak not yet exercised today
	if state.Streak.CurrentStreak >= c.config.StreakThreshold && !state.Streak.StudiedToday(state.Now) {
		count := minInt(10, maxInt(state.DueCards, 5))
		recs = append(recs, models.Recommendation{
			Priority:         1,
			Type:             models.RecommendStreakProtection,
			CardCount:        count,
			EstimatedMinutes: c.estimateMinutes(count),
			Reason: fmt.Sprintf("Your %d-day streak has not been exercised today; a short session keeps it alive",
				state.Streak.CurrentStreak),
		})
	}

	// 2. Up to two critical weak spots as targeted drills
	critical := 0
	for _, spot := range state.WeakSpots {
		if spot.Severity != models.SeverityCritical || critical == 2 {
			continue
		}
		critical++
		count := len(spot.AffectedCardIDs)
		if count == 0 || count > 10 {
			count = 10
		}
		recs = append(recs, models.Recommendation{
			Priority:         2,
			Type:             models.RecommendWeakSpotDrill,
			Target:           spot.Target,
			CardCount:        count,
			EstimatedMinutes: c.estimateMinutes(count),
			Reason: fmt.Sprintf("Critical weak spot %q (%s, score %.0f) needs targeted practice",
				spot.Target, spot.Type, spot.Score),
		})
	}

	// 3. One boot camp for the top warning-level weak category
	for _, spot := range state.WeakSpots {
		if spot.Severity != models.SeverityWarning || spot.Type != models.WeakSpotCategory {
			continue
		}
		count := minInt(15, maxInt(len(spot.AffectedCardIDs), 8))
		recs = append(recs, models.Recommendation{
			Priority:         3,
			Type:             models.RecommendCategoryBootCamp,
			Target:           spot.Target,
			CardCount:        count,
			EstimatedMinutes: c.estimateMinutes(count),
			Reason: fmt.Sprintf("Category %q is trending weak (score %.0f); a focused block stops the slide",
				spot.Target, spot.Score),
		})
		break
	}

	// 4. Standard due review sized to the daily goal
	if state.DueCards > 0 {
		count := minInt(state.DueCards, goal)
		recs = append(recs, models.Recommendation{
			Priority:         4,
			Type:             models.RecommendDueReview,
			CardCount:        count,
			EstimatedMinutes: c.estimateMinutes(count),
			Reason:           fmt.Sprintf("%d cards are due for review", state.DueCards),
		})
	}

	// 5. New cards when the due load leaves room under the goal
	if float64(state.DueCards) < 0.8*float64(goal) && state.NewCardsAvailable > 0 {
		count := minInt(state.NewCardsAvailable, goal-state.DueCards)
		if count > 0 {
			recs = append(recs, models.Recommendation{
				Priority:         5,
				Type:             models.RecommendNewCards,
				CardCount:        count,
				EstimatedMinutes: c.estimateMinutes(count),
				Reason: fmt.Sprintf("Due load is below %d%% of your daily goal; room for %d new cards",
					80, count),
			})
		}
	}

	if len(recs) > c.config.MaxRecommendations {
		recs = recs[:c.config.MaxRecommendations]
	}
	return recs
}

// SessionComposition computes the exact card mix for the next session. The
// counts always sum to totalCards; card selection within buckets may be
// random, the ratios never are.
func (c *Composer) SessionComposition(state State, totalCards int) models.SessionComposition {
	if totalCards < 1 {
		totalCards = 1
	}

	newRatio := newCardRatio(state.Difficulty.GlobalLevel)
	weaknessRatio := c.config.WeaknessRatio
	if len(state.WeakSpots) == 0 {
		weaknessRatio = 0
	}

	newCards := int(math.Round(float64(totalCards) * newRatio))
	weakness := int(math.Round(float64(totalCards) * weaknessRatio))
	review := totalCards - newCards - weakness
	if review < 0 {
		weakness += review
		review = 0
		if weakness < 0 {
			newCards += weakness
			weakness = 0
		}
	}

	comp := models.SessionComposition{
		TotalCards:    totalCards,
		NewCards:      newCards,
		ReviewCards:   review,
		WeaknessCards: weakness,
		Modalities:    c.modalityMix(state.Style, totalCards),
	}
	comp.EasyCards, comp.MediumCards, comp.HardCards = difficultySplit(state.Difficulty.GlobalLevel, totalCards)
	return comp
}

// modalityMix splits the session across the learner's primary and secondary
// styles with a remainder bucket for mixed practice.
func (c *Composer) modalityMix(style models.LearningStyleProfile, totalCards int) models.ModalityMix {
	if style.PrimaryStyle == "" {
		return models.ModalityMix{Primary: models.ModeMixed, PrimaryCards: 0, MixedCards: totalCards}
	}

	mix := models.ModalityMix{Primary: primaryMode[style.PrimaryStyle]}
	if style.SecondaryStyle != "" {
		mix.Secondary = primaryMode[style.SecondaryStyle]
		mix.PrimaryCards = int(math.Round(float64(totalCards) * 0.5))
		mix.SecondaryCards = int(math.Round(float64(totalCards) * 0.3))
	} else {
		mix.PrimaryCards = int(math.Round(float64(totalCards) * 0.6))
	}
	mix.MixedCards = totalCards - mix.PrimaryCards - mix.SecondaryCards
	if mix.MixedCards < 0 {
		mix.PrimaryCards += mix.MixedCards
		mix.MixedCards = 0
	}
	return mix
}

// newCardRatio rises with global difficulty: advanced learners absorb more
// new material per session.
func newCardRatio(level int) float64 {
	switch {
	case level >= 7:
		return 0.3
	case level >= 4:
		return 0.2
	default:
		return 0.1
	}
}

// difficultySplit shifts the easy/medium/hard card distribution toward hard
// as the global level rises. The three counts sum to totalCards exactly.
func difficultySplit(level, totalCards int) (easy, medium, hard int) {
	hardShare := 0.1 + 0.05*float64(level)
	if hardShare > 0.6 {
		hardShare = 0.6
	}
	easyShare := 0.5 - 0.04*float64(level)
	if easyShare < 0.1 {
		easyShare = 0.1
	}

	hard = int(math.Round(float64(totalCards) * hardShare))
	easy = int(math.Round(float64(totalCards) * easyShare))
	medium = totalCards - hard - easy
	if medium < 0 {
		easy += medium
		medium = 0
		if easy < 0 {
			hard += easy
			easy = 0
		}
	}
	return easy, medium, hard
}

func (c *Composer) estimateMinutes(cards int) int {
	seconds := cards * c.config.SecondsPerCard
	minutes := (seconds + 59) / 60
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
