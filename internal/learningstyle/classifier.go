// Package learningstyle infers which practice modalities work best for the
// learner and maps them onto the four classic style buckets. The profile is
// recomputed wholesale from the session history on each pass.
package learningstyle

import (
	"math"
	"sort"
	"time"

	"github.com/example/vocabengine/pkg/models"
)

// styleOrder fixes ranking tie-breaks so identical inputs always produce
// the same profile.
var styleOrder = []models.LearningStyle{
	models.StyleVisual,
	models.StyleAuditory,
	models.StyleKinesthetic,
	models.StyleReading,
}

// modeStyles maps each study modality to its style bucket. Mixed sessions
// carry no style signal and are excluded.
var modeStyles = map[models.StudyMode]models.LearningStyle{
	models.ModeFlashcards:     models.StyleVisual,
	models.ModeMultipleChoice: models.StyleVisual,
	models.ModeListening:      models.StyleAuditory,
	models.ModeTyping:         models.StyleKinesthetic,
	models.ModeReading:        models.StyleReading,
}

// Config holds the classification thresholds and weights
type Config struct {
	// Total sessions required before any inference is made
	MinTotalSessions int
	// Sessions per modality required before it is scored
	MinModeSessions int
	// Effectiveness weights, summing to 1
	AccuracyWeight  float64
	RetentionWeight float64
	QualityWeight   float64
	SpeedWeight     float64
	// Minimum score for a secondary style to be declared
	SecondaryThreshold float64
	// Session count at which confidence saturates at 100
	ConfidenceSaturation int
}

// DefaultConfig returns the default classifier configuration
func DefaultConfig() Config {
	return Config{
		MinTotalSessions:     10,
		MinModeSessions:      3,
		AccuracyWeight:       0.35,
		RetentionWeight:      0.25,
		QualityWeight:        0.2,
		SpeedWeight:          0.2,
		SecondaryThreshold:   40,
		ConfidenceSaturation: 50,
	}
}

// Classifier infers learning styles from session history
type Classifier struct {
	config Config
}

// New creates a classifier with the given configuration
func New(config Config) *Classifier {
	return &Classifier{config: config}
}

// Detect builds a fresh learning-style profile from the session history.
// Below the minimum session count a neutral profile is returned instead of
// a false-confidence inference.
func (c *Classifier) Detect(sessions []models.SessionPerformanceRecord, now time.Time) models.LearningStyleProfile {
	if len(sessions) < c.config.MinTotalSessions {
		return c.neutralProfile(len(sessions), now)
	}

	modeEff := c.scoreModes(sessions)
	styleScores := c.scoreStyles(modeEff)

	ranked := make([]models.LearningStyle, len(styleOrder))
	copy(ranked, styleOrder)
	sort.SliceStable(ranked, func(i, j int) bool {
		return styleScores[ranked[i]] > styleScores[ranked[j]]
	})

	profile := models.LearningStyleProfile{
		StyleScores:       styleScores,
		ModeEffectiveness: modeEff,
		ConfidenceLevel:   c.confidence(len(sessions)),
		DetectedAt:        now,
	}

	if styleScores[ranked[0]] > 0 {
		profile.PrimaryStyle = ranked[0]
	}
	if styleScores[ranked[1]] >= c.config.SecondaryThreshold {
		profile.SecondaryStyle = ranked[1]
	}
	return profile
}

// scoreModes computes a composite effectiveness per modality with enough
// sessions: accuracy, a retention proxy, average quality and a speed score,
// each weighted.
func (c *Classifier) scoreModes(sessions []models.SessionPerformanceRecord) map[models.StudyMode]models.ModeEffectiveness {
	type agg struct {
		count      int
		accuracy   float64
		quality    float64
		responseMs float64
	}
	byMode := make(map[models.StudyMode]*agg)
	for _, s := range sessions {
		a := byMode[s.Mode]
		if a == nil {
			a = &agg{}
			byMode[s.Mode] = a
		}
		a.count++
		a.accuracy += s.Accuracy
		a.quality += s.AverageQuality
		a.responseMs += s.AverageResponseMs
	}

	out := make(map[models.StudyMode]models.ModeEffectiveness)
	for mode, a := range byMode {
		if a.count < c.config.MinModeSessions {
			continue
		}
		n := float64(a.count)
		accuracy := a.accuracy / n
		quality := a.quality / n
		responseMs := a.responseMs / n
		retention := retentionProxy(quality)
		speed := speedScore(responseMs)

		effectiveness := c.config.AccuracyWeight*accuracy*100 +
			c.config.RetentionWeight*retention +
			c.config.QualityWeight*(quality/5)*100 +
			c.config.SpeedWeight*speed

		out[mode] = models.ModeEffectiveness{
			Sessions:      a.count,
			Accuracy:      accuracy,
			Retention:     retention,
			AvgResponseMs: responseMs,
			AvgQuality:    quality,
			Effectiveness: math.Min(100, effectiveness),
		}
	}
	return out
}

// scoreStyles averages the effectiveness of each style's member modalities.
func (c *Classifier) scoreStyles(modeEff map[models.StudyMode]models.ModeEffectiveness) map[models.LearningStyle]float64 {
	sums := make(map[models.LearningStyle]float64)
	counts := make(map[models.LearningStyle]int)
	for mode, eff := range modeEff {
		style, ok := modeStyles[mode]
		if !ok {
			continue
		}
		sums[style] += eff.Effectiveness
		counts[style]++
	}

	scores := make(map[models.LearningStyle]float64, len(styleOrder))
	for _, style := range styleOrder {
		if counts[style] > 0 {
			scores[style] = sums[style] / float64(counts[style])
		} else {
			scores[style] = 0
		}
	}
	return scores
}

func (c *Classifier) neutralProfile(sessionCount int, now time.Time) models.LearningStyleProfile {
	scores := make(map[models.LearningStyle]float64, len(styleOrder))
	for _, style := range styleOrder {
		scores[style] = 50
	}
	return models.LearningStyleProfile{
		StyleScores:       scores,
		ModeEffectiveness: map[models.StudyMode]models.ModeEffectiveness{},
		ConfidenceLevel:   c.confidence(sessionCount),
		DetectedAt:        now,
	}
}

// confidence scales with sample size toward the saturation point.
func (c *Classifier) confidence(sessionCount int) float64 {
	if sessionCount >= c.config.ConfidenceSaturation {
		return 100
	}
	return float64(sessionCount) / float64(c.config.ConfidenceSaturation) * 100
}

// retentionProxy maps average quality onto a bounded 0-100 retention
// estimate. Saturating keeps a run of perfect sessions from implying
// perfect recall forever.
func retentionProxy(avgQuality float64) float64 {
	if avgQuality <= 0 {
		return 0
	}
	return 100 * (1 - math.Exp(-avgQuality/2))
}

// speedScore rewards faster answers, floored at 0.
func speedScore(avgResponseMs float64) float64 {
	score := 100 - avgResponseMs/100
	if score < 0 {
		return 0
	}
	return score
}
