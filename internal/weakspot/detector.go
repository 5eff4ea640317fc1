// Package weakspot mines aggregated performance for ranked problem areas.
// Four detectors run in a fixed order (category, error type, time-of-day,
// confusion pairs); each is gated by a minimum-sample threshold so small N
// never produces a verdict. Weak spots are recomputed wholesale on every
// pass and replace the previous set.
package weakspot

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/example/vocabengine/pkg/models"
)

// Config holds detection thresholds
type Config struct {
	// Category detector
	MinCategoryCards          int     // Reviewed cards required before judging a category
	CategoryEaseThreshold     float64 // Flag when average ease falls below this
	CategoryAccuracyThreshold float64 // Flag when rolling accuracy falls below this

	// Error-type detector
	RecentMistakeWindow int     // Most recent N mistakes considered
	MinRecentMistakes   int     // Mistakes required before judging error types
	DominanceThreshold  float64 // Share of one error type that counts as dominant

	// Time-based detector
	MinBucketSessions int     // Sessions per bucket required before comparing
	AccuracyGap       float64 // Gap to the best bucket that gets flagged

	// Confusion-pair detector
	ConfusionWarningCount  int
	ConfusionCriticalCount int

	// Severity cutoffs on the 0-100 score
	CriticalScore float64
	WarningScore  float64
}

// DefaultConfig returns the default detection thresholds
func DefaultConfig() Config {
	return Config{
		MinCategoryCards:          3,
		CategoryEaseThreshold:     2.2,
		CategoryAccuracyThreshold: 0.7,
		RecentMistakeWindow:       200,
		MinRecentMistakes:         10,
		DominanceThreshold:        0.3,
		MinBucketSessions:         3,
		AccuracyGap:               0.15,
		ConfusionWarningCount:     3,
		ConfusionCriticalCount:    5,
		CriticalScore:             70,
		WarningScore:              40,
	}
}

// Detector finds weak spots in learner performance
type Detector struct {
	config Config
}

// New creates a detector with the given thresholds
func New(config Config) *Detector {
	return &Detector{config: config}
}

// Detect runs all four detectors and returns weak spots sorted by score,
// highest first. Ties keep detector insertion order so results are
// deterministic for identical inputs.
func (d *Detector) Detect(
	cards []models.Flashcard,
	progress map[string]models.CardProgress,
	mistakes []models.MistakeRecord,
	sessions []models.SessionPerformanceRecord,
	pairs []models.ConfusionPair,
	now time.Time,
) []models.WeakSpot {
	var spots []models.WeakSpot
	spots = append(spots, d.detectCategories(cards, progress, now)...)
	spots = append(spots, d.detectErrorTypes(mistakes, now)...)
	spots = append(spots, d.detectTimeBased(sessions, now)...)
	spots = append(spots, d.detectConfusionPairs(pairs, mistakes, now)...)

	sort.SliceStable(spots, func(i, j int) bool {
		return spots[i].Score > spots[j].Score
	})
	return spots
}

type categoryStats struct {
	name          string
	reviewedCards int
	totalReviews  int
	correct       int
	easeSum       float64
	struggling    []int64
}

// detectCategories flags categories whose average ease or rolling accuracy
// falls below threshold. The score blends ease deficit (0-51), accuracy
// deficit (0-40) and struggling-card count (0-30), capped at 100.
func (d *Detector) detectCategories(cards []models.Flashcard, progress map[string]models.CardProgress, now time.Time) []models.WeakSpot {
	stats := make(map[string]*categoryStats)

	for _, card := range cards {
		for _, dir := range []models.Direction{models.DirectionForward, models.DirectionReverse} {
			p, ok := progress[models.ProgressKey(card.ID, dir)]
			if !ok || p.TotalReviews == 0 {
				continue
			}
			cs := stats[card.Category]
			if cs == nil {
				cs = &categoryStats{name: card.Category}
				stats[card.Category] = cs
			}
			cs.reviewedCards++
			cs.totalReviews += p.TotalReviews
			cs.correct += p.CorrectReviews
			cs.easeSum += p.EaseFactor
			if p.EaseFactor < models.DefaultEaseFactor-0.5 || p.Accuracy() < 0.6 {
				cs.struggling = append(cs.struggling, card.ID)
			}
		}
	}

	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	sort.Strings(names)

	var spots []models.WeakSpot
	for _, name := range names {
		cs := stats[name]
		if cs.reviewedCards < d.config.MinCategoryCards {
			continue
		}

		avgEase := cs.easeSum / float64(cs.reviewedCards)
		accuracy := float64(cs.correct) / float64(cs.totalReviews)
		if avgEase >= d.config.CategoryEaseThreshold && accuracy >= d.config.CategoryAccuracyThreshold {
			continue
		}

		easePts := 51 * clamp01((d.config.CategoryEaseThreshold-avgEase)/(d.config.CategoryEaseThreshold-models.MinEaseFactor))
		accPts := 40 * clamp01((d.config.CategoryAccuracyThreshold-accuracy)/d.config.CategoryAccuracyThreshold)
		strugglingPts := math.Min(30, float64(len(cs.struggling))*10)
		score := math.Min(100, easePts+accPts+strugglingPts)

		spots = append(spots, models.WeakSpot{
			ID:              fmt.Sprintf("category:%s", name),
			Type:            models.WeakSpotCategory,
			Target:          name,
			Severity:        d.severityFor(score),
			Score:           score,
			AffectedCardIDs: dedupe(cs.struggling),
			DetectedAt:      now,
		})
	}
	return spots
}

// detectErrorTypes flags any error type whose share of the most recent
// mistakes exceeds the dominance threshold.
func (d *Detector) detectErrorTypes(mistakes []models.MistakeRecord, now time.Time) []models.WeakSpot {
	recent := recentMistakes(mistakes, d.config.RecentMistakeWindow)
	if len(recent) < d.config.MinRecentMistakes {
		return nil
	}

	counts := make(map[models.ErrorType]int)
	affected := make(map[models.ErrorType][]int64)
	for _, m := range recent {
		counts[m.ErrorType]++
		affected[m.ErrorType] = append(affected[m.ErrorType], m.CardID)
	}

	types := make([]models.ErrorType, 0, len(counts))
	for et := range counts {
		types = append(types, et)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	var spots []models.WeakSpot
	for _, et := range types {
		share := float64(counts[et]) / float64(len(recent))
		if share <= d.config.DominanceThreshold {
			continue
		}
		score := math.Min(100, share*100)
		spots = append(spots, models.WeakSpot{
			ID:              fmt.Sprintf("error_type:%s", et),
			Type:            models.WeakSpotErrorType,
			Target:          string(et),
			Severity:        d.severityFor(score),
			Score:           score,
			AffectedCardIDs: dedupe(affected[et]),
			DetectedAt:      now,
		})
	}
	return spots
}

// detectTimeBased compares each time-of-day bucket against the best bucket.
// Findings are advisory only and never escalate past info severity.
func (d *Detector) detectTimeBased(sessions []models.SessionPerformanceRecord, now time.Time) []models.WeakSpot {
	type bucketStats struct {
		sessions int
		weighted float64
		cards    int
	}
	buckets := make(map[models.TimeOfDay]*bucketStats)
	for _, s := range sessions {
		bs := buckets[s.TimeOfDay]
		if bs == nil {
			bs = &bucketStats{}
			buckets[s.TimeOfDay] = bs
		}
		bs.sessions++
		bs.weighted += s.Accuracy * float64(s.CardsReviewed)
		bs.cards += s.CardsReviewed
	}

	accuracy := make(map[models.TimeOfDay]float64)
	best := 0.0
	for bucket, bs := range buckets {
		if bs.sessions < d.config.MinBucketSessions || bs.cards == 0 {
			continue
		}
		acc := bs.weighted / float64(bs.cards)
		accuracy[bucket] = acc
		if acc > best {
			best = acc
		}
	}
	if len(accuracy) < 2 {
		return nil
	}

	order := []models.TimeOfDay{models.Morning, models.Afternoon, models.Evening, models.Night}
	var spots []models.WeakSpot
	for _, bucket := range order {
		acc, ok := accuracy[bucket]
		if !ok {
			continue
		}
		gap := best - acc
		if gap < d.config.AccuracyGap {
			continue
		}
		spots = append(spots, models.WeakSpot{
			ID:         fmt.Sprintf("time_based:%s", bucket),
			Type:       models.WeakSpotTimeBased,
			Target:     string(bucket),
			Severity:   models.SeverityInfo,
			Score:      math.Min(100, gap*100),
			DetectedAt: now,
		})
	}
	return spots
}

// detectConfusionPairs surfaces pairs with enough mutual-confusion events.
func (d *Detector) detectConfusionPairs(pairs []models.ConfusionPair, mistakes []models.MistakeRecord, now time.Time) []models.WeakSpot {
	var spots []models.WeakSpot
	for _, pair := range pairs {
		if pair.Count < d.config.ConfusionWarningCount {
			continue
		}
		severity := models.SeverityWarning
		if pair.Count >= d.config.ConfusionCriticalCount {
			severity = models.SeverityCritical
		}

		var affected []int64
		for _, m := range mistakes {
			if pair.Involves(models.NormalizeAnswer(m.CorrectAnswer)) {
				affected = append(affected, m.CardID)
			}
		}

		spots = append(spots, models.WeakSpot{
			ID:              fmt.Sprintf("confusion:%s/%s", pair.AnswerA, pair.AnswerB),
			Type:            models.WeakSpotConfusion,
			Target:          fmt.Sprintf("%s / %s", pair.AnswerA, pair.AnswerB),
			Severity:        severity,
			Score:           math.Min(100, float64(pair.Count)*20),
			AffectedCardIDs: dedupe(affected),
			DetectedAt:      now,
		})
	}
	return spots
}

// DeriveConfusionPairs rebuilds confusion pairs from the mistake history.
// The derivation is idempotent: the same history always yields the same
// pairs. A pair exists once two answers have been mistaken for each other
// at least twice.
func DeriveConfusionPairs(mistakes []models.MistakeRecord) []models.ConfusionPair {
	type entry struct {
		a, b     string
		count    int
		lastSeen time.Time
	}
	byKey := make(map[string]*entry)

	for _, m := range mistakes {
		given := models.NormalizeAnswer(m.UserAnswer)
		correct := models.NormalizeAnswer(m.CorrectAnswer)
		if given == "" || correct == "" || given == correct {
			continue
		}

		a, b := given, correct
		if a > b {
			a, b = b, a
		}
		key := a + "\x00" + b
		e := byKey[key]
		if e == nil {
			e = &entry{a: a, b: b}
			byKey[key] = e
		}
		e.count++
		if m.Timestamp.After(e.lastSeen) {
			e.lastSeen = m.Timestamp
		}
	}

	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var pairs []models.ConfusionPair
	for _, k := range keys {
		e := byKey[k]
		if e.count < 2 {
			continue
		}
		pairs = append(pairs, models.ConfusionPair{
			AnswerA:  e.a,
			AnswerB:  e.b,
			Count:    e.count,
			LastSeen: e.lastSeen,
		})
	}
	return pairs
}

func (d *Detector) severityFor(score float64) models.Severity {
	switch {
	case score >= d.config.CriticalScore:
		return models.SeverityCritical
	case score >= d.config.WarningScore:
		return models.SeverityWarning
	default:
		return models.SeverityInfo
	}
}

// recentMistakes returns the newest n records by timestamp.
func recentMistakes(mistakes []models.MistakeRecord, n int) []models.MistakeRecord {
	sorted := make([]models.MistakeRecord, len(mistakes))
	copy(sorted, mistakes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.After(sorted[j].Timestamp)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func dedupe(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	var out []int64
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
