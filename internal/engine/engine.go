// Package engine wires the pure scheduling and analysis packages to the
// persistence layer. All I/O happens here, strictly before or after the
// pure computations; the core packages never touch storage.
package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/example/vocabengine/internal/database"
	"github.com/example/vocabengine/internal/difficulty"
	"github.com/example/vocabengine/internal/learningstyle"
	"github.com/example/vocabengine/internal/quality"
	"github.com/example/vocabengine/internal/recommend"
	"github.com/example/vocabengine/internal/smartsched"
	"github.com/example/vocabengine/internal/spaced_repetition"
	"github.com/example/vocabengine/internal/weakspot"
	"github.com/example/vocabengine/pkg/models"
)

// Config holds engine-level settings
type Config struct {
	// Cards per day the learner aims for
	DailyGoal int
	// Mistakes considered by the analyzers
	MistakeHistoryLimit int
	// Starting global difficulty for a fresh profile
	InitialDifficulty int
}

// DefaultConfig returns the default engine configuration
func DefaultConfig() Config {
	return Config{
		DailyGoal:           20,
		MistakeHistoryLimit: 500,
		InitialDifficulty:   3,
	}
}

// ReviewRequest carries one answered card into the engine
type ReviewRequest struct {
	CardID           int64
	Direction        models.Direction
	Match            quality.MatchType
	Blank            bool
	ResponseMs       int
	UserAnswer       string
	SessionCardCount int
}

// Engine combines the scheduler, the analyzers and the stores
type Engine struct {
	config Config

	sm2        *spaced_repetition.SM2
	smart      *smartsched.Scheduler
	detector   *weakspot.Detector
	adjuster   *difficulty.Adjuster
	classifier *learningstyle.Classifier
	composer   *recommend.Composer

	cards    *database.CardRepository
	progress *database.ProgressRepository
	mistakes *database.MistakeRepository
	sessions *database.SessionRepository
	streaks  *database.StreakRepository

	// Serializes updates per card+direction key: SM-2 is a
	// read-modify-write over one record
	locksMu sync.Mutex
	locks   map[string]*sync.Mutex

	// Aggregates refreshed by RunAnalysis; reads tolerate staleness
	aggMu          sync.RWMutex
	weakSpots      []models.WeakSpot
	confusionPairs []models.ConfusionPair
	diffProfile    models.DifficultyProfile
	styleProfile   models.LearningStyleProfile
}

// New creates a fully wired engine
func New(config Config) *Engine {
	return &Engine{
		config:      config,
		sm2:         spaced_repetition.NewSM2(),
		smart:       smartsched.New(smartsched.DefaultConfig()),
		detector:    weakspot.New(weakspot.DefaultConfig()),
		adjuster:    difficulty.New(difficulty.DefaultConfig()),
		classifier:  learningstyle.New(learningstyle.DefaultConfig()),
		composer:    recommend.New(recommend.DefaultConfig()),
		cards:       database.NewCardRepository(),
		progress:    database.NewProgressRepository(),
		mistakes:    database.NewMistakeRepository(),
		sessions:    database.NewSessionRepository(),
		streaks:     database.NewStreakRepository(),
		locks:       make(map[string]*sync.Mutex),
		diffProfile: models.NewDifficultyProfile(config.InitialDifficulty),
	}
}

// SubmitReview processes one answered card: SM-2 scheduling, smart-factor
// adjustment, mistake logging and progress persistence. Submissions for the
// same card+direction are serialized; different cards proceed in parallel.
func (e *Engine) SubmitReview(req ReviewRequest) (models.CardProgress, error) {
	lock := e.keyLock(models.ProgressKey(req.CardID, req.Direction))
	lock.Lock()
	defer lock.Unlock()

	now := time.Now()

	card, err := e.cards.GetByID(req.CardID)
	if err != nil {
		return models.CardProgress{}, fmt.Errorf("unknown card %d: %v", req.CardID, err)
	}

	progress, err := e.progress.Get(req.CardID, req.Direction)
	if err != nil {
		return models.CardProgress{}, err
	}

	q := quality.ForMatch(req.Match, req.ResponseMs, req.Blank)
	updated := e.sm2.Schedule(progress, q, now)

	ctx, err := e.factorContext(now, req.SessionCardCount)
	if err != nil {
		return models.CardProgress{}, err
	}
	factors := e.smart.ComputeFactors(*card, updated, ctx)
	final := factors.Apply(updated.Interval)
	if final > e.sm2.MaxInterval {
		final = e.sm2.MaxInterval
	}
	updated.Interval = final
	updated.NextReviewDate = now.AddDate(0, 0, final)

	if et, isMistake := quality.ErrorTypeFor(req.Match); isMistake {
		mistake := models.MistakeRecord{
			CardID:        req.CardID,
			Direction:     req.Direction,
			ErrorType:     et,
			UserAnswer:    req.UserAnswer,
			CorrectAnswer: expectedAnswer(card, req.Direction),
			Timestamp:     now,
		}
		if err := e.mistakes.Add(&mistake); err != nil {
			return models.CardProgress{}, err
		}
	}

	if err := e.progress.Upsert(&updated); err != nil {
		return models.CardProgress{}, err
	}
	return updated, nil
}

// expectedAnswer returns the side of the card the learner was asked for.
func expectedAnswer(card *models.Flashcard, direction models.Direction) string {
	if direction == models.DirectionReverse {
		return card.Term
	}
	return card.Translation
}

// factorContext assembles the aggregate snapshot for the smart scheduler.
func (e *Engine) factorContext(now time.Time, sessionCardCount int) (smartsched.Context, error) {
	bucketAccuracy, err := e.sessions.BucketAccuracy()
	if err != nil {
		return smartsched.Context{}, err
	}
	categoryEase, minEase, maxEase, err := e.progress.CategoryEaseStats()
	if err != nil {
		return smartsched.Context{}, err
	}
	recentMistakes, err := e.mistakes.Since(now.AddDate(0, 0, -7))
	if err != nil {
		return smartsched.Context{}, err
	}

	e.aggMu.RLock()
	pairs := e.confusionPairs
	e.aggMu.RUnlock()

	return smartsched.Context{
		Now:              now,
		BucketAccuracy:   bucketAccuracy,
		CategoryAvgEase:  categoryEase,
		GlobalMinEase:    minEase,
		GlobalMaxEase:    maxEase,
		Mistakes:         recentMistakes,
		ConfusionPairs:   pairs,
		SessionCardCount: sessionCardCount,
	}, nil
}

// RecordSession appends a completed session and advances the streak.
func (e *Engine) RecordSession(record models.SessionPerformanceRecord) error {
	if err := e.sessions.Add(&record); err != nil {
		return err
	}

	streak, err := e.streaks.Get()
	if err != nil {
		return err
	}
	advanced := AdvanceStreak(streak, record, record.Timestamp)
	return e.streaks.Save(&advanced)
}

// AdvanceStreak applies one completed session to the streak state. A study
// day extends the daily streak when the previous study day was yesterday,
// restarts it after a gap, and leaves it when already counted today. The
// perfect streak counts consecutive sessions at full accuracy.
func AdvanceStreak(streak models.StreakState, record models.SessionPerformanceRecord, now time.Time) models.StreakState {
	if !streak.StudiedToday(now) {
		if streak.LastStudyDate != nil && isYesterday(*streak.LastStudyDate, now) {
			streak.CurrentStreak++
		} else {
			streak.CurrentStreak = 1
		}
	}
	if streak.CurrentStreak > streak.LongestStreak {
		streak.LongestStreak = streak.CurrentStreak
	}

	if record.Accuracy >= 1.0 && record.CardsReviewed > 0 {
		streak.PerfectStreak++
	} else {
		streak.PerfectStreak = 0
	}

	t := now
	streak.LastStudyDate = &t
	return streak
}

func isYesterday(last, now time.Time) bool {
	y1, m1, d1 := last.AddDate(0, 0, 1).Date()
	y2, m2, d2 := now.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// RunAnalysis recomputes all aggregates from fresh snapshots: confusion
// pairs, weak spots, the difficulty profile and the learning-style profile.
// The aggregates may lag the very latest review; that staleness is by
// contract acceptable.
func (e *Engine) RunAnalysis(now time.Time) error {
	cards, err := e.cards.GetAll()
	if err != nil {
		return err
	}
	progress, err := e.progress.GetAll()
	if err != nil {
		return err
	}
	mistakes, err := e.mistakes.Recent(e.config.MistakeHistoryLimit)
	if err != nil {
		return err
	}
	sessions, err := e.sessions.All()
	if err != nil {
		return err
	}
	streak, err := e.streaks.Get()
	if err != nil {
		return err
	}

	pairs := weakspot.DeriveConfusionPairs(mistakes)
	spots := e.detector.Detect(cards, progress, mistakes, sessions, pairs, now)
	style := e.classifier.Detect(sessions, now)

	e.aggMu.Lock()
	defer e.aggMu.Unlock()
	e.confusionPairs = pairs
	e.weakSpots = spots
	e.styleProfile = style
	e.diffProfile = e.adjuster.Adjust(e.diffProfile, sessions, streak.PerfectStreak, now)
	return nil
}

// WeakSpots returns the last computed weak spots
func (e *Engine) WeakSpots() []models.WeakSpot {
	e.aggMu.RLock()
	defer e.aggMu.RUnlock()
	return e.weakSpots
}

// DifficultyProfile returns the last computed difficulty profile
func (e *Engine) DifficultyProfile() models.DifficultyProfile {
	e.aggMu.RLock()
	defer e.aggMu.RUnlock()
	return e.diffProfile
}

// StyleProfile returns the last computed learning-style profile
func (e *Engine) StyleProfile() models.LearningStyleProfile {
	e.aggMu.RLock()
	defer e.aggMu.RUnlock()
	return e.styleProfile
}

// planState assembles the composer input from current aggregates and counts.
func (e *Engine) planState(now time.Time) (recommend.State, error) {
	due, err := e.progress.CountDue(now)
	if err != nil {
		return recommend.State{}, err
	}
	unseen, err := e.cards.CountUnseen()
	if err != nil {
		return recommend.State{}, err
	}
	streak, err := e.streaks.Get()
	if err != nil {
		return recommend.State{}, err
	}

	e.aggMu.RLock()
	defer e.aggMu.RUnlock()
	return recommend.State{
		Now:               now,
		Streak:            streak,
		WeakSpots:         e.weakSpots,
		Difficulty:        e.diffProfile,
		Style:             e.styleProfile,
		DueCards:          due,
		NewCardsAvailable: unseen,
		DailyGoal:         e.config.DailyGoal,
	}, nil
}

// DailyDigest builds the priority-ordered daily recommendations.
func (e *Engine) DailyDigest(now time.Time) ([]models.Recommendation, error) {
	state, err := e.planState(now)
	if err != nil {
		return nil, err
	}
	return e.composer.DailyRecommendations(state), nil
}

// PlanSession computes the card mix for the next session.
func (e *Engine) PlanSession(now time.Time, totalCards int) (models.SessionComposition, error) {
	state, err := e.planState(now)
	if err != nil {
		return models.SessionComposition{}, err
	}
	return e.composer.SessionComposition(state, totalCards), nil
}

// SessionCards holds the concrete cards selected for one study session.
type SessionCards struct {
	Composition models.SessionComposition
	Review      []models.CardProgress
	New         []models.Flashcard
	Weakness    []models.Flashcard
}

// BuildSession materializes the planned composition into concrete cards:
// due reviews in study priority order, unseen cards for the new slots, and
// cards from the weakest category for the weakness slots.
func (e *Engine) BuildSession(now time.Time, totalCards int) (SessionCards, error) {
	comp, err := e.PlanSession(now, totalCards)
	if err != nil {
		return SessionCards{}, err
	}

	due, err := e.progress.GetDue(now)
	if err != nil {
		return SessionCards{}, err
	}
	review := e.sm2.DueCards(due, now, comp.ReviewCards)

	fresh, err := e.cards.GetUnseen(comp.NewCards)
	if err != nil {
		return SessionCards{}, err
	}

	var weakness []models.Flashcard
	if category := e.weakestCategory(); category != "" && comp.WeaknessCards > 0 {
		cards, err := e.cards.GetByCategory(category)
		if err != nil {
			return SessionCards{}, err
		}
		if len(cards) > comp.WeaknessCards {
			cards = cards[:comp.WeaknessCards]
		}
		weakness = cards
	}

	return SessionCards{Composition: comp, Review: review, New: fresh, Weakness: weakness}, nil
}

// weakestCategory returns the top-scored category weak spot, if any. Weak
// spots are already sorted by score.
func (e *Engine) weakestCategory() string {
	e.aggMu.RLock()
	defer e.aggMu.RUnlock()
	for _, spot := range e.weakSpots {
		if spot.Type == models.WeakSpotCategory {
			return spot.Target
		}
	}
	return ""
}

// PreviewSchedule runs the scheduler without persisting anything, for
// what-if displays.
func (e *Engine) PreviewSchedule(progress models.CardProgress, q int, now time.Time) models.CardProgress {
	return e.sm2.Schedule(progress, q, now)
}

// DueCount reports how many cards are currently due.
func (e *Engine) DueCount(now time.Time) (int, error) {
	return e.progress.CountDue(now)
}

func (e *Engine) keyLock(key string) *sync.Mutex {
	e.locksMu.Lock()
	defer e.locksMu.Unlock()
	lock, ok := e.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		e.locks[key] = lock
	}
	return lock
}
