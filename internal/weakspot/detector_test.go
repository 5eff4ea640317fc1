package weakspot

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/vocabengine/pkg/models"
)

var now = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

func mistakeAt(cardID int64, et models.ErrorType, ago time.Duration) models.MistakeRecord {
	return models.MistakeRecord{
		CardID:    cardID,
		ErrorType: et,
		Timestamp: now.Add(-ago),
	}
}

func TestErrorTypeDominance(t *testing.T) {
	d := New(DefaultConfig())

	// 10 recent mistakes, 4 of them accent errors (40% > 30% threshold)
	var mistakes []models.MistakeRecord
	for i := 0; i < 4; i++ {
		mistakes = append(mistakes, mistakeAt(int64(i), models.ErrorAccent, time.Duration(i)*time.Hour))
	}
	for i := 4; i < 7; i++ {
		mistakes = append(mistakes, mistakeAt(int64(i), models.ErrorSpelling, time.Duration(i)*time.Hour))
	}
	for i := 7; i < 10; i++ {
		mistakes = append(mistakes, mistakeAt(int64(i), models.ErrorWrong, time.Duration(i)*time.Hour))
	}

	spots := d.Detect(nil, nil, mistakes, nil, nil, now)
	require.Len(t, spots, 1)
	assert.Equal(t, models.WeakSpotErrorType, spots[0].Type)
	assert.Equal(t, "accent", spots[0].Target)
	assert.InDelta(t, 40, spots[0].Score, 0.001)
	assert.Equal(t, models.SeverityWarning, spots[0].Severity)
	assert.Len(t, spots[0].AffectedCardIDs, 4)
}

func TestErrorTypeBelowMinimumSampleIsSilent(t *testing.T) {
	d := New(DefaultConfig())

	// 9 mistakes, all the same type: dominant but under the sample gate
	var mistakes []models.MistakeRecord
	for i := 0; i < 9; i++ {
		mistakes = append(mistakes, mistakeAt(int64(i), models.ErrorGender, time.Hour))
	}

	spots := d.Detect(nil, nil, mistakes, nil, nil, now)
	assert.Empty(t, spots)
}

func TestCategoryDetection(t *testing.T) {
	d := New(DefaultConfig())

	cards := []models.Flashcard{
		{ID: 1, Category: "verbs"},
		{ID: 2, Category: "verbs"},
		{ID: 3, Category: "verbs"},
		{ID: 4, Category: "colors"},
		{ID: 5, Category: "colors"},
		{ID: 6, Category: "colors"},
	}

	progress := make(map[string]models.CardProgress)
	addProgress := func(cardID int64, ease float64, total, correct int) {
		p := models.NewCardProgress(cardID, models.DirectionForward)
		p.EaseFactor = ease
		p.TotalReviews = total
		p.CorrectReviews = correct
		progress[p.Key()] = p
	}

	// Struggling verbs: low ease, low accuracy
	addProgress(1, 1.5, 10, 4)
	addProgress(2, 1.6, 10, 5)
	addProgress(3, 1.7, 10, 5)
	// Healthy colors
	addProgress(4, 2.6, 10, 9)
	addProgress(5, 2.7, 10, 10)
	addProgress(6, 2.5, 10, 9)

	spots := d.Detect(cards, progress, nil, nil, nil, now)
	require.Len(t, spots, 1)
	assert.Equal(t, models.WeakSpotCategory, spots[0].Type)
	assert.Equal(t, "verbs", spots[0].Target)
	assert.Greater(t, spots[0].Score, 50.0)
	assert.LessOrEqual(t, spots[0].Score, 100.0)
	assert.Equal(t, []int64{1, 2, 3}, spots[0].AffectedCardIDs)
}

func TestCategoryBelowMinimumCardsIsSilent(t *testing.T) {
	d := New(DefaultConfig())

	cards := []models.Flashcard{{ID: 1, Category: "verbs"}, {ID: 2, Category: "verbs"}}
	progress := make(map[string]models.CardProgress)
	for _, id := range []int64{1, 2} {
		p := models.NewCardProgress(id, models.DirectionForward)
		p.EaseFactor = 1.3
		p.TotalReviews = 10
		p.CorrectReviews = 2
		progress[p.Key()] = p
	}

	spots := d.Detect(cards, progress, nil, nil, nil, now)
	assert.Empty(t, spots)
}

func TestTimeBasedDetection(t *testing.T) {
	d := New(DefaultConfig())

	session := func(bucket models.TimeOfDay, acc float64) models.SessionPerformanceRecord {
		return models.SessionPerformanceRecord{
			TimeOfDay:     bucket,
			Accuracy:      acc,
			CardsReviewed: 10,
			Timestamp:     now,
		}
	}

	var sessions []models.SessionPerformanceRecord
	for i := 0; i < 4; i++ {
		sessions = append(sessions, session(models.Morning, 0.95))
		sessions = append(sessions, session(models.Night, 0.6))
	}

	spots := d.Detect(nil, nil, nil, sessions, nil, now)
	require.Len(t, spots, 1)
	assert.Equal(t, models.WeakSpotTimeBased, spots[0].Type)
	assert.Equal(t, "night", spots[0].Target)
	assert.Equal(t, models.SeverityInfo, spots[0].Severity, "time-based findings are advisory only")
	assert.InDelta(t, 35, spots[0].Score, 0.5)
}

func TestTimeBasedRequiresEnoughSessionsPerBucket(t *testing.T) {
	d := New(DefaultConfig())

	sessions := []models.SessionPerformanceRecord{
		{TimeOfDay: models.Morning, Accuracy: 0.95, CardsReviewed: 10},
		{TimeOfDay: models.Night, Accuracy: 0.4, CardsReviewed: 10},
	}
	spots := d.Detect(nil, nil, nil, sessions, nil, now)
	assert.Empty(t, spots)
}

func TestConfusionPairDetection(t *testing.T) {
	d := New(DefaultConfig())

	pairs := []models.ConfusionPair{
		{AnswerA: "estar", AnswerB: "ser", Count: 3, LastSeen: now},
		{AnswerA: "por", AnswerB: "para", Count: 6, LastSeen: now},
		{AnswerA: "este", AnswerB: "esto", Count: 2, LastSeen: now}, // below warning gate
	}

	spots := d.Detect(nil, nil, nil, nil, pairs, now)
	require.Len(t, spots, 2)

	// Sorted by score: por/para (120 capped to 100) first
	assert.Equal(t, "por / para", spots[0].Target)
	assert.Equal(t, models.SeverityCritical, spots[0].Severity)
	assert.Equal(t, 100.0, spots[0].Score)

	assert.Equal(t, "estar / ser", spots[1].Target)
	assert.Equal(t, models.SeverityWarning, spots[1].Severity)
	assert.Equal(t, 60.0, spots[1].Score)
}

func TestDetectSortsByScoreDescending(t *testing.T) {
	d := New(DefaultConfig())

	var mistakes []models.MistakeRecord
	for i := 0; i < 12; i++ {
		mistakes = append(mistakes, mistakeAt(int64(i), models.ErrorAccent, time.Hour))
	}
	pairs := []models.ConfusionPair{{AnswerA: "a", AnswerB: "b", Count: 3, LastSeen: now}}

	spots := d.Detect(nil, nil, mistakes, nil, pairs, now)
	require.Len(t, spots, 2)
	for i := 1; i < len(spots); i++ {
		assert.GreaterOrEqual(t, spots[i-1].Score, spots[i].Score)
	}
}

func TestDeriveConfusionPairs(t *testing.T) {
	mistake := func(user, correct string, ago time.Duration) models.MistakeRecord {
		return models.MistakeRecord{
			UserAnswer:    user,
			CorrectAnswer: correct,
			Timestamp:     now.Add(-ago),
		}
	}

	mistakes := []models.MistakeRecord{
		mistake("ser", "estar", 48*time.Hour),
		mistake("Estar ", "ser", 24*time.Hour), // normalization folds case and space
		mistake("ser", "estar", 2*time.Hour),
		mistake("rojo", "verde", time.Hour), // only once, no pair
		mistake("", "algo", time.Hour),      // blank answers ignored
		mistake("mismo", "mismo", time.Hour),
	}

	pairs := DeriveConfusionPairs(mistakes)
	require.Len(t, pairs, 1)
	assert.Equal(t, "estar", pairs[0].AnswerA)
	assert.Equal(t, "ser", pairs[0].AnswerB)
	assert.Equal(t, 3, pairs[0].Count)
	assert.Equal(t, now.Add(-2*time.Hour), pairs[0].LastSeen)

	// Idempotent: same history, same result
	again := DeriveConfusionPairs(mistakes)
	assert.Equal(t, pairs, again)
}

func TestRecentMistakeWindowLimitsHistory(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RecentMistakeWindow = 10
	d := New(cfg)

	// Old history is all accent; recent 10 are evenly mixed, so nothing dominates
	var mistakes []models.MistakeRecord
	for i := 0; i < 40; i++ {
		mistakes = append(mistakes, mistakeAt(int64(i), models.ErrorAccent, time.Duration(100+i)*time.Hour))
	}
	for i := 0; i < 3; i++ {
		mistakes = append(mistakes, mistakeAt(int64(i), models.ErrorSpelling, time.Duration(i)*time.Minute))
		mistakes = append(mistakes, mistakeAt(int64(i), models.ErrorGender, time.Duration(i)*time.Minute))
		mistakes = append(mistakes, mistakeAt(int64(i), models.ErrorWrong, time.Duration(i)*time.Minute))
	}
	mistakes = append(mistakes, mistakeAt(99, models.ErrorAccent, time.Minute))

	spots := d.Detect(nil, nil, mistakes, nil, nil, now)
	for _, s := range spots {
		assert.NotEqual(t, fmt.Sprintf("error_type:%s", models.ErrorAccent), s.ID,
			"old mistakes outside the window must not dominate")
	}
}
