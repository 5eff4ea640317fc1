package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/example/vocabengine/pkg/models"
)

func TestForMatch(t *testing.T) {
	tests := []struct {
		name       string
		match      MatchType
		responseMs int
		blank      bool
		want       int
	}{
		{"exact and fast", MatchExact, 1500, false, 5},
		{"exact at normal pace", MatchExact, 5000, false, 4},
		{"exact but slow", MatchExact, 9000, false, 3},
		{"case-only difference counts as correct", MatchCase, 2000, false, 5},
		{"accent slip is acceptable", MatchAccent, 1000, false, 3},
		{"synonym is acceptable", MatchSynonym, 2000, false, 3},
		{"typo is acceptable", MatchTypo, 2000, false, 3},
		{"wrong answer", MatchNone, 2000, false, 1},
		{"no answer at all", MatchNone, 0, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ForMatch(tt.match, tt.responseMs, tt.blank)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got, 0)
			assert.LessOrEqual(t, got, 5)
		})
	}
}

func TestErrorTypeFor(t *testing.T) {
	et, ok := ErrorTypeFor(MatchAccent)
	assert.True(t, ok)
	assert.Equal(t, models.ErrorAccent, et)

	et, ok = ErrorTypeFor(MatchTypo)
	assert.True(t, ok)
	assert.Equal(t, models.ErrorSpelling, et)

	et, ok = ErrorTypeFor(MatchNone)
	assert.True(t, ok)
	assert.Equal(t, models.ErrorWrong, et)

	_, ok = ErrorTypeFor(MatchExact)
	assert.False(t, ok, "correct answers produce no mistake record")
}
