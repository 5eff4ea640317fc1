// Package quality maps the external answer validator's verdict onto the 0-5
// SM-2 quality scale and an error classification. The engine never inspects
// answer strings itself; linguistic equivalence lives entirely upstream.
package quality

import "github.com/example/vocabengine/pkg/models"

// MatchType is the tagged result emitted by the answer validator.
type MatchType string

const (
	// MatchExact means a character-for-character match
	MatchExact MatchType = "exact"
	// MatchCase differs only in letter case
	MatchCase MatchType = "case"
	// MatchAccent differs only in diacritics
	MatchAccent MatchType = "accent"
	// MatchSynonym is an accepted alternative answer
	MatchSynonym MatchType = "synonym"
	// MatchTypo is within the accepted edit distance
	MatchTypo MatchType = "typo"
	// MatchNone is a wrong answer
	MatchNone MatchType = "none"
)

// Response-time cutoffs for the speed/correctness table, in milliseconds.
const (
	FastResponseMs = 3000
	SlowResponseMs = 8000
)

// ForMatch maps a validator verdict and response time to an SM-2 quality:
//
//	exact/case, fast        -> 5
//	exact/case              -> 4
//	exact/case, slow        -> 3
//	accent/synonym/typo     -> 3 (acceptable but imperfect)
//	none                    -> 1
//	no answer at all        -> 0 (callers pass MatchNone with Blank)
func ForMatch(match MatchType, responseMs int, blank bool) int {
	if blank {
		return 0
	}

	switch match {
	case MatchExact, MatchCase:
		switch {
		case responseMs <= FastResponseMs:
			return 5
		case responseMs >= SlowResponseMs:
			return 3
		default:
			return 4
		}
	case MatchAccent, MatchSynonym, MatchTypo:
		return 3
	default:
		return 1
	}
}

// ErrorTypeFor classifies a failed or imperfect answer for the mistake log.
// Exact and case matches produce no mistake record at all.
func ErrorTypeFor(match MatchType) (models.ErrorType, bool) {
	switch match {
	case MatchAccent:
		return models.ErrorAccent, true
	case MatchTypo:
		return models.ErrorSpelling, true
	case MatchNone:
		return models.ErrorWrong, true
	default:
		return "", false
	}
}
