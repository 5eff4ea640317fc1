package models

// RecommendationType identifies what kind of study action is suggested.
type RecommendationType string

const (
	RecommendStreakProtection RecommendationType = "streak_protection"
	RecommendWeakSpotDrill    RecommendationType = "weak_spot_drill"
	RecommendCategoryBootCamp RecommendationType = "category_boot_camp"
	RecommendDueReview        RecommendationType = "due_review"
	RecommendNewCards         RecommendationType = "new_cards"
)

// Recommendation is one entry of the daily plan. The Reason string is part
// of the contract: it is the audit trail for why the entry exists.
type Recommendation struct {
	Priority         int                `json:"priority"` // Lower number = higher priority
	Type             RecommendationType `json:"type"`
	Target           string             `json:"target"` // Category, error type or empty
	CardCount        int                `json:"card_count"`
	EstimatedMinutes int                `json:"estimated_minutes"`
	Reason           string             `json:"reason"`
}

// ModalityMix splits a session's cards across study modes.
type ModalityMix struct {
	Primary        StudyMode `json:"primary"`
	PrimaryCards   int       `json:"primary_cards"`
	Secondary      StudyMode `json:"secondary"` // Empty when no secondary style
	SecondaryCards int       `json:"secondary_cards"`
	MixedCards     int       `json:"mixed_cards"`
}

// SessionComposition is the concrete mix for the next study session. All
// counts are deterministic functions of the learner state.
type SessionComposition struct {
	TotalCards    int         `json:"total_cards"`
	NewCards      int         `json:"new_cards"`
	ReviewCards   int         `json:"review_cards"`
	WeaknessCards int         `json:"weakness_cards"`
	Modalities    ModalityMix `json:"modalities"`
	EasyCards     int         `json:"easy_cards"`
	MediumCards   int         `json:"medium_cards"`
	HardCards     int         `json:"hard_cards"`
}
