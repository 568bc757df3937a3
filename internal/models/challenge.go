package models

// ChallengeType represents the kind of savings challenge
type ChallengeType string

const (
	ChallengeTypeSavings           ChallengeType = "SAVINGS"
	ChallengeTypeSpendingReduction ChallengeType = "SPENDING_REDUCTION"
	ChallengeTypeNoSpend           ChallengeType = "NO_SPEND"
	ChallengeTypeCustom            ChallengeType = "CUSTOM"
)

// Challenge is a read-only catalog template describing a savings or
// spending goal. Catalog rows are seeded administratively.
type Challenge struct {
	Base
	Title       string        `gorm:"uniqueIndex;not null" json:"title"`
	Description string        `json:"description"`
	Type        ChallengeType `gorm:"not null" json:"type"`
	Goal        float64       `gorm:"not null" json:"goal"`
	Duration    int           `gorm:"not null" json:"duration"` // days
	Reward      string        `json:"reward"`
}
