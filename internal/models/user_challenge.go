package models

import "time"

// UserChallenge is a user's enrollment in a challenge template.
// A user may enroll in a given template at most once; Progress is the
// cumulative total of the ChallengeProgress log.
type UserChallenge struct {
	Base
	UserID      uint       `gorm:"not null;uniqueIndex:idx_user_challenge" json:"user_id"`
	ChallengeID uint       `gorm:"not null;uniqueIndex:idx_user_challenge" json:"challenge_id"`
	CategoryID  uint       `gorm:"not null" json:"category_id"`
	Progress    float64    `gorm:"not null;default:0" json:"progress"`
	StartDate   time.Time  `gorm:"not null" json:"start_date"`
	Completed   bool       `gorm:"default:false" json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// Relationships
	Challenge   Challenge           `gorm:"foreignKey:ChallengeID" json:"challenge"`
	Category    Category            `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	ProgressLog []ChallengeProgress `gorm:"foreignKey:UserChallengeID" json:"progress_log,omitempty"`
}

// ChallengeProgress is an append-only log entry of a progress increment
// recorded against a UserChallenge.
type ChallengeProgress struct {
	Base
	UserChallengeID uint      `gorm:"not null;index" json:"user_challenge_id"`
	Amount          float64   `gorm:"not null" json:"amount"`
	Date            time.Time `gorm:"not null" json:"date"`
}
