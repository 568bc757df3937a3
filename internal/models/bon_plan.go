package models

import "time"

// BonPlan is a local deal or promotion shared by a user
type BonPlan struct {
	Base
	UserID      uint       `gorm:"not null;index" json:"user_id"`
	Title       string     `gorm:"not null" json:"title"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	Category    string     `json:"category"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`

	// Relationships
	Reviews []Review `gorm:"foreignKey:BonPlanID" json:"reviews,omitempty"`
}

// Review is a user's rating of a bon plan
type Review struct {
	Base
	UserID    uint   `gorm:"not null;uniqueIndex:idx_review_user_plan" json:"user_id"`
	BonPlanID uint   `gorm:"not null;uniqueIndex:idx_review_user_plan" json:"bon_plan_id"`
	Rating    int    `gorm:"not null" json:"rating"` // 1-5
	Comment   string `json:"comment"`
}
